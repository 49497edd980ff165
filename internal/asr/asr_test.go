package asr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/encryptabit/ams/internal/amserr"
	"github.com/encryptabit/ams/internal/model"
)

func writeTempAudio(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "chapter01.wav")
	if err := os.WriteFile(path, []byte("RIFF....WAVEfmt "), 0o644); err != nil {
		t.Fatalf("failed to write temp audio: %v", err)
	}
	return path
}

func TestHTTPTranscriber_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcribe" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected authorization: %s", auth)
		}

		resp := model.AsrResponse{
			ModelVersion: "whisper-large-v3",
			Tokens: []model.AsrToken{
				{Start: 0.0, Duration: 0.3, Text: "chapter"},
				{Start: 0.3, Duration: 0.2, Text: "one"},
			},
			Segments: []any{},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	tr := NewHTTPTranscriber(HTTPConfig{BaseURL: server.URL, APIKey: "test-key", MaxAttempts: 1})
	audioPath := writeTempAudio(t)

	resp, err := tr.Transcribe(context.Background(), audioPath, Options{ChapterID: "ch01"})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if len(resp.Tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(resp.Tokens))
	}
	if resp.Tokens[1].Text != "one" {
		t.Errorf("unexpected second token: %q", resp.Tokens[1].Text)
	}
	if resp.ChapterID != "ch01" {
		t.Errorf("expected chapterId ch01, got %q", resp.ChapterID)
	}
}

func TestHTTPTranscriber_RetriesTransientThenSucceeds(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		resp := model.AsrResponse{ModelVersion: "v1", Tokens: []model.AsrToken{{Text: "hi"}}, Segments: []any{}}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	tr := NewHTTPTranscriber(HTTPConfig{BaseURL: server.URL, MaxAttempts: 3, RequestsPerSecond: 1000})
	audioPath := writeTempAudio(t)

	resp, err := tr.Transcribe(context.Background(), audioPath, Options{ChapterID: "ch01"})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
	if len(resp.Tokens) != 1 {
		t.Fatalf("expected 1 token, got %d", len(resp.Tokens))
	}
}

func TestHTTPTranscriber_FatalDoesNotRetry(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	tr := NewHTTPTranscriber(HTTPConfig{BaseURL: server.URL, MaxAttempts: 5, RequestsPerSecond: 1000})
	audioPath := writeTempAudio(t)

	_, err := tr.Transcribe(context.Background(), audioPath, Options{ChapterID: "ch01"})
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if amserr.KindOf(err) != amserr.ExternalFatal {
		t.Errorf("expected ExternalFatal, got %v", amserr.KindOf(err))
	}
	if attempts != 1 {
		t.Errorf("expected exactly 1 attempt for a fatal error, got %d", attempts)
	}
}

func TestMockTranscriber(t *testing.T) {
	t.Run("default response", func(t *testing.T) {
		m := &MockTranscriber{}
		resp, err := m.Transcribe(context.Background(), "audio.wav", Options{ChapterID: "ch02"})
		if err != nil {
			t.Fatalf("Transcribe() error = %v", err)
		}
		if resp.ChapterID != "ch02" {
			t.Errorf("expected chapterId ch02, got %q", resp.ChapterID)
		}
	})

	t.Run("fail after N", func(t *testing.T) {
		m := &MockTranscriber{FailAfter: 1}
		if _, err := m.Transcribe(context.Background(), "a.wav", Options{}); err != nil {
			t.Fatalf("first call should succeed, got %v", err)
		}
		if _, err := m.Transcribe(context.Background(), "a.wav", Options{}); err == nil {
			t.Fatal("expected error on second call")
		}
	})
}
