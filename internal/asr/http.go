package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/time/rate"

	"github.com/encryptabit/ams/internal/amserr"
	"github.com/encryptabit/ams/internal/model"
)

// HTTPConfig configures an HTTPTranscriber.
type HTTPConfig struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxAttempts       uint
	BaseBackoff       time.Duration
}

// HTTPTranscriber calls an HTTP ASR service (`POST {baseURL}/transcribe`
// with multipart audio), grounded on the teacher's OCR/TTS provider
// clients in internal/providers — rate limited, retried with bounded
// exponential backoff, and mapped onto AMS's typed error taxonomy.
type HTTPTranscriber struct {
	baseURL     string
	apiKey      string
	client      *http.Client
	limiter     *rate.Limiter
	maxAttempts uint
	baseBackoff time.Duration
}

// NewHTTPTranscriber builds an HTTPTranscriber with sensible defaults
// mirroring the teacher's provider client constructors.
func NewHTTPTranscriber(cfg HTTPConfig) *HTTPTranscriber {
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = 2.0
	}
	if cfg.Burst == 0 {
		cfg.Burst = 1
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.BaseBackoff == 0 {
		cfg.BaseBackoff = 500 * time.Millisecond
	}

	return &HTTPTranscriber{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		client:      &http.Client{Timeout: cfg.Timeout},
		limiter:     rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		maxAttempts: cfg.MaxAttempts,
		baseBackoff: cfg.BaseBackoff,
	}
}

// Transcribe uploads the audio file at audioPath and returns the parsed
// AsrResponse, retrying ExternalTransient failures with bounded backoff.
func (t *HTTPTranscriber) Transcribe(ctx context.Context, audioPath string, opts Options) (*model.AsrResponse, error) {
	var resp *model.AsrResponse

	err := retry.Do(
		func() error {
			if err := t.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(amserr.New(amserr.Cancelled, "rate limiter wait cancelled", err))
			}

			r, err := t.doRequest(ctx, audioPath, opts)
			if err != nil {
				if amserr.KindOf(err) != amserr.ExternalTransient {
					return retry.Unrecoverable(err)
				}
				return err
			}
			resp = r
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(t.maxAttempts),
		retry.Delay(t.baseBackoff),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (t *HTTPTranscriber) doRequest(ctx context.Context, audioPath string, opts Options) (*model.AsrResponse, error) {
	body, contentType, err := buildMultipartAudio(audioPath, opts)
	if err != nil {
		return nil, amserr.New(amserr.InputMissing, "failed to read audio file", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/transcribe", body)
	if err != nil {
		return nil, amserr.New(amserr.Internal, "failed to build ASR request", err)
	}
	req.Header.Set("Content-Type", contentType)
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, amserr.New(amserr.ExternalTransient, "ASR request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, amserr.New(amserr.ExternalTransient, "failed to read ASR response", err)
	}

	if shouldRetryStatus(resp.StatusCode) {
		return nil, amserr.New(amserr.ExternalTransient, fmt.Sprintf("ASR service returned status %d: %s", resp.StatusCode, string(respBody)), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, amserr.New(amserr.ExternalFatal, fmt.Sprintf("ASR service returned status %d: %s", resp.StatusCode, string(respBody)), nil)
	}

	var out model.AsrResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, amserr.New(amserr.SchemaMismatch, "ASR response did not match the expected schema", err)
	}
	out.ChapterID = opts.ChapterID
	out.AudioFile = audioPath
	out.Language = opts.Language
	return &out, nil
}

func shouldRetryStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests:
		return true
	default:
		return code >= 500
	}
}

func buildMultipartAudio(audioPath string, opts Options) (*bytes.Buffer, string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("audio", filepath.Base(audioPath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", err
	}
	if opts.Language != "" {
		if err := w.WriteField("language", opts.Language); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var _ Transcriber = (*HTTPTranscriber)(nil)
