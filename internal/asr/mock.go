package asr

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/encryptabit/ams/internal/amserr"
	"github.com/encryptabit/ams/internal/model"
)

// MockTranscriber is a Transcriber for tests, grounded on the teacher's
// providers.MockClient configurable-failure pattern.
type MockTranscriber struct {
	Response   *model.AsrResponse
	ShouldFail bool
	FailAfter  int

	requestCount atomic.Int64
}

// Transcribe returns the configured mock response, optionally failing.
func (m *MockTranscriber) Transcribe(ctx context.Context, audioPath string, opts Options) (*model.AsrResponse, error) {
	count := m.requestCount.Add(1)
	if m.ShouldFail {
		return nil, amserr.New(amserr.ExternalFatal, "mock transcriber configured to fail", nil)
	}
	if m.FailAfter > 0 && int(count) > m.FailAfter {
		return nil, amserr.New(amserr.ExternalTransient, fmt.Sprintf("mock transcriber failed after %d requests", m.FailAfter), nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, amserr.New(amserr.Cancelled, "context cancelled", err)
	}
	if m.Response != nil {
		resp := *m.Response
		resp.ChapterID = opts.ChapterID
		resp.AudioFile = audioPath
		return &resp, nil
	}
	return &model.AsrResponse{ChapterID: opts.ChapterID, AudioFile: audioPath, Segments: []any{}}, nil
}

// RequestCount returns the number of Transcribe calls made.
func (m *MockTranscriber) RequestCount() int64 { return m.requestCount.Load() }

var _ Transcriber = (*MockTranscriber)(nil)
