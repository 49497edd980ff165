// Package asr adapts the external ASR engine contract of spec §6
// (`transcribe(audioBuffer or path, options) → AsrResponse`) behind a single
// Go interface, with an HTTP and a streaming-websocket implementation.
package asr

import (
	"context"

	"github.com/encryptabit/ams/internal/model"
)

// Options controls one transcription request.
type Options struct {
	ChapterID string
	Language  string
}

// Transcriber is the external ASR engine contract: word-level tokens with
// t/d in seconds, non-decreasing t+d across the array. The orchestrator
// treats the engine as a black box behind this interface.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, opts Options) (*model.AsrResponse, error)
}
