package asr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"github.com/encryptabit/ams/internal/amserr"
	"github.com/encryptabit/ams/internal/model"
)

// WebSocketConfig configures a WebSocketTranscriber.
type WebSocketConfig struct {
	URL          string
	ChunkBytes   int
	DialTimeout  time.Duration
	ModelVersion string
}

// wsTokenEvent is one streamed word hypothesis, as emitted by the engine
// over the connection's text frames.
type wsTokenEvent struct {
	T float64 `json:"t"`
	D float64 `json:"d"`
	W string  `json:"w"`
	C float64 `json:"confidence,omitempty"`
}

// wsDoneEvent closes the stream and carries the final model identifier.
type wsDoneEvent struct {
	Done         bool   `json:"done"`
	ModelVersion string `json:"modelVersion,omitempty"`
}

// WebSocketTranscriber is an alternate transport for engines that stream
// word tokens back as audio is uploaded, rather than returning a single
// response body. Grounded on the streaming call-session pattern of
// hubenschmidt-asr-llm-tts's internal/ws.Handler, adapted from a server
// that accepts connections to a client that dials out and drives one.
type WebSocketTranscriber struct {
	url          string
	chunkBytes   int
	dialTimeout  time.Duration
	modelVersion string
}

// NewWebSocketTranscriber builds a WebSocketTranscriber.
func NewWebSocketTranscriber(cfg WebSocketConfig) *WebSocketTranscriber {
	if cfg.ChunkBytes == 0 {
		cfg.ChunkBytes = 32 * 1024
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	return &WebSocketTranscriber{
		url:          cfg.URL,
		chunkBytes:   cfg.ChunkBytes,
		dialTimeout:  cfg.DialTimeout,
		modelVersion: cfg.ModelVersion,
	}
}

// Transcribe streams the audio file over a websocket connection in
// fixed-size binary frames, then reads token events until the engine
// signals completion.
func (t *WebSocketTranscriber) Transcribe(ctx context.Context, audioPath string, opts Options) (*model.AsrResponse, error) {
	dialer := websocket.Dialer{HandshakeTimeout: t.dialTimeout}

	dialCtx, cancel := context.WithTimeout(ctx, t.dialTimeout)
	defer cancel()

	conn, _, err := dialer.DialContext(dialCtx, t.url, nil)
	if err != nil {
		return nil, amserr.New(amserr.ExternalTransient, "ASR websocket dial failed", err)
	}
	defer conn.Close()

	if opts.Language != "" {
		if err := conn.WriteJSON(map[string]string{"language": opts.Language}); err != nil {
			return nil, amserr.New(amserr.ExternalTransient, "failed to send ASR session metadata", err)
		}
	}

	if err := t.streamAudio(ctx, conn, audioPath); err != nil {
		return nil, err
	}

	return t.collectTokens(ctx, conn, opts)
}

func (t *WebSocketTranscriber) streamAudio(ctx context.Context, conn *websocket.Conn, audioPath string) error {
	f, err := os.Open(audioPath)
	if err != nil {
		return amserr.New(amserr.InputMissing, "failed to open audio file", err)
	}
	defer f.Close()

	buf := make([]byte, t.chunkBytes)
	for {
		if err := ctx.Err(); err != nil {
			return amserr.New(amserr.Cancelled, "audio streaming cancelled", err)
		}
		n, readErr := f.Read(buf)
		if n > 0 {
			if err := conn.WriteMessage(websocket.BinaryMessage, buf[:n]); err != nil {
				return amserr.New(amserr.ExternalTransient, "failed to stream audio chunk", err)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return amserr.New(amserr.InputMissing, "failed to read audio file", readErr)
		}
	}

	return conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"end"}`))
}

func (t *WebSocketTranscriber) collectTokens(ctx context.Context, conn *websocket.Conn, opts Options) (*model.AsrResponse, error) {
	out := &model.AsrResponse{
		ModelVersion: t.modelVersion,
		Segments:     []any{},
		ChapterID:    opts.ChapterID,
		Language:     opts.Language,
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, amserr.New(amserr.Cancelled, "ASR stream collection cancelled", err)
		}

		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				break
			}
			return nil, amserr.New(amserr.ExternalTransient, "ASR websocket read failed", err)
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var done wsDoneEvent
		if json.Unmarshal(data, &done) == nil && done.Done {
			if done.ModelVersion != "" {
				out.ModelVersion = done.ModelVersion
			}
			break
		}

		var ev wsTokenEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, amserr.New(amserr.SchemaMismatch, fmt.Sprintf("malformed ASR token event: %s", string(data)), err)
		}
		out.Tokens = append(out.Tokens, model.AsrToken{
			Start:      ev.T,
			Duration:   ev.D,
			Text:       ev.W,
			Confidence: ev.C,
			TokenIndex: len(out.Tokens),
		})
	}

	return out, nil
}

var _ Transcriber = (*WebSocketTranscriber)(nil)
