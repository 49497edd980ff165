// Package audio implements the thin slice of the decode/encode primitive
// spec §1 treats as an external collaborator: just enough format probing
// (duration, sample rate, channel count) and on-demand PCM loading to back
// C13's AudioBufferManager. It never performs encoding, resampling for an
// ASR engine, or waveform rendering — those stay out of scope.
package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/encryptabit/ams/internal/amserr"
)

// Format identifies a supported audio container.
type Format int

const (
	FormatUnknown Format = iota
	FormatWAV
	FormatMP3
)

// Info is the metadata a chapter's audio file carries, extracted from its
// header (WAV) or stream frames (MP3) without loading the full PCM payload.
type Info struct {
	Format     Format
	SampleRate int
	Channels   int
	DurationSec float64
}

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return FormatWAV
	case ".mp3":
		return FormatMP3
	default:
		return FormatUnknown
	}
}

// Probe inspects path's header/stream metadata and returns its Info without
// decoding the full sample payload into memory.
func Probe(path string) (Info, error) {
	switch DetectFormat(path) {
	case FormatWAV:
		return probeWAV(path)
	case FormatMP3:
		return probeMP3(path)
	default:
		return Info{}, amserr.New(amserr.InputMissing, fmt.Sprintf("unsupported audio format: %s", path), nil)
	}
}

// Buffer holds a fully decoded mono PCM buffer, produced lazily by Load and
// released by Unload. Samples are normalized float32 in [-1, 1].
type Buffer struct {
	Info    Info
	Samples []float32
}

// Load decodes path's full PCM payload to a mono Buffer.
func Load(path string) (*Buffer, error) {
	switch DetectFormat(path) {
	case FormatWAV:
		return loadWAV(path)
	case FormatMP3:
		return loadMP3(path)
	default:
		return nil, amserr.New(amserr.InputMissing, fmt.Sprintf("unsupported audio format: %s", path), nil)
	}
}
