package audio

import (
	"os"

	"github.com/go-audio/wav"

	"github.com/encryptabit/ams/internal/amserr"
)

// probeWAV reads only the WAV header (via Decoder.ReadInfo) to recover
// sample rate, channel count, and duration — no PCM frames are decoded.
func probeWAV(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, amserr.New(amserr.InputMissing, "failed to open WAV file", err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	d.ReadInfo()
	if !d.IsValidFile() {
		return Info{}, amserr.New(amserr.SchemaMismatch, "not a valid WAV file: "+path, nil)
	}

	dur, err := d.Duration()
	if err != nil {
		return Info{}, amserr.New(amserr.SchemaMismatch, "failed to compute WAV duration", err)
	}

	return Info{
		Format:      FormatWAV,
		SampleRate:  int(d.SampleRate),
		Channels:    int(d.NumChans),
		DurationSec: dur.Seconds(),
	}, nil
}

// loadWAV decodes the full WAV PCM payload into a normalized mono buffer.
func loadWAV(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, amserr.New(amserr.InputMissing, "failed to open WAV file", err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, amserr.New(amserr.SchemaMismatch, "failed to decode WAV PCM", err)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	maxAmp := float32(int(1) << uint(buf.SourceBitDepth-1))
	if maxAmp == 0 {
		maxAmp = 1
	}

	frameCount := len(buf.Data) / channels
	samples := make([]float32, frameCount)
	for i := 0; i < frameCount; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += float32(buf.Data[i*channels+c]) / maxAmp
		}
		samples[i] = sum / float32(channels)
	}

	return &Buffer{
		Info: Info{
			Format:      FormatWAV,
			SampleRate:  buf.Format.SampleRate,
			Channels:    channels,
			DurationSec: float64(frameCount) / float64(buf.Format.SampleRate),
		},
		Samples: samples,
	}, nil
}
