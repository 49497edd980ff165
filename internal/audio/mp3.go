package audio

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"

	"github.com/encryptabit/ams/internal/amserr"
)

// probeMP3 opens the MP3 stream and reads its header frame to recover
// sample rate and total PCM byte length, grounded on the pack's MP3Reader:
// go-mp3 always decodes to 16-bit stereo, and Decoder.Length() reports the
// full PCM byte length up front without the caller reading any frames.
func probeMP3(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, amserr.New(amserr.InputMissing, "failed to open MP3 file", err)
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return Info{}, amserr.New(amserr.SchemaMismatch, "failed to decode MP3 header: "+path, err)
	}

	const bytesPerFrame = 4 // 16-bit stereo, interleaved
	samples := dec.Length() / bytesPerFrame

	return Info{
		Format:      FormatMP3,
		SampleRate:  dec.SampleRate(),
		Channels:    2,
		DurationSec: float64(samples) / float64(dec.SampleRate()),
	}, nil
}

// loadMP3 decodes the full MP3 stream to 16-bit stereo PCM and folds it to
// a normalized mono buffer.
func loadMP3(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, amserr.New(amserr.InputMissing, "failed to open MP3 file", err)
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, amserr.New(amserr.SchemaMismatch, "failed to decode MP3 header: "+path, err)
	}

	pcm, err := io.ReadAll(dec)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, amserr.New(amserr.SchemaMismatch, "failed to read MP3 PCM", err)
	}

	const bytesPerFrame = 4
	numSamples := len(pcm) / bytesPerFrame
	mono := make([]float32, numSamples)
	for i := 0; i < numSamples; i++ {
		left := int16(binary.LittleEndian.Uint16(pcm[i*4:]))
		right := int16(binary.LittleEndian.Uint16(pcm[i*4+2:]))
		mono[i] = (float32(left) + float32(right)) / 2.0 / 32768.0
	}

	sampleRate := dec.SampleRate()
	return &Buffer{
		Info: Info{
			Format:      FormatMP3,
			SampleRate:  sampleRate,
			Channels:    2,
			DurationSec: float64(numSamples) / float64(sampleRate),
		},
		Samples: mono,
	}, nil
}
