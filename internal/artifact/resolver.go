package artifact

import (
	"errors"
	"io"
	"os"

	"github.com/encryptabit/ams/internal/model"
	"github.com/encryptabit/ams/internal/textgrid"
)

var errReadOnlySlot = errors.New("artifact: TextGrid slot is read-only (written by the external aligner)")

func parseTextGridFile(r io.Reader) (*model.TextGridDocument, error) {
	return textgrid.Parse(r)
}

// Resolver owns path conventions and slot factories for one book root, per
// spec §4.10's Artifact Resolver.
type Resolver struct {
	Paths Paths
}

// NewResolver builds a Resolver rooted at bookRoot.
func NewResolver(bookRoot string) *Resolver {
	return &Resolver{Paths: Paths{BookRoot: bookRoot}}
}

func jsonLoader[T any](path string) func() (*T, error) {
	return func() (*T, error) {
		if !Exists(path) {
			return nil, nil
		}
		return ReadJSON[T](path)
	}
}

func jsonSaver[T any](path string) func(*T) error {
	return func(v *T) error {
		return WriteJSONAtomic(path, v)
	}
}

// BookIndexSlot returns the book-scoped BookIndex document slot.
func (r *Resolver) BookIndexSlot() *Slot[model.BookIndex] {
	path := r.Paths.BookIndex()
	return NewSlot(jsonLoader[model.BookIndex](path), jsonSaver[model.BookIndex](path), false)
}

// AsrSlot returns a chapter's ASR response document slot.
func (r *Resolver) AsrSlot(chapterID string) *Slot[model.AsrResponse] {
	path := r.Paths.Asr(chapterID)
	return NewSlot(jsonLoader[model.AsrResponse](path), jsonSaver[model.AsrResponse](path), false)
}

// AnchorsSlot returns a chapter's AnchorDocument slot.
func (r *Resolver) AnchorsSlot(chapterID string) *Slot[model.AnchorDocument] {
	path := r.Paths.Anchors(chapterID)
	return NewSlot(jsonLoader[model.AnchorDocument](path), jsonSaver[model.AnchorDocument](path), false)
}

// TranscriptSlot returns a chapter's TranscriptIndex slot.
func (r *Resolver) TranscriptSlot(chapterID string) *Slot[model.TranscriptIndex] {
	path := r.Paths.TranscriptIndex(chapterID)
	return NewSlot(jsonLoader[model.TranscriptIndex](path), jsonSaver[model.TranscriptIndex](path), false)
}

// HydratedTranscriptSlot returns a chapter's HydratedTranscript slot.
func (r *Resolver) HydratedTranscriptSlot(chapterID string) *Slot[model.HydratedTranscript] {
	path := r.Paths.HydratedTranscript(chapterID)
	return NewSlot(jsonLoader[model.HydratedTranscript](path), jsonSaver[model.HydratedTranscript](path), false)
}

// AsrTranscriptTextSlot returns the plain-text ASR corpus slot consumed by
// the external forced aligner.
func (r *Resolver) AsrTranscriptTextSlot(chapterID string) *Slot[string] {
	path := r.Paths.AsrCorpusText(chapterID)
	loader := func() (*string, error) {
		if !Exists(path) {
			return nil, nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		s := string(b)
		return &s, nil
	}
	saver := func(v *string) error {
		return writeAtomicText(path, *v)
	}
	return NewSlot(loader, saver, false)
}

// TextGridSlot returns a chapter's TextGrid slot. It is read-only: the
// TextGrid is produced by the external forced aligner, never by this
// process, so its saver is a no-op that errors if invoked.
func (r *Resolver) TextGridSlot(chapterID string) *Slot[model.TextGridDocument] {
	path := r.Paths.TextGrid(chapterID)
	loader := func() (*model.TextGridDocument, error) {
		if !Exists(path) {
			return nil, nil
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return parseTextGridFile(f)
	}
	saver := func(*model.TextGridDocument) error {
		return errReadOnlySlot
	}
	return NewSlot(loader, saver, true)
}

// PausePolicy represents the house default pause policy, used when no
// per-chapter override is present on disk.
type PausePolicy struct {
	MinGapSec     float64 `json:"minGapSec"`
	MaxGapSec     float64 `json:"maxGapSec"`
	SentenceGapSec float64 `json:"sentenceGapSec"`
}

// DefaultPausePolicy is the house default referenced by spec §4.10.
var DefaultPausePolicy = PausePolicy{MinGapSec: 0.05, MaxGapSec: 2.0, SentenceGapSec: 0.3}

// PausePolicySlot returns a chapter's PausePolicy slot, falling back to
// DefaultPausePolicy when no file is present.
func (r *Resolver) PausePolicySlot(chapterID string) *Slot[PausePolicy] {
	path := r.Paths.PausePolicy(chapterID)
	loader := func() (*PausePolicy, error) {
		if !Exists(path) {
			def := DefaultPausePolicy
			return &def, nil
		}
		return ReadJSON[PausePolicy](path)
	}
	return NewSlot(loader, jsonSaver[PausePolicy](path), false)
}

// PauseAdjustment is a single manual timing nudge, out of scope for
// automatic computation per spec §6 but still addressable via a slot.
type PauseAdjustment struct {
	WordIndex int     `json:"wordIndex"`
	DeltaSec  float64 `json:"deltaSec"`
}

// PauseAdjustmentsSlot returns a chapter's pause-adjustments slot.
func (r *Resolver) PauseAdjustmentsSlot(chapterID string) *Slot[[]PauseAdjustment] {
	path := r.Paths.PauseAdjustments(chapterID)
	return NewSlot(jsonLoader[[]PauseAdjustment](path), jsonSaver[[]PauseAdjustment](path), false)
}
