package bookctx

import (
	"sync"

	"github.com/encryptabit/ams/internal/artifact"
	"github.com/encryptabit/ams/internal/audio"
	"github.com/encryptabit/ams/internal/model"
)

// ChapterContext owns one chapter's document slots, its resolved section
// cache, and an AudioBufferManager that loads/unloads decoded audio on
// demand, per spec §4.12.
type ChapterContext struct {
	ID string

	asr      *artifact.Slot[model.AsrResponse]
	anchors  *artifact.Slot[model.AnchorDocument]
	tx       *artifact.Slot[model.TranscriptIndex]
	hydrated *artifact.Slot[model.HydratedTranscript]
	textgrid *artifact.Slot[model.TextGridDocument]
	corpus   *artifact.Slot[string]

	audio *audio.Manager

	mu              sync.Mutex
	resolvedSection *model.SectionRange
}

func newChapterContext(resolver *artifact.Resolver, desc ChapterDescriptor) *ChapterContext {
	return &ChapterContext{
		ID:       desc.ID,
		asr:      resolver.AsrSlot(desc.ID),
		anchors:  resolver.AnchorsSlot(desc.ID),
		tx:       resolver.TranscriptSlot(desc.ID),
		hydrated: resolver.HydratedTranscriptSlot(desc.ID),
		textgrid: resolver.TextGridSlot(desc.ID),
		corpus:   resolver.AsrTranscriptTextSlot(desc.ID),
		audio:    audio.NewManager(desc.AudioPath),
	}
}

// Asr returns the chapter's AsrResponse slot.
func (c *ChapterContext) Asr() *artifact.Slot[model.AsrResponse] { return c.asr }

// Anchors returns the chapter's AnchorDocument slot.
func (c *ChapterContext) Anchors() *artifact.Slot[model.AnchorDocument] { return c.anchors }

// Transcript returns the chapter's TranscriptIndex slot.
func (c *ChapterContext) Transcript() *artifact.Slot[model.TranscriptIndex] { return c.tx }

// Hydrated returns the chapter's HydratedTranscript slot.
func (c *ChapterContext) Hydrated() *artifact.Slot[model.HydratedTranscript] { return c.hydrated }

// TextGrid returns the chapter's TextGrid slot, read-only (written by the
// external forced aligner).
func (c *ChapterContext) TextGrid() *artifact.Slot[model.TextGridDocument] { return c.textgrid }

// CorpusText returns the chapter's plain-text ASR corpus slot.
func (c *ChapterContext) CorpusText() *artifact.Slot[string] { return c.corpus }

// Audio returns the chapter's AudioBufferManager.
func (c *ChapterContext) Audio() *audio.Manager { return c.audio }

// UnloadAudio evicts the chapter's decoded audio buffer, per spec §4.12's
// eviction policy for chapters that are no longer current.
func (c *ChapterContext) UnloadAudio() {
	c.audio.Unload()
}

// ResolvedSection returns the cached resolved section range, if one has
// been computed via CacheResolvedSection.
func (c *ChapterContext) ResolvedSection() *model.SectionRange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolvedSection
}

// CacheResolvedSection stores the section range resolved for this chapter
// (e.g. by Stage 3's anchor windowing) so later stages don't re-resolve it.
func (c *ChapterContext) CacheResolvedSection(s *model.SectionRange) {
	c.mu.Lock()
	c.resolvedSection = s
	c.mu.Unlock()
}

// Save flushes every dirty document slot for this chapter.
func (c *ChapterContext) Save() error {
	savers := []func() error{
		c.asr.Save,
		c.anchors.Save,
		c.tx.Save,
		c.hydrated.Save,
		c.corpus.Save,
	}
	var firstErr error
	for _, save := range savers {
		if err := save(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
