// Package bookctx implements the Book/Chapter Contexts (C13): a BookContext
// owning the book-scoped BookIndex slot and an ordered ChapterManager, and
// a ChapterContext per chapter owning that chapter's document slots, its
// resolved section cache, and an audio buffer manager with on-demand
// load/unload. Opening a chapter is O(1): its documents and audio load
// lazily on first access, grounded on the teacher's lazy-loaded
// request-scoped context pattern (internal/svcctx.Context).
package bookctx

import (
	"fmt"
	"sync"

	"github.com/encryptabit/ams/internal/artifact"
	"github.com/encryptabit/ams/internal/model"
)

// ChapterDescriptor names one chapter and its source audio, in book order.
type ChapterDescriptor struct {
	ID        string
	AudioPath string
}

// BookContext owns the book-scoped BookIndex slot and the chapters it
// spans, per spec §4.12.
type BookContext struct {
	resolver    *artifact.Resolver
	bookIndex   *artifact.Slot[model.BookIndex]
	descriptors []ChapterDescriptor

	chapters *ChapterManager
}

// New builds a BookContext rooted at bookRoot, over the given ordered
// chapter descriptors.
func New(bookRoot string, descriptors []ChapterDescriptor) *BookContext {
	resolver := artifact.NewResolver(bookRoot)
	return &BookContext{
		resolver:    resolver,
		bookIndex:   resolver.BookIndexSlot(),
		descriptors: descriptors,
		chapters:    newChapterManager(resolver, descriptors),
	}
}

// Resolver exposes the artifact resolver for callers (e.g. the
// orchestrator) that need book-root path conventions directly.
func (b *BookContext) Resolver() *artifact.Resolver {
	return b.resolver
}

// BookIndex returns the book-scoped BookIndex, loading it lazily on first
// access.
func (b *BookContext) BookIndex() (*model.BookIndex, error) {
	return b.bookIndex.GetValue()
}

// Chapters returns the ordered chapter descriptors.
func (b *BookContext) Chapters() []ChapterDescriptor {
	return b.descriptors
}

// Open returns the ChapterContext for id, in O(1) — its documents and audio
// load lazily on first access, not on Open.
func (b *BookContext) Open(id string) (*ChapterContext, error) {
	return b.chapters.Open(id)
}

// ChapterManager owns the O(1)-open set of ChapterContexts over an ordered
// descriptor list, per spec §4.12.
type ChapterManager struct {
	mu       sync.Mutex
	resolver *artifact.Resolver
	byID     map[string]ChapterDescriptor
	open     map[string]*ChapterContext
}

func newChapterManager(resolver *artifact.Resolver, descriptors []ChapterDescriptor) *ChapterManager {
	byID := make(map[string]ChapterDescriptor, len(descriptors))
	for _, d := range descriptors {
		byID[d.ID] = d
	}
	return &ChapterManager{resolver: resolver, byID: byID, open: make(map[string]*ChapterContext)}
}

// Open returns the ChapterContext for id, creating and caching it on first
// call.
func (m *ChapterManager) Open(id string) (*ChapterContext, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cc, ok := m.open[id]; ok {
		return cc, nil
	}
	desc, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("bookctx: unknown chapter %q", id)
	}
	cc := newChapterContext(m.resolver, desc)
	m.open[id] = cc
	return cc, nil
}

// CloseAll saves every open chapter's dirty slots and evicts their audio
// buffers, e.g. at the end of a pipeline run.
func (m *ChapterManager) CloseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var firstErr error
	for _, cc := range m.open {
		if err := cc.Save(); err != nil && firstErr == nil {
			firstErr = err
		}
		cc.UnloadAudio()
	}
	return firstErr
}
