package bookctx

import (
	"path/filepath"
	"testing"

	"github.com/encryptabit/ams/internal/model"
)

func newTestBook(t *testing.T) (*BookContext, string) {
	t.Helper()
	root := t.TempDir()
	descs := []ChapterDescriptor{
		{ID: "ch01", AudioPath: filepath.Join(root, "ch01.wav")},
		{ID: "ch02", AudioPath: filepath.Join(root, "ch02.wav")},
	}
	return New(root, descs), root
}

func TestBookContextOpenIsIdempotent(t *testing.T) {
	b, _ := newTestBook(t)

	cc1, err := b.Open("ch01")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	cc2, err := b.Open("ch01")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if cc1 != cc2 {
		t.Fatal("expected Open to return the same ChapterContext instance for the same ID")
	}
}

func TestBookContextOpenUnknownChapter(t *testing.T) {
	b, _ := newTestBook(t)
	if _, err := b.Open("missing"); err == nil {
		t.Fatal("expected error opening an undeclared chapter")
	}
}

func TestBookContextChaptersOrdered(t *testing.T) {
	b, _ := newTestBook(t)
	chapters := b.Chapters()
	if len(chapters) != 2 || chapters[0].ID != "ch01" || chapters[1].ID != "ch02" {
		t.Fatalf("unexpected chapter order: %+v", chapters)
	}
}

func TestBookContextBookIndexLazyLoad(t *testing.T) {
	b, _ := newTestBook(t)
	idx, err := b.BookIndex()
	if err != nil {
		t.Fatalf("BookIndex: %v", err)
	}
	if idx != nil {
		t.Fatalf("expected nil BookIndex before one is written, got %+v", idx)
	}

	want := &model.BookIndex{Title: "Test Book"}
	if err := b.bookIndex.SetValue(want); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if err := b.bookIndex.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	b.bookIndex.Invalidate()
	got, err := b.BookIndex()
	if err != nil {
		t.Fatalf("BookIndex: %v", err)
	}
	if got == nil || got.Title != "Test Book" {
		t.Fatalf("expected reloaded BookIndex with Title=Test Book, got %+v", got)
	}
}

func TestChapterContextSectionCache(t *testing.T) {
	b, _ := newTestBook(t)
	cc, err := b.Open("ch01")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if cc.ResolvedSection() != nil {
		t.Fatal("expected no cached section before CacheResolvedSection")
	}
	sec := &model.SectionRange{ID: "s1", StartWord: 0, EndWord: 100}
	cc.CacheResolvedSection(sec)
	if got := cc.ResolvedSection(); got == nil || got.ID != "s1" {
		t.Fatalf("expected cached section s1, got %+v", got)
	}
}

func TestChapterContextAudioLazyAndUnload(t *testing.T) {
	b, _ := newTestBook(t)
	cc, err := b.Open("ch01")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if cc.Audio().Resident() {
		t.Fatal("expected audio buffer not resident before first Get")
	}
	cc.UnloadAudio()
	if cc.Audio().Resident() {
		t.Fatal("expected audio buffer still not resident after Unload with nothing loaded")
	}
}

func TestChapterContextSaveFlushesDirtySlots(t *testing.T) {
	b, _ := newTestBook(t)
	cc, err := b.Open("ch01")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := cc.Asr().SetValue(&model.AsrResponse{ChapterID: "ch01"}); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if !cc.Asr().Dirty() {
		t.Fatal("expected asr slot to be dirty before Save")
	}
	if err := cc.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if cc.Asr().Dirty() {
		t.Fatal("expected asr slot clean after Save")
	}
}

func TestChapterManagerCloseAll(t *testing.T) {
	b, _ := newTestBook(t)
	cc, err := b.Open("ch01")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := cc.Asr().SetValue(&model.AsrResponse{ChapterID: "ch01"}); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if err := b.chapters.CloseAll(); err != nil {
		t.Fatalf("CloseAll: %v", err)
	}
	if cc.Asr().Dirty() {
		t.Fatal("expected CloseAll to flush dirty slots")
	}
}
