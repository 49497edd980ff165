package artifact

import (
	"path/filepath"
	"testing"

	"github.com/encryptabit/ams/internal/model"
)

func TestSlotLazyLoadAndDirty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")

	slot := NewSlot(jsonLoader[model.BookIndex](path), jsonSaver[model.BookIndex](path), false)

	v, err := slot.GetValue()
	if err != nil {
		t.Fatalf("GetValue() error = %v", err)
	}
	if v != nil {
		t.Fatalf("expected nil value before any write, got %+v", v)
	}

	idx := &model.BookIndex{SourceFile: "book.txt"}
	if err := slot.SetValue(idx); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	if !slot.Dirty() {
		t.Error("expected slot to be dirty after SetValue")
	}
	if err := slot.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if slot.Dirty() {
		t.Error("expected slot to be clean after Save")
	}
	if !Exists(path) {
		t.Error("expected artifact file to exist after Save")
	}

	slot.Invalidate()
	v2, err := slot.GetValue()
	if err != nil {
		t.Fatalf("GetValue() after invalidate error = %v", err)
	}
	if v2 == nil || v2.SourceFile != "book.txt" {
		t.Errorf("GetValue() after invalidate = %+v, want reloaded value", v2)
	}
}

func TestWriteJSONAtomicNoTmpLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "doc.json")
	if err := WriteJSONAtomic(path, map[string]string{"a": "b"}); err != nil {
		t.Fatalf("WriteJSONAtomic() error = %v", err)
	}
	if Exists(path + ".tmp") {
		t.Error("tmp file should not exist after successful atomic write")
	}
	if !Exists(path) {
		t.Error("final file should exist")
	}
}

func TestPathsLayout(t *testing.T) {
	p := Paths{BookRoot: "/books/mybook"}
	if got := p.BookIndex(); got != filepath.Join("/books/mybook", "book-index.json") {
		t.Errorf("BookIndex() = %q", got)
	}
	if got := p.Asr("ch01"); got != filepath.Join("/books/mybook", "ch01", "ch01.asr.json") {
		t.Errorf("Asr() = %q", got)
	}
	if got := p.TextGrid("ch01"); got != filepath.Join("/books/mybook", "ch01", "alignment", "mfa", "ch01.TextGrid") {
		t.Errorf("TextGrid() = %q", got)
	}
}

func TestTextGridSlotReadOnly(t *testing.T) {
	dir := t.TempDir()
	r := NewResolver(dir)
	slot := r.TextGridSlot("ch01")
	if err := slot.SetValue(&model.TextGridDocument{}); err == nil {
		t.Error("expected error setting a read-only TextGrid slot")
	}
}
