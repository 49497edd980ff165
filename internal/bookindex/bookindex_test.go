package bookindex

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempSource(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "source.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp source: %v", err)
	}
	return path
}

func TestBuildBasic(t *testing.T) {
	src := writeTempSource(t, "dummy")
	paragraphs := []Paragraph{
		{Text: "Chapter 1", Kind: "Heading", Level: 1},
		{Text: "The cat sat. The dog ran!"},
		{Text: "It was a dark and stormy night"},
	}

	idx, err := Build(paragraphs, src)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if err := Verify(idx); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if len(idx.Sections) != 1 {
		t.Fatalf("len(Sections) = %d, want 1", len(idx.Sections))
	}
	if idx.Sections[0].Title != "Chapter 1" {
		t.Errorf("Sections[0].Title = %q, want %q", idx.Sections[0].Title, "Chapter 1")
	}

	if idx.Totals.Words != len(idx.Words) {
		t.Errorf("Totals.Words mismatch")
	}

	// The "Chapter 1" heading paragraph has no terminal, so it closes
	// sentence 0 at its paragraph end; "The cat sat." ends sentence 1;
	// "The dog ran!" ends sentence 2; the mid-sentence trailing paragraph
	// closes sentence 3 at EOF.
	if len(idx.Sentences) != 4 {
		t.Fatalf("len(Sentences) = %d, want 4", len(idx.Sentences))
	}
}

func TestBuildHashesSourceFile(t *testing.T) {
	src := writeTempSource(t, "hello world")
	idx, err := Build(nil, src)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if idx.SourceFileHash == "" {
		t.Error("SourceFileHash is empty")
	}

	src2 := writeTempSource(t, "hello world")
	idx2, _ := Build(nil, src2)
	if idx.SourceFileHash != idx2.SourceFileHash {
		t.Error("identical content produced different hashes")
	}
}

func TestEstimateDuration(t *testing.T) {
	src := writeTempSource(t, "x")
	paragraphs := []Paragraph{{Text: "one two three four five six seven eight nine ten."}}
	idx, _ := Build(paragraphs, src)
	EstimateDuration(idx, 0) // zero should fall back to default 200wpm
	if idx.Totals.EstimatedDurationSec <= 0 {
		t.Error("expected positive estimated duration")
	}
}
