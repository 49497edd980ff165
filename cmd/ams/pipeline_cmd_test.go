package main

import "testing"

func TestParseChapterFlags(t *testing.T) {
	ids, paths, err := parseChapterFlags([]string{"ch01=/audio/ch01.wav", "ch02=/audio/ch02.wav"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 || ids[0] != "ch01" || ids[1] != "ch02" {
		t.Fatalf("unexpected ids: %v", ids)
	}
	if paths["ch01"] != "/audio/ch01.wav" {
		t.Fatalf("unexpected path: %v", paths)
	}
}

func TestParseChapterFlagsWithoutAudioPath(t *testing.T) {
	ids, paths, err := parseChapterFlags([]string{"ch01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != "ch01" {
		t.Fatalf("unexpected ids: %v", ids)
	}
	if _, ok := paths["ch01"]; ok {
		t.Fatalf("expected no audio path entry for a bare chapter ID")
	}
}

func TestParseChapterFlagsRejectsEmptyID(t *testing.T) {
	if _, _, err := parseChapterFlags([]string{"=/audio/ch01.wav"}); err == nil {
		t.Fatal("expected error for empty chapter ID")
	}
}
