// Package model holds the value objects shared across every stage of the
// alignment pipeline: book structure, ASR tokens, anchors, alignment ops,
// rollup metrics, and the hydrated transcript. Types here are immutable
// after construction except where a field is explicitly a mutable sink
// (e.g. timing fields filled in by Merge).
package model

import "time"

// BookWord is a single tokenized word from the manuscript. Text is the raw
// token exactly as it appeared in the source paragraph; no normalization is
// applied here.
type BookWord struct {
	Text           string   `json:"text"`
	WordIndex      int      `json:"wordIndex"`
	SentenceIndex  int      `json:"sentenceIndex"`
	ParagraphIndex int      `json:"paragraphIndex"`
	SectionIndex   int      `json:"sectionIndex"`
	Phonemes       []string `json:"phonemes,omitempty"`
}

// SentenceRange is an inclusive [Start, End] span over BookIndex.Words.
type SentenceRange struct {
	Index int    `json:"index"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Kind  string `json:"kind,omitempty"`
	Style string `json:"style,omitempty"`
}

// ParagraphRange is an inclusive [Start, End] span over BookIndex.Words.
type ParagraphRange struct {
	Index int    `json:"index"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Kind  string `json:"kind,omitempty"`
	Style string `json:"style,omitempty"`
}

// SectionKind enumerates the heading kinds the book indexer recognizes.
type SectionKind string

const (
	SectionChapter         SectionKind = "chapter"
	SectionPrologue        SectionKind = "prologue"
	SectionEpilogue        SectionKind = "epilogue"
	SectionPrelude         SectionKind = "prelude"
	SectionForeword        SectionKind = "foreword"
	SectionIntroduction    SectionKind = "introduction"
	SectionAfterword       SectionKind = "afterword"
	SectionAcknowledgments SectionKind = "acknowledgments"
	SectionAppendix        SectionKind = "appendix"
)

// SectionRange is a named, heading-delimited region of the book.
type SectionRange struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Level           int         `json:"level"`
	Kind            SectionKind `json:"kind"`
	StartWord       int         `json:"startWord"`
	EndWord         int         `json:"endWord"`
	StartParagraph  int         `json:"startParagraph"`
	EndParagraph    int         `json:"endParagraph"`
}

// Totals summarizes the counts and estimated duration of a BookIndex.
type Totals struct {
	Words               int     `json:"words"`
	Sentences           int     `json:"sentences"`
	Paragraphs          int     `json:"paragraphs"`
	EstimatedDurationSec float64 `json:"estimatedDurationSec"`
}

// BookIndex is the canonical, content-hashed decomposition of a manuscript.
// It is created once per book and reused for every chapter; it is
// invalidated only when SourceFileHash changes.
type BookIndex struct {
	SourceFile     string           `json:"sourceFile"`
	SourceFileHash string           `json:"sourceFileHash"`
	IndexedAt      time.Time        `json:"indexedAt"`
	Title          string           `json:"title,omitempty"`
	Author         string           `json:"author,omitempty"`
	Words          []BookWord       `json:"words"`
	Sentences      []SentenceRange  `json:"sentences"`
	Paragraphs     []ParagraphRange `json:"paragraphs"`
	Sections       []SectionRange   `json:"sections"`
	Totals         Totals           `json:"totals"`
}
