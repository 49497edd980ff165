package model

// DiffOpKind enumerates the kinds of token-level diff operations between
// the book text and the recognized ASR text for a hydrated transcript.
type DiffOpKind string

const (
	DiffEqual   DiffOpKind = "equal"
	DiffReplace DiffOpKind = "replace"
	DiffInsert  DiffOpKind = "insert"
	DiffDelete  DiffOpKind = "delete"
)

// DiffOp is one span of the book-vs-script text diff.
type DiffOp struct {
	Kind     DiffOpKind `json:"kind"`
	BookText string     `json:"bookText,omitempty"`
	AsrText  string     `json:"asrText,omitempty"`
}

// DiffStats summarizes a HydratedTranscript's token-level diff.
type DiffStats struct {
	Equal   int `json:"equal"`
	Replace int `json:"replace"`
	Insert  int `json:"insert"`
	Delete  int `json:"delete"`
}

// HydratedWord is a TranscriptIndex WordAlign with its book/ASR text
// resolved and, once Merge runs, its timing in seconds.
type HydratedWord struct {
	Kind      OpKind  `json:"kind"`
	BookIndex *int    `json:"bookIndex,omitempty"`
	AsrIndex  *int    `json:"asrIndex,omitempty"`
	BookWord  string  `json:"bookWord,omitempty"`
	AsrWord   string  `json:"asrWord,omitempty"`
	StartSec  float64 `json:"startSec,omitempty"`
	EndSec    float64 `json:"endSec,omitempty"`
}

// HydratedSentence materializes one book sentence's full text alongside its
// recognized script text, a token-level diff between them, and (once Merge
// runs) its timing in seconds.
type HydratedSentence struct {
	SentenceIndex int       `json:"sentenceIndex"`
	BookText      string    `json:"bookText"`
	ScriptText    string    `json:"scriptText,omitempty"`
	Diff          []DiffOp  `json:"diff,omitempty"`
	Stats         DiffStats `json:"stats"`
	StartSec      float64   `json:"startSec,omitempty"`
	EndSec        float64   `json:"endSec,omitempty"`
}

// HydratedParagraph carries a paragraph's timing once Merge runs.
type HydratedParagraph struct {
	ParagraphIndex int     `json:"paragraphIndex"`
	StartSec       float64 `json:"startSec,omitempty"`
	EndSec         float64 `json:"endSec,omitempty"`
}

// HydratedTranscript is the persisted output of the hydrate stage (C9): like
// TranscriptIndex, but with resolved bookWord/asrWord strings on each word,
// full bookText/scriptText and a token-level diff on each sentence. Timing
// fields are empty until Merge (C10) writes them through.
type HydratedTranscript struct {
	ChapterID  string              `json:"chapterId"`
	Words      []HydratedWord      `json:"words"`
	Sentences  []HydratedSentence  `json:"sentences"`
	Paragraphs []HydratedParagraph `json:"paragraphs"`
}
