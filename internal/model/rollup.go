package model

// Status classifies the reliability of a rolled-up alignment range.
type Status string

const (
	StatusOK          Status = "ok"
	StatusAttention   Status = "attention"
	StatusUnreliable  Status = "unreliable"
)

// ScriptRange is an inclusive [Start, End] span of ASR token indices, set by
// Rollup (C8) — either the concrete range an aligned sentence covers, or an
// interpolated range synthesized for a sentence with no direct ASR
// coverage. It is index space, never seconds; seconds belong to the
// Start/EndSec timing fields below, which are empty until Merge (C10) runs.
type ScriptRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SentenceAlign is the per-sentence rollup of WordAlign ops: its error
// metrics, classification, the ASR ScriptRange it was scored against, and
// (once Merge has run) its timing in seconds. StartSec/EndSec are zero/unset
// until Merge fills them; a sentence with no concrete ASR coverage keeps
// empty timing even after Merge runs, per spec.
type SentenceAlign struct {
	SentenceIndex int         `json:"sentenceIndex"`
	ScriptRange   ScriptRange `json:"scriptRange"`
	StartSec      float64     `json:"startSec,omitempty"`
	EndSec        float64     `json:"endSec,omitempty"`
	WER           float64     `json:"wer"`
	CER           float64     `json:"cer"`
	Coverage      float64     `json:"coverage"`
	Status        Status      `json:"status"`
	Matches       int         `json:"matches"`
	Substitutions int         `json:"substitutions"`
	Insertions    int         `json:"insertions"`
	Deletions     int         `json:"deletions"`
	Synthesized   bool        `json:"synthesized"`
}

// ParagraphAlign is the per-paragraph rollup over its constituent sentences.
// StartSec/EndSec are filled by Merge, spanning the timed member sentences;
// empty if none of them has timing.
type ParagraphAlign struct {
	ParagraphIndex int     `json:"paragraphIndex"`
	StartSec       float64 `json:"startSec,omitempty"`
	EndSec         float64 `json:"endSec,omitempty"`
	WER            float64 `json:"wer"`
	CER            float64 `json:"cer"`
	Coverage       float64 `json:"coverage"`
	Status         Status  `json:"status"`
}

// TranscriptIndex is the persisted output of the rollup stage (C8): the
// full set of word-level ops plus the sentence/paragraph summaries.
type TranscriptIndex struct {
	ChapterID  string           `json:"chapterId"`
	WordAligns []WordAlign      `json:"wordAligns"`
	Sentences  []SentenceAlign  `json:"sentences"`
	Paragraphs []ParagraphAlign `json:"paragraphs"`
}
