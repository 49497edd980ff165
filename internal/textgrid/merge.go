package textgrid

import (
	"github.com/encryptabit/ams/internal/model"
	"github.com/encryptabit/ams/internal/normalize"
)

// Result reports the outcome of a Merge: how many intervals were dropped for
// lack of a matching word, and how many sentences had their timing reverted
// for non-monotonicity.
type Result struct {
	Matched         int
	Dropped         int
	SentencesReverted int
}

// wordRef locates a single hydrated word and its timing sink, whichever of
// book/asr text it carries (set by Hydrate).
type wordRef struct {
	op *model.WordAlign
}

// Merge walks the non-empty "words" tier intervals of doc in order, greedily
// matching each against the next unmatched hydrated word whose normalized
// bookText/asrText equals the interval's normalized text, and writes
// through Start/End (seconds) onto tx.WordAligns, then derives per-sentence
// and per-paragraph timing from the timed words. If ht is non-nil, the same
// word/sentence/paragraph timing is mirrored onto it (ht.Words/Sentences/
// Paragraphs are index-parallel to tx's, built by Hydrate from the same
// WordAligns/Sentences/Paragraphs). Edge policy per spec §4.9: more/fewer
// matching words than the transcript -> greedy align with a drop count;
// non-monotonic per-sentence results revert that sentence's timing only.
func Merge(doc *model.TextGridDocument, tx *model.TranscriptIndex, ht *model.HydratedTranscript, bookSentences []model.SentenceRange, bookParagraphs []model.ParagraphRange, opts normalize.Options) Result {
	intervals := WordsTier(doc)
	var nonEmpty []model.Interval
	for _, iv := range intervals {
		if iv.Text != "" {
			nonEmpty = append(nonEmpty, iv)
		}
	}

	refs := make([]wordRef, 0, len(tx.WordAligns))
	for i := range tx.WordAligns {
		op := &tx.WordAligns[i]
		if op.BookText != "" || op.AsrText != "" {
			refs = append(refs, wordRef{op: op})
		}
	}

	var res Result
	wi := 0
	for _, iv := range nonEmpty {
		target := normalize.Canonical(iv.Text, opts)
		matched := false
		searchFrom := wi
		for wi < len(refs) {
			ref := refs[wi]
			wi++
			candidate := normalize.Canonical(ref.op.BookText, opts)
			if candidate == "" {
				candidate = normalize.Canonical(ref.op.AsrText, opts)
			}
			if candidate == target {
				ref.op.Start = iv.Xmin
				ref.op.End = iv.Xmax
				matched = true
				res.Matched++
				break
			}
		}
		if !matched {
			// Leave the words scanned past unmatched for later intervals.
			wi = searchFrom
			res.Dropped++
		}
	}

	res.SentencesReverted = applySentenceTiming(tx, bookSentences)
	applyParagraphTiming(tx, bookParagraphs, bookSentences)
	mirrorHydratedTiming(tx, ht)
	return res
}

// applySentenceTiming sets each sentence's StartSec/EndSec to
// {min(word.Start), max(word.End)} over its member words (located by the
// book's word-index ranges). A sentence with no timed member word (no
// TextGrid match fell inside its range — including every genuinely gapped,
// synthesized sentence) keeps empty timing; one whose resulting timing
// would be non-monotonic has its timing reverted (cleared) instead.
func applySentenceTiming(tx *model.TranscriptIndex, bookSentences []model.SentenceRange) int {
	reverted := 0
	for si := range tx.Sentences {
		if si >= len(bookSentences) {
			break
		}
		rng := bookSentences[si]
		sa := &tx.Sentences[si]
		var minStart, maxEnd float64
		have := false
		for i := range tx.WordAligns {
			op := &tx.WordAligns[i]
			if op.BookIndex == nil || *op.BookIndex < rng.Start || *op.BookIndex > rng.End {
				continue
			}
			if op.Start == 0 && op.End == 0 {
				continue
			}
			if !have {
				minStart, maxEnd = op.Start, op.End
				have = true
				continue
			}
			if op.Start < minStart {
				minStart = op.Start
			}
			if op.End > maxEnd {
				maxEnd = op.End
			}
		}
		if have && maxEnd >= minStart {
			sa.StartSec = minStart
			sa.EndSec = maxEnd
		} else if have {
			sa.StartSec, sa.EndSec = 0, 0
			reverted++
		}
	}
	return reverted
}

// applyParagraphTiming sets each paragraph's StartSec/EndSec to
// {min(sentence.StartSec), max(sentence.EndSec)} over its member sentences
// that have timing; a paragraph with no timed member sentence keeps empty
// timing.
func applyParagraphTiming(tx *model.TranscriptIndex, bookParagraphs []model.ParagraphRange, bookSentences []model.SentenceRange) {
	for pi := range tx.Paragraphs {
		if pi >= len(bookParagraphs) {
			break
		}
		prng := bookParagraphs[pi]
		pa := &tx.Paragraphs[pi]
		var minStart, maxEnd float64
		have := false
		for si, sa := range tx.Sentences {
			if si >= len(bookSentences) {
				break
			}
			srng := bookSentences[si]
			if srng.Start < prng.Start || srng.End > prng.End {
				continue
			}
			if sa.StartSec == 0 && sa.EndSec == 0 {
				continue
			}
			if !have {
				minStart, maxEnd = sa.StartSec, sa.EndSec
				have = true
				continue
			}
			if sa.StartSec < minStart {
				minStart = sa.StartSec
			}
			if sa.EndSec > maxEnd {
				maxEnd = sa.EndSec
			}
		}
		if have {
			pa.StartSec, pa.EndSec = minStart, maxEnd
		}
	}
}

// mirrorHydratedTiming copies the timing Merge just derived on tx onto the
// index-parallel ht, per spec §4.9 "writes through to both documents". A
// nil ht (caller has no hydrated transcript loaded) is a no-op.
func mirrorHydratedTiming(tx *model.TranscriptIndex, ht *model.HydratedTranscript) {
	if ht == nil {
		return
	}
	for i := range tx.WordAligns {
		if i >= len(ht.Words) {
			break
		}
		ht.Words[i].StartSec = tx.WordAligns[i].Start
		ht.Words[i].EndSec = tx.WordAligns[i].End
	}
	for i := range tx.Sentences {
		if i >= len(ht.Sentences) {
			break
		}
		ht.Sentences[i].StartSec = tx.Sentences[i].StartSec
		ht.Sentences[i].EndSec = tx.Sentences[i].EndSec
	}
	for i := range tx.Paragraphs {
		if i >= len(ht.Paragraphs) {
			break
		}
		ht.Paragraphs[i].StartSec = tx.Paragraphs[i].StartSec
		ht.Paragraphs[i].EndSec = tx.Paragraphs[i].EndSec
	}
}
