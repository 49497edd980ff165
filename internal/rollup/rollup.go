// Package rollup implements the rollup engine (C8): aggregating per-word
// alignment ops into per-sentence and per-paragraph metrics, synthesizing
// script ranges for gapped sentences.
package rollup

import (
	"strings"

	"github.com/encryptabit/ams/internal/model"
	"github.com/encryptabit/ams/internal/normalize"
)

// Policy carries the thresholds rollup uses to classify status.
type Policy struct {
	OKMaxWER          float64
	OKMaxDeletions    int
	AttentionMaxWER   float64
}

// DefaultPolicy returns the spec-documented thresholds (§4.7 step 7).
func DefaultPolicy() Policy {
	return Policy{OKMaxWER: 0.10, OKMaxDeletions: 3, AttentionMaxWER: 0.25}
}

// Input bundles everything Rollup needs: the full op list and coordinate
// helpers to resolve sentence membership and raw text for CER.
type Input struct {
	Ops          []model.WordAlign
	Sentences    []model.SentenceRange
	Paragraphs   []model.ParagraphRange
	BookWords    []model.BookWord
	AsrTokens    []model.AsrToken
	Opts         normalize.Options
}

// Rollup computes SentenceAlign and ParagraphAlign rollups per spec §4.7.
func Rollup(in Input, pol Policy) (sentences []model.SentenceAlign, paragraphs []model.ParagraphAlign) {
	// Index ops by book index for O(1) membership tests.
	opsByBook := make(map[int][]model.WordAlign)
	var insertOps []model.WordAlign
	for _, op := range in.Ops {
		if op.BookIndex != nil {
			opsByBook[*op.BookIndex] = append(opsByBook[*op.BookIndex], op)
		} else if op.Kind == model.OpInsert {
			insertOps = append(insertOps, op)
		}
	}

	anchorAsrByBook := make(map[int]int)
	for _, op := range in.Ops {
		if op.Reason == "anchor" && op.BookIndex != nil && op.AsrIndex != nil {
			anchorAsrByBook[*op.BookIndex] = *op.AsrIndex
		}
	}

	sentences = make([]model.SentenceAlign, len(in.Sentences))
	var prevConcreteEnd = -1
	gapStart := -1

	for si, s := range in.Sentences {
		var matches, subs, dels int
		var costSum float64
		minAsr, maxAsr := -1, -1
		for w := s.Start; w <= s.End; w++ {
			for _, op := range opsByBook[w] {
				switch op.Kind {
				case model.OpMatch:
					matches++
				case model.OpSubstitute:
					subs++
					costSum += op.Cost
				case model.OpDelete:
					dels++
					costSum += op.Cost
				}
				if op.AsrIndex != nil {
					if minAsr < 0 || *op.AsrIndex < minAsr {
						minAsr = *op.AsrIndex
					}
					if *op.AsrIndex > maxAsr {
						maxAsr = *op.AsrIndex
					}
				}
			}
		}

		length := s.End - s.Start + 1
		sent := model.SentenceAlign{
			SentenceIndex: si,
			Matches:       matches,
			Substitutions: subs,
			Deletions:     dels,
		}

		if minAsr < 0 {
			// No direct ASR coverage: mark for gap synthesis below.
			if gapStart < 0 {
				gapStart = si
			}
			sentences[si] = sent
			continue
		}

		if gapStart >= 0 {
			synthesizeGap(sentences, gapStart, si-1, prevConcreteEnd, minAsr)
			gapStart = -1
		}

		// Tally bounding insertions between guard anchors.
		for _, ins := range insertOps {
			if ins.AsrIndex == nil {
				continue
			}
			if *ins.AsrIndex > minAsr && *ins.AsrIndex < maxAsr {
				costSum += ins.Cost
			}
		}

		wer := costSum / float64(maxInt(1, length))
		if wer > 1 {
			wer = 1
		}
		coverage := 1 - float64(dels)/float64(maxInt(1, length))

		bookStr := joinBookWords(in.BookWords, s.Start, s.End, in.Opts)
		asrStr := joinAsrTokens(in.AsrTokens, minAsr, maxAsr, in.Opts)
		cer := 0.0
		if bookStr != asrStr {
			cer = normalize.Similarity(bookStr, asrStr)
			cer = 1 - cer
		}
		if bookStr == asrStr {
			wer, cer, coverage = 0, 0, 1
		}

		sent.WER, sent.CER, sent.Coverage = wer, cer, coverage
		sent.Status = classify(wer, dels, pol)
		sent.ScriptRange = model.ScriptRange{Start: minAsr, End: maxAsr}
		sentences[si] = sent
		prevConcreteEnd = maxAsr
	}

	if gapStart >= 0 {
		nextStart := len(in.AsrTokens)
		synthesizeGap(sentences, gapStart, len(in.Sentences)-1, prevConcreteEnd, nextStart)
	}

	paragraphs = rollupParagraphs(in.Paragraphs, in.Sentences, sentences, pol)
	return sentences, paragraphs
}

// synthesizeGap fills sentences[from..to] (inclusive, zero ASR coverage)
// per spec §4.7's gap-synthesis rule: the ASR index span strictly between
// prevEnd and nextStart ([prevEnd+1, nextStart-1], clamped at 0) is split
// proportionally into contiguous blocks, one per gap sentence in order, so
// a single gap sentence with prevEnd 10 and nextStart 20 gets [11, 19]. When the span
// holds fewer indices than there are gap sentences, neighbouring sentences
// share an index. The values are ASR token-index positions (ScriptRange),
// never seconds — these sentences get empty timing, filled by Merge only if
// it later finds a real word match in range, per spec §4.7/§8 scenario 3.
func synthesizeGap(sentences []model.SentenceAlign, from, to, prevEnd, nextStart int) {
	n := to - from + 1
	if n <= 0 {
		return
	}
	lo := prevEnd + 1
	if lo < 0 {
		lo = 0
	}
	hi := nextStart - 1
	if hi < lo {
		hi = lo
	}
	span := hi - lo + 1
	for i := 0; i < n; i++ {
		idx := from + i
		start := lo + span*i/n
		end := lo + span*(i+1)/n - 1
		if end < start {
			end = start
		}
		sentences[idx].ScriptRange = model.ScriptRange{Start: start, End: end}
		sentences[idx].Status = model.StatusUnreliable
		sentences[idx].Synthesized = true
	}
}

func classify(wer float64, dels int, pol Policy) model.Status {
	if wer <= pol.OKMaxWER && dels < pol.OKMaxDeletions {
		return model.StatusOK
	}
	if wer <= pol.AttentionMaxWER {
		return model.StatusAttention
	}
	return model.StatusUnreliable
}

func rollupParagraphs(paras []model.ParagraphRange, sentences []model.SentenceRange, sentAligns []model.SentenceAlign, pol Policy) []model.ParagraphAlign {
	out := make([]model.ParagraphAlign, len(paras))
	for pi, p := range paras {
		var wSum, cSum, covSum float64
		var count int
		for si, s := range sentences {
			if s.Start >= p.Start && s.End <= p.End {
				wSum += sentAligns[si].WER
				cSum += sentAligns[si].CER
				covSum += sentAligns[si].Coverage
				count++
			}
		}
		var wer, cer, cov float64
		if count > 0 {
			wer, cer, cov = wSum/float64(count), cSum/float64(count), covSum/float64(count)
		}
		out[pi] = model.ParagraphAlign{
			ParagraphIndex: pi,
			WER:            wer,
			CER:            cer,
			Coverage:       cov,
			Status:         classify(wer, 0, pol),
		}
	}
	return out
}

func joinBookWords(words []model.BookWord, start, end int, opts normalize.Options) string {
	var b strings.Builder
	for i := start; i <= end && i < len(words); i++ {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(normalize.Canonical(words[i].Text, opts))
	}
	return b.String()
}

func joinAsrTokens(tokens []model.AsrToken, start, end int, opts normalize.Options) string {
	var b strings.Builder
	for i := start; i <= end && i >= 0 && i < len(tokens); i++ {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(normalize.Canonical(tokens[i].Text, opts))
	}
	return b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
