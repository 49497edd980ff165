// Package hydrate implements the hydrator (C9): materializing book/ASR text
// onto alignment ops and computing a display-oriented token diff.
package hydrate

import (
	"strings"

	"github.com/encryptabit/ams/internal/model"
)

// Hydrate joins BookIndex/AsrResponse text onto a TranscriptIndex, producing
// a HydratedTranscript that mirrors its words/sentences/paragraphs
// structure: each word carries its resolved bookWord/asrWord text, each
// sentence carries its full bookText/scriptText plus a token-level diff.
// Timing fields are left empty; Merge (C10) fills them later.
func Hydrate(book *model.BookIndex, asr *model.AsrResponse, tx *model.TranscriptIndex) *model.HydratedTranscript {
	ht := &model.HydratedTranscript{ChapterID: tx.ChapterID}

	ht.Words = make([]model.HydratedWord, len(tx.WordAligns))
	for i := range tx.WordAligns {
		op := &tx.WordAligns[i]
		if op.BookIndex != nil && *op.BookIndex < len(book.Words) {
			op.BookText = book.Words[*op.BookIndex].Text
		}
		if op.AsrIndex != nil && *op.AsrIndex < len(asr.Tokens) {
			op.AsrText = asr.Tokens[*op.AsrIndex].Text
		}
		ht.Words[i] = model.HydratedWord{
			Kind:      op.Kind,
			BookIndex: op.BookIndex,
			AsrIndex:  op.AsrIndex,
			BookWord:  op.BookText,
			AsrWord:   op.AsrText,
		}
	}

	ht.Sentences = make([]model.HydratedSentence, len(tx.Sentences))
	for si, sa := range tx.Sentences {
		if si >= len(book.Sentences) {
			break
		}
		bookText, scriptText := HydrateSentenceText(book, asr, book.Sentences[si], sa.ScriptRange.Start, sa.ScriptRange.End)
		diffOps, stats := diff(tokenize(bookText), tokenize(scriptText))
		ht.Sentences[si] = model.HydratedSentence{
			SentenceIndex: si,
			BookText:      bookText,
			ScriptText:    scriptText,
			Diff:          diffOps,
			Stats:         stats,
		}
	}

	ht.Paragraphs = make([]model.HydratedParagraph, len(book.Paragraphs))
	for pi := range book.Paragraphs {
		ht.Paragraphs[pi] = model.HydratedParagraph{ParagraphIndex: pi}
	}

	return ht
}

// HydrateSentenceText materializes bookText/scriptText for a single
// sentence range, using its (possibly synthesized) script range.
func HydrateSentenceText(book *model.BookIndex, asr *model.AsrResponse, s model.SentenceRange, scriptLo, scriptHi int) (bookText, scriptText string) {
	bookText = joinBookRange(book, s.Start, s.End)
	if scriptLo >= 0 && scriptHi >= scriptLo {
		scriptText = joinAsrRange(asr, scriptLo, scriptHi)
	}
	return bookText, scriptText
}

func joinBookRange(book *model.BookIndex, start, end int) string {
	var b strings.Builder
	for i := start; i <= end && i >= 0 && i < len(book.Words); i++ {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(book.Words[i].Text)
	}
	return b.String()
}

func joinAsrRange(asr *model.AsrResponse, start, end int) string {
	var b strings.Builder
	for i := start; i <= end && i >= 0 && i < len(asr.Tokens); i++ {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(asr.Tokens[i].Text)
	}
	return b.String()
}

func tokenize(s string) []string {
	return strings.Fields(s)
}

// diff computes a simple equal/insert/delete/substitute run diff between
// two token slices via an LCS dynamic-programming table, good enough for
// display purposes (not used for scoring, which is rollup's job).
func diff(ref, hyp []string) ([]model.DiffOp, model.DiffStats) {
	m, n := len(ref), len(hyp)
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if ref[i-1] == hyp[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] >= dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}

	var ops []model.DiffOp
	stats := model.DiffStats{}
	i, j := m, n
	for i > 0 && j > 0 {
		switch {
		case ref[i-1] == hyp[j-1]:
			ops = append(ops, model.DiffOp{Kind: model.DiffEqual, BookText: ref[i-1], AsrText: hyp[j-1]})
			stats.Equal++
			i--
			j--
		case dp[i-1][j] >= dp[i][j-1]:
			ops = append(ops, model.DiffOp{Kind: model.DiffDelete, BookText: ref[i-1]})
			stats.Delete++
			i--
		default:
			ops = append(ops, model.DiffOp{Kind: model.DiffInsert, AsrText: hyp[j-1]})
			stats.Insert++
			j--
		}
	}
	for i > 0 {
		ops = append(ops, model.DiffOp{Kind: model.DiffDelete, BookText: ref[i-1]})
		stats.Delete++
		i--
	}
	for j > 0 {
		ops = append(ops, model.DiffOp{Kind: model.DiffInsert, AsrText: hyp[j-1]})
		stats.Insert++
		j--
	}

	reverseOps(ops)
	return mergeAdjacentReplace(ops, &stats), stats
}

func reverseOps(ops []model.DiffOp) {
	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
}

// mergeAdjacentReplace collapses an adjacent delete+insert pair (in either
// order) into a single substitute op, matching the spec's
// equal/insert/delete/substitute vocabulary.
func mergeAdjacentReplace(ops []model.DiffOp, stats *model.DiffStats) []model.DiffOp {
	var out []model.DiffOp
	for i := 0; i < len(ops); i++ {
		if i+1 < len(ops) && ops[i].Kind == model.DiffDelete && ops[i+1].Kind == model.DiffInsert {
			out = append(out, model.DiffOp{Kind: model.DiffReplace, BookText: ops[i].BookText, AsrText: ops[i+1].AsrText})
			stats.Delete--
			stats.Insert--
			stats.Replace++
			i++
			continue
		}
		if i+1 < len(ops) && ops[i].Kind == model.DiffInsert && ops[i+1].Kind == model.DiffDelete {
			out = append(out, model.DiffOp{Kind: model.DiffReplace, BookText: ops[i+1].BookText, AsrText: ops[i].AsrText})
			stats.Delete--
			stats.Insert--
			stats.Replace++
			i++
			continue
		}
		out = append(out, ops[i])
	}
	return out
}
