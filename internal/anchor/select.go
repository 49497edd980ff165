package anchor

import (
	"sort"

	"github.com/encryptabit/ams/internal/model"
)

// Policy mirrors config AnchorPolicy (spec §4.5/§4.13).
type Policy struct {
	NGram                int
	TargetPerTokens      int
	MinSeparation        int
	AllowDuplicates      bool
	DisallowBoundaryCross bool
}

// DefaultPolicy returns the spec's documented defaults.
func DefaultPolicy() Policy {
	return Policy{
		NGram:                 3,
		TargetPerTokens:       50,
		MinSeparation:         100,
		AllowDuplicates:       false,
		DisallowBoundaryCross: true,
	}
}

type candidate struct {
	bp, ap int
}

// Select runs the anchor-selection algorithm of spec §4.5 over filtered
// book tokens b (within window [bStart,bEnd]) and filtered ASR tokens a,
// returning anchors in monotonic order with bp and ap translated back to
// original book word / ASR token indices via filteredToOriginalBookWord and
// filteredToOriginalAsrToken.
func Select(b, a []string, sentenceIndex []int, bStart, bEnd int, filteredToOriginalBookWord, filteredToOriginalAsrToken []int, pol Policy) []model.Anchor {
	if pol.NGram <= 0 {
		pol.NGram = 3
	}
	if bEnd >= len(b) {
		bEnd = len(b) - 1
	}
	if bStart < 0 {
		bStart = 0
	}
	if bStart > bEnd {
		return nil
	}

	n := pol.NGram
	bookGrams := make(map[string][]int)
	for p := bStart; p+n <= bEnd+1; p++ {
		g := gramKey(b, p, n)
		bookGrams[g] = append(bookGrams[g], p)
	}

	var candidates []candidate
	for p := 0; p+n <= len(a); p++ {
		g := gramKey(a, p, n)
		positions, ok := bookGrams[g]
		if !ok || len(positions) != 1 {
			continue
		}
		// Must also be unique on the ASR side.
		if countGramOccurrences(a, g, n) != 1 {
			continue
		}
		bp := positions[0]
		if pol.DisallowBoundaryCross && sentenceIndex != nil {
			if sentenceIndex[bp] != sentenceIndex[bp+n-1] {
				continue
			}
		}
		candidates = append(candidates, candidate{bp: bp, ap: p})
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].ap < candidates[j].ap })

	var accepted []candidate
	var lastBp, lastAp = -1, -1
	for _, c := range candidates {
		if lastBp >= 0 {
			if c.bp <= lastBp {
				continue
			}
			if c.ap-lastAp < pol.MinSeparation || c.bp-lastBp < pol.MinSeparation {
				continue
			}
		}
		accepted = append(accepted, c)
		lastBp, lastAp = c.bp, c.ap
	}

	anchors := make([]model.Anchor, 0, len(accepted))
	for _, c := range accepted {
		bookWordIdx := c.bp
		if filteredToOriginalBookWord != nil && c.bp < len(filteredToOriginalBookWord) {
			bookWordIdx = filteredToOriginalBookWord[c.bp]
		}
		asrTokenIdx := c.ap
		if filteredToOriginalAsrToken != nil && c.ap < len(filteredToOriginalAsrToken) {
			asrTokenIdx = filteredToOriginalAsrToken[c.ap]
		}
		anchors = append(anchors, model.Anchor{
			BookIndex: bookWordIdx,
			AsrIndex:  asrTokenIdx,
			NGram:     n,
			Score:     1.0,
		})
	}
	return anchors
}

// TightenWindow narrows [bStart,bEnd] around the anchor span per spec §4.5
// step 5: pad = max(64, min(8192, max(nGram*2, span/5))), clipped to the
// original window, never widening it.
func TightenWindow(anchors []model.Anchor, filteredBookIndexOf func(bookWordIdx int) int, bStart, bEnd, nGram int) (int, int) {
	if len(anchors) == 0 {
		return bStart, bEnd
	}
	first := filteredBookIndexOf(anchors[0].BookIndex)
	last := filteredBookIndexOf(anchors[len(anchors)-1].BookIndex)
	span := last - first
	pad := maxInt(64, minInt(8192, maxInt(nGram*2, span/5)))

	newStart := first - pad
	newEnd := last + pad
	if newStart < bStart {
		newStart = bStart
	}
	if newEnd > bEnd {
		newEnd = bEnd
	}
	return newStart, newEnd
}

func gramKey(tokens []string, pos, n int) string {
	key := ""
	for i := 0; i < n; i++ {
		key += tokens[pos+i] + "\x1f"
	}
	return key
}

func countGramOccurrences(tokens []string, target string, n int) int {
	count := 0
	for p := 0; p+n <= len(tokens); p++ {
		if gramKey(tokens, p, n) == target {
			count++
		}
	}
	return count
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
