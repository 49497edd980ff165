// Package align implements the windowed aligner (C7): per-pane weighted
// Needleman-Wunsch edit-distance alignment between filtered book and ASR
// token streams, bookended by anchors.
package align

import "github.com/encryptabit/ams/internal/model"

// Pane is a disjoint token-span pair to align independently.
type Pane struct {
	BLo, BHi int // inclusive-exclusive [BLo, BHi) in filtered book coords
	ALo, AHi int // inclusive-exclusive [ALo, AHi) in filtered ASR coords
}

// BuildPanes bookends the given anchors (Anchor.BookIndex/AsrIndex are
// original book-word/ASR-token indices) with the book/ASR window edges,
// translating each anchor back into filtered coordinates via
// bookWordToFiltered/asrTokenToFiltered, producing disjoint panes covering
// every token in [bWindowLo, bWindowHi) x [aWindowLo, aWindowHi).
func BuildPanes(anchors []model.Anchor, bWindowLo, bWindowHi, aWindowLo, aWindowHi int, bookWordToFiltered, asrTokenToFiltered map[int]int) []Pane {
	type point struct{ b, a int }
	pts := make([]point, 0, len(anchors)+2)
	for _, anc := range anchors {
		b := anc.BookIndex
		if bookWordToFiltered != nil {
			if fb, ok := bookWordToFiltered[anc.BookIndex]; ok {
				b = fb
			}
		}
		a := anc.AsrIndex
		if asrTokenToFiltered != nil {
			if fa, ok := asrTokenToFiltered[anc.AsrIndex]; ok {
				a = fa
			}
		}
		pts = append(pts, point{b: b, a: a})
	}

	panes := make([]Pane, 0, len(pts)+1)
	prevB, prevA := bWindowLo, aWindowLo
	for _, p := range pts {
		panes = append(panes, Pane{BLo: prevB, BHi: p.b, ALo: prevA, AHi: p.a})
		prevB, prevA = p.b+1, p.a+1
	}
	panes = append(panes, Pane{BLo: prevB, BHi: bWindowHi, ALo: prevA, AHi: aWindowHi})
	return panes
}
