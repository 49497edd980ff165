package align

import "github.com/encryptabit/ams/internal/model"

// AnchorOps converts a set of selected anchors into Match WordAlign ops with
// reason "anchor", used as stable landmarks between panes.
func AnchorOps(anchors []model.Anchor, bookText, asrText func(bookIdx, asrIdx int) (string, string)) []model.WordAlign {
	ops := make([]model.WordAlign, 0, len(anchors))
	for _, anc := range anchors {
		bi, ai := anc.BookIndex, anc.AsrIndex
		bt, at := bookText(bi, ai)
		ops = append(ops, model.WordAlign{
			Kind:      model.OpMatch,
			BookIndex: &bi,
			AsrIndex:  &ai,
			BookText:  bt,
			AsrText:   at,
			Reason:    "anchor",
			Cost:      0,
		})
	}
	return ops
}

// RunStats summarizes a contiguous run of ops for the maxRun/maxAvg
// classification noted in spec §4.6 (the merge/hydrate stages classify
// long or high-average-cost runs via metrics, not rejection).
type RunStats struct {
	Length   int
	AvgCost  float64
	Flagged  bool
}

// ClassifyRun reports whether a run of ops exceeds maxRun or maxAvg.
func ClassifyRun(ops []model.WordAlign, pol CostPolicy) RunStats {
	if len(ops) == 0 {
		return RunStats{}
	}
	var sum float64
	for _, op := range ops {
		sum += op.Cost
	}
	avg := sum / float64(len(ops))
	flagged := len(ops) > pol.MaxRun || avg > pol.MaxAvg
	return RunStats{Length: len(ops), AvgCost: avg, Flagged: flagged}
}
