package align

import (
	"github.com/encryptabit/ams/internal/model"
	"github.com/encryptabit/ams/internal/normalize"
)

// CostPolicy mirrors the spec §4.6 cost parameters.
type CostPolicy struct {
	PhonemeSoftThreshold float64
	MaxRun               int
	MaxAvg               float64
	Fillers              map[string]bool
}

// DefaultCostPolicy returns the spec's documented defaults.
func DefaultCostPolicy() CostPolicy {
	return CostPolicy{
		PhonemeSoftThreshold: 0.8,
		MaxRun:               8,
		MaxAvg:               0.6,
		Fillers:              map[string]bool{"um": true, "uh": true, "umm": true, "uhh": true, "er": true, "ah": true},
	}
}

// subCost implements spec §4.6's sub(b,a) on text alone: 0.0 if the tokens
// are equivalent, 0.3 if near-miss (canonical forms within LevLe1, or
// character similarity at least PhonemeSoftThreshold), else 1.0. Phoneme
// variants are not compared.
func subCost(b, a string, eq *normalize.Equivalence, opts normalize.Options, pol CostPolicy) float64 {
	if normalize.Equivalent(b, a, opts, eq) {
		return 0.0
	}
	cb, ca := normalize.Canonical(b, opts), normalize.Canonical(a, opts)
	if normalize.LevLe1(cb, ca) {
		return 0.3
	}
	if normalize.Similarity(cb, ca) >= pol.PhonemeSoftThreshold {
		return 0.3
	}
	return 1.0
}

func insCost(a string, pol CostPolicy) float64 {
	if pol.Fillers[a] {
		return 0.3
	}
	return 1.0
}

const delCost = 1.0

// AlignPane runs weighted Needleman-Wunsch over b[pane.BLo:pane.BHi] and
// a[pane.ALo:pane.AHi] (already filtered/normalized token slices in the
// original full-stream coordinate space), returning ops in book/ASR order.
// bookOriginal/asrOriginal map a filtered position back to the original
// word/token index, for stamping WordAlign.BookIndex/AsrIndex.
func AlignPane(pane Pane, bFiltered, aFiltered []string, bookOriginal, asrOriginal []int, eq *normalize.Equivalence, opts normalize.Options, pol CostPolicy) []model.WordAlign {
	m := pane.BHi - pane.BLo
	n := pane.AHi - pane.ALo
	if m < 0 {
		m = 0
	}
	if n < 0 {
		n = 0
	}

	dp := make([][]float64, m+1)
	for i := range dp {
		dp[i] = make([]float64, n+1)
	}
	for i := 1; i <= m; i++ {
		dp[i][0] = dp[i-1][0] + delCost
	}
	for j := 1; j <= n; j++ {
		dp[0][j] = dp[0][j-1] + insCost(aFiltered[pane.ALo+j-1], pol)
	}
	for i := 1; i <= m; i++ {
		bTok := bFiltered[pane.BLo+i-1]
		for j := 1; j <= n; j++ {
			aTok := aFiltered[pane.ALo+j-1]
			diag := dp[i-1][j-1] + subCost(bTok, aTok, eq, opts, pol)
			up := dp[i-1][j] + delCost
			left := dp[i][j-1] + insCost(aTok, pol)
			dp[i][j] = minF(diag, up, left)
		}
	}

	// Traceback: diag > up(del) > left(ins) on ties.
	var ops []model.WordAlign
	i, j := m, n
	for i > 0 || j > 0 {
		if i > 0 && j > 0 {
			bTok := bFiltered[pane.BLo+i-1]
			aTok := aFiltered[pane.ALo+j-1]
			cost := subCost(bTok, aTok, eq, opts, pol)
			if dp[i][j] == dp[i-1][j-1]+cost {
				bi, ai := bookOriginal[pane.BLo+i-1], asrOriginal[pane.ALo+j-1]
				kind := model.OpMatch
				if cost > 0 {
					kind = model.OpSubstitute
				}
				ops = append(ops, model.WordAlign{Kind: kind, BookIndex: &bi, AsrIndex: &ai, BookText: bTok, AsrText: aTok, Cost: cost})
				i--
				j--
				continue
			}
		}
		if i > 0 && dp[i][j] == dp[i-1][j]+delCost {
			bi := bookOriginal[pane.BLo+i-1]
			ops = append(ops, model.WordAlign{Kind: model.OpDelete, BookIndex: &bi, BookText: bFiltered[pane.BLo+i-1], Cost: delCost})
			i--
			continue
		}
		aTok := aFiltered[pane.ALo+j-1]
		ai := asrOriginal[pane.ALo+j-1]
		ops = append(ops, model.WordAlign{Kind: model.OpInsert, AsrIndex: &ai, AsrText: aTok, Cost: insCost(aTok, pol)})
		j--
	}

	reverse(ops)
	return ops
}

func reverse(ops []model.WordAlign) {
	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
}

func minF(vals ...float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
