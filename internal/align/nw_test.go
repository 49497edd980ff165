package align

import (
	"testing"

	"github.com/encryptabit/ams/internal/model"
	"github.com/encryptabit/ams/internal/normalize"
)

func identityMap(n int) []int {
	m := make([]int, n)
	for i := range m {
		m[i] = i
	}
	return m
}

func TestAlignPaneAllMatches(t *testing.T) {
	b := []string{"the", "cat", "sat"}
	a := []string{"the", "cat", "sat"}
	pane := Pane{BLo: 0, BHi: 3, ALo: 0, AHi: 3}
	ops := AlignPane(pane, b, a, identityMap(3), identityMap(3), nil, normalize.Options{}, DefaultCostPolicy())

	if len(ops) != 3 {
		t.Fatalf("len(ops) = %d, want 3", len(ops))
	}
	for _, op := range ops {
		if op.Kind != model.OpMatch {
			t.Errorf("op kind = %v, want match: %+v", op.Kind, op)
		}
	}
}

func TestAlignPaneSubstitution(t *testing.T) {
	b := []string{"the", "cat", "sat"}
	a := []string{"the", "bat", "sat"}
	pane := Pane{BLo: 0, BHi: 3, ALo: 0, AHi: 3}
	ops := AlignPane(pane, b, a, identityMap(3), identityMap(3), nil, normalize.Options{}, DefaultCostPolicy())

	if len(ops) != 3 {
		t.Fatalf("len(ops) = %d, want 3", len(ops))
	}
	if ops[1].Kind != model.OpSubstitute {
		t.Errorf("ops[1].Kind = %v, want substitute", ops[1].Kind)
	}
}

func TestAlignPaneInsertDelete(t *testing.T) {
	b := []string{"the", "cat", "sat", "down"}
	a := []string{"the", "cat", "sat"}
	pane := Pane{BLo: 0, BHi: 4, ALo: 0, AHi: 3}
	ops := AlignPane(pane, b, a, identityMap(4), identityMap(3), nil, normalize.Options{}, DefaultCostPolicy())

	var deletions int
	for _, op := range ops {
		if op.Kind == model.OpDelete {
			deletions++
		}
	}
	if deletions != 1 {
		t.Errorf("deletions = %d, want 1", deletions)
	}
}

func TestBuildPanesSingleAnchor(t *testing.T) {
	anchors := []model.Anchor{{BookIndex: 5, AsrIndex: 5}}
	panes := BuildPanes(anchors, 0, 10, 0, 10, nil, nil)
	if len(panes) != 2 {
		t.Fatalf("len(panes) = %d, want 2", len(panes))
	}
	if panes[0].BHi != 5 || panes[1].BLo != 6 {
		t.Errorf("panes = %+v", panes)
	}
}
