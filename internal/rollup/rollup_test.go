package rollup

import (
	"testing"

	"github.com/encryptabit/ams/internal/model"
	"github.com/encryptabit/ams/internal/normalize"
)

func intp(i int) *int { return &i }

func TestRollupPerfectMatch(t *testing.T) {
	bookWords := []model.BookWord{
		{Text: "The", SentenceIndex: 0},
		{Text: "cat", SentenceIndex: 0},
		{Text: "sat", SentenceIndex: 0},
	}
	asrTokens := []model.AsrToken{
		{Text: "The", Start: 0, Duration: 0.3},
		{Text: "cat", Start: 0.3, Duration: 0.3},
		{Text: "sat", Start: 0.6, Duration: 0.3},
	}
	ops := []model.WordAlign{
		{Kind: model.OpMatch, BookIndex: intp(0), AsrIndex: intp(0), BookText: "the", AsrText: "the"},
		{Kind: model.OpMatch, BookIndex: intp(1), AsrIndex: intp(1), BookText: "cat", AsrText: "cat"},
		{Kind: model.OpMatch, BookIndex: intp(2), AsrIndex: intp(2), BookText: "sat", AsrText: "sat"},
	}
	sentences := []model.SentenceRange{{Index: 0, Start: 0, End: 2}}

	in := Input{Ops: ops, Sentences: sentences, BookWords: bookWords, AsrTokens: asrTokens, Opts: normalize.Options{}}
	out, _ := Rollup(in, DefaultPolicy())

	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	if out[0].Status != model.StatusOK {
		t.Errorf("Status = %v, want ok", out[0].Status)
	}
	if out[0].WER != 0 || out[0].CER != 0 || out[0].Coverage != 1 {
		t.Errorf("metrics = %+v, want all-zero WER/CER and coverage=1", out[0])
	}
}

func TestRollupWithSubstitution(t *testing.T) {
	bookWords := []model.BookWord{{Text: "cat", SentenceIndex: 0}}
	asrTokens := []model.AsrToken{{Text: "bat", Start: 0, Duration: 0.3}}
	ops := []model.WordAlign{
		{Kind: model.OpSubstitute, BookIndex: intp(0), AsrIndex: intp(0), BookText: "cat", AsrText: "bat", Cost: 1.0},
	}
	sentences := []model.SentenceRange{{Index: 0, Start: 0, End: 0}}

	in := Input{Ops: ops, Sentences: sentences, BookWords: bookWords, AsrTokens: asrTokens, Opts: normalize.Options{}}
	out, _ := Rollup(in, DefaultPolicy())

	if out[0].WER != 1.0 {
		t.Errorf("WER = %v, want 1.0", out[0].WER)
	}
	if out[0].Status != model.StatusUnreliable {
		t.Errorf("Status = %v, want unreliable", out[0].Status)
	}
}

func TestSynthesizeGapMonotonic(t *testing.T) {
	sentences := make([]model.SentenceAlign, 3)
	synthesizeGap(sentences, 0, 2, 10, 20)
	for i := 1; i < 3; i++ {
		if sentences[i].ScriptRange.Start <= sentences[i-1].ScriptRange.Start {
			t.Errorf("gap-synthesized sentences not monotonic: %+v", sentences)
		}
		if sentences[i].StartSec != 0 || sentences[i].EndSec != 0 {
			t.Errorf("gap-synthesized sentence %d should have empty timing: %+v", i, sentences[i])
		}
		if !sentences[i].Synthesized {
			t.Errorf("sentence %d not marked synthesized", i)
		}
	}
}
