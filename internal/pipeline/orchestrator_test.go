package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/encryptabit/ams/internal/diagnostics"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type trackingStage struct {
	number int
	name   string
	skip   bool
	failOn map[string]bool

	mu  sync.Mutex
	ran []string
}

func (s *trackingStage) Number() int    { return s.number }
func (s *trackingStage) Name() string   { return s.name }
func (s *trackingStage) Gate() GateKind { return GateNone }

func (s *trackingStage) Done(rc *RunContext, chapterID string) (bool, error) {
	return s.skip, nil
}

func (s *trackingStage) Run(ctx context.Context, rc *RunContext, chapterID string) error {
	s.mu.Lock()
	s.ran = append(s.ran, chapterID)
	s.mu.Unlock()
	if s.failOn[chapterID] {
		return errors.New("boom: " + chapterID)
	}
	return nil
}

func newTestRunContext() *RunContext {
	return &RunContext{
		Gates:    NewGates(2, 1),
		Recorder: diagnostics.NewRecorder(),
		Logger:   nil,
		claims:   newForceClaims(),
	}
}

func TestOrchestratorRunsStagesInOrderPerChapter(t *testing.T) {
	s1 := &trackingStage{number: 1, name: "one"}
	s2 := &trackingStage{number: 2, name: "two"}
	r := NewRegistry()
	_ = r.Register(s2) // registered out of number order on purpose
	_ = r.Register(s1)

	orch := NewOrchestrator(r)
	rc := newTestRunContext()
	rc.Logger = testLogger()

	results := orch.Run(context.Background(), rc, []string{"ch01"}, 1, 2)
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("unexpected results: %+v", results)
	}
	if len(s1.ran) != 1 || len(s2.ran) != 1 {
		t.Fatalf("expected both stages to run once, got s1=%v s2=%v", s1.ran, s2.ran)
	}
}

func TestOrchestratorSkipsDoneStages(t *testing.T) {
	s1 := &trackingStage{number: 1, name: "one", skip: true}
	r := NewRegistry()
	_ = r.Register(s1)

	orch := NewOrchestrator(r)
	rc := newTestRunContext()
	rc.Logger = testLogger()

	results := orch.Run(context.Background(), rc, []string{"ch01"}, 1, 1)
	if results[0].Err != nil {
		t.Fatalf("unexpected error: %v", results[0].Err)
	}
	if len(s1.ran) != 0 {
		t.Fatalf("expected skipped stage not to run, got %v", s1.ran)
	}
}

func TestOrchestratorChapterFailureDoesNotAbortSiblings(t *testing.T) {
	s1 := &trackingStage{number: 1, name: "one", failOn: map[string]bool{"ch01": true}}
	r := NewRegistry()
	_ = r.Register(s1)

	orch := NewOrchestrator(r)
	rc := newTestRunContext()
	rc.Logger = testLogger()

	results := orch.Run(context.Background(), rc, []string{"ch01", "ch02"}, 1, 1)
	var failed, ok int
	for _, res := range results {
		if res.Err != nil {
			failed++
		} else {
			ok++
		}
	}
	if failed != 1 || ok != 1 {
		t.Fatalf("expected exactly one failed and one ok chapter, got failed=%d ok=%d", failed, ok)
	}
}

func TestOrchestratorRespectsStageRange(t *testing.T) {
	s1 := &trackingStage{number: 1, name: "one"}
	s2 := &trackingStage{number: 2, name: "two"}
	r := NewRegistry()
	_ = r.Register(s1)
	_ = r.Register(s2)

	orch := NewOrchestrator(r)
	rc := newTestRunContext()
	rc.Logger = testLogger()

	orch.Run(context.Background(), rc, []string{"ch01"}, 2, 2)
	if len(s1.ran) != 0 {
		t.Fatalf("stage 1 should not have run outside [2,2], ran=%v", s1.ran)
	}
	if len(s2.ran) != 1 {
		t.Fatalf("expected stage 2 to run once, got %v", s2.ran)
	}
}
