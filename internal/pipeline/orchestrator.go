package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/encryptabit/ams/internal/amserr"
	"github.com/encryptabit/ams/internal/diagnostics"
)

// Orchestrator drives the registered stages over a set of chapters, spec
// §4.11. Grounded on the teacher's scheduler fan-out pattern
// (internal/jobs/scheduler.go submits WorkUnits to per-provider workers and
// collects results on a shared channel); AMS instead fans chapters out via
// errgroup.Group since each chapter's seven stages are a strictly
// sequential in-process pipeline rather than a queue of independent units.
type Orchestrator struct {
	registry *Registry
}

// NewOrchestrator builds an Orchestrator over the given stage registry.
func NewOrchestrator(registry *Registry) *Orchestrator {
	return &Orchestrator{registry: registry}
}

// ChapterResult reports one chapter's outcome.
type ChapterResult struct {
	ChapterID string
	Err       error
}

// Run processes chapterIDs in parallel (bounded by each stage's own gate),
// running every registered stage whose Number falls within
// [startStage, endStage] in order for each chapter. A chapter whose stage
// fails stops that chapter only; other chapters continue (spec §4.11's
// failure semantics).
func (o *Orchestrator) Run(ctx context.Context, rc *RunContext, chapterIDs []string, startStage, endStage int) []ChapterResult {
	results := make([]ChapterResult, len(chapterIDs))
	g, gctx := errgroup.WithContext(ctx)

	for i, chapterID := range chapterIDs {
		i, chapterID := i, chapterID
		g.Go(func() error {
			err := o.runChapter(gctx, rc, chapterID, startStage, endStage)
			results[i] = ChapterResult{ChapterID: chapterID, Err: err}
			return nil // per-chapter errors never abort sibling chapters
		})
	}
	_ = g.Wait()
	return results
}

func (o *Orchestrator) runChapter(ctx context.Context, rc *RunContext, chapterID string, startStage, endStage int) error {
	for _, stage := range o.registry.Ordered() {
		if stage.Number() < startStage || stage.Number() > endStage {
			continue
		}
		if err := ctx.Err(); err != nil {
			return amserr.New(amserr.Cancelled, "orchestrator cancelled", err)
		}

		done, err := stage.Done(rc, chapterID)
		if err != nil {
			return amserr.New(amserr.Internal, "stage freshness check failed: "+stage.Name(), err)
		}
		if done {
			rc.Recorder.Record(diagnostics.Event{Chapter: chapterID, Stage: stage.Name(), Outcome: diagnostics.OutcomeSkipped})
			diagnostics.Observe(diagnostics.Event{Chapter: chapterID, Stage: stage.Name(), Outcome: diagnostics.OutcomeSkipped})
			continue
		}

		start := time.Now()
		runErr := stage.Run(ctx, rc, chapterID)
		elapsed := time.Since(start)

		rc.Recorder.RecordStage(chapterID, stage.Name(), elapsed, 0, runErr)
		diagnostics.Observe(diagnostics.Event{
			Chapter:    chapterID,
			Stage:      stage.Name(),
			Outcome:    outcomeFor(runErr),
			DurationMs: elapsed.Milliseconds(),
		})

		if runErr != nil {
			return runErr
		}
	}
	return nil
}

func outcomeFor(err error) diagnostics.Outcome {
	if err != nil {
		return diagnostics.OutcomeFailure
	}
	return diagnostics.OutcomeSuccess
}
