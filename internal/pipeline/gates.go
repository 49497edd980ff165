package pipeline

import "context"

// Gate is a simple counting semaphore bounding how many goroutines may run
// a given pipeline stage concurrently. Adapted from the teacher's
// ProviderWorker.semaphore (internal/jobs/worker.go, a buffered
// `chan struct{}` sized to MaxConcurrency): AMS needs three independent
// gates (book-index, ASR, MFA) rather than one per provider, so the pattern
// is pulled out into its own named type instead of being embedded in a
// worker struct.
type Gate struct {
	name string
	sem  chan struct{}
}

// NewGate builds a Gate allowing up to n concurrent holders. n < 1 is
// clamped to 1.
func NewGate(name string, n int) *Gate {
	if n < 1 {
		n = 1
	}
	return &Gate{name: name, sem: make(chan struct{}, n)}
}

// Name returns the gate's label, used in diagnostics and status reporting.
func (g *Gate) Name() string {
	if g == nil {
		return ""
	}
	return g.name
}

// Acquire blocks until a slot is free or ctx is done.
func (g *Gate) Acquire(ctx context.Context) error {
	if g == nil {
		return nil
	}
	select {
	case g.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot acquired via Acquire.
func (g *Gate) Release() {
	if g == nil {
		return
	}
	<-g.sem
}

// Gates bundles the three concurrency gates of spec §4.11: BookIndex is
// sized 1 (the book index is built once per book, never concurrently),
// Asr and Mfa are sized from PipelineConfig.AsrConcurrency/MfaConcurrency.
type Gates struct {
	BookIndex *Gate
	Asr       *Gate
	Mfa       *Gate
}

// NewGates builds the three gates from the pipeline config's concurrency
// knobs.
func NewGates(asrConcurrency, mfaConcurrency int) *Gates {
	return &Gates{
		BookIndex: NewGate("book-index", 1),
		Asr:       NewGate("asr", asrConcurrency),
		Mfa:       NewGate("mfa", mfaConcurrency),
	}
}
