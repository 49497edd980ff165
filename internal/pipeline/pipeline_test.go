package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestGateAcquireRelease(t *testing.T) {
	g := NewGate("test", 2)
	ctx := context.Background()

	if err := g.Acquire(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Acquire(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	acquired := make(chan struct{})
	go func() {
		_ = g.Acquire(context.Background())
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("third acquire should have blocked while two are held")
	case <-time.After(50 * time.Millisecond):
	}

	g.Release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("third acquire should have proceeded after a release")
	}
	g.Release()
	g.Release()
}

func TestGateAcquireCancellation(t *testing.T) {
	g := NewGate("test", 1)
	ctx := context.Background()
	if err := g.Acquire(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := g.Acquire(cctx); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestGateNilIsNoop(t *testing.T) {
	var g *Gate
	if err := g.Acquire(context.Background()); err != nil {
		t.Fatalf("nil gate Acquire should be a no-op: %v", err)
	}
	g.Release()
}

func TestForceClaimsOneShot(t *testing.T) {
	fc := newForceClaims()
	if !fc.claim("ch01", "asr") {
		t.Fatal("first claim should succeed")
	}
	if fc.claim("ch01", "asr") {
		t.Fatal("second claim for the same key should fail")
	}
	if !fc.claim("ch02", "asr") {
		t.Fatal("claim for a different chapter should succeed")
	}
	if !fc.claim("ch01", "mfa") {
		t.Fatal("claim for a different stage on the same chapter should succeed")
	}
}

func TestForceClaimsConcurrentExactlyOnce(t *testing.T) {
	fc := newForceClaims()
	const n = 50
	var wg sync.WaitGroup
	var successes int32
	var mu sync.Mutex
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if fc.claim("book", "book-index") {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if successes != 1 {
		t.Fatalf("expected exactly one successful claim under concurrency, got %d", successes)
	}
}

type fakeStage struct {
	number int
	name   string
}

func (f *fakeStage) Number() int                                           { return f.number }
func (f *fakeStage) Name() string                                         { return f.name }
func (f *fakeStage) Gate() GateKind                                       { return GateNone }
func (f *fakeStage) Done(rc *RunContext, chapterID string) (bool, error)  { return false, nil }
func (f *fakeStage) Run(ctx context.Context, rc *RunContext, chapterID string) error {
	return nil
}

func TestRegistryOrderedSortsByNumber(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&fakeStage{number: 3, name: "c"})
	_ = r.Register(&fakeStage{number: 1, name: "a"})
	_ = r.Register(&fakeStage{number: 2, name: "b"})

	ordered := r.Ordered()
	if len(ordered) != 3 {
		t.Fatalf("expected 3 stages, got %d", len(ordered))
	}
	for i, s := range ordered {
		if s.Number() != i+1 {
			t.Errorf("expected stage %d at position %d, got %d", i+1, i, s.Number())
		}
	}
}

func TestRegistryDuplicateNameRejected(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&fakeStage{number: 1, name: "dup"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := r.Register(&fakeStage{number: 2, name: "dup"})
	if !errors.Is(err, ErrStageAlreadyRegistered) {
		t.Fatalf("expected ErrStageAlreadyRegistered, got %v", err)
	}
}

func TestRegistryGetAndNames(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&fakeStage{number: 1, name: "a"})
	_ = r.Register(&fakeStage{number: 2, name: "b"})

	if _, ok := r.Get("a"); !ok {
		t.Error("expected to find stage a")
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("did not expect to find stage missing")
	}
	names := r.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("unexpected names: %v", names)
	}
}
