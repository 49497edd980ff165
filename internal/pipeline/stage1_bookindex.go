package pipeline

import (
	"context"

	"github.com/encryptabit/ams/internal/amserr"
	"github.com/encryptabit/ams/internal/artifact"
	"github.com/encryptabit/ams/internal/bookindex"
	"github.com/encryptabit/ams/internal/model"
)

// BookIndexBuilder produces the canonical BookIndex for a book root. It is
// supplied by the caller (the CLI layer, after running the out-of-scope
// book parser over the source file) rather than implemented inside the
// pipeline package itself.
type BookIndexBuilder func() (*model.BookIndex, error)

// bookIndexStage implements Stage 1, "Ensure BookIndex" (spec §4.11): the
// book index is built once per book under BookIndexGate=1 and is read-only
// to every downstream stage. Grounded on the teacher's one-time
// setup-then-cache steps (e.g. ensureImage in internal/defra/docker.go),
// generalized to AMS's artifact-slot persistence instead of a Docker image
// pull.
type bookIndexStage struct {
	build BookIndexBuilder
}

// NewBookIndexStage builds Stage 1 with the given BookIndex builder.
func NewBookIndexStage(build BookIndexBuilder) Stage {
	return &bookIndexStage{build: build}
}

func (s *bookIndexStage) Number() int    { return 1 }
func (s *bookIndexStage) Name() string   { return "book-index" }
func (s *bookIndexStage) Gate() GateKind { return GateBookIndex }

func (s *bookIndexStage) Done(rc *RunContext, chapterID string) (bool, error) {
	if rc.Force && rc.ClaimForce("__book__", s.Name()) {
		return false, nil
	}
	return artifact.Exists(rc.Resolver.Paths.BookIndex()), nil
}

func (s *bookIndexStage) Run(ctx context.Context, rc *RunContext, chapterID string) error {
	if err := rc.Gates.BookIndex.Acquire(ctx); err != nil {
		return amserr.New(amserr.Cancelled, "book-index gate", err)
	}
	defer rc.Gates.BookIndex.Release()

	if ctx.Err() != nil {
		return amserr.New(amserr.Cancelled, "book-index stage", ctx.Err())
	}

	idx, err := s.build()
	if err != nil {
		return amserr.New(amserr.Internal, "book parser failed", err)
	}
	if err := bookindex.Verify(idx); err != nil {
		return amserr.New(amserr.SchemaMismatch, "book index verification failed", err)
	}

	slot := rc.Resolver.BookIndexSlot()
	if err := slot.SetValue(idx); err != nil {
		return amserr.New(amserr.Internal, "persist book index", err)
	}
	return slot.Save()
}
