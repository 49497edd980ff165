package pipeline

import (
	"context"

	"github.com/encryptabit/ams/internal/amserr"
	"github.com/encryptabit/ams/internal/artifact"
	"github.com/encryptabit/ams/internal/hydrate"
)

// hydrateStage implements Stage 5, "Hydrate Transcript" (spec §4.11):
// materializes human-readable book/script text and a word-level diff for
// each sentence, from the already-built TranscriptIndex (C9). CPU-only, no
// gate.
type hydrateStage struct{}

// NewHydrateStage builds Stage 5.
func NewHydrateStage() Stage { return &hydrateStage{} }

func (s *hydrateStage) Number() int    { return 5 }
func (s *hydrateStage) Name() string   { return "hydrate" }
func (s *hydrateStage) Gate() GateKind { return GateNone }

func (s *hydrateStage) Done(rc *RunContext, chapterID string) (bool, error) {
	if rc.Force && rc.ClaimForce(chapterID, s.Name()) {
		return false, nil
	}
	return artifact.Exists(rc.Resolver.Paths.HydratedTranscript(chapterID)), nil
}

func (s *hydrateStage) Run(ctx context.Context, rc *RunContext, chapterID string) error {
	if ctx.Err() != nil {
		return amserr.New(amserr.Cancelled, "hydrate stage", ctx.Err())
	}

	book, err := rc.Resolver.BookIndexSlot().GetValue()
	if err != nil || book == nil {
		return amserr.New(amserr.InputMissing, "book index unavailable", err)
	}
	asrResp, err := rc.Resolver.AsrSlot(chapterID).GetValue()
	if err != nil || asrResp == nil {
		return amserr.New(amserr.InputMissing, "asr response unavailable", err)
	}
	tx, err := rc.Resolver.TranscriptSlot(chapterID).GetValue()
	if err != nil || tx == nil {
		return amserr.New(amserr.InputMissing, "transcript index unavailable", err)
	}

	doc := hydrate.Hydrate(book, asrResp, tx)

	slot := rc.Resolver.HydratedTranscriptSlot(chapterID)
	if err := slot.SetValue(doc); err != nil {
		return amserr.New(amserr.Internal, "persist hydrated transcript", err)
	}
	return slot.Save()
}
