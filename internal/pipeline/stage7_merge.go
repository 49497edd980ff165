package pipeline

import (
	"context"

	"github.com/encryptabit/ams/internal/amserr"
	"github.com/encryptabit/ams/internal/normalize"
	"github.com/encryptabit/ams/internal/textgrid"
)

// mergeStage implements Stage 7, "Merge Timings" (spec §4.11): parses the
// forced aligner's TextGrid and writes word/sentence/paragraph StartSec/
// EndSec through onto the TranscriptIndex in place (C10), overwriting
// `.tx.json` with the timed result, and mirrors the same timing onto the
// HydratedTranscript (C9's output), overwriting `.hydrate.json` too. CPU-only,
// no gate.
type mergeStage struct{}

// NewMergeStage builds Stage 7.
func NewMergeStage() Stage { return &mergeStage{} }

func (s *mergeStage) Number() int    { return 7 }
func (s *mergeStage) Name() string   { return "merge" }
func (s *mergeStage) Gate() GateKind { return GateNone }

func (s *mergeStage) Done(rc *RunContext, chapterID string) (bool, error) {
	if rc.Force && rc.ClaimForce(chapterID, s.Name()) {
		return false, nil
	}
	tx, err := rc.Resolver.TranscriptSlot(chapterID).GetValue()
	if err != nil || tx == nil {
		return false, err
	}
	for _, s := range tx.Sentences {
		if s.StartSec != 0 || s.EndSec != 0 {
			return true, nil
		}
	}
	return false, nil
}

func (s *mergeStage) Run(ctx context.Context, rc *RunContext, chapterID string) error {
	if ctx.Err() != nil {
		return amserr.New(amserr.Cancelled, "merge stage", ctx.Err())
	}

	book, err := rc.Resolver.BookIndexSlot().GetValue()
	if err != nil || book == nil {
		return amserr.New(amserr.InputMissing, "book index unavailable", err)
	}
	tx, err := rc.Resolver.TranscriptSlot(chapterID).GetValue()
	if err != nil || tx == nil {
		return amserr.New(amserr.InputMissing, "transcript index unavailable", err)
	}
	doc, err := rc.Resolver.TextGridSlot(chapterID).GetValue()
	if err != nil || doc == nil {
		return amserr.New(amserr.InputMissing, "textgrid unavailable", err)
	}
	ht, err := rc.Resolver.HydratedTranscriptSlot(chapterID).GetValue()
	if err != nil || ht == nil {
		return amserr.New(amserr.InputMissing, "hydrated transcript unavailable", err)
	}

	res := textgrid.Merge(doc, tx, ht, book.Sentences, book.Paragraphs, normalize.Options{})
	rc.Logger.Info("merged timings", "chapter", chapterID, "matched", res.Matched, "dropped", res.Dropped, "sentencesReverted", res.SentencesReverted)

	txSlot := rc.Resolver.TranscriptSlot(chapterID)
	if err := txSlot.SetValue(tx); err != nil {
		return amserr.New(amserr.Internal, "persist merged transcript index", err)
	}
	if err := txSlot.Save(); err != nil {
		return err
	}

	htSlot := rc.Resolver.HydratedTranscriptSlot(chapterID)
	if err := htSlot.SetValue(ht); err != nil {
		return amserr.New(amserr.Internal, "persist merged hydrated transcript", err)
	}
	return htSlot.Save()
}
