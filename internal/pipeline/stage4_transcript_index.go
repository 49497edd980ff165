package pipeline

import (
	"context"

	"github.com/encryptabit/ams/internal/align"
	"github.com/encryptabit/ams/internal/amserr"
	"github.com/encryptabit/ams/internal/anchor"
	"github.com/encryptabit/ams/internal/artifact"
	"github.com/encryptabit/ams/internal/model"
	"github.com/encryptabit/ams/internal/normalize"
	"github.com/encryptabit/ams/internal/rollup"
)

// transcriptIndexStage implements Stage 4, "Build Transcript Index" (spec
// §4.11): partitions the book/ASR streams into anchor-bookended panes (C7's
// BuildPanes), runs weighted Needleman-Wunsch alignment per pane, splices in
// anchor match ops, then rolls the combined op list up into sentence- and
// paragraph-level alignment records (C8). CPU-only, no gate.
type transcriptIndexStage struct{}

// NewTranscriptIndexStage builds Stage 4.
func NewTranscriptIndexStage() Stage { return &transcriptIndexStage{} }

func (s *transcriptIndexStage) Number() int    { return 4 }
func (s *transcriptIndexStage) Name() string   { return "transcript-index" }
func (s *transcriptIndexStage) Gate() GateKind { return GateNone }

func (s *transcriptIndexStage) Done(rc *RunContext, chapterID string) (bool, error) {
	if rc.Force && rc.ClaimForce(chapterID, s.Name()) {
		return false, nil
	}
	return artifact.Exists(rc.Resolver.Paths.TranscriptIndex(chapterID)), nil
}

func (s *transcriptIndexStage) Run(ctx context.Context, rc *RunContext, chapterID string) error {
	if ctx.Err() != nil {
		return amserr.New(amserr.Cancelled, "transcript-index stage", ctx.Err())
	}

	book, err := rc.Resolver.BookIndexSlot().GetValue()
	if err != nil || book == nil {
		return amserr.New(amserr.InputMissing, "book index unavailable", err)
	}
	asrResp, err := rc.Resolver.AsrSlot(chapterID).GetValue()
	if err != nil || asrResp == nil {
		return amserr.New(amserr.InputMissing, "asr response unavailable", err)
	}
	anchorDoc, err := rc.Resolver.AnchorsSlot(chapterID).GetValue()
	if err != nil || anchorDoc == nil {
		return amserr.New(amserr.InputMissing, "anchors unavailable", err)
	}

	opts := normalize.Options{}
	mode := anchor.StopwordsDomain
	if !rc.Config.Anchors.UseDomainStopwords {
		mode = anchor.StopwordsNone
	}
	bookView := anchor.BuildBookView(book.Words, mode, anchor.DefaultDomainStopwords, opts)
	asrView := anchor.BuildAsrView(asrResp.Tokens, mode, anchor.DefaultDomainStopwords, opts)

	bookWordToFiltered := invertIndex(bookView.FilteredToOriginal)
	asrTokenToFiltered := invertIndex(asrView.FilteredToOriginal)

	panes := align.BuildPanes(anchorDoc.Anchors, 0, len(bookView.Filtered), 0, len(asrView.Filtered), bookWordToFiltered, asrTokenToFiltered)

	costPol := align.CostPolicy{
		PhonemeSoftThreshold: rc.Config.Align.PhonemeSoftThreshold,
		MaxRun:               rc.Config.Align.MaxRun,
		MaxAvg:               rc.Config.Align.MaxAvg,
		Fillers:              align.DefaultCostPolicy().Fillers,
	}
	eq := normalize.NewEquivalence(nil)

	bookText := func(bi, ai int) (string, string) {
		bt, at := "", ""
		if bi >= 0 && bi < len(book.Words) {
			bt = book.Words[bi].Text
		}
		if ai >= 0 && ai < len(asrResp.Tokens) {
			at = asrResp.Tokens[ai].Text
		}
		return bt, at
	}

	var ops []model.WordAlign
	asrFilteredToOriginal := asrView.FilteredToOriginal
	anchorIdx := 0
	for _, pane := range panes {
		ops = append(ops, align.AlignPane(pane, bookView.Filtered, asrView.Filtered, bookView.FilteredToOriginal, asrFilteredToOriginal, eq, opts, costPol)...)
		if anchorIdx < len(anchorDoc.Anchors) {
			ops = append(ops, align.AnchorOps([]model.Anchor{anchorDoc.Anchors[anchorIdx]}, bookText, bookText)...)
			anchorIdx++
		}
	}

	rollupIn := rollup.Input{
		Ops:        ops,
		Sentences:  book.Sentences,
		Paragraphs: book.Paragraphs,
		BookWords:  book.Words,
		AsrTokens:  asrResp.Tokens,
		Opts:       opts,
	}
	sentences, paragraphs := rollup.Rollup(rollupIn, rollup.DefaultPolicy())

	tx := &model.TranscriptIndex{
		ChapterID:  chapterID,
		WordAligns: ops,
		Sentences:  sentences,
		Paragraphs: paragraphs,
	}

	slot := rc.Resolver.TranscriptSlot(chapterID)
	if err := slot.SetValue(tx); err != nil {
		return amserr.New(amserr.Internal, "persist transcript index", err)
	}
	return slot.Save()
}

// invertIndex builds the reverse of a filtered->original index map: a
// map from original index to filtered index.
func invertIndex(filteredToOriginal []int) map[int]int {
	m := make(map[int]int, len(filteredToOriginal))
	for filtered, original := range filteredToOriginal {
		m[original] = filtered
	}
	return m
}
