package pipeline

import (
	"context"

	"github.com/encryptabit/ams/internal/amserr"
	"github.com/encryptabit/ams/internal/anchor"
	"github.com/encryptabit/ams/internal/artifact"
	"github.com/encryptabit/ams/internal/model"
	"github.com/encryptabit/ams/internal/normalize"
)

// anchorsStage implements Stage 3, "Compute Anchors" (spec §4.11): builds
// filtered book/ASR token views (C4), optionally restricts the book search
// window to a resolved section (C5), and selects monotonic unique-n-gram
// anchors (C6). CPU-only, no gate.
type anchorsStage struct{}

// NewAnchorsStage builds Stage 3.
func NewAnchorsStage() Stage { return &anchorsStage{} }

func (s *anchorsStage) Number() int    { return 3 }
func (s *anchorsStage) Name() string   { return "anchors" }
func (s *anchorsStage) Gate() GateKind { return GateNone }

func (s *anchorsStage) Done(rc *RunContext, chapterID string) (bool, error) {
	if rc.Force && rc.ClaimForce(chapterID, s.Name()) {
		return false, nil
	}
	return artifact.Exists(rc.Resolver.Paths.Anchors(chapterID)), nil
}

func (s *anchorsStage) Run(ctx context.Context, rc *RunContext, chapterID string) error {
	if ctx.Err() != nil {
		return amserr.New(amserr.Cancelled, "anchors stage", ctx.Err())
	}

	book, err := rc.Resolver.BookIndexSlot().GetValue()
	if err != nil {
		return amserr.New(amserr.Internal, "load book index", err)
	}
	if book == nil {
		return amserr.New(amserr.InputMissing, "book index not yet built", nil)
	}
	asrResp, err := rc.Resolver.AsrSlot(chapterID).GetValue()
	if err != nil {
		return amserr.New(amserr.Internal, "load asr response", err)
	}
	if asrResp == nil {
		return amserr.New(amserr.InputMissing, "asr response not yet built for "+chapterID, nil)
	}

	cfg := rc.Config.Anchors
	mode := anchor.StopwordsNone
	if cfg.UseDomainStopwords {
		mode = anchor.StopwordsDomain
	}
	opts := normalize.Options{}

	bookView := anchor.BuildBookView(book.Words, mode, anchor.DefaultDomainStopwords, opts)
	asrView := anchor.BuildAsrView(asrResp.Tokens, mode, anchor.DefaultDomainStopwords, opts)

	bLo, bHi := 0, len(bookView.Filtered)-1
	sectionLabel := ""
	if cfg.DetectSection {
		prefix := asrPrefixWords(asrView.Filtered, cfg.AsrPrefixTokens)
		section, label := rc.SectionResolver.Resolve(book.Sections, nil, cfg.SectionOverride, prefix)
		sectionLabel = label
		if section != nil {
			lo, hi, ok := wordRangeToFiltered(bookView, section.StartWord, section.EndWord)
			if ok {
				bLo, bHi = lo, hi
			}
		}
	}

	pol := anchor.Policy{
		NGram:                 cfg.NGram,
		TargetPerTokens:       cfg.TargetPerTokens,
		MinSeparation:         cfg.MinSeparation,
		AllowDuplicates:       false,
		DisallowBoundaryCross: !cfg.AllowBoundaryCross,
	}

	anchors := anchor.Select(bookView.Filtered, asrView.Filtered, bookView.SentenceIndex, bLo, bHi, bookView.FilteredToOriginal, asrView.FilteredToOriginal, pol)
	if cfg.EmitWindows && len(anchors) > 0 {
		tightLo, tightHi := anchor.TightenWindow(anchors, func(bookWordIdx int) int {
			return originalToFiltered(bookView, bookWordIdx)
		}, bLo, bHi, cfg.NGram)
		anchors = anchor.Select(bookView.Filtered, asrView.Filtered, bookView.SentenceIndex, tightLo, tightHi, bookView.FilteredToOriginal, asrView.FilteredToOriginal, pol)
	}

	doc := &model.AnchorDocument{
		ChapterID: chapterID,
		Policy: model.AnchorPolicySnapshot{
			NGram:         cfg.NGram,
			MinSeparation: cfg.MinSeparation,
			StopwordMode:  string(mode),
		},
		Anchors: anchors,
	}
	_ = sectionLabel

	slot := rc.Resolver.AnchorsSlot(chapterID)
	if err := slot.SetValue(doc); err != nil {
		return amserr.New(amserr.Internal, "persist anchors", err)
	}
	return slot.Save()
}

// asrPrefixWords returns the first n filtered ASR tokens, for section
// auto-detection by opening-words match (spec §4.4).
func asrPrefixWords(filtered []string, n int) []string {
	if n <= 0 || n > len(filtered) {
		n = len(filtered)
	}
	out := make([]string, n)
	copy(out, filtered[:n])
	return out
}

// wordRangeToFiltered maps an original book-word index range [startWord,
// endWord] to the tightest enclosing range of filtered-view indices.
func wordRangeToFiltered(v *anchor.View, startWord, endWord int) (lo, hi int, ok bool) {
	lo, hi = -1, -1
	for i, orig := range v.FilteredToOriginal {
		if orig >= startWord && orig <= endWord {
			if lo == -1 {
				lo = i
			}
			hi = i
		}
	}
	return lo, hi, lo != -1
}

// originalToFiltered finds the filtered index whose original word index
// equals bookWordIdx, or the nearest preceding one.
func originalToFiltered(v *anchor.View, bookWordIdx int) int {
	best := 0
	for i, orig := range v.FilteredToOriginal {
		if orig <= bookWordIdx {
			best = i
		} else {
			break
		}
	}
	return best
}
