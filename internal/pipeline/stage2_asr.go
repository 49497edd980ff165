package pipeline

import (
	"context"
	"strings"

	"github.com/encryptabit/ams/internal/amserr"
	"github.com/encryptabit/ams/internal/artifact"
	"github.com/encryptabit/ams/internal/asr"
	"github.com/encryptabit/ams/internal/model"
)

// asrStage implements Stage 2, "Generate Transcript" (spec §4.11): runs the
// external ASR engine under the ASR gate, producing the chapter's
// AsrResponse document and a plain-text corpus file the forced aligner
// consumes in Stage 6.
type asrStage struct{}

// NewAsrStage builds Stage 2.
func NewAsrStage() Stage { return &asrStage{} }

func (s *asrStage) Number() int    { return 2 }
func (s *asrStage) Name() string   { return "asr" }
func (s *asrStage) Gate() GateKind { return GateAsr }

func (s *asrStage) Done(rc *RunContext, chapterID string) (bool, error) {
	if rc.Force && rc.ClaimForce(chapterID, s.Name()) {
		return false, nil
	}
	asrExists := artifact.Exists(rc.Resolver.Paths.Asr(chapterID))
	corpusExists := artifact.Exists(rc.Resolver.Paths.AsrCorpusText(chapterID))
	return asrExists && corpusExists, nil
}

func (s *asrStage) Run(ctx context.Context, rc *RunContext, chapterID string) error {
	if err := rc.Gates.Asr.Acquire(ctx); err != nil {
		return amserr.New(amserr.Cancelled, "asr gate", err)
	}
	defer rc.Gates.Asr.Release()

	if ctx.Err() != nil {
		return amserr.New(amserr.Cancelled, "asr stage", ctx.Err())
	}

	audioPath := rc.AudioPath(chapterID)
	if audioPath == "" {
		return amserr.New(amserr.InputMissing, "no audio path for chapter "+chapterID, nil)
	}

	var resp *model.AsrResponse
	err := withRetry(ctx, rc.Config.Pipeline.Retry, func() error {
		r, rerr := rc.Transcriber.Transcribe(ctx, audioPath, asr.Options{ChapterID: chapterID})
		if rerr != nil {
			return rerr
		}
		resp = r
		return nil
	})
	if err != nil {
		return amserr.New(amserr.ExternalFatal, "asr transcription failed", err)
	}

	resp.ChapterID = chapterID
	resp.AudioFile = audioPath

	asrSlot := rc.Resolver.AsrSlot(chapterID)
	if err := asrSlot.SetValue(resp); err != nil {
		return amserr.New(amserr.Internal, "persist asr response", err)
	}
	if err := asrSlot.Save(); err != nil {
		return amserr.New(amserr.Internal, "write asr.json", err)
	}

	corpus := corpusText(resp.Tokens)
	corpusSlot := rc.Resolver.AsrTranscriptTextSlot(chapterID)
	if err := corpusSlot.SetValue(&corpus); err != nil {
		return amserr.New(amserr.Internal, "persist asr corpus text", err)
	}
	return corpusSlot.Save()
}

// corpusText joins ASR token text into the plain-text corpus the forced
// aligner reads (spec §6's `{id}.asr.corpus.txt`).
func corpusText(tokens []model.AsrToken) string {
	words := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t.Text != "" {
			words = append(words, t.Text)
		}
	}
	return strings.Join(words, " ")
}
