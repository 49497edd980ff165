package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/encryptabit/ams/internal/amserr"
	"github.com/encryptabit/ams/internal/artifact"
)

// mfaStage implements Stage 6, "Run Forced Aligner" (spec §4.11): rents an
// isolated workspace directory from the MFA pool under the MFA gate,
// materializes the chapter's {id}.wav/{id}.lab corpus pair into it, invokes
// the external aligner, and leaves the resulting TextGrid under
// alignment/mfa/{id}.TextGrid. The rented workspace is always released,
// success or failure (spec's RAII-style guarantee).
type mfaStage struct{}

// NewMfaStage builds Stage 6.
func NewMfaStage() Stage { return &mfaStage{} }

func (s *mfaStage) Number() int    { return 6 }
func (s *mfaStage) Name() string   { return "mfa" }
func (s *mfaStage) Gate() GateKind { return GateMfa }

func (s *mfaStage) Done(rc *RunContext, chapterID string) (bool, error) {
	if rc.Force && rc.ClaimForce(chapterID, s.Name()) {
		return false, nil
	}
	return artifact.Exists(rc.Resolver.Paths.TextGrid(chapterID)), nil
}

func (s *mfaStage) Run(ctx context.Context, rc *RunContext, chapterID string) error {
	if err := rc.Gates.Mfa.Acquire(ctx); err != nil {
		return amserr.New(amserr.Cancelled, "mfa gate", err)
	}
	defer rc.Gates.Mfa.Release()

	if ctx.Err() != nil {
		return amserr.New(amserr.Cancelled, "mfa stage", ctx.Err())
	}

	workDir, release, err := rc.WorkspacePool.Rent(ctx)
	if err != nil {
		return amserr.New(amserr.Cancelled, "mfa workspace rental", err)
	}
	defer release()

	audioPath := rc.AudioPath(chapterID)
	if audioPath == "" {
		return amserr.New(amserr.InputMissing, "no audio path for chapter "+chapterID, nil)
	}
	if filepath.Ext(audioPath) != ".wav" {
		return amserr.New(amserr.SchemaMismatch, "mfa corpus requires a .wav source, got "+filepath.Ext(audioPath), nil)
	}
	if err := copyFile(audioPath, filepath.Join(workDir, chapterID+".wav")); err != nil {
		return amserr.New(amserr.Internal, "stage corpus wav", err)
	}

	corpus, err := rc.Resolver.AsrTranscriptTextSlot(chapterID).GetValue()
	if err != nil || corpus == nil {
		return amserr.New(amserr.InputMissing, "asr corpus text unavailable", err)
	}
	if err := os.WriteFile(filepath.Join(workDir, chapterID+".lab"), []byte(*corpus), 0o644); err != nil {
		return amserr.New(amserr.Internal, "stage corpus lab", err)
	}

	err = withRetry(ctx, rc.Config.Pipeline.Retry, func() error {
		return rc.Aligner.Align(ctx, workDir, chapterID)
	})
	if err != nil {
		return amserr.New(amserr.ExternalFatal, "forced alignment failed", err)
	}

	finalDir := filepath.Dir(rc.Resolver.Paths.TextGrid(chapterID))
	if err := os.MkdirAll(finalDir, 0o755); err != nil {
		return amserr.New(amserr.Internal, "create alignment dir", err)
	}
	producedTextGrid := filepath.Join(workDir, chapterID+".TextGrid")
	if err := copyFile(producedTextGrid, rc.Resolver.Paths.TextGrid(chapterID)); err != nil {
		return amserr.New(amserr.ExternalFatal, "collect textgrid from workspace", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	tmp := dst + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("copy %s -> %s: %w", src, tmp, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}
