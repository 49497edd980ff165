// Package mfa adapts the external forced-aligner contract of spec §6:
// given a corpus directory containing `{chapterId}.wav` + `{chapterId}.lab`
// (plus optional dictionary/G2P assets), the aligner writes
// `{chapterId}.TextGrid` and exits. Exit code 0 means success; non-zero
// means ExternalTransient (retried) or ExternalFatal.
package mfa

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/encryptabit/ams/internal/amserr"
)

// Aligner runs the forced aligner against one chapter's corpus directory.
type Aligner interface {
	// Align invokes the aligner for chapterID against corpusDir, which must
	// already contain {chapterID}.wav and {chapterID}.lab. On success the
	// aligner has written {corpusDir}/{chapterID}.TextGrid.
	Align(ctx context.Context, corpusDir, chapterID string) error
}

// ProcessConfig configures a ProcessRunner.
type ProcessConfig struct {
	// BinaryPath is the MFA executable, e.g. "mfa" on PATH.
	BinaryPath string
	// Args are extra arguments inserted before the corpus/output paths,
	// e.g. the acoustic model and dictionary names.
	Args []string
	// OutputDir is where the aligner is told to write TextGrids; defaults
	// to corpusDir when empty.
	OutputDir string
}

// ProcessRunner invokes the forced aligner as a local subprocess, grounded
// on the teacher's preference for os/exec over shelling through a shell
// (see cmd/shelf's subcommand wiring) — no shell interpolation, explicit
// argv.
type ProcessRunner struct {
	binaryPath string
	args       []string
	outputDir  string
}

// NewProcessRunner builds a ProcessRunner.
func NewProcessRunner(cfg ProcessConfig) *ProcessRunner {
	if cfg.BinaryPath == "" {
		cfg.BinaryPath = "mfa"
	}
	return &ProcessRunner{binaryPath: cfg.BinaryPath, args: cfg.Args, outputDir: cfg.OutputDir}
}

// Align runs `{BinaryPath} {Args...} {corpusDir} {outputDir}` (the exact
// subcommand and flags are supplied via cfg.Args so the caller can match
// their installed MFA version; chapterID is not passed on the command line).
func (r *ProcessRunner) Align(ctx context.Context, corpusDir, chapterID string) error {
	outputDir := r.outputDir
	if outputDir == "" {
		outputDir = corpusDir
	}

	argv := append([]string{}, r.args...)
	argv = append(argv, corpusDir, outputDir)

	cmd := exec.CommandContext(ctx, r.binaryPath, argv...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return amserr.New(amserr.Cancelled, "forced aligner run cancelled", ctx.Err())
	}
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !isExitError(err, &exitErr) {
		return amserr.New(amserr.ExternalFatal, fmt.Sprintf("failed to start forced aligner: %s", err), err)
	}

	if isTransientExit(exitErr.ExitCode()) {
		return amserr.New(amserr.ExternalTransient, fmt.Sprintf("forced aligner exited %d (transient): %s", exitErr.ExitCode(), stderr.String()), err)
	}
	return amserr.New(amserr.ExternalFatal, fmt.Sprintf("forced aligner exited %d: %s", exitErr.ExitCode(), stderr.String()), err)
}

func isExitError(err error, target **exec.ExitError) bool {
	ee, ok := err.(*exec.ExitError)
	if ok {
		*target = ee
	}
	return ok
}

// isTransientExit classifies aligner exit codes that are worth retrying —
// resource contention and timeout codes, as opposed to a malformed corpus
// or missing dictionary (fatal, retrying would not help).
func isTransientExit(code int) bool {
	switch code {
	case 124, 137: // SIGTERM/SIGKILL from a timeout wrapper, OOM-kill
		return true
	default:
		return false
	}
}

// TextGridPath returns the expected output path for a chapter's TextGrid.
func TextGridPath(dir, chapterID string) string {
	return filepath.Join(dir, chapterID+".TextGrid")
}

var _ Aligner = (*ProcessRunner)(nil)
