package pipeline

import (
	"log/slog"

	"github.com/encryptabit/ams/internal/artifact"
	"github.com/encryptabit/ams/internal/asr"
	"github.com/encryptabit/ams/internal/audio"
	"github.com/encryptabit/ams/internal/config"
	"github.com/encryptabit/ams/internal/diagnostics"
	"github.com/encryptabit/ams/internal/mfa"
	"github.com/encryptabit/ams/internal/section"
)

// RunContext bundles everything a Stage needs to process one chapter: the
// artifact resolver for the book root, the resolved config, the external
// collaborators (ASR transcriber, forced aligner, MFA workspace pool), the
// concurrency gates, a diagnostics recorder, and a logger. Adapted from the
// teacher's pattern of threading a single long-lived context struct
// (internal/svcctx.Context) through job handlers instead of a grab-bag of
// positional parameters.
type RunContext struct {
	Config   *config.Config
	Resolver *artifact.Resolver
	Gates    *Gates

	Transcriber   asr.Transcriber
	Aligner       mfa.Aligner
	WorkspacePool *mfa.WorkspacePool

	SectionResolver *section.Resolver

	// AudioPath maps a chapter ID to its source audio file, for stages that
	// pass a path rather than decoded samples (e.g. ASR transcription).
	AudioPath func(chapterID string) string

	// AudioManagers maps a chapter ID to its lazy-loaded audio buffer
	// manager, for stages or callers that need decoded PCM.
	AudioManagers func(chapterID string) *audio.Manager

	Recorder *diagnostics.Recorder
	Logger   *slog.Logger

	// Force, when true, re-runs every stage even if its output artifact
	// already exists (spec §4.11's force-claim semantics).
	Force bool

	claims *forceClaims
}

// ClaimForce atomically claims the one-shot force re-run for (key, stageName)
// within this RunContext's lifetime. The first caller for a given pair gets
// true; every subsequent caller (e.g. a downstream stage re-checking
// freshness) gets false, reverting to normal skip-if-present behavior. key
// is usually a chapter ID, or "__book__" for the book-scoped stage.
func (rc *RunContext) ClaimForce(key, stageName string) bool {
	if rc.claims == nil {
		rc.claims = newForceClaims()
	}
	return rc.claims.claim(key, stageName)
}

// NewRunContext builds a RunContext from a resolved config and book root,
// wiring the concurrency gates from PipelineConfig and leaving the external
// collaborators (Transcriber, Aligner, WorkspacePool) to be set by the
// caller, since their concrete implementations depend on CLI flags (HTTP
// vs. mock ASR endpoint, process vs. Docker-container MFA runner).
func NewRunContext(cfg *config.Config, bookRoot string, logger *slog.Logger) *RunContext {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunContext{
		Config:          cfg,
		Resolver:        artifact.NewResolver(bookRoot),
		Gates:           NewGates(cfg.Pipeline.AsrConcurrency, cfg.Pipeline.MfaConcurrency),
		SectionResolver: section.NewResolver(cfg.Anchors.AsrPrefixTokens),
		Recorder:        diagnostics.NewRecorder(),
		Logger:          logger,
		Force:           cfg.Pipeline.Force,
		claims:          newForceClaims(),
	}
}
