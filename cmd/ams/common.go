package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/encryptabit/ams/internal/asr"
	"github.com/encryptabit/ams/internal/audio"
	"github.com/encryptabit/ams/internal/config"
	"github.com/encryptabit/ams/internal/mfa"
	"github.com/encryptabit/ams/internal/pipeline"
	"github.com/encryptabit/ams/internal/section"
)

// External-collaborator flags shared across the asr/mfa/pipeline command
// groups, grounded on the teacher's pattern of package-level flag vars
// wired into multiple cobra.Command values (cmd/shelf/root.go's cfgFile).
var (
	audioPathFlag  string
	sourceFileFlag string
	labelsFileFlag string

	asrURLFlag    string
	asrAPIKeyFlag string
	asrMockFlag   bool

	mfaBinaryFlag        string
	mfaBinaryArgsFlag    []string
	mfaDockerFlag        bool
	mfaDockerImageFlag   string
	mfaWorkspaceRootFlag string
)

func addAudioFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&audioPathFlag, "audio", "", "path to the chapter's source audio file")
}

func addSourceFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sourceFileFlag, "source", "", "path to the book's plain-text source file (book-index stage only)")
}

func addLabelsFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&labelsFileFlag, "labels", "", "sidecar chapter-label file for section pre-resolution (see internal/section.ParseLabels)")
}

func addAsrFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&asrURLFlag, "asr-url", "", "base URL of the HTTP ASR service")
	cmd.Flags().StringVar(&asrAPIKeyFlag, "asr-api-key", "", "ASR service API key (supports ${ENV_VAR} expansion)")
	cmd.Flags().BoolVar(&asrMockFlag, "asr-mock", false, "use the in-memory mock transcriber instead of a real ASR service")
}

func addMfaFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&mfaBinaryFlag, "mfa-binary", "", "path to the local mfa executable (default: \"mfa\" on PATH)")
	cmd.Flags().StringSliceVar(&mfaBinaryArgsFlag, "mfa-arg", nil, "extra argument passed to the mfa binary (repeatable)")
	cmd.Flags().BoolVar(&mfaDockerFlag, "mfa-docker", false, "run the forced aligner inside a Docker container instead of a local process")
	cmd.Flags().StringVar(&mfaDockerImageFlag, "mfa-image", "", "Docker image for the containerized aligner")
	cmd.Flags().StringVar(&mfaWorkspaceRootFlag, "mfa-workspace-root", "", "directory for rented MFA workspaces (default: {bookRoot}/.mfa-workspaces)")
}

func buildTranscriber() asr.Transcriber {
	if asrMockFlag || asrURLFlag == "" {
		return &asr.MockTranscriber{}
	}
	return asr.NewHTTPTranscriber(asr.HTTPConfig{
		BaseURL: asrURLFlag,
		APIKey:  config.ResolveEnvVars(asrAPIKeyFlag),
		Timeout: 120 * time.Second,
	})
}

func buildAligner(cmd *cobra.Command) (mfa.Aligner, error) {
	if mfaDockerFlag {
		return mfa.NewContainerRunner(cmd.Context(), mfa.ContainerConfig{Image: mfaDockerImageFlag})
	}
	return mfa.NewProcessRunner(mfa.ProcessConfig{BinaryPath: mfaBinaryFlag, Args: mfaBinaryArgsFlag}), nil
}

// buildRunContext wires a pipeline.RunContext for bookRoot from the
// resolved config and whatever external-collaborator flags the current
// command declared. audioPaths maps chapter IDs to their source audio
// file, single-entry for the single-chapter stage commands.
func buildRunContext(cmd *cobra.Command, cfg *config.Config, bookRoot string, audioPaths map[string]string) (*pipeline.RunContext, error) {
	logger := newLogger()
	rc := pipeline.NewRunContext(cfg, bookRoot, logger)

	rc.Transcriber = buildTranscriber()
	aligner, err := buildAligner(cmd)
	if err != nil {
		return nil, err
	}
	rc.Aligner = aligner

	workspaceRoot := mfaWorkspaceRootFlag
	if workspaceRoot == "" {
		workspaceRoot = filepath.Join(bookRoot, ".mfa-workspaces")
	}
	pool, err := mfa.NewWorkspacePool(workspaceRoot, cfg.Pipeline.MfaWorkspacePool)
	if err != nil {
		return nil, err
	}
	rc.WorkspacePool = pool

	managers := make(map[string]*audio.Manager, len(audioPaths))
	rc.AudioPath = func(chapterID string) string { return audioPaths[chapterID] }
	rc.AudioManagers = func(chapterID string) *audio.Manager {
		if m, ok := managers[chapterID]; ok {
			return m
		}
		m := audio.NewManager(audioPaths[chapterID])
		managers[chapterID] = m
		return m
	}

	if labelsFileFlag != "" {
		raw, err := os.ReadFile(labelsFileFlag)
		if err == nil {
			rc.SectionResolver.Labels = section.ParseLabels(strings.Split(string(raw), "\n"))
		}
	}

	return rc, nil
}
