package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/encryptabit/ams/internal/artifact"
	"github.com/encryptabit/ams/internal/diagnostics"
	"github.com/encryptabit/ams/internal/pipeline"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run or inspect the full seven-stage pipeline",
}

var (
	pipelineChapterFlags []string
	pipelineStartFlag    int
	pipelineEndFlag      int
	pipelineForceFlag    bool
)

// parseChapterFlags turns repeated "id=audioPath" flags into an ordered
// chapter-ID list plus an audio-path lookup.
func parseChapterFlags(raw []string) ([]string, map[string]string, error) {
	ids := make([]string, 0, len(raw))
	paths := make(map[string]string, len(raw))
	for _, entry := range raw {
		parts := strings.SplitN(entry, "=", 2)
		if parts[0] == "" {
			return nil, nil, fmt.Errorf("invalid --chapter value %q, want id or id=audioPath", entry)
		}
		ids = append(ids, parts[0])
		if len(parts) == 2 {
			paths[parts[0]] = parts[1]
		}
	}
	return ids, paths, nil
}

var pipelineRunCmd = &cobra.Command{
	Use:   "run BOOK_ROOT",
	Short: "Run stages [start,end] for the given chapters, fanning out per chapter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bookRoot, err := bookRootArg(cmd, args)
		if err != nil {
			return err
		}
		chapterIDs, audioPaths, err := parseChapterFlags(pipelineChapterFlags)
		if err != nil {
			return err
		}
		if len(chapterIDs) == 0 {
			return fmt.Errorf("at least one --chapter id=audioPath is required")
		}

		h, err := openHome()
		if err != nil {
			return err
		}
		logger := newLogger()
		mgr, err := loadConfig(h, logger)
		if err != nil {
			return err
		}
		cfg := mgr.Get()

		start, end := cfg.Pipeline.StartStage, cfg.Pipeline.EndStage
		if cmd.Flags().Changed("start") {
			start = pipelineStartFlag
		}
		if cmd.Flags().Changed("end") {
			end = pipelineEndFlag
		}
		if cmd.Flags().Changed("force") {
			cfg.Pipeline.Force = pipelineForceFlag
		}

		rc, err := buildRunContext(cmd, cfg, bookRoot, audioPaths)
		if err != nil {
			return err
		}

		sourceFile := sourceFileFlag
		if sourceFile == "" {
			return fmt.Errorf("--source is required (path to the book's plain-text source file)")
		}
		registry := pipeline.NewDefaultRegistry(newBookIndexBuilder(sourceFile, cfg.BookIndex.AvgWpm))

		orch := pipeline.NewOrchestrator(registry)
		results := orch.Run(cmd.Context(), rc, chapterIDs, start, end)

		var failed int
		for _, res := range results {
			if res.Err != nil {
				failed++
				logger.Error("chapter failed", "chapter", res.ChapterID, "error", res.Err)
			} else {
				logger.Info("chapter completed", "chapter", res.ChapterID)
			}
		}

		summary := diagnostics.Aggregate(rc.Recorder)
		logger.Info("pipeline run summary", "chapters", len(results), "failed", failed, "stages", summary)

		if failed > 0 {
			return fmt.Errorf("%d of %d chapters failed", failed, len(results))
		}
		return nil
	},
}

var pipelineStatusCmd = &cobra.Command{
	Use:   "status BOOK_ROOT",
	Short: "Report which stage artifacts exist per chapter (read-only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bookRoot, err := bookRootArg(cmd, args)
		if err != nil {
			return err
		}
		chapterIDs, _, err := parseChapterFlags(pipelineChapterFlags)
		if err != nil {
			return err
		}
		if len(chapterIDs) == 0 {
			return fmt.Errorf("at least one --chapter id is required (audio path may be omitted, e.g. --chapter ch01=)")
		}

		paths := artifact.Paths{BookRoot: bookRoot}
		bookIndexPresent := artifact.Exists(paths.BookIndex())
		fmt.Printf("book-index: %v\n", bookIndexPresent)

		for _, id := range chapterIDs {
			fmt.Printf("%s:\n", id)
			fmt.Printf("  asr:               %v\n", artifact.Exists(paths.Asr(id)))
			fmt.Printf("  anchors:           %v\n", artifact.Exists(paths.Anchors(id)))
			fmt.Printf("  transcript-index:  %v\n", artifact.Exists(paths.TranscriptIndex(id)))
			fmt.Printf("  hydrated:          %v\n", artifact.Exists(paths.HydratedTranscript(id)))
			fmt.Printf("  textgrid:          %v\n", artifact.Exists(paths.TextGrid(id)))
		}
		return nil
	},
}

func init() {
	pipelineRunCmd.Flags().StringArrayVar(&pipelineChapterFlags, "chapter", nil, "chapter to process, as id=audioPath (repeatable)")
	pipelineRunCmd.Flags().IntVar(&pipelineStartFlag, "start", 1, "first stage to run (1-7)")
	pipelineRunCmd.Flags().IntVar(&pipelineEndFlag, "end", 7, "last stage to run (1-7)")
	pipelineRunCmd.Flags().BoolVar(&pipelineForceFlag, "force", false, "re-run stages even if their artifact already exists")
	addSourceFlag(pipelineRunCmd)
	addAsrFlags(pipelineRunCmd)
	addMfaFlags(pipelineRunCmd)
	addLabelsFlag(pipelineRunCmd)

	pipelineStatusCmd.Flags().StringArrayVar(&pipelineChapterFlags, "chapter", nil, "chapter ID to report on (repeatable), e.g. --chapter ch01")

	pipelineCmd.AddCommand(pipelineRunCmd)
	pipelineCmd.AddCommand(pipelineStatusCmd)
}
