package main

import (
	"github.com/spf13/cobra"

	"github.com/encryptabit/ams/internal/pipeline"
)

var alignCmd = &cobra.Command{
	Use:   "align",
	Short: "Run an individual alignment stage for one chapter",
}

func alignSubRunE(stage pipeline.Stage) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		bookRoot, err := bookRootArg(cmd, args)
		if err != nil {
			return err
		}
		chapterID := args[1]

		h, err := openHome()
		if err != nil {
			return err
		}
		logger := newLogger()
		mgr, err := loadConfig(h, logger)
		if err != nil {
			return err
		}

		rc, err := buildRunContext(cmd, mgr.Get(), bookRoot, map[string]string{chapterID: audioPathFlag})
		if err != nil {
			return err
		}
		return stage.Run(cmd.Context(), rc, chapterID)
	}
}

var alignAnchorsCmd = &cobra.Command{
	Use:   "anchors BOOK_ROOT CHAPTER_ID",
	Short: "Run Stage 3 (anchor selection) for one chapter",
	Args:  cobra.ExactArgs(2),
	RunE:  alignSubRunE(pipeline.NewAnchorsStage()),
}

var alignTxCmd = &cobra.Command{
	Use:   "tx BOOK_ROOT CHAPTER_ID",
	Short: "Run Stage 4 (windowed transcript alignment) for one chapter",
	Args:  cobra.ExactArgs(2),
	RunE:  alignSubRunE(pipeline.NewTranscriptIndexStage()),
}

var alignHydrateCmd = &cobra.Command{
	Use:   "hydrate BOOK_ROOT CHAPTER_ID",
	Short: "Run Stage 5 (text/script hydration) for one chapter",
	Args:  cobra.ExactArgs(2),
	RunE:  alignSubRunE(pipeline.NewHydrateStage()),
}

func init() {
	addLabelsFlag(alignAnchorsCmd)
	alignCmd.AddCommand(alignAnchorsCmd)
	alignCmd.AddCommand(alignTxCmd)
	alignCmd.AddCommand(alignHydrateCmd)
}
