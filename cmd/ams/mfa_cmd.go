package main

import (
	"github.com/spf13/cobra"

	"github.com/encryptabit/ams/internal/pipeline"
)

var mfaCmd = &cobra.Command{
	Use:   "mfa BOOK_ROOT CHAPTER_ID",
	Short: "Run Stage 6 (forced alignment) for one chapter",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		stage := pipeline.NewMfaStage()
		return stage.Run(cmd.Context(), rc, chapterID)
	},
}

func init() {
	addAudioFlag(mfaCmd)
	addMfaFlags(mfaCmd)
}
