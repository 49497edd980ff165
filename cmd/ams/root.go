package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/encryptabit/ams/internal/amserr"
	"github.com/encryptabit/ams/internal/config"
	"github.com/encryptabit/ams/internal/homedir"
	"github.com/encryptabit/ams/version"
)

var (
	cfgFile  string
	homePath string
	logLevel string
)

// parseLogLevel converts a string log level to slog.Level. Supports:
// debug, info, warn, error (case-insensitive).
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: must be debug, info, warn, or error", level)
	}
}

// getLogLevel resolves the configured log level: --log-level flag, then
// AMS_LOG_LEVEL, then "info".
func getLogLevel() slog.Level {
	level := logLevel
	if level == "" {
		level = os.Getenv("AMS_LOG_LEVEL")
	}
	parsed, err := parseLogLevel(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using info\n", err)
		return slog.LevelInfo
	}
	return parsed
}

// newLogger builds the process-wide logger, per SPEC_FULL.md's Ambient
// Stack: one *slog.Logger constructed here and handed to each command and,
// for the pipeline, to its stages through pipeline.RunContext.Logger.
func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: getLogLevel()}))
}

// openHome resolves and ensures the AMS home directory (~/.ams by default).
func openHome() (*homedir.Dir, error) {
	h, err := homedir.New(homePath)
	if err != nil {
		return nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, err
	}
	return h, nil
}

// loadConfig resolves the config file (--config flag > ./config.yaml >
// {home}/config.yaml), writing a default one if none exists, exactly the
// teacher's cmd/shelf/serve.go resolution order.
func loadConfig(h *homedir.Dir, logger *slog.Logger) (*config.Manager, error) {
	file := cfgFile
	if file == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			file = "config.yaml"
		} else {
			file = h.ConfigPath()
		}
	}
	if _, err := os.Stat(file); os.IsNotExist(err) {
		logger.Info("creating default config", "path", file)
		if err := config.WriteDefault(file); err != nil {
			return nil, amserr.New(amserr.Internal, "write default config", err)
		}
	}
	mgr, err := config.NewManager(file)
	if err != nil {
		return nil, amserr.New(amserr.SchemaMismatch, "load config", err)
	}
	return mgr, nil
}

// exitCodeFor maps a command error to spec §6's CLI exit codes.
func exitCodeFor(err error) int {
	return amserr.ExitCode(err)
}

var rootCmd = &cobra.Command{
	Use:   "ams",
	Short: "Audio Management System — chapter alignment pipeline",
	Long: `ams reconciles a book's text, ASR transcript, and forced-alignment
timings into word/sentence/paragraph timing data for audiobooks.

The pipeline runs seven resumable stages per chapter:
  1. book-index  2. asr  3. anchors  4. transcript-index
  5. hydrate     6. mfa  7. merge`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.ams/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&homePath, "home", "", "ams home directory (default: ~/.ams)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default: info, env: AMS_LOG_LEVEL)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(asrCmd)
	rootCmd.AddCommand(alignCmd)
	rootCmd.AddCommand(mfaCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(pipelineCmd)
}

func bookRootArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("missing required BOOK_ROOT argument")
	}
	abs, err := filepath.Abs(args[0])
	if err != nil {
		return "", err
	}
	return abs, nil
}
