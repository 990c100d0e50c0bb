package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"vestige/internal/config"
	"vestige/internal/slogutil"
	"vestige/internal/version"
)

// logFile is the CLI --log-file flag value
var logFile string

var rootCmd = &cobra.Command{
	Use:   "vestige",
	Short: "vestige - dead code detection on index snapshots",
	Long: `vestige builds an in-memory program graph from an index snapshot and
reports declarations that no retained entry point can reach.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("vestige version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"Append logs to a file instead of stderr")
}

// newLogger builds the command logger from config, honoring the
// VESTIGE_LOG_LEVEL env var over the configured level. With --log-file
// the logger appends to that file; the handle stays open for the life of
// the process.
func newLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	level := cfg.Level
	if env := os.Getenv("VESTIGE_LOG_LEVEL"); env != "" {
		level = env
	}

	if logFile != "" {
		logger, _, err := slogutil.NewFileLogger(logFile, slogutil.LevelFromString(level))
		return logger, err
	}
	if cfg.Format == "json" {
		return slogutil.NewJSONLogger(os.Stderr, slogutil.LevelFromString(level)), nil
	}
	return slogutil.NewLogger(os.Stderr, slogutil.LevelFromString(level)), nil
}
