package main

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	slogctx "github.com/veqryn/slog-context"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "calque",
	Short: "Calque - structure outliner for ML-style sources",
	Long: `Calque builds position-faithful outlines of ML-style source files:
top-level modules and namespaces, their let bindings, and the exact
line and character ranges each construct covers.

Outlines render as the indented report spoken by structure-aware merge
shells, as a colored tree, as JSON, or in an interactive browser.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	// Add subcommands
	rootCmd.AddCommand(outlineCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the stderr logger honoring --verbose and --quiet.
// Logs never share the protocol's stdout stream.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})
	return slog.New(slogctx.NewHandler(handler, nil))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
