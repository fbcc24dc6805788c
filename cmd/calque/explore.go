package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/calque-dev/calque/pkg/explore"
)

var exploreCmd = &cobra.Command{
	Use:   "explore <file>",
	Short: "Interactively browse a file's outline",
	Long: `Launch an interactive TUI to browse the outline of a source file.

Features:
  - Outline tree with expand/collapse per container
  - Detail pane showing spans, header and footer ranges
  - Diagnostics pane listing front-end parsing errors
  - Vi-style navigation (hjkl, Ctrl-f/b, g/G)
  - Source viewer for the selected section`,
	Args: cobra.ExactArgs(1),
	RunE: runExplore,
}

func init() {
	rootCmd.AddCommand(exploreCmd)
}

func runExplore(cmd *cobra.Command, args []string) error {
	model, err := explore.New(args[0])
	if err != nil {
		return fmt.Errorf("loading outline: %w", err)
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running explore TUI: %w", err)
	}

	return nil
}
