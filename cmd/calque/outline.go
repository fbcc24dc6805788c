package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/calque-dev/calque"
	"github.com/calque-dev/calque/pkg/outline"
	"github.com/calque-dev/calque/pkg/report"
)

var (
	outlineFormat string
	outlineOutput string
	outlineColor  string
)

// treeStyles holds color formatters for the human tree format.
type treeStyles struct {
	kind    *color.Color
	name    *color.Color
	span    *color.Color
	diag    *color.Color
	heading *color.Color
}

// newTreeStyles creates color formatters for tree output.
// enabled=false respects --color=never and the NO_COLOR env var.
func newTreeStyles(enabled bool) *treeStyles {
	s := &treeStyles{
		kind:    color.New(color.Bold, color.FgHiBlue),
		name:    color.New(color.Bold, color.FgHiWhite),
		span:    color.New(color.FgHiGreen),
		diag:    color.New(color.FgYellow),
		heading: color.New(color.Bold),
	}

	if !enabled {
		s.kind.DisableColor()
		s.name.DisableColor()
		s.span.DisableColor()
		s.diag.DisableColor()
		s.heading.DisableColor()
	}

	return s
}

var outlineCmd = &cobra.Command{
	Use:   "outline <file>",
	Short: "Outline a single source file",
	Long: `Parse one source file and print its outline.

Formats:
  report  the exact indented report served to merge shells (default)
  tree    a colored human-readable tree
  json    a stable JSON rendering for other tooling`,
	Args: cobra.ExactArgs(1),
	RunE: runOutline,
}

func init() {
	outlineCmd.Flags().StringVar(&outlineFormat, "format", "report", "Output format: report, tree, json")
	outlineCmd.Flags().StringVarP(&outlineOutput, "output", "o", "", "Write to a file instead of stdout")
	outlineCmd.Flags().StringVar(&outlineColor, "color", "auto", "Color output: auto, always, never")
}

func runOutline(cmd *cobra.Command, args []string) error {
	o, err := calque.New()
	if err != nil {
		return err
	}
	res, err := o.OutlineFile(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outlineOutput != "" {
		f, err := os.Create(outlineOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outlineOutput, err)
		}
		defer f.Close()
		out = f
	}

	switch outlineFormat {
	case "report":
		return res.WriteReport(out)
	case "json":
		return outputOutlineJSON(out, res)
	case "tree":
		return outputOutlineTree(out, res)
	default:
		return fmt.Errorf("unknown output format: %s", outlineFormat)
	}
}

func outputOutlineJSON(out io.Writer, res *calque.Result) error {
	doc := report.NewDocument(res.Structure, res.Diagnostics)
	data, err := doc.ToJSON()
	if err != nil {
		return fmt.Errorf("encoding outline: %w", err)
	}
	_, err = fmt.Fprintf(out, "%s\n", data)
	return err
}

func outputOutlineTree(out io.Writer, res *calque.Result) error {
	// Determine if colors should be enabled based on --color flag
	switch outlineColor {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default: // "auto"
		// Check if stdout is a TTY and NO_COLOR is not set
		if !term.IsTerminal(int(os.Stdout.Fd())) || os.Getenv("NO_COLOR") != "" {
			color.NoColor = true
		} else {
			color.NoColor = false
		}
	}
	s := newTreeStyles(!color.NoColor)

	printSection(out, s, res.Structure.Root, 0)

	if len(res.Diagnostics) > 0 {
		fmt.Fprintf(out, "\n%s\n", s.heading.Sprint("Parsing errors:"))
		for _, d := range res.Diagnostics {
			fmt.Fprintf(out, "  %s %s\n", s.diag.Sprint(d.Pos.String()), d.Message)
		}
	}

	return nil
}

func printSection(out io.Writer, s *treeStyles, sec outline.Section, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n := sec.(type) {
	case *outline.Container:
		fmt.Fprintf(out, "%s%s %s %s\n", indent,
			s.kind.Sprint(n.Kind),
			s.name.Sprint(n.Name),
			s.span.Sprint(n.Span))
		for _, c := range n.Children {
			printSection(out, s, c, depth+1)
		}
	case *outline.Terminal:
		fmt.Fprintf(out, "%s%s %s %s\n", indent,
			s.kind.Sprint(n.Kind),
			s.name.Sprint(n.Name),
			s.span.Sprint(n.Span))
	}
}
