// Package report renders adjusted outline structures for consumers:
// the nested plain-text report read by structure-aware merge tooling,
// and a JSON view of the same tree. The plain-text format is stable
// down to the byte; identical trees always serialize identically.
package report

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/calque-dev/calque/pkg/outline"
	"github.com/calque-dev/calque/pkg/types"
)

// A Formatter carries the settings for rendering outline reports.
// A zero value is ready for use with default settings.
type Formatter struct{}

func (f Formatter) indent() string { return "  " }

// Write renders the report for s to w with default settings. The
// diagnostics drive the parsingErrorsDetected flag and, when non-empty,
// the trailing parsingErrors block.
func Write(w io.Writer, s *outline.Structure, diags []types.ParseError) error {
	var f Formatter
	return f.Write(w, s, diags)
}

// ToString renders the report for s to a string with default settings.
// In case of error in rendering, it returns an empty string.
func ToString(s *outline.Structure, diags []types.ParseError) string {
	var buf bytes.Buffer
	if Write(&buf, s, diags) != nil {
		return ""
	}
	return buf.String()
}

// Write renders the report for s to w using the settings from f.
func (f Formatter) Write(w io.Writer, s *outline.Structure, diags []types.ParseError) error {
	if s == nil || s.Root == nil {
		return errors.New("report: nil structure")
	}
	bw := bufio.NewWriter(w)
	f.writeRoot(bw, s.Root, diags)
	return bw.Flush()
}

// writeRoot emits the document marker, the root's own fields, and the
// two root-only blocks. The root never carries a headerSpan line.
func (f Formatter) writeRoot(w io.Writer, root *outline.Container, diags []types.ParseError) {
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "type : %s\n", root.Kind)
	fmt.Fprintf(w, "name : %s\n", root.Name)
	fmt.Fprintf(w, "locationSpan : %s\n", lineSpan(root.Span))
	fmt.Fprintf(w, "footerSpan : %s\n", charSpan(root.Footer))
	fmt.Fprintf(w, "parsingErrorsDetected : %t\n", len(diags) > 0)
	if len(root.Children) > 0 {
		fmt.Fprintln(w, "children :")
		for _, c := range root.Children {
			f.writeSection(w, c, f.indent())
		}
	}
	if len(diags) > 0 {
		fmt.Fprintln(w, "parsingErrors :")
		for _, d := range diags {
			fmt.Fprintf(w, "%s- location: %s\n", f.indent(), position(d.Pos))
			fmt.Fprintf(w, "%s%smessage: \"%s\"\n", f.indent(), f.indent(), escape(d.Message))
		}
	}
}

// writeSection emits one child item at the given indent: the dash line
// carries the type field, every following field sits two spaces deeper,
// and a container's children block indents two further from there.
func (f Formatter) writeSection(w io.Writer, s outline.Section, indent string) {
	next := indent + f.indent()
	switch n := s.(type) {
	case *outline.Container:
		fmt.Fprintf(w, "%s- type : %s\n", indent, n.Kind)
		fmt.Fprintf(w, "%sname : %s\n", next, n.Name)
		fmt.Fprintf(w, "%slocationSpan : %s\n", next, lineSpan(n.Span))
		fmt.Fprintf(w, "%sheaderSpan : %s\n", next, charSpan(n.Header))
		fmt.Fprintf(w, "%sfooterSpan : %s\n", next, charSpan(n.Footer))
		if len(n.Children) > 0 {
			fmt.Fprintf(w, "%schildren :\n", next)
			for _, c := range n.Children {
				f.writeSection(w, c, next+f.indent())
			}
		}
	case *outline.Terminal:
		fmt.Fprintf(w, "%s- type : %s\n", indent, n.Kind)
		fmt.Fprintf(w, "%sname : %s\n", next, n.Name)
		fmt.Fprintf(w, "%slocationSpan : %s\n", next, lineSpan(n.Span))
		fmt.Fprintf(w, "%sspan : %s\n", next, charSpan(n.Chars))
	default:
		panic(fmt.Sprintf("report: unknown section type %T", s))
	}
}

func position(p types.Position) string {
	return fmt.Sprintf("[%d,%d]", p.Line, p.Column)
}

func lineSpan(s types.Span) string {
	return fmt.Sprintf("{start: %s, end: %s}", position(s.Start), position(s.End))
}

func charSpan(c types.CharSpan) string {
	return fmt.Sprintf("[%d, %d]", c.Start, c.End)
}

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// escape prepares a diagnostic message for its double-quoted field.
func escape(msg string) string { return escaper.Replace(msg) }
