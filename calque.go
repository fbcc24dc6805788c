// Package calque builds structural outlines of ML-style source files.
//
// Calque maps byte offsets to line/column positions, recognizes
// top-level module and namespace declarations with their let bindings,
// and adjusts the resulting section tree until it tiles the file with
// no gaps and no overlaps, ready for structure-aware merge and diff
// tooling.
//
// # Basic Usage
//
// Create an outliner and outline some content:
//
//	o, err := calque.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := o.OutlineString("module Foo\nlet x = 1\n", "demo.src")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, s := range res.Structure.Root.Children {
//	    fmt.Println(s.Bounds())
//	}
//
// # Custom Front-Ends
//
// Replace the built-in recognizer with your own front-end; the outline
// and adjustment stages are language-independent:
//
//	o, err := calque.New(calque.WithFrontend(myParse))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := o.OutlineFile("/path/to/source")
package calque

import (
	"fmt"
	"io"
	"os"

	"github.com/calque-dev/calque/pkg/linemap"
	"github.com/calque-dev/calque/pkg/outline"
	"github.com/calque-dev/calque/pkg/report"
	"github.com/calque-dev/calque/pkg/syntax"
	"github.com/calque-dev/calque/pkg/types"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/calque-dev/calque" without subpackages.
type (
	// Position is a line/column pair within source text.
	Position = types.Position

	// Span is a half-open range of positions.
	Span = types.Span

	// CharSpan is an inclusive range of byte offsets.
	CharSpan = types.CharSpan

	// ParseError is one positioned front-end diagnostic.
	ParseError = types.ParseError

	// Structure is a coverage-adjusted outline tree.
	Structure = outline.Structure

	// Section is one node of an outline tree.
	Section = outline.Section

	// Container is a section holding child sections.
	Container = outline.Container

	// Terminal is a leaf section.
	Terminal = outline.Terminal
)

// ErrNoStructure reports content in which the front-end found no
// top-level declaration to outline.
var ErrNoStructure = syntax.ErrNoStructure

// Frontend turns source text into a syntax tree plus diagnostics. A nil
// error means the tree is usable even when diagnostics were collected;
// an error means no usable tree could be produced.
type Frontend func(src []byte) (*syntax.File, []types.ParseError, error)

// Outliner builds adjusted outlines of source files. An Outliner is
// safe for concurrent use: every call derives its state from scratch.
type Outliner struct {
	config *outlinerConfig
}

// outlinerConfig holds outliner configuration.
type outlinerConfig struct {
	frontend Frontend
}

// Option configures an Outliner.
type Option func(*outlinerConfig)

// WithFrontend uses a custom front-end instead of the built-in
// recognizer. The outline and adjustment stages consume whatever
// declarations the front-end reports.
func WithFrontend(f Frontend) Option {
	return func(c *outlinerConfig) {
		c.frontend = f
	}
}

// New creates a new Outliner with the given options.
//
// By default, the outliner parses content with the built-in ML-style
// recognizer (see the syntax package).
func New(opts ...Option) (*Outliner, error) {
	config := &outlinerConfig{
		frontend: syntax.Parse,
	}
	for _, opt := range opts {
		opt(config)
	}
	if config.frontend == nil {
		return nil, fmt.Errorf("nil front-end")
	}
	return &Outliner{config: config}, nil
}

// Result is one outlined file: the adjusted structure and the
// diagnostics the front-end reported alongside it.
type Result struct {
	Structure   *outline.Structure
	Diagnostics []types.ParseError
}

// WriteReport renders the result as the nested plain-text report.
func (r *Result) WriteReport(w io.Writer) error {
	return report.Write(w, r.Structure, r.Diagnostics)
}

// ReportString renders the result as the nested plain-text report,
// returning an empty string on error.
func (r *Result) ReportString() string {
	return report.ToString(r.Structure, r.Diagnostics)
}

// OutlineString outlines a string. name is the file identifier carried
// on the root of the structure and in reports.
func (o *Outliner) OutlineString(content, name string) (*Result, error) {
	return o.Outline([]byte(content), name)
}

// Outline outlines raw bytes: parse, build the section tree, then
// adjust it into a gapless tiling of the content.
func (o *Outliner) Outline(src []byte, name string) (*Result, error) {
	f, diags, err := o.config.frontend(src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	lm := linemap.New(src)
	draft, err := outline.Build(f, name, lm)
	if err != nil {
		return nil, fmt.Errorf("building outline of %s: %w", name, err)
	}
	s, err := outline.Adjust(draft, lm)
	if err != nil {
		return nil, fmt.Errorf("adjusting outline of %s: %w", name, err)
	}
	return &Result{Structure: s, Diagnostics: diags}, nil
}

// OutlineFile reads and outlines a file. The path becomes the file
// identifier in the structure and in reports.
//
// Example:
//
//	res, err := o.OutlineFile("/path/to/source")
func (o *Outliner) OutlineFile(path string) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return o.Outline(src, path)
}
