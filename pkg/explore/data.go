package explore

import (
	"fmt"
	"os"

	"github.com/calque-dev/calque"
	"github.com/calque-dev/calque/pkg/outline"
	"github.com/calque-dev/calque/pkg/types"
)

// sectionRow is the view model of one outline node.
type sectionRow struct {
	kind      string
	name      string
	span      types.Span
	chars     types.CharSpan
	header    types.CharSpan
	footer    types.CharSpan
	depth     int
	parent    int // index of the enclosing row, -1 for the root
	children  int // direct child count
	container bool
}

// exploreData holds everything the TUI browses: the outlined file, its
// rows flattened in document order, and the front-end diagnostics.
type exploreData struct {
	path   string
	source []byte
	rows   []*sectionRow
	diags  []types.ParseError
}

// loadData reads and outlines the file at path.
func loadData(path string) (*exploreData, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	o, err := calque.New()
	if err != nil {
		return nil, err
	}
	res, err := o.Outline(src, path)
	if err != nil {
		return nil, fmt.Errorf("outlining %s: %w", path, err)
	}

	d := &exploreData{path: path, source: src, diags: res.Diagnostics}
	d.flatten(res.Structure.Root, -1, 0)
	return d, nil
}

// flatten appends s and its descendants to the row list in document
// order. The root lands at index 0.
func (d *exploreData) flatten(s outline.Section, parent, depth int) {
	idx := len(d.rows)
	switch n := s.(type) {
	case *outline.Container:
		d.rows = append(d.rows, &sectionRow{
			kind:      n.Kind,
			name:      n.Name,
			span:      n.Span,
			chars:     n.Chars,
			header:    n.Header,
			footer:    n.Footer,
			depth:     depth,
			parent:    parent,
			children:  len(n.Children),
			container: true,
		})
		for _, c := range n.Children {
			d.flatten(c, idx, depth+1)
		}
	case *outline.Terminal:
		d.rows = append(d.rows, &sectionRow{
			kind:   n.Kind,
			name:   n.Name,
			span:   n.Span,
			chars:  n.Chars,
			header: types.EmptyCharSpan,
			footer: types.EmptyCharSpan,
			depth:  depth,
			parent: parent,
		})
	}
}

// slice returns the source text covered by one row's character range.
func (d *exploreData) slice(r *sectionRow) string {
	if r == nil || r.chars.IsEmpty() {
		return ""
	}
	start, end := r.chars.Start, r.chars.End+1
	if start < 0 || start >= len(d.source) {
		return ""
	}
	if end > len(d.source) {
		end = len(d.source)
	}
	return string(d.source[start:end])
}
