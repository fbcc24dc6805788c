// Package outline builds and post-processes section trees: the
// hierarchical structure of one source file, as consumed by
// structure-aware merge and diff tooling. Build produces a raw Draft
// from a parsed file; Adjust turns the Draft into a Structure whose
// sections tile the file contiguously.
package outline

import "github.com/calque-dev/calque/pkg/types"

// Section kinds.
const (
	KindFile      = "file"
	KindModule    = "module"
	KindNamespace = "namespace"
	KindLet       = "let"
	KindFragment  = "fragment"
)

// Display names of the synthesized fragment terminals.
const (
	fragmentLeading  = "Beginning of file"
	fragmentTrailing = "End of file"
)

// Section is one node of an outline tree: a *Container or a *Terminal.
type Section interface {
	// Bounds reports the node's line span.
	Bounds() types.Span
	isSection()
}

// Container is a section holding child sections: the file root and each
// module or namespace declaration. Header is the character range of the
// declarative prefix through the name; Footer is empty unless a closing
// construct was recognized.
type Container struct {
	Kind     string
	Name     string
	Span     types.Span
	Chars    types.CharSpan
	Header   types.CharSpan
	Footer   types.CharSpan
	Children []Section
}

// Terminal is a leaf section: a let binding or a synthesized fragment.
type Terminal struct {
	Kind  string
	Name  string
	Span  types.Span
	Chars types.CharSpan
}

func (c *Container) Bounds() types.Span { return c.Span }
func (t *Terminal) Bounds() types.Span  { return t.Span }

func (*Container) isSection() {}
func (*Terminal) isSection()  {}

// Draft is a freshly built outline whose section spans are exactly as
// the front-end reported them: gaps may exist before, between, and after
// sections. A Draft is not renderable; only Adjust turns it into a
// Structure.
type Draft struct {
	Root *Container
}

// Structure is a coverage-adjusted outline: its sections tile the file
// contiguously with neither gaps nor overlaps. Produced only by Adjust.
type Structure struct {
	Root *Container
}
