package syntax

import (
	"strings"

	"github.com/calque-dev/calque/pkg/types"
)

// Declaration kinds recognized by the front-end.
const (
	KindModule    = "module"
	KindNamespace = "namespace"
)

// File is the parsed structure of one source file: its top-level
// declarations in source order. Everything not covered by a declaration
// is a gap for the outline's coverage pass to account for.
type File struct {
	Decls []Decl
}

// Decl is one top-level module or namespace declaration together with
// the let bindings attached to it.
type Decl struct {
	Kind     string           // KindModule or KindNamespace
	Name     []string         // dotted-path segments
	NameEnd  types.Position   // one past the last character of the name
	Span     types.Span       // declaration start through its last member, line-inclusive
	Bindings []Binding
}

// DottedName joins the declaration's name segments with dots.
func (d Decl) DottedName() string { return strings.Join(d.Name, ".") }

// Binding is one let binding. Name is the bound identifier when the
// binding introduces one directly; for pattern bindings Name is empty
// and Pattern is the source range of the left-hand pattern, from which
// the literal pattern text can be re-derived.
type Binding struct {
	Name    string
	Pattern types.Span
	Span    types.Span // let keyword through the last continuation line, line-inclusive
}
