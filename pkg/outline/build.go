package outline

import (
	"fmt"

	"github.com/calque-dev/calque/pkg/linemap"
	"github.com/calque-dev/calque/pkg/syntax"
	"github.com/calque-dev/calque/pkg/types"
)

// Build assembles the raw outline draft for a parsed file. name is the
// file identifier carried on the root, normally the path the file was
// read from. Section spans come straight from the front-end; all
// character ranges are derived through lm, which must have been built
// from the same content the front-end parsed.
func Build(f *syntax.File, name string, lm *linemap.LineMap) (*Draft, error) {
	span := types.Span{
		Start: types.Position{Line: 1, Column: 0},
		End:   lm.EndPosition(),
	}
	chars, err := lm.CharRange(span)
	if err != nil {
		return nil, fmt.Errorf("sizing %s: %w", name, err)
	}
	root := &Container{
		Kind:   KindFile,
		Name:   name,
		Span:   span,
		Chars:  chars,
		Header: types.EmptyCharSpan,
		Footer: types.EmptyCharSpan,
	}
	for _, d := range f.Decls {
		c, err := buildDecl(d, lm)
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, c)
	}
	return &Draft{Root: root}, nil
}

func buildDecl(d syntax.Decl, lm *linemap.LineMap) (*Container, error) {
	name := d.DottedName()
	chars, err := lm.CharRange(d.Span)
	if err != nil {
		return nil, fmt.Errorf("locating %s %s: %w", d.Kind, name, err)
	}
	header, err := lm.CharRange(types.Span{Start: d.Span.Start, End: d.NameEnd})
	if err != nil {
		return nil, fmt.Errorf("locating %s %s header: %w", d.Kind, name, err)
	}
	c := &Container{
		Kind:   d.Kind,
		Name:   name,
		Span:   d.Span,
		Chars:  chars,
		Header: header,
		Footer: types.EmptyCharSpan,
	}
	for _, b := range d.Bindings {
		t, err := buildBinding(b, lm)
		if err != nil {
			return nil, fmt.Errorf("in %s %s: %w", d.Kind, name, err)
		}
		c.Children = append(c.Children, t)
	}
	return c, nil
}

func buildBinding(b syntax.Binding, lm *linemap.LineMap) (*Terminal, error) {
	chars, err := lm.CharRange(b.Span)
	if err != nil {
		return nil, fmt.Errorf("locating binding: %w", err)
	}
	name := b.Name
	if name == "" {
		pr, err := lm.CharRange(b.Pattern)
		if err != nil {
			return nil, fmt.Errorf("locating binding pattern: %w", err)
		}
		name = string(lm.Slice(pr))
	}
	return &Terminal{Kind: KindLet, Name: name, Span: b.Span, Chars: chars}, nil
}
