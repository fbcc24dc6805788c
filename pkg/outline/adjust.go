package outline

import (
	"fmt"

	"github.com/calque-dev/calque/pkg/linemap"
	"github.com/calque-dev/calque/pkg/types"
)

// Adjust realigns a draft into a Structure whose sections tile the file
// contiguously. Gaps are always attributed to the construct that follows
// them: each section's start is pulled back to its predecessor's end,
// and inside a container the first child's start is pulled back to the
// container's header end. A gap before the first file-level section
// becomes a "Beginning of file" fragment instead, and content past the
// last child of any container becomes an "End of file" fragment. Section
// ends are never moved.
//
// The draft is left untouched; Adjust realigns a copy. Character ranges
// of every section are re-derived from the final spans through lm.
func Adjust(d *Draft, lm *linemap.LineMap) (*Structure, error) {
	root := cloneSection(d.Root).(*Container)
	if err := adjustChildren(root, root.Span.Start, true, lm); err != nil {
		return nil, fmt.Errorf("adjusting coverage: %w", err)
	}
	return &Structure{Root: root}, nil
}

// adjustChildren realigns parent's direct children against the initial
// alignment point align, then recurses. Empty child lists are left
// untouched: a childless node is its own region.
func adjustChildren(parent *Container, align types.Position, atRoot bool, lm *linemap.LineMap) error {
	kids := parent.Children
	if len(kids) == 0 {
		return nil
	}

	if first := kids[0].Bounds(); align.Before(first.Start) {
		if atRoot {
			filler := &Terminal{
				Kind: KindFragment,
				Name: fragmentLeading,
				Span: types.Span{Start: align, End: first.Start},
			}
			kids = append([]Section{filler}, kids...)
		} else {
			setStart(kids[0], align)
		}
	}

	for i := 1; i < len(kids); i++ {
		prev := kids[i-1].Bounds().End
		if cur := kids[i].Bounds(); cur.End.Before(prev) {
			return fmt.Errorf("section at %s overlaps its predecessor ending at %s", cur.Start, prev)
		}
		setStart(kids[i], prev)
	}

	if last := kids[len(kids)-1].Bounds(); last.End.Before(parent.Span.End) {
		kids = append(kids, &Terminal{
			Kind: KindFragment,
			Name: fragmentTrailing,
			Span: types.Span{Start: last.End, End: parent.Span.End},
		})
	}
	parent.Children = kids

	for _, k := range kids {
		switch n := k.(type) {
		case *Terminal:
			chars, err := lm.CharRange(n.Span)
			if err != nil {
				return fmt.Errorf("resizing %s: %w", n.Name, err)
			}
			n.Chars = chars
		case *Container:
			chars, err := lm.CharRange(n.Span)
			if err != nil {
				return fmt.Errorf("resizing %s: %w", n.Name, err)
			}
			n.Chars = chars
			childAlign := n.Span.Start
			if !n.Header.IsEmpty() {
				// The header region runs from the container's start
				// through the name, so a realigned start widens it: the
				// absorbed gap text belongs to the header, keeping the
				// container's characters fully covered.
				start, err := lm.Resolve(n.Span.Start)
				if err != nil {
					return fmt.Errorf("resizing %s header: %w", n.Name, err)
				}
				n.Header = types.CharSpan{Start: start, End: n.Header.End}
				p, err := lm.PositionAt(n.Header.End + 1)
				if err != nil {
					return fmt.Errorf("seeding %s children: %w", n.Name, err)
				}
				childAlign = p
			}
			if err := adjustChildren(n, childAlign, false, lm); err != nil {
				return err
			}
		}
	}
	return nil
}

func setStart(s Section, p types.Position) {
	switch n := s.(type) {
	case *Container:
		n.Span.Start = p
	case *Terminal:
		n.Span.Start = p
	}
}

func cloneSection(s Section) Section {
	switch n := s.(type) {
	case *Container:
		c := *n
		c.Children = make([]Section, len(n.Children))
		for i, k := range n.Children {
			c.Children[i] = cloneSection(k)
		}
		return &c
	case *Terminal:
		t := *n
		return &t
	default:
		panic("outline: unknown section variant")
	}
}
