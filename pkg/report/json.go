package report

import (
	"encoding/json"

	"github.com/calque-dev/calque/pkg/outline"
	"github.com/calque-dev/calque/pkg/types"
)

// Document is the JSON view of an adjusted outline: the root fields of
// the plain-text report, one Node per section, and the diagnostics.
type Document struct {
	Type                  string  `json:"type"`
	Name                  string  `json:"name"`
	LocationSpan          Extent  `json:"locationSpan"`
	FooterSpan            [2]int  `json:"footerSpan"`
	ParsingErrorsDetected bool    `json:"parsingErrorsDetected"`
	Children              []Node  `json:"children,omitempty"`
	ParsingErrors         []Issue `json:"parsingErrors,omitempty"`
}

// Node is one section beneath the root. Containers carry headerSpan,
// footerSpan, and children; terminals carry span.
type Node struct {
	Type         string  `json:"type"`
	Name         string  `json:"name"`
	LocationSpan Extent  `json:"locationSpan"`
	HeaderSpan   *[2]int `json:"headerSpan,omitempty"`
	FooterSpan   *[2]int `json:"footerSpan,omitempty"`
	Span         *[2]int `json:"span,omitempty"`
	Children     []Node  `json:"children,omitempty"`
}

// Extent is a line span as start/end line-column pairs.
type Extent struct {
	Start [2]int `json:"start"`
	End   [2]int `json:"end"`
}

// Issue is one front-end diagnostic.
type Issue struct {
	Location [2]int `json:"location"`
	Message  string `json:"message"`
}

// NewDocument converts an adjusted structure and its diagnostics into
// the JSON view. It returns nil for a nil structure.
func NewDocument(s *outline.Structure, diags []types.ParseError) *Document {
	if s == nil || s.Root == nil {
		return nil
	}
	doc := &Document{
		Type:                  s.Root.Kind,
		Name:                  s.Root.Name,
		LocationSpan:          extent(s.Root.Span),
		FooterSpan:            chars(s.Root.Footer),
		ParsingErrorsDetected: len(diags) > 0,
	}
	for _, c := range s.Root.Children {
		doc.Children = append(doc.Children, node(c))
	}
	for _, d := range diags {
		doc.ParsingErrors = append(doc.ParsingErrors, Issue{
			Location: pair(d.Pos),
			Message:  d.Message,
		})
	}
	return doc
}

// ToJSON serializes the document as indented JSON.
func (d *Document) ToJSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

func node(s outline.Section) Node {
	switch n := s.(type) {
	case *outline.Container:
		out := Node{
			Type:         n.Kind,
			Name:         n.Name,
			LocationSpan: extent(n.Span),
			HeaderSpan:   charsPtr(n.Header),
			FooterSpan:   charsPtr(n.Footer),
		}
		for _, c := range n.Children {
			out.Children = append(out.Children, node(c))
		}
		return out
	case *outline.Terminal:
		return Node{
			Type:         n.Kind,
			Name:         n.Name,
			LocationSpan: extent(n.Span),
			Span:         charsPtr(n.Chars),
		}
	default:
		panic("report: unknown section variant")
	}
}

func pair(p types.Position) [2]int { return [2]int{p.Line, p.Column} }

func chars(c types.CharSpan) [2]int { return [2]int{c.Start, c.End} }

func charsPtr(c types.CharSpan) *[2]int {
	v := chars(c)
	return &v
}

func extent(s types.Span) Extent {
	return Extent{Start: pair(s.Start), End: pair(s.End)}
}
