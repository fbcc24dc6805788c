package types

import "fmt"

// Position is a line:column source position. Line is 1-based, Column is
// 0-based: the first character of a file is Position{1, 0}.
type Position struct {
	Line   int
	Column int
}

// Before reports whether p precedes q in document order.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

// After reports whether p follows q in document order.
func (p Position) After(q Position) bool { return q.Before(p) }

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is the position range [Start, End) - half-open interval.
type Span struct {
	Start Position
	End   Position
}

// IsEmpty reports whether the span covers no characters.
func (s Span) IsEmpty() bool { return s.Start == s.End }

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// CharSpan is an absolute character-offset range [Start, End] - inclusive
// on both ends, unlike Span. A span covering no characters is represented
// by the sentinel EmptyCharSpan, never by Start == End (which covers one
// character).
type CharSpan struct {
	Start int
	End   int
}

// EmptyCharSpan is the canonical zero-width character span.
var EmptyCharSpan = CharSpan{Start: 0, End: -1}

// IsEmpty reports whether the span covers no characters.
func (c CharSpan) IsEmpty() bool { return c.End < c.Start }

// Len is the number of characters the span covers.
func (c CharSpan) Len() int {
	if c.IsEmpty() {
		return 0
	}
	return c.End - c.Start + 1
}

// ParseError is a single diagnostic reported by a language front-end.
// Diagnostics do not abort outline construction; a file that parses with
// diagnostics still yields a complete tree.
type ParseError struct {
	Pos     Position
	Message string
}

// Error implements the error interface.
func (e ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}
