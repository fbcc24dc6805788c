// Package linemap resolves between line:column positions and absolute
// character offsets within a single file's content.
package linemap

import (
	"fmt"
	"sort"

	"github.com/calque-dev/calque/pkg/types"
)

// LineMap is the position/offset table for one file. Build one per file
// and use the same instance for every conversion touching that file: the
// consistency of line-oriented and offset-oriented coordinates depends on
// all conversions sharing a single table.
type LineMap struct {
	src    []byte
	starts []int // starts[i] is the absolute offset of line i+1
}

// New builds a LineMap from raw content. Recognized line terminators are
// "\n", "\r\n", and a lone "\r". Content ending in a terminator has one
// further empty line whose start is the end of content, so a position
// just past a trailing newline is addressable.
func New(src []byte) *LineMap {
	starts := make([]int, 1, 16)
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\n':
			starts = append(starts, i+1)
		case '\r':
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		}
	}
	return &LineMap{src: src, starts: starts}
}

// LineCount reports the number of lines, counting the trailing empty line
// of terminator-ended content.
func (m *LineMap) LineCount() int { return len(m.starts) }

// Len reports the content length in characters.
func (m *LineMap) Len() int { return len(m.src) }

// Resolve maps a Position to its absolute offset. The offset of the
// end-of-content position (one past the final character) is len(content).
func (m *LineMap) Resolve(p types.Position) (int, error) {
	if p.Line < 1 || p.Line > len(m.starts) {
		return 0, fmt.Errorf("position %s: line outside content (%d lines)", p, len(m.starts))
	}
	if p.Column < 0 {
		return 0, fmt.Errorf("position %s: negative column", p)
	}
	off := m.starts[p.Line-1] + p.Column
	if off > len(m.src) {
		return 0, fmt.Errorf("position %s: offset %d past end of content (%d)", p, off, len(m.src))
	}
	return off, nil
}

// Precede returns the Position of the character immediately before p in
// document order, hopping line boundaries: the predecessor of a line
// start lies on the previous line. It fails for the position of the first
// character, which has no predecessor.
func (m *LineMap) Precede(p types.Position) (types.Position, error) {
	off, err := m.Resolve(p)
	if err != nil {
		return types.Position{}, err
	}
	if off == 0 {
		return types.Position{}, fmt.Errorf("position %s: nothing precedes the start of content", p)
	}
	return m.position(off - 1), nil
}

// EndPosition returns the one-past-the-last-character Position: the start
// of the trailing empty line for terminator-ended content, otherwise one
// column past the final character.
func (m *LineMap) EndPosition() types.Position {
	return m.position(len(m.src))
}

// PositionAt is the inverse of Resolve: it maps an absolute offset to its
// Position. Offset len(content) maps to EndPosition.
func (m *LineMap) PositionAt(off int) (types.Position, error) {
	if off < 0 || off > len(m.src) {
		return types.Position{}, fmt.Errorf("offset %d outside content (%d)", off, len(m.src))
	}
	return m.position(off), nil
}

// CharRange converts a half-open position Span to the inclusive
// character span covering the same characters. An empty Span converts to
// types.EmptyCharSpan.
func (m *LineMap) CharRange(s types.Span) (types.CharSpan, error) {
	if s.IsEmpty() {
		return types.EmptyCharSpan, nil
	}
	start, err := m.Resolve(s.Start)
	if err != nil {
		return types.EmptyCharSpan, err
	}
	end, err := m.Resolve(s.End)
	if err != nil {
		return types.EmptyCharSpan, err
	}
	if end <= start {
		return types.EmptyCharSpan, nil
	}
	return types.CharSpan{Start: start, End: end - 1}, nil
}

// Slice returns the content covered by an inclusive character span. The
// returned slice aliases the original content.
func (m *LineMap) Slice(cs types.CharSpan) []byte {
	if cs.IsEmpty() || cs.Start < 0 || cs.End >= len(m.src) {
		return nil
	}
	return m.src[cs.Start : cs.End+1]
}

// position maps a valid absolute offset back to its Position.
func (m *LineMap) position(off int) types.Position {
	line := sort.Search(len(m.starts), func(i int) bool { return m.starts[i] > off }) - 1
	return types.Position{Line: line + 1, Column: off - m.starts[line]}
}
