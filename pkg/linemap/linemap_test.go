package linemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calque-dev/calque/pkg/types"
)

func pos(line, col int) types.Position {
	return types.Position{Line: line, Column: col}
}

func TestNewLineStarts(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		lines int
		end   types.Position
	}{
		{"empty", "", 1, pos(1, 0)},
		{"no terminator", "abc", 1, pos(1, 3)},
		{"trailing newline", "abc\n", 2, pos(2, 0)},
		{"lf lines", "a\nbb\nccc\n", 4, pos(4, 0)},
		{"crlf lines", "a\r\nbb\r\n", 3, pos(3, 0)},
		{"lone cr", "a\rbb\r", 3, pos(3, 0)},
		{"mixed terminators", "a\nb\r\nc\rd", 4, pos(4, 1)},
		{"blank lines only", "\n\n", 3, pos(3, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New([]byte(tt.src))
			assert.Equal(t, tt.lines, m.LineCount())
			assert.Equal(t, tt.end, m.EndPosition())
		})
	}
}

func TestResolve(t *testing.T) {
	m := New([]byte("module Foo\nlet x = 1\nlet y = 2\n"))

	tests := []struct {
		p   types.Position
		off int
	}{
		{pos(1, 0), 0},
		{pos(1, 7), 7},
		{pos(2, 0), 11},
		{pos(3, 0), 21},
		{pos(4, 0), 31}, // end of content
	}
	for _, tt := range tests {
		off, err := m.Resolve(tt.p)
		require.NoError(t, err)
		assert.Equal(t, tt.off, off, "position %s", tt.p)
	}
}

func TestResolveOutOfRange(t *testing.T) {
	m := New([]byte("a\nb\n"))

	_, err := m.Resolve(pos(4, 0))
	assert.Error(t, err, "line past line count")

	_, err = m.Resolve(pos(0, 0))
	assert.Error(t, err, "line below 1")

	_, err = m.Resolve(pos(1, -1))
	assert.Error(t, err, "negative column")

	_, err = m.Resolve(pos(3, 1))
	assert.Error(t, err, "offset past end of content")
}

func TestPrecede(t *testing.T) {
	m := New([]byte("ab\r\ncd\ne"))

	tests := []struct {
		name string
		p    types.Position
		want types.Position
	}{
		{"within a line", pos(1, 2), pos(1, 1)},
		{"line start to previous terminator", pos(2, 0), pos(1, 3)},
		{"across lf", pos(3, 0), pos(2, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Precede(tt.p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := m.Precede(pos(1, 0))
	assert.Error(t, err, "first character has no predecessor")
}

// TestPrecedeResolveRoundTrip checks that for every non-initial position p,
// Resolve(Precede(p)) == Resolve(p) - 1, across all terminator styles.
func TestPrecedeResolveRoundTrip(t *testing.T) {
	fixtures := []string{
		"module Foo\nlet x = 1\n",
		"a\r\nbb\r\nccc",
		"one\rtwo\rthree\r",
		"mixed\nlines\r\nhere\rend",
		"\n",
	}
	for _, src := range fixtures {
		m := New([]byte(src))
		for line := 1; line <= m.LineCount(); line++ {
			for col := 0; ; col++ {
				p := pos(line, col)
				off, err := m.Resolve(p)
				if err != nil {
					break
				}
				if off == 0 {
					continue
				}
				prev, err := m.Precede(p)
				require.NoError(t, err, "%q: %s", src, p)
				prevOff, err := m.Resolve(prev)
				require.NoError(t, err, "%q: %s", src, prev)
				assert.Equal(t, off-1, prevOff, "%q: %s", src, p)
			}
		}
	}
}

func TestPositionAt(t *testing.T) {
	m := New([]byte("ab\ncd\n"))

	tests := []struct {
		off  int
		want types.Position
	}{
		{0, pos(1, 0)},
		{2, pos(1, 2)}, // the terminator itself
		{3, pos(2, 0)},
		{6, pos(3, 0)}, // end of content
	}
	for _, tt := range tests {
		got, err := m.PositionAt(tt.off)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "offset %d", tt.off)
	}

	_, err := m.PositionAt(-1)
	assert.Error(t, err)
	_, err = m.PositionAt(7)
	assert.Error(t, err)
}

func TestCharRange(t *testing.T) {
	m := New([]byte("module Foo\nlet x = 1\n"))

	cs, err := m.CharRange(types.Span{Start: pos(1, 0), End: pos(1, 10)})
	require.NoError(t, err)
	assert.Equal(t, types.CharSpan{Start: 0, End: 9}, cs)

	// Spanning the terminator into the next line.
	cs, err = m.CharRange(types.Span{Start: pos(1, 0), End: pos(2, 0)})
	require.NoError(t, err)
	assert.Equal(t, types.CharSpan{Start: 0, End: 10}, cs)

	// Empty spans collapse to the sentinel.
	cs, err = m.CharRange(types.Span{Start: pos(2, 3), End: pos(2, 3)})
	require.NoError(t, err)
	assert.Equal(t, types.EmptyCharSpan, cs)

	_, err = m.CharRange(types.Span{Start: pos(1, 0), End: pos(9, 0)})
	assert.Error(t, err)
}

func TestSlice(t *testing.T) {
	m := New([]byte("let (a, b) = pair\n"))

	assert.Equal(t, "(a, b)", string(m.Slice(types.CharSpan{Start: 4, End: 9})))
	assert.Nil(t, m.Slice(types.EmptyCharSpan))
	assert.Nil(t, m.Slice(types.CharSpan{Start: 5, End: 99}))
}
