package syntax

import (
	"go4.org/mem"

	"github.com/calque-dev/calque/pkg/types"
)

// tokKind is the type of a lexical token.
type tokKind byte

const (
	tokWord   tokKind = iota // identifier or keyword
	tokQuoted                // ``quoted`` identifier
	tokString                // string literal, any form
	tokChar                  // character literal
	tokNumber                // numeric literal
	tokDelim                 // single delimiter: ( ) [ ] { } , ;
	tokOp                    // run of symbolic characters
)

// token is one lexical token with its source extent. For multi-line
// string literals pos and end lie on different lines.
type token struct {
	kind tokKind
	pos  types.Position
	end  types.Position // one past the last character
	text []byte
}

// Keywords the parser compares against.
var (
	kwModule    = mem.S("module")
	kwNamespace = mem.S("namespace")
	kwLet       = mem.S("let")
	kwRec       = mem.S("rec")
	kwMutable   = mem.S("mutable")
	kwInline    = mem.S("inline")
	kwPrivate   = mem.S("private")
	kwInternal  = mem.S("internal")
	kwPublic    = mem.S("public")
)

func (t token) is(kw mem.RO) bool {
	return t.kind == tokWord && mem.B(t.text).Equal(kw)
}

func (t token) isEq() bool {
	return t.kind == tokOp && len(t.text) == 1 && t.text[0] == '='
}

func (t token) isDot() bool {
	return t.kind == tokOp && len(t.text) == 1 && t.text[0] == '.'
}

func (t token) isOpen() bool {
	return t.kind == tokDelim && (t.text[0] == '(' || t.text[0] == '[' || t.text[0] == '{')
}

func (t token) isClose() bool {
	return t.kind == tokDelim && (t.text[0] == ')' || t.text[0] == ']' || t.text[0] == '}')
}

// lineMeta is per-line context the parser consults when matching
// construct heads and binding continuations.
type lineMeta struct {
	blank    bool // nothing but whitespace
	indented bool // first character is a space or tab
	inside   bool // line starts inside a block comment or string literal
	first    int  // index of the first token starting on this line, -1 if none
}

// scanner tokenizes raw content in a single pass, tracking block comments
// (nested), line comments, and string literals across line boundaries so
// keywords inside them stay inert. Columns count bytes from line start.
type scanner struct {
	src  []byte
	off  int
	line int
	col  int

	toks  []token
	lines []lineMeta
	diags []types.ParseError
}

func newScanner(src []byte) *scanner {
	s := &scanner{src: src, line: 1}
	s.lines = append(s.lines, lineMeta{blank: true, indented: s.peekWS(), first: -1})
	return s
}

func (s *scanner) run() {
	for s.off < len(s.src) {
		c := s.src[s.off]
		switch {
		case c == '\n' || c == '\r':
			s.newline(false, false)
		case c == ' ' || c == '\t':
			s.bump()
		default:
			s.token()
		}
	}
}

// token scans one token starting at the current (non-blank) position.
func (s *scanner) token() {
	s.cur().blank = false
	c := s.src[s.off]
	switch {
	case c == '(' && s.peekAt(1) == '*' && s.peekAt(2) != ')':
		s.scanComment()
	case c == '/' && s.peekAt(1) == '/':
		s.scanLineComment()
	case c == '"':
		if s.peekAt(1) == '"' && s.peekAt(2) == '"' {
			s.scanString(strTriple)
		} else {
			s.scanString(strPlain)
		}
	case c == '@' && s.peekAt(1) == '"':
		s.scanString(strVerbatim)
	case c == '`' && s.peekAt(1) == '`':
		s.scanQuoted()
	case c == '\'':
		s.scanChar()
	case isWordStart(c):
		s.scanRun(tokWord, isWordByte)
	case isDigit(c):
		s.scanRun(tokNumber, isNumberByte)
	case isDelim(c):
		start := s.mark()
		s.bump()
		s.emit(tokDelim, start)
	case isSymbol(c):
		s.scanRun(tokOp, isSymbol)
	default:
		// Unrecognized byte (control character, stray UTF-8): an opaque
		// single-byte operator keeps the scan moving.
		start := s.mark()
		s.bump()
		s.emit(tokOp, start)
	}
}

// scanRun consumes a maximal run of bytes matching f.
func (s *scanner) scanRun(kind tokKind, f func(byte) bool) {
	start := s.mark()
	for s.off < len(s.src) && f(s.src[s.off]) {
		s.bump()
	}
	s.emit(kind, start)
}

// scanComment consumes a block comment, honoring nesting, from its
// opening "(*" through the matching "*)". The comment itself produces no
// token.
func (s *scanner) scanComment() {
	open := s.pos()
	depth := 0
	for s.off < len(s.src) {
		c := s.src[s.off]
		switch {
		case c == '\n' || c == '\r':
			s.newline(true, false)
		case c == '(' && s.peekAt(1) == '*':
			depth++
			s.bump()
			s.bump()
		case c == '*' && s.peekAt(1) == ')':
			depth--
			s.bump()
			s.bump()
			if depth == 0 {
				return
			}
		default:
			if c != ' ' && c != '\t' {
				s.cur().blank = false
			}
			s.bump()
		}
	}
	s.errorf(open, "unterminated block comment")
}

// scanLineComment consumes "//" through end of line.
func (s *scanner) scanLineComment() {
	for s.off < len(s.src) && s.src[s.off] != '\n' && s.src[s.off] != '\r' {
		s.bump()
	}
}

type strMode byte

const (
	strPlain    strMode = iota // "..." with backslash escapes
	strVerbatim                // @"..." with "" as the escaped quote
	strTriple                  // """..."""
)

// scanString consumes a string literal. Plain and verbatim strings may
// span lines; every line they touch counts as content.
func (s *scanner) scanString(mode strMode) {
	start := s.mark()
	switch mode {
	case strPlain:
		s.bump()
	case strVerbatim:
		s.bump()
		s.bump()
	case strTriple:
		s.bump()
		s.bump()
		s.bump()
	}
	for s.off < len(s.src) {
		c := s.src[s.off]
		switch {
		case c == '\n' || c == '\r':
			s.newline(true, true)
		case mode == strPlain && c == '\\':
			s.bump()
			if s.off < len(s.src) && s.src[s.off] != '\n' && s.src[s.off] != '\r' {
				s.bump()
			}
		case mode == strVerbatim && c == '"' && s.peekAt(1) == '"':
			s.bump()
			s.bump()
		case mode == strTriple && c == '"' && s.peekAt(1) == '"' && s.peekAt(2) == '"':
			s.bump()
			s.bump()
			s.bump()
			s.emit(tokString, start)
			return
		case mode != strTriple && c == '"':
			s.bump()
			s.emit(tokString, start)
			return
		default:
			s.bump()
		}
	}
	s.errorf(start.pos, "unterminated string literal")
	s.emit(tokString, start)
}

// scanQuoted consumes a ``quoted identifier``, which must close on the
// same line.
func (s *scanner) scanQuoted() {
	start := s.mark()
	s.bump()
	s.bump()
	for s.off < len(s.src) {
		c := s.src[s.off]
		if c == '\n' || c == '\r' {
			break
		}
		if c == '`' && s.peekAt(1) == '`' {
			s.bump()
			s.bump()
			s.emit(tokQuoted, start)
			return
		}
		s.bump()
	}
	s.errorf(start.pos, "unterminated quoted identifier")
	s.emit(tokQuoted, start)
}

// scanChar consumes a character literal if one plausibly starts here,
// otherwise emits the apostrophe as an operator (type variables such as
// 'a reach this path).
func (s *scanner) scanChar() {
	start := s.mark()
	if s.peekAt(1) == '\\' {
		for n := 3; n <= 8; n++ {
			if s.peekAt(n) == '\'' {
				for i := 0; i <= n; i++ {
					s.bump()
				}
				s.emit(tokChar, start)
				return
			}
		}
	} else if s.peekAt(1) != '\'' && s.peekAt(1) != 0 && s.peekAt(2) == '\'' {
		s.bump()
		s.bump()
		s.bump()
		s.emit(tokChar, start)
		return
	}
	s.bump()
	s.emit(tokOp, start)
}

// tokenStart captures where a token began.
type tokenStart struct {
	off int
	pos types.Position
}

func (s *scanner) mark() tokenStart {
	return tokenStart{off: s.off, pos: s.pos()}
}

func (s *scanner) emit(kind tokKind, start tokenStart) {
	idx := len(s.toks)
	s.toks = append(s.toks, token{
		kind: kind,
		pos:  start.pos,
		end:  s.pos(),
		text: s.src[start.off:s.off],
	})
	meta := &s.lines[start.pos.Line-1]
	if meta.first < 0 {
		meta.first = idx
	}
}

func (s *scanner) pos() types.Position {
	return types.Position{Line: s.line, Column: s.col}
}

func (s *scanner) cur() *lineMeta {
	return &s.lines[len(s.lines)-1]
}

// bump advances one byte within the current line.
func (s *scanner) bump() {
	s.off++
	s.col++
}

// newline consumes a line terminator ("\n", "\r\n", or a lone "\r") and
// opens the next line's metadata. inside marks the new line as starting
// within a comment or string; content marks it non-blank regardless of
// what it holds (string interiors are content even when visually blank).
func (s *scanner) newline(inside, content bool) {
	if s.src[s.off] == '\r' && s.off+1 < len(s.src) && s.src[s.off+1] == '\n' {
		s.off++
	}
	s.off++
	s.line++
	s.col = 0
	s.lines = append(s.lines, lineMeta{
		blank:    !content,
		indented: s.peekWS(),
		inside:   inside,
		first:    -1,
	})
}

// peekAt returns the byte n positions ahead, or 0 past the end.
func (s *scanner) peekAt(n int) byte {
	if s.off+n >= len(s.src) {
		return 0
	}
	return s.src[s.off+n]
}

func (s *scanner) peekWS() bool {
	return s.off < len(s.src) && (s.src[s.off] == ' ' || s.src[s.off] == '\t')
}

func (s *scanner) errorf(pos types.Position, msg string) {
	s.diags = append(s.diags, types.ParseError{Pos: pos, Message: msg})
}

func isWordStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isWordByte(c byte) bool {
	return isWordStart(c) || isDigit(c) || c == '\''
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isNumberByte(c byte) bool {
	return isDigit(c) || isWordStart(c) || c == '.'
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '[', ']', '{', '}', ',', ';':
		return true
	}
	return false
}

func isSymbol(c byte) bool {
	switch c {
	case '!', '$', '%', '&', '*', '+', '-', '.', '/', ':', '<', '=', '>', '?', '@', '^', '|', '~', '\\', '`':
		return true
	}
	return false
}
