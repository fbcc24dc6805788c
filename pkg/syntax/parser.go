// Package syntax is the built-in language front-end: a line-oriented
// recognizer for ML-style sources reporting top-level module and
// namespace declarations, their let bindings, and positioned
// diagnostics. It recognizes structure, not semantics; gaps between
// recognized constructs are deliberate and never errors.
package syntax

import (
	"errors"
	"fmt"
	"sort"

	"github.com/calque-dev/calque/pkg/linemap"
	"github.com/calque-dev/calque/pkg/types"
)

// ErrNoStructure reports content in which no top-level declaration could
// be recognized. Collected diagnostics accompany the error but do not
// soften it: without at least one declaration there is nothing to
// outline.
var ErrNoStructure = errors.New("no top-level declaration found")

// Parse recognizes the structure of src. A nil error means the returned
// File is usable, even when diagnostics were collected; ErrNoStructure
// means src holds content but none of it forms a recognizable top-level
// declaration. Empty, blank-only, and comment-only content parses to a
// File with no declarations.
func Parse(src []byte) (*File, []types.ParseError, error) {
	sc := newScanner(src)
	sc.run()

	p := &parser{
		toks:  sc.toks,
		lines: sc.lines,
		lm:    linemap.New(src),
		diags: sc.diags,
	}
	p.parse()

	sort.SliceStable(p.diags, func(i, j int) bool {
		return p.diags[i].Pos.Before(p.diags[j].Pos)
	})
	if len(p.decls) == 0 && len(p.toks) > 0 {
		return nil, p.diags, ErrNoStructure
	}
	return &File{Decls: p.decls}, p.diags, nil
}

type parser struct {
	toks  []token
	lines []lineMeta
	lm    *linemap.LineMap
	diags []types.ParseError
	decls []Decl
}

func (p *parser) parse() {
	for ln := 1; ln <= len(p.lines); ln++ {
		meta := p.lines[ln-1]
		if meta.inside || meta.first < 0 {
			continue
		}
		head := p.toks[meta.first]
		switch {
		case (head.is(kwModule) || head.is(kwNamespace)) && head.pos.Column == 0:
			p.declaration(ln)
		case head.is(kwLet):
			ln = p.binding(ln)
		}
	}
}

// declaration parses a top-level module or namespace header line.
func (p *parser) declaration(ln int) {
	toks := p.lineTokens(ln)
	head := toks[0]
	kind := KindModule
	if head.is(kwNamespace) {
		kind = KindNamespace
	}

	i := 1
	for i < len(toks) && isDeclModifier(toks[i]) {
		i++
	}

	// A trailing "=" is the nested-module form, which opens an inner
	// scope this front-end does not outline.
	depth := 0
	for _, t := range toks[i:] {
		switch {
		case t.isOpen():
			depth++
		case t.isClose():
			depth--
		case depth == 0 && t.isEq():
			return
		}
	}

	if i >= len(toks) || !isIdent(toks[i]) {
		pos := head.end
		if i < len(toks) {
			pos = toks[i].pos
		}
		p.errorf(pos, "missing name in %s declaration", kind)
		return
	}
	parts := []string{identText(toks[i])}
	nameEnd := toks[i].end
	i++
	for i+1 < len(toks) && toks[i].isDot() && isIdent(toks[i+1]) {
		parts = append(parts, identText(toks[i+1]))
		nameEnd = toks[i+1].end
		i += 2
	}
	if i < len(toks) {
		p.errorf(toks[i].pos, "unexpected %q after %s name", string(toks[i].text), kind)
	}

	p.decls = append(p.decls, Decl{
		Kind:    kind,
		Name:    parts,
		NameEnd: nameEnd,
		Span:    types.Span{Start: head.pos, End: p.lineEnd(ln)},
	})
}

// binding parses a let binding starting at line ln and returns the last
// line it consumed.
func (p *parser) binding(ln int) int {
	toks := p.lineTokens(ln)
	letTok := toks[0]

	i := 1
	for i < len(toks) && isBindingModifier(toks[i]) {
		i++
	}

	// The binding "=" must sit at bracket depth 0 on the head line.
	eq := -1
	depth := 0
	for j := i; j < len(toks) && eq < 0; j++ {
		t := toks[j]
		switch {
		case t.isOpen():
			depth++
		case t.isClose():
			depth--
		case depth == 0 && t.isEq():
			eq = j
		}
	}
	switch {
	case eq < 0:
		p.errorf(toks[len(toks)-1].end, "missing '=' in let binding")
		return ln
	case eq == i:
		p.errorf(toks[eq].pos, "missing name or pattern in let binding")
		return ln
	}

	last := p.continuation(ln)
	b := Binding{Span: types.Span{Start: letTok.pos, End: p.lineEnd(last)}}
	if isIdent(toks[i]) {
		b.Name = identText(toks[i])
	} else {
		b.Pattern = types.Span{Start: toks[i].pos, End: toks[eq-1].end}
	}

	if len(p.decls) == 0 {
		p.errorf(letTok.pos, "let binding outside any module or namespace")
		return last
	}
	d := &p.decls[len(p.decls)-1]
	d.Bindings = append(d.Bindings, b)
	d.Span.End = b.Span.End
	return last
}

// continuation returns the last line of the binding that starts at ln:
// its head line plus immediately following non-blank lines that are
// indented or begin inside one of the binding's comments or strings.
func (p *parser) continuation(ln int) int {
	last := ln
	for l := ln + 1; l <= len(p.lines); l++ {
		meta := p.lines[l-1]
		if meta.blank {
			break
		}
		if !meta.inside {
			if !meta.indented {
				break
			}
			if meta.first >= 0 && isConstructHead(p.toks[meta.first]) {
				break
			}
		}
		last = l
	}
	return last
}

// lineTokens returns the tokens starting on line ln.
func (p *parser) lineTokens(ln int) []token {
	start := p.lines[ln-1].first
	if start < 0 {
		return nil
	}
	end := start
	for end < len(p.toks) && p.toks[end].pos.Line == ln {
		end++
	}
	return p.toks[start:end]
}

// lineEnd returns the position just past line ln's terminator: the start
// of the following line, or the end of content for the final line.
func (p *parser) lineEnd(ln int) types.Position {
	if ln < p.lm.LineCount() {
		return types.Position{Line: ln + 1, Column: 0}
	}
	return p.lm.EndPosition()
}

func (p *parser) errorf(pos types.Position, format string, args ...any) {
	p.diags = append(p.diags, types.ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func isIdent(t token) bool {
	return t.kind == tokWord || t.kind == tokQuoted
}

// identText is the identifier a token names, with quoting stripped.
func identText(t token) string {
	if t.kind != tokQuoted {
		return string(t.text)
	}
	b := t.text[2:]
	if n := len(b); n >= 2 && b[n-1] == '`' && b[n-2] == '`' {
		b = b[:n-2]
	}
	return string(b)
}

func isConstructHead(t token) bool {
	if t.is(kwLet) {
		return true
	}
	return (t.is(kwModule) || t.is(kwNamespace)) && t.pos.Column == 0
}

func isDeclModifier(t token) bool {
	return t.is(kwRec) || t.is(kwPrivate) || t.is(kwInternal) || t.is(kwPublic)
}

func isBindingModifier(t token) bool {
	return isDeclModifier(t) || t.is(kwMutable) || t.is(kwInline)
}
