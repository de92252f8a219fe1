package cil

import (
	"fmt"
	"strings"
)

// sexpr is one node of the raw s-expression parse tree: either an atom or a
// parenthesized list. Quoted strings keep their quote flag so the writer can
// round-trip paths.
type sexpr struct {
	line   int
	atom   string
	quoted bool
	isAtom bool
	list   []*sexpr
}

func (s *sexpr) String() string {
	if s.isAtom {
		if s.quoted {
			return fmt.Sprintf("%q", s.atom)
		}
		return s.atom
	}
	parts := make([]string, len(s.list))
	for i, item := range s.list {
		parts[i] = item.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

type parser struct {
	src  []byte
	path string
	pos  int
	line int
}

// parseSexprs tokenizes and parses src into a sequence of top level
// s-expressions. Comments run from ';' to end of line.
func parseSexprs(src []byte, path string) ([]*sexpr, error) {
	p := &parser{src: src, path: path, line: 1}
	var exprs []*sexpr
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return exprs, nil
		}
		if p.src[p.pos] != '(' {
			return nil, fmt.Errorf("parse %s:%d: expected '(', found %q", p.path, p.line, rune(p.src[p.pos]))
		}
		expr, err := p.parseList()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '\n':
			p.line++
			p.pos++
		case c == ' ' || c == '\t' || c == '\r':
			p.pos++
		case c == ';':
			for p.pos < len(p.src) && p.src[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

func (p *parser) parseList() (*sexpr, error) {
	expr := &sexpr{line: p.line}
	p.pos++ // consume '('
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, fmt.Errorf("parse %s:%d: unexpected end of input, unclosed '('", p.path, expr.line)
		}
		switch p.src[p.pos] {
		case ')':
			p.pos++
			return expr, nil
		case '(':
			item, err := p.parseList()
			if err != nil {
				return nil, err
			}
			expr.list = append(expr.list, item)
		case '"':
			item, err := p.parseQuoted()
			if err != nil {
				return nil, err
			}
			expr.list = append(expr.list, item)
		default:
			expr.list = append(expr.list, p.parseAtom())
		}
	}
}

func (p *parser) parseQuoted() (*sexpr, error) {
	start := p.line
	p.pos++ // consume opening quote
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '"' {
			p.pos++
			return &sexpr{line: start, atom: b.String(), quoted: true, isAtom: true}, nil
		}
		if c == '\n' {
			p.line++
		}
		b.WriteByte(c)
		p.pos++
	}
	return nil, fmt.Errorf("parse %s:%d: unterminated string", p.path, start)
}

func isAtomEnd(c byte) bool {
	switch c {
	case '(', ')', '"', ';', ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

func (p *parser) parseAtom() *sexpr {
	start := p.pos
	for p.pos < len(p.src) && !isAtomEnd(p.src[p.pos]) {
		p.pos++
	}
	return &sexpr{line: p.line, atom: string(p.src[start:p.pos]), isAtom: true}
}
