package rules

import (
	tytx "github.com/genropy/tytx"
	"github.com/genropy/tytx/i18n"
)

// Expression grammar, whitespace-insensitive:
//
//	Expr := Or
//	Or   := And ('|' And)*
//	And  := Not ('&' Not)*
//	Not  := '!'? Atom
//	Atom := ruleName
//
// Evaluation short-circuits left to right, so an unknown rule name in a
// branch that is never reached does not surface.

type lookupFunc func(name string) (bool, error)

type exprNode interface {
	eval(lookup lookupFunc) (bool, error)
}

type atomNode struct{ name string }

func (n atomNode) eval(lookup lookupFunc) (bool, error) { return lookup(n.name) }

type notNode struct{ inner exprNode }

func (n notNode) eval(lookup lookupFunc) (bool, error) {
	v, err := n.inner.eval(lookup)
	if err != nil {
		return false, err
	}
	return !v, nil
}

type andNode struct{ left, right exprNode }

func (n andNode) eval(lookup lookupFunc) (bool, error) {
	v, err := n.left.eval(lookup)
	if err != nil || !v {
		return false, err
	}
	return n.right.eval(lookup)
}

type orNode struct{ left, right exprNode }

func (n orNode) eval(lookup lookupFunc) (bool, error) {
	v, err := n.left.eval(lookup)
	if err != nil || v {
		return v, err
	}
	return n.right.eval(lookup)
}

// ---- lexer ----

type tokenKind int

const (
	tokName tokenKind = iota
	tokNot
	tokAnd
	tokOr
)

type token struct {
	kind tokenKind
	text string
}

func lexExpression(expr string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '!':
			toks = append(toks, token{kind: tokNot})
			i++
		case c == '&':
			toks = append(toks, token{kind: tokAnd})
			i++
		case c == '|':
			toks = append(toks, token{kind: tokOr})
			i++
		case isNameByte(c):
			start := i
			for i < len(expr) && isNameByte(expr[i]) {
				i++
			}
			toks = append(toks, token{kind: tokName, text: expr[start:i]})
		default:
			return nil, badExpression(expr, "unexpected character "+string(c))
		}
	}
	return toks, nil
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

// ---- parser ----

type exprParser struct {
	src  string
	toks []token
	pos  int
}

func parseExpression(expr string) (exprNode, error) {
	toks, err := lexExpression(expr)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, badExpression(expr, "empty expression")
	}
	p := &exprParser{src: expr, toks: toks}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, badExpression(expr, "trailing tokens")
	}
	return node, nil
}

func (p *exprParser) parseOr() (exprNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.accept(tokOr) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func (p *exprParser) parseAnd() (exprNode, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.accept(tokAnd) {
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func (p *exprParser) parseNot() (exprNode, error) {
	if p.accept(tokNot) {
		inner, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return p.parseAtom()
}

func (p *exprParser) parseAtom() (exprNode, error) {
	if p.pos >= len(p.toks) || p.toks[p.pos].kind != tokName {
		return nil, badExpression(p.src, "expected rule name")
	}
	name := p.toks[p.pos].text
	p.pos++
	return atomNode{name: name}, nil
}

func (p *exprParser) accept(kind tokenKind) bool {
	if p.pos < len(p.toks) && p.toks[p.pos].kind == kind {
		p.pos++
		return true
	}
	return false
}

func badExpression(expr, detail string) error {
	return tytx.Issues{{
		Code:    tytx.CodeBadExpression,
		Message: i18n.T(tytx.CodeBadExpression, nil) + ": " + detail,
		Params:  map[string]any{"expr": expr},
	}}
}
