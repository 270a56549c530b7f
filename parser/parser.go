// Package parser implements a hand-written recursive-descent parser
// with Pratt-style precedence climbing for expressions (spec.md
// §4.2). On a syntax error it enters panic-mode recovery: skip to a
// synchronizing token, emit one diagnostic, and resume — following the
// teacher's own dispatch-and-continue style rather than a generated
// table-driven LALR parser (see DESIGN.md).
package parser

import (
	"github.com/solang-go/solang/ast"
	"github.com/solang-go/solang/diag"
	"github.com/solang-go/solang/lexer"
	"github.com/solang-go/solang/token"
)

// Parser holds one file's token stream plus a small lookahead buffer.
type Parser struct {
	lex  *lexer.Lexer
	bag  *diag.Bag
	file token.FileNo

	buf    [2]lexer.Token
	bufLen int

	lastSpan token.Span // span of the most recently consumed token, for closing ranges
}

// Parse parses one file's full source into a SourceUnit. Diagnostics
// are appended to bag; Parse never returns a nil *ast.SourceUnit, even
// on error, so downstream stages can report "skipped due to errors"
// without nil-checking every field.
func Parse(file token.FileNo, src []byte, bag *diag.Bag) *ast.SourceUnit {
	p := &Parser{lex: lexer.New(file, src, bag), bag: bag, file: file}
	return p.parseSourceUnit()
}

// ---- token stream helpers ---------------------------------------------

func (p *Parser) fill(n int) {
	for p.bufLen < n {
		p.buf[p.bufLen] = p.lex.Next()
		p.bufLen++
	}
}

func (p *Parser) cur() lexer.Token {
	p.fill(1)
	return p.buf[0]
}

func (p *Parser) peek() lexer.Token {
	p.fill(2)
	return p.buf[1]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	copy(p.buf[:], p.buf[1:p.bufLen])
	p.bufLen--
	p.lastSpan = t.Span
	return t
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) accept(k token.Kind) (lexer.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return lexer.Token{}, false
}

func (p *Parser) expect(k token.Kind) lexer.Token {
	if p.at(k) {
		return p.advance()
	}
	t := p.cur()
	p.bag.Errorf(diag.KindParse, t.Span, "expected %s, found %q", k, tokenText(t))
	return lexer.Token{Kind: k, Span: t.Span}
}

func tokenText(t lexer.Token) string {
	if t.Lit != "" {
		return t.Lit
	}
	return t.Kind.String()
}

// isSyncPoint reports the panic-mode recovery boundary: statement/declaration
// terminators and top-level keywords (spec.md §4.2).
func (p *Parser) isSyncPoint() bool {
	switch p.cur().Kind {
	case token.SEMI, token.RBRACE, token.EOF,
		token.CONTRACT, token.INTERFACE, token.LIBRARY, token.FUNCTION,
		token.STRUCT, token.ENUM, token.EVENT, token.ERROR, token.IMPORT,
		token.PRAGMA, token.MODIFIER:
		return true
	}
	return false
}

// recover skips tokens until a sync point, consuming a trailing SEMI
// or RBRACE so the caller resumes cleanly after the broken construct.
func (p *Parser) recover() {
	for !p.isSyncPoint() {
		p.advance()
	}
	if p.at(token.SEMI) || p.at(token.RBRACE) {
		p.advance()
	}
}

func (p *Parser) span(start token.Span) token.Span {
	return start.Merge(p.prevEnd())
}

// prevEnd returns the span of the most recently consumed token, used
// to close a range started at an earlier span.
func (p *Parser) prevEnd() token.Span {
	return p.lastSpan
}
