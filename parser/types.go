package parser

import (
	"strconv"
	"strings"

	"github.com/solang-go/solang/ast"
	"github.com/solang-go/solang/diag"
	"github.com/solang-go/solang/token"
)

// parseType parses a type expression and any trailing `[]`/`[N]` array
// suffixes.
func (p *Parser) parseType() ast.Type {
	base := p.parseBaseType()
	for p.at(token.LBRACK) {
		start := p.cur().Span
		p.advance()
		var size ast.Expr
		if !p.at(token.RBRACK) {
			size = p.parseExpr()
		}
		p.expect(token.RBRACK)
		base = &ast.ArrayType{Sp: p.span(start), Elem: base, Size: size}
	}
	return base
}

func (p *Parser) parseBaseType() ast.Type {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.BOOL:
		p.advance()
		return &ast.ElementaryType{Sp: p.span(start), Kind: ast.ElemBool}
	case token.ADDRESS:
		p.advance()
		kind := ast.ElemAddress
		if _, ok := p.accept(token.PAYABLE); ok {
			kind = ast.ElemAddressPayable
		}
		return &ast.ElementaryType{Sp: p.span(start), Kind: kind}
	case token.STRING_TY:
		p.advance()
		return &ast.ElementaryType{Sp: p.span(start), Kind: ast.ElemString}
	case token.BYTES_TY:
		p.advance()
		return &ast.ElementaryType{Sp: p.span(start), Kind: ast.ElemBytes}
	case token.UINT:
		t := p.advance()
		return &ast.ElementaryType{Sp: p.span(start), Kind: ast.ElemUint, Width: widthSuffix(t.Lit, "uint", 256)}
	case token.INT:
		t := p.advance()
		return &ast.ElementaryType{Sp: p.span(start), Kind: ast.ElemInt, Width: widthSuffix(t.Lit, "int", 256)}
	case token.BYTES_N:
		t := p.advance()
		return &ast.ElementaryType{Sp: p.span(start), Kind: ast.ElemBytesN, Width: widthSuffix(t.Lit, "bytes", 1)}
	case token.MAPPING:
		return p.parseMappingType()
	case token.FUNCTION:
		return p.parseFunctionType()
	case token.IDENT:
		path := []string{p.advance().Lit}
		for p.at(token.DOT) {
			p.advance()
			path = append(path, p.expect(token.IDENT).Lit)
		}
		return &ast.NamedType{Sp: p.span(start), Path: path}
	default:
		p.bag.Errorf(diag.KindParse, p.cur().Span, "expected a type, found %q", tokenText(p.cur()))
		p.advance()
		return &ast.NamedType{Sp: p.span(start), Path: []string{"<error>"}}
	}
}

func widthSuffix(lit, prefix string, def int) int {
	s := strings.TrimPrefix(lit, prefix)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func (p *Parser) parseMappingType() ast.Type {
	start := p.cur().Span
	p.expect(token.MAPPING)
	p.expect(token.LPAREN)
	key := p.parseType()
	keyName := ""
	if p.at(token.IDENT) {
		keyName = p.advance().Lit
	}
	p.expect(token.ARROW)
	value := p.parseType()
	valueName := ""
	if p.at(token.IDENT) {
		valueName = p.advance().Lit
	}
	p.expect(token.RPAREN)
	return &ast.MappingType{Sp: p.span(start), Key: key, KeyName: keyName, Value: value, ValueName: valueName}
}

func (p *Parser) parseFunctionType() ast.Type {
	start := p.cur().Span
	p.expect(token.FUNCTION)
	p.expect(token.LPAREN)
	var params []ast.Type
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		params = append(params, p.parseType())
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	p.expect(token.RPAREN)

	ft := &ast.FunctionType{}
loop:
	for {
		switch p.cur().Kind {
		case token.INTERNAL:
			p.advance()
			ft.Visibility = ast.VisInternal
		case token.EXTERNAL:
			p.advance()
			ft.Visibility = ast.VisExternal
		case token.PUBLIC:
			p.advance()
			ft.Visibility = ast.VisPublic
		case token.PRIVATE:
			p.advance()
			ft.Visibility = ast.VisPrivate
		case token.VIEW:
			p.advance()
			ft.Mutability = ast.MutView
		case token.PURE:
			p.advance()
			ft.Mutability = ast.MutPure
		case token.PAYABLE:
			p.advance()
			ft.Mutability = ast.MutPayable
		default:
			break loop
		}
	}
	if _, ok := p.accept(token.RETURNS); ok {
		p.expect(token.LPAREN)
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			ft.Returns = append(ft.Returns, p.parseType())
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
		p.expect(token.RPAREN)
	}
	ft.Params = params
	ft.Sp = p.span(start)
	return ft
}
