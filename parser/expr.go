package parser

import (
	"strings"

	"github.com/solang-go/solang/ast"
	"github.com/solang-go/solang/diag"
	"github.com/solang-go/solang/token"
)

// parseExpr is the expression entry point: assignment has the lowest
// precedence (besides the comma used in tuples/call-argument lists,
// which callers split on explicitly).
func (p *Parser) parseExpr() ast.Expr {
	return p.parseAssignment()
}

var assignOps = map[token.Kind]ast.AssignOp{
	token.ASSIGN:     ast.AssignPlain,
	token.ADD_ASSIGN: ast.AssignAdd,
	token.SUB_ASSIGN: ast.AssignSub,
	token.MUL_ASSIGN: ast.AssignMul,
	token.QUO_ASSIGN: ast.AssignDiv,
	token.REM_ASSIGN: ast.AssignMod,
	token.AND_ASSIGN: ast.AssignAnd,
	token.OR_ASSIGN:  ast.AssignOr,
	token.XOR_ASSIGN: ast.AssignXor,
	token.SHL_ASSIGN: ast.AssignShl,
	token.SHR_ASSIGN: ast.AssignShr,
}

func (p *Parser) parseAssignment() ast.Expr {
	left := p.parseTernary()
	if op, ok := assignOps[p.cur().Kind]; ok {
		start := left.Span()
		p.advance()
		right := p.parseAssignment()
		return &ast.AssignExpr{Sp: p.span(start), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseTernary() ast.Expr {
	cond := p.parseBinary(1)
	if _, ok := p.accept(token.QUESTION); ok {
		start := cond.Span()
		then := p.parseExpr()
		p.expect(token.COLON)
		els := p.parseExpr()
		return &ast.TernaryExpr{Sp: p.span(start), Cond: cond, Then: then, Else: els}
	}
	return cond
}

type binOpInfo struct {
	prec  int
	op    ast.BinaryOp
	rightAssoc bool
}

var binOps = map[token.Kind]binOpInfo{
	token.LOR:  {1, ast.BinLOr, false},
	token.LAND: {2, ast.BinLAnd, false},
	token.EQL:  {3, ast.BinEq, false},
	token.NEQ:  {3, ast.BinNeq, false},
	token.LSS:  {4, ast.BinLt, false},
	token.LEQ:  {4, ast.BinLe, false},
	token.GTR:  {4, ast.BinGt, false},
	token.GEQ:  {4, ast.BinGe, false},
	token.OR:   {5, ast.BinOr, false},
	token.XOR:  {6, ast.BinXor, false},
	token.AND:  {7, ast.BinAnd, false},
	token.SHL:  {8, ast.BinShl, false},
	token.SHR:  {8, ast.BinShr, false},
	token.ADD:  {9, ast.BinAdd, false},
	token.SUB:  {9, ast.BinSub, false},
	token.MUL:  {10, ast.BinMul, false},
	token.QUO:  {10, ast.BinDiv, false},
	token.REM:  {10, ast.BinMod, false},
	token.POW:  {11, ast.BinPow, true},
}

func (p *Parser) parseBinary(minPrec int) ast.Expr {
	left := p.parseUnary()
	for {
		info, ok := binOps[p.cur().Kind]
		if !ok || info.prec < minPrec {
			return left
		}
		p.advance()
		nextMin := info.prec + 1
		if info.rightAssoc {
			nextMin = info.prec
		}
		right := p.parseBinary(nextMin)
		left = &ast.BinaryExpr{Sp: p.span(left.Span()), Op: info.op, Left: left, Right: right}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.NOT:
		p.advance()
		return &ast.UnaryExpr{Sp: p.span(start), Op: ast.UnNot, X: p.parseUnary()}
	case token.BNOT:
		p.advance()
		return &ast.UnaryExpr{Sp: p.span(start), Op: ast.UnBitNot, X: p.parseUnary()}
	case token.SUB:
		p.advance()
		return &ast.UnaryExpr{Sp: p.span(start), Op: ast.UnNeg, X: p.parseUnary()}
	case token.INC:
		p.advance()
		return &ast.UnaryExpr{Sp: p.span(start), Op: ast.UnPreInc, X: p.parseUnary()}
	case token.DEC:
		p.advance()
		return &ast.UnaryExpr{Sp: p.span(start), Op: ast.UnPreDec, X: p.parseUnary()}
	case token.DELETE:
		p.advance()
		return &ast.UnaryExpr{Sp: p.span(start), Op: ast.UnDelete, X: p.parseUnary()}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		switch p.cur().Kind {
		case token.DOT:
			p.advance()
			name := p.expect(token.IDENT).Lit
			x = &ast.MemberExpr{Sp: p.span(x.Span()), X: x, Name: name}
		case token.LBRACK:
			p.advance()
			var idx ast.Expr
			if !p.at(token.RBRACK) {
				idx = p.parseExpr()
			}
			p.expect(token.RBRACK)
			x = &ast.IndexExpr{Sp: p.span(x.Span()), X: x, Index: idx}
		case token.LPAREN:
			x = p.parseCall(x)
		case token.LBRACE:
			// `f({a: 1, b: 2})` named-argument call.
			if !p.looksLikeNamedArgCall() {
				return x
			}
			x = p.parseCall(x)
		case token.INC:
			p.advance()
			x = &ast.UnaryExpr{Sp: p.span(x.Span()), Op: ast.UnPostInc, X: x}
		case token.DEC:
			p.advance()
			x = &ast.UnaryExpr{Sp: p.span(x.Span()), Op: ast.UnPostDec, X: x}
		default:
			return x
		}
	}
}

// looksLikeNamedArgCall performs a 2-token lookahead: a `{` followed
// by an identifier right after a primary expression is parsed as a
// `{name: value}` block; a `{` followed by anything else (such as an
// empty try body or one starting with a keyword) ends the expression.
func (p *Parser) looksLikeNamedArgCall() bool {
	return p.at(token.LBRACE) && p.peek().Kind == token.IDENT
}

func (p *Parser) parseCall(callee ast.Expr) ast.Expr {
	start := callee.Span()
	call := &ast.CallExpr{Callee: callee}
	if p.at(token.LBRACE) {
		p.advance()
		for !p.at(token.RBRACE) && !p.at(token.EOF) {
			name := p.expect(token.IDENT).Lit
			p.expect(token.COLON)
			val := p.parseExpr()
			if name == "value" {
				call.ValueArg = val
			} else if name == "gas" {
				call.GasArg = val
			} else {
				call.Args = append(call.Args, val)
				call.ArgNames = append(call.ArgNames, name)
			}
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
		p.expect(token.RBRACE)
		if p.at(token.LPAREN) {
			return p.parseCall(&ast.CallExpr{Sp: p.span(start), Callee: callee, ValueArg: call.ValueArg, GasArg: call.GasArg})
		}
		call.Sp = p.span(start)
		return call
	}
	p.expect(token.LPAREN)
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		call.Args = append(call.Args, p.parseExpr())
		call.ArgNames = append(call.ArgNames, "")
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	p.expect(token.RPAREN)
	call.Sp = p.span(start)
	return call
}

func (p *Parser) parsePrimary() ast.Expr {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.IDENT:
		t := p.advance()
		return &ast.Ident{Sp: t.Span, Name: t.Lit}
	case token.THIS:
		p.advance()
		return &ast.ThisExpr{Sp: start}
	case token.SUPER:
		p.advance()
		return &ast.SuperExpr{Sp: start}
	case token.TRUE:
		p.advance()
		return &ast.BoolLit{Sp: start, Value: true}
	case token.FALSE:
		p.advance()
		return &ast.BoolLit{Sp: start, Value: false}
	case token.NUMBER:
		t := p.advance()
		raw, denom := t.Lit, ""
		if i := strings.IndexByte(t.Lit, ' '); i >= 0 {
			raw, denom = t.Lit[:i], t.Lit[i+1:]
		}
		return &ast.NumberLit{Sp: t.Span, Raw: raw, Denom: denom, IsHex: strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X")}
	case token.STRING:
		t := p.advance()
		return &ast.StringLit{Sp: t.Span, Value: t.Lit}
	case token.UNICODE_STRING:
		t := p.advance()
		return &ast.StringLit{Sp: t.Span, Value: t.Lit, Unicode: true}
	case token.HEX_STRING:
		t := p.advance()
		return &ast.HexStringLit{Sp: t.Span, Hex: t.Lit}
	case token.NEW:
		return p.parseNew()
	case token.LPAREN:
		return p.parseParenOrTuple()
	case token.LBRACK:
		return p.parseArrayLit()
	case token.BOOL, token.ADDRESS, token.STRING_TY, token.BYTES_TY, token.UINT, token.INT, token.BYTES_N, token.PAYABLE:
		ty := p.parseCastType()
		return &ast.TypeExpr{Sp: ty.Span(), Ty: ty}
	default:
		p.bag.Errorf(diag.KindParse, start, "unexpected token %q in expression", tokenText(p.cur()))
		p.advance()
		return &ast.Ident{Sp: start, Name: "<error>"}
	}
}

// parseCastType parses an elementary type appearing in expression
// position as the callee of an explicit conversion, e.g. `uint256(x)`
// or bare `payable(x)`.
func (p *Parser) parseCastType() ast.Type {
	start := p.cur().Span
	if p.at(token.PAYABLE) {
		p.advance()
		return &ast.ElementaryType{Sp: p.span(start), Kind: ast.ElemAddressPayable}
	}
	return p.parseBaseType()
}

func (p *Parser) parseNew() ast.Expr {
	start := p.cur().Span
	p.expect(token.NEW)
	ty := p.parseType()
	var args []ast.Expr
	if p.at(token.LPAREN) {
		args = p.parseCallArgs()
	}
	return &ast.NewExpr{Sp: p.span(start), Ty: ty, Args: args}
}

func (p *Parser) parseParenOrTuple() ast.Expr {
	start := p.cur().Span
	p.expect(token.LPAREN)
	var elems []ast.Expr
	isTuple := false
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		if p.at(token.COMMA) {
			elems = append(elems, nil)
			isTuple = true
			p.advance()
			continue
		}
		elems = append(elems, p.parseExpr())
		if _, ok := p.accept(token.COMMA); ok {
			isTuple = true
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	if !isTuple && len(elems) == 1 {
		return elems[0]
	}
	return &ast.TupleExpr{Sp: p.span(start), Elements: elems}
}

func (p *Parser) parseArrayLit() ast.Expr {
	start := p.cur().Span
	p.expect(token.LBRACK)
	var elems []ast.Expr
	for !p.at(token.RBRACK) && !p.at(token.EOF) {
		elems = append(elems, p.parseExpr())
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	p.expect(token.RBRACK)
	return &ast.ArrayLit{Sp: p.span(start), Elements: elems}
}
