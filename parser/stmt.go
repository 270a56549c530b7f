package parser

import (
	"github.com/solang-go/solang/ast"
	"github.com/solang-go/solang/token"
)

func (p *Parser) parseBlock() *ast.Block {
	start := p.cur().Span
	p.expect(token.LBRACE)
	b := &ast.Block{}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		b.Body = append(b.Body, p.parseStmt())
	}
	p.expect(token.RBRACE)
	b.Sp = p.span(start)
	return b
}

func (p *Parser) parseStmt() ast.Stmt {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.LBRACE:
		return p.parseBlock()
	case token.UNCHECKED:
		p.advance()
		body := p.parseBlock()
		return &ast.Unchecked{Sp: p.span(start), Body: body}
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.WHILE:
		return p.parseWhile()
	case token.DO:
		return p.parseDoWhile()
	case token.RETURN:
		p.advance()
		var vals []ast.Expr
		if !p.at(token.SEMI) {
			vals = p.parseExprListAsReturn()
		}
		p.expect(token.SEMI)
		return &ast.ReturnStmt{Sp: p.span(start), Values: vals}
	case token.BREAK:
		p.advance()
		p.expect(token.SEMI)
		return &ast.BreakStmt{Sp: p.span(start)}
	case token.CONTINUE:
		p.advance()
		p.expect(token.SEMI)
		return &ast.ContinueStmt{Sp: p.span(start)}
	case token.EMIT:
		return p.parseEmit()
	case token.REVERT:
		return p.parseRevert()
	case token.TRY:
		return p.parseTry()
	case token.ASSEMBLY:
		return p.parseAssembly()
	default:
		return p.parseSimpleStmt()
	}
}

// parseExprListAsReturn handles `return (a, b);` and `return a;`
// uniformly by reusing the expression parser; a bare tuple literal's
// elements become the multiple return values.
func (p *Parser) parseExprListAsReturn() []ast.Expr {
	e := p.parseExpr()
	if tup, ok := e.(*ast.TupleExpr); ok {
		return tup.Elements
	}
	return []ast.Expr{e}
}

func (p *Parser) parseIf() ast.Stmt {
	start := p.cur().Span
	p.expect(token.IF)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	then := p.parseStmt()
	var els ast.Stmt
	if _, ok := p.accept(token.ELSE); ok {
		els = p.parseStmt()
	}
	return &ast.IfStmt{Sp: p.span(start), Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseWhile() ast.Stmt {
	start := p.cur().Span
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	body := p.parseStmt()
	return &ast.WhileStmt{Sp: p.span(start), Cond: cond, Body: body}
}

func (p *Parser) parseDoWhile() ast.Stmt {
	start := p.cur().Span
	p.expect(token.DO)
	body := p.parseStmt()
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	p.expect(token.SEMI)
	return &ast.DoWhileStmt{Sp: p.span(start), Body: body, Cond: cond}
}

func (p *Parser) parseFor() ast.Stmt {
	start := p.cur().Span
	p.expect(token.FOR)
	p.expect(token.LPAREN)

	var init ast.Stmt
	if !p.at(token.SEMI) {
		init = p.parseSimpleStmt()
	} else {
		p.advance()
	}

	var cond ast.Expr
	if !p.at(token.SEMI) {
		cond = p.parseExpr()
	}
	p.expect(token.SEMI)

	var post ast.Expr
	if !p.at(token.RPAREN) {
		post = p.parseExpr()
	}
	p.expect(token.RPAREN)
	body := p.parseStmt()
	return &ast.ForStmt{Sp: p.span(start), Init: init, Cond: cond, Post: post, Body: body}
}

func (p *Parser) parseEmit() ast.Stmt {
	start := p.cur().Span
	p.expect(token.EMIT)
	event := p.parsePostfixNoCall()
	args := p.parseCallArgs()
	p.expect(token.SEMI)
	return &ast.EmitStmt{Sp: p.span(start), Event: event, Args: args}
}

func (p *Parser) parseRevert() ast.Stmt {
	start := p.cur().Span
	p.expect(token.REVERT)
	if p.at(token.LPAREN) {
		// bare `revert("message")` or `revert()`; desugars the same
		// as `revert Error(string)` at lowering time, with Error left
		// nil here to mark the builtin form.
		args := p.parseCallArgs()
		p.expect(token.SEMI)
		return &ast.RevertStmt{Sp: p.span(start), Args: args}
	}
	errExpr := p.parsePostfixNoCall()
	var args []ast.Expr
	if p.at(token.LPAREN) {
		args = p.parseCallArgs()
	}
	p.expect(token.SEMI)
	return &ast.RevertStmt{Sp: p.span(start), Error: errExpr, Args: args}
}

// parsePostfixNoCall parses a member-access chain (e.g. `Lib.E`)
// without consuming a trailing call, so the caller can parse the call
// arguments itself for `emit`/`revert` statements.
func (p *Parser) parsePostfixNoCall() ast.Expr {
	x := p.parsePrimary()
	for p.at(token.DOT) {
		p.advance()
		name := p.expect(token.IDENT).Lit
		x = &ast.MemberExpr{Sp: p.span(x.Span()), X: x, Name: name}
	}
	return x
}

func (p *Parser) parseTry() ast.Stmt {
	start := p.cur().Span
	p.expect(token.TRY)
	expr := p.parseExpr()
	var returns []ast.Param
	if _, ok := p.accept(token.RETURNS); ok {
		returns = p.parseParamList(true)
	}
	body := p.parseBlock()
	t := &ast.TryStmt{Expr: expr, Returns: returns, Body: body}
	for p.at(token.CATCH) {
		p.advance()
		var cc ast.CatchClause
		if p.at(token.IDENT) {
			cc.Name = p.advance().Lit
			cc.Params = p.parseParamList(true)
		} else if p.at(token.LPAREN) {
			cc.Params = p.parseParamList(true)
		}
		cc.Body = p.parseBlock()
		t.CatchClauses = append(t.CatchClauses, cc)
	}
	t.Sp = p.span(start)
	return t
}

// parseAssembly parses `assembly { ... }` as an opaque span (spec.md
// §4.2): its body is skipped token-by-token, tracking brace depth, and
// never interpreted. Callers that need the raw text can recover it
// from the returned Span via token.FileSet.Text, since inline-assembly
// semantics are a Non-goal.
func (p *Parser) parseAssembly() ast.Stmt {
	start := p.cur().Span
	p.expect(token.ASSEMBLY)
	if p.at(token.STRING) {
		p.advance() // optional dialect string, e.g. `assembly "evmasm"`
	}
	p.expect(token.LBRACE)
	depth := 1
	for depth > 0 && !p.at(token.EOF) {
		switch p.cur().Kind {
		case token.LBRACE:
			depth++
		case token.RBRACE:
			depth--
			if depth == 0 {
				goto closed
			}
		}
		p.advance()
	}
closed:
	p.expect(token.RBRACE)
	return &ast.AssemblyStmt{Sp: p.span(start)}
}

// parseSimpleStmt disambiguates a variable declaration from an
// expression statement: Solidity state/local variable declarations
// begin with a type, which looks identical to the start of many
// expressions (a bare identifier), so it decides by token lookahead
// (looksLikeVarDecl, tupleDeclAhead) before parsing either form; there
// is no backtracking.
func (p *Parser) parseSimpleStmt() ast.Stmt {
	start := p.cur().Span
	if p.looksLikeVarDecl() {
		return p.parseVarDeclStmt(start)
	}
	if p.at(token.LPAREN) && p.tupleDeclAhead() {
		return p.parseVarDeclStmt(start)
	}
	e := p.parseExpr()
	p.expect(token.SEMI)
	return &ast.ExprStmt{Sp: p.span(start), X: e}
}

// looksLikeVarDecl reports whether the upcoming tokens form a type
// followed by an identifier (a declaration) rather than a bare
// expression. Elementary types and `mapping` are unambiguous; a
// leading IDENT is ambiguous with a call/member/index expression, so
// it additionally requires a second IDENT (the variable name) or a
// storage-class keyword directly after. A user-defined array or
// qualified type (`S[] memory x`, `L.S x`) is therefore not recognized
// as a declaration here.
func (p *Parser) looksLikeVarDecl() bool {
	switch p.cur().Kind {
	case token.BOOL, token.ADDRESS, token.STRING_TY, token.BYTES_TY,
		token.UINT, token.INT, token.BYTES_N, token.MAPPING:
		return true
	case token.IDENT:
		nxt := p.peek().Kind
		return nxt == token.IDENT ||
			nxt == token.MEMORY || nxt == token.STORAGE || nxt == token.CALLDATA
	}
	return false
}

// tupleDeclAhead is the lookahead hook for `(uint a, , bytes b) = ...`
// style declarations. It always returns false, so parseSimpleStmt
// hands every statement starting with `(` to the expression parser,
// which accepts a parenthesized expression/tuple; tuple declaration
// statements are not recognized.
func (p *Parser) tupleDeclAhead() bool {
	return false
}

func (p *Parser) parseVarDeclStmt(start token.Span) ast.Stmt {
	ty := p.parseType()
	storage := ast.StorageDefault
	switch p.cur().Kind {
	case token.MEMORY:
		p.advance()
		storage = ast.StorageMemory
	case token.STORAGE:
		p.advance()
		storage = ast.StorageStorage
	case token.CALLDATA:
		p.advance()
		storage = ast.StorageCalldata
	}
	name := p.expect(token.IDENT).Lit
	decl := &ast.VariableDeclaration{Sp: p.span(start), Type: ty, Storage: storage, Name: name}
	var value ast.Expr
	if _, ok := p.accept(token.ASSIGN); ok {
		value = p.parseExpr()
	}
	p.expect(token.SEMI)
	return &ast.VarDeclStmt{Sp: p.span(start), Vars: []*ast.VariableDeclaration{decl}, Value: value}
}
