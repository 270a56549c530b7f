package parser

import (
	"strings"

	"github.com/solang-go/solang/ast"
	"github.com/solang-go/solang/diag"
	"github.com/solang-go/solang/token"
)

func (p *Parser) parseSourceUnit() *ast.SourceUnit {
	su := &ast.SourceUnit{File: p.file}
	for !p.at(token.EOF) {
		part := p.parseSourceUnitPart()
		if part != nil {
			su.Parts = append(su.Parts, part)
		}
	}
	return su
}

func (p *Parser) parseSourceUnitPart() ast.SourceUnitPart {
	doc := p.lex.TakeDoc()
	switch p.cur().Kind {
	case token.PRAGMA:
		return p.parsePragma()
	case token.IMPORT:
		return p.parseImport()
	case token.USING:
		return p.parseUsing()
	case token.CONTRACT, token.INTERFACE, token.LIBRARY, token.ABSTRACT:
		return p.parseContract(doc)
	case token.STRUCT:
		return p.parseStruct()
	case token.ENUM:
		return p.parseEnum()
	case token.EVENT:
		return p.parseEvent()
	case token.ERROR:
		return p.parseError()
	case token.TYPE_KW:
		return p.parseUDVT()
	case token.FUNCTION:
		fn := p.parseFunction(doc)
		fn.Kind = ast.FuncFree
		return fn
	case token.SEMI:
		p.advance()
		return nil
	default:
		start := p.cur().Span
		p.bag.Errorf(diag.KindParse, start, "unexpected token %q at top level", tokenText(p.cur()))
		p.recover()
		return nil
	}
}

func (p *Parser) parsePragma() *ast.PragmaDirective {
	start := p.cur().Span
	p.expect(token.PRAGMA)
	var sb strings.Builder
	for !p.at(token.SEMI) && !p.at(token.EOF) {
		t := p.advance()
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(tokenText(t))
	}
	p.expect(token.SEMI)
	return &ast.PragmaDirective{Sp: p.span(start), Raw: sb.String()}
}

func (p *Parser) parseImport() *ast.ImportDirective {
	start := p.cur().Span
	p.expect(token.IMPORT)
	d := &ast.ImportDirective{}

	switch {
	case p.at(token.MUL): // import * as Alias from "path";
		p.advance()
		p.expectIdentLit("as")
		d.Alias = p.expect(token.IDENT).Lit
		p.expectIdentLit("from")
	case p.at(token.LBRACE):
		p.advance()
		for !p.at(token.RBRACE) && !p.at(token.EOF) {
			name := p.expect(token.IDENT).Lit
			alias := ""
			if p.acceptIdentLit("as") {
				alias = p.expect(token.IDENT).Lit
			}
			d.Symbols = append(d.Symbols, name)
			d.Aliases = append(d.Aliases, alias)
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
		p.expect(token.RBRACE)
		p.expectIdentLit("from")
	}
	if p.at(token.STRING) {
		d.Path = p.advance().Lit
	}
	if p.acceptIdentLit("as") {
		d.Alias = p.expect(token.IDENT).Lit
	}
	p.expect(token.SEMI)
	d.Sp = p.span(start)
	return d
}

// expectIdentLit consumes an identifier-shaped contextual keyword
// (e.g. `from`, `as`) that the lexer tokenizes as a plain IDENT.
func (p *Parser) expectIdentLit(lit string) {
	if p.acceptIdentLit(lit) {
		return
	}
	p.bag.Errorf(diag.KindParse, p.cur().Span, "expected %q", lit)
}

// acceptIdentLit consumes an identifier-shaped contextual keyword if
// present, reporting whether it matched.
func (p *Parser) acceptIdentLit(lit string) bool {
	if p.at(token.IDENT) && p.cur().Lit == lit {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) parseUsing() *ast.UsingDirective {
	start := p.cur().Span
	p.expect(token.USING)
	lib := p.expect(token.IDENT).Lit
	p.expect(token.FOR)
	var target ast.Type
	if _, ok := p.accept(token.MUL); !ok {
		target = p.parseType()
	}
	global := false
	if p.at(token.IDENT) && p.cur().Lit == "global" {
		p.advance()
		global = true
	}
	p.expect(token.SEMI)
	return &ast.UsingDirective{Sp: p.span(start), Library: lib, Target: target, Global: global}
}

func (p *Parser) parseContract(doc string) *ast.ContractDefinition {
	start := p.cur().Span
	abstract := false
	if _, ok := p.accept(token.ABSTRACT); ok {
		abstract = true
	}
	kind := ast.KindContract
	switch p.cur().Kind {
	case token.CONTRACT:
		p.advance()
	case token.INTERFACE:
		p.advance()
		kind = ast.KindInterface
	case token.LIBRARY:
		p.advance()
		kind = ast.KindLibrary
	default:
		p.bag.Errorf(diag.KindParse, p.cur().Span, "expected contract, interface or library")
	}
	name := p.expect(token.IDENT).Lit

	c := &ast.ContractDefinition{Kind: kind, Abstract: abstract, Name: name, DocComment: doc}
	if _, ok := p.accept(token.IS); ok {
		for {
			bstart := p.cur().Span
			bname := p.expect(token.IDENT).Lit
			var args []ast.Expr
			if p.at(token.LPAREN) {
				args = p.parseCallArgs()
			}
			c.Bases = append(c.Bases, ast.InheritanceSpecifier{Sp: p.span(bstart), Name: bname, Args: args})
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
	}
	p.expect(token.LBRACE)
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		part := p.parseContractPart()
		if part != nil {
			c.Parts = append(c.Parts, part)
		}
	}
	p.expect(token.RBRACE)
	c.Sp = p.span(start)
	return c
}

func (p *Parser) parseContractPart() ast.ContractPart {
	doc := p.lex.TakeDoc()
	switch p.cur().Kind {
	case token.STRUCT:
		return p.parseStruct()
	case token.ENUM:
		return p.parseEnum()
	case token.EVENT:
		return p.parseEvent()
	case token.ERROR:
		return p.parseError()
	case token.TYPE_KW:
		return p.parseUDVT()
	case token.USING:
		p.parseUsing() // `using` inside a contract body is parsed and discarded; no part is kept for it
		return nil
	case token.FUNCTION, token.CONSTRUCTOR, token.FALLBACK, token.RECEIVE, token.MODIFIER:
		return p.parseFunction(doc)
	case token.SEMI:
		p.advance()
		return nil
	default:
		return p.parseStateVariable(doc)
	}
}

func (p *Parser) parseStruct() *ast.StructDefinition {
	start := p.cur().Span
	p.expect(token.STRUCT)
	name := p.expect(token.IDENT).Lit
	p.expect(token.LBRACE)
	var fields []*ast.VariableDeclaration
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		fstart := p.cur().Span
		ty := p.parseType()
		fname := p.expect(token.IDENT).Lit
		p.expect(token.SEMI)
		fields = append(fields, &ast.VariableDeclaration{Sp: p.span(fstart), Type: ty, Name: fname})
	}
	p.expect(token.RBRACE)
	return &ast.StructDefinition{Sp: p.span(start), Name: name, Fields: fields}
}

func (p *Parser) parseEnum() *ast.EnumDefinition {
	start := p.cur().Span
	p.expect(token.ENUM)
	name := p.expect(token.IDENT).Lit
	p.expect(token.LBRACE)
	var members []string
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		members = append(members, p.expect(token.IDENT).Lit)
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	p.expect(token.RBRACE)
	return &ast.EnumDefinition{Sp: p.span(start), Name: name, Members: members}
}

func (p *Parser) parseUDVT() *ast.UserDefinedValueType {
	start := p.cur().Span
	p.expect(token.TYPE_KW)
	name := p.expect(token.IDENT).Lit
	p.expect(token.IS)
	ty := p.parseType()
	p.expect(token.SEMI)
	return &ast.UserDefinedValueType{Sp: p.span(start), Name: name, Underlying: ty}
}

func (p *Parser) parseEvent() *ast.EventDefinition {
	start := p.cur().Span
	p.expect(token.EVENT)
	name := p.expect(token.IDENT).Lit
	p.expect(token.LPAREN)
	var params []ast.EventParameter
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		pstart := p.cur().Span
		ty := p.parseType()
		indexed := false
		if _, ok := p.accept(token.INDEXED); ok {
			indexed = true
		}
		pname := ""
		if p.at(token.IDENT) {
			pname = p.advance().Lit
		}
		params = append(params, ast.EventParameter{Sp: p.span(pstart), Type: ty, Indexed: indexed, Name: pname})
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	p.expect(token.RPAREN)
	anon := false
	if p.at(token.IDENT) && p.cur().Lit == "anonymous" {
		p.advance()
		anon = true
	}
	p.expect(token.SEMI)
	return &ast.EventDefinition{Sp: p.span(start), Name: name, Params: params, Anonymous: anon}
}

func (p *Parser) parseError() *ast.ErrorDefinition {
	start := p.cur().Span
	p.expect(token.ERROR)
	name := p.expect(token.IDENT).Lit
	p.expect(token.LPAREN)
	var params []ast.ErrorParameter
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		pstart := p.cur().Span
		ty := p.parseType()
		pname := ""
		if p.at(token.IDENT) {
			pname = p.advance().Lit
		}
		params = append(params, ast.ErrorParameter{Sp: p.span(pstart), Type: ty, Name: pname})
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	p.expect(token.RPAREN)
	p.expect(token.SEMI)
	return &ast.ErrorDefinition{Sp: p.span(start), Name: name, Params: params}
}

// parseStateVariable also doubles as the fallback production when a
// contract-body token sequence starts with a type: state variables in
// Solidity have no leading keyword distinguishing them from functions
// other than the type expression itself.
func (p *Parser) parseStateVariable(doc string) *ast.VariableDeclaration {
	start := p.cur().Span
	ty := p.parseType()
	v := &ast.VariableDeclaration{Type: ty}
loop:
	for {
		switch p.cur().Kind {
		case token.PUBLIC:
			p.advance()
			v.Visibility = ast.VisPublic
		case token.PRIVATE:
			p.advance()
			v.Visibility = ast.VisPrivate
		case token.INTERNAL:
			p.advance()
			v.Visibility = ast.VisInternal
		case token.CONSTANT:
			p.advance()
			v.Constant = true
		case token.IMMUTABLE:
			p.advance()
			v.Immutable = true
		default:
			break loop
		}
	}
	v.Name = p.expect(token.IDENT).Lit
	if _, ok := p.accept(token.ASSIGN); ok {
		v.Value = p.parseExpr()
	}
	p.expect(token.SEMI)
	v.Sp = p.span(start)
	return v
}

func (p *Parser) parseFunction(doc string) *ast.FunctionDefinition {
	start := p.cur().Span
	f := &ast.FunctionDefinition{Kind: ast.FuncOrdinary, DocComment: doc}

	switch p.cur().Kind {
	case token.CONSTRUCTOR:
		p.advance()
		f.Kind = ast.FuncConstructor
	case token.FALLBACK:
		p.advance()
		f.Kind = ast.FuncFallback
	case token.RECEIVE:
		p.advance()
		f.Kind = ast.FuncReceive
	case token.MODIFIER:
		p.advance()
		f.Kind = ast.FuncModifierDecl
		f.Name = p.expect(token.IDENT).Lit
	default:
		p.expect(token.FUNCTION)
		if p.at(token.IDENT) {
			f.Name = p.advance().Lit
		}
	}

	f.Params = p.parseParamList(true)

loop:
	for {
		switch p.cur().Kind {
		case token.PUBLIC:
			p.advance()
			f.Visibility = ast.VisPublic
		case token.PRIVATE:
			p.advance()
			f.Visibility = ast.VisPrivate
		case token.INTERNAL:
			p.advance()
			f.Visibility = ast.VisInternal
		case token.EXTERNAL:
			p.advance()
			f.Visibility = ast.VisExternal
		case token.VIEW:
			p.advance()
			f.Mutability = ast.MutView
		case token.PURE:
			p.advance()
			f.Mutability = ast.MutPure
		case token.PAYABLE:
			p.advance()
			f.Mutability = ast.MutPayable
		case token.VIRTUAL:
			p.advance()
			f.Virtual = true
		case token.OVERRIDE:
			p.advance()
			f.HasOverride = true
			if _, ok := p.accept(token.LPAREN); ok {
				for !p.at(token.RPAREN) && !p.at(token.EOF) {
					f.Override = append(f.Override, p.expect(token.IDENT).Lit)
					if _, ok := p.accept(token.COMMA); !ok {
						break
					}
				}
				p.expect(token.RPAREN)
			}
		case token.IDENT:
			mstart := p.cur().Span
			mname := p.advance().Lit
			var args []ast.Expr
			if p.at(token.LPAREN) {
				args = p.parseCallArgs()
			}
			f.Modifiers = append(f.Modifiers, ast.ModifierInvocation{Sp: p.span(mstart), Name: mname, Args: args})
		case token.RETURNS:
			p.advance()
			f.Returns = p.parseParamList(true)
		default:
			break loop
		}
	}

	if p.at(token.LBRACE) {
		f.Body = p.parseBlock()
	} else {
		p.expect(token.SEMI)
	}
	f.Sp = p.span(start)
	return f
}

// parseParamList parses `(T1 loc1 name1, T2 loc2 name2, ...)`. Names
// are optional in declarations (interface members, function types).
func (p *Parser) parseParamList(allowEmptyType bool) []ast.Param {
	p.expect(token.LPAREN)
	var params []ast.Param
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		pstart := p.cur().Span
		ty := p.parseType()
		storage := ast.StorageDefault
		switch p.cur().Kind {
		case token.STORAGE:
			p.advance()
			storage = ast.StorageStorage
		case token.MEMORY:
			p.advance()
			storage = ast.StorageMemory
		case token.CALLDATA:
			p.advance()
			storage = ast.StorageCalldata
		}
		name := ""
		if p.at(token.IDENT) {
			name = p.advance().Lit
		}
		params = append(params, ast.Param{Sp: p.span(pstart), Type: ty, Storage: storage, Name: name})
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	p.expect(token.RPAREN)
	return params
}

func (p *Parser) parseCallArgs() []ast.Expr {
	p.expect(token.LPAREN)
	var args []ast.Expr
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		args = append(args, p.parseExpr())
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	p.expect(token.RPAREN)
	return args
}

