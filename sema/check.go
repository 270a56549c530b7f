package sema

import (
	"github.com/solang-go/solang/ast"
	"github.com/solang-go/solang/diag"
)

// scope is a lexical chain of name->VarNo bindings for one function
// body, rooted at the function's parameters and returns; blocks push
// a child scope and pop it on exit, exactly like the teacher's own
// frame/scope nesting for a Go-like lexical block.
type scope struct {
	parent *scope
	vars   map[string]VarNo
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: map[string]VarNo{}}
}

func (s *scope) define(name string, vn VarNo) {
	if name == "" {
		return
	}
	s.vars[name] = vn
}

func (s *scope) lookup(name string) (VarNo, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if vn, ok := cur.vars[name]; ok {
			return vn, true
		}
	}
	return NoVar, false
}

// checker holds the state threaded through one function body's
// resolution pass.
type checker struct {
	ns       *Namespace
	bag      *diag.Bag
	contract ContractNo
	fn       *FunctionInfo
	scope    *scope
	unchecked int // >0 inside an `unchecked { ... }` block
}

// checkAllBodies is sema's second pass: once every signature is
// resolved and storage is laid out, each function/modifier body is
// checked in its own fresh scope (spec.md §4.3 "two-phase... function
// bodies are only checked once every contract's full member set is
// known", needed for forward references between sibling functions).
func checkAllBodies(ns *Namespace, bag *diag.Bag) {
	for i := range ns.Functions {
		fi := &ns.Functions[i]
		if fi.Decl == nil || fi.Decl.Body == nil {
			continue
		}
		c := &checker{ns: ns, bag: bag, contract: fi.Contract, fn: fi, scope: newScope(nil)}
		for _, pn := range fi.Params {
			c.scope.define(ns.Var(pn).Name, pn)
		}
		for _, rn := range fi.Returns {
			c.scope.define(ns.Var(rn).Name, rn)
		}
		fi.Body = c.checkBlock(fi.Decl.Body)
	}
}

// lookupVar resolves a bare identifier: local scope first, then the
// current contract's own-and-inherited state variables, then
// file-level constants.
func (c *checker) lookupVar(name string) (VarNo, bool) {
	if vn, ok := c.scope.lookup(name); ok {
		return vn, true
	}
	if c.contract != NoContract {
		if vn, ok := c.ns.Contract(c.contract).VarsByName[name]; ok {
			return vn, true
		}
	}
	vn, ok := c.ns.FreeConstants[name]
	return vn, ok
}

func (c *checker) lookupFunctions(name string) []FunctionNo {
	if c.contract != NoContract {
		if fns, ok := c.ns.Contract(c.contract).FunctionsByName[name]; ok {
			return fns
		}
	}
	return c.ns.FreeFunctionsByName[name]
}

// ---- statements ----------------------------------------------------

func (c *checker) checkBlock(b *ast.Block) *CheckedBlock {
	outer := c.scope
	c.scope = newScope(outer)
	defer func() { c.scope = outer }()

	cb := &CheckedBlock{}
	for _, s := range b.Body {
		cb.Stmts = append(cb.Stmts, c.checkStmt(s))
	}
	return cb
}

func (c *checker) checkStmt(s ast.Stmt) CheckedStmt {
	switch x := s.(type) {
	case *ast.Block:
		return c.checkBlock(x)
	case *ast.Unchecked:
		c.unchecked++
		body := c.checkBlock(x.Body)
		c.unchecked--
		return &CheckedUnchecked{Body: body}
	case *ast.ExprStmt:
		return &CheckedExprStmt{X: c.checkExpr(x.X)}
	case *ast.VarDeclStmt:
		return c.checkVarDecl(x)
	case *ast.IfStmt:
		var els CheckedStmt
		if x.Else != nil {
			els = c.checkStmt(x.Else)
		}
		return &CheckedIf{Cond: c.checkExpr(x.Cond), Then: c.checkStmt(x.Then), Else: els}
	case *ast.ForStmt:
		outer := c.scope
		c.scope = newScope(outer)
		defer func() { c.scope = outer }()
		var init CheckedStmt
		if x.Init != nil {
			init = c.checkStmt(x.Init)
		}
		var cond CheckedExpr
		if x.Cond != nil {
			cond = c.checkExpr(x.Cond)
		}
		var post CheckedExpr
		if x.Post != nil {
			post = c.checkExpr(x.Post)
		}
		return &CheckedFor{Init: init, Cond: cond, Post: post, Body: c.checkStmt(x.Body)}
	case *ast.WhileStmt:
		return &CheckedWhile{Cond: c.checkExpr(x.Cond), Body: c.checkStmt(x.Body)}
	case *ast.DoWhileStmt:
		return &CheckedDoWhile{Body: c.checkStmt(x.Body), Cond: c.checkExpr(x.Cond)}
	case *ast.ReturnStmt:
		var vals []CheckedExpr
		for _, v := range x.Values {
			vals = append(vals, c.checkExpr(v))
		}
		return &CheckedReturn{Values: vals}
	case *ast.BreakStmt:
		return &CheckedBreak{}
	case *ast.ContinueStmt:
		return &CheckedContinue{}
	case *ast.EmitStmt:
		return c.checkEmit(x)
	case *ast.RevertStmt:
		return c.checkRevert(x)
	case *ast.TryStmt:
		return c.checkTry(x)
	case *ast.AssemblyStmt:
		return &CheckedAssembly{Sp: x.Sp}
	default:
		c.bag.Internal(s.Span(), "unhandled statement %T", s)
		return &CheckedBlock{}
	}
}

func (c *checker) checkVarDecl(x *ast.VarDeclStmt) CheckedStmt {
	vd := &CheckedVarDecl{}
	for _, v := range x.Vars {
		if v == nil {
			vd.Vars = append(vd.Vars, NoVar)
			vd.Types = append(vd.Types, nil)
			continue
		}
		ty := c.ns.resolveType(c.contract, v.Type, c.bag)
		vn := c.ns.addVar(VarInfo{Name: v.Name, Type: ty, Kind: VarLocal, Storage: v.Storage, Span: v.Sp, Contract: c.contract})
		c.scope.define(v.Name, vn)
		vd.Vars = append(vd.Vars, vn)
		vd.Types = append(vd.Types, ty)
	}
	if x.Value != nil {
		vd.Value = c.checkExpr(x.Value)
	}
	return vd
}

func (c *checker) checkEmit(x *ast.EmitStmt) CheckedStmt {
	name, ok := emitEventName(x.Event)
	if !ok {
		c.bag.Errorf(diag.KindNameResolution, x.Sp, "emit target must be an event name")
		return &CheckedEmit{Event: -1}
	}
	en, ok := c.lookupEvent(name)
	if !ok {
		c.bag.Errorf(diag.KindNameResolution, x.Sp, "undeclared event %q", name)
		return &CheckedEmit{Event: -1}
	}
	var args []CheckedExpr
	for _, a := range x.Args {
		args = append(args, c.checkExpr(a))
	}
	return &CheckedEmit{Event: en, Args: args}
}

func emitEventName(e ast.Expr) (string, bool) {
	switch x := e.(type) {
	case *ast.Ident:
		return x.Name, true
	case *ast.MemberExpr:
		return x.Name, true
	}
	return "", false
}

func (c *checker) lookupEvent(name string) (EventNo, bool) {
	if c.contract != NoContract {
		if no, ok := c.ns.Contract(c.contract).EventsByName[name]; ok {
			return no, true
		}
	}
	return -1, false
}

func (c *checker) lookupError(name string) (ErrorNo, bool) {
	if c.contract != NoContract {
		if no, ok := c.ns.Contract(c.contract).ErrorsByName[name]; ok {
			return no, true
		}
	}
	no, ok := c.ns.FreeErrors[name]
	return no, ok
}

func (c *checker) checkRevert(x *ast.RevertStmt) CheckedStmt {
	if x.Error == nil {
		// bare `revert()` or `revert("message")`.
		var msg CheckedExpr
		if len(x.Args) > 0 {
			msg = c.checkExpr(x.Args[0])
		}
		return &CheckedRevert{Error: NoError, Msg: msg}
	}
	name, ok := emitEventName(x.Error)
	if !ok {
		c.bag.Errorf(diag.KindNameResolution, x.Sp, "revert target must be a custom error name")
		return &CheckedRevert{Error: NoError}
	}
	en, ok := c.lookupError(name)
	if !ok {
		c.bag.Errorf(diag.KindNameResolution, x.Sp, "undeclared error %q", name)
		return &CheckedRevert{Error: NoError}
	}
	var args []CheckedExpr
	for _, a := range x.Args {
		args = append(args, c.checkExpr(a))
	}
	return &CheckedRevert{Error: en, Args: args}
}

func (c *checker) checkTry(x *ast.TryStmt) CheckedStmt {
	expr := c.checkExpr(x.Expr)
	outer := c.scope
	c.scope = newScope(outer)
	var rets []VarNo
	for _, r := range x.Returns {
		ty := c.ns.resolveType(c.contract, r.Type, c.bag)
		vn := c.ns.addVar(VarInfo{Name: r.Name, Type: ty, Kind: VarLocal, Span: r.Sp, Contract: c.contract})
		c.scope.define(r.Name, vn)
		rets = append(rets, vn)
	}
	body := c.checkBlock(x.Body)
	c.scope = outer

	var catches []CheckedCatch
	for _, cc := range x.CatchClauses {
		outer := c.scope
		c.scope = newScope(outer)
		kind := CatchLowLevel
		switch cc.Name {
		case "Error":
			kind = CatchError
		case "Panic":
			kind = CatchPanic
		}
		var params []VarNo
		for _, p := range cc.Params {
			ty := c.ns.resolveType(c.contract, p.Type, c.bag)
			vn := c.ns.addVar(VarInfo{Name: p.Name, Type: ty, Kind: VarLocal, Span: p.Sp, Contract: c.contract})
			c.scope.define(p.Name, vn)
			params = append(params, vn)
		}
		cbody := c.checkBlock(cc.Body)
		c.scope = outer
		catches = append(catches, CheckedCatch{Kind: kind, Params: params, Body: cbody})
	}
	return &CheckedTry{Expr: expr, Returns: rets, Body: body, Catches: catches}
}
