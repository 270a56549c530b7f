package sema

import (
	"github.com/solang-go/solang/ast"
	"github.com/solang-go/solang/diag"
)

// builtinFunctions names the free-standing builtins spec.md §4.3 lists
// as always in scope, independent of any `using for`/library import:
// the require/assert/revert family, hashing and ecrecover,
// addmod/mulmod, selfdestruct, blockhash and gasleft. The `abi.*`
// helpers and the low-level send/call/delegatecall members are
// handled by checkMemberCall instead.
var builtinFunctions = map[string]bool{
	"require": true, "assert": true, "revert": true,
	"keccak256": true, "sha256": true, "ripemd160": true, "ecrecover": true,
	"addmod": true, "mulmod": true, "selfdestruct": true,
	"blockhash": true, "gasleft": true,
}

func (c *checker) checkCall(x *ast.CallExpr) CheckedExpr {
	// Explicit type conversion: `uint8(x)`, `SomeContract(addr)`,
	// `bytes4(x)`.
	if te, ok := x.Callee.(*ast.TypeExpr); ok {
		ty := c.ns.resolveType(c.contract, te.Ty, c.bag)
		var args []CheckedExpr
		for _, a := range x.Args {
			args = append(args, c.checkExpr(a))
		}
		return &CheckedCall{typed: typed{ty}, Kind: CallTypeConversion, Func: NoFunction, Args: args}
	}
	if id, ok := x.Callee.(*ast.Ident); ok {
		if builtinFunctions[id.Name] {
			return c.checkBuiltinCall(id.Name, x)
		}
		// A bare identifier naming a contract/struct is a type
		// conversion or struct literal, not a function call.
		if cn, ok := c.ns.ContractByName(id.Name); ok {
			if _, isVar := c.lookupVar(id.Name); !isVar {
				ci := c.ns.Contract(cn)
				var args []CheckedExpr
				for _, a := range x.Args {
					args = append(args, c.checkExpr(a))
				}
				return &CheckedCall{typed: typed{&Contract{No: cn, Name: ci.Name}}, Kind: CallTypeConversion, Func: NoFunction, Args: args}
			}
		}
		if fns := c.lookupFunctions(id.Name); len(fns) > 0 {
			return c.resolveOverload(x, fns, CallInternal)
		}
		// type(uint256).max / abi.encode fall through to a generic
		// builtin-member call.
	}
	if me, ok := x.Callee.(*ast.MemberExpr); ok {
		return c.checkMemberCall(me, x)
	}
	callee := c.checkExpr(x.Callee)
	var args []CheckedExpr
	for _, a := range x.Args {
		args = append(args, c.checkExpr(a))
	}
	retTy := Type(&Void{})
	if fn, ok := callee.Type().(*Function); ok && len(fn.Returns) > 0 {
		if len(fn.Returns) == 1 {
			retTy = fn.Returns[0]
		} else {
			retTy = &Tuple{Elems: fn.Returns}
		}
	}
	return &CheckedCall{typed: typed{retTy}, Kind: CallInternal, Callee: callee, Func: NoFunction, Args: args, ArgNames: x.ArgNames}
}

// checkMemberCall handles `x.f(...)` forms: library calls bound via
// `using for`, external calls on a contract-typed value, low-level
// `addr.call{...}(...)`, and the handful of namespaced builtins like
// `abi.encode(...)`/`type(T).max`.
func (c *checker) checkMemberCall(me *ast.MemberExpr, x *ast.CallExpr) CheckedExpr {
	if id, ok := me.X.(*ast.Ident); ok {
		if id.Name == "abi" || id.Name == "type" {
			return c.checkBuiltinNamespacedCall(id.Name, me.Name, x)
		}
		if _, isVar := c.lookupVar(id.Name); !isVar {
			if cn, ok := c.ns.ContractByName(id.Name); ok {
				ci := c.ns.Contract(cn)
				if fns, ok := ci.FunctionsByName[me.Name]; ok {
					kind := CallExternal
					if ci.Kind == ast.KindLibrary {
						kind = CallLibrary
					}
					return c.resolveOverloadFrom(x, fns, kind)
				}
			}
		}
	}
	recv := c.checkExpr(me.X)
	if _, fn, ok := c.resolveUsingFor(recv.Type(), me.Name); ok {
		args := []CheckedExpr{recv}
		for _, a := range x.Args {
			args = append(args, c.checkExpr(a))
		}
		retTy := Type(&Void{})
		if fi := c.ns.Function(fn); len(fi.Type.Returns) > 0 {
			retTy = fi.Type.Returns[0]
		}
		return &CheckedCall{typed: typed{retTy}, Kind: CallLibrary, Func: fn, Args: args}
	}
	if cn, ok := Underlying(recv.Type()).(*Contract); ok {
		ci := c.ns.Contract(cn.No)
		if fns, ok := ci.FunctionsByName[me.Name]; ok {
			return c.resolveExternalOverload(x, recv, fns)
		}
	}
	// low-level call/delegatecall/staticcall/transfer/send or unknown
	// member: typed generically so cfgir can still lower the raw
	// bytes-returning call.
	var args []CheckedExpr
	for _, a := range x.Args {
		args = append(args, c.checkExpr(a))
	}
	var value, gas CheckedExpr
	if x.ValueArg != nil {
		value = c.checkExpr(x.ValueArg)
	}
	if x.GasArg != nil {
		gas = c.checkExpr(x.GasArg)
	}
	retTy := Type(BytesTy)
	switch me.Name {
	case "send":
		retTy = Bool
	case "transfer":
		retTy = &Void{}
	}
	return &CheckedCall{typed: typed{retTy}, Kind: CallExternal, Callee: recv, Func: NoFunction, Builtin: me.Name, Args: args, Value: value, Gas: gas}
}

// resolveUsingFor looks for a `using Lib for T` binding applicable to
// recvTy that names a function called name, searching the current
// contract's linearized UsingFor list.
func (c *checker) resolveUsingFor(recvTy Type, name string) (ContractNo, FunctionNo, bool) {
	if c.contract == NoContract {
		return NoContract, NoFunction, false
	}
	for _, ub := range c.ns.Contract(c.contract).UsingFor {
		if !ub.Global && ub.Target != nil && !Equal(ub.Target, recvTy) {
			continue
		}
		lib := c.ns.Contract(ub.Library)
		if fns, ok := lib.FunctionsByName[name]; ok && len(fns) > 0 {
			return ub.Library, fns[0], true
		}
	}
	return NoContract, NoFunction, false
}

func (c *checker) checkBuiltinCall(name string, x *ast.CallExpr) CheckedExpr {
	var args []CheckedExpr
	for _, a := range x.Args {
		args = append(args, c.checkExpr(a))
	}
	ty := Type(&Void{})
	switch name {
	case "keccak256", "sha256", "ripemd160":
		ty = &Elementary{Kind: ast.ElemBytesN, Width: 32}
	case "ecrecover":
		ty = Address
	case "addmod", "mulmod":
		ty = Uint256
	case "gasleft", "blockhash":
		ty = Uint256
	case "require", "assert", "revert":
		ty = &Void{}
	}
	return &CheckedCall{typed: typed{ty}, Kind: CallBuiltin, Func: NoFunction, Builtin: name, Args: args}
}

func (c *checker) checkBuiltinNamespacedCall(ns, member string, x *ast.CallExpr) CheckedExpr {
	var args []CheckedExpr
	for _, a := range x.Args {
		args = append(args, c.checkExpr(a))
	}
	ty := Type(BytesTy)
	switch {
	case ns == "abi" && member == "decode":
		ty = &Tuple{}
	case ns == "type":
		ty = Uint256
	}
	return &CheckedCall{typed: typed{ty}, Kind: CallBuiltin, Func: NoFunction, Builtin: ns + "." + member, Args: args}
}

// resolveOverload picks, among candidates with the same name visible
// in scope, the single function whose parameter arity matches the
// call's argument count, preferring an exact type match over an
// implicit-conversion match (spec.md §4.3 "Overload Resolution").
func (c *checker) resolveOverload(x *ast.CallExpr, candidates []FunctionNo, kind CallKind) CheckedExpr {
	var args []CheckedExpr
	for _, a := range x.Args {
		args = append(args, c.checkExpr(a))
	}
	fn := c.pickOverloadByArity(candidates, args)
	return c.buildCall(x, fn, args, nil, kind)
}

func (c *checker) resolveOverloadFrom(x *ast.CallExpr, candidates []FunctionNo, kind CallKind) CheckedExpr {
	return c.resolveOverload(x, candidates, kind)
}

func (c *checker) resolveExternalOverload(x *ast.CallExpr, recv CheckedExpr, candidates []FunctionNo) CheckedExpr {
	var args []CheckedExpr
	for _, a := range x.Args {
		args = append(args, c.checkExpr(a))
	}
	fn := c.pickOverloadByArity(candidates, args)
	return c.buildCall(x, fn, args, recv, CallExternal)
}

func (c *checker) pickOverloadByArity(candidates []FunctionNo, args []CheckedExpr) FunctionNo {
	var arityMatch FunctionNo = NoFunction
	for _, fn := range candidates {
		fi := c.ns.Function(fn)
		if len(fi.Type.Params) != len(args) {
			continue
		}
		exact := true
		for i, p := range fi.Type.Params {
			if !Equal(p, args[i].Type()) {
				exact = false
				break
			}
		}
		if exact {
			return fn
		}
		if arityMatch == NoFunction {
			arityMatch = fn
		}
	}
	return arityMatch
}

func (c *checker) buildCall(x *ast.CallExpr, fn FunctionNo, args []CheckedExpr, recv CheckedExpr, kind CallKind) CheckedExpr {
	if fn == NoFunction {
		c.bag.Errorf(diag.KindNameResolution, x.Span(), "no matching function for call with %d argument(s)", len(args))
		return &CheckedCall{typed: typed{&Void{}}, Kind: kind, Func: NoFunction, Callee: recv, Args: args}
	}
	fi := c.ns.Function(fn)
	var retTy Type = &Void{}
	if len(fi.Type.Returns) == 1 {
		retTy = fi.Type.Returns[0]
	} else if len(fi.Type.Returns) > 1 {
		retTy = &Tuple{Elems: fi.Type.Returns}
	}
	var value, gas CheckedExpr
	if x.ValueArg != nil {
		value = c.checkExpr(x.ValueArg)
	}
	if x.GasArg != nil {
		gas = c.checkExpr(x.GasArg)
	}
	return &CheckedCall{typed: typed{retTy}, Kind: kind, Callee: recv, Func: fn, Args: args, ArgNames: x.ArgNames, Value: value, Gas: gas}
}
