package sema

import (
	"math/big"

	"github.com/solang-go/solang/ast"
	"github.com/solang-go/solang/diag"
)

// checkExpr resolves one expression into its Checked form, annotating
// it with a Type and recording the mapping in ns.ExprTypes so later
// passes (and diagnostics) can recover the type of any PT node without
// re-walking the Checked tree.
func (c *checker) checkExpr(e ast.Expr) CheckedExpr {
	ce := c.checkExprNoRecord(e)
	if ce != nil {
		c.ns.ExprTypes[e] = ce.Type()
	}
	return ce
}

func (c *checker) checkExprNoRecord(e ast.Expr) CheckedExpr {
	switch x := e.(type) {
	case *ast.Ident:
		return c.checkIdent(x)
	case *ast.NumberLit:
		return c.checkLiteralConst(x)
	case *ast.BoolLit:
		return &CheckedConst{typed: typed{Bool}, Value: &ConstValue{Bool: &x.Value}}
	case *ast.StringLit:
		v := x.Value
		return &CheckedConst{typed: typed{StringTy}, Value: &ConstValue{Str: &v}}
	case *ast.HexStringLit:
		return &CheckedConst{typed: typed{BytesTy}}
	case *ast.ThisExpr:
		if c.contract != NoContract {
			return &CheckedBuiltinMember{typed: typed{&Contract{No: c.contract, Name: c.ns.Contract(c.contract).Name}}, Name: "this"}
		}
		return &CheckedBuiltinMember{typed: typed{Address}, Name: "this"}
	case *ast.SuperExpr:
		return &CheckedBuiltinMember{typed: typed{&Void{}}, Name: "super"}
	case *ast.TupleExpr:
		ct := &CheckedTuple{}
		var tys []Type
		for _, el := range x.Elements {
			if el == nil {
				ct.Elems = append(ct.Elems, nil)
				tys = append(tys, &Void{})
				continue
			}
			ce := c.checkExpr(el)
			ct.Elems = append(ct.Elems, ce)
			tys = append(tys, ce.Type())
		}
		ct.Ty = &Tuple{Elems: tys}
		return ct
	case *ast.ArrayLit:
		al := &CheckedArrayLit{}
		var elemTy Type
		for _, el := range x.Elements {
			ce := c.checkExpr(el)
			al.Elems = append(al.Elems, ce)
			if elemTy == nil {
				elemTy = ce.Type()
			}
		}
		if elemTy == nil {
			elemTy = &Void{}
		}
		al.Ty = &Array{Elem: elemTy, Size: len(x.Elements)}
		return al
	case *ast.TypeExpr:
		ty := c.ns.resolveType(c.contract, x.Ty, c.bag)
		return &CheckedBuiltinMember{typed: typed{ty}, Name: "<type>"}
	case *ast.UnaryExpr:
		return c.checkUnary(x)
	case *ast.BinaryExpr:
		return c.checkBinary(x)
	case *ast.AssignExpr:
		return c.checkAssign(x)
	case *ast.TernaryExpr:
		then := c.checkExpr(x.Then)
		els := c.checkExpr(x.Else)
		ty := then.Type()
		if !Equal(then.Type(), els.Type()) {
			ty = commonType(then.Type(), els.Type())
		}
		return &CheckedTernary{typed: typed{ty}, Cond: c.checkExpr(x.Cond), Then: then, Else: els}
	case *ast.MemberExpr:
		return c.checkMember(x)
	case *ast.IndexExpr:
		return c.checkIndex(x)
	case *ast.CallExpr:
		return c.checkCall(x)
	case *ast.NewExpr:
		return c.checkNew(x)
	default:
		c.bag.Internal(e.Span(), "unhandled expression %T", e)
		return &CheckedConst{typed: typed{&Void{}}}
	}
}

func (c *checker) checkIdent(x *ast.Ident) CheckedExpr {
	if vn, ok := c.lookupVar(x.Name); ok {
		return &CheckedVarRef{typed: typed{c.ns.Var(vn).Type}, Var: vn}
	}
	if fns := c.lookupFunctions(x.Name); len(fns) == 1 {
		fi := c.ns.Function(fns[0])
		return &CheckedFuncRef{typed: typed{fi.Type}, Func: fns[0]}
	} else if len(fns) > 1 {
		// overloaded bare reference, e.g. passed as a function-type
		// value; resolved properly once it is called. Report the first
		// candidate's type so downstream code has something to work
		// with.
		fi := c.ns.Function(fns[0])
		return &CheckedFuncRef{typed: typed{fi.Type}, Func: fns[0]}
	}
	switch x.Name {
	case "msg", "block", "tx", "abi":
		return &CheckedBuiltinMember{typed: typed{&Void{}}, Name: x.Name}
	case "now":
		return &CheckedBuiltinMember{typed: typed{Uint256}, Name: "now"}
	}
	if cn, ok := c.ns.ContractByName(x.Name); ok {
		ci := c.ns.Contract(cn)
		return &CheckedBuiltinMember{typed: typed{&Contract{No: cn, Name: ci.Name}}, Name: "<contract>"}
	}
	if en, ok := c.lookupEnum(x.Name); ok {
		ei := c.ns.Enum(en)
		return &CheckedBuiltinMember{typed: typed{&Enum{No: en, Name: ei.Name}}, Name: "<enum>"}
	}
	c.bag.Errorf(diag.KindNameResolution, x.Sp, "undeclared identifier %q", x.Name)
	return &CheckedConst{typed: typed{&Void{}}}
}

// checkLiteralConst types a bare integer literal as Uint256: the
// lexer never produces a negative NumberLit (a leading `-` parses as
// UnaryExpr{UnNeg}), so no literal reaching here needs a signed type.
func (c *checker) checkLiteralConst(x *ast.NumberLit) CheckedExpr {
	v := c.evalNumberLit(x)
	if v == nil {
		return &CheckedConst{typed: typed{Uint256}}
	}
	return &CheckedConst{typed: typed{Uint256}, Value: v}
}

func (c *checker) checkUnary(x *ast.UnaryExpr) CheckedExpr {
	xe := c.checkExpr(x.X)
	switch x.Op {
	case ast.UnNot:
		return &CheckedUnary{typed: typed{Bool}, Op: x.Op, X: xe}
	case ast.UnDelete:
		return &CheckedUnary{typed: typed{&Void{}}, Op: x.Op, X: xe}
	case ast.UnNeg:
		ty := xe.Type()
		if e, ok := Underlying(ty).(*Elementary); ok && e.Kind == ast.ElemUint {
			ty = &Elementary{Kind: ast.ElemInt, Width: e.Width}
		}
		return &CheckedUnary{typed: typed{ty}, Op: x.Op, X: xe}
	default:
		return &CheckedUnary{typed: typed{xe.Type()}, Op: x.Op, X: xe}
	}
}

func (c *checker) checkBinary(x *ast.BinaryExpr) CheckedExpr {
	l := c.checkExpr(x.Left)
	r := c.checkExpr(x.Right)
	var ty Type
	switch x.Op {
	case ast.BinEq, ast.BinNeq, ast.BinLt, ast.BinLe, ast.BinGt, ast.BinGe, ast.BinLAnd, ast.BinLOr:
		ty = Bool
	default:
		ty = commonType(l.Type(), r.Type())
	}
	return &CheckedBinary{typed: typed{ty}, Op: x.Op, Left: l, Right: r, Checked: c.unchecked == 0}
}

func (c *checker) checkAssign(x *ast.AssignExpr) CheckedExpr {
	l := c.checkExpr(x.Left)
	r := c.checkExpr(x.Right)
	return &CheckedAssign{typed: typed{l.Type()}, Op: x.Op, Left: l, Right: r}
}

func (c *checker) checkMember(x *ast.MemberExpr) CheckedExpr {
	// `lib.member`/`EnumName.Member`/`super.f` style static references
	// are resolved before falling back to a field/builtin access on a
	// checked value.
	if id, ok := x.X.(*ast.Ident); ok {
		if _, isVar := c.lookupVar(id.Name); !isVar {
			if en, ok := c.lookupEnum(id.Name); ok {
				ei := c.ns.Enum(en)
				for i, m := range ei.Members {
					if m == x.Name {
						return &CheckedConst{typed: typed{&Enum{No: en, Name: ei.Name}}, Value: intVal(big.NewInt(int64(i)))}
					}
				}
				c.bag.Errorf(diag.KindNameResolution, x.Sp, "enum %q has no member %q", ei.Name, x.Name)
			}
			if cn, ok := c.ns.ContractByName(id.Name); ok {
				ci := c.ns.Contract(cn)
				if fns, ok := ci.FunctionsByName[x.Name]; ok && len(fns) > 0 {
					fi := c.ns.Function(fns[0])
					return &CheckedFuncRef{typed: typed{fi.Type}, Func: fns[0]}
				}
			}
		}
	}
	xe := c.checkExpr(x.X)
	if st, ok := Underlying(xe.Type()).(*Struct); ok {
		si := c.ns.Struct(st.No)
		for i, fn := range si.Fields {
			if c.ns.Var(fn).Name == x.Name {
				return &CheckedFieldAccess{typed: typed{c.ns.Var(fn).Type}, X: xe, Field: i}
			}
		}
	}
	return &CheckedBuiltinMember{typed: typed{builtinMemberType(xe.Type(), x.Name)}, X: xe, Name: x.Name}
}

// builtinMemberType types the small set of builtin members spec.md
// §4.3 names explicitly (`.length`, `.balance`, `.code`, `.selector`,
// `msg.sender`, `block.timestamp`, ...); anything else defaults to
// Uint256 so downstream lowering has a concrete type to work with.
func builtinMemberType(x Type, name string) Type {
	switch name {
	case "length":
		return Uint256
	case "balance":
		return Uint256
	case "sender", "origin":
		return Address
	case "value", "gas", "timestamp", "number", "chainid", "difficulty", "gaslimit", "gasprice", "basefee":
		return Uint256
	case "code", "data":
		return BytesTy
	case "selector":
		return &Elementary{Kind: ast.ElemBytesN, Width: 4}
	case "name":
		return StringTy
	}
	return Uint256
}

func (c *checker) checkIndex(x *ast.IndexExpr) CheckedExpr {
	xe := c.checkExpr(x.X)
	var idx CheckedExpr
	if x.Index != nil {
		idx = c.checkExpr(x.Index)
	}
	var ty Type = &Void{}
	switch u := Underlying(xe.Type()).(type) {
	case *Array:
		ty = u.Elem
	case *Mapping:
		ty = u.Value
	case *Elementary:
		if u.Kind == ast.ElemBytesN || u == BytesTy {
			ty = &Elementary{Kind: ast.ElemBytesN, Width: 1}
		}
	}
	return &CheckedIndex{typed: typed{ty}, X: xe, Index: idx}
}

func (c *checker) checkNew(x *ast.NewExpr) CheckedExpr {
	ty := c.ns.resolveType(c.contract, x.Ty, c.bag)
	var args []CheckedExpr
	for _, a := range x.Args {
		args = append(args, c.checkExpr(a))
	}
	return &CheckedNew{typed: typed{ty}, Args: args}
}

// commonType picks the wider of two numeric types for a binary
// operation's result, defaulting to the left operand's type when no
// widening rule applies (e.g. mixed value-type comparisons already
// resolved to Bool upstream of this helper).
func commonType(a, b Type) Type {
	if Equal(a, b) {
		return a
	}
	ae, aok := Underlying(a).(*Elementary)
	be, bok := Underlying(b).(*Elementary)
	if aok && bok && IsIntegral(ae) && IsIntegral(be) {
		if ae.Width >= be.Width {
			if IsSigned(ae) || !IsSigned(be) {
				return a
			}
		}
		return b
	}
	return a
}
