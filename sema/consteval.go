package sema

import (
	"math/big"
	"strings"

	"github.com/holiman/uint256"

	"github.com/solang-go/solang/ast"
	"github.com/solang-go/solang/diag"
)

// ConstValue is the result of folding a constant expression (array
// sizes, `constant` state variable initializers, enum-to-int casts).
// Integers are held as arbitrary-precision math/big.Int during
// folding, matching Solidity's own unbounded rational-literal
// semantics, and only narrowed to a fixed-width uint256.Int once the
// target type is known (DESIGN.md: "math/big is the one deliberate
// stdlib choice").
type ConstValue struct {
	Int       *big.Int // for uintN/intN/enum values
	Bool      *bool
	Str       *string
	IsNegative bool
}

func intVal(i *big.Int) *ConstValue { return &ConstValue{Int: i} }
func boolVal(b bool) *ConstValue    { return &ConstValue{Bool: &b} }
func strVal(s string) *ConstValue   { return &ConstValue{Str: &s} }

// evalConst folds a constant expression tree. It supports the subset
// of Solidity constant expressions actually needed by array-size
// expressions and `constant` initializers: integer/bool/string
// literals, unary -, ~ and !, and the arithmetic, comparison and
// logical binary operators over integers.
func (c *checker) evalConst(e ast.Expr) *ConstValue {
	switch x := e.(type) {
	case *ast.NumberLit:
		return c.evalNumberLit(x)
	case *ast.BoolLit:
		return boolVal(x.Value)
	case *ast.StringLit:
		return strVal(x.Value)
	case *ast.UnaryExpr:
		v := c.evalConst(x.X)
		if v == nil {
			return nil
		}
		switch x.Op {
		case ast.UnNeg:
			if v.Int == nil {
				break
			}
			return intVal(new(big.Int).Neg(v.Int))
		case ast.UnNot:
			if v.Bool == nil {
				break
			}
			return boolVal(!*v.Bool)
		case ast.UnBitNot:
			if v.Int == nil {
				break
			}
			return intVal(new(big.Int).Not(v.Int))
		}
	case *ast.BinaryExpr:
		l, r := c.evalConst(x.Left), c.evalConst(x.Right)
		if l == nil || r == nil {
			return nil
		}
		return evalConstBinary(x.Op, l, r)
	case *ast.Ident:
		return c.evalConstIdent(x)
	case *ast.MemberExpr:
		return c.evalConstEnumMember(x)
	}
	c.bag.Errorf(diag.KindConstOverflow, e.Span(), "expression is not a compile-time constant")
	return nil
}

func (c *checker) evalNumberLit(n *ast.NumberLit) *ConstValue {
	raw := strings.ReplaceAll(n.Raw, "_", "")
	var i big.Int
	if n.IsHex {
		if _, ok := i.SetString(strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "0X"), 16); !ok {
			c.bag.Errorf(diag.KindConstOverflow, n.Sp, "invalid hex literal %q", n.Raw)
			return nil
		}
	} else if strings.ContainsAny(raw, ".eE") {
		f, _, err := big.ParseFloat(raw, 10, 256, big.ToNearestEven)
		if err != nil {
			c.bag.Errorf(diag.KindConstOverflow, n.Sp, "invalid numeric literal %q", n.Raw)
			return nil
		}
		fi, _ := f.Int(nil)
		if fi == nil {
			c.bag.Errorf(diag.KindConstOverflow, n.Sp, "fractional literal %q is not a valid integer constant here", n.Raw)
			return nil
		}
		i = *fi
	} else {
		if _, ok := i.SetString(raw, 10); !ok {
			c.bag.Errorf(diag.KindConstOverflow, n.Sp, "invalid numeric literal %q", n.Raw)
			return nil
		}
	}
	if n.Denom != "" {
		applyDenomination(&i, n.Denom)
	}
	return intVal(&i)
}

var denomMultiplier = map[string]int64{
	"wei": 1, "gwei": 1_000_000_000, "ether": 1_000_000_000_000_000_000,
	"seconds": 1, "minutes": 60, "hours": 3600, "days": 86400, "weeks": 604800,
}

func applyDenomination(i *big.Int, denom string) {
	m, ok := denomMultiplier[denom]
	if !ok {
		return
	}
	i.Mul(i, big.NewInt(m))
}

func evalConstBinary(op ast.BinaryOp, l, r *ConstValue) *ConstValue {
	if l.Int != nil && r.Int != nil {
		a, b := l.Int, r.Int
		switch op {
		case ast.BinAdd:
			return intVal(new(big.Int).Add(a, b))
		case ast.BinSub:
			return intVal(new(big.Int).Sub(a, b))
		case ast.BinMul:
			return intVal(new(big.Int).Mul(a, b))
		case ast.BinDiv:
			if b.Sign() == 0 {
				return nil
			}
			return intVal(new(big.Int).Quo(a, b))
		case ast.BinMod:
			if b.Sign() == 0 {
				return nil
			}
			return intVal(new(big.Int).Rem(a, b))
		case ast.BinPow:
			return intVal(new(big.Int).Exp(a, b, nil))
		case ast.BinAnd:
			return intVal(new(big.Int).And(a, b))
		case ast.BinOr:
			return intVal(new(big.Int).Or(a, b))
		case ast.BinXor:
			return intVal(new(big.Int).Xor(a, b))
		case ast.BinShl:
			return intVal(new(big.Int).Lsh(a, uint(b.Int64())))
		case ast.BinShr:
			return intVal(new(big.Int).Rsh(a, uint(b.Int64())))
		case ast.BinEq:
			return boolVal(a.Cmp(b) == 0)
		case ast.BinNeq:
			return boolVal(a.Cmp(b) != 0)
		case ast.BinLt:
			return boolVal(a.Cmp(b) < 0)
		case ast.BinLe:
			return boolVal(a.Cmp(b) <= 0)
		case ast.BinGt:
			return boolVal(a.Cmp(b) > 0)
		case ast.BinGe:
			return boolVal(a.Cmp(b) >= 0)
		}
	}
	if l.Bool != nil && r.Bool != nil {
		switch op {
		case ast.BinLAnd:
			return boolVal(*l.Bool && *r.Bool)
		case ast.BinLOr:
			return boolVal(*l.Bool || *r.Bool)
		case ast.BinEq:
			return boolVal(*l.Bool == *r.Bool)
		case ast.BinNeq:
			return boolVal(*l.Bool != *r.Bool)
		}
	}
	return nil
}

func (c *checker) evalConstIdent(id *ast.Ident) *ConstValue {
	vn, ok := c.lookupVar(id.Name)
	if !ok {
		return nil
	}
	v := c.ns.Var(vn)
	if v.Kind != VarStateConstant {
		return nil
	}
	if v.ConstValue == nil && v.Init != nil {
		// Referenced before its own slot in ns.Vars was folded;
		// recurse to fold it now (constants may reference constants
		// declared later in the same file).
		v.ConstValue = c.evalConst(v.Init)
	}
	return v.ConstValue
}

// evalConstEnumMember resolves `EnumName.Member` to its ordinal value,
// the one constant-folded member-expression form.
func (c *checker) evalConstEnumMember(m *ast.MemberExpr) *ConstValue {
	id, ok := m.X.(*ast.Ident)
	if !ok {
		return nil
	}
	en, ok := c.lookupEnum(id.Name)
	if !ok {
		return nil
	}
	info := c.ns.Enum(en)
	for i, name := range info.Members {
		if name == m.Name {
			return intVal(big.NewInt(int64(i)))
		}
	}
	return nil
}

// FitsWidth reports whether v fits in an elementary integer type of
// the given bit width and signedness, matching the range check
// invariant for sized integer literals and explicit narrowing casts.
func FitsWidth(v *big.Int, width int, signed bool) bool {
	if signed {
		half := new(big.Int).Lsh(big.NewInt(1), uint(width-1))
		min := new(big.Int).Neg(half)
		max := new(big.Int).Sub(half, big.NewInt(1))
		return v.Cmp(min) >= 0 && v.Cmp(max) <= 0
	}
	if v.Sign() < 0 {
		return false
	}
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(width)), big.NewInt(1))
	return v.Cmp(max) <= 0
}

// ToUint256 narrows an already-range-checked non-negative constant
// into a fixed-width uint256.Int for use by the optimizer's constant
// folder and the storage-layout/ABI code, which work in fixed-width
// 256-bit arithmetic rather than math/big.
func ToUint256(v *big.Int) *uint256.Int {
	u := new(uint256.Int)
	u.SetFromBig(v)
	return u
}
