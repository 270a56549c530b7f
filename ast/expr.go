package ast

import "github.com/solang-go/solang/token"

// Expr is the tagged union of expression kinds.
type Expr interface {
	Node
	expr()
}

type Ident struct {
	Sp   token.Span
	Name string
}

func (i *Ident) Span() token.Span { return i.Sp }
func (*Ident) expr()              {}

type NumberLit struct {
	Sp     token.Span
	Raw    string // raw digit text, unit stripped
	Denom  string // "wei", "ether", "days", ... or empty
	IsHex  bool
}

func (n *NumberLit) Span() token.Span { return n.Sp }
func (*NumberLit) expr()              {}

type BoolLit struct {
	Sp    token.Span
	Value bool
}

func (b *BoolLit) Span() token.Span { return b.Sp }
func (*BoolLit) expr()              {}

type StringLit struct {
	Sp      token.Span
	Value   string
	Unicode bool
}

func (s *StringLit) Span() token.Span { return s.Sp }
func (*StringLit) expr()              {}

type HexStringLit struct {
	Sp  token.Span
	Hex string // raw hex digits, no 0x prefix
}

func (h *HexStringLit) Span() token.Span { return h.Sp }
func (*HexStringLit) expr()              {}

type ThisExpr struct{ Sp token.Span }

func (t *ThisExpr) Span() token.Span { return t.Sp }
func (*ThisExpr) expr()              {}

type SuperExpr struct{ Sp token.Span }

func (s *SuperExpr) Span() token.Span { return s.Sp }
func (*SuperExpr) expr()              {}

// TypeExpr wraps a Type used in an expression position, e.g. as the
// callee of an explicit conversion `uint256(x)` or the target of
// `new T[](n)`.
type TypeExpr struct {
	Sp token.Span
	Ty Type
}

func (t *TypeExpr) Span() token.Span { return t.Sp }
func (*TypeExpr) expr()              {}

type TupleExpr struct {
	Sp       token.Span
	Elements []Expr // a nil element marks a skipped slot, e.g. `(a, , c)`
}

func (t *TupleExpr) Span() token.Span { return t.Sp }
func (*TupleExpr) expr()              {}

type ArrayLit struct {
	Sp       token.Span
	Elements []Expr
}

func (a *ArrayLit) Span() token.Span { return a.Sp }
func (*ArrayLit) expr()              {}

type UnaryOp int

const (
	UnNeg UnaryOp = iota
	UnNot
	UnBitNot
	UnPreInc
	UnPreDec
	UnPostInc
	UnPostDec
	UnDelete
)

type UnaryExpr struct {
	Sp token.Span
	Op UnaryOp
	X  Expr
}

func (u *UnaryExpr) Span() token.Span { return u.Sp }
func (*UnaryExpr) expr()              {}

type BinaryOp int

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinPow
	BinAnd
	BinOr
	BinXor
	BinShl
	BinShr
	BinLOr
	BinLAnd
	BinEq
	BinNeq
	BinLt
	BinLe
	BinGt
	BinGe
)

type BinaryExpr struct {
	Sp          token.Span
	Op          BinaryOp
	Left, Right Expr
}

func (b *BinaryExpr) Span() token.Span { return b.Sp }
func (*BinaryExpr) expr()              {}

// AssignOp distinguishes plain `=` from the compound operators that
// lower to a read-modify-write (spec.md §4.4).
type AssignOp int

const (
	AssignPlain AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
	AssignAnd
	AssignOr
	AssignXor
	AssignShl
	AssignShr
)

type AssignExpr struct {
	Sp          token.Span
	Op          AssignOp
	Left, Right Expr
}

func (a *AssignExpr) Span() token.Span { return a.Sp }
func (*AssignExpr) expr()              {}

type TernaryExpr struct {
	Sp               token.Span
	Cond, Then, Else Expr
}

func (t *TernaryExpr) Span() token.Span { return t.Sp }
func (*TernaryExpr) expr()              {}

type MemberExpr struct {
	Sp   token.Span
	X    Expr
	Name string
}

func (m *MemberExpr) Span() token.Span { return m.Sp }
func (*MemberExpr) expr()              {}

type IndexExpr struct {
	Sp    token.Span
	X     Expr
	Index Expr // nil for `new uint[]` style empty-index type expressions
}

func (i *IndexExpr) Span() token.Span { return i.Sp }
func (*IndexExpr) expr()              {}

// CallExpr covers ordinary calls, explicit type conversions
// (`uint8(x)`), and calls with named arguments (`f({a: 1, b: 2})`).
type CallExpr struct {
	Sp        token.Span
	Callee    Expr
	Args      []Expr
	ArgNames  []string // parallel to Args; empty string where positional
	ValueArg  Expr     // `{value: v}` call option, nil if absent
	GasArg    Expr     // `{gas: g}` call option, nil if absent
}

func (c *CallExpr) Span() token.Span { return c.Sp }
func (*CallExpr) expr()              {}

// NewExpr is `new T(...)` (contract/struct construction) or
// `new T[](n)` (dynamic array allocation); the latter is represented
// with Ty as an ArrayType and Args holding the single length
// expression.
type NewExpr struct {
	Sp   token.Span
	Ty   Type
	Args []Expr
}

func (n *NewExpr) Span() token.Span { return n.Sp }
func (*NewExpr) expr()              {}
