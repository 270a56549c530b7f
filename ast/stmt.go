package ast

import "github.com/solang-go/solang/token"

// Stmt is the tagged union of statement kinds.
type Stmt interface {
	Node
	stmt()
}

type Block struct {
	Sp   token.Span
	Body []Stmt
}

func (b *Block) Span() token.Span { return b.Sp }
func (*Block) stmt()              {}

// Unchecked is `unchecked { ... }`: suppresses overflow-check
// lowering for arithmetic lexically inside it (SPEC_FULL.md
// Supplemented Features).
type Unchecked struct {
	Sp   token.Span
	Body *Block
}

func (u *Unchecked) Span() token.Span { return u.Sp }
func (*Unchecked) stmt()              {}

type ExprStmt struct {
	Sp token.Span
	X  Expr
}

func (e *ExprStmt) Span() token.Span { return e.Sp }
func (*ExprStmt) stmt()              {}

// VarDeclStmt covers both single declarations (`uint x = 1;`) and
// tuple destructuring (`(uint a, , uint c) = f();`), where a nil
// element of Vars marks a skipped tuple slot.
type VarDeclStmt struct {
	Sp    token.Span
	Vars  []*VariableDeclaration // a nil entry is a skipped `(a, , c)` slot
	Value Expr                   // nil if there is no initializer
}

func (v *VarDeclStmt) Span() token.Span { return v.Sp }
func (*VarDeclStmt) stmt()              {}

type IfStmt struct {
	Sp   token.Span
	Cond Expr
	Then Stmt
	Else Stmt // nil if no else branch
}

func (i *IfStmt) Span() token.Span { return i.Sp }
func (*IfStmt) stmt()              {}

type ForStmt struct {
	Sp   token.Span
	Init Stmt // nil, ExprStmt or VarDeclStmt
	Cond Expr // nil
	Post Expr // nil
	Body Stmt
}

func (f *ForStmt) Span() token.Span { return f.Sp }
func (*ForStmt) stmt()              {}

type WhileStmt struct {
	Sp   token.Span
	Cond Expr
	Body Stmt
}

func (w *WhileStmt) Span() token.Span { return w.Sp }
func (*WhileStmt) stmt()              {}

type DoWhileStmt struct {
	Sp   token.Span
	Body Stmt
	Cond Expr
}

func (d *DoWhileStmt) Span() token.Span { return d.Sp }
func (*DoWhileStmt) stmt()              {}

type ReturnStmt struct {
	Sp     token.Span
	Values []Expr // empty for bare `return;`
}

func (r *ReturnStmt) Span() token.Span { return r.Sp }
func (*ReturnStmt) stmt()              {}

type BreakStmt struct{ Sp token.Span }

func (b *BreakStmt) Span() token.Span { return b.Sp }
func (*BreakStmt) stmt()              {}

type ContinueStmt struct{ Sp token.Span }

func (c *ContinueStmt) Span() token.Span { return c.Sp }
func (*ContinueStmt) stmt()              {}

type EmitStmt struct {
	Sp    token.Span
	Event Expr // identifier or member-access naming the event
	Args  []Expr
}

func (e *EmitStmt) Span() token.Span { return e.Sp }
func (*EmitStmt) stmt()              {}

type RevertStmt struct {
	Sp    token.Span
	Error Expr // identifier/member-access naming a custom error, or nil for bare `revert("msg")`
	Args  []Expr
}

func (r *RevertStmt) Span() token.Span { return r.Sp }
func (*RevertStmt) stmt()              {}

// CatchClause handles `catch Error(string memory reason) { ... }`,
// `catch Panic(uint code) { ... }` and the bare `catch (bytes memory
// lowLevelData) { ... }` / `catch { ... }` forms.
type CatchClause struct {
	Sp     token.Span
	Name   string // "Error", "Panic", or empty for the bare/low-level form
	Params []Param
	Body   *Block
}

type TryStmt struct {
	Sp         token.Span
	Expr       Expr // the external call or constructor call
	Returns    []Param
	Body       *Block
	CatchClauses []CatchClause
}

func (t *TryStmt) Span() token.Span { return t.Sp }
func (*TryStmt) stmt()              {}

// AssemblyStmt is parsed as an opaque span (spec.md §4.2): its body is
// not further parsed, matching the Non-goal that inline-assembly
// semantics are not checked.
type AssemblyStmt struct {
	Sp   token.Span
	Body string // raw text between the braces
}

func (a *AssemblyStmt) Span() token.Span { return a.Sp }
func (*AssemblyStmt) stmt()              {}
