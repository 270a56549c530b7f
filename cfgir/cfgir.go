// Package cfgir lowers sema's annotated Checked* tree into a
// per-function control-flow graph of typed three-address instructions
// (spec.md §3 "CFG-IR", §4.4 "IR lowering"). The CFG-IR is the
// boundary between the target-agnostic core and package optimize /
// package target: every Solidity-level concept sema resolved is made
// explicit here as an op over dense variable numbers, so later passes
// never need to re-walk an AST.
package cfgir

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/solang-go/solang/sema"
	"github.com/solang-go/solang/token"
)

// VarNo identifies a per-function vartable entry. Numbers are dense
// within one function but not shared across functions (spec.md §3
// "Vartable").
type VarNo int

const NoVar VarNo = -1

// BlockNo identifies a basic block within a Func's Blocks slice.
type BlockNo int

// Reason is one of the fixed runtime-error reason strings (spec.md
// §6). The misspelling in ReasonNonPayableReceived is preserved
// verbatim; it is load-bearing for downstream test-suite compat, not
// a typo to fix.
type Reason string

const (
	ReasonAssertFailure           Reason = "assert failure"
	ReasonRevertEncountered       Reason = "revert encountered"
	ReasonNonPayableReceived      Reason = "non payable function recieved value"
	ReasonExternalCallFailed      Reason = "external call failed"
	ReasonContractCreationFailed  Reason = "contract creation failed"
	ReasonStorageIndexOOB         Reason = "storage array index out of bounds"
	ReasonSetStorageIndexOOB      Reason = "set storage index out of bounds"
	ReasonPopEmptyStorageArray    Reason = "pop from empty storage array"
	ReasonArrayOOB                Reason = "array out of bounds"
	ReasonBytesCastError          Reason = "bytes cast error"
	ReasonIntTooLargeForBuffer    Reason = "integer too large to write in buffer"
	ReasonDataDoesNotFitInBuffer  Reason = "data does not fit into buffer"
	ReasonReadIntOutOfBounds      Reason = "read integer out of bounds"
	ReasonTruncateTypeOverflow    Reason = "truncate type overflow"
	ReasonReachedInvalidInstr     Reason = "reached invalid instruction"
	ReasonValueTransferFailure    Reason = "value transfer failure"
)

// InternalError is panicked when lowering discovers a broken
// invariant sema should already have ruled out (an expression with no
// resolved type, an unresolvable var, a CFG with no terminator). It is
// never suppressed; compiler.Compile recovers it at the stage
// boundary and converts it to a diag.KindInternal entry (spec.md §7
// tier 2).
type InternalError struct {
	Span token.Span
	Msg  string
}

func (e InternalError) Error() string { return e.Msg }

func internalf(span token.Span, format string, args ...interface{}) {
	panic(InternalError{Span: span, Msg: fmt.Sprintf(format, args...)})
}

// Value is an operand to an instruction: a variable reference or an
// immediate constant (spec.md §3: "args are Variable(no), Literal, or
// Constant").
type Value interface{ isValue() }

// VarRef reads the current value of a vartable entry.
type VarRef struct{ No VarNo }

func (VarRef) isValue() {}

// Literal is an immediate value baked into the instruction stream,
// e.g. a numeric literal operand or a folded constant's narrowed
// representation.
type Literal struct {
	Int  *uint256.Int // nil if not an integer literal
	Bool *bool
	Str  *string
	Neg  bool // Int holds the magnitude; Neg flips the sign for intN contexts
}

func (Literal) isValue() {}

func IntLiteral(v *uint256.Int) Literal { return Literal{Int: v} }
func BoolLiteral(b bool) Literal        { return Literal{Bool: &b} }
func StrLiteral(s string) Literal       { return Literal{Str: &s} }

// Op enumerates the three-address instruction opcodes named in
// spec.md §3.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpEq
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
	OpNot
	OpBitNot
	OpNeg

	OpCastSignExt
	OpCastZeroExt
	OpCastTruncate
	OpCastBit // bitcast, e.g. UDVT wrap/unwrap between a type and its underlying representation

	OpLoadStorage
	OpStoreStorage
	OpLoadMemory
	OpStoreMemory
	OpLoadCalldata

	OpArrayLength
	OpArrayPush
	OpArrayPop
	OpAllocDynamicArray

	OpCallInternal
	OpCallExternal
	OpCallBuiltin
	OpCallConstructor

	OpAbiEncode
	OpAbiDecode
	OpKeccak256
	OpPrint

	OpPhi
)

// PhiEdge names the incoming value for one predecessor block of a Phi
// instruction (spec.md §3 "Phi(var, [(bb, var_no)])").
type PhiEdge struct {
	Block BlockNo
	Var   VarNo
}

// Instr is one three-address instruction: `Result := Op(Args...)`.
// Not every field is meaningful for every Op; the comment on each
// group of fields says which Ops populate it.
type Instr struct {
	Result VarNo // NoVar if the op has no result (store, push-without-length-read, print)
	Op     Op
	Type   sema.Type // the result's type; nil when Result == NoVar
	Args   []Value
	Span   token.Span

	// Cast fields (OpCastSignExt/OpCastZeroExt/OpCastTruncate/OpCastBit).
	FromType sema.Type
	ToType   sema.Type
	Checked  bool // overflow check active; false inside `unchecked { }`

	// Storage/memory access fields.
	Slot   Value // OpLoadStorage/OpStoreStorage: the 32-byte slot value
	Offset int   // byte offset within the slot

	// Call fields (OpCallInternal/OpCallExternal/OpCallBuiltin/OpCallConstructor).
	CallKind sema.CallKind
	Func     sema.FunctionNo
	Builtin  string
	ArgNames []string
	CallVal  Value // msg.value for an external call / constructor
	Gas      Value

	// Phi fields (OpPhi).
	PhiEdges []PhiEdge
}

// Terminator is the single instruction ending a basic block (spec.md
// §3: "exactly one terminator").
type Terminator interface{ isTerminator() }

type TermBranch struct{ Target BlockNo }

func (TermBranch) isTerminator() {}

type TermBranchCond struct {
	Cond        Value
	True, False BlockNo
}

func (TermBranchCond) isTerminator() {}

type TermReturn struct{ Values []Value }

func (TermReturn) isTerminator() {}

type TermUnreachable struct{}

func (TermUnreachable) isTerminator() {}

// TermAssertFailure aborts the call with Reason, carrying the source
// span the runtime formats into the debug buffer (spec.md §4.4: "Each
// AssertFailure carries a textual reason ... and the source span").
type TermAssertFailure struct {
	Reason Reason
	Span   token.Span
}

func (TermAssertFailure) isTerminator() {}

// BasicBlock is an ordered instruction list plus exactly one
// terminator.
type BasicBlock struct {
	No     BlockNo
	Instrs []Instr
	Term   Terminator
}

// VarEntry is one vartable row (spec.md §3 "Vartable").
type VarEntry struct {
	Name         string
	Type         sema.Type
	Storage      VarStorage
	DefSites     []BlockNo
	SourceVar    sema.VarNo // the originating sema var, or sema.NoVar for compiler-introduced temps
}

// VarStorage is cfgir's own counterpart of ast.StorageClass; a
// function's own params/locals plus any compiler temps all live in
// one of these classes.
type VarStorage int

const (
	StorageMemory VarStorage = iota
	StorageStorageRef
	StorageCalldata
)

// VarTable is the per-function map of VarNo to its declaration
// (spec.md §3).
type VarTable struct {
	Entries []VarEntry
}

func (vt *VarTable) New(name string, ty sema.Type, storage VarStorage, source sema.VarNo) VarNo {
	no := VarNo(len(vt.Entries))
	vt.Entries = append(vt.Entries, VarEntry{Name: name, Type: ty, Storage: storage, SourceVar: source})
	return no
}

func (vt *VarTable) Entry(no VarNo) *VarEntry { return &vt.Entries[no] }

// Func is one lowered function's CFG plus its vartable.
type Func struct {
	Name       string
	FunctionNo sema.FunctionNo
	Params     []VarNo
	Returns    []VarNo
	Blocks     []*BasicBlock
	Vars       *VarTable
}

func (f *Func) Block(no BlockNo) *BasicBlock { return f.Blocks[no] }

// Program is the whole lowered compilation: one Func per checked
// function body in the Namespace.
type Program struct {
	Funcs        []*Func
	ByFunctionNo map[sema.FunctionNo]*Func
}
