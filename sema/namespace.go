package sema

import (
	"math/big"

	"github.com/solang-go/solang/ast"
	"github.com/solang-go/solang/token"
)

// Dense index types identify declarations within a Namespace. Using
// small integers rather than pointers keeps cross-references (a
// function's contract, an expression's resolved variable) copyable
// and free of reference cycles between contracts that inherit from
// each other (DESIGN.md: "dense index-based references").
type (
	ContractNo int
	FunctionNo int
	VarNo      int
	StructNo   int
	EnumNo     int
	UDVTNo     int
	EventNo    int
	ErrorNo    int
)

const NoContract ContractNo = -1

// VarKind distinguishes where a VarInfo lives.
type VarKind int

const (
	VarStateStorage VarKind = iota // contract storage slot
	VarStateConstant
	VarStateImmutable
	VarLocal  // function-local; function parameters are VarParam
	VarParam
	VarReturn
)

// VarInfo describes one declared variable: a state variable, a
// function parameter/return, or a function-local.
type VarInfo struct {
	Name     string
	Type     Type
	Kind     VarKind
	Storage  ast.StorageClass
	Span     token.Span
	Contract ContractNo // owning contract, for state variables

	// storage-slot layout (spec.md §4.3 "Storage Layout"), valid only
	// for VarStateStorage.
	Slot   *big.Int
	Offset int // byte offset within Slot, 0..31

	// ConstValue holds the folded value of a `constant` variable's
	// initializer (spec.md "Constant Evaluation"); nil until consteval
	// runs, and always nil for non-constants.
	ConstValue *ConstValue

	// Init is the unresolved initializer expression, if any: a
	// constant/immutable's value, or a state variable's inline
	// default. declType is the PT type expression resolveSignatures
	// turns into Type.
	Init     ast.Expr
	declType ast.Type
}

// FunctionInfo is a resolved function, modifier, constructor,
// fallback or receive declaration.
type FunctionInfo struct {
	Name       string
	Kind       ast.FunctionKind
	Contract   ContractNo // NoContract for free functions
	Params     []VarNo
	Returns    []VarNo
	Visibility ast.Visibility
	Mutability ast.Mutability
	Virtual    bool
	Modifiers  []ast.ModifierInvocation
	Decl       *ast.FunctionDefinition
	Span       token.Span

	Type *Function // the call signature, for overload resolution

	// Body is the checked body, filled in during the per-function
	// checking pass; nil for declarations without a body (interface
	// members, abstract functions).
	Body *CheckedBlock

	// Overrides records the FunctionNo of each base-contract function
	// this one overrides, resolved during linearization.
	Overrides []FunctionNo
}

type StructInfo struct {
	Name     string
	Contract ContractNo // NoContract for file-level structs
	Fields   []VarNo
	Span     token.Span
}

type EnumInfo struct {
	Name     string
	Contract ContractNo
	Members  []string
	Span     token.Span
}

type UDVTInfo struct {
	Name       string
	Contract   ContractNo
	Underlying Type
	Span       token.Span

	declType ast.Type
}

type EventInfo struct {
	Name      string
	Contract  ContractNo
	Params    []VarNo
	Anonymous bool
	Span      token.Span
}

type ErrorInfo struct {
	Name     string
	Contract ContractNo
	Params   []VarNo
	Span     token.Span
}

// ContractInfo is a resolved contract/interface/library.
type ContractInfo struct {
	Name     string
	Kind     ast.ContractKind
	Abstract bool
	Decl     *ast.ContractDefinition
	Span     token.Span

	BaseNames []string // as written, pre-linearization

	// Linearization is the C3-linearized base list, most-derived
	// first, with the contract itself at index 0 (spec.md §4.3
	// "Inheritance Linearization").
	Linearization []ContractNo

	Functions []FunctionNo
	Structs   []StructNo
	Enums     []EnumNo
	UDVTs     []UDVTNo
	Events    []EventNo
	Errors    []ErrorNo
	StateVars []VarNo // in declaration order, across the full linearization, base-to-derived

	// UsingFor holds `using Lib for T` bindings for this contract, one
	// UsingBinding per directive. The collector never fills it (the
	// parser discards `using` directives), so it is always empty.
	UsingFor []UsingBinding

	// StorageSize is the number of 32-byte slots consumed by
	// StateVars, computed by the layout pass.
	StorageSize *big.Int

	// The maps below are populated by the linearization pass, merging
	// every base's declarations (least-derived first) with this
	// contract's own (most-derived wins on a name collision, matching
	// Solidity's override resolution order).
	StructsByName   map[string]StructNo
	EnumsByName     map[string]EnumNo
	UDVTsByName     map[string]UDVTNo
	EventsByName    map[string]EventNo
	ErrorsByName    map[string]ErrorNo
	FunctionsByName map[string][]FunctionNo
	VarsByName      map[string]VarNo

	// ownDeclaredStateVars holds just this contract's own state
	// variables, captured once before StateVars is overwritten with
	// the full base-to-derived linearized list.
	ownDeclaredStateVars []VarNo
}

type UsingBinding struct {
	Library ContractNo
	Target  Type // nil means "for *"
	Global  bool
}

// Namespace is the complete symbol table built by sema: every
// contract, function and variable known across the compiled source
// set, addressable by dense index (spec.md §4.3 "Namespace").
type Namespace struct {
	Fset *token.FileSet

	Contracts []ContractInfo
	Functions []FunctionInfo
	Vars      []VarInfo
	Structs   []StructInfo
	Enums     []EnumInfo
	UDVTs     []UDVTInfo
	Events    []EventInfo
	Errors    []ErrorInfo

	// FreeFunctions holds the FunctionNo of file-level functions, not
	// owned by any contract.
	FreeFunctions []FunctionNo

	// contractsByName resolves an unqualified contract/interface/
	// library name; Solidity source sets are flat-namespaced at this
	// level. Import aliases (`import {X as Y}`) are not applied: a
	// contract is known only by its declared name.
	contractsByName map[string]ContractNo

	// ExprTypes records the resolved type of every checked expression,
	// keyed by the originating PT node's identity.
	ExprTypes map[ast.Expr]Type

	// File-level (free) declarations, outside any contract.
	FreeStructs   map[string]StructNo
	FreeEnums     map[string]EnumNo
	FreeUDVTs     map[string]UDVTNo
	FreeErrors    map[string]ErrorNo
	FreeFunctionsByName map[string][]FunctionNo
	FreeConstants map[string]VarNo
}

func newNamespace(fset *token.FileSet) *Namespace {
	return &Namespace{
		Fset:                fset,
		contractsByName:     make(map[string]ContractNo),
		ExprTypes:           make(map[ast.Expr]Type),
		FreeStructs:         make(map[string]StructNo),
		FreeEnums:           make(map[string]EnumNo),
		FreeUDVTs:           make(map[string]UDVTNo),
		FreeErrors:          make(map[string]ErrorNo),
		FreeFunctionsByName: make(map[string][]FunctionNo),
		FreeConstants:       make(map[string]VarNo),
	}
}

func (ns *Namespace) addContract(ci ContractInfo) ContractNo {
	no := ContractNo(len(ns.Contracts))
	ns.Contracts = append(ns.Contracts, ci)
	ns.contractsByName[ci.Name] = no
	return no
}

func (ns *Namespace) addFunction(fi FunctionInfo) FunctionNo {
	no := FunctionNo(len(ns.Functions))
	ns.Functions = append(ns.Functions, fi)
	return no
}

func (ns *Namespace) addVar(vi VarInfo) VarNo {
	no := VarNo(len(ns.Vars))
	ns.Vars = append(ns.Vars, vi)
	return no
}

func (ns *Namespace) addStruct(si StructInfo) StructNo {
	no := StructNo(len(ns.Structs))
	ns.Structs = append(ns.Structs, si)
	return no
}

func (ns *Namespace) addEnum(ei EnumInfo) EnumNo {
	no := EnumNo(len(ns.Enums))
	ns.Enums = append(ns.Enums, ei)
	return no
}

func (ns *Namespace) addUDVT(ui UDVTInfo) UDVTNo {
	no := UDVTNo(len(ns.UDVTs))
	ns.UDVTs = append(ns.UDVTs, ui)
	return no
}

func (ns *Namespace) addEvent(ei EventInfo) EventNo {
	no := EventNo(len(ns.Events))
	ns.Events = append(ns.Events, ei)
	return no
}

func (ns *Namespace) addError(ei ErrorInfo) ErrorNo {
	no := ErrorNo(len(ns.Errors))
	ns.Errors = append(ns.Errors, ei)
	return no
}

// ContractByName looks up a contract, interface or library by its
// unqualified name.
func (ns *Namespace) ContractByName(name string) (ContractNo, bool) {
	no, ok := ns.contractsByName[name]
	return no, ok
}

func (ns *Namespace) Contract(no ContractNo) *ContractInfo { return &ns.Contracts[no] }
func (ns *Namespace) Function(no FunctionNo) *FunctionInfo { return &ns.Functions[no] }
func (ns *Namespace) Var(no VarNo) *VarInfo                { return &ns.Vars[no] }
func (ns *Namespace) Struct(no StructNo) *StructInfo       { return &ns.Structs[no] }
func (ns *Namespace) Enum(no EnumNo) *EnumInfo             { return &ns.Enums[no] }
func (ns *Namespace) UDVT(no UDVTNo) *UDVTInfo             { return &ns.UDVTs[no] }
func (ns *Namespace) Event(no EventNo) *EventInfo          { return &ns.Events[no] }
func (ns *Namespace) Error(no ErrorNo) *ErrorInfo          { return &ns.Errors[no] }
