// Package ast defines the parse tree (PT): a purely syntactic
// representation of Solidity source with unresolved identifiers and
// types, but precise spans on every node (spec.md §3 "Parse tree").
//
// Node kinds are grouped into four tagged unions (source-unit parts,
// statements, expressions, types) rather than one flat struct, per
// spec.md §9's "prefer tagged unions ... over polymorphic objects".
// Each union is a Go interface with an unexported marker method; the
// only implementations live in this package, so a type switch in a
// visitor is exhaustive in practice.
package ast

import "github.com/solang-go/solang/token"

// Node is the common span-bearing supertype implemented by every PT
// node.
type Node interface {
	Span() token.Span
}

// ---- source unit -----------------------------------------------------

// SourceUnit is one parsed file: its pragmas, imports and top-level
// declarations, in source order.
type SourceUnit struct {
	File  token.FileNo
	Parts []SourceUnitPart
}

// SourceUnitPart is a top-level declaration: contract/interface/
// library, free function, struct, enum, UDVT, error, event, import,
// pragma, using-for, or file-level constant.
type SourceUnitPart interface {
	Node
	sourceUnitPart()
}

type PragmaDirective struct {
	Sp         token.Span
	Raw        string // text after `pragma`, before `;`, e.g. "solidity ^0.8.0"
}

func (p *PragmaDirective) Span() token.Span { return p.Sp }
func (*PragmaDirective) sourceUnitPart()    {}

type ImportDirective struct {
	Sp      token.Span
	Path    string
	Alias   string   // `import "x.sol" as Alias`; empty if none
	Symbols []string // `import {A, B} from "x.sol"`; empty for a plain/aliased import
	Aliases []string // parallel to Symbols; empty element if no `as`
}

func (d *ImportDirective) Span() token.Span { return d.Sp }
func (*ImportDirective) sourceUnitPart()    {}

type UsingDirective struct {
	Sp      token.Span
	Library string // `using Lib for T` — Lib
	Target  Type   // T, or nil for `using Lib for *`
	Global  bool
}

func (u *UsingDirective) Span() token.Span { return u.Sp }
func (*UsingDirective) sourceUnitPart()    {}

// ContractKind distinguishes contract/interface/library declarations,
// which share one grammar production but differ in allowed members.
type ContractKind int

const (
	KindContract ContractKind = iota
	KindInterface
	KindLibrary
)

type InheritanceSpecifier struct {
	Sp   token.Span
	Name string
	Args []Expr
}

type ContractDefinition struct {
	Sp         token.Span
	Kind       ContractKind
	Abstract   bool
	Name       string
	Bases      []InheritanceSpecifier
	Parts      []ContractPart
	DocComment string
}

func (c *ContractDefinition) Span() token.Span { return c.Sp }
func (*ContractDefinition) sourceUnitPart()    {}

// ContractPart is a member of a contract/interface/library body.
type ContractPart interface {
	Node
	contractPart()
}

type StructDefinition struct {
	Sp     token.Span
	Name   string
	Fields []*VariableDeclaration
}

func (s *StructDefinition) Span() token.Span { return s.Sp }
func (*StructDefinition) sourceUnitPart()    {}
func (*StructDefinition) contractPart()      {}

type EnumDefinition struct {
	Sp      token.Span
	Name    string
	Members []string
}

func (e *EnumDefinition) Span() token.Span { return e.Sp }
func (*EnumDefinition) sourceUnitPart()    {}
func (*EnumDefinition) contractPart()      {}

// UserDefinedValueType, e.g. `type Wad is uint256;`
type UserDefinedValueType struct {
	Sp       token.Span
	Name     string
	Underlying Type
}

func (u *UserDefinedValueType) Span() token.Span { return u.Sp }
func (*UserDefinedValueType) sourceUnitPart()    {}
func (*UserDefinedValueType) contractPart()      {}

type EventParameter struct {
	Sp      token.Span
	Type    Type
	Indexed bool
	Name    string
}

type EventDefinition struct {
	Sp        token.Span
	Name      string
	Params    []EventParameter
	Anonymous bool
}

func (e *EventDefinition) Span() token.Span { return e.Sp }
func (*EventDefinition) sourceUnitPart()    {}
func (*EventDefinition) contractPart()      {}

type ErrorParameter struct {
	Sp   token.Span
	Type Type
	Name string
}

type ErrorDefinition struct {
	Sp     token.Span
	Name   string
	Params []ErrorParameter
}

func (e *ErrorDefinition) Span() token.Span { return e.Sp }
func (*ErrorDefinition) sourceUnitPart()    {}
func (*ErrorDefinition) contractPart()      {}

// Visibility and mutability are parsed as free-standing modifiers on
// both state variables and functions.
type Visibility int

const (
	VisDefault Visibility = iota
	VisPublic
	VisPrivate
	VisInternal
	VisExternal
)

type Mutability int

const (
	MutNone Mutability = iota
	MutPure
	MutView
	MutPayable
)

type StorageClass int

const (
	StorageDefault StorageClass = iota
	StorageStorage
	StorageMemory
	StorageCalldata
)

type VariableDeclaration struct {
	Sp         token.Span
	Type       Type
	Storage    StorageClass
	Name       string
	Indexed    bool // event params only
	Visibility Visibility
	Constant   bool
	Immutable  bool
	Value      Expr // initializer, or nil
}

func (v *VariableDeclaration) Span() token.Span { return v.Sp }
func (*VariableDeclaration) sourceUnitPart()    {}
func (*VariableDeclaration) contractPart()      {}

// ModifierInvocation is `m(args)` or bare `m` applied to a function.
type ModifierInvocation struct {
	Sp   token.Span
	Name string
	Args []Expr
}

type FunctionKind int

const (
	FuncOrdinary FunctionKind = iota
	FuncConstructor
	FuncFallback
	FuncReceive
	FuncFree // file-level free function
	FuncModifierDecl
)

type Param struct {
	Sp      token.Span
	Type    Type
	Storage StorageClass
	Name    string // may be empty (unnamed parameter)
}

type FunctionDefinition struct {
	Sp          token.Span
	Kind        FunctionKind
	Name        string // empty for constructor/fallback/receive
	Params      []Param
	Returns     []Param
	Visibility  Visibility
	Mutability  Mutability
	Virtual     bool
	Override    []string // names of bases overridden, empty slice means bare `override`
	HasOverride bool
	Modifiers   []ModifierInvocation
	Body        *Block // nil for declarations without a body (interface members)
	DocComment  string
}

func (f *FunctionDefinition) Span() token.Span { return f.Sp }
func (*FunctionDefinition) sourceUnitPart()    {}
func (*FunctionDefinition) contractPart()      {}
