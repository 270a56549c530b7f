package ast

import "github.com/solang-go/solang/token"

// Type is the tagged union of unresolved, purely syntactic type
// expressions (spec.md §3: "the PT is purely syntactic ... types are
// unresolved").
type Type interface {
	Node
	astType()
}

type ElementaryKind int

const (
	ElemBool ElementaryKind = iota
	ElemAddress
	ElemAddressPayable
	ElemString
	ElemBytes // dynamic `bytes`
	ElemUint  // width stored in Width
	ElemInt
	ElemBytesN // fixed `bytesN`, width in Width
)

type ElementaryType struct {
	Sp    token.Span
	Kind  ElementaryKind
	Width int // bit width for uint/int, byte width for bytesN; 0 otherwise
}

func (e *ElementaryType) Span() token.Span { return e.Sp }
func (*ElementaryType) astType()          {}

// NamedType refers to a struct, enum, contract, interface, UDVT or
// imported type by (possibly dotted) name; resolved by sema.
type NamedType struct {
	Sp   token.Span
	Path []string // `Lib.Struct` -> ["Lib", "Struct"]
}

func (n *NamedType) Span() token.Span { return n.Sp }
func (*NamedType) astType()          {}

type ArrayType struct {
	Sp    token.Span
	Elem  Type
	Size  Expr // nil for dynamic arrays `T[]`
}

func (a *ArrayType) Span() token.Span { return a.Sp }
func (*ArrayType) astType()          {}

type MappingType struct {
	Sp        token.Span
	Key       Type
	KeyName   string // optional named mapping key, Solidity >=0.8.18
	Value     Type
	ValueName string
}

func (m *MappingType) Span() token.Span { return m.Sp }
func (*MappingType) astType()          {}

type FunctionType struct {
	Sp         token.Span
	Params     []Type
	Visibility Visibility
	Mutability Mutability
	Returns    []Type
}

func (f *FunctionType) Span() token.Span { return f.Sp }
func (*FunctionType) astType()          {}
