// Package sema implements semantic analysis: it turns the parse trees
// produced by package parser into a Namespace of resolved contracts,
// functions and variables with a fully resolved type on every
// expression (spec.md §4.3 "Annotated AST"). It runs in two passes —
// symbol collection, then per-function body checking — mirroring the
// teacher's own gta (global type analysis) / Cfg split (DESIGN.md).
package sema

import (
	"fmt"
	"strconv"

	"github.com/solang-go/solang/ast"
)

// Type is the semantic type lattice (go/types-shaped: one interface,
// several concrete representations, rather than a single tagged
// struct — it needs to compose recursively for arrays-of-arrays,
// mappings-of-structs, and so on).
type Type interface {
	String() string
	semaType()
}

// Elementary covers bool, address(+payable), string, dynamic bytes,
// uintN, intN and bytesN.
type Elementary struct {
	Kind  ast.ElementaryKind
	Width int // bit width for uint/int, byte width for bytesN, 0 otherwise
}

func (*Elementary) semaType() {}

func (e *Elementary) String() string {
	switch e.Kind {
	case ast.ElemBool:
		return "bool"
	case ast.ElemAddress:
		return "address"
	case ast.ElemAddressPayable:
		return "address payable"
	case ast.ElemString:
		return "string"
	case ast.ElemBytes:
		return "bytes"
	case ast.ElemUint:
		return "uint" + strconv.Itoa(e.Width)
	case ast.ElemInt:
		return "int" + strconv.Itoa(e.Width)
	case ast.ElemBytesN:
		return "bytes" + strconv.Itoa(e.Width)
	default:
		return "<elementary?>"
	}
}

// Array is a fixed-size (Size >= 0) or dynamic (Size == -1) array.
type Array struct {
	Elem Type
	Size int
}

func (*Array) semaType() {}
func (a *Array) String() string {
	if a.Size < 0 {
		return a.Elem.String() + "[]"
	}
	return fmt.Sprintf("%s[%d]", a.Elem.String(), a.Size)
}

type Mapping struct {
	Key, Value Type
}

func (*Mapping) semaType() {}
func (m *Mapping) String() string {
	return fmt.Sprintf("mapping(%s => %s)", m.Key.String(), m.Value.String())
}

type Struct struct {
	No   StructNo
	Name string
}

func (*Struct) semaType() {}
func (s *Struct) String() string { return s.Name }

type Enum struct {
	No   EnumNo
	Name string
}

func (*Enum) semaType() {}
func (e *Enum) String() string { return e.Name }

type Contract struct {
	No   ContractNo
	Name string
}

func (*Contract) semaType() {}
func (c *Contract) String() string { return c.Name }

// UDVT is a user-defined value type (`type Wad is uint256;`):
// distinct from its Underlying for overload resolution and implicit
// conversion purposes (SPEC_FULL.md Supplemented Features).
type UDVT struct {
	No         UDVTNo
	Name       string
	Underlying Type
}

func (*UDVT) semaType() {}
func (u *UDVT) String() string { return u.Name }

type Function struct {
	Params     []Type
	Returns    []Type
	Visibility ast.Visibility
	Mutability ast.Mutability
}

func (*Function) semaType() {}
func (f *Function) String() string {
	s := "function("
	for i, p := range f.Params {
		if i > 0 {
			s += ","
		}
		s += p.String()
	}
	s += ")"
	return s
}

// Tuple is the type of a multi-value expression: the right-hand side
// of a multi-return call, or a parenthesized tuple literal.
type Tuple struct {
	Elems []Type // a nil element marks a skipped `(a, , c)` slot
}

func (*Tuple) semaType() {}
func (t *Tuple) String() string {
	s := "("
	for i, e := range t.Elems {
		if i > 0 {
			s += ","
		}
		if e == nil {
			continue
		}
		s += e.String()
	}
	return s + ")"
}

// Void is the zero-return-value pseudo-type of a statement-context
// call.
type Void struct{}

func (*Void) semaType() {}
func (*Void) String() string { return "void" }

// Common elementary singletons, allocated once to keep type identity
// cheap to compare for the handful of types checked extremely often.
var (
	Bool           = &Elementary{Kind: ast.ElemBool}
	Address        = &Elementary{Kind: ast.ElemAddress}
	AddressPayable = &Elementary{Kind: ast.ElemAddressPayable}
	StringTy       = &Elementary{Kind: ast.ElemString}
	BytesTy        = &Elementary{Kind: ast.ElemBytes}
	Uint256        = &Elementary{Kind: ast.ElemUint, Width: 256}
	Int256         = &Elementary{Kind: ast.ElemInt, Width: 256}
)

// Equal reports structural equality of two resolved types.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch x := a.(type) {
	case *Elementary:
		y, ok := b.(*Elementary)
		return ok && x.Kind == y.Kind && x.Width == y.Width
	case *Array:
		y, ok := b.(*Array)
		return ok && x.Size == y.Size && Equal(x.Elem, y.Elem)
	case *Mapping:
		y, ok := b.(*Mapping)
		return ok && Equal(x.Key, y.Key) && Equal(x.Value, y.Value)
	case *Struct:
		y, ok := b.(*Struct)
		return ok && x.No == y.No
	case *Enum:
		y, ok := b.(*Enum)
		return ok && x.No == y.No
	case *Contract:
		y, ok := b.(*Contract)
		return ok && x.No == y.No
	case *UDVT:
		y, ok := b.(*UDVT)
		return ok && x.No == y.No
	case *Function:
		y, ok := b.(*Function)
		if !ok || len(x.Params) != len(y.Params) || len(x.Returns) != len(y.Returns) {
			return false
		}
		for i := range x.Params {
			if !Equal(x.Params[i], y.Params[i]) {
				return false
			}
		}
		return true
	case *Tuple:
		y, ok := b.(*Tuple)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case *Void:
		_, ok := b.(*Void)
		return ok
	}
	return false
}

// IsIntegral reports whether t is a uintN or intN elementary type.
func IsIntegral(t Type) bool {
	e, ok := Underlying(t).(*Elementary)
	return ok && (e.Kind == ast.ElemUint || e.Kind == ast.ElemInt)
}

// IsSigned reports whether t is an intN type.
func IsSigned(t Type) bool {
	e, ok := Underlying(t).(*Elementary)
	return ok && e.Kind == ast.ElemInt
}

// Underlying strips one or more UDVT wrappers, exposing the concrete
// representation type used for arithmetic, storage layout and ABI
// encoding.
func Underlying(t Type) Type {
	for {
		u, ok := t.(*UDVT)
		if !ok {
			return t
		}
		t = u.Underlying
	}
}

// IsValueType reports whether t is copied by value on assignment
// (elementary types, enums, UDVTs) rather than by reference (arrays,
// mappings, structs).
func IsValueType(t Type) bool {
	switch Underlying(t).(type) {
	case *Elementary, *Enum, *Contract:
		return true
	}
	return false
}
