// Package abi builds the structured ABI descriptor spec.md §6 requires
// in a CompiledUnit's output ({ function selectors, parameter type
// descriptors, event topics, error selectors }) and computes the
// Keccak-256 selectors/topics it is built from. A target.Hooks
// implementation calls into this package rather than hashing
// signatures itself, the same separation spec.md §4.6 draws between
// "the core produces CFG-IR" and "hooks lower it further."
package abi

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/solang-go/solang/ast"
	"github.com/solang-go/solang/sema"
)

// Param is one ABI-level parameter: a name (may be empty) plus its
// canonical type signature and, for structs, its decomposed
// components (the "tuple" ABI shape).
type Param struct {
	Name       string
	Type       string
	Indexed    bool // never set by paramsOf, so always false, event params included
	Components []Param
}

// FunctionDescriptor is one exported function's ABI entry.
type FunctionDescriptor struct {
	Name       string
	Selector   [4]byte
	Inputs     []Param
	Outputs    []Param
	Mutability ast.Mutability
}

// EventDescriptor is one event's ABI entry; Topic0 is the keccak256 of
// its canonical signature, the implicit first topic slot unless the
// event is declared `anonymous`.
type EventDescriptor struct {
	Name      string
	Topic0    [32]byte
	Anonymous bool
	Inputs    []Param
}

// ErrorDescriptor is one custom error's ABI entry; its Selector uses
// the same four-byte keccak256 truncation as a function selector
// (Solidity custom errors and functions share one selector space).
type ErrorDescriptor struct {
	Name     string
	Selector [4]byte
	Inputs   []Param
}

// ContractABI is the full per-contract ABI descriptor (spec.md §6's
// "ABI descriptor" component of a CompiledUnit's per-contract record).
type ContractABI struct {
	Contract  string
	Functions []FunctionDescriptor
	Events    []EventDescriptor
	Errors    []ErrorDescriptor
}

// Build computes the ABI descriptor for one contract. Only functions
// with an external-facing visibility are exported, matching the
// "public functions are selected at runtime" boundary spec.md §4.6
// assigns to entry_point_layout().
func Build(ns *sema.Namespace, cn sema.ContractNo) *ContractABI {
	ci := ns.Contract(cn)
	out := &ContractABI{Contract: ci.Name}

	for _, fn := range ci.Functions {
		fi := ns.Function(fn)
		if fi.Kind != ast.FuncOrdinary && fi.Kind != ast.FuncConstructor && fi.Kind != ast.FuncFallback && fi.Kind != ast.FuncReceive {
			continue
		}
		if fi.Visibility != ast.VisPublic && fi.Visibility != ast.VisExternal {
			continue
		}
		inputs := paramsOf(ns, fi.Params)
		outputs := paramsOf(ns, fi.Returns)
		out.Functions = append(out.Functions, FunctionDescriptor{
			Name:       fi.Name,
			Selector:   FunctionSelector(fi.Name, inputs),
			Inputs:     inputs,
			Outputs:    outputs,
			Mutability: fi.Mutability,
		})
	}

	for _, en := range ci.Events {
		ei := ns.Event(en)
		inputs := paramsOf(ns, ei.Params)
		out.Events = append(out.Events, EventDescriptor{
			Name:      ei.Name,
			Topic0:    EventTopic(ei.Name, inputs),
			Anonymous: ei.Anonymous,
			Inputs:    inputs,
		})
	}

	for _, errNo := range ci.Errors {
		eri := ns.Error(errNo)
		inputs := paramsOf(ns, eri.Params)
		out.Errors = append(out.Errors, ErrorDescriptor{
			Name:     eri.Name,
			Selector: FunctionSelector(eri.Name, inputs),
			Inputs:   inputs,
		})
	}

	return out
}

func paramsOf(ns *sema.Namespace, vars []sema.VarNo) []Param {
	params := make([]Param, len(vars))
	for i, vn := range vars {
		vi := ns.Var(vn)
		params[i] = toParam(ns, vi.Name, vi.Type)
	}
	return params
}

func toParam(ns *sema.Namespace, name string, t sema.Type) Param {
	if st, ok := sema.Underlying(t).(*sema.Struct); ok {
		si := ns.Struct(st.No)
		var comps []Param
		for _, fieldVar := range si.Fields {
			fi := ns.Var(fieldVar)
			comps = append(comps, toParam(ns, fi.Name, fi.Type))
		}
		return Param{Name: name, Type: "tuple", Components: comps}
	}
	return Param{Name: name, Type: CanonicalType(t)}
}

// CanonicalType returns the Solidity ABI canonical type string for t
// (spec.md §6 "parameter type descriptors").
func CanonicalType(t sema.Type) string {
	switch u := sema.Underlying(t).(type) {
	case *sema.Elementary:
		switch u.Kind {
		case ast.ElemAddress, ast.ElemAddressPayable:
			return "address"
		case ast.ElemBool:
			return "bool"
		case ast.ElemString:
			return "string"
		case ast.ElemBytes:
			return "bytes"
		case ast.ElemBytesN:
			return fmt.Sprintf("bytes%d", u.Width)
		case ast.ElemUint:
			return fmt.Sprintf("uint%d", u.Width)
		case ast.ElemInt:
			return fmt.Sprintf("int%d", u.Width)
		}
		return "bytes32"
	case *sema.Array:
		if u.Size < 0 {
			return CanonicalType(u.Elem) + "[]"
		}
		return fmt.Sprintf("%s[%d]", CanonicalType(u.Elem), u.Size)
	case *sema.Enum:
		return "uint8"
	case *sema.Contract:
		return "address"
	case *sema.Struct:
		return "tuple"
	case *sema.Mapping:
		// mappings cannot appear in ABI-encoded positions; callers
		// should never reach this, but a readable placeholder beats a
		// panic deep in a hashing routine.
		return "mapping"
	default:
		return "bytes32"
	}
}

// signature builds the canonical "name(type1,type2,...)" string a
// selector/topic hash is computed over.
func signature(name string, params []Param) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		if p.Type == "tuple" {
			b.WriteByte('(')
			for j, c := range p.Components {
				if j > 0 {
					b.WriteByte(',')
				}
				b.WriteString(c.Type)
			}
			b.WriteByte(')')
			continue
		}
		b.WriteString(p.Type)
	}
	b.WriteByte(')')
	return b.String()
}

// Keccak256 hashes data with the canonical (non-NIST-padded) Keccak
// sponge, matching Ethereum's ABI selector/topic convention (spec.md
// §6 selectors; SPEC_FULL.md DOMAIN STACK "Keccak-256 for ABI
// selectors").
func Keccak256(data []byte) [32]byte {
	var out [32]byte
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	h.Sum(out[:0])
	return out
}

// FunctionSelector is the first four bytes of keccak256(signature) —
// shared by ordinary functions and custom errors.
func FunctionSelector(name string, params []Param) [4]byte {
	h := Keccak256([]byte(signature(name, params)))
	var sel [4]byte
	copy(sel[:], h[:4])
	return sel
}

// EventTopic is the full 32-byte keccak256(signature) used as an
// event's implicit topic 0.
func EventTopic(name string, params []Param) [32]byte {
	return Keccak256([]byte(signature(name, params)))
}
