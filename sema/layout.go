package sema

import (
	"math/big"

	"github.com/solang-go/solang/ast"
)

// layoutAll assigns a storage slot and byte offset to every storage
// variable of every contract (spec.md §4.3 "Storage Layout"),
// following Solidity's own packing rule: scalars smaller than 32
// bytes are packed left-to-right into the current slot while they
// fit, and any reference type (dynamic array, mapping, string,
// bytes, struct, fixed array) always starts a fresh slot. Constant
// and immutable variables consume no storage slot at all.
func layoutAll(ns *Namespace) {
	for no := range ns.Contracts {
		ci := ns.Contract(ContractNo(no))
		if ci.Kind == ast.KindInterface {
			continue
		}
		layoutContract(ns, ci)
	}
}

func layoutContract(ns *Namespace, ci *ContractInfo) {
	slot := new(big.Int)
	offset := 0
	for _, vn := range ci.StateVars {
		v := ns.Var(vn)
		if v.Kind != VarStateStorage {
			continue
		}
		size, packable := storageSize(v.Type)
		if !packable || offset+size > 32 {
			if offset > 0 {
				slot = new(big.Int).Add(slot, big.NewInt(1))
				offset = 0
			}
		}
		v.Slot = new(big.Int).Set(slot)
		v.Offset = offset
		if packable {
			offset += size
			if offset == 32 {
				slot = new(big.Int).Add(slot, big.NewInt(1))
				offset = 0
			}
		} else {
			slot = new(big.Int).Add(slot, big.NewInt(int64(storageSlots(v.Type))))
			offset = 0
		}
	}
	if offset > 0 {
		slot = new(big.Int).Add(slot, big.NewInt(1))
	}
	ci.StorageSize = slot
}

// storageSize returns an elementary/enum/UDVT scalar's width in bytes
// and whether it is eligible for slot packing. Reference types
// (arrays, mappings, strings, dynamic bytes, structs) are never
// packed: they report packable=false and occupy whole slots via
// storageSlots instead.
func storageSize(t Type) (bytes int, packable bool) {
	switch x := Underlying(t).(type) {
	case *Elementary:
		switch x.Kind {
		case ast.ElemBool:
			return 1, true
		case ast.ElemAddress, ast.ElemAddressPayable:
			return 20, true
		case ast.ElemUint, ast.ElemInt:
			return x.Width / 8, true
		case ast.ElemBytesN:
			return x.Width, true
		default: // string, dynamic bytes
			return 32, false
		}
	case *Enum:
		return 1, true
	case *Contract:
		return 20, true
	default:
		return 32, false
	}
}

// storageSlots returns the number of whole 32-byte slots a
// non-packable (reference) type's own header occupies. Solidity's
// dynamic arrays/mappings/strings store only a length (or nothing, for
// mappings) inline and keep element data at a keccak-derived offset;
// fixed-size arrays and structs are sized by their element count. This
// function models only the inline header/slot count needed to keep
// subsequent variables' slot numbers correct, not full recursive
// layout of nested aggregates — out of scope for target codegen hooks
// that haven't been implemented yet (SPEC_FULL.md DOMAIN STACK).
func storageSlots(t Type) int {
	switch x := Underlying(t).(type) {
	case *Array:
		if x.Size < 0 {
			return 1 // length slot; elements live at keccak256(slot)
		}
		elemSize, packable := storageSize(x.Elem)
		if !packable {
			return x.Size
		}
		perSlot := 32 / elemSize
		if perSlot < 1 {
			perSlot = 1
		}
		slots := x.Size / perSlot
		if x.Size%perSlot != 0 {
			slots++
		}
		if slots < 1 {
			slots = 1
		}
		return slots
	case *Struct:
		return 1 // simplified: struct fields are not individually laid out here
	default:
		return 1
	}
}
