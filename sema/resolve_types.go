package sema

import (
	"strings"

	"github.com/solang-go/solang/ast"
	"github.com/solang-go/solang/diag"
)

// evalSimpleConstInt folds the narrow subset of constant expressions
// legal as an array-length bound at type-resolution time, before the
// full constant-evaluation pass has run: a bare decimal or hex integer
// literal. Any other length expression, a named constant included, is
// not folded here, and resolveType reports it as an error.
func evalSimpleConstInt(e ast.Expr) (int, bool) {
	n, ok := e.(*ast.NumberLit)
	if !ok || n.Denom != "" {
		return 0, false
	}
	raw := strings.ReplaceAll(n.Raw, "_", "")
	base := 10
	if n.IsHex {
		base = 16
		raw = strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "0X")
	}
	var v int
	for _, r := range raw {
		d := -1
		switch {
		case r >= '0' && r <= '9':
			d = int(r - '0')
		case base == 16 && r >= 'a' && r <= 'f':
			d = int(r-'a') + 10
		case base == 16 && r >= 'A' && r <= 'F':
			d = int(r-'A') + 10
		}
		if d < 0 {
			return 0, false
		}
		v = v*base + d
	}
	return v, true
}

// resolveType converts a purely syntactic ast.Type into a resolved
// sema.Type, looking up NamedType paths first against the contract
// currently being checked (including its inherited members), then
// against file-level declarations. within is NoContract when
// resolving a free function's signature or a file-level constant.
func (ns *Namespace) resolveType(within ContractNo, t ast.Type, bag *diag.Bag) Type {
	switch x := t.(type) {
	case *ast.ElementaryType:
		return &Elementary{Kind: x.Kind, Width: x.Width}
	case *ast.ArrayType:
		elem := ns.resolveType(within, x.Elem, bag)
		size := -1
		if x.Size != nil {
			n, ok := evalSimpleConstInt(x.Size)
			if !ok {
				bag.Errorf(diag.KindConstOverflow, x.Size.Span(), "array length must be a constant integer literal")
				n = 0
			}
			size = n
		}
		return &Array{Elem: elem, Size: size}
	case *ast.MappingType:
		return &Mapping{Key: ns.resolveType(within, x.Key, bag), Value: ns.resolveType(within, x.Value, bag)}
	case *ast.FunctionType:
		fn := &Function{Visibility: x.Visibility, Mutability: x.Mutability}
		for _, p := range x.Params {
			fn.Params = append(fn.Params, ns.resolveType(within, p, bag))
		}
		for _, r := range x.Returns {
			fn.Returns = append(fn.Returns, ns.resolveType(within, r, bag))
		}
		return fn
	case *ast.NamedType:
		return ns.resolveNamedType(within, x, bag)
	default:
		bag.Internal(t.Span(), "unhandled ast.Type %T", t)
		return Uint256
	}
}

func (ns *Namespace) resolveNamedType(within ContractNo, nt *ast.NamedType, bag *diag.Bag) Type {
	if len(nt.Path) == 2 {
		// `Lib.Name`: Name must be a member of contract/library Lib.
		libNo, ok := ns.ContractByName(nt.Path[0])
		if !ok {
			bag.Errorf(diag.KindType, nt.Sp, "undeclared identifier %q", nt.Path[0])
			return Uint256
		}
		return ns.resolveMemberType(libNo, nt.Path[1], nt, bag)
	}
	name := nt.Path[0]
	if within != NoContract {
		ci := ns.Contract(within)
		if no, ok := ci.StructsByName[name]; ok {
			return &Struct{No: no, Name: name}
		}
		if no, ok := ci.EnumsByName[name]; ok {
			return &Enum{No: no, Name: name}
		}
		if no, ok := ci.UDVTsByName[name]; ok {
			return &UDVT{No: no, Name: name, Underlying: ns.UDVT(no).Underlying}
		}
	}
	if no, ok := ns.FreeStructs[name]; ok {
		return &Struct{No: no, Name: name}
	}
	if no, ok := ns.FreeEnums[name]; ok {
		return &Enum{No: no, Name: name}
	}
	if no, ok := ns.FreeUDVTs[name]; ok {
		return &UDVT{No: no, Name: name, Underlying: ns.UDVT(no).Underlying}
	}
	if cno, ok := ns.ContractByName(name); ok {
		return &Contract{No: cno, Name: name}
	}
	bag.Errorf(diag.KindType, nt.Sp, "undeclared type %q", name)
	return Uint256
}

func (ns *Namespace) resolveMemberType(owner ContractNo, name string, nt *ast.NamedType, bag *diag.Bag) Type {
	ci := ns.Contract(owner)
	if no, ok := ci.StructsByName[name]; ok {
		return &Struct{No: no, Name: name}
	}
	if no, ok := ci.EnumsByName[name]; ok {
		return &Enum{No: no, Name: name}
	}
	if no, ok := ci.UDVTsByName[name]; ok {
		return &UDVT{No: no, Name: name, Underlying: ns.UDVT(no).Underlying}
	}
	bag.Errorf(diag.KindType, nt.Sp, "%q has no member type %q", ci.Name, name)
	return Uint256
}

// lookupEnum resolves an unqualified enum name visible from within
// the contract currently being checked (used by constant evaluation
// for `EnumName.Member` expressions).
func (c *checker) lookupEnum(name string) (EnumNo, bool) {
	if c.contract != NoContract {
		if no, ok := c.ns.Contract(c.contract).EnumsByName[name]; ok {
			return no, true
		}
	}
	no, ok := c.ns.FreeEnums[name]
	return no, ok
}
