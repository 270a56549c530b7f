package sema

import (
	"github.com/solang-go/solang/diag"
)

// resolveSignatures converts every declaration's syntactic type into
// a resolved sema.Type: struct fields, event/error parameters,
// function parameters/returns (from which each function's call
// signature is built for overload resolution), and state/file-level
// variables. It runs after linearizeAll so NamedType lookups can see
// inherited members.
func resolveSignatures(ns *Namespace, bag *diag.Bag) {
	// UDVTs resolve first: struct fields, parameters and other
	// variables may themselves be a UDVT, and need its Underlying
	// already filled in.
	for i := range ns.UDVTs {
		ui := &ns.UDVTs[i]
		if ui.declType != nil {
			ui.Underlying = ns.resolveType(ui.Contract, ui.declType, bag)
		}
	}
	for i := range ns.Structs {
		si := &ns.Structs[i]
		for _, vn := range si.Fields {
			resolveVarType(ns, vn, bag)
		}
	}
	for i := range ns.Events {
		ei := &ns.Events[i]
		for _, vn := range ei.Params {
			resolveVarType(ns, vn, bag)
		}
	}
	for i := range ns.Errors {
		ei := &ns.Errors[i]
		for _, vn := range ei.Params {
			resolveVarType(ns, vn, bag)
		}
	}
	for i := range ns.Functions {
		fi := &ns.Functions[i]
		var params, returns []Type
		for _, vn := range fi.Params {
			params = append(params, resolveVarType(ns, vn, bag))
		}
		for _, vn := range fi.Returns {
			returns = append(returns, resolveVarType(ns, vn, bag))
		}
		fi.Type = &Function{Params: params, Returns: returns, Visibility: fi.Visibility, Mutability: fi.Mutability}
	}
	for i := range ns.Vars {
		if ns.Vars[i].Type == nil {
			resolveVarType(ns, VarNo(i), bag)
		}
	}
}

func resolveVarType(ns *Namespace, vn VarNo, bag *diag.Bag) Type {
	v := ns.Var(vn)
	if v.Type != nil {
		return v.Type
	}
	if v.declType == nil {
		return nil
	}
	v.Type = ns.resolveType(v.Contract, v.declType, bag)
	return v.Type
}
