package sema

import (
	"github.com/solang-go/solang/ast"
	"github.com/solang-go/solang/diag"
)

// collect is sema's first pass: it walks every source unit and
// registers every named declaration, without yet resolving any type
// expression or linearizing inheritance. It mirrors the teacher's gta
// pass, which likewise only records names and arities before any
// scope-sensitive resolution happens (DESIGN.md).
func collect(ns *Namespace, units []*ast.SourceUnit, bag *diag.Bag) {
	for _, u := range units {
		for _, part := range u.Parts {
			collectSourceUnitPart(ns, NoContract, part, bag)
		}
	}
}

func collectSourceUnitPart(ns *Namespace, owner ContractNo, part ast.SourceUnitPart, bag *diag.Bag) {
	switch p := part.(type) {
	case *ast.ContractDefinition:
		collectContract(ns, p, bag)
	case *ast.StructDefinition:
		no := ns.addStruct(StructInfo{Name: p.Name, Contract: owner, Span: p.Sp})
		collectStructFields(ns, no, p, owner, bag)
		ns.FreeStructs[p.Name] = no
	case *ast.EnumDefinition:
		no := ns.addEnum(EnumInfo{Name: p.Name, Contract: owner, Members: p.Members, Span: p.Sp})
		ns.FreeEnums[p.Name] = no
	case *ast.UserDefinedValueType:
		no := ns.addUDVT(UDVTInfo{Name: p.Name, Contract: owner, Span: p.Sp, declType: p.Underlying})
		ns.FreeUDVTs[p.Name] = no
	case *ast.ErrorDefinition:
		no := collectError(ns, p, owner, bag)
		ns.FreeErrors[p.Name] = no
	case *ast.FunctionDefinition:
		no := collectFunction(ns, p, owner, bag)
		ns.FreeFunctionsByName[p.Name] = append(ns.FreeFunctionsByName[p.Name], no)
	case *ast.VariableDeclaration:
		kind := VarStateConstant
		if !p.Constant {
			bag.Errorf(diag.KindNameResolution, p.Sp, "file-level variable %q must be constant", p.Name)
		}
		no := ns.addVar(VarInfo{Name: p.Name, Kind: kind, Storage: p.Storage, Span: p.Sp, Contract: owner, declType: p.Type, Init: p.Value})
		ns.FreeConstants[p.Name] = no
	case *ast.PragmaDirective, *ast.ImportDirective, *ast.UsingDirective:
		// imports are handled by the resolver/compiler layer; pragmas
		// and using-for directives are not registered anywhere (no
		// UsingBinding is created for them).
	}
}

func collectContract(ns *Namespace, cd *ast.ContractDefinition, bag *diag.Bag) {
	if _, dup := ns.ContractByName(cd.Name); dup {
		bag.Errorf(diag.KindNameResolution, cd.Sp, "contract %q already declared", cd.Name)
		return
	}
	var baseNames []string
	for _, b := range cd.Bases {
		baseNames = append(baseNames, b.Name)
	}
	no := ns.addContract(ContractInfo{
		Name:      cd.Name,
		Kind:      cd.Kind,
		Abstract:  cd.Abstract,
		Decl:      cd,
		Span:      cd.Sp,
		BaseNames: baseNames,
	})

	for _, part := range cd.Parts {
		collectContractPart(ns, no, part, bag)
	}
}

func collectContractPart(ns *Namespace, owner ContractNo, part ast.ContractPart, bag *diag.Bag) {
	ci := ns.Contract(owner)
	switch p := part.(type) {
	case *ast.StructDefinition:
		no := ns.addStruct(StructInfo{Name: p.Name, Contract: owner, Span: p.Sp})
		collectStructFields(ns, no, p, owner, bag)
		ci.Structs = append(ci.Structs, no)
	case *ast.EnumDefinition:
		no := ns.addEnum(EnumInfo{Name: p.Name, Contract: owner, Members: p.Members, Span: p.Sp})
		ci.Enums = append(ci.Enums, no)
	case *ast.UserDefinedValueType:
		no := ns.addUDVT(UDVTInfo{Name: p.Name, Contract: owner, Span: p.Sp, declType: p.Underlying})
		ci.UDVTs = append(ci.UDVTs, no)
	case *ast.EventDefinition:
		no := collectEvent(ns, p, owner, bag)
		ci.Events = append(ci.Events, no)
	case *ast.ErrorDefinition:
		no := collectError(ns, p, owner, bag)
		ci.Errors = append(ci.Errors, no)
	case *ast.FunctionDefinition:
		no := collectFunction(ns, p, owner, bag)
		ci.Functions = append(ci.Functions, no)
	case *ast.VariableDeclaration:
		kind := VarStateStorage
		switch {
		case p.Constant:
			kind = VarStateConstant
		case p.Immutable:
			kind = VarStateImmutable
		}
		no := ns.addVar(VarInfo{Name: p.Name, Kind: kind, Storage: p.Storage, Span: p.Sp, Contract: owner, declType: p.Type, Init: p.Value})
		ci.StateVars = append(ci.StateVars, no)
	}
}

func collectStructFields(ns *Namespace, structNo StructNo, sd *ast.StructDefinition, owner ContractNo, bag *diag.Bag) {
	si := ns.Struct(structNo)
	for _, f := range sd.Fields {
		no := ns.addVar(VarInfo{Name: f.Name, Kind: VarLocal, Span: f.Sp, Contract: owner, declType: f.Type})
		si.Fields = append(si.Fields, no)
	}
}

func collectEvent(ns *Namespace, ed *ast.EventDefinition, owner ContractNo, bag *diag.Bag) EventNo {
	var params []VarNo
	for _, ep := range ed.Params {
		params = append(params, ns.addVar(VarInfo{Name: ep.Name, Kind: VarParam, Span: ep.Sp, Contract: owner, declType: ep.Type}))
	}
	return ns.addEvent(EventInfo{Name: ed.Name, Contract: owner, Params: params, Anonymous: ed.Anonymous, Span: ed.Sp})
}

func collectError(ns *Namespace, ed *ast.ErrorDefinition, owner ContractNo, bag *diag.Bag) ErrorNo {
	var params []VarNo
	for _, ep := range ed.Params {
		params = append(params, ns.addVar(VarInfo{Name: ep.Name, Kind: VarParam, Span: ep.Sp, Contract: owner, declType: ep.Type}))
	}
	return ns.addError(ErrorInfo{Name: ed.Name, Contract: owner, Params: params, Span: ed.Sp})
}

func collectFunction(ns *Namespace, fd *ast.FunctionDefinition, owner ContractNo, bag *diag.Bag) FunctionNo {
	var params, returns []VarNo
	for _, p := range fd.Params {
		params = append(params, ns.addVar(VarInfo{Name: p.Name, Kind: VarParam, Storage: p.Storage, Span: p.Sp, Contract: owner, declType: p.Type}))
	}
	for _, r := range fd.Returns {
		returns = append(returns, ns.addVar(VarInfo{Name: r.Name, Kind: VarReturn, Storage: r.Storage, Span: r.Sp, Contract: owner, declType: r.Type}))
	}
	no := ns.addFunction(FunctionInfo{
		Name:       fd.Name,
		Kind:       fd.Kind,
		Contract:   owner,
		Params:     params,
		Returns:    returns,
		Visibility: fd.Visibility,
		Mutability: fd.Mutability,
		Virtual:    fd.Virtual,
		Modifiers:  fd.Modifiers,
		Decl:       fd,
		Span:       fd.Sp,
	})
	if owner == NoContract {
		ns.FreeFunctions = append(ns.FreeFunctions, no)
	}
	return no
}
