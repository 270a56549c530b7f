package optimize

import (
	"github.com/solang-go/solang/cfgir"
	"github.com/solang-go/solang/sema"
)

// VartableRenumber implements spec.md §4.5's final pass. It has two
// jobs: re-insert phi nodes at join points where a short-circuit/
// ternary temp's value differs across predecessors, then compact the
// vartable so every surviving VarNo is dense and every definition site
// unique (spec.md §8 "Invariants").
//
// Only compiler-introduced temps (cfgir/lower_expr.go's
// lowerShortCircuit/lowerTernary) get phi treatment: they are the one
// case CFG-IR leaves as a mutable memory cell specifically because
// "Phi-node insertion is deferred to ... the vartable-renumber pass"
// (see that file's comment on lowerShortCircuit). Declared locals and
// params stay as ordinary mutable memory slots — loops reassign them
// repeatedly across iterations, and folding that into phi form is a
// full loop-aware SSA construction this pass does not attempt.
func VartableRenumber(f *cfgir.Func) {
	temps := shortCircuitTemps(f)
	preds := predecessors(f)
	exitVal := make([]map[cfgir.VarNo]cfgir.Value, len(f.Blocks))

	for _, bb := range f.Blocks {
		exitVal[bb.No] = entryTempState(f, bb, preds[bb.No], exitVal, temps)
	}

	compactVarTable(f)
}

// shortCircuitTemps finds every VarNo written by OpStoreMemory that
// originates from no source variable and carries no name — exactly
// the temps newTemp() allocates for `&&`/`||`/`?:` results, never a
// declared local (which always has SourceVar set) or a compiler
// result temp (which is never an OpStoreMemory destination, since
// emit() assigns its Result directly).
func shortCircuitTemps(f *cfgir.Func) map[cfgir.VarNo]bool {
	temps := map[cfgir.VarNo]bool{}
	for _, bb := range f.Blocks {
		for _, in := range bb.Instrs {
			if in.Op != cfgir.OpStoreMemory || len(in.Args) != 2 {
				continue
			}
			dest, ok := varNoOf(in.Args[0])
			if !ok {
				continue
			}
			entry := f.Vars.Entry(dest)
			if entry.SourceVar == sema.NoVar && entry.Name == "" {
				temps[dest] = true
			}
		}
	}
	return temps
}

// entryTempState computes each temp's value on entry to bb, inserting
// an explicit OpPhi (immediately stored back into the temp's own slot,
// so every existing VarRef read of it keeps working unchanged) where
// predecessors disagree. A single predecessor's value carries straight
// through with no phi; a loop header falls back to whatever the
// block's own instructions establish, the same conservative fallback
// TrackArrayLengths uses for back edges.
func entryTempState(f *cfgir.Func, bb *cfgir.BasicBlock, preds []cfgir.BlockNo, exitVal []map[cfgir.VarNo]cfgir.Value, temps map[cfgir.VarNo]bool) map[cfgir.VarNo]cfgir.Value {
	state := map[cfgir.VarNo]cfgir.Value{}

	if len(preds) == 1 {
		for k, v := range exitVal[preds[0]] {
			state[k] = v
		}
	} else if len(preds) > 1 && !isBackEdgeTarget(bb.No, preds) {
		var phiInstrs []cfgir.Instr
		for temp := range temps {
			values := make([]cfgir.Value, len(preds))
			complete := true
			for i, p := range preds {
				v, ok := exitVal[p][temp]
				if !ok {
					complete = false
					break
				}
				values[i] = v
			}
			if !complete {
				continue
			}
			agree := true
			for i := 1; i < len(values); i++ {
				if !sameValue(values[i], values[0]) {
					agree = false
					break
				}
			}
			if agree {
				state[temp] = values[0]
				continue
			}
			ty := f.Vars.Entry(temp).Type
			result := f.Vars.New("", ty, cfgir.StorageMemory, sema.NoVar)
			edges := make([]cfgir.PhiEdge, len(preds))
			for i, p := range preds {
				edges[i] = cfgir.PhiEdge{Block: p, Var: materialize(f, p, values[i])}
			}
			phiInstrs = append(phiInstrs, cfgir.Instr{Op: cfgir.OpPhi, Result: result, Type: ty, PhiEdges: edges})
			phiInstrs = append(phiInstrs, cfgir.Instr{Result: cfgir.NoVar, Op: cfgir.OpStoreMemory, Args: []cfgir.Value{cfgir.VarRef{No: temp}, cfgir.VarRef{No: result}}})
			state[temp] = cfgir.VarRef{No: result}
		}
		if len(phiInstrs) > 0 {
			bb.Instrs = append(phiInstrs, bb.Instrs...)
		}
	}

	for _, in := range bb.Instrs {
		if in.Op == cfgir.OpStoreMemory && len(in.Args) == 2 {
			if dest, ok := varNoOf(in.Args[0]); ok && temps[dest] {
				state[dest] = in.Args[1]
			}
		}
	}
	return state
}

// materialize returns a VarNo carrying v at the end of pred: v itself
// if it is already a variable, or a freshly stored temp if it is a
// literal — cfgir.PhiEdge names a variable per predecessor, not an
// arbitrary value, so a literal predecessor value needs a home.
func materialize(f *cfgir.Func, pred cfgir.BlockNo, v cfgir.Value) cfgir.VarNo {
	if vr, ok := v.(cfgir.VarRef); ok {
		return vr.No
	}
	bb := f.Block(pred)
	nv := f.Vars.New("", literalType(v), cfgir.StorageMemory, sema.NoVar)
	bb.Instrs = append(bb.Instrs, cfgir.Instr{Result: cfgir.NoVar, Op: cfgir.OpStoreMemory, Args: []cfgir.Value{cfgir.VarRef{No: nv}, v}})
	return nv
}

func literalType(v cfgir.Value) sema.Type {
	lit, ok := v.(cfgir.Literal)
	if !ok {
		return sema.Uint256
	}
	switch {
	case lit.Bool != nil:
		return sema.Bool
	case lit.Str != nil:
		return sema.BytesTy
	default:
		return sema.Uint256
	}
}

// compactVarTable drops every vartable entry nothing references
// anymore (DeadCodeEliminate can leave gaps) and renumbers the
// survivors densely from zero.
func compactVarTable(f *cfgir.Func) {
	used := make(map[cfgir.VarNo]bool)
	mark := func(v cfgir.Value) {
		if vn, ok := varNoOf(v); ok {
			used[vn] = true
		}
	}
	for _, pv := range f.Params {
		used[pv] = true
	}
	for _, rv := range f.Returns {
		used[rv] = true
	}
	for _, bb := range f.Blocks {
		for _, in := range bb.Instrs {
			if in.Result != cfgir.NoVar {
				used[in.Result] = true
			}
			for _, a := range in.Args {
				mark(a)
			}
			mark(in.Slot)
			mark(in.CallVal)
			mark(in.Gas)
			for _, e := range in.PhiEdges {
				used[e.Var] = true
			}
		}
		switch t := bb.Term.(type) {
		case cfgir.TermBranchCond:
			mark(t.Cond)
		case cfgir.TermReturn:
			for _, v := range t.Values {
				mark(v)
			}
		}
	}

	remap := make(map[cfgir.VarNo]cfgir.VarNo, len(used))
	newEntries := make([]cfgir.VarEntry, 0, len(used))
	for old := cfgir.VarNo(0); int(old) < len(f.Vars.Entries); old++ {
		if !used[old] {
			continue
		}
		remap[old] = cfgir.VarNo(len(newEntries))
		newEntries = append(newEntries, f.Vars.Entries[old])
	}
	f.Vars.Entries = newEntries

	renumber := func(v cfgir.Value) cfgir.Value {
		if vr, ok := v.(cfgir.VarRef); ok {
			if nv, ok := remap[vr.No]; ok {
				return cfgir.VarRef{No: nv}
			}
		}
		return v
	}
	for i, pv := range f.Params {
		f.Params[i] = remap[pv]
	}
	for i, rv := range f.Returns {
		f.Returns[i] = remap[rv]
	}
	for _, bb := range f.Blocks {
		for i := range bb.Instrs {
			in := &bb.Instrs[i]
			if in.Result != cfgir.NoVar {
				in.Result = remap[in.Result]
			}
			for j, a := range in.Args {
				in.Args[j] = renumber(a)
			}
			in.Slot = renumber(in.Slot)
			in.CallVal = renumber(in.CallVal)
			in.Gas = renumber(in.Gas)
			for j, e := range in.PhiEdges {
				in.PhiEdges[j].Var = remap[e.Var]
			}
		}
		switch t := bb.Term.(type) {
		case cfgir.TermBranchCond:
			bb.Term = cfgir.TermBranchCond{Cond: renumber(t.Cond), True: t.True, False: t.False}
		case cfgir.TermReturn:
			vals := make([]cfgir.Value, len(t.Values))
			for i, v := range t.Values {
				vals[i] = renumber(v)
			}
			bb.Term = cfgir.TermReturn{Values: vals}
		}
	}
}
