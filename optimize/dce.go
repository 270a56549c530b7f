package optimize

import "github.com/solang-go/solang/cfgir"

// purifiableOps are the Ops DeadCodeEliminate is allowed to drop when
// their Result is unused. Storage/memory writes, calls, ABI encode/
// decode and Print are never in this set — spec.md §4.5 "Side effects
// include storage writes, external calls, AssertFailure, Print".
var purifiableOps = map[cfgir.Op]bool{
	cfgir.OpAdd: true, cfgir.OpSub: true, cfgir.OpMul: true, cfgir.OpDiv: true,
	cfgir.OpMod: true, cfgir.OpPow: true, cfgir.OpAnd: true, cfgir.OpOr: true,
	cfgir.OpXor: true, cfgir.OpShl: true, cfgir.OpShr: true, cfgir.OpEq: true,
	cfgir.OpNeq: true, cfgir.OpLt: true, cfgir.OpLe: true, cfgir.OpGt: true,
	cfgir.OpGe: true, cfgir.OpNot: true, cfgir.OpBitNot: true, cfgir.OpNeg: true,
	cfgir.OpCastSignExt: true, cfgir.OpCastZeroExt: true, cfgir.OpCastTruncate: true,
	cfgir.OpCastBit: true, cfgir.OpLoadStorage: true, cfgir.OpLoadMemory: true,
	cfgir.OpLoadCalldata: true, cfgir.OpArrayLength: true, cfgir.OpKeccak256: true,
	cfgir.OpAllocDynamicArray: true, cfgir.OpPhi: true,
}

// DeadCodeEliminate implements spec.md §4.5's dead-code-elimination
// pass: an instruction with a result nothing later reads, and whose
// op is in purifiableOps, is removed.
func DeadCodeEliminate(f *cfgir.Func) bool {
	used := usedVars(f)
	changed := false
	for _, bb := range f.Blocks {
		kept := bb.Instrs[:0]
		for _, in := range bb.Instrs {
			if in.Result != cfgir.NoVar && purifiableOps[in.Op] && !used[in.Result] {
				changed = true
				continue
			}
			kept = append(kept, in)
		}
		bb.Instrs = kept
	}
	return changed
}

func usedVars(f *cfgir.Func) map[cfgir.VarNo]bool {
	used := make(map[cfgir.VarNo]bool)
	mark := func(v cfgir.Value) {
		if vn, ok := varNoOf(v); ok {
			used[vn] = true
		}
	}
	for _, rv := range f.Returns {
		used[rv] = true
	}
	for _, bb := range f.Blocks {
		for _, in := range bb.Instrs {
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
	return used
}
