// Package optimize runs the fixed IR-to-IR pass pipeline spec.md §4.5
// describes over a lowered cfgir.Func: array-length tracking, constant
// propagation/folding, dead-code elimination, strength reduction, and
// a final vartable renumber that compacts variable numbers and
// inserts phi nodes for short-circuit and ternary result temps at
// their join points. The first four passes run in that fixed order,
// repeated until no pass in a round reports a change or a bounded
// iteration cap is hit (spec.md §5 "a hard iteration cap ... bounds
// optimizer fixpoint loops"); the renumber then runs once. No pass may
// emit a diagnostic (spec.md
// §4.5 "Each pass emits no new diagnostics; it only transforms IR").
package optimize

import "github.com/solang-go/solang/cfgir"

// MaxFixpointRounds bounds the constant-propagation/DCE/strength-
// reduction fixpoint loop. spec.md §9 leaves the exact cap
// implementation-chosen; 16 is generous for the block counts a single
// Solidity function produces and keeps a pathological input from
// looping the compiler forever.
const MaxFixpointRounds = 16

// Pipeline runs every pass over f in place and returns f for
// convenience chaining.
func Pipeline(f *cfgir.Func) *cfgir.Func {
	for round := 0; round < MaxFixpointRounds; round++ {
		changed := false
		changed = TrackArrayLengths(f) || changed
		changed = ConstantFold(f) || changed
		changed = DeadCodeEliminate(f) || changed
		changed = StrengthReduce(f) || changed
		if !changed {
			break
		}
	}
	VartableRenumber(f)
	return f
}

// varNoOf reports the VarNo a Value names, if it is a VarRef; literals
// have no variable identity.
func varNoOf(v cfgir.Value) (cfgir.VarNo, bool) {
	vr, ok := v.(cfgir.VarRef)
	return vr.No, ok
}

// predecessors returns, for each block, the BlockNo of every block
// whose terminator can transfer control to it.
func predecessors(f *cfgir.Func) [][]cfgir.BlockNo {
	preds := make([][]cfgir.BlockNo, len(f.Blocks))
	for _, bb := range f.Blocks {
		for _, succ := range successors(bb.Term) {
			preds[succ] = append(preds[succ], bb.No)
		}
	}
	return preds
}

// successors returns the block numbers term can transfer control to.
func successors(term cfgir.Terminator) []cfgir.BlockNo {
	switch t := term.(type) {
	case cfgir.TermBranch:
		return []cfgir.BlockNo{t.Target}
	case cfgir.TermBranchCond:
		return []cfgir.BlockNo{t.True, t.False}
	default:
		return nil
	}
}

// isBackEdgeTarget reports whether some predecessor of bb comes later
// in lowering order (BlockNo >= bb.No). That holds for every loop
// header (the branch closing a loop body back to its head), and also
// for forward joins whose block is allocated before an arm that opens
// blocks of its own: an if without else, a loop exit reached by a
// break, and the ternary and short-circuit joins. Only an if/else join
// is allocated after both arms. Callers treat every such block like a
// loop header.
func isBackEdgeTarget(bb cfgir.BlockNo, preds []cfgir.BlockNo) bool {
	for _, p := range preds {
		if p >= bb {
			return true
		}
	}
	return false
}
