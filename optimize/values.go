package optimize

import (
	"github.com/holiman/uint256"

	"github.com/solang-go/solang/cfgir"
)

func newZero() *uint256.Int { return new(uint256.Int) }

// sameValue reports whether a and b denote the same operand: the same
// variable, or literals of equal kind and value. Used by dataflow
// merges (array-length tracking, constant propagation) to decide
// whether two predecessors agree on a value without needing full
// value-numbering.
func sameValue(a, b cfgir.Value) bool {
	switch av := a.(type) {
	case cfgir.VarRef:
		bv, ok := b.(cfgir.VarRef)
		return ok && av.No == bv.No
	case cfgir.Literal:
		bv, ok := b.(cfgir.Literal)
		if !ok {
			return false
		}
		switch {
		case av.Int != nil:
			return bv.Int != nil && av.Neg == bv.Neg && av.Int.Eq(bv.Int)
		case av.Bool != nil:
			return bv.Bool != nil && *av.Bool == *bv.Bool
		case av.Str != nil:
			return bv.Str != nil && *av.Str == *bv.Str
		default:
			return bv.Int == nil && bv.Bool == nil && bv.Str == nil
		}
	default:
		return false
	}
}

// mergeValueState joins the exit-state maps of no's predecessors: a
// key survives only if every predecessor agrees on its value (by
// sameValue). A block with any predecessor reached later in lowering
// order than no itself (a loop header, or a forward join allocated
// before one of its arms; see isBackEdgeTarget) or an unreached block
// returns an empty map rather than guessing — both TrackArrayLengths and
// ConstantFold rely on this same conservative merge.
func mergeValueState(no cfgir.BlockNo, preds []cfgir.BlockNo, exitState []map[cfgir.VarNo]cfgir.Value) map[cfgir.VarNo]cfgir.Value {
	if len(preds) == 0 || isBackEdgeTarget(no, preds) {
		return map[cfgir.VarNo]cfgir.Value{}
	}
	merged := map[cfgir.VarNo]cfgir.Value{}
	for i, p := range preds {
		ps := exitState[p]
		if i == 0 {
			for k, v := range ps {
				merged[k] = v
			}
			continue
		}
		for k, v := range merged {
			pv, ok := ps[k]
			if !ok || !sameValue(pv, v) {
				delete(merged, k)
			}
		}
	}
	return merged
}

// literalOf extracts a cfgir.Literal from v, if v is one.
func literalOf(v cfgir.Value) (cfgir.Literal, bool) {
	lit, ok := v.(cfgir.Literal)
	return lit, ok
}

// intOf returns v's integer magnitude and sign if v is an integer
// literal.
func intOf(v cfgir.Value) (*uint256.Int, bool, bool) {
	lit, ok := literalOf(v)
	if !ok || lit.Int == nil {
		return nil, false, false
	}
	return lit.Int, lit.Neg, true
}

func boolOf(v cfgir.Value) (bool, bool) {
	lit, ok := literalOf(v)
	if !ok || lit.Bool == nil {
		return false, false
	}
	return *lit.Bool, true
}
