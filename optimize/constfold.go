package optimize

import (
	"github.com/holiman/uint256"

	"github.com/solang-go/solang/cfgir"
	"github.com/solang-go/solang/sema"
)

// ConstantFold implements spec.md §4.5's constant-propagation-and-
// folding pass. It walks blocks in allocation order, substituting
// known-constant operands into each instruction's Args and into a
// Return terminator's values, and folding
// arithmetic/comparison/cast ops whose operands are all literal after
// substitution; a branch condition that folds to a literal bool has
// its unreachable successor pruned (spec.md §4.5 "Branch conditions
// that fold to constants prune unreachable successors"). Per-variable
// constant knowledge merges across predecessors the same conservative
// way TrackArrayLengths does: disagreement or a loop header drops the
// fact rather than guessing.
func ConstantFold(f *cfgir.Func) bool {
	preds := predecessors(f)
	exitState := make([]map[cfgir.VarNo]cfgir.Value, len(f.Blocks))
	changed := false

	for _, bb := range f.Blocks {
		state := mergeValueState(bb.No, preds[bb.No], exitState)

		for i := range bb.Instrs {
			in := &bb.Instrs[i]
			for j, arg := range in.Args {
				if vn, ok := varNoOf(arg); ok {
					if known, ok := state[vn]; ok {
						in.Args[j] = known
						changed = true
					}
				}
			}

			if in.Op == cfgir.OpStoreMemory && len(in.Args) == 2 {
				if dest, ok := varNoOf(in.Args[0]); ok {
					if lit, ok := literalOf(in.Args[1]); ok {
						state[dest] = lit
					} else if vn, ok := varNoOf(in.Args[1]); ok {
						if known, ok := state[vn]; ok {
							state[dest] = known
						} else {
							delete(state, dest)
						}
					} else {
						delete(state, dest)
					}
				}
				continue
			}

			if in.Result != cfgir.NoVar {
				if folded, ok := foldInstr(in); ok {
					state[in.Result] = folded
					changed = true
				}
			}
		}

		if tc, ok := bb.Term.(cfgir.TermBranchCond); ok {
			cond := tc.Cond
			if vn, ok := varNoOf(cond); ok {
				if known, ok := state[vn]; ok {
					cond = known
				}
			}
			if bv, ok := boolOf(cond); ok {
				target := tc.False
				if bv {
					target = tc.True
				}
				bb.Term = cfgir.TermBranch{Target: target}
				changed = true
			} else if !sameValue(cond, tc.Cond) {
				bb.Term = cfgir.TermBranchCond{Cond: cond, True: tc.True, False: tc.False}
				changed = true
			}
		}
		if tr, ok := bb.Term.(cfgir.TermReturn); ok {
			for j, v := range tr.Values {
				if vn, ok := varNoOf(v); ok {
					if known, ok := state[vn]; ok {
						tr.Values[j] = known
						changed = true
					}
				}
			}
		}

		exitState[bb.No] = state
	}
	return changed
}

func foldInstr(in *cfgir.Instr) (cfgir.Value, bool) {
	switch in.Op {
	case cfgir.OpAdd, cfgir.OpSub, cfgir.OpMul, cfgir.OpDiv, cfgir.OpMod, cfgir.OpPow,
		cfgir.OpAnd, cfgir.OpOr, cfgir.OpXor, cfgir.OpShl, cfgir.OpShr,
		cfgir.OpEq, cfgir.OpNeq, cfgir.OpLt, cfgir.OpLe, cfgir.OpGt, cfgir.OpGe:
		if len(in.Args) != 2 {
			return nil, false
		}
		return foldBinary(in.Op, in.Args[0], in.Args[1])
	case cfgir.OpNeg, cfgir.OpBitNot, cfgir.OpNot:
		if len(in.Args) != 1 {
			return nil, false
		}
		return foldUnary(in.Op, in.Args[0])
	case cfgir.OpCastZeroExt, cfgir.OpCastSignExt, cfgir.OpCastTruncate, cfgir.OpCastBit:
		if len(in.Args) != 1 {
			return nil, false
		}
		return foldCast(in, in.Args[0])
	}
	return nil, false
}

func foldBinary(op cfgir.Op, a, b cfgir.Value) (cfgir.Value, bool) {
	if ab, aok := boolOf(a); aok {
		if bb, bok := boolOf(b); bok {
			switch op {
			case cfgir.OpEq:
				return cfgir.BoolLiteral(ab == bb), true
			case cfgir.OpNeq:
				return cfgir.BoolLiteral(ab != bb), true
			case cfgir.OpAnd:
				return cfgir.BoolLiteral(ab && bb), true
			case cfgir.OpOr:
				return cfgir.BoolLiteral(ab || bb), true
			}
			return nil, false
		}
	}

	ai, aneg, aok := intOf(a)
	bi, bneg, bok := intOf(b)
	if !aok || !bok || aneg || bneg {
		return nil, false
	}
	switch op {
	case cfgir.OpAdd:
		return cfgir.IntLiteral(new(uint256.Int).Add(ai, bi)), true
	case cfgir.OpSub:
		return cfgir.IntLiteral(new(uint256.Int).Sub(ai, bi)), true
	case cfgir.OpMul:
		return cfgir.IntLiteral(new(uint256.Int).Mul(ai, bi)), true
	case cfgir.OpDiv:
		if bi.IsZero() {
			return nil, false
		}
		return cfgir.IntLiteral(new(uint256.Int).Div(ai, bi)), true
	case cfgir.OpMod:
		if bi.IsZero() {
			return nil, false
		}
		return cfgir.IntLiteral(new(uint256.Int).Mod(ai, bi)), true
	case cfgir.OpPow:
		return cfgir.IntLiteral(new(uint256.Int).Exp(ai, bi)), true
	case cfgir.OpAnd:
		return cfgir.IntLiteral(new(uint256.Int).And(ai, bi)), true
	case cfgir.OpOr:
		return cfgir.IntLiteral(new(uint256.Int).Or(ai, bi)), true
	case cfgir.OpXor:
		return cfgir.IntLiteral(new(uint256.Int).Xor(ai, bi)), true
	case cfgir.OpShl:
		if !bi.IsUint64() {
			return nil, false
		}
		return cfgir.IntLiteral(new(uint256.Int).Lsh(ai, uint(bi.Uint64()))), true
	case cfgir.OpShr:
		if !bi.IsUint64() {
			return nil, false
		}
		return cfgir.IntLiteral(new(uint256.Int).Rsh(ai, uint(bi.Uint64()))), true
	case cfgir.OpEq:
		return cfgir.BoolLiteral(ai.Eq(bi)), true
	case cfgir.OpNeq:
		return cfgir.BoolLiteral(!ai.Eq(bi)), true
	case cfgir.OpLt:
		return cfgir.BoolLiteral(ai.Lt(bi)), true
	case cfgir.OpLe:
		return cfgir.BoolLiteral(!ai.Gt(bi)), true
	case cfgir.OpGt:
		return cfgir.BoolLiteral(ai.Gt(bi)), true
	case cfgir.OpGe:
		return cfgir.BoolLiteral(!ai.Lt(bi)), true
	}
	return nil, false
}

func foldUnary(op cfgir.Op, a cfgir.Value) (cfgir.Value, bool) {
	if op == cfgir.OpNot {
		if ab, ok := boolOf(a); ok {
			return cfgir.BoolLiteral(!ab), true
		}
		return nil, false
	}
	ai, aneg, ok := intOf(a)
	if !ok || aneg {
		return nil, false
	}
	switch op {
	case cfgir.OpBitNot:
		return cfgir.IntLiteral(new(uint256.Int).Not(ai)), true
	case cfgir.OpNeg:
		if ai.IsZero() {
			return cfgir.IntLiteral(new(uint256.Int)), true
		}
		return cfgir.Literal{Int: new(uint256.Int).Set(ai), Neg: true}, true
	}
	return nil, false
}

func foldCast(in *cfgir.Instr, a cfgir.Value) (cfgir.Value, bool) {
	ai, aneg, ok := intOf(a)
	if !ok || aneg {
		return nil, false
	}
	switch in.Op {
	case cfgir.OpCastZeroExt, cfgir.OpCastBit:
		return cfgir.IntLiteral(new(uint256.Int).Set(ai)), true
	case cfgir.OpCastTruncate:
		width := widthOf(in.ToType)
		if width <= 0 || width >= 256 {
			return cfgir.IntLiteral(new(uint256.Int).Set(ai)), true
		}
		mask := new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), uint(width)), uint256.NewInt(1))
		return cfgir.IntLiteral(new(uint256.Int).And(ai, mask)), true
	}
	return nil, false
}

func widthOf(t sema.Type) int {
	if t == nil {
		return 0
	}
	e, ok := sema.Underlying(t).(*sema.Elementary)
	if !ok {
		return 0
	}
	return e.Width
}
