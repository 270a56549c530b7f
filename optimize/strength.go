package optimize

import (
	"math/bits"

	"github.com/holiman/uint256"

	"github.com/solang-go/solang/cfgir"
)

// StrengthReduce implements the exact, correctness-preserving half of
// spec.md §4.5's strength-reduction pass: multiplication or division
// by a power-of-two constant becomes a shift, and modulo by a
// power-of-two constant becomes a bitwise and. The pass's other
// sentence — general constant-divisor reduction via a magic
// reciprocal multiply — is not implemented; see DESIGN.md for why.
func StrengthReduce(f *cfgir.Func) bool {
	changed := false
	for _, bb := range f.Blocks {
		for i := range bb.Instrs {
			in := &bb.Instrs[i]
			if len(in.Args) != 2 {
				continue
			}
			lhs, rhs := in.Args[0], in.Args[1]
			rv, neg, ok := intOf(rhs)
			if !ok || neg || rv.IsZero() {
				continue
			}
			shift, isPow2 := powerOfTwoShift(rv)
			if !isPow2 {
				continue
			}
			switch in.Op {
			case cfgir.OpMul:
				in.Op = cfgir.OpShl
				in.Args = []cfgir.Value{lhs, cfgir.IntLiteral(uint256.NewInt(uint64(shift)))}
				changed = true
			case cfgir.OpDiv:
				in.Op = cfgir.OpShr
				in.Args = []cfgir.Value{lhs, cfgir.IntLiteral(uint256.NewInt(uint64(shift)))}
				changed = true
			case cfgir.OpMod:
				mask := new(uint256.Int).Sub(rv, uint256.NewInt(1))
				in.Op = cfgir.OpAnd
				in.Args = []cfgir.Value{lhs, cfgir.IntLiteral(mask)}
				changed = true
			}
		}
	}
	return changed
}

// powerOfTwoShift reports v's log2 and whether v is an exact power of
// two. bits.OnesCount64 detects the single-set-bit case; bits.Len64
// locates it. Divisors/multipliers relevant to realistic array sizes
// and scaling factors fit in 64 bits, so wider values are left alone.
func powerOfTwoShift(v *uint256.Int) (int, bool) {
	if !v.IsUint64() {
		return 0, false
	}
	u := v.Uint64()
	if u == 0 || bits.OnesCount64(u) != 1 {
		return 0, false
	}
	return bits.Len64(u) - 1, true
}
