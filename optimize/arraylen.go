package optimize

import "github.com/solang-go/solang/cfgir"

// TrackArrayLengths implements spec.md §4.5's array-length-tracking
// pass. It walks blocks in allocation order maintaining, per array
// variable, the value most recently proven to be its length (updated
// by push/pop/new-array's own ArrayPush per cfgir/lower_expr.go's
// "ArrayLength(a) := len+1" convention). A StoreMemory of one array
// variable into another copies the known length, so a local declared
// as `new T[](n)` inherits the length of the freshly allocated array.
// Where a block's length for an array is known, an ArrayLength read is
// rewritten into `known + 0` — an identity expression ConstantFold
// immediately collapses to the known value, leaving the task of
// actually deleting the now-redundant load to DeadCodeEliminate once
// nothing references its result anymore.
//
// A block with a predecessor numbered at or above it (a loop header,
// or one of the forward joins isBackEdgeTarget describes) starts with
// no known lengths, and a join whose predecessors disagree on a length
// (an if that pushes in one arm only) drops it. No phi is built for an
// array length, so the read after such a join stays a runtime
// ArrayLength.
func TrackArrayLengths(f *cfgir.Func) bool {
	preds := predecessors(f)
	exitState := make([]map[cfgir.VarNo]cfgir.Value, len(f.Blocks))
	changed := false

	for _, bb := range f.Blocks {
		state := mergeValueState(bb.No, preds[bb.No], exitState)

		for i := range bb.Instrs {
			in := &bb.Instrs[i]
			switch in.Op {
			case cfgir.OpArrayPush, cfgir.OpArrayPop:
				if len(in.Args) != 2 {
					continue
				}
				if arrNo, ok := varNoOf(in.Args[0]); ok {
					state[arrNo] = in.Args[1]
				}
			case cfgir.OpStoreMemory:
				if len(in.Args) != 2 {
					continue
				}
				if dest, ok := varNoOf(in.Args[0]); ok {
					delete(state, dest)
					if src, ok := varNoOf(in.Args[1]); ok {
						if known, ok := state[src]; ok {
							state[dest] = known
						}
					}
				}
			case cfgir.OpArrayLength:
				if len(in.Args) != 1 {
					continue
				}
				arrNo, ok := varNoOf(in.Args[0])
				if !ok {
					continue
				}
				known, ok := state[arrNo]
				if !ok {
					continue
				}
				in.Op = cfgir.OpAdd
				in.Args = []cfgir.Value{known, cfgir.IntLiteral(newZero())}
				in.Checked = false
				changed = true
			}
		}
		exitState[bb.No] = state
	}
	return changed
}
