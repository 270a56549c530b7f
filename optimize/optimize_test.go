package optimize

import (
	"testing"

	"github.com/solang-go/solang/ast"
	"github.com/solang-go/solang/cfgir"
	"github.com/solang-go/solang/diag"
	"github.com/solang-go/solang/parser"
	"github.com/solang-go/solang/sema"
	"github.com/solang-go/solang/token"
)

func lowerSource(t *testing.T, src string) (*sema.Namespace, *cfgir.Program) {
	t.Helper()
	fset := token.NewFileSet()
	file := fset.AddFile("test.sol", []byte(src))
	bag := diag.NewBag()
	unit := parser.Parse(file, []byte(src), bag)
	if bag.HasErrors() {
		t.Fatalf("parse errors: %v", bag.Entries())
	}
	ns := sema.Analyze(fset, []*ast.SourceUnit{unit}, bag)
	if bag.HasErrors() {
		t.Fatalf("sema errors: %v", bag.Entries())
	}
	return ns, cfgir.Lower(ns)
}

func findFunc(t *testing.T, ns *sema.Namespace, prog *cfgir.Program, contract, name string) *cfgir.Func {
	t.Helper()
	cn, ok := ns.ContractByName(contract)
	if !ok {
		t.Fatalf("contract %s not found", contract)
	}
	ci := ns.Contract(cn)
	for _, fn := range ci.Functions {
		if ns.Function(fn).Name == name {
			f, ok := prog.ByFunctionNo[fn]
			if !ok {
				t.Fatalf("function %s was not lowered", name)
			}
			return f
		}
	}
	t.Fatalf("function %s not found on contract %s", name, contract)
	return nil
}

// TestArrayLengthFoldsAfterSinglePush covers a dynamic array allocated
// at length 20 and pushed to once: the return value is known at
// compile time to be 21, so after the fixed pipeline the returned
// value traces back to a folded literal rather than a runtime
// OpArrayLength read.
func TestArrayLengthFoldsAfterSinglePush(t *testing.T) {
	src := `
contract C {
    function f() public pure returns (uint256) {
        uint256[] memory a = new uint256[](20);
        a.push(1);
        return a.length;
    }
}
`
	ns, prog := lowerSource(t, src)
	f := findFunc(t, ns, prog, "C", "f")
	Pipeline(f)

	ret := f.Blocks[len(f.Blocks)-1].Term.(cfgir.TermReturn)
	if len(ret.Values) != 1 {
		t.Fatalf("expected one return value, got %d", len(ret.Values))
	}
	lit, ok := ret.Values[0].(cfgir.Literal)
	if !ok {
		t.Fatalf("expected return value to fold to a literal, got %#v", ret.Values[0])
	}
	if lit.Int == nil || lit.Int.Uint64() != 21 {
		t.Fatalf("expected folded length 21, got %+v", lit)
	}
	for _, bb := range f.Blocks {
		for _, in := range bb.Instrs {
			if in.Op == cfgir.OpArrayLength {
				t.Fatalf("expected no surviving ArrayLength read, found one in block %d", bb.No)
			}
		}
	}
}

// TestArrayLengthBranchJoinTracksBothArms covers a conditional push:
// the array's length is 160 on the false path and 161 on the true
// path via a real push. The arms disagree, so the push must survive
// and the returned length must not fold to a single literal.
func TestArrayLengthBranchJoinTracksBothArms(t *testing.T) {
	src := `
contract C {
    function f(bool cond) public pure returns (uint256) {
        bool[] memory b = new bool[](160);
        if (cond) {
            b.push(true);
        }
        return b.length;
    }
}
`
	ns, prog := lowerSource(t, src)
	f := findFunc(t, ns, prog, "C", "f")
	Pipeline(f)

	sawPush := false
	for _, bb := range f.Blocks {
		for _, in := range bb.Instrs {
			if in.Op == cfgir.OpArrayPush {
				sawPush = true
			}
		}
	}
	if !sawPush {
		t.Fatalf("expected the push in the true arm to survive lowering")
	}

	ret := f.Blocks[len(f.Blocks)-1].Term.(cfgir.TermReturn)
	if len(ret.Values) != 1 {
		t.Fatalf("expected one return value, got %d", len(ret.Values))
	}
	if _, isLit := ret.Values[0].(cfgir.Literal); isLit {
		t.Fatalf("return value must not fold to a single literal: the two arms disagree on length")
	}
}

// TestAssertFalseReachableFromEntry covers an unconditional
// assert(false): after lowering (and regardless of whatever the
// optimizer does to it) the entry block must terminate in, or
// unconditionally branch to a block terminating in,
// AssertFailure(ReasonAssertFailure).
func TestAssertFalseReachableFromEntry(t *testing.T) {
	src := `
contract C {
    function g() public pure {
        assert(false);
    }
}
`
	ns, prog := lowerSource(t, src)
	f := findFunc(t, ns, prog, "C", "g")
	Pipeline(f)

	bb := f.Blocks[0]
	for steps := 0; steps < len(f.Blocks); steps++ {
		switch term := bb.Term.(type) {
		case cfgir.TermAssertFailure:
			if term.Reason != cfgir.ReasonAssertFailure {
				t.Fatalf("expected reason %q, got %q", cfgir.ReasonAssertFailure, term.Reason)
			}
			return
		case cfgir.TermBranch:
			bb = f.Block(term.Target)
		case cfgir.TermBranchCond:
			t.Fatalf("assert(false) must not leave a conditional branch reachable from entry, got %+v", term)
		default:
			t.Fatalf("unexpected terminator reaching a dead end before AssertFailure: %+v", term)
		}
	}
	t.Fatalf("did not reach AssertFailure within %d hops from entry", len(f.Blocks))
}

func TestPipelineStrengthReducesPowerOfTwoMulDiv(t *testing.T) {
	src := `
contract C {
    function f(uint256 x) public pure returns (uint256) {
        uint256 y = x * 8;
        return y / 4;
    }
}
`
	ns, prog := lowerSource(t, src)
	f := findFunc(t, ns, prog, "C", "f")
	Pipeline(f)

	for i, bb := range f.Blocks {
		if bb.No != cfgir.BlockNo(i) {
			continue
		}
	}
	for _, bb := range f.Blocks {
		for _, in := range bb.Instrs {
			if in.Op == cfgir.OpMul || in.Op == cfgir.OpDiv {
				t.Fatalf("expected strength reduction to remove Mul/Div by a power of two, found %v", in.Op)
			}
		}
	}
}
