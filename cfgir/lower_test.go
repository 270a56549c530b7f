package cfgir

import (
	"testing"

	"github.com/solang-go/solang/ast"
	"github.com/solang-go/solang/diag"
	"github.com/solang-go/solang/parser"
	"github.com/solang-go/solang/sema"
	"github.com/solang-go/solang/token"
)

func lowerSource(t *testing.T, src string) (*sema.Namespace, *Program) {
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
	return ns, Lower(ns)
}

func findFunc(t *testing.T, ns *sema.Namespace, prog *Program, contract, name string) *Func {
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

// assertEveryBlockTerminated checks the CFG-IR invariant (spec.md §8)
// that every basic block ends with exactly one terminator.
func assertEveryBlockTerminated(t *testing.T, f *Func) {
	t.Helper()
	for _, bb := range f.Blocks {
		if bb.Term == nil {
			t.Fatalf("function %s: block %d has no terminator", f.Name, bb.No)
		}
	}
}

func TestIfElseEveryBlockTerminated(t *testing.T) {
	src := `
contract C {
    function f(uint256 x) public pure returns (uint256) {
        if (x > 0) {
            return 1;
        } else {
            return 2;
        }
    }
}
`
	ns, prog := lowerSource(t, src)
	f := findFunc(t, ns, prog, "C", "f")
	assertEveryBlockTerminated(t, f)
	if len(f.Blocks) < 3 {
		t.Fatalf("expected at least 3 blocks (entry/then/else), got %d", len(f.Blocks))
	}
}

func TestIfBothArmsReturnJoinBlockIsUnreachable(t *testing.T) {
	src := `
contract C {
    function f(bool x) public pure returns (uint256) {
        if (x) {
            return 1;
        } else {
            return 2;
        }
        return 3;
    }
}
`
	ns, prog := lowerSource(t, src)
	f := findFunc(t, ns, prog, "C", "f")
	assertEveryBlockTerminated(t, f)

	sawUnreachable := false
	for _, bb := range f.Blocks {
		if _, ok := bb.Term.(TermUnreachable); ok {
			sawUnreachable = true
		}
	}
	if !sawUnreachable {
		t.Fatalf("expected the orphaned join block to be sealed Unreachable, blocks: %+v", f.Blocks)
	}
}

func TestWhileLoopEveryBlockTerminated(t *testing.T) {
	src := `
contract C {
    function f(uint256 n) public pure returns (uint256) {
        uint256 i = 0;
        while (i < n) {
            i = i + 1;
        }
        return i;
    }
}
`
	ns, prog := lowerSource(t, src)
	f := findFunc(t, ns, prog, "C", "f")
	assertEveryBlockTerminated(t, f)
}

func TestAssertLowersToAssertFailureReason(t *testing.T) {
	src := `
contract C {
    function f(uint256 x) public pure {
        assert(x > 0);
    }
}
`
	ns, prog := lowerSource(t, src)
	f := findFunc(t, ns, prog, "C", "f")
	assertEveryBlockTerminated(t, f)

	found := false
	for _, bb := range f.Blocks {
		if af, ok := bb.Term.(TermAssertFailure); ok {
			if af.Reason != ReasonAssertFailure {
				t.Fatalf("got reason %q, want %q", af.Reason, ReasonAssertFailure)
			}
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an AssertFailure(%q) terminator somewhere in f", ReasonAssertFailure)
	}
}

func TestRequireLowersToRevertEncountered(t *testing.T) {
	src := `
contract C {
    function f(uint256 x) public pure {
        require(x > 0, "x must be positive");
    }
}
`
	ns, prog := lowerSource(t, src)
	f := findFunc(t, ns, prog, "C", "f")

	found := false
	for _, bb := range f.Blocks {
		if af, ok := bb.Term.(TermAssertFailure); ok && af.Reason == ReasonRevertEncountered {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an AssertFailure(%q) terminator for the failed require, got blocks: %+v", ReasonRevertEncountered, f.Blocks)
	}
}

func TestBareRevertLowersToRevertEncountered(t *testing.T) {
	src := `
contract C {
    function f() public pure {
        revert("nope");
    }
}
`
	ns, prog := lowerSource(t, src)
	f := findFunc(t, ns, prog, "C", "f")

	if len(f.Blocks) == 0 {
		t.Fatalf("expected at least one block")
	}
	entry := f.Blocks[0]
	af, ok := entry.Term.(TermAssertFailure)
	if !ok || af.Reason != ReasonRevertEncountered {
		t.Fatalf("expected entry block to terminate with AssertFailure(%q), got %+v", ReasonRevertEncountered, entry.Term)
	}
}

func TestArrayPushPopLowering(t *testing.T) {
	src := `
contract C {
    uint256[] arr;

    function add(uint256 v) public {
        arr.push(v);
    }

    function remove() public {
        arr.pop();
    }
}
`
	ns, prog := lowerSource(t, src)

	add := findFunc(t, ns, prog, "C", "add")
	assertEveryBlockTerminated(t, add)
	sawPush := false
	for _, bb := range add.Blocks {
		for _, in := range bb.Instrs {
			if in.Op == OpArrayPush {
				sawPush = true
			}
		}
	}
	if !sawPush {
		t.Fatalf("expected add() to contain an OpArrayPush instruction")
	}

	remove := findFunc(t, ns, prog, "C", "remove")
	assertEveryBlockTerminated(t, remove)
	sawPopFailure := false
	for _, bb := range remove.Blocks {
		if af, ok := bb.Term.(TermAssertFailure); ok && af.Reason == ReasonPopEmptyStorageArray {
			sawPopFailure = true
		}
	}
	if !sawPopFailure {
		t.Fatalf("expected remove() to guard the pop with AssertFailure(%q)", ReasonPopEmptyStorageArray)
	}
}

func TestShortCircuitAndLowersToBranches(t *testing.T) {
	src := `
contract C {
    function f(bool a, bool b) public pure returns (bool) {
        return a && b;
    }
}
`
	ns, prog := lowerSource(t, src)
	f := findFunc(t, ns, prog, "C", "f")
	assertEveryBlockTerminated(t, f)
	if len(f.Blocks) < 4 {
		t.Fatalf("expected short-circuit && to produce at least 4 blocks (entry/short/rhs/join), got %d", len(f.Blocks))
	}
}
