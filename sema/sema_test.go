package sema

import (
	"testing"

	"github.com/solang-go/solang/ast"
	"github.com/solang-go/solang/diag"
	"github.com/solang-go/solang/parser"
	"github.com/solang-go/solang/token"
)

func analyzeSource(t *testing.T, src string) (*Namespace, *diag.Bag) {
	t.Helper()
	fset := token.NewFileSet()
	file := fset.AddFile("test.sol", []byte(src))
	bag := diag.NewBag()
	unit := parser.Parse(file, []byte(src), bag)
	if bag.HasErrors() {
		t.Fatalf("parse errors: %v", bag.Entries())
	}
	ns := Analyze(fset, []*ast.SourceUnit{unit}, bag)
	return ns, bag
}

func TestDiamondInheritanceAmbiguity(t *testing.T) {
	src := `
contract A {
    function f() public virtual returns (uint) { return 1; }
}
contract B is A {
    function f() public virtual override returns (uint) { return 2; }
}
contract C is A {
    function f() public virtual override returns (uint) { return 3; }
}
contract D is B, C {
}
`
	_, bag := analyzeSource(t, src)
	found := false
	for _, d := range bag.Entries() {
		if d.Kind == diag.KindInheritance {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an inheritance diagnostic for D's ambiguous f(), got: %v", bag.Entries())
	}
}

func TestDiamondInheritanceResolvedByOverride(t *testing.T) {
	src := `
contract A {
    function f() public virtual returns (uint) { return 1; }
}
contract B is A {
    function f() public virtual override returns (uint) { return 2; }
}
contract C is A {
    function f() public virtual override returns (uint) { return 3; }
}
contract D is B, C {
    function f() public override(B, C) returns (uint) { return 4; }
}
`
	_, bag := analyzeSource(t, src)
	for _, d := range bag.Entries() {
		if d.Kind == diag.KindInheritance {
			t.Fatalf("did not expect an inheritance diagnostic once D overrides f(), got: %v", bag.Entries())
		}
	}
}

func TestStorageLayoutPacking(t *testing.T) {
	src := `
contract S {
    uint128 a;
    uint128 b;
    uint256 c;
}
`
	ns, bag := analyzeSource(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Entries())
	}
	cn, ok := ns.ContractByName("S")
	if !ok {
		t.Fatal("contract S not found")
	}
	ci := ns.Contract(cn)
	if len(ci.StateVars) != 3 {
		t.Fatalf("expected 3 state vars, got %d", len(ci.StateVars))
	}
	a, b, c := ns.Var(ci.StateVars[0]), ns.Var(ci.StateVars[1]), ns.Var(ci.StateVars[2])
	if a.Slot.Sign() != 0 || a.Offset != 0 {
		t.Fatalf("a: want slot 0 offset 0, got slot %v offset %d", a.Slot, a.Offset)
	}
	if b.Slot.Sign() != 0 || b.Offset != 16 {
		t.Fatalf("b: want slot 0 offset 16, got slot %v offset %d", b.Slot, b.Offset)
	}
	if c.Slot.Cmp(c.Slot) != 0 || c.Slot.Int64() != 1 || c.Offset != 0 {
		t.Fatalf("c: want slot 1 offset 0, got slot %v offset %d", c.Slot, c.Offset)
	}
	if ci.StorageSize.Int64() != 2 {
		t.Fatalf("want storage size 2, got %v", ci.StorageSize)
	}
}

func TestConstantFolding(t *testing.T) {
	src := `
contract K {
    uint256 constant A = 2;
    uint256 constant B = A * 10 + 1;
}
`
	ns, bag := analyzeSource(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Entries())
	}
	cn, _ := ns.ContractByName("K")
	ci := ns.Contract(cn)
	var bVar *VarInfo
	for _, vn := range ci.StateVars {
		if v := ns.Var(vn); v.Name == "B" {
			bVar = v
		}
	}
	if bVar == nil || bVar.ConstValue == nil || bVar.ConstValue.Int == nil {
		t.Fatalf("B did not fold to a constant")
	}
	if bVar.ConstValue.Int.Int64() != 21 {
		t.Fatalf("want B == 21, got %v", bVar.ConstValue.Int)
	}
}

func TestOverloadResolution(t *testing.T) {
	src := `
contract O {
    function f(uint256 x) public pure returns (uint256) { return x; }
    function f(uint256 x, uint256 y) public pure returns (uint256) { return x + y; }
    function call1() public pure returns (uint256) { return f(1); }
    function call2() public pure returns (uint256) { return f(1, 2); }
}
`
	ns, bag := analyzeSource(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Entries())
	}
	cn, _ := ns.ContractByName("O")
	ci := ns.Contract(cn)
	var call1, call2 *FunctionInfo
	for _, fn := range ci.Functions {
		fi := ns.Function(fn)
		switch fi.Name {
		case "call1":
			call1 = fi
		case "call2":
			call2 = fi
		}
	}
	if call1 == nil || call2 == nil {
		t.Fatal("missing call1/call2")
	}
	ret1 := call1.Body.Stmts[0].(*CheckedReturn)
	callExpr1, ok := ret1.Values[0].(*CheckedCall)
	if !ok {
		t.Fatalf("call1 return value is not a call: %T", ret1.Values[0])
	}
	f1 := ns.Function(callExpr1.Func)
	if len(f1.Type.Params) != 1 {
		t.Fatalf("call1 should resolve to the one-arg overload, got %d params", len(f1.Type.Params))
	}

	ret2 := call2.Body.Stmts[0].(*CheckedReturn)
	callExpr2, ok := ret2.Values[0].(*CheckedCall)
	if !ok {
		t.Fatalf("call2 return value is not a call: %T", ret2.Values[0])
	}
	f2 := ns.Function(callExpr2.Func)
	if len(f2.Type.Params) != 2 {
		t.Fatalf("call2 should resolve to the two-arg overload, got %d params", len(f2.Type.Params))
	}
}
