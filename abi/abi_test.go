package abi

import (
	"encoding/hex"
	"testing"

	"github.com/solang-go/solang/ast"
	"github.com/solang-go/solang/diag"
	"github.com/solang-go/solang/parser"
	"github.com/solang-go/solang/sema"
	"github.com/solang-go/solang/token"
)

// TestTransferSelector pins the well-known selector for
// `transfer(address,uint256)` (0xa9059cbb), the canonical smoke test
// for any Keccak-256-based ABI selector implementation.
func TestTransferSelector(t *testing.T) {
	params := []Param{{Type: "address"}, {Type: "uint256"}}
	sel := FunctionSelector("transfer", params)
	got := hex.EncodeToString(sel[:])
	if got != "a9059cbb" {
		t.Fatalf("transfer(address,uint256) selector = %s, want a9059cbb", got)
	}
}

func analyze(t *testing.T, src string) *sema.Namespace {
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
	return ns
}

func TestBuildContractABIExportsPublicFunction(t *testing.T) {
	src := `
contract Token {
    function transfer(address to, uint256 amount) public returns (bool) {
        return true;
    }
}
`
	ns := analyze(t, src)
	cn, ok := ns.ContractByName("Token")
	if !ok {
		t.Fatal("contract Token not found")
	}
	contractABI := Build(ns, cn)
	if len(contractABI.Functions) != 1 {
		t.Fatalf("expected 1 exported function, got %d", len(contractABI.Functions))
	}
	fn := contractABI.Functions[0]
	if fn.Name != "transfer" {
		t.Fatalf("expected transfer, got %s", fn.Name)
	}
	if hex.EncodeToString(fn.Selector[:]) != "a9059cbb" {
		t.Fatalf("transfer selector = %x, want a9059cbb", fn.Selector)
	}
	if len(fn.Inputs) != 2 || fn.Inputs[0].Type != "address" || fn.Inputs[1].Type != "uint256" {
		t.Fatalf("unexpected inputs: %+v", fn.Inputs)
	}
}
