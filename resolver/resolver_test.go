package resolver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/solang-go/solang/ast"
	"github.com/solang-go/solang/diag"
	"github.com/solang-go/solang/token"
)

// writeArchive materializes a txtar fixture (one root file plus its
// transitively imported files) into a temp directory and returns its
// root.
func writeArchive(t *testing.T, data string) string {
	t.Helper()
	dir := t.TempDir()
	arc := txtar.Parse([]byte(data))
	for _, f := range arc.Files {
		p := filepath.Join(dir, f.Name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", f.Name, err)
		}
		if err := os.WriteFile(p, f.Data, 0o644); err != nil {
			t.Fatalf("write %s: %v", f.Name, err)
		}
	}
	return dir
}

func TestOSResolverResolvesRelativeImport(t *testing.T) {
	dir := writeArchive(t, `
-- root.sol --
import "./lib.sol";
contract C {}
-- lib.sol --
contract Lib {}
`)
	r := NewOSResolver(dir)
	canon, src, err := r.Resolve("./lib.sol", "root.sol")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if canon != "lib.sol" {
		t.Fatalf("expected canonical path %q, got %q", "lib.sol", canon)
	}
	if len(src) == 0 {
		t.Fatalf("expected non-empty source")
	}
}

func TestOSResolverMissingImportIsNotFound(t *testing.T) {
	dir := writeArchive(t, `
-- root.sol --
contract C {}
`)
	r := NewOSResolver(dir)
	_, _, err := r.Resolve("./missing.sol", "root.sol")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOSResolverRemapping(t *testing.T) {
	dir := writeArchive(t, `
-- root.sol --
import "@lib/token.sol";
contract C {}
-- vendor/token.sol --
contract Token {}
`)
	r := NewOSResolver(dir)
	r.Remappings = map[string]string{"@lib/": "vendor/"}
	canon, _, err := r.Resolve("@lib/token.sol", "root.sol")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if canon != filepath.ToSlash(filepath.Join("vendor", "token.sol")) {
		t.Fatalf("expected remapped canonical path, got %q", canon)
	}
}

func TestLoadParsesTransitiveImportsOnce(t *testing.T) {
	dir := writeArchive(t, `
-- root.sol --
import "./a.sol";
import "./b.sol";
contract Root {}
-- a.sol --
import "./shared.sol";
contract A {}
-- b.sol --
import "./shared.sol";
contract B {}
-- shared.sol --
contract Shared {}
`)
	fset := token.NewFileSet()
	bag := diag.NewBag()
	units := Load(context.Background(), fset, NewOSResolver(dir), "root.sol", bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Entries())
	}
	if len(units) != 4 {
		t.Fatalf("expected 4 parsed files (root, a, b, shared deduped once), got %d", len(units))
	}

	seenContracts := map[string]bool{}
	for _, u := range units {
		for _, part := range u.Parts {
			if cd, ok := part.(*ast.ContractDefinition); ok {
				seenContracts[cd.Name] = true
			}
		}
	}
	for _, want := range []string{"Root", "A", "B", "Shared"} {
		if !seenContracts[want] {
			t.Fatalf("expected contract %s among parsed units, saw %v", want, seenContracts)
		}
	}
}

func TestLoadImportCycleTerminates(t *testing.T) {
	dir := writeArchive(t, `
-- a.sol --
import "./b.sol";
contract A {}
-- b.sol --
import "./a.sol";
contract B {}
`)
	fset := token.NewFileSet()
	bag := diag.NewBag()
	units := Load(context.Background(), fset, NewOSResolver(dir), "a.sol", bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Entries())
	}
	if len(units) != 2 {
		t.Fatalf("expected exactly 2 parsed files despite the cycle, got %d", len(units))
	}
}

func TestLoadRecordsMissingImportAsDiagnosticNotPanic(t *testing.T) {
	dir := writeArchive(t, `
-- root.sol --
import "./missing.sol";
contract C {}
`)
	fset := token.NewFileSet()
	bag := diag.NewBag()
	units := Load(context.Background(), fset, NewOSResolver(dir), "root.sol", bag)
	if len(units) != 1 {
		t.Fatalf("expected the root file to still parse, got %d units", len(units))
	}
	if !bag.HasErrors() {
		t.Fatalf("expected a diagnostic for the missing import")
	}
}
