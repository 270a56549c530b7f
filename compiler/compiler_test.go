package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solang-go/solang/resolver"
	"github.com/solang-go/solang/target"
)

// writeContract materializes src as root.sol under a fresh temp dir and
// returns an OSResolver rooted there, the same disk-fixture pattern
// resolver_test.go uses.
func writeContract(t *testing.T, src string) resolver.FileResolver {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "root.sol"), []byte(src), 0o644))
	return resolver.NewOSResolver(dir)
}

func TestCompileProducesABIAndEntryPoints(t *testing.T) {
	r := writeContract(t, `
contract Token {
    function transfer(address to, uint256 amount) public returns (bool) {
        return true;
    }
}
`)
	unit, bag := Compile(context.Background(), "root.sol", r, Options{Target: target.Solana})
	require.False(t, bag.HasErrors(), "unexpected diagnostics: %v", bag.Entries())
	require.Len(t, unit.Contracts, 1)
	require.NotNil(t, unit.FileSet, "FileSet must be populated so callers can render diagnostics")

	c := unit.Contracts[0]
	assert.Equal(t, "Token", c.Name)
	require.Len(t, c.ABI.Functions, 1)
	assert.Equal(t, "transfer", c.ABI.Functions[0].Name)
	assert.NotEmpty(t, c.EntryPoints, "expected at least one entry point for an exported function")
	require.Len(t, c.Functions, 1)
}

func TestCompileSkipsAbstractContracts(t *testing.T) {
	r := writeContract(t, `
abstract contract Base {
    function kind() public virtual returns (uint256);
}

contract Impl is Base {
    function kind() public override returns (uint256) {
        return 1;
    }
}
`)
	unit, bag := Compile(context.Background(), "root.sol", r, Options{Target: target.Solana})
	require.False(t, bag.HasErrors(), "unexpected diagnostics: %v", bag.Entries())
	require.Len(t, unit.Contracts, 1, "Base is abstract and must not produce a ContractUnit")
	assert.Equal(t, "Impl", unit.Contracts[0].Name)
}

func TestCompileSurfacesSemaErrorsAndProducesNoContracts(t *testing.T) {
	r := writeContract(t, `
contract Broken {
    function f() public returns (uint256) {
        return thisNameIsNotDeclared;
    }
}
`)
	unit, bag := Compile(context.Background(), "root.sol", r, Options{Target: target.Solana})
	assert.True(t, bag.HasErrors())
	assert.Empty(t, unit.Contracts)
}

func TestCompileDefaultsTargetToSolana(t *testing.T) {
	r := writeContract(t, `
contract Empty {}
`)
	unit, bag := Compile(context.Background(), "root.sol", r, Options{})
	require.False(t, bag.HasErrors(), "unexpected diagnostics: %v", bag.Entries())
	assert.Equal(t, target.Solana, unit.Target)
}

func TestCompileMissingRootIsRecordedAsDiagnostic(t *testing.T) {
	dir := t.TempDir()
	unit, bag := Compile(context.Background(), "does-not-exist.sol", resolver.NewOSResolver(dir), Options{})
	assert.True(t, bag.HasErrors())
	assert.Empty(t, unit.Contracts)
}
