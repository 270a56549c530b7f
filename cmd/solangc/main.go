// Package main is the peripheral demo CLI spec.md §1 calls out as
// outside the size budget: a thin `compile` subcommand wiring
// resolver.OSResolver, compiler.Compile and diag.Bag.Render together,
// modeled on theRebelliousNerd-codenerd's cobra registration idiom (package-level
// *cobra.Command vars bound to flags in init(), rootCmd.Execute() in
// main()).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/solang-go/solang/compiler"
	"github.com/solang-go/solang/internal/logging"
	"github.com/solang-go/solang/resolver"
	"github.com/solang-go/solang/target"
)

var (
	verbose       bool
	targetName    string
	noOptimize    bool
	uncheckedMath bool
	remapFlags    []string
	includePath   []string
)

var rootCmd = &cobra.Command{
	Use:   "solangc",
	Short: "solang-go demo CLI: compile a Solidity contract to CFG-IR for a non-EVM target",
}

var compileCmd = &cobra.Command{
	Use:   "compile <root.sol>",
	Short: "Resolve, analyze and lower a contract and its imports",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	compileCmd.Flags().StringVarP(&targetName, "target", "t", string(target.Solana), "Target backend: solana, polkadot or soroban")
	compileCmd.Flags().BoolVar(&noOptimize, "no-optimize", false, "Skip the optimize pipeline")
	compileCmd.Flags().BoolVar(&uncheckedMath, "unchecked-math-default", false, "Treat arithmetic as unchecked outside unchecked{} blocks")
	compileCmd.Flags().StringArrayVar(&remapFlags, "remap", nil, "Import remapping prefix=replacement (repeatable)")
	compileCmd.Flags().StringArrayVar(&includePath, "include", nil, "Additional import search path (repeatable)")

	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	logger, err := logging.New(verbose)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	root := args[0]
	r := resolver.NewOSResolver(".")
	r.IncludePath = includePath
	if len(remapFlags) > 0 {
		r.Remappings = parseRemappings(remapFlags)
	}

	opt := compiler.OptimizeDefault
	if noOptimize {
		opt = compiler.OptimizeNone
	}

	unit, bag := compiler.Compile(context.Background(), root, r, compiler.Options{
		Target:               target.Name(targetName),
		Optimize:             opt,
		UncheckedMathDefault: uncheckedMath,
		Logger:               logger,
	})

	if rendered := bag.Render(unit.FileSet); rendered != "" {
		fmt.Fprint(os.Stderr, rendered)
	}
	if bag.HasErrors() {
		return fmt.Errorf("compilation failed with %d diagnostic(s)", len(bag.Entries()))
	}

	for _, c := range unit.Contracts {
		fmt.Printf("contract %s: %d exported function(s), %d entry point(s), %d lowered function(s)\n",
			c.Name, len(c.ABI.Functions), len(c.EntryPoints), len(c.Functions))
	}
	return nil
}

func parseRemappings(flags []string) map[string]string {
	out := make(map[string]string, len(flags))
	for _, f := range flags {
		for i := 0; i < len(f); i++ {
			if f[i] == '=' {
				out[f[:i]] = f[i+1:]
				break
			}
		}
	}
	return out
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
