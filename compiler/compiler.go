// Package compiler is the orchestration layer spec.md §6 names as the
// producer of a CompiledUnit: it wires resolver, the fixed
// lexer→parser→sema→cfgir→optimize pipeline, and a target.Hooks
// implementation into one call, the same New/Eval shape the teacher's
// Interpreter exposes.
package compiler

import (
	"context"
	"fmt"

	"github.com/solang-go/solang/abi"
	"github.com/solang-go/solang/ast"
	"github.com/solang-go/solang/cfgir"
	"github.com/solang-go/solang/diag"
	"github.com/solang-go/solang/internal/logging"
	"github.com/solang-go/solang/optimize"
	"github.com/solang-go/solang/resolver"
	"github.com/solang-go/solang/sema"
	"github.com/solang-go/solang/target"
	"github.com/solang-go/solang/token"
)

// OptimizationLevel selects whether optimize.Pipeline runs at all
// (spec.md §6 "Input. ... optimization level").
type OptimizationLevel int

const (
	OptimizeNone OptimizationLevel = iota
	OptimizeDefault
)

// Options configures one Compile call, directly modeled on the
// teacher's Options/opt pair (New(options Options) *Interpreter):
// a plain struct with functional defaults applied in Compile rather
// than a builder.
type Options struct {
	// Target selects the backend Hooks implementation. Defaults to
	// Solana if empty.
	Target target.Name

	// Optimize selects the optimizer level. Defaults to
	// OptimizeDefault.
	Optimize OptimizationLevel

	// UncheckedMathDefault mirrors spec.md §6's
	// "unchecked-math-default=false" feature flag: when true, arithmetic
	// outside an explicit unchecked{} block still emits no overflow
	// check. Defaults to false (checked by default, matching Solidity).
	UncheckedMathDefault bool

	// Logger receives pass-level tracing (never user-facing
	// diagnostics, which always go through the returned diag.Bag). A
	// nil Logger gets logging.NewNop().
	Logger *logging.Logger
}

func (o Options) withDefaults() Options {
	if o.Target == "" {
		o.Target = target.Solana
	}
	if o.Logger == nil {
		o.Logger = logging.NewNop()
	}
	return o
}

func (o Options) hooks() (target.Hooks, error) {
	switch o.Target {
	case target.Solana:
		return target.NewSolanaHooks(), nil
	case target.Polkadot:
		return target.NewPolkadotHooks(), nil
	case target.Soroban:
		return target.NewSorobanHooks(), nil
	default:
		return nil, fmt.Errorf("compiler: unknown target %q", o.Target)
	}
}

// ContractUnit is one compiled contract: its ABI descriptor, entry
// point layout, and the lowered (and, unless OptimizeNone, optimized)
// CFG-IR for every function.
type ContractUnit struct {
	Name        string
	ABI         *abi.ContractABI
	EntryPoints []target.EntryPoint
	Functions   []*cfgir.Func
}

// Unit is spec.md §6's CompiledUnit: "per-contract { name, metadata,
// per-function CFG, storage layout, ABI descriptor }, diagnostics".
// Storage layout and metadata are not carried on ContractUnit.
// Diagnostics are returned separately (as the diag.Bag that Compile
// creates and returns alongside the Unit) since a Unit with errors may still
// be partially populated and useful for tooling that wants to report
// on what did parse.
type Unit struct {
	Target    target.Name
	Contracts []ContractUnit

	// FileSet is the token.FileSet every span in bag and in this
	// Unit's CFG-IR is relative to; callers need it to render
	// diagnostics (diag.Bag.Render(unit.FileSet)) or report positions.
	FileSet *token.FileSet
}

// Compile resolves rootPath and its transitive imports, runs the
// fixed pipeline over every contract found, and returns the resulting
// Unit plus the diagnostics bag accumulated along the way. ctx is
// checked before each import-graph layer during resolution (spec.md §5 "checked at
// file boundaries, not mid-parse"), mirroring the teacher's
// EvalWithContext cancellation boundary — there is no equivalent
// mid-parse or mid-lowering cancellation point since those stages run
// synchronously to completion once started.
//
// A panic raised by sema or cfgir lowering (an InternalError, spec.md
// §7's "broken invariant" tier) is recovered here and converted into a
// diag.KindInternal diagnostic rather than crashing the caller or
// being silently dropped.
func Compile(ctx context.Context, rootPath string, r resolver.FileResolver, opts Options) (unit Unit, bag *diag.Bag) {
	opts = opts.withDefaults()
	bag = diag.NewBag()
	unit.Target = opts.Target
	fset := token.NewFileSet()
	unit.FileSet = fset

	defer func() {
		if rec := recover(); rec != nil {
			bag.Internal(token.Span{}, "compiler: recovered panic: %v", rec)
		}
	}()

	hooks, err := opts.hooks()
	if err != nil {
		bag.Internal(token.Span{}, "%v", err)
		return unit, bag
	}

	opts.Logger.Info("compile start", logging.String("root", rootPath), logging.String("target", string(opts.Target)))

	units := resolver.Load(ctx, fset, r, rootPath, bag)
	if bag.HasErrors() {
		return unit, bag
	}

	ns := sema.Analyze(fset, units, bag)
	if bag.HasErrors() {
		return unit, bag
	}

	prog := cfgir.Lower(ns)
	if opts.UncheckedMathDefault {
		for _, f := range prog.Funcs {
			for _, bb := range f.Blocks {
				for i := range bb.Instrs {
					bb.Instrs[i].Checked = false
				}
			}
		}
	}
	opts.Logger.Info("lowered", logging.Int("functions", len(prog.Funcs)))

	unit.Contracts = compileContracts(ns, prog, hooks, opts)
	bag.SortBySpan()
	return unit, bag
}

func compileContracts(ns *sema.Namespace, prog *cfgir.Program, hooks target.Hooks, opts Options) []ContractUnit {
	var out []ContractUnit
	for cn := range ns.Contracts {
		ci := ns.Contract(sema.ContractNo(cn))
		if ci.Abstract || ci.Kind != ast.KindContract {
			continue // interfaces/libraries/abstract contracts have no entry points or storage layout of their own
		}

		contractABI := abi.Build(ns, sema.ContractNo(cn))
		cu := ContractUnit{
			Name:        ci.Name,
			ABI:         contractABI,
			EntryPoints: hooks.EntryPointLayout(contractABI),
		}
		for _, fn := range ci.Functions {
			f, ok := prog.ByFunctionNo[fn]
			if !ok {
				continue
			}
			if opts.Optimize != OptimizeNone {
				optimize.Pipeline(f)
			}
			cu.Functions = append(cu.Functions, f)
		}
		opts.Logger.Debug("compiled contract", logging.String("name", ci.Name), logging.Int("functions", len(cu.Functions)))
		out = append(out, cu)
	}
	return out
}
