package sema

import (
	"github.com/solang-go/solang/ast"
	"github.com/solang-go/solang/diag"
	"github.com/solang-go/solang/token"
)

// Analyze runs the full semantic-analysis pipeline over a parsed
// source set and returns the resulting Namespace. Diagnostics are
// accumulated into bag rather than returned as a Go error (spec.md
// §4.7): callers should check bag.HasErrors() before trusting the
// Namespace for lowering.
func Analyze(fset *token.FileSet, units []*ast.SourceUnit, bag *diag.Bag) *Namespace {
	ns := newNamespace(fset)
	collect(ns, units, bag)
	linearizeAll(ns, bag)
	resolveSignatures(ns, bag)
	layoutAll(ns)
	evalConstants(ns, bag)
	checkAllBodies(ns, bag)
	return ns
}

// evalConstants folds every `constant` variable's initializer
// (state-level and file-level) before function bodies are checked, so
// a constant can be referenced from any body regardless of
// declaration order (spec.md §4.3 "Constant Evaluation").
func evalConstants(ns *Namespace, bag *diag.Bag) {
	for i := range ns.Vars {
		v := &ns.Vars[i]
		if v.Kind != VarStateConstant || v.Init == nil {
			continue
		}
		c := &checker{ns: ns, bag: bag, contract: v.Contract, scope: newScope(nil)}
		v.ConstValue = c.evalConst(v.Init)
		if v.ConstValue != nil && v.ConstValue.Int != nil && v.Type != nil {
			if e, ok := Underlying(v.Type).(*Elementary); ok && IsIntegral(e) {
				if !FitsWidth(v.ConstValue.Int, e.Width, IsSigned(e)) {
					bag.Errorf(diag.KindConstOverflow, v.Span,
						"constant %q's value does not fit in %s", v.Name, e.String())
				}
			}
		}
	}
}
