package sema

import (
	"github.com/solang-go/solang/diag"
)

// linearizeAll resolves every contract's BaseNames to ContractNo and
// computes its C3 linearization (spec.md §4.3 "Inheritance
// Linearization"), then builds each contract's merged member maps
// from that order. Contracts are processed in dependency order so a
// base's linearization and maps are always ready before a derived
// contract needs them. A base-name that doesn't resolve is reported
// and skipped, and a cycle is reported once; the contract is still
// linearized over the bases that could be visited, whose own
// linearization may be incomplete on a cycle.
func linearizeAll(ns *Namespace, bag *diag.Bag) {
	done := make([]bool, len(ns.Contracts))
	visiting := make([]bool, len(ns.Contracts))
	var visit func(no ContractNo)
	visit = func(no ContractNo) {
		if done[no] {
			return
		}
		if visiting[no] {
			bag.Errorf(diag.KindInheritance, ns.Contract(no).Span, "inheritance cycle involving %q", ns.Contract(no).Name)
			done[no] = true
			return
		}
		visiting[no] = true
		ci := ns.Contract(no)
		var baseNos []ContractNo
		for _, bn := range ci.BaseNames {
			bno, ok := ns.ContractByName(bn)
			if !ok {
				bag.Errorf(diag.KindInheritance, ci.Span, "undeclared base contract %q", bn)
				continue
			}
			visit(bno)
			baseNos = append(baseNos, bno)
		}
		ci.Linearization = c3Linearize(ns, no, baseNos, bag)
		buildMemberMaps(ns, no, baseNos, bag)
		visiting[no] = false
		done[no] = true
	}
	for no := range ns.Contracts {
		visit(ContractNo(no))
	}
}

// c3Linearize implements the standard C3 merge: L[C] = C + merge(L[B1],
// ..., L[Bn], [B1...Bn]). On a merge failure (an inconsistent
// hierarchy) it reports the conflict and falls back to a depth-first
// concatenation so later passes still have *some* order to work with.
func c3Linearize(ns *Namespace, self ContractNo, bases []ContractNo, bag *diag.Bag) []ContractNo {
	if len(bases) == 0 {
		return []ContractNo{self}
	}
	sequences := make([][]ContractNo, 0, len(bases)+1)
	for _, b := range bases {
		sequences = append(sequences, append([]ContractNo{}, ns.Contract(b).Linearization...))
	}
	sequences = append(sequences, append([]ContractNo{}, bases...))

	merged := []ContractNo{self}
	for {
		allEmpty := true
		for _, s := range sequences {
			if len(s) > 0 {
				allEmpty = false
				break
			}
		}
		if allEmpty {
			return merged
		}
		var head ContractNo
		found := false
	candidates:
		for _, s := range sequences {
			if len(s) == 0 {
				continue
			}
			head = s[0]
			for _, other := range sequences {
				if tailContains(other, head) {
					continue candidates
				}
			}
			found = true
			break
		}
		if !found {
			bag.Errorf(diag.KindInheritance, ns.Contract(self).Span,
				"linearization of %q failed: inconsistent base order", ns.Contract(self).Name)
			// fall back: flatten remaining sequences in order, dropping dups.
			seen := map[ContractNo]bool{self: true}
			for _, c := range merged {
				seen[c] = true
			}
			for _, s := range sequences {
				for _, c := range s {
					if !seen[c] {
						merged = append(merged, c)
						seen[c] = true
					}
				}
			}
			return merged
		}
		merged = append(merged, head)
		for i, s := range sequences {
			sequences[i] = removeAll(s, head)
		}
	}
}

func tailContains(seq []ContractNo, c ContractNo) bool {
	for i := 1; i < len(seq); i++ {
		if seq[i] == c {
			return true
		}
	}
	return false
}

func removeAll(seq []ContractNo, c ContractNo) []ContractNo {
	out := seq[:0]
	for _, x := range seq {
		if x != c {
			out = append(out, x)
		}
	}
	return out
}

// buildMemberMaps merges every ancestor's declarations into self's
// lookup maps (least-derived first, so a derived redeclaration wins),
// then flags a diamond-inheritance ambiguity when two distinct
// immediate bases contribute different functions under the same name
// that self does not itself override (spec.md §4.3 edge case).
func buildMemberMaps(ns *Namespace, self ContractNo, immediateBases []ContractNo, bag *diag.Bag) {
	ci := ns.Contract(self)
	ci.StructsByName = map[string]StructNo{}
	ci.EnumsByName = map[string]EnumNo{}
	ci.UDVTsByName = map[string]UDVTNo{}
	ci.EventsByName = map[string]EventNo{}
	ci.ErrorsByName = map[string]ErrorNo{}
	ci.FunctionsByName = map[string][]FunctionNo{}
	ci.VarsByName = map[string]VarNo{}

	ancestors := ci.Linearization
	for i := len(ancestors) - 1; i >= 0; i-- {
		anc := ns.Contract(ancestors[i])
		if ancestors[i] == self {
			continue
		}
		for _, no := range anc.Structs {
			ci.StructsByName[ns.Struct(no).Name] = no
		}
		for _, no := range anc.Enums {
			ci.EnumsByName[ns.Enum(no).Name] = no
		}
		for _, no := range anc.UDVTs {
			ci.UDVTsByName[ns.UDVT(no).Name] = no
		}
		for _, no := range anc.Events {
			ci.EventsByName[ns.Event(no).Name] = no
		}
		for _, no := range anc.Errors {
			ci.ErrorsByName[ns.Error(no).Name] = no
		}
		for _, no := range anc.StateVars {
			ci.VarsByName[ns.Var(no).Name] = no
		}
		for name, fns := range anc.FunctionsByName {
			ci.FunctionsByName[name] = fns
		}
	}

	// Ambiguity check: a name surfacing from more than one *immediate*
	// base with a different underlying function, and not redeclared by
	// self, must be overridden rather than silently picked (spec.md
	// §4.3 diamond-inheritance edge case). Overload sets genuinely
	// declared more than once in the same base are not re-flagged here.
	fromBase := map[string]FunctionNo{}
	ambiguous := map[string]bool{}
	for _, b := range immediateBases {
		for name, fns := range ns.Contract(b).FunctionsByName {
			if len(fns) != 1 {
				continue
			}
			if prev, ok := fromBase[name]; ok && prev != fns[0] {
				ambiguous[name] = true
			}
			fromBase[name] = fns[0]
		}
	}

	ownNames := map[string]bool{}
	for _, no := range ci.Functions {
		ownNames[ns.Function(no).Name] = true
	}
	for name := range ambiguous {
		if !ownNames[name] {
			bag.Errorf(diag.KindInheritance, ci.Span,
				"derived contract %q must override %q: inherited from multiple bases", ci.Name, name)
		}
	}

	// Self's own declarations are overrides of (or new overloads
	// alongside) whatever the bases contributed; a redeclared name
	// replaces the inherited overload set outright, matching the
	// common override case more closely than appending would. This
	// also registers self's own structs/enums/UDVTs/events/errors/vars,
	// which the ancestor-only loop above deliberately skips.
	own := map[string][]FunctionNo{}
	for _, no := range ci.Functions {
		fi := ns.Function(no)
		own[fi.Name] = append(own[fi.Name], no)
	}
	for name, fns := range own {
		ci.FunctionsByName[name] = fns
	}
	for _, no := range ci.Structs {
		ci.StructsByName[ns.Struct(no).Name] = no
	}
	for _, no := range ci.Enums {
		ci.EnumsByName[ns.Enum(no).Name] = no
	}
	for _, no := range ci.UDVTs {
		ci.UDVTsByName[ns.UDVT(no).Name] = no
	}
	for _, no := range ci.Events {
		ci.EventsByName[ns.Event(no).Name] = no
	}
	for _, no := range ci.Errors {
		ci.ErrorsByName[ns.Error(no).Name] = no
	}
	for _, no := range ci.StateVars { // still own-only; linearized below
		ci.VarsByName[ns.Var(no).Name] = no
	}

	// StateVars in declaration order across the full linearization,
	// base-to-derived, matching Solidity's storage layout order
	// (spec.md §4.3 "Storage Layout"). The linearization already lists
	// every ancestor transitively, so one pass over it in reverse,
	// taking each ancestor's own declarations, is enough.
	ownVars := ci.StateVars // collect's own declarations, set before linearization ran
	ci.StateVars = nil
	for i := len(ancestors) - 1; i >= 0; i-- {
		anc := ancestors[i]
		if anc == self {
			ci.StateVars = append(ci.StateVars, ownVars...)
			continue
		}
		for _, no := range ns.Contract(anc).ownDeclaredStateVars {
			ci.StateVars = append(ci.StateVars, no)
		}
	}
	ci.ownDeclaredStateVars = ownVars
}
