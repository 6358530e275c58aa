package state

import (
	"github.com/gitrdm/mimir-go/pkg/bitset"
	"github.com/gitrdm/mimir-go/pkg/formalism"
)

// Apply computes the successor of applying action in current,
// following spec.md §4.9's fixed order: unconditional add/delete
// effects, then conditional effects (guards evaluated against the
// pre-state current, never the partially-updated successor), then
// numeric effects, then the Derived closure via axiomsByStratum fired
// to their least fixpoint. The result is interned into r.
//
// Calling Apply when action is not applicable in current is undefined
// behaviour (spec.md §4.9) — callers must have already consulted
// action.IsApplicable(current.Atoms, resolve), with resolve returning
// the value half of current.NumericValue.
func Apply(r *Repository, action *formalism.GroundAction, current *State, axiomsByStratum [][]*formalism.GroundAxiom) *State {
	next := current.Atoms.Clone()

	if action.EffectAdd != nil {
		next.Union(action.EffectAdd)
	}
	if action.EffectDelete != nil {
		for _, i := range action.EffectDelete.ToSlice() {
			next.Clear(i)
		}
	}

	for _, ce := range action.ConditionalEffects {
		if conditionalEffectFires(ce, current.Atoms) {
			if ce.Add != nil {
				next.Union(ce.Add)
			}
			if ce.Delete != nil {
				for _, i := range ce.Delete.ToSlice() {
					next.Clear(i)
				}
			}
		}
	}

	numeric := make(map[numericKey]float64, len(current.Numeric))
	for k, v := range current.Numeric {
		numeric[k] = v
	}
	resolve := func(function formalism.Index, args []formalism.Index) float64 {
		v, _ := numeric[numKey(function, args)]
		return v
	}
	for _, ne := range action.NumericEffects {
		key := numKey(ne.Function, ne.Args)
		numeric[key] = ne.Apply(numeric[key], resolve)
	}
	for _, ce := range action.ConditionalEffects {
		if conditionalEffectFires(ce, current.Atoms) {
			for _, ne := range ce.NumericEffects {
				key := numKey(ne.Function, ne.Args)
				numeric[key] = ne.Apply(numeric[key], resolve)
			}
		}
	}

	applyDerivedClosure(next, axiomsByStratum)

	return r.Intern(next, numeric)
}

func conditionalEffectFires(ce formalism.GroundConditionalEffect, pre *bitset.BitSet) bool {
	if ce.ConditionPositive != nil {
		ok := true
		ce.ConditionPositive.ForEach(func(i int) {
			if !pre.Test(i) {
				ok = false
			}
		})
		if !ok {
			return false
		}
	}
	if ce.ConditionNegative != nil {
		ok := true
		ce.ConditionNegative.ForEach(func(i int) {
			if pre.Test(i) {
				ok = false
			}
		})
		if !ok {
			return false
		}
	}
	return true
}

// applyDerivedClosure fires every stratum's axioms to their least
// fixpoint in order, mutating atoms in place. Within a stratum, axioms
// are re-swept until no axiom adds a new head atom (spec.md §4.5).
func applyDerivedClosure(atoms *bitset.BitSet, axiomsByStratum [][]*formalism.GroundAxiom) {
	for _, stratum := range axiomsByStratum {
		changed := true
		for changed {
			changed = false
			for _, ax := range stratum {
				if atoms.Test(int(ax.Head)) {
					continue
				}
				if ax.IsApplicable(atoms) {
					atoms.Set(int(ax.Head))
					changed = true
				}
			}
		}
	}
}
