package formalism

import "github.com/gitrdm/mimir-go/pkg/bitset"

// GroundConditionalEffect is the compiled form of a ConditionalEffect:
// its condition and effect literals have been substituted and folded
// into GroundAtom bitsets over the same index space a State uses, so
// applicability and effect application are bitset operations rather
// than term-by-term comparisons.
type GroundConditionalEffect struct {
	ConditionPositive *bitset.BitSet
	ConditionNegative *bitset.BitSet
	Add               *bitset.BitSet
	Delete            *bitset.BitSet
	NumericEffects     []NumericEffect
}

// GroundAction is the fully instantiated, grounding-time-compiled form
// of an Action: its parameter bindings are fixed, and its condition
// and unconditional effect have been folded into GroundAtom bitsets
// (spec.md §4.4, §4.6). The grounder produces these; the successor
// generator and RPG heuristics only ever see GroundActions.
type GroundAction struct {
	Index    Index
	Action   Index   // originating lifted Action
	Objects  []Index // parameter bindings, one Objects index per Action.Parameters slot

	PreconditionPositive *bitset.BitSet
	PreconditionNegative *bitset.BitSet
	NumericPreconditions []NumericConstraint

	EffectAdd    *bitset.BitSet
	EffectDelete *bitset.BitSet
	NumericEffects []NumericEffect

	ConditionalEffects []GroundConditionalEffect

	Cost ActionCost
}

// IsApplicable reports whether every positive precondition atom is
// present, every negative precondition atom is absent from atoms, and
// every numeric precondition holds when resolved via resolveNumeric.
// resolveNumeric may be nil when NumericPreconditions is empty — it is
// never called otherwise, so callers with no numeric fluents in play
// (e.g. a purely propositional domain, or the relaxed planning graph,
// which ignores numeric preconditions by design) may pass nil.
func (a *GroundAction) IsApplicable(atoms *bitset.BitSet, resolveNumeric func(function Index, args []Index) float64) bool {
	if a.PreconditionPositive != nil {
		ok := true
		a.PreconditionPositive.ForEach(func(i int) {
			if !atoms.Test(i) {
				ok = false
			}
		})
		if !ok {
			return false
		}
	}
	if a.PreconditionNegative != nil {
		ok := true
		a.PreconditionNegative.ForEach(func(i int) {
			if atoms.Test(i) {
				ok = false
			}
		})
		if !ok {
			return false
		}
	}
	for i := range a.NumericPreconditions {
		nc := a.NumericPreconditions[i]
		if !nc.Holds(resolveNumeric) {
			return false
		}
	}
	return true
}

// GroundAxiom is the compiled form of an Axiom: its body literals have
// been folded into GroundAtom bitsets and its head into a single
// GroundAtom index. Head is always a positive atom: the grounder reads
// the lifted head's predicate and arguments and does not look at its
// Negated flag, so a negated head is not rejected.
type GroundAxiom struct {
	Index Index
	Axiom Index
	Objects []Index

	BodyPositive *bitset.BitSet
	BodyNegative *bitset.BitSet

	Head Index // GroundAtoms index of the derived head atom
}

// IsApplicable reports whether the axiom's body holds in atoms.
func (ax *GroundAxiom) IsApplicable(atoms *bitset.BitSet) bool {
	ok := true
	if ax.BodyPositive != nil {
		ax.BodyPositive.ForEach(func(i int) {
			if !atoms.Test(i) {
				ok = false
			}
		})
	}
	if ok && ax.BodyNegative != nil {
		ax.BodyNegative.ForEach(func(i int) {
			if atoms.Test(i) {
				ok = false
			}
		})
	}
	return ok
}
