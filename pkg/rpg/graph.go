// Package rpg builds the unary relaxed planning graph and evaluates
// the h_max/h_add/h_ff/h_set_add delete-relaxation heuristics over it
// (spec.md §4.6).
//
// The shared Dijkstra-style propagation loop is grounded on the
// teacher's constraint-propagation fixed-point shape
// (gitrdm/gokanlogic pkg/fd/propagation.go's worklist loop), combined
// with a container/heap lazy-decrease-key priority queue in the idiom
// of lvlath/dijkstra (_examples/lvlath, pkg/dijkstra) — kept as a
// stdlib container/heap implementation rather than importing lvlath's
// graph ADT directly, since lvlath's vertices are string-keyed and
// the RPG's propositions are already dense integers (see DESIGN.md).
package rpg

import (
	"github.com/gitrdm/mimir-go/pkg/bitset"
	"github.com/gitrdm/mimir-go/pkg/formalism"
)

// DummyProposition is the reserved proposition index owning every
// trivially-precondition-free unary rule.
const DummyProposition = 0

// UnaryRule is the relaxed (delete-ignoring) form of one ground
// action's conditional-effect/atom pair, or one ground axiom: a set
// of precondition propositions and a single effect proposition.
type UnaryRule struct {
	Preconditions  []int
	Effect         int
	IsAction       bool
	OriginalAction formalism.Index // valid when IsAction; identifies the ground action for h_ff's distinct-action count
	Cost           float64
}

// Graph is the unary relaxed planning graph: one Proposition per
// ground atom index below Build's numAtoms (plus the dummy), and the
// UnaryRules derived from every ground action/axiom (spec.md §4.6).
type Graph struct {
	NumPropositions int
	Rules           []UnaryRule
	// RulesByPrecondition[p] lists the indices into Rules that have p
	// among their Preconditions, for the Dijkstra loop's pop step.
	RulesByPrecondition [][]int
	Goals               []int
}

func propositionOf(atomIndex formalism.Index) int { return int(atomIndex) + 1 }

func preconditionsOf(positive *bitset.BitSet) []int {
	if positive == nil || positive.IsZero() {
		return []int{DummyProposition}
	}
	var out []int
	positive.ForEach(func(i int) { out = append(out, propositionOf(formalism.Index(i))) })
	return out
}

// Build constructs the relaxed planning graph for a ground planning
// task: numAtoms is the size of the shared GroundAtom index space,
// actions and axioms are every ground action/axiom reachable by the
// grounder, and goalPositive is the positive part of the problem's
// goal condition.
func Build(numAtoms int, actions []*formalism.GroundAction, axioms []*formalism.GroundAxiom, goalPositive *bitset.BitSet) *Graph {
	g := &Graph{NumPropositions: numAtoms + 1}

	addRule := func(preconditions []int, effect int, isAction bool, original formalism.Index, cost float64) {
		g.Rules = append(g.Rules, UnaryRule{
			Preconditions:  preconditions,
			Effect:         effect,
			IsAction:       isAction,
			OriginalAction: original,
			Cost:           cost,
		})
	}

	for _, a := range actions {
		cost := float64(a.Cost)
		if cost == 0 {
			cost = 1
		}
		pre := preconditionsOf(a.PreconditionPositive)
		if a.EffectAdd != nil {
			a.EffectAdd.ForEach(func(atomIdx int) {
				addRule(pre, propositionOf(formalism.Index(atomIdx)), true, a.Index, cost)
			})
		}
		for _, ce := range a.ConditionalEffects {
			cePre := append(append([]int{}, pre...), preconditionsOf(ce.ConditionPositive)...)
			if ce.Add != nil {
				ce.Add.ForEach(func(atomIdx int) {
					addRule(cePre, propositionOf(formalism.Index(atomIdx)), true, a.Index, cost)
				})
			}
		}
	}

	for _, ax := range axioms {
		pre := preconditionsOf(ax.BodyPositive)
		addRule(pre, propositionOf(ax.Head), false, formalism.IndexNone, 0)
	}

	g.RulesByPrecondition = make([][]int, g.NumPropositions)
	for ri, r := range g.Rules {
		for _, p := range r.Preconditions {
			g.RulesByPrecondition[p] = append(g.RulesByPrecondition[p], ri)
		}
	}

	if goalPositive != nil {
		goalPositive.ForEach(func(atomIdx int) {
			g.Goals = append(g.Goals, propositionOf(formalism.Index(atomIdx)))
		})
	}
	return g
}
