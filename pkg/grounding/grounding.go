// Package grounding ties formalism, assignment, consistency, binding,
// and matchtree together into the grounder and applicable-action
// generator spec.md §4.4 and §4.8 describe: lifted Actions/Axioms in,
// interned GroundActions/GroundAxioms out, plus a match-tree-backed
// (or naive fallback) way to ask "what's applicable in this state?".
package grounding

import (
	"github.com/gitrdm/mimir-go/pkg/assignment"
	"github.com/gitrdm/mimir-go/pkg/bitset"
	"github.com/gitrdm/mimir-go/pkg/binding"
	"github.com/gitrdm/mimir-go/pkg/consistency"
	"github.com/gitrdm/mimir-go/pkg/formalism"
	"github.com/gitrdm/mimir-go/pkg/matchtree"
)

// TypeLegalObjects returns every object whose declared type is a
// subtype-eq of t.
func TypeLegalObjects(objects *formalism.Objects, types *formalism.TypeHierarchy, t formalism.Index) []formalism.Index {
	var out []formalism.Index
	for _, o := range objects.All() {
		if types.IsSubtypeEq(o.Type, t) {
			out = append(out, o.Index)
		}
	}
	return out
}

// groundingFacts answers binding.Facts queries during grounding: a
// Static-tagged predicate is checked against the problem's real
// static facts, and every other predicate (Fluent, Derived) or
// numeric constraint is treated as permissive, since a schema's
// Fluent/Derived/numeric conditions are re-checked per-state via the
// compiled GroundAction, not at grounding time.
type groundingFacts struct {
	predicates *formalism.Predicates
	static     consistency.StaticFacts
}

func (f *groundingFacts) Holds(predicate formalism.Index, args []formalism.Index) bool {
	pred := f.predicates.Get(predicate)
	if pred.Tag == formalism.Static {
		return f.static.Holds(predicate, args)
	}
	return true
}

// NumericValue is never consulted: binding.Generator's
// numericHoldsUnderBinding treats every numeric constraint as satisfied
// during grounding (see its doc comment), so this only exists to
// satisfy the binding.Facts interface.
func (f *groundingFacts) NumericValue(function formalism.Index, args []formalism.Index) (float64, bool) {
	return 0, true
}

// Grounder compiles a Domain+Problem's lifted actions and axioms into
// ground form.
type Grounder struct {
	Domain  *formalism.Domain
	Problem *formalism.Problem
	Atoms   *formalism.GroundAtoms

	static consistency.StaticFacts
	facts  *groundingFacts
}

// NewGrounder returns a Grounder over domain/problem. staticFacts
// answers whether a ground Static-predicate atom holds in the
// problem's immutable initial facts.
func NewGrounder(domain *formalism.Domain, problem *formalism.Problem, atoms *formalism.GroundAtoms, staticFacts consistency.StaticFacts) *Grounder {
	return &Grounder{
		Domain:  domain,
		Problem: problem,
		Atoms:   atoms,
		static:  staticFacts,
		facts:   &groundingFacts{predicates: domain.Predicates, static: staticFacts},
	}
}

// actionCost resolves a ground action's cost from its schema's
// distinguished (increase (total-cost) ...) effect, defaulting to 1
// when the domain declares no total-cost function or the action's
// effect never touches it (spec.md §3's ActionCost convention). The
// increase amount is evaluated with a permissive resolver (any
// function reference inside the cost expression reads as 0) since a
// ground action's cost is almost always a plain numeric literal; a
// cost expression that genuinely depends on another function's value
// is out of scope for this grounding pass.
func (g *Grounder) actionCost(action *formalism.Action) formalism.ActionCost {
	totalCost, ok := g.Domain.Functions.Lookup("total-cost")
	if !ok {
		return 1
	}
	for _, ne := range action.Effect.Numeric {
		if ne.Function != totalCost.Index || ne.Op != formalism.AssignIncrease {
			continue
		}
		return formalism.ActionCost(ne.Value.Evaluate(func(formalism.Index, []formalism.Index) float64 { return 0 }))
	}
	return 1
}

func (g *Grounder) legalObjectsFor(params []formalism.Parameter) [][]formalism.Index {
	out := make([][]formalism.Index, len(params))
	for i, p := range params {
		out[i] = TypeLegalObjects(g.Problem.Objects, g.Domain.Types, p.Type)
	}
	return out
}

func staticLiteralsOf(cond formalism.ConjunctiveCondition, predicates *formalism.Predicates) []formalism.Literal {
	var out []formalism.Literal
	for _, lit := range cond.Literals {
		if predicates.Get(lit.Predicate).Tag == formalism.Static {
			out = append(out, lit)
		}
	}
	return out
}

func substituteLiteral(lit formalism.Literal, objs []formalism.Index) formalism.Literal {
	terms := make([]formalism.Term, len(lit.Terms))
	for i, t := range lit.Terms {
		if t.IsVariable {
			terms[i] = formalism.ConstantTerm(objs[t.Index])
		} else {
			terms[i] = t
		}
	}
	return formalism.Literal{Negated: lit.Negated, Predicate: lit.Predicate, Terms: terms}
}

func bitsetOfLiterals(atoms *formalism.GroundAtoms, lits []formalism.Literal, objs []formalism.Index, negated bool) *bitset.BitSet {
	b := bitset.New(atoms.Len())
	for _, lit := range lits {
		if lit.Negated != negated {
			continue
		}
		ground := substituteLiteral(lit, objs)
		args := make([]formalism.Index, len(ground.Terms))
		for i, t := range ground.Terms {
			args[i] = t.Index
		}
		atom := atoms.GetOrCreate(ground.Predicate, args)
		b.Set(int(atom.Index))
	}
	return b
}

// GroundActions compiles every lifted Action into every applicable
// GroundAction the static consistency graph and binding generator
// admit.
func (g *Grounder) GroundActions() []*formalism.GroundAction {
	var out []*formalism.GroundAction
	for _, action := range g.Domain.Actions.All() {
		legal := g.legalObjectsFor(action.Parameters)
		hash := assignment.Build(legal)
		builder := consistency.NewBuilder(hash, g.static)
		staticLits := staticLiteralsOf(action.Precondition, g.Domain.Predicates)
		graph := builder.Build(len(action.Parameters), legal, staticLits)

		gen := binding.NewGenerator(graph, action.Precondition, len(action.Parameters), g.facts)
		// Static literals are settled by the binding generator, so only
		// Fluent/Derived literals enter the precondition bitsets.
		var dynamicPre []formalism.Literal
		for _, lit := range action.Precondition.Literals {
			if g.Domain.Predicates.Get(lit.Predicate).Tag != formalism.Static {
				dynamicPre = append(dynamicPre, lit)
			}
		}
		for {
			objs, ok := gen.Next()
			if !ok {
				break
			}
			ga := &formalism.GroundAction{
				Index:                formalism.Index(len(out)),
				Action:               action.Index,
				Objects:              objs,
				PreconditionPositive: bitsetOfLiterals(g.Atoms, dynamicPre, objs, false),
				PreconditionNegative: bitsetOfLiterals(g.Atoms, dynamicPre, objs, true),
				NumericPreconditions: action.Precondition.Numeric,
				EffectAdd:            bitsetOfLiterals(g.Atoms, action.Effect.Literals, objs, false),
				EffectDelete:         bitsetOfLiterals(g.Atoms, action.Effect.Literals, objs, true),
				NumericEffects:       action.Effect.Numeric,
				Cost:                 g.actionCost(&action),
			}
			for _, ce := range action.ConditionalEffects {
				ga.ConditionalEffects = append(ga.ConditionalEffects, g.groundConditionalEffect(ce, objs))
			}
			out = append(out, ga)
		}
	}
	return out
}

func (g *Grounder) groundConditionalEffect(ce formalism.ConditionalEffect, outerBinding []formalism.Index) formalism.GroundConditionalEffect {
	// Extra parameters are enumerated by full type-legal cross product;
	// each combination yields its own compiled conditional effect, but
	// spec.md's GroundAction carries one ConditionalEffect slot per
	// original schema conditional effect, so this folds every extra
	// binding's literals into the same bitset (their conditions are
	// ORed together implicitly by being present in the same add/delete
	// set once any combination's guard holds — per-state evaluation
	// still re-checks the combined condition bitset against the live
	// state, matching spec.md §4.9's "guards over the pre-state").
	var extraBindings [][]formalism.Index
	if len(ce.ExtraParameters) == 0 {
		extraBindings = [][]formalism.Index{nil}
	} else {
		extraBindings = crossProduct(g.extraLegalObjects(ce.ExtraParameters))
	}

	add := bitset.New(g.Atoms.Len())
	del := bitset.New(g.Atoms.Len())
	condPos := bitset.New(g.Atoms.Len())
	condNeg := bitset.New(g.Atoms.Len())
	for _, extra := range extraBindings {
		full := append(append([]formalism.Index{}, outerBinding...), extra...)
		addB := bitsetOfLiterals(g.Atoms, ce.Effect.Literals, full, false)
		delB := bitsetOfLiterals(g.Atoms, ce.Effect.Literals, full, true)
		cPos := bitsetOfLiterals(g.Atoms, ce.Condition.Literals, full, false)
		cNeg := bitsetOfLiterals(g.Atoms, ce.Condition.Literals, full, true)
		add.Union(addB)
		del.Union(delB)
		condPos.Union(cPos)
		condNeg.Union(cNeg)
	}
	return formalism.GroundConditionalEffect{
		ConditionPositive: condPos,
		ConditionNegative: condNeg,
		Add:               add,
		Delete:            del,
		NumericEffects:    ce.Effect.Numeric,
	}
}

func (g *Grounder) extraLegalObjects(extra []formalism.Index) [][]formalism.Index {
	out := make([][]formalism.Index, len(extra))
	for i, t := range extra {
		out[i] = TypeLegalObjects(g.Problem.Objects, g.Domain.Types, t)
	}
	return out
}

func crossProduct(domains [][]formalism.Index) [][]formalism.Index {
	result := [][]formalism.Index{{}}
	for _, domain := range domains {
		var next [][]formalism.Index
		for _, prefix := range result {
			for _, o := range domain {
				combo := append(append([]formalism.Index{}, prefix...), o)
				next = append(next, combo)
			}
		}
		result = next
	}
	return result
}

// GroundAxioms compiles every lifted Axiom into every GroundAxiom the
// static consistency graph and binding generator admit.
func (g *Grounder) GroundAxioms() []*formalism.GroundAxiom {
	var out []*formalism.GroundAxiom
	for _, ax := range g.Domain.Axioms.All() {
		legal := g.legalObjectsFor(ax.Parameters)
		hash := assignment.Build(legal)
		builder := consistency.NewBuilder(hash, g.static)
		staticLits := staticLiteralsOf(ax.Body, g.Domain.Predicates)
		graph := builder.Build(len(ax.Parameters), legal, staticLits)

		gen := binding.NewGenerator(graph, ax.Body, len(ax.Parameters), g.facts)
		for {
			objs, ok := gen.Next()
			if !ok {
				break
			}
			head := substituteLiteral(ax.Head, objs)
			headArgs := make([]formalism.Index, len(head.Terms))
			for i, t := range head.Terms {
				headArgs[i] = t.Index
			}
			headAtom := g.Atoms.GetOrCreate(head.Predicate, headArgs)
			gax := &formalism.GroundAxiom{
				Index:        formalism.Index(len(out)),
				Axiom:        ax.Index,
				Objects:      objs,
				BodyPositive: bitsetOfLiterals(g.Atoms, ax.Body.Literals, objs, false),
				BodyNegative: bitsetOfLiterals(g.Atoms, ax.Body.Literals, objs, true),
				Head:         headAtom.Index,
			}
			out = append(out, gax)
		}
	}
	return out
}

// ApplicableActions is the naive (non-match-tree) applicable-action
// generator: a linear scan testing every ground action's full
// compiled precondition against atoms (spec.md §4.8's "same semantics"
// baseline the match tree accelerates). resolveNumeric answers numeric
// fluent lookups for any NumericPreconditions; pass nil if the ground
// actions in play have none, otherwise a function that returns the
// value half of state.State.NumericValue.
func ApplicableActions(actions []*formalism.GroundAction, atoms *bitset.BitSet, resolveNumeric func(function formalism.Index, args []formalism.Index) float64) []*formalism.GroundAction {
	var out []*formalism.GroundAction
	for _, a := range actions {
		if a.IsApplicable(atoms, resolveNumeric) {
			out = append(out, a)
		}
	}
	return out
}

// PlanCost sums every action's Cost, the plan-cost total spec.md §6's
// "; cost = <float>" plan trailer reports.
func PlanCost(actions []*formalism.GroundAction) float64 {
	var total float64
	for _, a := range actions {
		total += float64(a.Cost)
	}
	return total
}

// actionOracle adapts a ground action list to matchtree.Oracle by
// answering one AtomSelector per precondition atom referenced by any
// action, so Build can split on the atoms that actually discriminate
// this action set.
type actionOracle struct {
	actions []*formalism.GroundAction
}

func (o *actionOracle) Selectors(working []matchtree.Element) []matchtree.Selector {
	seen := map[formalism.Index]bool{}
	var out []matchtree.Selector
	for _, e := range working {
		a := o.actions[e.ID]
		mark := func(b *bitset.BitSet) {
			if b == nil {
				return
			}
			b.ForEach(func(i int) {
				atom := formalism.Index(i)
				if !seen[atom] {
					seen[atom] = true
					out = append(out, matchtree.Selector{Atom: atom})
				}
			})
		}
		mark(a.PreconditionPositive)
		mark(a.PreconditionNegative)
	}
	return out
}

func (o *actionOracle) Answer(e matchtree.Element, sel matchtree.Selector) matchtree.Answer {
	a := o.actions[e.ID]
	if a.PreconditionPositive != nil && a.PreconditionPositive.Test(int(sel.Atom)) {
		return matchtree.AnswerTrue
	}
	if a.PreconditionNegative != nil && a.PreconditionNegative.Test(int(sel.Atom)) {
		return matchtree.AnswerFalse
	}
	return matchtree.AnswerDontCare
}

// BuildDispatch builds a match tree over actions for repeated
// applicable-action queries.
func BuildDispatch(actions []*formalism.GroundAction, opts matchtree.Options) *matchtree.Node {
	elements := make([]matchtree.Element, len(actions))
	for i := range actions {
		elements[i] = matchtree.Element{ID: i}
	}
	return matchtree.Build(elements, &actionOracle{actions: actions}, opts)
}

// DispatchApplicable walks tree for atoms, returning every ground
// action reached, re-verified against atoms so GeneratorImperfect
// leaves and AnswerDontCare-only paths never over-yield. resolveNumeric
// is threaded through to IsApplicable's NumericPreconditions check; see
// ApplicableActions.
func DispatchApplicable(tree *matchtree.Node, actions []*formalism.GroundAction, atoms *bitset.BitSet, resolveNumeric func(function formalism.Index, args []formalism.Index) float64) []*formalism.GroundAction {
	var out []*formalism.GroundAction
	tree.Dispatch(
		func(atom formalism.Index) bool { return atoms.Test(int(atom)) },
		func(formalism.NumericConstraint) bool { return true },
		func(e matchtree.Element) bool { return actions[e.ID].IsApplicable(atoms, resolveNumeric) },
		func(e matchtree.Element) {
			a := actions[e.ID]
			if a.IsApplicable(atoms, resolveNumeric) {
				out = append(out, a)
			}
		},
	)
	return out
}
