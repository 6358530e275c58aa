package dlgrammar

import (
	"fmt"

	"github.com/gitrdm/mimir-go/pkg/dl"
	"github.com/gitrdm/mimir-go/pkg/formalism"
)

// Preset identifies which constructor subset BuildPreset assembles.
type Preset int

const (
	// Complete wires every constructor keyword from spec.md §6's EBNF
	// surface (grounded on original_source's grammar_bnf/complete.cpp).
	Complete Preset = iota
	// FrancesEtAlAAAI2021 is a restricted grammar: unary predicates
	// only, no role algebra beyond atomic roles, no numerical
	// constructors — the subset the S4 seed scenario exercises.
	// original_source has no standalone "frances_et_al" grammar file to
	// ground this against line-for-line; the restriction is inferred
	// from spec.md §4.7's description of S4 and recorded as an Open
	// Question resolution in DESIGN.md.
	FrancesEtAlAAAI2021
)

// conceptNT/roleNT/booleanNT/numericalNT name the shared pools
// every atomic and composite rule reads from and writes to.
const (
	conceptNT   = "concept"
	roleNT      = "role"
	booleanNT   = "boolean"
	numericalNT = "numerical"
)

// BuildPreset assembles a Grammar over domain's predicates and
// problem's objects (for Nominal rules) matching preset.
func BuildPreset(preset Preset, domain *formalism.Domain, problem *formalism.Problem) *Grammar {
	g := New()
	// concept/role/boolean/numerical are ordinary non-terminals that
	// appear freely in rule bodies; each gets its own "_start" symbol
	// (grounded on original_source's add_start_symbol, which emits a
	// separate "<D_start> = <D>" substitution rather than flagging <D>
	// itself as a start symbol) so rule (iii) — start symbols never
	// appear in a body — holds even though <concept> nests inside
	// itself via Intersection/Union/Negation.
	concept := &NonTerminal{Name: conceptNT, Tag: ConceptTag}
	role := &NonTerminal{Name: roleNT, Tag: RoleTag}
	boolean := &NonTerminal{Name: booleanNT, Tag: BooleanTag}
	numerical := &NonTerminal{Name: numericalNT, Tag: NumericalTag}
	conceptStart := &NonTerminal{Name: conceptNT + "_start", Tag: ConceptTag, IsStart: true}
	roleStart := &NonTerminal{Name: roleNT + "_start", Tag: RoleTag, IsStart: true}
	booleanStart := &NonTerminal{Name: booleanNT + "_start", Tag: BooleanTag, IsStart: true}
	numericalStart := &NonTerminal{Name: numericalNT + "_start", Tag: NumericalTag, IsStart: true}
	g.AddNonTerminal(concept)
	g.AddNonTerminal(role)
	g.AddNonTerminal(boolean)
	g.AddNonTerminal(numerical)
	g.AddNonTerminal(conceptStart)
	g.AddNonTerminal(roleStart)
	g.AddNonTerminal(booleanStart)
	g.AddNonTerminal(numericalStart)
	g.AddSubstitution(SubstitutionRule{Head: conceptStart, Body: concept})
	g.AddSubstitution(SubstitutionRule{Head: roleStart, Body: role})
	g.AddSubstitution(SubstitutionRule{Head: booleanStart, Body: boolean})
	g.AddSubstitution(SubstitutionRule{Head: numericalStart, Body: numerical})

	addConceptRule := func(name string, build func(children []Sentence) Sentence, children ...*NonTerminal) {
		g.AddDerivation(DerivationRule{Name: name, Head: concept, Children: children, Build: build})
	}
	addRoleRule := func(name string, build func(children []Sentence) Sentence, children ...*NonTerminal) {
		g.AddDerivation(DerivationRule{Name: name, Head: role, Children: children, Build: build})
	}

	addConceptRule("top", func(_ []Sentence) Sentence { return Sentence{Tag: ConceptTag, Concept: dl.Top()} })
	addConceptRule("bottom", func(_ []Sentence) Sentence { return Sentence{Tag: ConceptTag, Concept: dl.Bottom()} })

	for _, pred := range domain.Predicates.All() {
		pred := pred
		if pred.Arity == 1 {
			addConceptRule(fmt.Sprintf("atomic_state(%s)", pred.Name), func(_ []Sentence) Sentence {
				return Sentence{Tag: ConceptTag, Concept: dl.AtomicStateConcept(pred.Index)}
			})
			addConceptRule(fmt.Sprintf("atomic_goal_true(%s)", pred.Name), func(_ []Sentence) Sentence {
				return Sentence{Tag: ConceptTag, Concept: dl.AtomicGoalConcept(pred.Index, true)}
			})
			addConceptRule(fmt.Sprintf("atomic_goal_false(%s)", pred.Name), func(_ []Sentence) Sentence {
				return Sentence{Tag: ConceptTag, Concept: dl.AtomicGoalConcept(pred.Index, false)}
			})
		}
		if pred.Arity == 2 {
			addRoleRule(fmt.Sprintf("role_atomic_state(%s)", pred.Name), func(_ []Sentence) Sentence {
				return Sentence{Tag: RoleTag, Role: dl.AtomicStateRole(pred.Index)}
			})
			addRoleRule(fmt.Sprintf("role_atomic_goal_true(%s)", pred.Name), func(_ []Sentence) Sentence {
				return Sentence{Tag: RoleTag, Role: dl.AtomicGoalRole(pred.Index, true)}
			})
		}
	}

	addConceptRule("intersection", func(c []Sentence) Sentence {
		return Sentence{Tag: ConceptTag, Concept: dl.Intersection(c[0].Concept, c[1].Concept)}
	}, concept, concept)
	g.Derivations[len(g.Derivations)-1].Commutative = true

	addConceptRule("negation", func(c []Sentence) Sentence {
		return Sentence{Tag: ConceptTag, Concept: dl.Negation(c[0].Concept)}
	}, concept)

	g.AddDerivation(DerivationRule{
		Name: "boolean_nonempty_concept", Head: boolean, Children: []*NonTerminal{concept},
		Build: func(c []Sentence) Sentence { return Sentence{Tag: BooleanTag, Boolean: dl.NonemptyConcept(c[0].Concept)} },
	})

	if preset == FrancesEtAlAAAI2021 {
		if problem != nil {
			for _, obj := range problem.Objects.All() {
				obj := obj
				addConceptRule(fmt.Sprintf("nominal(%s)", obj.Name), func(_ []Sentence) Sentence {
					return Sentence{Tag: ConceptTag, Concept: dl.Nominal(obj.Index)}
				})
			}
		}
		return g
	}

	// Complete adds union, value restriction, existential
	// quantification, role-value-map containment/equality, nominals,
	// full role algebra, boolean atomic state, and numerical
	// Count/Distance.
	addConceptRule("union", func(c []Sentence) Sentence {
		return Sentence{Tag: ConceptTag, Concept: dl.Union(c[0].Concept, c[1].Concept)}
	}, concept, concept)
	g.Derivations[len(g.Derivations)-1].Commutative = true

	addConceptRule("value_restriction", func(c []Sentence) Sentence {
		return Sentence{Tag: ConceptTag, Concept: dl.ValueRestriction(c[0].Role, c[1].Concept)}
	}, role, concept)

	addConceptRule("existential_quantification", func(c []Sentence) Sentence {
		return Sentence{Tag: ConceptTag, Concept: dl.ExistentialQuantification(c[0].Role, c[1].Concept)}
	}, role, concept)

	addConceptRule("role_value_map_containment", func(c []Sentence) Sentence {
		return Sentence{Tag: ConceptTag, Concept: dl.RoleValueMapContainment(c[0].Role, c[1].Role)}
	}, role, role)

	addConceptRule("role_value_map_equality", func(c []Sentence) Sentence {
		return Sentence{Tag: ConceptTag, Concept: dl.RoleValueMapEquality(c[0].Role, c[1].Role)}
	}, role, role)

	if problem != nil {
		for _, obj := range problem.Objects.All() {
			obj := obj
			addConceptRule(fmt.Sprintf("nominal(%s)", obj.Name), func(_ []Sentence) Sentence {
				return Sentence{Tag: ConceptTag, Concept: dl.Nominal(obj.Index)}
			})
		}
	}

	addRoleRule("role_universal", func(_ []Sentence) Sentence { return Sentence{Tag: RoleTag, Role: dl.Universal()} })
	addRoleRule("role_intersection", func(c []Sentence) Sentence {
		return Sentence{Tag: RoleTag, Role: dl.RoleIntersectionOf(c[0].Role, c[1].Role)}
	}, role, role)
	g.Derivations[len(g.Derivations)-1].Commutative = true
	addRoleRule("role_union", func(c []Sentence) Sentence {
		return Sentence{Tag: RoleTag, Role: dl.RoleUnionOf(c[0].Role, c[1].Role)}
	}, role, role)
	g.Derivations[len(g.Derivations)-1].Commutative = true
	addRoleRule("role_complement", func(c []Sentence) Sentence {
		return Sentence{Tag: RoleTag, Role: dl.Complement(c[0].Role)}
	}, role)
	addRoleRule("role_inverse", func(c []Sentence) Sentence {
		return Sentence{Tag: RoleTag, Role: dl.Inverse(c[0].Role)}
	}, role)
	addRoleRule("role_composition", func(c []Sentence) Sentence {
		return Sentence{Tag: RoleTag, Role: dl.Composition(c[0].Role, c[1].Role)}
	}, role, role)
	addRoleRule("role_transitive_closure", func(c []Sentence) Sentence {
		return Sentence{Tag: RoleTag, Role: dl.TransitiveClosureOf(c[0].Role)}
	}, role)
	addRoleRule("role_reflexive_transitive_closure", func(c []Sentence) Sentence {
		return Sentence{Tag: RoleTag, Role: dl.ReflexiveTransitiveClosureOf(c[0].Role)}
	}, role)
	addRoleRule("role_restriction", func(c []Sentence) Sentence {
		return Sentence{Tag: RoleTag, Role: dl.Restriction(c[0].Role, c[1].Concept)}
	}, role, concept)
	addRoleRule("role_identity", func(c []Sentence) Sentence {
		return Sentence{Tag: RoleTag, Role: dl.Identity(c[0].Concept)}
	}, concept)

	g.AddDerivation(DerivationRule{
		Name: "boolean_nonempty_role", Head: boolean, Children: []*NonTerminal{role},
		Build: func(c []Sentence) Sentence { return Sentence{Tag: BooleanTag, Boolean: dl.NonemptyRole(c[0].Role)} },
	})

	for _, pred := range domain.Predicates.All() {
		pred := pred
		if pred.Arity == 0 {
			g.AddDerivation(DerivationRule{
				Name: fmt.Sprintf("boolean_atomic_state(%s)", pred.Name), Head: boolean,
				Build: func(_ []Sentence) Sentence { return Sentence{Tag: BooleanTag, Boolean: dl.BooleanOfAtomicState(pred.Index)} },
			})
		}
	}

	g.AddDerivation(DerivationRule{
		Name: "numerical_count_concept", Head: numerical, Children: []*NonTerminal{concept},
		Build: func(c []Sentence) Sentence { return Sentence{Tag: NumericalTag, Numerical: dl.CountConcept(c[0].Concept)} },
	})
	g.AddDerivation(DerivationRule{
		Name: "numerical_count_role", Head: numerical, Children: []*NonTerminal{role},
		Build: func(c []Sentence) Sentence { return Sentence{Tag: NumericalTag, Numerical: dl.CountRole(c[0].Role)} },
	})
	g.AddDerivation(DerivationRule{
		Name: "numerical_distance", Head: numerical, Children: []*NonTerminal{concept, role, concept},
		Build: func(c []Sentence) Sentence {
			return Sentence{Tag: NumericalTag, Numerical: dl.Distance(c[0].Concept, c[1].Role, c[2].Concept)}
		},
	})

	return g
}
