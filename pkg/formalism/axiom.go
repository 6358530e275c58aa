package formalism

// Axiom is a lifted derivation rule: `head :- Body`, where head's
// predicate must be tagged Derived (spec.md §3, §4.5). Axioms share
// Action's ConjunctiveCondition body shape but have a single Literal
// head instead of an effect, and no numeric component (PDDL axioms
// never carry numeric effects).
type Axiom struct {
	Index      Index
	Parameters []Parameter
	Head       Literal
	Body       ConjunctiveCondition
}

// Axioms stores Axiom values. Unlike Predicate/Action, axioms have no
// natural name to key on (PDDL's :derived clauses are anonymous), so
// this is an append-only list rather than a keyed Repository.
type Axioms struct {
	values []Axiom
}

// NewAxioms returns an empty axiom list.
func NewAxioms() *Axioms { return &Axioms{} }

// Add appends a new axiom, assigning it the next Index.
func (a *Axioms) Add(build func(idx Index) Axiom) *Axiom {
	idx := Index(len(a.values))
	a.values = append(a.values, build(idx))
	return &a.values[len(a.values)-1]
}

// Len returns the number of axioms.
func (a *Axioms) Len() int { return len(a.values) }

// All returns every axiom in insertion order.
func (a *Axioms) All() []Axiom { return a.values }
