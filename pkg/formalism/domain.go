package formalism

// Domain aggregates every repository a grounder needs: the type
// hierarchy, predicate/function signatures, and the lifted
// actions/axioms that reference them. A Domain is built once (by a
// parser's semantic-analysis pass, out of scope here) and is
// immutable for the lifetime of every Problem grounded against it.
type Domain struct {
	Name       string
	Types      *TypeHierarchy
	Predicates *Predicates
	Functions  *FunctionSkeletons
	Actions    *Actions
	Axioms     *Axioms
}

// NewDomain returns an empty Domain with freshly initialized repositories.
func NewDomain(name string) *Domain {
	return &Domain{
		Name:       name,
		Types:      NewTypeHierarchy(),
		Predicates: NewPredicates(),
		Functions:  NewFunctionSkeletons(),
		Actions:    NewActions(),
		Axioms:     NewAxioms(),
	}
}

// Problem pairs a Domain with its own object universe, initial state
// literals, numeric-fluent initial values, and goal condition — the
// unit a grounder consumes to produce a ground planning task (spec.md
// §1, §4.4).
type Problem struct {
	Name   string
	Domain *Domain
	Objects *Objects

	InitialLiterals []Literal // ground literals (Terms are all ConstantTerm)
	InitialNumeric  map[Index]float64 // FunctionSkeleton index -> value, 0-ary functions only for now

	Goal ConjunctiveCondition
}

// NewProblem returns an empty Problem over domain.
func NewProblem(name string, domain *Domain) *Problem {
	return &Problem{
		Name:           name,
		Domain:         domain,
		Objects:        NewObjects(),
		InitialNumeric: make(map[Index]float64),
	}
}
