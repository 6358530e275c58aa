package dl

import "github.com/gitrdm/mimir-go/pkg/formalism"

// Builder constructors assign a fresh Index to each node, the way
// pkg/formalism's interning constructors stamp an Index at build time;
// unlike formalism.Repository these are not deduplicated by structural
// equality (see constructors.go's Index doc).

func Top() *Concept    { return &Concept{Index: freshIndex(), Kind: ConceptTop} }
func Bottom() *Concept { return &Concept{Index: freshIndex(), Kind: ConceptBottom} }

func AtomicStateConcept(predicate formalism.Index) *Concept {
	return &Concept{Index: freshIndex(), Kind: ConceptAtomicState, Predicate: predicate}
}

func AtomicGoalConcept(predicate formalism.Index, polarity bool) *Concept {
	return &Concept{Index: freshIndex(), Kind: ConceptAtomicGoal, Predicate: predicate, Polarity: polarity}
}

func Intersection(left, right *Concept) *Concept {
	return &Concept{Index: freshIndex(), Kind: ConceptIntersection, Left: left, Right: right}
}

func Union(left, right *Concept) *Concept {
	return &Concept{Index: freshIndex(), Kind: ConceptUnion, Left: left, Right: right}
}

func Negation(inner *Concept) *Concept {
	return &Concept{Index: freshIndex(), Kind: ConceptNegation, Inner: inner}
}

func ValueRestriction(role *Role, sub *Concept) *Concept {
	return &Concept{Index: freshIndex(), Kind: ConceptValueRestriction, Role: role, SubConcept: sub}
}

func ExistentialQuantification(role *Role, sub *Concept) *Concept {
	return &Concept{Index: freshIndex(), Kind: ConceptExistentialQuantification, Role: role, SubConcept: sub}
}

func RoleValueMapContainment(left, right *Role) *Concept {
	return &Concept{Index: freshIndex(), Kind: ConceptRoleValueMapContainment, RoleLeft: left, RoleRight: right}
}

func RoleValueMapEquality(left, right *Role) *Concept {
	return &Concept{Index: freshIndex(), Kind: ConceptRoleValueMapEquality, RoleLeft: left, RoleRight: right}
}

func Nominal(object formalism.Index) *Concept {
	return &Concept{Index: freshIndex(), Kind: ConceptNominal, Object: object}
}

func Universal() *Role { return &Role{Index: freshIndex(), Kind: RoleUniversal} }

func AtomicStateRole(predicate formalism.Index) *Role {
	return &Role{Index: freshIndex(), Kind: RoleAtomicState, Predicate: predicate}
}

func AtomicGoalRole(predicate formalism.Index, polarity bool) *Role {
	return &Role{Index: freshIndex(), Kind: RoleAtomicGoal, Predicate: predicate, Polarity: polarity}
}

func RoleIntersectionOf(left, right *Role) *Role {
	return &Role{Index: freshIndex(), Kind: RoleIntersection, Left: left, Right: right}
}

func RoleUnionOf(left, right *Role) *Role {
	return &Role{Index: freshIndex(), Kind: RoleUnion, Left: left, Right: right}
}

func Complement(inner *Role) *Role {
	return &Role{Index: freshIndex(), Kind: RoleComplement, Inner: inner}
}

func Inverse(inner *Role) *Role {
	return &Role{Index: freshIndex(), Kind: RoleInverse, Inner: inner}
}

func Composition(left, right *Role) *Role {
	return &Role{Index: freshIndex(), Kind: RoleComposition, Left: left, Right: right}
}

func TransitiveClosureOf(inner *Role) *Role {
	return &Role{Index: freshIndex(), Kind: RoleTransitiveClosure, Inner: inner}
}

func ReflexiveTransitiveClosureOf(inner *Role) *Role {
	return &Role{Index: freshIndex(), Kind: RoleReflexiveTransitiveClosure, Inner: inner}
}

func Restriction(base *Role, concept *Concept) *Role {
	return &Role{Index: freshIndex(), Kind: RoleRestriction, Left: base, RestrictionConcept: concept}
}

func Identity(concept *Concept) *Role {
	return &Role{Index: freshIndex(), Kind: RoleIdentity, RestrictionConcept: concept}
}

func BooleanOfAtomicState(predicate formalism.Index) *Boolean {
	return &Boolean{Index: freshIndex(), Kind: BooleanAtomicState, Predicate: predicate}
}

func NonemptyConcept(concept *Concept) *Boolean {
	return &Boolean{Index: freshIndex(), Kind: BooleanNonemptyConcept, ConceptArg: concept}
}

func NonemptyRole(role *Role) *Boolean {
	return &Boolean{Index: freshIndex(), Kind: BooleanNonemptyRole, RoleArg: role}
}

func CountConcept(concept *Concept) *Numerical {
	return &Numerical{Index: freshIndex(), Kind: NumericalCountConcept, ConceptArg: concept}
}

func CountRole(role *Role) *Numerical {
	return &Numerical{Index: freshIndex(), Kind: NumericalCountRole, RoleArg: role}
}

func Distance(source *Concept, role *Role, target *Concept) *Numerical {
	return &Numerical{Index: freshIndex(), Kind: NumericalDistance, ConceptArg: source, RoleArg: role, Concept2: target}
}
