// Package dl implements the description-logic feature language
// (spec.md §4.7): a strongly tag-typed constructor algebra over
// Concepts, Roles, Booleans and Numericals, evaluated against a state
// into memoised denotations.
//
// Grounded on the teacher's typed constructor families
// (gitrdm/gokanlogic pkg/dl/hybrid_registry.go's registry-of-typed-
// constraint-builders, pkg/dl/count.go/sum.go's aggregate constructors,
// pkg/dl/nominal.go's singleton-object constructor, and
// pkg/dl/reification.go's role/concept composition), but dispatch uses
// a flat per-tag Kind enum and struct (spec.md §9's redesign note on
// exhaustive switches replacing open visitor hierarchies) rather than
// the teacher's interface-method dispatch.
package dl

import "github.com/gitrdm/mimir-go/pkg/formalism"

// ConceptKind enumerates every Concept constructor (spec.md §4.7).
type ConceptKind int

const (
	ConceptTop ConceptKind = iota
	ConceptBottom
	ConceptAtomicState
	ConceptAtomicGoal
	ConceptIntersection
	ConceptUnion
	ConceptNegation
	ConceptValueRestriction
	ConceptExistentialQuantification
	ConceptRoleValueMapContainment
	ConceptRoleValueMapEquality
	ConceptNominal
)

// Concept is a tagged-union node denoting a set of objects.
type Concept struct {
	Index Index
	Kind  ConceptKind

	Predicate formalism.Index // AtomicState, AtomicGoal
	Polarity  bool            // AtomicGoal

	Left, Right *Concept // Intersection, Union
	Inner       *Concept // Negation

	Role       *Role    // ValueRestriction, ExistentialQuantification
	SubConcept *Concept // ValueRestriction, ExistentialQuantification

	RoleLeft, RoleRight *Role // RoleValueMapContainment/Equality

	Object formalism.Index // Nominal
}

// RoleKind enumerates every Role constructor.
type RoleKind int

const (
	RoleUniversal RoleKind = iota
	RoleAtomicState
	RoleAtomicGoal
	RoleIntersection
	RoleUnion
	RoleComplement
	RoleInverse
	RoleComposition
	RoleTransitiveClosure
	RoleReflexiveTransitiveClosure
	RoleRestriction
	RoleIdentity
)

// Role is a tagged-union node denoting a set of ordered object pairs.
type Role struct {
	Index Index
	Kind  RoleKind

	Predicate formalism.Index // AtomicState, AtomicGoal
	Polarity  bool

	Left, Right *Role // Intersection, Union, Composition
	Inner       *Role // Complement, Inverse, TransitiveClosure, ReflexiveTransitiveClosure

	RestrictionConcept *Concept // Restriction, Identity
}

// BooleanKind enumerates every Boolean constructor.
type BooleanKind int

const (
	BooleanAtomicState BooleanKind = iota
	BooleanNonemptyConcept
	BooleanNonemptyRole
)

// Boolean is a tagged-union node denoting a truth value.
type Boolean struct {
	Index Index
	Kind  BooleanKind

	Predicate formalism.Index // AtomicState

	ConceptArg *Concept // NonemptyConcept
	RoleArg    *Role    // NonemptyRole
}

// NumericalKind enumerates every Numerical constructor.
type NumericalKind int

const (
	NumericalCountConcept NumericalKind = iota
	NumericalCountRole
	NumericalDistance
)

// Numerical is a tagged-union node denoting a non-negative integer.
type Numerical struct {
	Index Index
	Kind  NumericalKind

	ConceptArg *Concept
	RoleArg    *Role

	// Distance(concept, role, concept2)
	Concept2 *Concept
}

// Index is a dense identifier assigned at construction time, used as
// the cache key for that constructor's memoised denotations. Unlike
// formalism.Repository's structural interning, constructors here are
// identified by construction order rather than deduplicated by
// structural equality. Feature generation (pkg/dlgrammar) builds and
// evaluates each constructor first and then keeps at most one sentence
// per denotation signature, so structurally equal constructors built
// separately receive distinct Indexes.
type Index int32

var nextIndex Index

func freshIndex() Index {
	i := nextIndex
	nextIndex++
	return i
}
