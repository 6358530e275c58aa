// Package formalism holds the value types a PDDL parser would hand to
// the planning core: predicates, objects, atoms, literals, numeric
// constraints, actions, axioms, and their ground counterparts. Every
// value is interned — equal values are stored once and identified by a
// dense, process-wide 32-bit index — per spec.md §3's invariant table.
//
// Parsing and AST construction are out of scope (spec.md §1): callers
// build these values directly through the constructors and
// repositories below, the way a parser's semantic-analysis pass would.
package formalism

import "fmt"

// Index is a dense, 32-bit identifier into a Repository. Index 0 is a
// valid entry for most repositories; callers that need a sentinel
// reserve it explicitly (e.g. the RPG's dummy Proposition).
type Index int32

// Repository interns values of type V under a comparable key K,
// handing out a dense Index per distinct key. It owns its entries:
// callers never free individual entries (spec.md §5).
//
// Grounded on the teacher's identity-by-id pattern (pkg/minikanren
// core.go's Var/Atom, variable.go), generalized from a single global
// int64 counter to a generic get-or-create keyed repository.
type Repository[K comparable, V any] struct {
	indexOf map[K]Index
	values  []V
}

// NewRepository returns an empty repository.
func NewRepository[K comparable, V any]() *Repository[K, V] {
	return &Repository[K, V]{indexOf: make(map[K]Index)}
}

// GetOrCreate returns the index for key, creating a fresh entry via
// build if key has not been seen before. build receives the index the
// new entry will occupy, so value types that embed their own Index
// field (Predicate, Object, ...) can set it during construction.
// Entries are never removed.
func (r *Repository[K, V]) GetOrCreate(key K, build func(idx Index) V) Index {
	if idx, ok := r.indexOf[key]; ok {
		return idx
	}
	idx := Index(len(r.values))
	r.values = append(r.values, build(idx))
	r.indexOf[key] = idx
	return idx
}

// Lookup returns the index for key and whether it exists, without
// creating a new entry.
func (r *Repository[K, V]) Lookup(key K) (Index, bool) {
	idx, ok := r.indexOf[key]
	return idx, ok
}

// Get returns the value at idx. It panics if idx is out of range,
// signalling an InternalInvariant violation (spec.md §7) — a caller
// holding an Index from this repository must have obtained it from
// GetOrCreate/Lookup.
func (r *Repository[K, V]) Get(idx Index) V {
	if int(idx) < 0 || int(idx) >= len(r.values) {
		panic(fmt.Sprintf("formalism: repository index %d out of range [0,%d)", idx, len(r.values)))
	}
	return r.values[idx]
}

// Len returns the number of interned entries.
func (r *Repository[K, V]) Len() int { return len(r.values) }

// All returns the interned values in insertion (index) order. The
// returned slice is owned by the repository; callers must not mutate
// it.
func (r *Repository[K, V]) All() []V { return r.values }
