// Package state implements the State repository (spec.md §4.9):
// canonical interned states over Fluent/Derived ground atom bitsets
// and numeric fluent values, plus apply(action, state) producing an
// interned successor.
package state

import (
	"strconv"
	"strings"

	"github.com/gitrdm/mimir-go/pkg/bitset"
	"github.com/gitrdm/mimir-go/pkg/formalism"
)

// State is an immutable snapshot: which Fluent/Derived ground atoms
// hold, and every numeric fluent's current value. Fluent and Derived
// atoms share one bitset, indexed by GroundAtom.Index, since nothing
// in spec.md §4 needs to distinguish the two once a State exists —
// the distinction only matters while computing the Derived closure.
type State struct {
	Index   formalism.Index
	Atoms   *bitset.BitSet
	Numeric map[numericKey]float64
}

type numericKey struct {
	function formalism.Index
	args     string
}

func encodeArgs(args []formalism.Index) string {
	var b strings.Builder
	for i, a := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(a)))
	}
	return b.String()
}

func numKey(function formalism.Index, args []formalism.Index) numericKey {
	return numericKey{function: function, args: encodeArgs(args)}
}

// Holds reports whether the ground atom (predicate, args) is present
// in the state. atoms is resolved via the shared GroundAtoms
// repository so identical argument lists map to the same bit.
func (s *State) Holds(atoms *formalism.GroundAtoms, predicate formalism.Index, args []formalism.Index) bool {
	a, ok := atoms.Lookup(predicate, args)
	return ok && s.Atoms.Test(int(a.Index))
}

// NumericValue returns the current value of function(args) and
// whether it has ever been assigned (an unassigned numeric fluent has
// no well-defined value, per PDDL's requirement that every numeric
// fluent mentioned in a domain appear in the problem's :init).
func (s *State) NumericValue(function formalism.Index, args []formalism.Index) (float64, bool) {
	v, ok := s.Numeric[numKey(function, args)]
	return v, ok
}

// Repository interns States by their (Atoms, Numeric) content so
// identical successors collapse to one Index, the way
// pkg/formalism.Repository interns value types — states are compared
// by bitset equality plus numeric-map equality rather than a single
// comparable key, so this type is hand-rolled instead of reusing the
// generic Repository.
type Repository struct {
	byFingerprint map[string]formalism.Index
	states        []State
	atoms         *formalism.GroundAtoms
}

// NewRepository returns an empty state repository backed by atoms for
// Holds lookups.
func NewRepository(atoms *formalism.GroundAtoms) *Repository {
	return &Repository{byFingerprint: make(map[string]formalism.Index), atoms: atoms}
}

func fingerprint(atoms *bitset.BitSet, numeric map[numericKey]float64) string {
	var b strings.Builder
	for _, i := range atoms.ToSlice() {
		b.WriteByte('a')
		b.WriteString(strconv.Itoa(i))
	}
	// numeric entries are written in sorted key order, so the
	// fingerprint does not depend on Go's map iteration order.
	keys := make([]string, 0, len(numeric))
	index := make(map[string]numericKey, len(numeric))
	for k := range numeric {
		s := strconv.Itoa(int(k.function)) + "|" + k.args
		keys = append(keys, s)
		index[s] = k
	}
	sortStrings(keys)
	for _, k := range keys {
		nk := index[k]
		b.WriteByte('n')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(numeric[nk], 'g', -1, 64))
	}
	return b.String()
}

func sortStrings(s []string) {
	// simple insertion sort: numeric key sets are small (one per
	// distinct function application touched across a problem)
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// Intern returns the canonical State equal to (atoms, numeric),
// creating a fresh entry if this is the first time this content has
// been seen. The repository takes ownership of atoms and numeric;
// callers must not mutate them afterward.
func (r *Repository) Intern(atoms *bitset.BitSet, numeric map[numericKey]float64) *State {
	fp := fingerprint(atoms, numeric)
	if idx, ok := r.byFingerprint[fp]; ok {
		st := r.states[idx]
		return &st
	}
	idx := formalism.Index(len(r.states))
	r.states = append(r.states, State{Index: idx, Atoms: atoms, Numeric: numeric})
	r.byFingerprint[fp] = idx
	st := r.states[idx]
	return &st
}

// Get returns the interned state at idx.
func (r *Repository) Get(idx formalism.Index) *State {
	st := r.states[idx]
	return &st
}

// Len returns the number of distinct interned states.
func (r *Repository) Len() int { return len(r.states) }
