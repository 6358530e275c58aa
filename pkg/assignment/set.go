package assignment

import (
	"github.com/gitrdm/mimir-go/pkg/bitset"
	"github.com/gitrdm/mimir-go/pkg/formalism"
)

// Set is a per-predicate bit-indexed set of assignment ranks, built
// against a shared PerfectAssignmentHash. A single bitset per
// predicate covers both vertex and edge ranks, since EdgeRank(i,o,-1,
// IndexNone) degrades to VertexRank(i,o) (spec.md §4.1).
type Set struct {
	hash *PerfectAssignmentHash
	bits map[formalism.Index]*bitset.BitSet
}

// NewSet returns an empty assignment set over hash.
func NewSet(hash *PerfectAssignmentHash) *Set {
	return &Set{hash: hash, bits: make(map[formalism.Index]*bitset.BitSet)}
}

func (s *Set) bitsFor(predicate formalism.Index) *bitset.BitSet {
	b, ok := s.bits[predicate]
	if !ok {
		b = bitset.New(s.hash.NumEdgeRanks())
		s.bits[predicate] = b
	}
	return b
}

// InsertGroundAtom records atom's argument objects as vertex
// assignments at the given parameter slots (slots must be the same
// length as atom.Args, pairing each argument position with the
// parameter/position index the caller's binding scheme uses for it),
// plus every pair of those positions as an edge assignment, ranked
// with the lower parameter slot first.
func (s *Set) InsertGroundAtom(atom *formalism.GroundAtom, slots []int) {
	s.InsertFact(atom.Predicate, atom.Args, slots)
}

// InsertFact is InsertGroundAtom without requiring a *formalism.GroundAtom
// wrapper, for callers that only have a predicate and its already-resolved
// argument objects (e.g. a literal substituted under a partial binding,
// which carries no ground-atom identity of its own).
func (s *Set) InsertFact(predicate formalism.Index, args []formalism.Index, slots []int) {
	b := s.bitsFor(predicate)
	for k, o := range args {
		b.Set(s.hash.VertexRank(slots[k], o))
	}
	for k := 0; k < len(args); k++ {
		for l := k + 1; l < len(args); l++ {
			i, o, j, oPrime := slots[k], args[k], slots[l], args[l]
			if i > j {
				i, j, o, oPrime = j, i, oPrime, o
			}
			b.Set(s.hash.EdgeRank(i, o, j, oPrime))
		}
	}
}

// TestVertex reports whether (parameter i, object o) has been
// recorded for predicate. An object that is not type-legal for i
// hashes to the empty sentinel rank 0, which TestVertex reports as
// true — "unknown / consistent by default" per spec.md §4.1.
func (s *Set) TestVertex(predicate formalism.Index, i int, o formalism.Index) bool {
	rank := s.hash.VertexRank(i, o)
	if rank == 0 {
		return true
	}
	b, ok := s.bits[predicate]
	return ok && b.Test(rank)
}

// TestEdge reports whether the ordered pair of vertex assignments has
// been recorded for predicate, with the same empty-sentinel-is-true
// convention as TestVertex.
func (s *Set) TestEdge(predicate formalism.Index, i int, o formalism.Index, j int, oPrime formalism.Index) bool {
	rank := s.hash.EdgeRank(i, o, j, oPrime)
	if rank == 0 {
		return true
	}
	b, ok := s.bits[predicate]
	return ok && b.Test(rank)
}

// VertexHolds reports whether a literal on predicate, negated as
// given, is consistent with the singleton binding {parameter i -> o}:
// an empty-sentinel rank is always consistent (the graph
// overapproximates), otherwise a positive literal requires the
// assignment to have been recorded and a negated literal requires
// that it was not (spec.md §4.2).
func (s *Set) VertexHolds(predicate formalism.Index, i int, o formalism.Index, negated bool) bool {
	rank := s.hash.VertexRank(i, o)
	if rank == 0 {
		return true
	}
	b, ok := s.bits[predicate]
	present := ok && b.Test(rank)
	if negated {
		return !present
	}
	return present
}

// EdgeHolds is the two-parameter analogue of VertexHolds.
func (s *Set) EdgeHolds(predicate formalism.Index, i int, o formalism.Index, j int, oPrime formalism.Index, negated bool) bool {
	rank := s.hash.EdgeRank(i, o, j, oPrime)
	if rank == 0 {
		return true
	}
	b, ok := s.bits[predicate]
	present := ok && b.Test(rank)
	if negated {
		return !present
	}
	return present
}

// Reset clears every recorded assignment for every predicate without
// discarding the per-predicate bitsets (so repeated per-state rebuilds
// reuse their backing storage).
func (s *Set) Reset() {
	for _, b := range s.bits {
		b.Reset()
	}
}

// NumericSet tracks, per function skeleton, the interval of values
// observed at each vertex assignment rank (edge ranks are not
// tracked) — the numeric analogue
// of Set used to evaluate NumericConstraints over a partial binding
// without re-walking every ground function value (spec.md §4.2's
// "Static and Fluent FunctionSkeletonAssignmentSets").
//
// Full interval arithmetic over arbitrary function compositions is
// out of scope here; this tracks the simple min/max bound per rank
// that the static-consistency-graph construction needs.
type NumericSet struct {
	hash *PerfectAssignmentHash
	min  map[formalism.Index]map[int]float64
	max  map[formalism.Index]map[int]float64
}

// NewNumericSet returns an empty numeric assignment set over hash.
func NewNumericSet(hash *PerfectAssignmentHash) *NumericSet {
	return &NumericSet{
		hash: hash,
		min:  make(map[formalism.Index]map[int]float64),
		max:  make(map[formalism.Index]map[int]float64),
	}
}

// Observe records that function, at the vertex assignment (i,o), was
// seen taking value v, widening that rank's tracked interval.
func (n *NumericSet) Observe(function formalism.Index, i int, o formalism.Index, v float64) {
	rank := n.hash.VertexRank(i, o)
	if _, ok := n.min[function]; !ok {
		n.min[function] = make(map[int]float64)
		n.max[function] = make(map[int]float64)
	}
	if cur, ok := n.min[function][rank]; !ok || v < cur {
		n.min[function][rank] = v
	}
	if cur, ok := n.max[function][rank]; !ok || v > cur {
		n.max[function][rank] = v
	}
}

// Bounds returns the tracked [min,max] interval for function at the
// vertex assignment (i,o), and whether any observation exists for it.
func (n *NumericSet) Bounds(function formalism.Index, i int, o formalism.Index) (lo, hi float64, ok bool) {
	rank := n.hash.VertexRank(i, o)
	mins, exists := n.min[function]
	if !exists {
		return 0, 0, false
	}
	lo, ok = mins[rank]
	if !ok {
		return 0, 0, false
	}
	hi = n.max[function][rank]
	return lo, hi, true
}

// Reset discards every observation.
func (n *NumericSet) Reset() {
	for k := range n.min {
		delete(n.min, k)
	}
	for k := range n.max {
		delete(n.max, k)
	}
}
