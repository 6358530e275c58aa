// Package assignment implements PerfectAssignmentHash and
// AssignmentSet (spec.md §4.1): a dense, bit-indexed answer to "is
// there any ground atom that extends this partial parameter binding?"
// without enumerating atoms.
//
// Grounded on the teacher's domain-indexing idiom
// (gitrdm/gokanlogic pkg/fd/fd_domains.go's per-variable dense domain
// remapping and pkg/minikanren/domain.go's BitSetDomain), generalized
// from a single CSP variable's domain to the two-level
// vertex/edge-assignment rank scheme spec.md §4.1 specifies.
package assignment

import "github.com/gitrdm/mimir-go/pkg/formalism"

// PerfectAssignmentHash computes a bijection between "legal"
// (parameter_index, object) vertex assignments and a dense rank space,
// and an analogous bijection for ordered pairs of vertex assignments
// (edge assignments). Rank 0 is reserved as the empty sentinel for
// assignments that are not type-legal.
type PerfectAssignmentHash struct {
	numParameters  int
	legalObjects   [][]formalism.Index // per parameter index, in remapping order
	remapping      []map[formalism.Index]int // per parameter index: object -> 1-based dense index, 0 = unused
	offsets        []int                     // len numParameters+1, prefix sum of per-parameter domain sizes
	numAssignments int                       // 1 + total legal vertex assignments
}

// Build constructs a PerfectAssignmentHash from, for each parameter
// index, the list of objects legal for that parameter (objects whose
// type is a subtype-eq of the parameter's declared type).
func Build(legalObjects [][]formalism.Index) *PerfectAssignmentHash {
	n := len(legalObjects)
	h := &PerfectAssignmentHash{
		numParameters: n,
		legalObjects:  legalObjects,
		remapping:     make([]map[formalism.Index]int, n),
		offsets:       make([]int, n+1),
	}
	offset := 1 // rank 0 reserved as empty sentinel
	for i := 0; i < n; i++ {
		h.offsets[i] = offset
		m := make(map[formalism.Index]int, len(legalObjects[i]))
		for di, o := range legalObjects[i] {
			m[o] = di + 1 // 1-based: 0 means "unused/wildcard"
		}
		h.remapping[i] = m
		offset += len(legalObjects[i])
	}
	h.offsets[n] = offset
	h.numAssignments = offset
	return h
}

// NumAssignments returns 1 + the total number of legal vertex
// assignments across all parameters (the span of valid vertex ranks,
// including the reserved empty sentinel at 0).
func (h *PerfectAssignmentHash) NumAssignments() int { return h.numAssignments }

// VertexRank returns the dense rank of (parameter i, object o), or 0
// if o is not type-legal for parameter i (the empty sentinel; callers
// must treat it as "unknown / consistent by default").
func (h *PerfectAssignmentHash) VertexRank(i int, o formalism.Index) int {
	if i < 0 || i >= h.numParameters {
		return 0
	}
	dense, ok := h.remapping[i][o]
	if !ok {
		return 0
	}
	return h.offsets[i] + dense - 1
}

// EdgeRank returns the dense rank of the ordered pair of vertex
// assignments (i,o) and (j,o'). The packing rank_j*numAssignments+rank_i
// degrades to the single-vertex rank of (i,o) when the second
// assignment (j,o') is the empty sentinel (spec.md §4.1).
func (h *PerfectAssignmentHash) EdgeRank(i int, o formalism.Index, j int, oPrime formalism.Index) int {
	ri := h.VertexRank(i, o)
	rj := h.VertexRank(j, oPrime)
	return rj*h.numAssignments + ri
}

// NumEdgeRanks returns the total span of edge ranks, for sizing a
// bitset that will hold edge-assignment bits.
func (h *PerfectAssignmentHash) NumEdgeRanks() int {
	return h.numAssignments * h.numAssignments
}
