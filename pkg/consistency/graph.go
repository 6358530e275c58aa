// Package consistency builds the static consistency graph (spec.md
// §4.2): the set of partial parameter bindings that satisfy every
// unary/binary constraint over Static predicates, stored as a CSR
// adjacency so that edges leaving a vertex form one contiguous span.
//
// Builder.Build's literal filter is backed by an assignment.Set
// (spec.md §4.1): every pure (all-variable) static literal is recorded
// into the set once per schema, and vertex/edge filtering then queries
// set.VertexHolds/set.EdgeHolds rather than re-testing StaticFacts per
// candidate pair. Literals with a constant argument have no parameter
// slot for that argument to rank against, so they fall back to direct
// substitute-and-lookup against StaticFacts (see literalHolds).
//
// Numeric constraints are not folded into the graph's edge filter
// here — only Literal constraints over Static predicates are, per the
// construction below — because a FunctionExpression's Args do not
// carry the IsVariable/constant distinction Term does, so the
// same substitute-and-lookup approach Literal filtering uses does not
// generalize cleanly. The binding generator does not evaluate them
// either (its numericHoldsUnderBinding accepts every constraint): a
// schema's numeric constraints are copied onto
// GroundAction.NumericPreconditions and checked per state by
// GroundAction.IsApplicable. The graph simply overapproximates by
// treating every numeric constraint as unconstrained, consistent with
// its documented overapproximation of Fluent/Derived literals.
package consistency

import (
	"sort"

	"github.com/gitrdm/mimir-go/pkg/assignment"
	"github.com/gitrdm/mimir-go/pkg/bitset"
	"github.com/gitrdm/mimir-go/pkg/formalism"
)

// Vertex is a kept (parameter, object) binding, identified by its
// PerfectAssignmentHash vertex rank.
type Vertex struct {
	Parameter int
	Object    formalism.Index
	Rank      int
}

// Graph is the CSR-stored static consistency graph for one action or
// axiom schema.
type Graph struct {
	Vertices []Vertex

	targetOffsets []int // len(Vertices)+1
	targets       []int // indices into Vertices, grouped contiguously per source

	posOfRank map[int]int
}

// NeighborsOf returns the positions (into Vertices) of every vertex
// reachable over a kept edge from Vertices[pos].
func (g *Graph) NeighborsOf(pos int) []int {
	return g.targets[g.targetOffsets[pos]:g.targetOffsets[pos+1]]
}

// VertexAtRank returns the vertex with the given PerfectAssignmentHash
// rank, if it survived construction.
func (g *Graph) VertexAtRank(rank int) (Vertex, bool) {
	pos, ok := g.posOfRank[rank]
	if !ok {
		return Vertex{}, false
	}
	return g.Vertices[pos], true
}

// Hash is the minimal subset of assignment.PerfectAssignmentHash's
// contract the builder needs, kept as a narrow interface here to avoid
// an import cycle between pkg/assignment and pkg/consistency (the
// builder is the caller that already owns a
// *assignment.PerfectAssignmentHash and passes it in satisfying this).
type Hash interface {
	VertexRank(i int, o formalism.Index) int
	NumAssignments() int
}

// StaticFacts is the minimal contract the builder needs to test
// whether a substituted ground atom is a fact of the static
// (never-changing) part of a problem's initial state.
type StaticFacts interface {
	Holds(predicate formalism.Index, args []formalism.Index) bool
}

// Builder constructs Graphs for a schema's parameter list against a
// fixed set of static literals, reusing one Hash and StaticFacts
// across every schema in a domain.
type Builder struct {
	hash  Hash
	facts StaticFacts
}

// NewBuilder returns a Builder over hash and facts.
func NewBuilder(hash Hash, facts StaticFacts) *Builder {
	return &Builder{hash: hash, facts: facts}
}

func variablesOf(lit formalism.Literal) []int {
	seen := map[int]bool{}
	var out []int
	for _, term := range lit.Terms {
		if term.IsVariable && !seen[int(term.Index)] {
			seen[int(term.Index)] = true
			out = append(out, int(term.Index))
		}
	}
	sort.Ints(out)
	return out
}

func substitute(lit formalism.Literal, binding map[int]formalism.Index) ([]formalism.Index, bool) {
	args := make([]formalism.Index, len(lit.Terms))
	for k, term := range lit.Terms {
		if !term.IsVariable {
			args[k] = term.Index
			continue
		}
		o, ok := binding[int(term.Index)]
		if !ok {
			return nil, false
		}
		args[k] = o
	}
	return args, true
}

// isPure reports whether every one of lit's terms is a variable, i.e.
// the literal carries no constant argument. Pure literals are the ones
// whose every argument position corresponds to a schema parameter slot,
// which is what assignment.Set's vertex/edge ranks are indexed by; a
// literal with a constant argument has no parameter slot to rank that
// position against, so it is filtered directly against facts instead
// (see literalHolds).
func isPure(lit formalism.Literal) bool {
	for _, t := range lit.Terms {
		if !t.IsVariable {
			return false
		}
	}
	return true
}

func (b *Builder) literalHolds(lit formalism.Literal, binding map[int]formalism.Index) bool {
	args, ok := substitute(lit, binding)
	if !ok {
		return true // literal doesn't mention every bound slot; not this filter's concern
	}
	present := b.facts.Holds(lit.Predicate, args)
	if lit.Negated {
		return !present
	}
	return present
}

func slotsOf(lit formalism.Literal) []int {
	slots := make([]int, len(lit.Terms))
	for k, t := range lit.Terms {
		slots[k] = int(t.Index)
	}
	return slots
}

// populate records every pure static literal's substituted ground facts
// into set, so the graph construction below can query set.VertexHolds /
// set.EdgeHolds — the assignment.Set abstraction spec.md §4.1 names —
// instead of re-testing b.facts per candidate pair.
func (b *Builder) populate(set *assignment.Set, numParameters int, legalObjects [][]formalism.Index, unary map[int][]formalism.Literal, binary map[[2]int][]formalism.Literal) {
	for i := 0; i < numParameters; i++ {
		for _, lit := range unary[i] {
			if !isPure(lit) {
				continue
			}
			for _, o := range legalObjects[i] {
				args, _ := substitute(lit, map[int]formalism.Index{i: o})
				if b.facts.Holds(lit.Predicate, args) {
					set.InsertFact(lit.Predicate, args, slotsOf(lit))
				}
			}
		}
	}
	for key, lits := range binary {
		i, j := key[0], key[1]
		for _, lit := range lits {
			if !isPure(lit) {
				continue
			}
			for _, o := range legalObjects[i] {
				for _, oPrime := range legalObjects[j] {
					args, _ := substitute(lit, map[int]formalism.Index{i: o, j: oPrime})
					if b.facts.Holds(lit.Predicate, args) {
						set.InsertFact(lit.Predicate, args, slotsOf(lit))
					}
				}
			}
		}
	}
}

func (b *Builder) unaryHolds(set *assignment.Set, lit formalism.Literal, i int, o formalism.Index) bool {
	if !isPure(lit) {
		return b.literalHolds(lit, map[int]formalism.Index{i: o})
	}
	return set.VertexHolds(lit.Predicate, i, o, lit.Negated)
}

func (b *Builder) binaryHolds(set *assignment.Set, lit formalism.Literal, i int, o formalism.Index, j int, oPrime formalism.Index) bool {
	if !isPure(lit) {
		return b.literalHolds(lit, map[int]formalism.Index{i: o, j: oPrime})
	}
	return set.EdgeHolds(lit.Predicate, i, o, j, oPrime, lit.Negated)
}

// Build constructs the static consistency graph for a schema with the
// given parameter count and, for each parameter index, its list of
// type-legal objects. staticLiterals is the schema's Precondition
// literals restricted to Static-tagged predicates.
func (b *Builder) Build(numParameters int, legalObjects [][]formalism.Index, staticLiterals []formalism.Literal) *Graph {
	unary := map[int][]formalism.Literal{}
	binary := map[[2]int][]formalism.Literal{}
	for _, lit := range staticLiterals {
		vars := variablesOf(lit)
		switch len(vars) {
		case 1:
			unary[vars[0]] = append(unary[vars[0]], lit)
		case 2:
			key := [2]int{vars[0], vars[1]}
			binary[key] = append(binary[key], lit)
		}
	}

	set := assignment.NewSet(assignment.Build(legalObjects))
	b.populate(set, numParameters, legalObjects, unary, binary)

	g := &Graph{posOfRank: make(map[int]int)}
	for i := 0; i < numParameters; i++ {
		for _, o := range legalObjects[i] {
			kept := true
			for _, lit := range unary[i] {
				if !b.unaryHolds(set, lit, i, o) {
					kept = false
					break
				}
			}
			if !kept {
				continue
			}
			rank := b.hash.VertexRank(i, o)
			pos := len(g.Vertices)
			g.Vertices = append(g.Vertices, Vertex{Parameter: i, Object: o, Rank: rank})
			g.posOfRank[rank] = pos
		}
	}

	adjacency := make([][]int, len(g.Vertices))
	for pi := range g.Vertices {
		v1 := g.Vertices[pi]
		for pj := pi + 1; pj < len(g.Vertices); pj++ {
			v2 := g.Vertices[pj]
			if v1.Parameter == v2.Parameter {
				continue
			}
			i, o, j, oPrime := v1.Parameter, v1.Object, v2.Parameter, v2.Object
			if i > j {
				i, j, o, oPrime = j, i, oPrime, o
			}
			lits := binary[[2]int{i, j}]
			kept := true
			for _, lit := range lits {
				if !b.binaryHolds(set, lit, i, o, j, oPrime) {
					kept = false
					break
				}
			}
			if kept {
				adjacency[pi] = append(adjacency[pi], pj)
				adjacency[pj] = append(adjacency[pj], pi)
			}
		}
	}

	g.targetOffsets = make([]int, len(g.Vertices)+1)
	total := 0
	for _, nbrs := range adjacency {
		total += len(nbrs)
	}
	g.targets = make([]int, 0, total)
	for pos, nbrs := range adjacency {
		g.targetOffsets[pos] = len(g.targets)
		g.targets = append(g.targets, nbrs...)
	}
	g.targetOffsets[len(g.Vertices)] = len(g.targets)
	return g
}

// StaticAtomBitset is a StaticFacts implementation backed directly by
// a GroundAtoms repository and a bitset of the atoms present in a
// problem's static initial facts.
type StaticAtomBitset struct {
	Atoms  *formalism.GroundAtoms
	Facts  *bitset.BitSet
}

// Holds implements StaticFacts.
func (s *StaticAtomBitset) Holds(predicate formalism.Index, args []formalism.Index) bool {
	atom, ok := s.Atoms.Lookup(predicate, args)
	return ok && s.Facts.Test(int(atom.Index))
}
