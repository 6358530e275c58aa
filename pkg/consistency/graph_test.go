package consistency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/mimir-go/pkg/assignment"
	"github.com/gitrdm/mimir-go/pkg/bitset"
	"github.com/gitrdm/mimir-go/pkg/formalism"
)

// A tiny two-parameter schema over objects {r1,r2,r3} (rooms) with a
// static "connected" predicate forming a path r1-r2-r3, and a unary
// static "small" predicate restricting parameter 0 to r1 and r2.
func buildFixture(t *testing.T) (*Builder, *assignment.PerfectAssignmentHash, formalism.Index, formalism.Index) {
	t.Helper()
	preds := formalism.NewPredicates()
	connected := preds.GetOrCreate("connected", 2, formalism.Static)
	small := preds.GetOrCreate("small", 1, formalism.Static)

	atoms := formalism.NewGroundAtoms()
	r1, r2, r3 := formalism.Index(1), formalism.Index(2), formalism.Index(3)

	facts := bitset.New(0)
	markTrue := func(predicate formalism.Index, args ...formalism.Index) {
		a := atoms.GetOrCreate(predicate, args)
		facts.Set(int(a.Index))
	}
	markTrue(connected.Index, r1, r2)
	markTrue(connected.Index, r2, r1)
	markTrue(connected.Index, r2, r3)
	markTrue(connected.Index, r3, r2)
	markTrue(small.Index, r1)
	markTrue(small.Index, r2)

	hash := assignment.Build([][]formalism.Index{
		{r1, r2, r3},
		{r1, r2, r3},
	})
	facts2 := &StaticAtomBitset{Atoms: atoms, Facts: facts}
	builder := NewBuilder(hash, facts2)
	return builder, hash, connected.Index, small.Index
}

func TestGraphKeepsOnlyVerticesSatisfyingUnaryLiteral(t *testing.T) {
	builder, hash, _, small := buildFixture(t)
	r1, r2, r3 := formalism.Index(1), formalism.Index(2), formalism.Index(3)

	smallLit := formalism.Literal{Predicate: small, Terms: []formalism.Term{formalism.VariableTerm(0)}}
	g := builder.Build(2, [][]formalism.Index{{r1, r2, r3}, {r1, r2, r3}}, []formalism.Literal{smallLit})

	var param0Objects []formalism.Index
	for _, v := range g.Vertices {
		if v.Parameter == 0 {
			param0Objects = append(param0Objects, v.Object)
		}
	}
	assert.ElementsMatch(t, []formalism.Index{r1, r2}, param0Objects, "r3 is not small, so parameter 0 excludes it")

	_, ok := g.VertexAtRank(hash.VertexRank(0, r3))
	assert.False(t, ok)
}

func TestGraphKeepsOnlyEdgesSatisfyingBinaryLiteral(t *testing.T) {
	builder, _, connected, _ := buildFixture(t)
	r1, r2, r3 := formalism.Index(1), formalism.Index(2), formalism.Index(3)

	connLit := formalism.Literal{Predicate: connected, Terms: []formalism.Term{
		formalism.VariableTerm(0), formalism.VariableTerm(1),
	}}
	g := builder.Build(2, [][]formalism.Index{{r1, r2, r3}, {r1, r2, r3}}, []formalism.Literal{connLit})

	require.NotEmpty(t, g.Vertices)

	posOf := func(param int, obj formalism.Index) int {
		for pos, v := range g.Vertices {
			if v.Parameter == param && v.Object == obj {
				return pos
			}
		}
		t.Fatalf("vertex (%d,%v) not found", param, obj)
		return -1
	}

	p0r1, p1r2 := posOf(0, r1), posOf(1, r2)
	found := false
	for _, nbr := range g.NeighborsOf(p0r1) {
		if nbr == p1r2 {
			found = true
		}
	}
	assert.True(t, found, "(r1 connected r2) is a static fact, so this edge must survive")

	p0r1b, p1r3 := posOf(0, r1), posOf(1, r3)
	found = false
	for _, nbr := range g.NeighborsOf(p0r1b) {
		if nbr == p1r3 {
			found = true
		}
	}
	assert.False(t, found, "(r1 connected r3) is not a static fact")
}

func TestNegatedLiteralExcludesPresentFacts(t *testing.T) {
	builder, _, connected, _ := buildFixture(t)
	r1, r2, r3 := formalism.Index(1), formalism.Index(2), formalism.Index(3)

	notConnected := formalism.Literal{
		Negated:   true,
		Predicate: connected,
		Terms:     []formalism.Term{formalism.VariableTerm(0), formalism.VariableTerm(1)},
	}
	g := builder.Build(2, [][]formalism.Index{{r1, r2, r3}, {r1, r2, r3}}, []formalism.Literal{notConnected})

	posOf := func(param int, obj formalism.Index) int {
		for pos, v := range g.Vertices {
			if v.Parameter == param && v.Object == obj {
				return pos
			}
		}
		t.Fatalf("vertex (%d,%v) not found", param, obj)
		return -1
	}
	p0r1, p1r2 := posOf(0, r1), posOf(1, r2)
	for _, nbr := range g.NeighborsOf(p0r1) {
		assert.NotEqual(t, p1r2, nbr, "negated literal must drop an edge whose atom is a static fact")
	}
}
