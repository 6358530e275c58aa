package matchtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/mimir-go/pkg/formalism"
)

// fakeOracle models three elements over two atoms: element 0 needs
// atom 1, element 1 needs atom 2, element 2 needs neither (always
// emitted).
type fakeOracle struct {
	needs map[int]formalism.Index // element ID -> required atom, absent means "don't care"
}

func (o *fakeOracle) Selectors(working []Element) []Selector {
	seen := map[formalism.Index]bool{}
	var out []Selector
	for _, e := range working {
		if atom, ok := o.needs[e.ID]; ok && !seen[atom] {
			seen[atom] = true
			out = append(out, Selector{Atom: atom})
		}
	}
	return out
}

func (o *fakeOracle) Answer(e Element, sel Selector) Answer {
	need, ok := o.needs[e.ID]
	if !ok {
		return AnswerDontCare
	}
	if need != sel.Atom {
		return AnswerDontCare
	}
	return AnswerTrue
}

func TestBuildDispatchesEachElementUnderItsRequiredAtom(t *testing.T) {
	oracle := &fakeOracle{needs: map[int]formalism.Index{0: 1, 1: 2}}
	elements := []Element{{ID: 0}, {ID: 1}, {ID: 2}}
	tree := Build(elements, oracle, DefaultOptions())
	require.NotNil(t, tree)

	dispatchWith := func(atomsHeld map[formalism.Index]bool) []int {
		var got []int
		tree.Dispatch(
			func(a formalism.Index) bool { return atomsHeld[a] },
			func(formalism.NumericConstraint) bool { return false },
			func(Element) bool { return true },
			func(e Element) { got = append(got, e.ID) },
		)
		return got
	}

	withAtom1 := dispatchWith(map[formalism.Index]bool{1: true})
	assert.Contains(t, withAtom1, 0, "element 0 requires atom 1 and it holds")
	assert.Contains(t, withAtom1, 2, "element 2 is unconditional")

	withNeither := dispatchWith(map[formalism.Index]bool{})
	assert.Contains(t, withNeither, 2, "element 2 is always reached")
	assert.NotContains(t, withNeither, 0)
	assert.NotContains(t, withNeither, 1)
}

func TestUselessSplitIsNeverChosen(t *testing.T) {
	oracle := &fakeOracle{needs: map[int]formalism.Index{}}
	elements := []Element{{ID: 0}, {ID: 1}}
	tree := Build(elements, oracle, DefaultOptions())
	require.NotNil(t, tree)
	assert.Equal(t, NodeGeneratorPerfect, tree.Kind, "with no candidate selector, the build yields a single generator leaf")
}

func TestMaxNodesCapYieldsImperfectLeaf(t *testing.T) {
	oracle := &fakeOracle{needs: map[int]formalism.Index{0: 1, 1: 2}}
	elements := []Element{{ID: 0}, {ID: 1}, {ID: 2}}
	tree := Build(elements, oracle, Options{Metric: MaxCover, Direction: Maximize, MaxNodes: 0})
	require.NotNil(t, tree)
	assert.Equal(t, NodeGeneratorImperfect, tree.Kind, "a cap reached before placeholders are exhausted must not be trusted as perfect")
	assert.Len(t, tree.Elements, 3)
}

func TestMetricScores(t *testing.T) {
	allTrue := []Answer{AnswerTrue, AnswerTrue, AnswerTrue}
	assert.InDelta(t, 1.0, scoreFrequency(allTrue), 1e-9, "no don't-care answers means frequency score 1")

	mixed := []Answer{AnswerTrue, AnswerFalse, AnswerDontCare}
	assert.Greater(t, scoreMaxCover(mixed), 0.0)
	assert.Greater(t, scoreGini(mixed), 0.0)
}
