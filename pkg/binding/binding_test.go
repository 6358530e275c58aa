package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/mimir-go/pkg/assignment"
	"github.com/gitrdm/mimir-go/pkg/consistency"
	"github.com/gitrdm/mimir-go/pkg/formalism"
)

type fakeFacts struct {
	present map[string]bool
}

func factKey(predicate formalism.Index, args []formalism.Index) string {
	key := string(rune('A' + int(predicate)))
	for _, a := range args {
		key += "," + string(rune('a'+int(a)))
	}
	return key
}

func (f *fakeFacts) Holds(predicate formalism.Index, args []formalism.Index) bool {
	return f.present[factKey(predicate, args)]
}

func (f *fakeFacts) NumericValue(function formalism.Index, args []formalism.Index) (float64, bool) {
	return 0, false
}

func TestGeneratorYieldsOnlyFullyConsistentBindings(t *testing.T) {
	preds := formalism.NewPredicates()
	connected := preds.GetOrCreate("connected", 2, formalism.Static)
	open := preds.GetOrCreate("open", 1, formalism.Fluent)

	r1, r2, r3 := formalism.Index(1), formalism.Index(2), formalism.Index(3)
	hash := assignment.Build([][]formalism.Index{{r1, r2, r3}, {r1, r2, r3}})

	connLit := formalism.Literal{Predicate: connected.Index, Terms: []formalism.Term{
		formalism.VariableTerm(0), formalism.VariableTerm(1),
	}}

	staticFacts := &fakeFacts{present: map[string]bool{}}
	staticFacts.present[factKey(connected.Index, []formalism.Index{r1, r2})] = true
	staticFacts.present[factKey(connected.Index, []formalism.Index{r2, r1})] = true
	staticFacts.present[factKey(connected.Index, []formalism.Index{r2, r3})] = true
	staticFacts.present[factKey(connected.Index, []formalism.Index{r3, r2})] = true

	builder := consistency.NewBuilder(hash, staticFacts)
	graph := builder.Build(2, [][]formalism.Index{{r1, r2, r3}, {r1, r2, r3}}, []formalism.Literal{connLit})

	liveFacts := &fakeFacts{present: map[string]bool{
		factKey(open.Index, []formalism.Index{r2}): true,
	}}

	openLit := formalism.Literal{Predicate: open.Index, Terms: []formalism.Term{formalism.VariableTerm(1)}}
	cond := formalism.ConjunctiveCondition{Literals: []formalism.Literal{connLit, openLit}}

	gen := NewGenerator(graph, cond, 2, liveFacts)
	results := gen.All()

	require.NotEmpty(t, results)
	for _, b := range results {
		assert.Equal(t, r2, b[1], "second parameter must always bind to the only open room")
	}
}

func TestGeneratorReturnsNoBindingsWhenUnsatisfiable(t *testing.T) {
	preds := formalism.NewPredicates()
	locked := preds.GetOrCreate("locked", 1, formalism.Fluent)

	r1 := formalism.Index(1)
	hash := assignment.Build([][]formalism.Index{{r1}})
	builder := consistency.NewBuilder(hash, &fakeFacts{present: map[string]bool{}})
	graph := builder.Build(1, [][]formalism.Index{{r1}}, nil)

	lockedLit := formalism.Literal{Predicate: locked.Index, Terms: []formalism.Term{formalism.VariableTerm(0)}}
	cond := formalism.ConjunctiveCondition{Literals: []formalism.Literal{lockedLit}}

	liveFacts := &fakeFacts{present: map[string]bool{}} // locked never holds
	gen := NewGenerator(graph, cond, 1, liveFacts)
	_, ok := gen.Next()
	assert.False(t, ok, "no object satisfies locked(?x), so no-binding must be the result")
}
