package grounding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/mimir-go/pkg/bitset"
	"github.com/gitrdm/mimir-go/pkg/consistency"
	"github.com/gitrdm/mimir-go/pkg/formalism"
	"github.com/gitrdm/mimir-go/pkg/matchtree"
)

type fakeStaticFacts struct{ present map[string]bool }

func key(predicate formalism.Index, args []formalism.Index) string {
	s := string(rune('A' + int(predicate)))
	for _, a := range args {
		s += "," + string(rune('a'+int(a)))
	}
	return s
}

func (f *fakeStaticFacts) Holds(predicate formalism.Index, args []formalism.Index) bool {
	return f.present[key(predicate, args)]
}

// buildGripperLikeDomain builds a minimal two-room, one-ball domain:
// move(?from ?to): pre {at-robby ?from, connected ?from ?to}, eff
// {not at-robby ?from, at-robby ?to}.
func buildGripperLikeDomain(t *testing.T) (*formalism.Domain, *formalism.Problem, *formalism.GroundAtoms, consistency.StaticFacts) {
	t.Helper()
	domain := formalism.NewDomain("gripper-like")
	room := domain.Types.GetOrCreate("room", "")

	atRobby := domain.Predicates.GetOrCreate("at-robby", 1, formalism.Fluent)
	connected := domain.Predicates.GetOrCreate("connected", 2, formalism.Static)

	move := domain.Actions.GetOrCreate("move", func(idx formalism.Index) formalism.Action {
		return formalism.Action{
			Index: idx,
			Name:  "move",
			Parameters: []formalism.Parameter{
				{Name: "from", Type: room.Index},
				{Name: "to", Type: room.Index},
			},
			Precondition: formalism.ConjunctiveCondition{Literals: []formalism.Literal{
				{Predicate: atRobby.Index, Terms: []formalism.Term{formalism.VariableTerm(0)}},
				{Predicate: connected.Index, Terms: []formalism.Term{formalism.VariableTerm(0), formalism.VariableTerm(1)}},
			}},
			Effect: formalism.ConjunctiveEffect{Literals: []formalism.Literal{
				{Negated: true, Predicate: atRobby.Index, Terms: []formalism.Term{formalism.VariableTerm(0)}},
				{Predicate: atRobby.Index, Terms: []formalism.Term{formalism.VariableTerm(1)}},
			}},
		}
	})
	_ = move

	problem := formalism.NewProblem("p1", domain)
	r1 := problem.Objects.GetOrCreate("room1", room.Index)
	r2 := problem.Objects.GetOrCreate("room2", room.Index)

	atoms := formalism.NewGroundAtoms()
	facts := &fakeStaticFacts{present: map[string]bool{
		key(connected.Index, []formalism.Index{r1.Index, r2.Index}): true,
		key(connected.Index, []formalism.Index{r2.Index, r1.Index}): true,
	}}
	return domain, problem, atoms, facts
}

func TestGroundActionsProducesOneActionPerConnectedPair(t *testing.T) {
	domain, problem, atoms, facts := buildGripperLikeDomain(t)
	g := NewGrounder(domain, problem, atoms, facts)
	actions := g.GroundActions()
	require.Len(t, actions, 2, "two directed connected pairs should ground to two move actions")

	for _, a := range actions {
		assert.NotNil(t, a.PreconditionPositive)
		assert.NotNil(t, a.EffectAdd)
		assert.NotNil(t, a.EffectDelete)
	}
}

func TestApplicableActionsFiltersByFluentPrecondition(t *testing.T) {
	domain, problem, atoms, facts := buildGripperLikeDomain(t)
	g := NewGrounder(domain, problem, atoms, facts)
	actions := g.GroundActions()

	r1 := formalism.Index(0)
	atRobby := domain.Predicates.ByTag(formalism.Fluent)[0]
	atom := atoms.GetOrCreate(atRobby.Index, []formalism.Index{r1})

	state := bitset.New(atoms.Len())
	state.Set(int(atom.Index))

	applicable := ApplicableActions(actions, state, nil)
	require.Len(t, applicable, 1, "only the move starting from room1 should be applicable")
	assert.Equal(t, r1, applicable[0].Objects[0])
}

func TestBuildDispatchMatchesNaiveFilter(t *testing.T) {
	domain, problem, atoms, facts := buildGripperLikeDomain(t)
	g := NewGrounder(domain, problem, atoms, facts)
	actions := g.GroundActions()

	r1 := formalism.Index(0)
	atRobby := domain.Predicates.ByTag(formalism.Fluent)[0]
	atom := atoms.GetOrCreate(atRobby.Index, []formalism.Index{r1})
	state := bitset.New(atoms.Len())
	state.Set(int(atom.Index))

	tree := BuildDispatch(actions, matchtree.DefaultOptions())
	dispatched := DispatchApplicable(tree, actions, state, nil)
	naive := ApplicableActions(actions, state, nil)

	assert.ElementsMatch(t, idsOf(naive), idsOf(dispatched))
}

func idsOf(actions []*formalism.GroundAction) []formalism.Index {
	var out []formalism.Index
	for _, a := range actions {
		out = append(out, a.Index)
	}
	return out
}
