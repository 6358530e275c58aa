package dl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/mimir-go/pkg/bitset"
	"github.com/gitrdm/mimir-go/pkg/formalism"
)

// buildFixture builds a tiny three-room instance: room1 -> room2 -> room3
// connected unidirectionally, robot at room1, goal at room3.
func buildFixture(t *testing.T) (*Context, formalism.Index, formalism.Index) {
	t.Helper()
	domain := formalism.NewDomain("fixture")
	room := domain.Types.GetOrCreate("room", "")
	atRobby := domain.Predicates.GetOrCreate("at-robby", 1, formalism.Fluent)
	connected := domain.Predicates.GetOrCreate("connected", 2, formalism.Static)

	problem := formalism.NewProblem("p", domain)
	r1 := problem.Objects.GetOrCreate("room1", room.Index)
	r2 := problem.Objects.GetOrCreate("room2", room.Index)
	r3 := problem.Objects.GetOrCreate("room3", room.Index)

	atoms := formalism.NewGroundAtoms()
	atAt1 := atoms.GetOrCreate(atRobby.Index, []formalism.Index{r1.Index})
	atoms.GetOrCreate(connected.Index, []formalism.Index{r1.Index, r2.Index})
	atoms.GetOrCreate(connected.Index, []formalism.Index{r2.Index, r3.Index})
	atAt3 := atoms.GetOrCreate(atRobby.Index, []formalism.Index{r3.Index})

	state := bitset.New(atoms.Len())
	state.Set(int(atAt1.Index))

	goalPos := bitset.New(atoms.Len())
	goalPos.Set(int(atAt3.Index))

	ctx := &Context{
		Objects:      []formalism.Index{r1.Index, r2.Index, r3.Index},
		Atoms:        atoms,
		StateAtoms:   state,
		GoalPositive: goalPos,
		GoalNegative: bitset.New(atoms.Len()),
	}
	return ctx, atRobby.Index, connected.Index
}

func TestAtomicStateConceptDenotesCurrentlyTrueObjects(t *testing.T) {
	ctx, atRobby, _ := buildFixture(t)
	c := AtomicStateConcept(atRobby)
	cache := NewCache()
	denotation := EvaluateConcept(ctx, cache, c)
	assert.Equal(t, []int{0}, denotation.ToSlice(), "robot is at room1 (position 0)")
}

func TestAtomicGoalConceptDenotesGoalObjects(t *testing.T) {
	ctx, atRobby, _ := buildFixture(t)
	c := AtomicGoalConcept(atRobby, true)
	cache := NewCache()
	denotation := EvaluateConcept(ctx, cache, c)
	assert.Equal(t, []int{2}, denotation.ToSlice(), "goal wants the robot at room3 (position 2)")
}

func TestNegationComplementsWithinTheObjectUniverse(t *testing.T) {
	ctx, atRobby, _ := buildFixture(t)
	c := Negation(AtomicStateConcept(atRobby))
	cache := NewCache()
	denotation := EvaluateConcept(ctx, cache, c)
	assert.Equal(t, []int{1, 2}, denotation.ToSlice())
}

func TestExistentialQuantificationOverConnectedRole(t *testing.T) {
	ctx, _, connected := buildFixture(t)
	role := AtomicStateRole(connected)
	c := ExistentialQuantification(role, Top())
	cache := NewCache()
	denotation := EvaluateConcept(ctx, cache, c)
	// room1 and room2 each have an outgoing connected edge; room3 has none.
	assert.Equal(t, []int{0, 1}, denotation.ToSlice())
}

func TestTransitiveClosureReachesAllDownstreamRooms(t *testing.T) {
	ctx, _, connected := buildFixture(t)
	closure := TransitiveClosureOf(AtomicStateRole(connected))
	cache := NewCache()
	denotation := EvaluateRole(ctx, cache, closure)
	require.True(t, denotation.Test(ctx.PairRank(0, 1)))
	require.True(t, denotation.Test(ctx.PairRank(0, 2)), "closure should reach room3 transitively from room1")
	assert.False(t, denotation.Test(ctx.PairRank(2, 0)), "closure should not run backward")
}

func TestCountRoleCountsEdges(t *testing.T) {
	ctx, _, connected := buildFixture(t)
	n := CountRole(AtomicStateRole(connected))
	cache := NewCache()
	assert.Equal(t, 2, EvaluateNumerical(ctx, cache, n))
}

func TestDistanceFindsShortestPathLength(t *testing.T) {
	ctx, atRobby, connected := buildFixture(t)
	source := AtomicStateConcept(atRobby)
	target := AtomicGoalConcept(atRobby, true)
	d := Distance(source, AtomicStateRole(connected), target)
	cache := NewCache()
	assert.Equal(t, 2, EvaluateNumerical(ctx, cache, d), "room1 to room3 is two connected-hops")
}

func TestNonemptyBooleanReflectsConceptCardinality(t *testing.T) {
	ctx, atRobby, _ := buildFixture(t)
	b := NonemptyConcept(AtomicStateConcept(atRobby))
	cache := NewCache()
	assert.True(t, EvaluateBoolean(ctx, cache, b))

	empty := NonemptyConcept(Bottom())
	assert.False(t, EvaluateBoolean(ctx, cache, empty))
}

func TestCacheMemoisesRepeatedEvaluation(t *testing.T) {
	ctx, atRobby, _ := buildFixture(t)
	c := AtomicStateConcept(atRobby)
	cache := NewCache()
	first := EvaluateConcept(ctx, cache, c)
	second := EvaluateConcept(ctx, cache, c)
	assert.Same(t, first, second, "repeated evaluation of the same constructor must return the cached pointer")
}

func TestCacheResetDropsStaleState(t *testing.T) {
	ctx, atRobby, _ := buildFixture(t)
	c := AtomicStateConcept(atRobby)
	cache := NewCache()
	before := EvaluateConcept(ctx, cache, c)
	cache.Reset()
	ctx.StateAtoms.Set(2) // pretend the state changed
	after := EvaluateConcept(ctx, cache, c)
	assert.NotSame(t, before, after)
}
