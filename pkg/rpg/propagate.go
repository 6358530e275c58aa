package rpg

import (
	"container/heap"
	"math"

	"github.com/gitrdm/mimir-go/pkg/bitset"
	"github.com/gitrdm/mimir-go/pkg/formalism"
)

// pqItem is one entry in the Dijkstra-style priority queue: a
// proposition and the best cost known for it at the time it was
// pushed. Lazy decrease-key: a proposition may be pushed more than
// once; stale entries are dropped on pop by comparing against the
// current best-known cost.
type pqItem struct {
	prop int
	cost float64
}

type propQueue []pqItem

func (q propQueue) Len() int            { return len(q) }
func (q propQueue) Less(i, j int) bool  { return q[i].cost < q[j].cost }
func (q propQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *propQueue) Push(x interface{}) { *q = append(*q, x.(pqItem)) }
func (q *propQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// numericResult is the common shape of h_max and h_add: a per-
// proposition cost table plus, when withAchievers is set, the rule
// that last lowered each proposition's cost (used by h_ff's
// backward-extraction pass).
type numericResult struct {
	cost      []float64
	achiever  []int // per proposition, rule index that achieved it, or -1
	reachable bool  // whether every goal proposition was popped
}

// propagateNumeric runs the shared Dijkstra loop with combine
// selecting h_max (isMax=true, and-cost = max of precondition costs)
// or h_add (isMax=false, and-cost = sum of precondition costs).
func propagateNumeric(g *Graph, truePropositions *bitset.BitSet, isMax bool) *numericResult {
	res := &numericResult{
		cost:     make([]float64, g.NumPropositions),
		achiever: make([]int, g.NumPropositions),
	}
	for i := range res.cost {
		res.cost[i] = math.Inf(1)
		res.achiever[i] = -1
	}

	andCost := make([]float64, len(g.Rules))
	andUnsatisfied := make([]int, len(g.Rules))
	for i, r := range g.Rules {
		andUnsatisfied[i] = len(r.Preconditions)
	}

	pq := &propQueue{}
	heap.Init(pq)
	seed := func(prop int) {
		if res.cost[prop] > 0 {
			res.cost[prop] = 0
			heap.Push(pq, pqItem{prop: prop, cost: 0})
		}
	}
	seed(DummyProposition)
	if truePropositions != nil {
		truePropositions.ForEach(func(atomIdx int) { seed(propositionOf(formalism.Index(atomIdx))) })
	}

	goalSet := make(map[int]bool, len(g.Goals))
	for _, p := range g.Goals {
		goalSet[p] = true
	}
	poppedGoals := 0

	popped := make([]bool, g.NumPropositions)
	for pq.Len() > 0 {
		top := heap.Pop(pq).(pqItem)
		if popped[top.prop] {
			continue
		}
		if top.cost > res.cost[top.prop] {
			continue
		}
		popped[top.prop] = true
		if goalSet[top.prop] {
			poppedGoals++
			if poppedGoals == len(goalSet) {
				break
			}
		}
		for _, ri := range g.RulesByPrecondition[top.prop] {
			r := g.Rules[ri]
			if isMax {
				if top.cost > andCost[ri] {
					andCost[ri] = top.cost
				}
			} else {
				andCost[ri] += top.cost
			}
			andUnsatisfied[ri]--
			if andUnsatisfied[ri] == 0 {
				step := 0.0
				if r.IsAction {
					step = r.Cost
				}
				candidate := andCost[ri] + step
				if candidate < res.cost[r.Effect] {
					res.cost[r.Effect] = candidate
					res.achiever[r.Effect] = ri
					heap.Push(pq, pqItem{prop: r.Effect, cost: candidate})
				}
			}
		}
	}

	res.reachable = poppedGoals == len(goalSet)
	return res
}

// HMax computes h_max: the maximum cost among goal propositions, or
// +Inf if some goal was never reached.
func HMax(g *Graph, truePropositions *bitset.BitSet) float64 {
	res := propagateNumeric(g, truePropositions, true)
	if !res.reachable {
		return math.Inf(1)
	}
	best := 0.0
	for _, p := range g.Goals {
		if res.cost[p] > best {
			best = res.cost[p]
		}
	}
	return best
}

// HAdd computes h_add: the sum of costs among goal propositions, or
// +Inf if some goal was never reached.
func HAdd(g *Graph, truePropositions *bitset.BitSet) float64 {
	res := propagateNumeric(g, truePropositions, false)
	if !res.reachable {
		return math.Inf(1)
	}
	total := 0.0
	for _, p := range g.Goals {
		total += res.cost[p]
	}
	return total
}

// FFResult is h_ff's extraction output: the heuristic value (number of
// distinct original ground actions in the extracted relaxed plan) and
// the set of those actions, which doubles as the preferred-operators
// set once intersected with the actions applicable in the current
// state.
type FFResult struct {
	Value   float64
	Actions map[int]bool // ground action Index (as int) -> true
}

// HFF computes h_ff by running the h_max propagation to pick each
// proposition's achiever rule (ff.cpp's update_and_annotation_impl
// combines preconditions with the same max as h_max, not h_add's sum),
// then sweeping backward from the goals marking each goal's achiever
// and, recursively, the achievers of that rule's preconditions —
// spec.md §4.6's "backward sweep ... marking used unary actions". The
// extracted relaxed plan's size need not fall between h_max and h_add:
// h_add overcounts propositions reachable through more than one
// shared precondition, so h_ff (a real, deduplicated relaxed plan) can
// legitimately come in below h_add.
func HFF(g *Graph, truePropositions *bitset.BitSet) *FFResult {
	res := propagateNumeric(g, truePropositions, true)
	if !res.reachable {
		return &FFResult{Value: math.Inf(1), Actions: nil}
	}
	actions := map[int]bool{}
	visited := make([]bool, g.NumPropositions)
	var walk func(prop int)
	walk = func(prop int) {
		if visited[prop] {
			return
		}
		visited[prop] = true
		ri := res.achiever[prop]
		if ri < 0 {
			return // true in the initial state, or the dummy proposition
		}
		rule := g.Rules[ri]
		if rule.IsAction {
			actions[int(rule.OriginalAction)] = true
		}
		for _, p := range rule.Preconditions {
			walk(p)
		}
	}
	for _, p := range g.Goals {
		walk(p)
	}
	return &FFResult{Value: float64(len(actions)), Actions: actions}
}

// PreferredOperators intersects ff's relaxed-plan action set with
// applicable, the ground actions applicable in the current (non-relaxed)
// state, returning h_ff's preferred operators (spec.md §4.6): the
// actions a greedy search should try first because the relaxed plan
// used them.
func PreferredOperators(ff *FFResult, applicable []*formalism.GroundAction) []*formalism.GroundAction {
	if ff == nil || len(ff.Actions) == 0 {
		return nil
	}
	var out []*formalism.GroundAction
	for _, a := range applicable {
		if ff.Actions[int(a.Index)] {
			out = append(out, a)
		}
	}
	return out
}

// HSetAdd computes h_set_add: and-set = union of precondition
// achiever-sets, or-set = that union plus the firing action (axioms
// contribute no action identity); heuristic value = the size of the
// union of every goal proposition's achiever set.
func HSetAdd(g *Graph, truePropositions *bitset.BitSet) float64 {
	achievers := make([]map[int]bool, g.NumPropositions)
	known := make([]bool, g.NumPropositions)
	known[DummyProposition] = true
	achievers[DummyProposition] = map[int]bool{}
	if truePropositions != nil {
		truePropositions.ForEach(func(atomIdx int) {
			p := propositionOf(formalism.Index(atomIdx))
			known[p] = true
			achievers[p] = map[int]bool{}
		})
	}

	andUnsatisfied := make([]int, len(g.Rules))
	for i, r := range g.Rules {
		andUnsatisfied[i] = len(r.Preconditions)
	}
	andSet := make([]map[int]bool, len(g.Rules))
	for i := range andSet {
		andSet[i] = map[int]bool{}
	}

	queue := []int{}
	for p, ok := range known {
		if ok {
			queue = append(queue, p)
		}
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, ri := range g.RulesByPrecondition[p] {
			r := g.Rules[ri]
			for a := range achievers[p] {
				andSet[ri][a] = true
			}
			andUnsatisfied[ri]--
			if andUnsatisfied[ri] == 0 {
				if known[r.Effect] {
					continue
				}
				orSet := map[int]bool{}
				for a := range andSet[ri] {
					orSet[a] = true
				}
				if r.IsAction {
					orSet[int(r.OriginalAction)] = true
				}
				achievers[r.Effect] = orSet
				known[r.Effect] = true
				queue = append(queue, r.Effect)
			}
		}
	}

	union := map[int]bool{}
	for _, p := range g.Goals {
		if !known[p] {
			return math.Inf(1)
		}
		for a := range achievers[p] {
			union[a] = true
		}
	}
	return float64(len(union))
}
