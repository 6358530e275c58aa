// Package binding implements the satisficing binding generator
// (spec.md §4.3): given a ConjunctiveCondition and a Facts view of a
// state, it yields every object tuple that binds the condition's free
// parameters so every literal holds in that view. Numeric constraints
// are not evaluated here (see numericHoldsUnderBinding).
//
// Iteration is a synchronous pull-iterator (Next() (T, bool)) rather
// than the teacher's goroutine-backed Stream
// (gitrdm/gokanlogic pkg/minikanren/stream.go), per spec.md §5's
// single-threaded, deterministic-order mandate: a planner walks one
// binding at a time and must be able to stop early without leaking a
// generator goroutine, which a channel-based Stream cannot guarantee
// without an explicit cancellation protocol.
package binding

import (
	"github.com/gitrdm/mimir-go/pkg/consistency"
	"github.com/gitrdm/mimir-go/pkg/formalism"
)

// Facts is the minimal state contract the generator needs: whether a
// ground atom holds, by (predicate, args) identity.
type Facts interface {
	Holds(predicate formalism.Index, args []formalism.Index) bool
	NumericValue(function formalism.Index, args []formalism.Index) (float64, bool)
}

// Generator yields every binding of a schema's parameters that
// satisfies its ConjunctiveCondition in a given state, extending
// partial bindings one parameter at a time over the static
// consistency graph's vertex partition.
type Generator struct {
	graph     *consistency.Graph
	condition formalism.ConjunctiveCondition
	numParams int
	facts     Facts

	// paramOrder lists parameter indices in the order extension
	// proceeds, grouped by the graph's vertex partition.
	paramOrder []int
	candidates [][]consistency.Vertex // per paramOrder position, candidate vertices

	stack    []frame
	done     bool
	started  bool
}

type frame struct {
	paramPos int
	cursor   int
	binding  map[int]formalism.Index
}

// NewGenerator returns a binding generator for condition over graph,
// whose vertices range over numParams parameter slots. Candidate
// objects for each parameter come from graph's vertices; its edges are
// not consulted. Every literal of condition, Static ones included, is
// checked against facts once all its parameters are bound, so facts
// must answer Static atoms too. Numeric constraints are accepted
// without evaluation.
func NewGenerator(graph *consistency.Graph, condition formalism.ConjunctiveCondition, numParams int, facts Facts) *Generator {
	byParam := make([][]consistency.Vertex, numParams)
	for _, v := range graph.Vertices {
		byParam[v.Parameter] = append(byParam[v.Parameter], v)
	}
	var order []int
	for i := 0; i < numParams; i++ {
		order = append(order, i)
	}
	return &Generator{
		graph:      graph,
		condition:  condition,
		numParams:  numParams,
		facts:      facts,
		paramOrder: order,
		candidates: byParam,
	}
}

func (g *Generator) literalHoldsUnderBinding(lit formalism.Literal, binding map[int]formalism.Index) (bool, bool) {
	args := make([]formalism.Index, len(lit.Terms))
	for k, term := range lit.Terms {
		if !term.IsVariable {
			args[k] = term.Index
			continue
		}
		o, ok := binding[int(term.Index)]
		if !ok {
			return false, false // not fully bound yet
		}
		args[k] = o
	}
	present := g.facts.Holds(lit.Predicate, args)
	if lit.Negated {
		return !present, true
	}
	return present, true
}

// numericHoldsUnderBinding always reports the constraint as satisfied.
// Numeric fluents have no well-defined value at grounding time — the
// problem's :init assigns them per-object, not per-lifted-parameter —
// so there is nothing meaningful to resolve here. Numeric preconditions
// are deferred to runtime: they are compiled onto GroundAction's
// NumericPreconditions (pkg/grounding) and enforced by
// GroundAction.IsApplicable against the live state's numeric values.
func (g *Generator) numericHoldsUnderBinding(nc formalism.NumericConstraint, binding map[int]formalism.Index) (bool, bool) {
	return true, true
}

// consistentSoFar checks every literal/numeric constraint whose free
// parameters are all present in binding, after extending it with the
// just-chosen (param, object) pair.
func (g *Generator) consistentSoFar(binding map[int]formalism.Index) bool {
	for _, lit := range g.condition.Literals {
		if ok, complete := g.literalHoldsUnderBinding(lit, binding); complete && !ok {
			return false
		}
	}
	for _, nc := range g.condition.Numeric {
		if ok, complete := g.numericHoldsUnderBinding(nc, binding); complete && !ok {
			return false
		}
	}
	return true
}

// Next returns the next binding (one object index per parameter, in
// parameter-index order) and true, or a nil slice and false once
// every binding has been produced.
func (g *Generator) Next() ([]formalism.Index, bool) {
	if g.done {
		return nil, false
	}
	if !g.started {
		g.started = true
		g.stack = []frame{{paramPos: 0, cursor: 0, binding: map[int]formalism.Index{}}}
	}
	for len(g.stack) > 0 {
		top := &g.stack[len(g.stack)-1]
		if top.paramPos == len(g.paramOrder) {
			result := make([]formalism.Index, g.numParams)
			for p, o := range top.binding {
				result[p] = o
			}
			g.stack = g.stack[:len(g.stack)-1]
			return result, true
		}
		param := g.paramOrder[top.paramPos]
		cands := g.candidates[param]
		if top.cursor >= len(cands) {
			g.stack = g.stack[:len(g.stack)-1]
			continue
		}
		v := cands[top.cursor]
		top.cursor++
		child := make(map[int]formalism.Index, len(top.binding)+1)
		for k, val := range top.binding {
			child[k] = val
		}
		child[param] = v.Object
		if g.consistentSoFar(child) {
			g.stack = append(g.stack, frame{paramPos: top.paramPos + 1, cursor: 0, binding: child})
		}
	}
	g.done = true
	return nil, false
}

// All drains the generator, returning every binding. Intended for
// tests and small schemas; planning code should prefer Next so it can
// stop early.
func (g *Generator) All() [][]formalism.Index {
	var out [][]formalism.Index
	for {
		b, ok := g.Next()
		if !ok {
			break
		}
		out = append(out, b)
	}
	return out
}
