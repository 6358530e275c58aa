// Package matchtree implements the match tree (spec.md §4.4): a
// decision tree over ground-atom and numeric-constraint selectors that
// dispatches a state to the ground actions/axioms it makes relevant,
// without re-testing every element's full precondition.
//
// The build algorithm is grounded on the teacher's constraint
// propagation idiom (gitrdm/gokanlogic pkg/fd/table.go's Table and
// pkg/fd/strategy.go's StrategyRegistry): both repeatedly pick the
// "most useful" next decision from a pluggable, named strategy and
// narrow a working set until no useful narrowing remains. Here the
// working set is a set of ground elements rather than CSP domains,
// and the narrowing step is a ternary (T/F/X) split instead of a
// binary constraint propagation, but the registry-of-named-scoring-
// functions shape is the same.
package matchtree

import "github.com/gitrdm/mimir-go/pkg/formalism"

// Element is anything the match tree dispatches: a GroundAction or
// GroundAxiom index, opaque to this package beyond its Oracle answers
// and the holdsAtom / holdsNumeric callbacks Dispatch receives, which
// the caller supplies.
type Element struct {
	ID int // caller-assigned identity (e.g. a GroundAction.Index)
}

// Selector describes one candidate split: either an atom membership
// test or a numeric constraint test, plus how each element in the
// working set answers it.
type Selector struct {
	IsNumeric bool
	Atom      formalism.Index          // valid when !IsNumeric
	Numeric   formalism.NumericConstraint // valid when IsNumeric
}

// Answer classifies how one element responds to a Selector.
type Answer int

const (
	AnswerTrue Answer = iota
	AnswerFalse
	AnswerDontCare
)

// Oracle answers how an element responds to every candidate selector,
// supplied by the grounder which alone knows each GroundAction's
// precondition bitsets.
type Oracle interface {
	// Selectors returns every candidate selector still worth trying
	// for the given working set.
	Selectors(working []Element) []Selector
	// Answer reports how element answers selector.
	Answer(element Element, selector Selector) Answer
}

// NodeKind discriminates a Node's variant.
type NodeKind int

const (
	NodeGeneratorPerfect NodeKind = iota
	NodeGeneratorImperfect
	NodeAtomSelector
	NodeNumericSelector
)

// Node is one match tree node. GeneratorPerfect/Imperfect nodes carry
// Elements; Atom/NumericSelector nodes carry their Selector and up to
// three children.
type Node struct {
	Kind     NodeKind
	Elements []Element
	Selector Selector
	T, F, X  *Node
}

// Dispatch walks the tree for a state, answered via holdsAtom /
// holdsNumeric, calling visit for every element reached. GeneratorPerfect
// nodes emit their elements unconditionally; GeneratorImperfect nodes
// re-test each element's full condition via recheck before emitting.
func (n *Node) Dispatch(
	holdsAtom func(formalism.Index) bool,
	holdsNumeric func(formalism.NumericConstraint) bool,
	recheck func(Element) bool,
	visit func(Element),
) {
	if n == nil {
		return
	}
	switch n.Kind {
	case NodeGeneratorPerfect:
		for _, e := range n.Elements {
			visit(e)
		}
	case NodeGeneratorImperfect:
		for _, e := range n.Elements {
			if recheck(e) {
				visit(e)
			}
		}
	case NodeAtomSelector:
		if holdsAtom(n.Selector.Atom) {
			n.T.Dispatch(holdsAtom, holdsNumeric, recheck, visit)
		} else {
			n.F.Dispatch(holdsAtom, holdsNumeric, recheck, visit)
		}
		n.X.Dispatch(holdsAtom, holdsNumeric, recheck, visit)
	case NodeNumericSelector:
		if holdsNumeric(n.Selector.Numeric) {
			n.T.Dispatch(holdsAtom, holdsNumeric, recheck, visit)
		}
		n.X.Dispatch(holdsAtom, holdsNumeric, recheck, visit)
	}
}

// Options configures the build algorithm (spec.md §4.4's
// "configurable score": dynamic MAX_COVER/GINI/FREQUENCY metric,
// MINIMIZE/MAXIMIZE direction, and a node-count cap).
type Options struct {
	Metric    Metric
	Direction Direction
	MaxNodes  int
}

// Direction is whether the build algorithm prefers the
// highest-scoring or lowest-scoring selector at each step.
type Direction int

const (
	Maximize Direction = iota
	Minimize
)

// DefaultOptions returns the MAX_COVER/Maximize configuration used
// when a caller supplies no Options (spec.md §9's Open Question
// resolution: MAX_COVER is the default because it most directly
// minimizes expected dispatch depth for typical PDDL action counts).
func DefaultOptions() Options {
	return Options{Metric: MaxCover, Direction: Maximize, MaxNodes: 1 << 20}
}

// Build runs the match tree construction algorithm over every element
// in all, using oracle to answer selector questions and scorer to pick
// the next split at each placeholder node.
func Build(all []Element, oracle Oracle, opts Options) *Node {
	scorer := registry[opts.Metric]
	nodeCount := 0
	var build func(working []Element, excluded map[Selector]bool) *Node
	build = func(working []Element, excluded map[Selector]bool) *Node {
		nodeCount++
		if len(working) == 0 {
			return &Node{Kind: NodeGeneratorPerfect, Elements: working}
		}
		if nodeCount >= opts.MaxNodes {
			return &Node{Kind: NodeGeneratorImperfect, Elements: working}
		}
		candidates := oracle.Selectors(working)
		var best Selector
		bestScore := 0.0
		found := false
		untested := false
		for _, sel := range candidates {
			if excluded[sel] {
				continue
			}
			untested = true
			answers := make([]Answer, len(working))
			for i, e := range working {
				answers[i] = oracle.Answer(e, sel)
			}
			if useless(answers) {
				continue
			}
			score := scorer(answers)
			if opts.Direction == Minimize {
				score = -score
			}
			if !found || score > bestScore {
				best, bestScore, found = sel, score, true
			}
		}
		if !found {
			if !untested {
				// every selector these elements answer was already split on along this path
				return &Node{Kind: NodeGeneratorPerfect, Elements: working}
			}
			return &Node{Kind: NodeGeneratorImperfect, Elements: working}
		}

		var tSet, fSet, xSet []Element
		for _, e := range working {
			switch oracle.Answer(e, best) {
			case AnswerTrue:
				tSet = append(tSet, e)
			case AnswerFalse:
				fSet = append(fSet, e)
			default:
				xSet = append(xSet, e)
			}
		}
		nextExcluded := map[Selector]bool{best: true}
		for k := range excluded {
			nextExcluded[k] = true
		}

		n := &Node{Kind: nodeKindFor(best), Selector: best}
		if best.IsNumeric {
			n.T = build(append(append([]Element{}, tSet...)), nextExcluded)
			n.X = build(xSet, nextExcluded)
		} else {
			n.T = build(tSet, nextExcluded)
			n.F = build(fSet, nextExcluded)
			n.X = build(xSet, nextExcluded)
		}
		return n
	}
	return build(all, map[Selector]bool{})
}

func nodeKindFor(sel Selector) NodeKind {
	if sel.IsNumeric {
		return NodeNumericSelector
	}
	return NodeAtomSelector
}

// useless reports whether every answer agrees (spec.md §4.4: "a split
// is useless once all elements agree").
func useless(answers []Answer) bool {
	if len(answers) == 0 {
		return true
	}
	first := answers[0]
	for _, a := range answers[1:] {
		if a != first {
			return false
		}
	}
	return true
}
