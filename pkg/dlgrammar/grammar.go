// Package dlgrammar implements the CNF feature grammar (spec.md §4.7):
// named non-terminals tied together by derivation and substitution
// rules, well-formedness checking, and complexity-bounded sentence
// generation with symmetry breaking and refinement pruning.
//
// Grounded on the teacher's DCG rule system (gitrdm/gokanlogic
// pkg/minikanren/dcg.go): named non-terminals referencing rule bodies,
// all rules kept in one registry and looked up by name. Unlike a DCG's
// SLG-resolved goal stream, generation here needs no fixpoint engine:
// well-formedness rejects cycles among substitution rules, derivation
// rules may recurse (<concept> ::= <concept> <concept>) but each step
// consumes complexity budget, so generation is a single bottom-up sweep
// by increasing complexity.
package dlgrammar

import (
	"fmt"
	"sort"

	"github.com/gitrdm/mimir-go/internal/errs"
	"github.com/gitrdm/mimir-go/pkg/dl"
)

// Tag classifies a non-terminal/sentence by which dl denotation type
// it produces.
type Tag int

const (
	ConceptTag Tag = iota
	RoleTag
	BooleanTag
	NumericalTag
)

func (t Tag) String() string {
	switch t {
	case ConceptTag:
		return "concept"
	case RoleTag:
		return "role"
	case BooleanTag:
		return "boolean"
	case NumericalTag:
		return "numerical"
	default:
		return "unknown"
	}
}

// NonTerminal is a named slot in the grammar, producing sentences of
// one Tag. IsStart marks it as a grammar entry point (spec.md §4.7's
// well-formedness rule ii/iii).
type NonTerminal struct {
	Name    string
	Tag     Tag
	IsStart bool
}

// Sentence is a single generated feature: exactly one of the four dl
// payload fields is populated, selected by Tag. Complexity is the
// syntactic complexity spec.md §4.7 generates by (1 + sum of child
// complexities).
type Sentence struct {
	Tag        Tag
	Complexity int

	Concept   *dl.Concept
	Role      *dl.Role
	Boolean   *dl.Boolean
	Numerical *dl.Numerical
}

// DerivationRule builds a Head sentence from sentences drawn from each
// of Children, in order. Build receives exactly len(Children)
// sentences, type-matched to each child's Tag. Commutative marks a
// 2-ary rule whose two children share both tag and constructor (e.g.
// Intersection, Union) so generation can restrict enumeration to
// i <= j and avoid generating both orderings of the same pair.
type DerivationRule struct {
	Name       string
	Head       *NonTerminal
	Children   []*NonTerminal
	Commutative bool
	Build      func(children []Sentence) Sentence
}

// SubstitutionRule copies Body's sentence pool, at every complexity
// level, into Head's pool.
type SubstitutionRule struct {
	Head *NonTerminal
	Body *NonTerminal
}

// Grammar is a complete CNF feature grammar: a set of non-terminals
// tied together by derivation and substitution rules.
type Grammar struct {
	NonTerminals  map[string]*NonTerminal
	Derivations   []DerivationRule
	Substitutions []SubstitutionRule
}

// New returns an empty grammar.
func New() *Grammar {
	return &Grammar{NonTerminals: make(map[string]*NonTerminal)}
}

// AddNonTerminal registers a non-terminal by name; registering a name
// again replaces the earlier non-terminal of that name.
func (g *Grammar) AddNonTerminal(nt *NonTerminal) {
	g.NonTerminals[nt.Name] = nt
}

// AddDerivation registers a derivation rule.
func (g *Grammar) AddDerivation(rule DerivationRule) {
	g.Derivations = append(g.Derivations, rule)
}

// AddSubstitution registers a substitution rule.
func (g *Grammar) AddSubstitution(rule SubstitutionRule) {
	g.Substitutions = append(g.Substitutions, rule)
}

// Validate checks the four well-formedness rules of spec.md §4.7:
// every body non-terminal is a head somewhere, at least one start
// symbol exists, start symbols never appear in a body, and the
// induced dependency graph is stratifiable (acyclic).
func (g *Grammar) Validate() error {
	heads := make(map[string]bool)
	for _, d := range g.Derivations {
		heads[d.Head.Name] = true
	}
	for _, s := range g.Substitutions {
		heads[s.Head.Name] = true
	}

	bodyRefs := make(map[string][]string) // head -> body non-terminals it depends on
	startSet := make(map[string]bool)
	for _, nt := range g.NonTerminals {
		if nt.IsStart {
			startSet[nt.Name] = true
		}
	}

	checkBody := func(head string, body *NonTerminal, trackForCycle bool) error {
		if startSet[body.Name] {
			return errs.GrammarIllFormed(fmt.Sprintf("start symbol %q appears in the body of %q", body.Name, head))
		}
		if !heads[body.Name] {
			return errs.GrammarIllFormed(fmt.Sprintf("non-terminal %q is never a rule head", body.Name))
		}
		if trackForCycle {
			bodyRefs[head] = append(bodyRefs[head], body.Name)
		}
		return nil
	}

	// Derivation-rule self/mutual reference (Intersection<D> ::= <D> <D>)
	// is how nesting is expressed and always terminates because each
	// derivation strictly consumes syntactic-complexity budget — it is
	// not part of the stratification check. Only substitution-rule
	// aliasing (Head ::= Body, a zero-cost rename) must be acyclic, so
	// only those edges feed bodyRefs.
	for _, d := range g.Derivations {
		for _, child := range d.Children {
			if err := checkBody(d.Head.Name, child, false); err != nil {
				return err
			}
		}
	}
	for _, s := range g.Substitutions {
		if err := checkBody(s.Head.Name, s.Body, true); err != nil {
			return err
		}
	}

	if len(startSet) == 0 {
		return errs.GrammarIllFormed("grammar declares no start symbol")
	}

	if cycle, ok := findCycle(bodyRefs); ok {
		return errs.GrammarIllFormed(fmt.Sprintf("grammar is not stratifiable: cycle through %q", cycle))
	}
	return nil
}

// findCycle runs a DFS cycle detection over the head->body dependency
// graph, returning one offending node if a cycle exists.
func findCycle(edges map[string][]string) (string, bool) {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int)
	var visit func(node string) (string, bool)
	visit = func(node string) (string, bool) {
		color[node] = gray
		for _, next := range edges[node] {
			switch color[next] {
			case gray:
				return next, true
			case white:
				if cyc, found := visit(next); found {
					return cyc, found
				}
			}
		}
		color[node] = black
		return "", false
	}
	for node := range edges {
		if color[node] == white {
			if cyc, found := visit(node); found {
				return cyc, true
			}
		}
	}
	return "", false
}

// StartSymbols returns every non-terminal marked IsStart, sorted by name.
func (g *Grammar) StartSymbols() []*NonTerminal {
	var out []*NonTerminal
	for _, nt := range g.NonTerminals {
		if nt.IsStart {
			out = append(out, nt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
