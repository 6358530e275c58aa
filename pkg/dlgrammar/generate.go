package dlgrammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gitrdm/mimir-go/pkg/bitset"
	"github.com/gitrdm/mimir-go/pkg/dl"
)

// RepresentativeState pairs a dl.Context with its own per-state
// denotation cache, used as one point in the fixed representative
// state set that refinement pruning compares sentences against
// (spec.md §4.7).
type RepresentativeState struct {
	Ctx   *dl.Context
	Cache *dl.Cache
}

// Generator runs complexity-bounded sentence generation over a
// Grammar: spec.md §4.7's Σ|children|=c-1 enumeration, partial
// symmetry breaking for commutative rules, and refinement pruning
// against a canonical per-sentence denotation signature computed over
// a fixed set of representative states.
//
// This is a synchronous generator, not a goal stream — spec.md §5
// requires iteration order to be reproducible across identical runs,
// which a single sweep trivially guarantees and a scheduled/parallel
// one would not (see pkg/binding's package doc for the same tradeoff).
type Generator struct {
	grammar *Grammar
	states  []RepresentativeState

	// pools[nonTerminalName][complexity] = sentences at that complexity.
	pools map[string]map[int][]Sentence
	// seenSignatures deduplicates by canonical denotation signature,
	// independent of which non-terminal/rule produced the sentence —
	// refinement pruning is global, per spec.md §4.7.
	seenSignatures map[string]bool
}

// NewGenerator returns a generator ready to build sentences over g,
// evaluated against states for refinement pruning.
func NewGenerator(g *Grammar, states []RepresentativeState) *Generator {
	return &Generator{
		grammar:        g,
		states:         states,
		pools:          make(map[string]map[int][]Sentence),
		seenSignatures: make(map[string]bool),
	}
}

// Generate runs generation up to and including maxComplexity, and
// returns every kept sentence reachable from a start symbol, grouped
// by start symbol (in name order) and, within each, by increasing
// complexity.
func (gen *Generator) Generate(maxComplexity int) ([]Sentence, error) {
	if err := gen.grammar.Validate(); err != nil {
		return nil, err
	}
	var all []Sentence
	for c := 1; c <= maxComplexity; c++ {
		gen.generateLevel(c)
	}
	for _, nt := range gen.grammar.StartSymbols() {
		for c := 1; c <= maxComplexity; c++ {
			all = append(all, gen.poolAt(nt.Name, c)...)
		}
	}
	return all, nil
}

func (gen *Generator) poolAt(name string, complexity int) []Sentence {
	byComplexity, ok := gen.pools[name]
	if !ok {
		return nil
	}
	return byComplexity[complexity]
}

func (gen *Generator) addToPool(name string, complexity int, s Sentence) {
	if gen.pools[name] == nil {
		gen.pools[name] = make(map[int][]Sentence)
	}
	gen.pools[name][complexity] = append(gen.pools[name][complexity], s)
}

// generateLevel produces every sentence of exactly the given syntactic
// complexity, across every non-terminal, then applies substitution
// rules to propagate that level's pool.
func (gen *Generator) generateLevel(complexity int) {
	for _, rule := range gen.grammar.Derivations {
		gen.applyDerivation(rule, complexity)
	}
	for _, rule := range gen.grammar.Substitutions {
		for _, s := range gen.poolAt(rule.Body.Name, complexity) {
			gen.addToPool(rule.Head.Name, complexity, s)
		}
	}
}

// applyDerivation enumerates every child-complexity tuple summing to
// complexity-1 and, for each, the cross product of each child's pool
// at that complexity — restricting to i<=j for a commutative 2-ary
// rule whose children draw from the same non-terminal.
func (gen *Generator) applyDerivation(rule DerivationRule, complexity int) {
	k := len(rule.Children)
	if k == 0 {
		if complexity != 1 {
			return
		}
		gen.tryKeep(rule, nil, complexity)
		return
	}
	budget := complexity - 1
	if budget < k {
		// every child needs complexity >= 1
		return
	}
	for _, split := range compositions(budget, k) {
		gen.instantiate(rule, split, complexity)
	}
}

// compositions returns every way to write total as an ordered sum of
// k positive integers (every non-terminal's smallest sentence has
// complexity 1, so no child may be assigned 0).
func compositions(total, k int) [][]int {
	if k == 1 {
		return [][]int{{total}}
	}
	var out [][]int
	for first := 1; first <= total-(k-1); first++ {
		for _, rest := range compositions(total-first, k-1) {
			out = append(out, append([]int{first}, rest...))
		}
	}
	return out
}

// instantiate takes one complexity-assignment across rule.Children and
// runs the cross product of each child non-terminal's pool at that
// complexity, applying commutative symmetry breaking for 2-ary rules.
func (gen *Generator) instantiate(rule DerivationRule, childComplexities []int, complexity int) {
	pools := make([][]Sentence, len(rule.Children))
	for i, child := range rule.Children {
		pools[i] = gen.poolAt(child.Name, childComplexities[i])
	}
	for _, p := range pools {
		if len(p) == 0 {
			return
		}
	}

	if rule.Commutative && len(pools) == 2 && childComplexities[0] == childComplexities[1] {
		n := len(pools[0])
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				gen.tryKeep(rule, []Sentence{pools[0][i], pools[1][j]}, complexity)
			}
		}
		return
	}

	idx := make([]int, len(pools))
	for {
		children := make([]Sentence, len(pools))
		for i, p := range pools {
			children[i] = p[idx[i]]
		}
		gen.tryKeep(rule, children, complexity)

		pos := len(idx) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(pools[pos]) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}
}

// tryKeep builds the candidate sentence, computes its canonical
// denotation signature over the representative state set, and keeps
// it only if no already-kept sentence (of any complexity) shares that
// signature — spec.md §4.7's refinement pruning.
func (gen *Generator) tryKeep(rule DerivationRule, children []Sentence, complexity int) {
	s := rule.Build(children)
	s.Complexity = complexity
	sig := gen.signature(s)
	if gen.seenSignatures[sig] {
		return
	}
	gen.seenSignatures[sig] = true
	gen.addToPool(rule.Head.Name, complexity, s)
}

// signature evaluates s against every representative state and
// flattens the results into one comparable string — two sentences
// with an identical signature are semantically redundant, so only the
// first (lowest-complexity) one survives.
func (gen *Generator) signature(s Sentence) string {
	var b strings.Builder
	b.WriteString(s.Tag.String())
	for _, rs := range gen.states {
		switch s.Tag {
		case ConceptTag:
			d := dl.EvaluateConcept(rs.Ctx, rs.Cache, s.Concept)
			writeBitsetSignature(&b, d)
		case RoleTag:
			d := dl.EvaluateRole(rs.Ctx, rs.Cache, s.Role)
			writeBitsetSignature(&b, d)
		case BooleanTag:
			fmt.Fprintf(&b, "|%v", dl.EvaluateBoolean(rs.Ctx, rs.Cache, s.Boolean))
		case NumericalTag:
			fmt.Fprintf(&b, "|%d", dl.EvaluateNumerical(rs.Ctx, rs.Cache, s.Numerical))
		}
	}
	return b.String()
}

func writeBitsetSignature(b *strings.Builder, d *bitset.BitSet) {
	bits := d.ToSlice()
	sort.Ints(bits)
	b.WriteByte('|')
	for i, v := range bits {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(b, "%d", v)
	}
}
