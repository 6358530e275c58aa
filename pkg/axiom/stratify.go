// Package axiom computes the stratification of a set of lifted Axioms
// over Derived predicates (spec.md §4.5), so axioms can be evaluated
// stratum by stratum to their least fixpoint instead of all at once.
//
// Grounded on the teacher's well-founded-semantics stratification
// check (gitrdm/gokanlogic pkg/minikanren/slg_wfs.go), generalized
// from SLG tabling's two-valued (positive/negative) dependency
// relation to spec.md §4.5's three-valued
// UNCONSTRAINED/LOWER/STRICTLY_LOWER relation and its min/max-semiring
// transitive closure.
package axiom

import "github.com/gitrdm/mimir-go/pkg/formalism"

// Relation is the strength of dependency predicate p has on predicate
// q, where STRICTLY_LOWER beats LOWER (a negated-literal dependency is
// "stronger" than a positive one: it must resolve in an earlier
// stratum, never the same one).
type Relation int

const (
	Unconstrained Relation = iota
	Lower
	StrictlyLower
)

// stronger returns whichever of a, b is the stronger constraint.
func stronger(a, b Relation) Relation {
	if a > b {
		return a
	}
	return b
}

// Stratifier computes the dependency relation and strata for a fixed
// set of Derived predicates and the axioms whose heads they label.
type Stratifier struct {
	predicates []formalism.Index // Derived predicate indices, in a stable order
	posOf      map[formalism.Index]int
	relation   [][]Relation // relation[p][q] = how strictly p must be ordered below q (q depends on p)
}

// NewStratifier returns a Stratifier seeded with every Derived
// predicate axioms references as a head or body literal.
func NewStratifier(predicates []formalism.Index) *Stratifier {
	s := &Stratifier{predicates: predicates, posOf: make(map[formalism.Index]int, len(predicates))}
	for i, p := range predicates {
		s.posOf[p] = i
	}
	n := len(predicates)
	s.relation = make([][]Relation, n)
	for i := range s.relation {
		s.relation[i] = make([]Relation, n)
	}
	return s
}

// AddAxiom folds one axiom's head/body dependency into the relation:
// for head predicate q and each body literal's predicate p, p ≤ q
// (STRICTLY_LOWER if negated, else LOWER).
func (s *Stratifier) AddAxiom(ax formalism.Axiom) {
	qPos, ok := s.posOf[ax.Head.Predicate]
	if !ok {
		return
	}
	for _, lit := range ax.Body.Literals {
		pPos, ok := s.posOf[lit.Predicate]
		if !ok {
			continue // not a Derived predicate, no stratification constraint
		}
		rel := Lower
		if lit.Negated {
			rel = StrictlyLower
		}
		s.relation[pPos][qPos] = stronger(s.relation[pPos][qPos], rel)
	}
}

// ErrNotStratifiable is returned by Close when some predicate is
// STRICTLY_LOWER than itself.
type ErrNotStratifiable struct {
	Predicate formalism.Index
}

func (e *ErrNotStratifiable) Error() string {
	return "axiom set is not stratifiable: a predicate is strictly lower than itself"
}

// Close computes the transitive closure of the relation over the
// min/max semiring (STRICTLY_LOWER propagates through any path that
// contains it) and returns an error if the result is irreflexively
// inconsistent — some predicate found STRICTLY_LOWER than itself.
func (s *Stratifier) Close() error {
	n := len(s.predicates)
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if s.relation[i][k] == Unconstrained {
				continue
			}
			for j := 0; j < n; j++ {
				if s.relation[k][j] == Unconstrained {
					continue
				}
				through := s.relation[i][k]
				if s.relation[k][j] > through {
					through = s.relation[k][j]
				}
				if through > s.relation[i][j] {
					s.relation[i][j] = through
				}
			}
		}
	}
	for i := 0; i < n; i++ {
		if s.relation[i][i] == StrictlyLower {
			return &ErrNotStratifiable{Predicate: s.predicates[i]}
		}
	}
	return nil
}

// Strata repeatedly extracts predicates with no remaining predicate
// STRICTLY_LOWER than them, returning the strata in evaluation order
// (stratum 0 first). Close must be called first, successfully.
func (s *Stratifier) Strata() [][]formalism.Index {
	n := len(s.predicates)
	remaining := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		remaining[i] = true
	}
	var strata [][]formalism.Index
	for len(remaining) > 0 {
		var stratum []int
		for p := range remaining {
			isMinimal := true
			for q := range remaining {
				if q == p {
					continue
				}
				if s.relation[q][p] == StrictlyLower {
					isMinimal = false
					break
				}
			}
			if isMinimal {
				stratum = append(stratum, p)
			}
		}
		var indices []formalism.Index
		for _, p := range stratum {
			indices = append(indices, s.predicates[p])
			delete(remaining, p)
		}
		strata = append(strata, indices)
	}
	return strata
}

// AxiomsByStratum partitions axioms into the stratum their head
// predicate belongs to, given the Strata result.
func AxiomsByStratum(axioms []formalism.Axiom, strata [][]formalism.Index) [][]formalism.Axiom {
	stratumOf := map[formalism.Index]int{}
	for s, preds := range strata {
		for _, p := range preds {
			stratumOf[p] = s
		}
	}
	out := make([][]formalism.Axiom, len(strata))
	for _, ax := range axioms {
		s, ok := stratumOf[ax.Head.Predicate]
		if !ok {
			continue
		}
		out[s] = append(out[s], ax)
	}
	return out
}
