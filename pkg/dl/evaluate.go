package dl

import (
	"github.com/gitrdm/mimir-go/pkg/bitset"
	"github.com/gitrdm/mimir-go/pkg/formalism"
)

// Cache memoises denotations by constructor Index within a single
// evaluation pass (one State). Callers construct a fresh Cache per
// state (or call Reset) since a constructor's denotation depends on
// Context.StateAtoms — spec.md §4.7 calls this out explicitly as the
// reason denotations cannot be cached across states.
type Cache struct {
	concepts   map[Index]*bitset.BitSet
	roles      map[Index]*bitset.BitSet
	booleans   map[Index]bool
	numericals map[Index]int
}

// NewCache returns an empty per-state denotation cache.
func NewCache() *Cache {
	return &Cache{
		concepts:   make(map[Index]*bitset.BitSet),
		roles:      make(map[Index]*bitset.BitSet),
		booleans:   make(map[Index]bool),
		numericals: make(map[Index]int),
	}
}

// Reset clears every memoised denotation, for reuse against a new state.
func (c *Cache) Reset() {
	for k := range c.concepts {
		delete(c.concepts, k)
	}
	for k := range c.roles {
		delete(c.roles, k)
	}
	for k := range c.booleans {
		delete(c.booleans, k)
	}
	for k := range c.numericals {
		delete(c.numericals, k)
	}
}

// EvaluateConcept returns the set of object positions (Context.Objects
// indices) that con denotes, memoised in cache.
func EvaluateConcept(ctx *Context, cache *Cache, con *Concept) *bitset.BitSet {
	if con == nil {
		return bitset.New(ctx.numObjects())
	}
	if cached, ok := cache.concepts[con.Index]; ok {
		return cached
	}
	result := evalConceptUncached(ctx, cache, con)
	cache.concepts[con.Index] = result
	return result
}

func evalConceptUncached(ctx *Context, cache *Cache, con *Concept) *bitset.BitSet {
	n := ctx.numObjects()
	out := bitset.New(n)
	switch con.Kind {
	case ConceptTop:
		for i := 0; i < n; i++ {
			out.Set(i)
		}
	case ConceptBottom:
		// empty
	case ConceptAtomicState:
		for i, obj := range ctx.Objects {
			if atom, ok := ctx.Atoms.Lookup(con.Predicate, []formalism.Index{obj}); ok && ctx.StateAtoms.Test(int(atom.Index)) {
				out.Set(i)
			}
		}
	case ConceptAtomicGoal:
		for i, obj := range ctx.Objects {
			atom, ok := ctx.Atoms.Lookup(con.Predicate, []formalism.Index{obj})
			if !ok {
				continue
			}
			goalSet := ctx.GoalPositive
			if !con.Polarity {
				goalSet = ctx.GoalNegative
			}
			if goalSet != nil && goalSet.Test(int(atom.Index)) {
				out.Set(i)
			}
		}
	case ConceptIntersection:
		out = EvaluateConcept(ctx, cache, con.Left).Clone()
		out.Intersect(EvaluateConcept(ctx, cache, con.Right))
	case ConceptUnion:
		out = EvaluateConcept(ctx, cache, con.Left).Clone()
		out.Union(EvaluateConcept(ctx, cache, con.Right))
	case ConceptNegation:
		inner := EvaluateConcept(ctx, cache, con.Inner)
		for i := 0; i < n; i++ {
			if !inner.Test(i) {
				out.Set(i)
			}
		}
	case ConceptValueRestriction:
		// {a : for all b, (a,b) in R implies b in D}
		role := EvaluateRole(ctx, cache, con.Role)
		sub := EvaluateConcept(ctx, cache, con.SubConcept)
		for i := 0; i < n; i++ {
			satisfied := true
			for j := 0; j < n; j++ {
				if role.Test(ctx.PairRank(i, j)) && !sub.Test(j) {
					satisfied = false
					break
				}
			}
			if satisfied {
				out.Set(i)
			}
		}
	case ConceptExistentialQuantification:
		role := EvaluateRole(ctx, cache, con.Role)
		sub := EvaluateConcept(ctx, cache, con.SubConcept)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if role.Test(ctx.PairRank(i, j)) && sub.Test(j) {
					out.Set(i)
					break
				}
			}
		}
	case ConceptRoleValueMapContainment:
		left := EvaluateRole(ctx, cache, con.RoleLeft)
		right := EvaluateRole(ctx, cache, con.RoleRight)
		for i := 0; i < n; i++ {
			contained := true
			for j := 0; j < n; j++ {
				if left.Test(ctx.PairRank(i, j)) && !right.Test(ctx.PairRank(i, j)) {
					contained = false
					break
				}
			}
			if contained {
				out.Set(i)
			}
		}
	case ConceptRoleValueMapEquality:
		left := EvaluateRole(ctx, cache, con.RoleLeft)
		right := EvaluateRole(ctx, cache, con.RoleRight)
		for i := 0; i < n; i++ {
			equal := true
			for j := 0; j < n; j++ {
				if left.Test(ctx.PairRank(i, j)) != right.Test(ctx.PairRank(i, j)) {
					equal = false
					break
				}
			}
			if equal {
				out.Set(i)
			}
		}
	case ConceptNominal:
		pos := ctx.objectPosition(con.Object)
		if pos >= 0 {
			out.Set(pos)
		}
	}
	return out
}

// EvaluateRole returns the set of (i,j) pair ranks (Context.PairRank)
// that role denotes, memoised in cache.
func EvaluateRole(ctx *Context, cache *Cache, role *Role) *bitset.BitSet {
	if role == nil {
		return bitset.New(ctx.numObjects() * ctx.numObjects())
	}
	if cached, ok := cache.roles[role.Index]; ok {
		return cached
	}
	result := evalRoleUncached(ctx, cache, role)
	cache.roles[role.Index] = result
	return result
}

func evalRoleUncached(ctx *Context, cache *Cache, role *Role) *bitset.BitSet {
	n := ctx.numObjects()
	out := bitset.New(n * n)
	switch role.Kind {
	case RoleUniversal:
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				out.Set(ctx.PairRank(i, j))
			}
		}
	case RoleAtomicState:
		for i, a := range ctx.Objects {
			for j, b := range ctx.Objects {
				if atom, ok := ctx.Atoms.Lookup(role.Predicate, []formalism.Index{a, b}); ok && ctx.StateAtoms.Test(int(atom.Index)) {
					out.Set(ctx.PairRank(i, j))
				}
			}
		}
	case RoleAtomicGoal:
		for i, a := range ctx.Objects {
			for j, b := range ctx.Objects {
				atom, ok := ctx.Atoms.Lookup(role.Predicate, []formalism.Index{a, b})
				if !ok {
					continue
				}
				goalSet := ctx.GoalPositive
				if !role.Polarity {
					goalSet = ctx.GoalNegative
				}
				if goalSet != nil && goalSet.Test(int(atom.Index)) {
					out.Set(ctx.PairRank(i, j))
				}
			}
		}
	case RoleIntersection:
		out = EvaluateRole(ctx, cache, role.Left).Clone()
		out.Intersect(EvaluateRole(ctx, cache, role.Right))
	case RoleUnion:
		out = EvaluateRole(ctx, cache, role.Left).Clone()
		out.Union(EvaluateRole(ctx, cache, role.Right))
	case RoleComplement:
		inner := EvaluateRole(ctx, cache, role.Inner)
		for i := 0; i < n*n; i++ {
			if !inner.Test(i) {
				out.Set(i)
			}
		}
	case RoleInverse:
		inner := EvaluateRole(ctx, cache, role.Inner)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if inner.Test(ctx.PairRank(i, j)) {
					out.Set(ctx.PairRank(j, i))
				}
			}
		}
	case RoleComposition:
		left := EvaluateRole(ctx, cache, role.Left)
		right := EvaluateRole(ctx, cache, role.Right)
		for i := 0; i < n; i++ {
			for k := 0; k < n; k++ {
				found := false
				for j := 0; j < n && !found; j++ {
					if left.Test(ctx.PairRank(i, j)) && right.Test(ctx.PairRank(j, k)) {
						found = true
					}
				}
				if found {
					out.Set(ctx.PairRank(i, k))
				}
			}
		}
	case RoleTransitiveClosure:
		base := EvaluateRole(ctx, cache, role.Inner)
		out = transitiveClosure(base, n, false)
	case RoleReflexiveTransitiveClosure:
		base := EvaluateRole(ctx, cache, role.Inner)
		out = transitiveClosure(base, n, true)
	case RoleRestriction:
		base := EvaluateRole(ctx, cache, role.Left)
		filter := EvaluateConcept(ctx, cache, role.RestrictionConcept)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if base.Test(ctx.PairRank(i, j)) && filter.Test(j) {
					out.Set(ctx.PairRank(i, j))
				}
			}
		}
	case RoleIdentity:
		filter := EvaluateConcept(ctx, cache, role.RestrictionConcept)
		for i := 0; i < n; i++ {
			if filter.Test(i) {
				out.Set(ctx.PairRank(i, i))
			}
		}
	}
	return out
}

// transitiveClosure computes the Floyd-Warshall reachability closure
// of base over n vertices; reflexive adds every (i,i) pair afterward.
func transitiveClosure(base *bitset.BitSet, n int, reflexive bool) *bitset.BitSet {
	reach := make([][]bool, n)
	for i := range reach {
		reach[i] = make([]bool, n)
		for j := 0; j < n; j++ {
			reach[i][j] = base.Test(i*n + j)
		}
	}
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if !reach[i][k] {
				continue
			}
			for j := 0; j < n; j++ {
				if reach[k][j] {
					reach[i][j] = true
				}
			}
		}
	}
	out := bitset.New(n * n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if reach[i][j] || (reflexive && i == j) {
				out.Set(i*n + j)
			}
		}
	}
	return out
}

// EvaluateBoolean returns the truth value b denotes.
func EvaluateBoolean(ctx *Context, cache *Cache, b *Boolean) bool {
	if b == nil {
		return false
	}
	if cached, ok := cache.booleans[b.Index]; ok {
		return cached
	}
	var result bool
	switch b.Kind {
	case BooleanAtomicState:
		// 0-arity predicate: holds iff its sole ground atom is asserted.
		if atom, ok := ctx.Atoms.Lookup(b.Predicate, nil); ok {
			result = ctx.StateAtoms.Test(int(atom.Index))
		}
	case BooleanNonemptyConcept:
		result = EvaluateConcept(ctx, cache, b.ConceptArg).Count() > 0
	case BooleanNonemptyRole:
		result = EvaluateRole(ctx, cache, b.RoleArg).Count() > 0
	}
	cache.booleans[b.Index] = result
	return result
}

// EvaluateNumerical returns the non-negative integer num denotes.
func EvaluateNumerical(ctx *Context, cache *Cache, num *Numerical) int {
	if num == nil {
		return 0
	}
	if cached, ok := cache.numericals[num.Index]; ok {
		return cached
	}
	var result int
	switch num.Kind {
	case NumericalCountConcept:
		result = EvaluateConcept(ctx, cache, num.ConceptArg).Count()
	case NumericalCountRole:
		result = EvaluateRole(ctx, cache, num.RoleArg).Count()
	case NumericalDistance:
		result = evalDistance(ctx, cache, num)
	}
	cache.numericals[num.Index] = result
	return result
}

// evalDistance computes, for every object in ConceptArg's denotation,
// the shortest number of RoleArg-edges to reach any object in
// Concept2's denotation (breadth-first), and returns the minimum over
// all source objects — an unreachable pair contributes no candidate,
// and an empty source or target set yields 0 (spec.md §4.7's
// Distance(C, R, C') convention for the degenerate case).
func evalDistance(ctx *Context, cache *Cache, num *Numerical) int {
	n := ctx.numObjects()
	sources := EvaluateConcept(ctx, cache, num.ConceptArg)
	targets := EvaluateConcept(ctx, cache, num.Concept2)
	role := EvaluateRole(ctx, cache, num.RoleArg)

	best := -1
	for s := 0; s < n; s++ {
		if !sources.Test(s) {
			continue
		}
		dist := bfsDistances(role, n, s)
		for t := 0; t < n; t++ {
			if targets.Test(t) && dist[t] >= 0 {
				if best < 0 || dist[t] < best {
					best = dist[t]
				}
			}
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

func bfsDistances(role *bitset.BitSet, n, source int) []int {
	dist := make([]int, n)
	for i := range dist {
		dist[i] = -1
	}
	dist[source] = 0
	queue := []int{source}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for j := 0; j < n; j++ {
			if role.Test(cur*n+j) && dist[j] < 0 {
				dist[j] = dist[cur] + 1
				queue = append(queue, j)
			}
		}
	}
	return dist
}
