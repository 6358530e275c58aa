package dl

import (
	"github.com/gitrdm/mimir-go/pkg/bitset"
	"github.com/gitrdm/mimir-go/pkg/formalism"
)

// Context bundles everything evaluation needs to resolve an
// AtomicState/AtomicGoal constructor against a concrete instance
// (spec.md §4.7): the object universe, the ground-atom table shared
// with grounding/state, the current State's holding atoms, and the
// (possibly different) Problem's goal literals.
//
// A Role denotes a set of ordered pairs; PairRank packs (i, j) into a
// single dense int the same way pkg/assignment packs (parameter,
// object) pairs, so Role denotations can reuse bitset.BitSet.
type Context struct {
	Objects []formalism.Index
	Atoms   *formalism.GroundAtoms

	StateAtoms *bitset.BitSet

	GoalPositive *bitset.BitSet // ground atom indices asserted (possibly negated) by the goal
	GoalNegative *bitset.BitSet
}

// objectPosition maps an Objects index to its 0-based position in
// Context.Objects; Role denotations are expressed over these positions,
// not over the raw (possibly sparse) formalism.Index values.
func (c *Context) objectPosition(obj formalism.Index) int {
	for pos, o := range c.Objects {
		if o == obj {
			return pos
		}
	}
	return -1
}

// PairRank packs a pair of object positions into a single dense
// non-negative int for Role denotations.
func (c *Context) PairRank(i, j int) int { return i*len(c.Objects) + j }

func (c *Context) numObjects() int { return len(c.Objects) }
