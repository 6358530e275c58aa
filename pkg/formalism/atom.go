package formalism

import (
	"strconv"
	"strings"
)

// Term is either a constant (an interned Object) or a variable (a
// 0-based slot in the enclosing Action's parameter list). Lifted
// Literals and ConjunctiveConditions are built from Terms; grounding
// substitutes each variable Term for the Object bound to its slot.
type Term struct {
	IsVariable bool
	Index      Index // Objects index if IsVariable is false, parameter slot otherwise
}

// ConstantTerm returns a Term referring to an interned Object.
func ConstantTerm(obj Index) Term { return Term{IsVariable: false, Index: obj} }

// VariableTerm returns a Term referring to the slot-th action parameter.
func VariableTerm(slot int) Term { return Term{IsVariable: true, Index: Index(slot)} }

// GroundAtom is an interned, fully instantiated application of a
// Predicate to Objects. Every Fluent/Derived GroundAtom's Index is the
// bit position it occupies in a State's bitset and in the RPG's
// Proposition table, so interning order must be stable for a given
// (predicate, problem) pair — callers ground predicates in a fixed
// order and never re-intern across problems.
type GroundAtom struct {
	Index     Index
	Predicate Index
	Args      []Index // Objects indices, one per predicate parameter
}

// GroundAtoms interns GroundAtom values by (predicate, args) identity.
//
// Grounded on the same Repository pattern as Predicates/Objects; the
// key is flattened to a string because Go map keys must be comparable
// and Args is a slice. Predicate arities are small (rarely above 4),
// so the string-building cost is negligible next to grounding's own
// combinatorics.
type GroundAtoms struct {
	repo *Repository[string, GroundAtom]
}

// NewGroundAtoms returns an empty GroundAtom repository.
func NewGroundAtoms() *GroundAtoms {
	return &GroundAtoms{repo: NewRepository[string, GroundAtom]()}
}

func groundAtomKey(predicate Index, args []Index) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(int(predicate)))
	for _, a := range args {
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(int(a)))
	}
	return b.String()
}

// GetOrCreate interns a ground atom. args is owned by the repository
// after this call; callers must not mutate it afterward.
func (g *GroundAtoms) GetOrCreate(predicate Index, args []Index) *GroundAtom {
	key := groundAtomKey(predicate, args)
	idx := g.repo.GetOrCreate(key, func(idx Index) GroundAtom {
		return GroundAtom{Index: idx, Predicate: predicate, Args: args}
	})
	atom := g.repo.Get(idx)
	return &atom
}

// Lookup finds a previously interned ground atom without creating one.
func (g *GroundAtoms) Lookup(predicate Index, args []Index) (*GroundAtom, bool) {
	idx, ok := g.repo.Lookup(groundAtomKey(predicate, args))
	if !ok {
		return nil, false
	}
	atom := g.repo.Get(idx)
	return &atom, true
}

// Len returns the number of interned ground atoms.
func (g *GroundAtoms) Len() int { return g.repo.Len() }

// All returns every interned ground atom in insertion order — the
// same order GroundAtom.Index assigns bit positions in, so this slice
// doubles as the State/RPG's Index-to-atom lookup table.
func (g *GroundAtoms) All() []GroundAtom { return g.repo.All() }

// Literal is a (possibly negated) application of a Predicate to Terms,
// appearing lifted inside an Action/Axiom body or ground inside a
// compiled GroundAction/GroundAxiom.
type Literal struct {
	Negated   bool
	Predicate Index
	Terms     []Term
}

// GroundLiteral is a Literal whose Terms have all been substituted for
// Objects and folded into a single interned GroundAtom.
type GroundLiteral struct {
	Negated bool
	Atom    Index // GroundAtoms index
}
