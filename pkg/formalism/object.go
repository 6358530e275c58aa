package formalism

// Type is an interned PDDL type symbol forming a node in a
// single-inheritance type hierarchy (each type has at most one parent,
// as in PDDL's :typing requirement).
type Type struct {
	Index  Index
	Name   string
	Parent Index // IndexNone if this type has no parent (is a root, e.g. "object")
}

// IndexNone is the sentinel Index used for "no parent" / "no value"
// fields across formalism. Index 0 is a legitimate entry in every
// Repository, so the sentinel must live outside the valid range.
const IndexNone Index = -1

// TypeHierarchy interns Types and answers is_subtypeeq queries.
//
// Grounded on the teacher's Var/Atom identity pattern (pkg/minikanren
// core.go) for the interning half; the subtype walk itself has no
// teacher analogue and is written directly from spec.md §3's
// requirement that is_subtypeeq be reflexive, antisymmetric and
// transitive over single-inheritance parent pointers.
type TypeHierarchy struct {
	repo *Repository[string, Type]
}

// NewTypeHierarchy returns an empty hierarchy.
func NewTypeHierarchy() *TypeHierarchy {
	return &TypeHierarchy{repo: NewRepository[string, Type]()}
}

// GetOrCreate interns a type by name. parent is the name of its direct
// supertype, or "" for a root type. parent must already be interned
// (a parser processes :types top-down).
func (h *TypeHierarchy) GetOrCreate(name string, parent string) *Type {
	parentIdx := IndexNone
	if parent != "" {
		if idx, ok := h.repo.Lookup(parent); ok {
			parentIdx = idx
		}
	}
	idx := h.repo.GetOrCreate(name, func(idx Index) Type {
		return Type{Index: idx, Name: name, Parent: parentIdx}
	})
	t := h.repo.Get(idx)
	return &t
}

// Lookup finds a previously interned type by name.
func (h *TypeHierarchy) Lookup(name string) (*Type, bool) {
	idx, ok := h.repo.Lookup(name)
	if !ok {
		return nil, false
	}
	t := h.repo.Get(idx)
	return &t, true
}

// IsSubtypeEq reports whether sub is the same type as super or a
// (possibly indirect) subtype of it — reflexive, antisymmetric, and
// transitive by construction since each type has at most one parent.
func (h *TypeHierarchy) IsSubtypeEq(sub, super Index) bool {
	for cur := sub; cur != IndexNone; {
		if cur == super {
			return true
		}
		t := h.repo.Get(cur)
		cur = t.Parent
	}
	return false
}

// Object is an interned PDDL object (or action parameter/quantified
// variable, which reuse the same Index space as "free variables" —
// spec.md §3 treats parameters and objects uniformly once grounded).
type Object struct {
	Index Index
	Name  string
	Type  Index // the object's most specific declared type
}

// Objects interns Object values by name.
type Objects struct {
	repo *Repository[string, Object]
}

// NewObjects returns an empty Object repository.
func NewObjects() *Objects {
	return &Objects{repo: NewRepository[string, Object]()}
}

// GetOrCreate interns an object with the given declared type.
func (o *Objects) GetOrCreate(name string, typ Index) *Object {
	idx := o.repo.GetOrCreate(name, func(idx Index) Object {
		return Object{Index: idx, Name: name, Type: typ}
	})
	obj := o.repo.Get(idx)
	return &obj
}

// Lookup finds a previously interned object by name.
func (o *Objects) Lookup(name string) (*Object, bool) {
	idx, ok := o.repo.Lookup(name)
	if !ok {
		return nil, false
	}
	obj := o.repo.Get(idx)
	return &obj, true
}

// Len returns the number of interned objects.
func (o *Objects) Len() int { return o.repo.Len() }

// All returns every interned object in insertion order.
func (o *Objects) All() []Object { return o.repo.All() }
