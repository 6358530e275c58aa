package formalism

// PredicateTag classifies a Predicate by how its extension is
// maintained: Static predicates never change across a problem's
// states, Fluent predicates are toggled by action effects, and
// Derived predicates are computed by axioms as the least fixpoint
// over the Fluent atoms (spec.md §3).
type PredicateTag int

const (
	Static PredicateTag = iota
	Fluent
	Derived
)

func (t PredicateTag) String() string {
	switch t {
	case Static:
		return "static"
	case Fluent:
		return "fluent"
	case Derived:
		return "derived"
	default:
		return "unknown"
	}
}

// Predicate is an interned predicate symbol: a name, a tag, and an
// arity (the parameter list's length — parameter names themselves are
// not semantically meaningful once a Literal/GroundAtom is built, so
// only the count is kept here).
//
// Created at parse time and immutable afterward; indices are
// contiguous per tag within a Repository so callers can size
// per-predicate arrays (AssignmentSet, denotation caches) directly
// from repository length.
type Predicate struct {
	Index Index
	Name  string
	Arity int
	Tag   PredicateTag
}

// Predicates interns Predicate values keyed by (tag, name).
type Predicates struct {
	repo *Repository[predicateKey, Predicate]
}

type predicateKey struct {
	tag  PredicateTag
	name string
}

// NewPredicates returns an empty Predicate repository.
func NewPredicates() *Predicates {
	return &Predicates{repo: NewRepository[predicateKey, Predicate]()}
}

// GetOrCreate interns a predicate with the given name, arity, and tag.
func (p *Predicates) GetOrCreate(name string, arity int, tag PredicateTag) *Predicate {
	key := predicateKey{tag: tag, name: name}
	idx := p.repo.GetOrCreate(key, func(idx Index) Predicate {
		return Predicate{Index: idx, Name: name, Arity: arity, Tag: tag}
	})
	pred := p.repo.Get(idx)
	return &pred
}

// Lookup finds a previously interned predicate by (tag, name).
func (p *Predicates) Lookup(name string, tag PredicateTag) (*Predicate, bool) {
	idx, ok := p.repo.Lookup(predicateKey{tag: tag, name: name})
	if !ok {
		return nil, false
	}
	pred := p.repo.Get(idx)
	return &pred, true
}

// Get returns the interned predicate at idx.
func (p *Predicates) Get(idx Index) Predicate { return p.repo.Get(idx) }

// ByTag returns every interned predicate with the given tag, in
// insertion order.
func (p *Predicates) ByTag(tag PredicateTag) []Predicate {
	var out []Predicate
	for _, pred := range p.repo.All() {
		if pred.Tag == tag {
			out = append(out, pred)
		}
	}
	return out
}

// Len returns the total number of interned predicates across all tags.
func (p *Predicates) Len() int { return p.repo.Len() }

// All returns every interned predicate in insertion order.
func (p *Predicates) All() []Predicate { return p.repo.All() }
