package formalism

// Parameter is one slot in an Action's or Axiom's parameter list: a
// name (retained for diagnostics/printing) and the Type its bound
// Object must be a subtype-eq of.
type Parameter struct {
	Name string
	Type Index
}

// Action is a lifted PDDL action schema: a parameter list, a
// precondition, an unconditional effect, and any number of
// conditional effects (each with its own disjoint extra parameters).
//
// Grounded on spec.md §3's Action row; structurally this is the
// lifted analogue of GroundAction.
type Action struct {
	Index             Index
	Name              string
	Parameters        []Parameter
	Precondition      ConjunctiveCondition
	Effect            ConjunctiveEffect
	ConditionalEffects []ConditionalEffect
	Cost              *FunctionExpression // nil means unit cost (1)
}

// Actions interns Action values by name (PDDL action names are unique
// within a domain).
type Actions struct {
	repo *Repository[string, Action]
}

// NewActions returns an empty Action repository.
func NewActions() *Actions {
	return &Actions{repo: NewRepository[string, Action]()}
}

// GetOrCreate interns an action. build is invoked only on first
// insertion, receiving the Index the action will occupy so it can
// populate the Action's own Index field.
func (a *Actions) GetOrCreate(name string, build func(idx Index) Action) *Action {
	idx := a.repo.GetOrCreate(name, build)
	act := a.repo.Get(idx)
	return &act
}

// Lookup finds a previously interned action by name.
func (a *Actions) Lookup(name string) (*Action, bool) {
	idx, ok := a.repo.Lookup(name)
	if !ok {
		return nil, false
	}
	act := a.repo.Get(idx)
	return &act, true
}

// Len returns the number of interned actions.
func (a *Actions) Len() int { return a.repo.Len() }

// All returns every interned action in insertion order.
func (a *Actions) All() []Action { return a.repo.All() }
