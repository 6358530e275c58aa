package formalism

// FunctionSkeleton is an interned PDDL function symbol (:functions
// declaration), e.g. (distance ?a ?b) or the reserved 0-ary
// total-cost. Grounded the same way as Predicate, generalized from
// original_source/include/mimir/formalism/function_expressions.hpp's
// FunctionSkeleton node, which the distilled spec.md collapses into
// its numeric-fluent prose but does not name directly.
type FunctionSkeleton struct {
	Index Index
	Name  string
	Arity int
}

// FunctionSkeletons interns FunctionSkeleton values by name.
type FunctionSkeletons struct {
	repo *Repository[string, FunctionSkeleton]
}

// NewFunctionSkeletons returns an empty repository.
func NewFunctionSkeletons() *FunctionSkeletons {
	return &FunctionSkeletons{repo: NewRepository[string, FunctionSkeleton]()}
}

// GetOrCreate interns a function skeleton.
func (f *FunctionSkeletons) GetOrCreate(name string, arity int) *FunctionSkeleton {
	idx := f.repo.GetOrCreate(name, func(idx Index) FunctionSkeleton {
		return FunctionSkeleton{Index: idx, Name: name, Arity: arity}
	})
	fs := f.repo.Get(idx)
	return &fs
}

// Lookup finds a previously interned function skeleton by name.
func (f *FunctionSkeletons) Lookup(name string) (*FunctionSkeleton, bool) {
	idx, ok := f.repo.Lookup(name)
	if !ok {
		return nil, false
	}
	fs := f.repo.Get(idx)
	return &fs, true
}

// FunctionExpressionKind discriminates a FunctionExpression's variant.
// mimir-go uses a flat tagged union rather than an interface/visitor
// hierarchy (spec.md §9's redesign note on replacing open visitor
// dispatch with exhaustive enum switches), since the set of variants
// is fixed by the PDDL numeric-fluent grammar and will never grow
// without a corresponding spec change.
type FunctionExpressionKind int

const (
	FuncNumber FunctionExpressionKind = iota
	FuncRef
	FuncBinaryOp
)

// BinaryOp is the arithmetic operator of a FuncBinaryOp expression.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "?"
	}
}

// FunctionExpression is a node in a numeric expression tree: a
// constant Number, a reference to a ground function application
// (FuncRef), or a binary arithmetic combination of two sub-expressions
// (FuncBinaryOp). Zero-value fields not used by Kind are ignored.
type FunctionExpression struct {
	Kind Index // FunctionExpressionKind, stored as Index to keep the struct flat
	// FuncNumber
	Value float64
	// FuncRef
	Function Index   // FunctionSkeletons index
	Args     []Index // Objects (ground) or parameter slots (lifted), per Term convention
	// FuncBinaryOp
	Op          BinaryOp
	Left, Right *FunctionExpression
}

// Number builds a constant FunctionExpression leaf.
func Number(v float64) *FunctionExpression {
	return &FunctionExpression{Kind: Index(FuncNumber), Value: v}
}

// FuncApplication builds a FunctionExpression referencing a function
// skeleton applied to args (ground Object indices or lifted parameter
// slots, per the Term convention used elsewhere in this package).
func FuncApplication(function Index, args []Index) *FunctionExpression {
	return &FunctionExpression{Kind: Index(FuncRef), Function: function, Args: args}
}

// BinaryExpr builds a FunctionExpression combining left and right with op.
func BinaryExpr(op BinaryOp, left, right *FunctionExpression) *FunctionExpression {
	return &FunctionExpression{Kind: Index(FuncBinaryOp), Op: op, Left: left, Right: right}
}

// kindOf returns the expression's discriminant as a typed value.
func (e *FunctionExpression) kindOf() FunctionExpressionKind {
	return FunctionExpressionKind(e.Kind)
}

// Evaluate recursively folds e against a function-value lookup table
// (keyed by FuncApplication's (Function, Args) identity via resolve),
// returning an error-free float64 since numeric grounding is expected
// to have already validated every referenced function is defined.
func (e *FunctionExpression) Evaluate(resolve func(function Index, args []Index) float64) float64 {
	switch e.kindOf() {
	case FuncNumber:
		return e.Value
	case FuncRef:
		return resolve(e.Function, e.Args)
	case FuncBinaryOp:
		l := e.Left.Evaluate(resolve)
		r := e.Right.Evaluate(resolve)
		switch e.Op {
		case OpAdd:
			return l + r
		case OpSub:
			return l - r
		case OpMul:
			return l * r
		case OpDiv:
			return l / r
		}
	}
	return 0
}

// Comparator is the relational operator of a NumericConstraint.
type Comparator int

const (
	CmpLessEqual Comparator = iota
	CmpLess
	CmpEqual
	CmpGreaterEqual
	CmpGreater
)

// NumericConstraint is a numeric precondition: left Comparator right.
type NumericConstraint struct {
	Left  *FunctionExpression
	Cmp   Comparator
	Right *FunctionExpression
}

// Holds evaluates the constraint against a function-value lookup table.
func (c *NumericConstraint) Holds(resolve func(function Index, args []Index) float64) bool {
	l := c.Left.Evaluate(resolve)
	r := c.Right.Evaluate(resolve)
	switch c.Cmp {
	case CmpLessEqual:
		return l <= r
	case CmpLess:
		return l < r
	case CmpEqual:
		return l == r
	case CmpGreaterEqual:
		return l >= r
	case CmpGreater:
		return l > r
	default:
		return false
	}
}

// AssignOp is the assignment operator of a NumericEffect, covering all
// five PDDL numeric-fluent update forms.
type AssignOp int

const (
	AssignSet AssignOp = iota
	AssignIncrease
	AssignDecrease
	AssignScaleUp
	AssignScaleDown
)

// NumericEffect updates the value of a function application by Op
// using Value as its operand (e.g. `(increase (total-cost) 5)`).
type NumericEffect struct {
	Op       AssignOp
	Function Index
	Args     []Index
	Value    *FunctionExpression
}

// Apply folds the effect's Op into current, using resolve to evaluate Value.
func (e *NumericEffect) Apply(current float64, resolve func(function Index, args []Index) float64) float64 {
	v := e.Value.Evaluate(resolve)
	switch e.Op {
	case AssignSet:
		return v
	case AssignIncrease:
		return current + v
	case AssignDecrease:
		return current - v
	case AssignScaleUp:
		return current * v
	case AssignScaleDown:
		return current / v
	default:
		return current
	}
}

// ActionCost is the ground numeric cost attached to a GroundAction,
// resolved from its (total-cost) increase effect at grounding time (or
// defaulted to 1 for unit-cost domains, per spec.md §3).
type ActionCost float64
