// Package errs defines the typed error kinds mimir-go returns across
// package boundaries (spec.md §7). Conditions spec.md treats as plain
// outcomes rather than failures — an unreachable goal's +Inf heuristic
// value, a search budget's Status enum — are deliberately not modeled
// as errors here; only conditions a caller must detect and react to
// get a Kind.
//
// Grounded on the teacher's typed-error convention
// (gitrdm/gokanlogic pkg/minikanren/api_stability.go's DeprecatedError):
// a single concrete *Error type carrying a Kind per failure mode,
// satisfying the error interface directly, so callers can errors.As to
// *Error and branch on its Kind instead of string-matching a message.
package errs

import "fmt"

// Kind names one of spec.md §7's typed failure modes.
type Kind int

const (
	KindParseError Kind = iota
	KindNonStratifiableAxioms
	KindGrammarIllFormed
	KindMatchTreeNodeCapExceeded
)

func (k Kind) String() string {
	switch k {
	case KindParseError:
		return "parse_error"
	case KindNonStratifiableAxioms:
		return "non_stratifiable_axioms"
	case KindGrammarIllFormed:
		return "grammar_ill_formed"
	case KindMatchTreeNodeCapExceeded:
		return "match_tree_node_cap_exceeded"
	default:
		return "unknown"
	}
}

// Error is a typed mimir-go error: a Kind, a human-readable message,
// and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("mimir: %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("mimir: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// ParseError reports a failure while reading a domain/problem
// definition into formalism values.
func ParseError(message string, cause error) *Error {
	return &Error{Kind: KindParseError, Message: message, Cause: cause}
}

// NonStratifiableAxioms reports that an axiom set's dependency
// relation has a predicate strictly lower than itself (spec.md §4.5).
func NonStratifiableAxioms(message string) *Error {
	return &Error{Kind: KindNonStratifiableAxioms, Message: message}
}

// GrammarIllFormed reports that a CNF feature grammar fails one of
// spec.md §4.7's well-formedness conditions.
func GrammarIllFormed(message string) *Error {
	return &Error{Kind: KindGrammarIllFormed, Message: message}
}

// MatchTreeNodeCapExceeded reports that a match tree build hit its
// configured max_num_nodes before every split became useless.
func MatchTreeNodeCapExceeded(message string) *Error {
	return &Error{Kind: KindMatchTreeNodeCapExceeded, Message: message}
}
