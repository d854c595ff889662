package grammar

import "errors"

// Sentinel kinds for GrammarError, grounded on the teacher's server/serr
// package: a GrammarError's Unwrap returns its Kind, so callers can compare
// against these with errors.Is without needing to type-assert the concrete
// error or parse its message.
var (
	ErrKindDuplicateSymbol     = errors.New("symbol already declared with a different kind")
	ErrKindReservedName        = errors.New("symbol name is reserved")
	ErrKindAlreadyStarted      = errors.New("start symbol already set")
	ErrKindNotNonterminal      = errors.New("left-hand side is not a nonterminal")
	ErrKindBadPrecedenceTarget = errors.New("precedence can only be set on a terminal")
	ErrKindInvalidGrammar      = errors.New("grammar failed validation")
)

// GrammarError reports a malformed or duplicate grammar declaration,
// detected at build time: redeclaring a symbol under a different kind,
// adding a rule whose LHS isn't a nonterminal, calling SetStartSymbol
// twice, or Validate finding no start symbol or a nonterminal with no
// productions.
type GrammarError struct {
	Reason string
	Kind   error
}

func (e *GrammarError) Error() string {
	return "grammar error: " + e.Reason
}

// Unwrap exposes Kind so errors.Is(err, ErrKindDuplicateSymbol) and similar
// checks work without a type assertion.
func (e *GrammarError) Unwrap() error {
	return e.Kind
}
