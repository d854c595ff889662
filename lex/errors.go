package lex

import (
	"errors"
	"fmt"
)

// Sentinel kinds usable with errors.Is against the error types in this
// package, mirroring grammar's ErrKind* / the teacher's serr package.
var (
	ErrKindNoMatch      = errors.New("no token pattern matches at the current position")
	ErrKindUnknownState = errors.New("lexer state was never declared")
)

// TokenizationError reports that no token pattern active in the current
// start-condition matched at the current input position (§4.9 step 3).
type TokenizationError struct {
	Stream string
	Offset int
	Line   int
	Col    int
	State  string
}

func (e *TokenizationError) Error() string {
	where := e.Stream
	if where == "" {
		where = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: no token matches in state %q (byte offset %d)", where, e.Line, e.Col, e.State, e.Offset)
}

// Unwrap lets errors.Is(err, ErrKindNoMatch) succeed without a type assertion.
func (e *TokenizationError) Unwrap() error {
	return ErrKindNoMatch
}

// UnknownStateError is returned by SetState when no token was active in the
// named start-condition as of the last Prepare. A token's EnterState is not
// checked against the declared start-conditions.
type UnknownStateError struct {
	State string
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("unknown lexer state %q", e.State)
}

// Unwrap lets errors.Is(err, ErrKindUnknownState) succeed without a type
// assertion.
func (e *UnknownStateError) Unwrap() error {
	return ErrKindUnknownState
}
