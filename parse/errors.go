package parse

import (
	"errors"
	"fmt"

	"github.com/dekarrin/lrgen/internal/util"
	"github.com/dekarrin/lrgen/symbol"
)

// Sentinel kinds usable with errors.Is against the error types in this
// package, mirroring grammar's ErrKind* / the teacher's serr package.
var (
	ErrKindSyntax = errors.New("no ACTION entry for the current state and lookahead")
	ErrKindGoto   = errors.New("no GOTO entry for the reduced rule's left-hand side")
)

// SyntaxError is returned by Parser.Parse when the table has no ACTION entry
// for the current state and lookahead symbol (§4.10, §7).
type SyntaxError struct {
	State    int
	Got      symbol.Symbol
	Text     string
	Stream   string
	Line     int
	Col      int
	Expected []symbol.Symbol
}

func (e *SyntaxError) Error() string {
	where := e.Stream
	if where == "" {
		where = "<input>"
	}

	names := make([]string, 0, len(e.Expected))
	for _, s := range e.Expected {
		names = append(names, s.Name)
	}

	got := e.Got.Name
	if e.Text != "" {
		got = fmt.Sprintf("%q", e.Text)
	}

	if len(names) == 0 {
		return fmt.Sprintf("%s:%d:%d: unexpected %s", where, e.Line, e.Col, got)
	}
	return fmt.Sprintf("%s:%d:%d: unexpected %s; expected %s", where, e.Line, e.Col, got, util.MakeTextList(names))
}

// Unwrap lets errors.Is(err, ErrKindSyntax) succeed without a type assertion.
func (e *SyntaxError) Unwrap() error {
	return ErrKindSyntax
}

// GotoError is an internal-consistency failure: a Reduce fired with no GOTO
// entry for the reduced rule's left-hand side. A correctly-built Table never
// produces this; seeing it means the Table and the Parser disagree about the
// automaton that produced them.
type GotoError struct {
	State int
	LHS   symbol.Symbol
}

func (e *GotoError) Error() string {
	return fmt.Sprintf("no GOTO entry for state %d on %q; table and automaton are out of sync", e.State, e.LHS.Name)
}

// Unwrap lets errors.Is(err, ErrKindGoto) succeed without a type assertion.
func (e *GotoError) Unwrap() error {
	return ErrKindGoto
}
