// Package parse drives a table.Table and a lex.Tokenizer over a value stack
// to produce a single reduced value, per the shift/reduce algorithm of §4.10.
package parse

import (
	"log/slog"

	"github.com/dekarrin/lrgen/automaton"
	"github.com/dekarrin/lrgen/grammar"
	"github.com/dekarrin/lrgen/lex"
	"github.com/dekarrin/lrgen/table"
)

// Parser drives a single ACTION/GOTO table against token matches pulled from
// a Tokenizer, reducing semantic values via each rule's Action.
type Parser[V any] struct {
	g     *grammar.Grammar[V]
	a     *automaton.Automaton[V]
	t     *table.Table[V]
	tz    *lex.Tokenizer[V]
	trace func(string)
	log   *slog.Logger
}

// New returns a Parser that consumes tokens from tz according to t, an
// ACTION/GOTO table built from g's automaton a.
func New[V any](g *grammar.Grammar[V], a *automaton.Automaton[V], t *table.Table[V], tz *lex.Tokenizer[V]) *Parser[V] {
	return &Parser[V]{g: g, a: a, t: t, tz: tz}
}

// OnTrace installs a listener invoked with a human-readable line for every
// shift, reduce, and accept the driver performs. Passing nil disables
// tracing. Grounded on the teacher's own RegisterTraceListener hook.
func (p *Parser[V]) OnTrace(fn func(string)) {
	p.trace = fn
}

// SetLogger installs a structured logger for parse-time diagnostics (syntax
// errors, the final accept). Passing nil (the default) keeps the parser
// silent — unlike OnTrace, which reports every step, the logger reports only
// the outcome.
func (p *Parser[V]) SetLogger(l *slog.Logger) {
	p.log = l
}

func (p *Parser[V]) notify(msg string) {
	if p.trace != nil {
		p.trace(msg)
	}
}

// Parse runs the shift/reduce loop to completion and returns the value
// reduced for the grammar's declared start symbol.
func (p *Parser[V]) Parse() (V, error) {
	var zero V

	stateStack := []int{p.a.Initial().Index}
	var valueStack []V

	lookahead, err := p.tz.NextToken()
	if err != nil {
		return zero, err
	}

	for {
		top := stateStack[len(stateStack)-1]
		act, ok := p.t.Action(top, lookahead.Symbol)
		if !ok {
			synErr := &SyntaxError{
				State:    top,
				Got:      lookahead.Symbol,
				Text:     lookahead.Text,
				Stream:   lookahead.Stream,
				Line:     lookahead.Line,
				Col:      lookahead.Col,
				Expected: p.t.ExpectedSymbols(top),
			}
			if p.log != nil {
				p.log.Error("syntax error", "state", top, "got", lookahead.Symbol.Name, "stream", lookahead.Stream, "line", lookahead.Line, "col", lookahead.Col)
			}
			return zero, synErr
		}

		switch act.Kind {
		case table.Shift:
			p.notify("shift " + lookahead.Symbol.Name)
			valueStack = append(valueStack, lookahead.Value)
			stateStack = append(stateStack, act.State)

			lookahead, err = p.tz.NextToken()
			if err != nil {
				return zero, err
			}

		case table.Reduce:
			rule := p.g.RuleByIndex(act.Rule)
			p.notify("reduce " + rule.String())

			var args []V
			if rule.Midrule {
				n := rule.MidruleSize
				args = make([]V, n)
				copy(args, valueStack[len(valueStack)-n:])
			} else {
				n := len(rule.RHS)
				args = make([]V, n)
				copy(args, valueStack[len(valueStack)-n:])
				valueStack = valueStack[:len(valueStack)-n]
				stateStack = stateStack[:len(stateStack)-n]
			}

			newTop := stateStack[len(stateStack)-1]
			dest, ok := p.t.GoTo(newTop, rule.LHS)
			if !ok {
				return zero, &GotoError{State: newTop, LHS: rule.LHS}
			}

			valueStack = append(valueStack, rule.Perform(args))
			stateStack = append(stateStack, dest)

		case table.Accept:
			p.notify("accept")
			if p.log != nil {
				p.log.Info("parse accepted", "finalStackDepth", len(stateStack))
			}
			return valueStack[len(valueStack)-1], nil
		}
	}
}
