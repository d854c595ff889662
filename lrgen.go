// Package lrgen is an LALR(1) parser generator with an integrated stateful
// tokenizer: declare a grammar and a set of lexical rules, Prepare them into
// an ACTION/GOTO table, and drive a Parser over arbitrary input.
//
// Package grammar, automaton, relation, and table implement the table
// construction (§4.1-§4.8 of the design); package lex implements the
// tokenizer (§4.9); package parse implements the driver (§4.10); package
// gbuild is the fluent declaration DSL most callers will actually use.
// This file is the facade that wires all of them together, mirroring the
// teacher's own Frontend[E] pattern.
package lrgen

import (
	"io"
	"log/slog"
	"strings"

	"github.com/dekarrin/lrgen/automaton"
	"github.com/dekarrin/lrgen/gbuild"
	"github.com/dekarrin/lrgen/grammar"
	"github.com/dekarrin/lrgen/lex"
	"github.com/dekarrin/lrgen/parse"
	"github.com/dekarrin/lrgen/symbol"
	"github.com/dekarrin/lrgen/table"
)

// NewGrammar returns an empty Grammar with the reserved @end terminal
// installed.
func NewGrammar[V any]() *grammar.Grammar[V] {
	return grammar.New[V]()
}

// NewTokenizer returns a Tokenizer that yields g's @end symbol once every
// input stream is exhausted.
func NewTokenizer[V any](g *grammar.Grammar[V]) *lex.Tokenizer[V] {
	return lex.New[V](g)
}

// Prepare validates g, builds its LALR(0) automaton, and computes the
// ACTION/GOTO table, returning the conflict Report alongside it (non-nil
// whenever table construction ran, even with no conflicts; nil when
// validation or automaton construction fails). Equivalent to calling automaton.Build and table.Build in
// sequence, which is what most callers want once their grammar and tokenizer
// are fully declared.
func Prepare[V any](g *grammar.Grammar[V], opts table.Options) (*automaton.Automaton[V], *table.Table[V], *table.Report, error) {
	if err := g.Validate(); err != nil {
		return nil, nil, nil, err
	}
	a, err := automaton.Build(g)
	if err != nil {
		return nil, nil, nil, err
	}
	t, report, err := table.Build(g, a, opts)
	if err != nil {
		return a, t, report, err
	}
	return a, t, report, nil
}

// Generator bundles a Grammar, Tokenizer, and ParsingTable into a single
// reusable front-end, once Build has been called. It is the Parse/
// ParseString convenience entry point most host applications want instead
// of wiring package automaton/table/parse by hand.
type Generator[V any] struct {
	g   *grammar.Grammar[V]
	tz  *lex.Tokenizer[V]
	a   *automaton.Automaton[V]
	t   *table.Table[V]
	r   *table.Report
	log *slog.Logger
}

// SetLogger installs a structured logger for build-time diagnostics (state
// count, conflict count) and propagates it to every Parser returned by
// Parse/ParseString. Passing nil (the default) keeps the generator silent —
// this is the one ambient concern this module keeps on the standard library
// rather than a third-party logging package; see DESIGN.md.
func (gen *Generator[V]) SetLogger(l *slog.Logger) {
	gen.log = l
}

// NewGenerator returns a Generator wrapping an already-declared grammar and
// tokenizer. Call Build before Parse/ParseString.
func NewGenerator[V any](g *grammar.Grammar[V], tz *lex.Tokenizer[V]) *Generator[V] {
	return &Generator[V]{g: g, tz: tz}
}

// Rule starts a gbuild.RuleBuilder bound to this generator's grammar.
func (gen *Generator[V]) Rule(lhsName string) *gbuild.RuleBuilder[V] {
	return gbuild.NewRule(gen.g, lhsName)
}

// Token starts a gbuild.TokenBuilder bound to this generator's grammar and
// tokenizer.
func (gen *Generator[V]) Token(pattern string) *gbuild.TokenBuilder[V] {
	return gbuild.NewToken(gen.g, gen.tz, pattern)
}

// SetStartSymbol installs the augmented start rule for the named nonterminal.
func (gen *Generator[V]) SetStartSymbol(name string) error {
	sym, ok := gen.g.Symbol(name)
	if !ok {
		return &grammar.GrammarError{Reason: "no such nonterminal: " + name, Kind: grammar.ErrKindInvalidGrammar}
	}
	return gen.g.SetStartSymbol(sym)
}

// Build validates the grammar, builds the automaton and ACTION/GOTO table,
// and prepares the tokenizer's compiled patterns. The returned Report is
// non-nil on a successful build even when there were no conflicts.
func (gen *Generator[V]) Build(opts table.Options) (*table.Report, error) {
	a, t, report, err := Prepare(gen.g, opts)
	if err != nil {
		if gen.log != nil {
			gen.log.Error("build failed", "error", err)
		}
		return report, err
	}
	if err := gen.tz.Prepare(); err != nil {
		if gen.log != nil {
			gen.log.Error("tokenizer prepare failed", "error", err)
		}
		return report, err
	}
	gen.a, gen.t, gen.r = a, t, report
	if gen.log != nil {
		gen.log.Info("build complete",
			"states", len(a.States()),
			"shiftReduceConflicts", len(report.ShiftReduce),
			"reduceReduceConflicts", len(report.ReduceReduce),
		)
	}
	return report, nil
}

// Report returns the conflict report from the most recent successful Build,
// or nil if Build has not yet succeeded.
func (gen *Generator[V]) Report() *table.Report {
	return gen.r
}

// ExpectedSymbols exposes the table's expected-symbol oracle for the current
// initial state, useful for a REPL's inline hinting before any input is
// typed.
func (gen *Generator[V]) ExpectedSymbols() []symbol.Symbol {
	if gen.a == nil || gen.t == nil {
		return nil
	}
	return gen.t.ExpectedSymbols(gen.a.Initial().Index)
}

// ParseString is Parse over a string reader.
func (gen *Generator[V]) ParseString(name, input string) (V, error) {
	return gen.Parse(name, strings.NewReader(input))
}

// Parse pushes r as the tokenizer's sole input stream and drives a fresh
// Parser to completion, returning the value reduced for the declared start
// symbol. Build must have succeeded first.
func (gen *Generator[V]) Parse(name string, r io.Reader) (V, error) {
	var zero V
	if gen.t == nil {
		return zero, &grammar.GrammarError{Reason: "Generator.Build has not been called", Kind: grammar.ErrKindInvalidGrammar}
	}
	gen.tz.Reset()
	if err := gen.tz.PushStream(name, r); err != nil {
		return zero, err
	}
	p := parse.New(gen.g, gen.a, gen.t, gen.tz)
	if gen.log != nil {
		p.SetLogger(gen.log)
	}
	return p.Parse()
}
