// Package gbuild provides the fluent RuleBuilder/TokenBuilder DSL described
// in §4.13: a thin layer over grammar.Grammar and lex.Tokenizer that performs
// the mid-rule-action desugaring of §4.7 (a synthetic "_{lhs}#{n}.{i}"
// epsilon nonterminal per mid-rule splice) so callers never touch
// AddMidruleRule directly.
package gbuild

import (
	"fmt"

	"github.com/dekarrin/lrgen/grammar"
	"github.com/dekarrin/lrgen/symbol"
)

type segment[V any] struct {
	symbols []symbol.Symbol
	action  grammar.Action[V]
}

type production[V any] struct {
	segments []segment[V]
	hasPrec  bool
	prec     symbol.Precedence
}

// RuleBuilder accumulates productions for a single left-hand side nonterminal
// and installs them into a Grammar on Done.
type RuleBuilder[V any] struct {
	g       *grammar.Grammar[V]
	lhsName string
	lhs     symbol.Symbol
	lhsErr  error
	prods   []*production[V]
}

// NewRule starts a builder for productions of lhsName, declaring lhsName as
// a Nonterminal immediately (AddSymbol is idempotent on name, so this is
// harmless if the caller already declared it elsewhere). Declaring it
// eagerly, rather than deferring to Done as pog's RuleBuilder does, is what
// lets Symbol be used to reference lhsName from within its own productions
// for left recursion — Go's lack of a lazy by-name symbol table makes that
// the simpler trade.
func NewRule[V any](g *grammar.Grammar[V], lhsName string) *RuleBuilder[V] {
	rb := &RuleBuilder[V]{g: g, lhsName: lhsName}
	rb.lhs, rb.lhsErr = g.AddSymbol(symbol.Nonterminal, lhsName)
	return rb
}

// Symbol returns the left-hand side Nonterminal this builder declares, for
// use in a Production referencing it recursively (e.g. "expr -> expr + expr").
func (rb *RuleBuilder[V]) Symbol() symbol.Symbol {
	return rb.lhs
}

// Production declares one right-hand side. items is a sequence of
// symbol.Symbol and grammar.Action[V] values: an Action appearing before the
// end of the sequence becomes a mid-rule action, spliced in via a synthetic
// epsilon nonterminal; an Action appearing last becomes the production's main
// reduction action. Precedence may be attached with the returned builder's
// Precedence method, which applies to the most recently added production.
func (rb *RuleBuilder[V]) Production(items ...any) *RuleBuilder[V] {
	p := &production[V]{segments: []segment[V]{{}}}
	cur := &p.segments[0]

	for _, item := range items {
		switch v := item.(type) {
		case symbol.Symbol:
			cur.symbols = append(cur.symbols, v)
		case grammar.Action[V]:
			cur.action = v
			p.segments = append(p.segments, segment[V]{})
			cur = &p.segments[len(p.segments)-1]
		case func([]V) V:
			cur.action = grammar.Action[V](v)
			p.segments = append(p.segments, segment[V]{})
			cur = &p.segments[len(p.segments)-1]
		default:
			panic(fmt.Sprintf("gbuild: production item of unsupported type %T", item))
		}
	}

	// trim the trailing empty segment pushed after a trailing action; it
	// only needs to exist to receive symbols that come after a mid-rule
	// action.
	if n := len(p.segments); n > 1 {
		last := p.segments[n-1]
		if len(last.symbols) == 0 && last.action == nil {
			p.segments = p.segments[:n-1]
		}
	}

	rb.prods = append(rb.prods, p)
	return rb
}

// Precedence attaches an explicit precedence override to the most recently
// added Production, overriding the default rightmost-terminal precedence
// used by the parsing table's conflict resolution (§4.8).
func (rb *RuleBuilder[V]) Precedence(level int, assoc symbol.Associativity) *RuleBuilder[V] {
	if len(rb.prods) == 0 {
		return rb
	}
	last := rb.prods[len(rb.prods)-1]
	last.hasPrec = true
	last.prec = symbol.Precedence{Level: level, Assoc: assoc, Defined: true}
	return rb
}

// Done installs every accumulated Production into the grammar.
func (rb *RuleBuilder[V]) Done() error {
	if rb.lhsErr != nil {
		return rb.lhsErr
	}
	if len(rb.prods) == 0 {
		return nil
	}
	lhs := rb.lhs

	for counter, p := range rb.prods {
		var rhs []symbol.Symbol
		for i, seg := range p.segments {
			rhs = append(rhs, seg.symbols...)

			if i < len(p.segments)-1 {
				midName := fmt.Sprintf("_%s#%d.%d", rb.lhsName, counter, i)
				midSym, err := rb.g.AddSymbol(symbol.Nonterminal, midName)
				if err != nil {
					return err
				}
				if _, err := rb.g.AddMidruleRule(midSym, len(rhs), seg.action); err != nil {
					return err
				}
				rhs = append(rhs, midSym)
				continue
			}

			rule, err := rb.g.AddRule(lhs, rhs, seg.action)
			if err != nil {
				return err
			}
			if p.hasPrec {
				rb.g.SetRulePrecedence(rule, p.prec.Level, p.prec.Assoc)
			}
		}
	}
	return nil
}
