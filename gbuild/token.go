package gbuild

import (
	"github.com/dekarrin/lrgen/grammar"
	"github.com/dekarrin/lrgen/lex"
	"github.com/dekarrin/lrgen/symbol"
)

// TokenBuilder accumulates the configuration of a single lexical rule and
// installs it into both a Grammar (the terminal Symbol, if named) and a
// Tokenizer (the pattern) on Done.
type TokenBuilder[V any] struct {
	g  *grammar.Grammar[V]
	tz *lex.Tokenizer[V]

	pattern     string
	symbolName  string
	hasPrec     bool
	precLevel   int
	precAssoc   symbol.Associativity
	description string
	action      lex.Action[V]
	fullword    bool
	states      []string
	enterState  string
}

// NewToken starts a builder for a token matching pattern, active by default
// only in lex.InitialState.
func NewToken[V any](g *grammar.Grammar[V], tz *lex.Tokenizer[V], pattern string) *TokenBuilder[V] {
	return &TokenBuilder[V]{g: g, tz: tz, pattern: pattern}
}

// Symbol names the terminal Symbol this token produces. A token with no
// Symbol is silent (§4.9): it is matched and consumed but never yielded.
func (tb *TokenBuilder[V]) Symbol(name string) *TokenBuilder[V] {
	tb.symbolName = name
	return tb
}

// Precedence sets the named terminal's precedence, used by the parsing
// table's conflict resolution (§4.8). Only meaningful alongside Symbol.
func (tb *TokenBuilder[V]) Precedence(level int, assoc symbol.Associativity) *TokenBuilder[V] {
	tb.hasPrec = true
	tb.precLevel = level
	tb.precAssoc = assoc
	return tb
}

// Description sets the token's human-readable description (see
// lex.Token.SetDescription). SyntaxError's expected-symbol listing does not
// use it; that listing shows the raw terminal name.
func (tb *TokenBuilder[V]) Description(text string) *TokenBuilder[V] {
	tb.description = text
	return tb
}

// Action installs the semantic action run on each match.
func (tb *TokenBuilder[V]) Action(fn lex.Action[V]) *TokenBuilder[V] {
	tb.action = fn
	return tb
}

// Fullword applies the fullword pattern sugar of §4.9.
func (tb *TokenBuilder[V]) Fullword() *TokenBuilder[V] {
	tb.fullword = true
	return tb
}

// States restricts the token to the given start-conditions, replacing the
// default of lex.InitialState.
func (tb *TokenBuilder[V]) States(states ...string) *TokenBuilder[V] {
	tb.states = states
	return tb
}

// EnterState sets the start-condition the tokenizer switches to after this
// token matches.
func (tb *TokenBuilder[V]) EnterState(state string) *TokenBuilder[V] {
	tb.enterState = state
	return tb
}

// Done installs the configured token into the Tokenizer (and, if named, the
// terminal Symbol into the Grammar) and returns the resulting *lex.Token[V].
func (tb *TokenBuilder[V]) Done() (*lex.Token[V], error) {
	var sym *symbol.Symbol
	if tb.symbolName != "" {
		s, err := tb.g.AddSymbol(symbol.Terminal, tb.symbolName)
		if err != nil {
			return nil, err
		}
		if tb.hasPrec {
			if err := tb.g.SetPrecedence(s, tb.precLevel, tb.precAssoc); err != nil {
				return nil, err
			}
			s, _ = tb.g.Symbol(tb.symbolName)
		}
		sym = &s
	}

	t := tb.tz.AddToken(tb.pattern, sym, tb.states...)
	if tb.description != "" {
		t.SetDescription(tb.description)
	}
	if tb.action != nil {
		t.SetAction(tb.action)
	}
	if tb.fullword {
		t.Fullword()
	}
	if tb.enterState != "" {
		t.SetEnterState(tb.enterState)
	}
	return t, nil
}
