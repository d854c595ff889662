package lex

import (
	"fmt"
	"io"
	"regexp"

	"github.com/dekarrin/lrgen/symbol"
)

// InitialState is the start-condition a Tokenizer begins in, and the state a
// Token is active in when AddToken is given no explicit state list.
const InitialState = "INITIAL"

// Match is one lexical token produced by NextToken: the grammar Symbol it
// satisfies, the semantic Value computed by the token's Action, and enough
// position information to build a SyntaxError against it.
type Match[V any] struct {
	Symbol symbol.Symbol
	Value  V
	Text   string
	Stream string
	Offset int
	Line   int
	Col    int
}

// Tokenizer is a stateful, longest-match regex scanner over a stack of input
// streams (§4.9). Tokens are grouped by the start-condition(s) they are
// active in; NextToken tries every token active in the current state against
// the current stream, preferring the longest match and, on ties, the
// earliest-declared token.
type Tokenizer[V any] struct {
	g        grammarEnd
	tokens   []*Token[V]
	byState  map[string][]*Token[V]
	prepared bool

	current string
	streams []*stream

	global func(matched string)
}

// grammarEnd is the minimal surface Tokenizer needs from a grammar.Grammar[V]
// to yield an end-of-input Match; kept narrow so lex does not import package
// grammar (grammar already imports symbol, and parse will wire both
// together).
type grammarEnd interface {
	End() symbol.Symbol
}

// New returns a Tokenizer that yields g.End() once every input stream is
// exhausted.
func New[V any](g grammarEnd) *Tokenizer[V] {
	return &Tokenizer[V]{
		g:       g,
		byState: make(map[string][]*Token[V]),
		current: InitialState,
	}
}

// AddToken declares a token active in the given start-conditions (or only
// InitialState, if states is empty). The returned *Token[V] supports further
// configuration (SetAction, SetEnterState, SetDescription, Fullword) before
// Prepare is called.
func (tz *Tokenizer[V]) AddToken(pattern string, sym *symbol.Symbol, states ...string) *Token[V] {
	if len(states) == 0 {
		states = []string{InitialState}
	}
	t := &Token[V]{
		Index:   len(tz.tokens),
		Pattern: pattern,
		Symbol:  sym,
		States:  states,
	}
	tz.tokens = append(tz.tokens, t)
	tz.prepared = false
	return t
}

// SetGlobalAction installs a callback invoked with the matched text of every
// token (including silent ones) as it is consumed, regardless of state. This
// mirrors original_source's "global rule" hook used for things like
// line/column bookkeeping that every lexical rule should trigger.
func (tz *Tokenizer[V]) SetGlobalAction(fn func(matched string)) {
	tz.global = fn
}

// Prepare compiles every token's pattern, anchored to the start of the
// remaining input, and groups tokens by start-condition. Must be called
// after every AddToken call and before the first NextToken; returns the
// first pattern compilation failure encountered, in declaration order.
func (tz *Tokenizer[V]) Prepare() error {
	byState := make(map[string][]*Token[V])
	for _, t := range tz.tokens {
		compiled, err := regexp.Compile(`\A(?:` + t.Pattern + `)`)
		if err != nil {
			return fmt.Errorf("token %d (%s): %w", t.Index, t.describeFor(""), err)
		}
		t.compiled = compiled
		for _, st := range t.States {
			byState[st] = append(byState[st], t)
		}
	}
	tz.byState = byState
	tz.prepared = true
	return nil
}

// PushStream pushes a new named input source onto the input-stream stack;
// NextToken will consume it to exhaustion (or until a nested PushStream is
// later popped back to it) before returning to whatever was pushed before it.
// This is the include-file mechanism described in §4.9.
func (tz *Tokenizer[V]) PushStream(name string, r io.Reader) error {
	s, err := newStream(name, r)
	if err != nil {
		return err
	}
	tz.streams = append(tz.streams, s)
	return nil
}

// PopStream discards the current input stream without finishing it. Returns
// false if the stack was already empty.
func (tz *Tokenizer[V]) PopStream() bool {
	if len(tz.streams) == 0 {
		return false
	}
	tz.streams = tz.streams[:len(tz.streams)-1]
	return true
}

// Reset clears the stream stack and returns to InitialState, so a prepared
// Tokenizer can be reused across multiple inputs without recompiling.
func (tz *Tokenizer[V]) Reset() {
	tz.streams = nil
	tz.current = InitialState
}

// State returns the tokenizer's current start-condition.
func (tz *Tokenizer[V]) State() string {
	return tz.current
}

// SetState forces the current start-condition directly, bypassing any
// token's EnterState. Used by hosts that need to seed a nonstandard initial
// state (e.g. a REPL that starts mid-expression).
func (tz *Tokenizer[V]) SetState(state string) error {
	if _, ok := tz.byState[state]; !ok {
		return &UnknownStateError{State: state}
	}
	tz.current = state
	return nil
}

// NextToken returns the next Match, skipping silent tokens (those declared
// with a nil Symbol) and advancing through exhausted streams automatically.
// Once the stream stack is empty, it yields an end-of-input Match with the
// grammar's @end symbol forever.
func (tz *Tokenizer[V]) NextToken() (Match[V], error) {
	if !tz.prepared {
		return Match[V]{}, fmt.Errorf("tokenizer not prepared")
	}

	for {
		if len(tz.streams) == 0 {
			return Match[V]{Symbol: tz.g.End()}, nil
		}
		top := tz.streams[len(tz.streams)-1]
		if top.atEnd() {
			tz.streams = tz.streams[:len(tz.streams)-1]
			continue
		}

		best, matchLen := tz.longestMatch(top)
		if best == nil {
			line, col := top.lineCol()
			return Match[V]{}, &TokenizationError{
				Stream: top.name,
				Offset: top.pos,
				Line:   line,
				Col:    col,
				State:  tz.current,
			}
		}

		text := top.content[top.pos : top.pos+matchLen]
		line, col := top.lineCol()
		top.pos += matchLen

		if tz.global != nil {
			tz.global(text)
		}
		if best.EnterState != "" {
			tz.current = best.EnterState
		}
		if best.Symbol == nil {
			continue
		}

		var value V
		if best.action != nil {
			value = best.action(text)
		}
		return Match[V]{
			Symbol: *best.Symbol,
			Value:  value,
			Text:   text,
			Stream: top.name,
			Offset: top.pos - matchLen,
			Line:   line,
			Col:    col,
		}, nil
	}
}

// longestMatch tries every token active in the current state against s's
// remaining input and returns the longest match, preferring the
// earliest-declared token on a tie (§4.9).
func (tz *Tokenizer[V]) longestMatch(s *stream) (*Token[V], int) {
	var best *Token[V]
	bestLen := -1
	for _, t := range tz.byState[tz.current] {
		loc := t.compiled.FindStringIndex(s.remaining())
		if loc == nil {
			continue
		}
		length := loc[1] - loc[0]
		if length > bestLen {
			best = t
			bestLen = length
		}
	}
	return best, bestLen
}
