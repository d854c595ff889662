// Package lex implements the stateful, longest-match regex tokenizer
// described in §4.9: named start-conditions, a stack of input streams for
// include-file semantics, and longest-match-with-priority tie-breaking.
package lex

import (
	"regexp"

	"github.com/dekarrin/lrgen/symbol"
)

// Action produces a token's semantic value from its matched text.
type Action[V any] func(matched string) V

// Token is a single lexical rule: a pattern active in some set of
// start-conditions, the terminal Symbol it yields (nil for silent tokens
// like whitespace), an optional Action, and an optional EnterState
// side-effect. Index establishes declaration-order priority for longest-
// match ties (§4.9).
type Token[V any] struct {
	Index       int
	Pattern     string
	Symbol      *symbol.Symbol
	States      []string
	EnterState  string
	Description string

	action   Action[V]
	compiled *regexp.Regexp
}

// SetAction installs the per-match semantic action. Returns t for chaining.
func (t *Token[V]) SetAction(fn Action[V]) *Token[V] {
	t.action = fn
	return t
}

// SetEnterState installs a start-condition the tokenizer switches to after
// this token matches. An empty state leaves the current start-condition
// unchanged. Returns t for chaining.
func (t *Token[V]) SetEnterState(state string) *Token[V] {
	t.EnterState = state
	return t
}

// SetDescription installs a human-readable description that names the token
// in Prepare's error for a pattern that fails to compile. SyntaxError's
// expected-symbol list does not use it; that list shows terminal names.
// Returns t for chaining.
func (t *Token[V]) SetDescription(desc string) *Token[V] {
	t.Description = desc
	return t
}

// Fullword applies the "fullword" pattern sugar of §4.9: the pattern is
// rewritten to require a word boundary or end-of-input immediately after
// the match, so e.g. the keyword pattern "if" will not match a prefix of
// "iffy". Must be called before the owning Tokenizer's Prepare, since the
// rewritten pattern is what gets compiled. Returns t for chaining.
func (t *Token[V]) Fullword() *Token[V] {
	t.Pattern = t.Pattern + `(\b|$)`
	return t
}

func (t *Token[V]) describeFor(matched string) string {
	if t.Description != "" {
		return t.Description
	}
	if t.Symbol != nil {
		return t.Symbol.Name
	}
	return matched
}
