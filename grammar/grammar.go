// Package grammar owns the symbols and rules of a context-free grammar and
// computes the plain-grammar Empty/First/Follow closures described in the
// design's §4.1. It has no notion of states or automata; those live in
// package automaton, which depends on this package for Symbol/Rule/Item.
package grammar

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dekarrin/lrgen/symbol"
)

// Grammar owns every Symbol and Rule declared for a single parser-generator
// run. V is the semantic value type threaded through every rule's Action,
// exactly as the teacher's own Frontend[E] generalizes over an IR type.
type Grammar[V any] struct {
	symbolsByName map[string]symbol.Symbol
	symbols       []symbol.Symbol
	rules         []*Rule[V]

	start   symbol.Symbol
	hasEnd  bool
	endSym  symbol.Symbol
	started bool

	emptyMemo  map[int]bool
	firstMemo  map[int]*symbol.Set
	followMemo map[int]*symbol.Set

	concurrent bool
	memoMu     sync.Mutex
}

// New returns an empty Grammar with the reserved @end terminal already
// installed. @start is installed lazily by SetStartSymbol, once the user's
// true start symbol is known.
func New[V any]() *Grammar[V] {
	g := &Grammar[V]{
		symbolsByName: make(map[string]symbol.Symbol),
		emptyMemo:     make(map[int]bool),
		firstMemo:     make(map[int]*symbol.Set),
		followMemo:    make(map[int]*symbol.Set),
	}
	g.endSym = g.mustAdd(symbol.End, symbol.EndName, "")
	g.hasEnd = true
	return g
}

// Concurrent opts a Grammar into guarding its Empty/First/Follow memo caches
// with a mutex, per §5: by default queries assume single-threaded access and
// take no lock. Declaration methods (AddSymbol, AddRule, SetStartSymbol, ...)
// are never safe for concurrent use regardless of this setting — Concurrent
// only covers the read-mostly closure queries run after a grammar is fully
// declared and Validate has run.
func (g *Grammar[V]) Concurrent(on bool) {
	g.concurrent = on
}

func (g *Grammar[V]) lockMemo() {
	if g.concurrent {
		g.memoMu.Lock()
	}
}

func (g *Grammar[V]) unlockMemo() {
	if g.concurrent {
		g.memoMu.Unlock()
	}
}

func (g *Grammar[V]) mustAdd(kind symbol.Kind, name, desc string) symbol.Symbol {
	sym, err := g.AddSymbol(kind, name)
	if err != nil {
		panic(err)
	}
	if desc != "" {
		sym.Description = desc
		g.symbolsByName[name] = sym
		g.symbols[sym.Index] = sym
	}
	return sym
}

// AddSymbol declares a new Terminal or Nonterminal with the given name, or
// returns the existing Symbol if name was already declared (idempotent on
// name, per §6). Declaring a symbol named @start or @end directly is a
// GrammarError; those are reserved for SetStartSymbol and New.
func (g *Grammar[V]) AddSymbol(kind symbol.Kind, name string) (symbol.Symbol, error) {
	if existing, ok := g.symbolsByName[name]; ok {
		if existing.Kind != kind {
			return symbol.Symbol{}, &GrammarError{Reason: fmt.Sprintf("symbol %q already declared with kind %s, cannot redeclare as %s", name, existing.Kind, kind), Kind: ErrKindDuplicateSymbol}
		}
		return existing, nil
	}
	if kind != symbol.End && (name == symbol.StartName || name == symbol.EndName) {
		return symbol.Symbol{}, &GrammarError{Reason: fmt.Sprintf("symbol name %q is reserved", name), Kind: ErrKindReservedName}
	}

	sym := symbol.Symbol{
		Index: len(g.symbols),
		Kind:  kind,
		Name:  name,
	}
	g.symbols = append(g.symbols, sym)
	g.symbolsByName[name] = sym
	return sym, nil
}

// Symbol looks up a previously-declared symbol by name.
func (g *Grammar[V]) Symbol(name string) (symbol.Symbol, bool) {
	sym, ok := g.symbolsByName[name]
	return sym, ok
}

// End returns the grammar's single end-of-input symbol.
func (g *Grammar[V]) End() symbol.Symbol {
	return g.endSym
}

// StartRule returns the synthetic augmenting rule installed by
// SetStartSymbol, or nil if SetStartSymbol has not yet been called.
func (g *Grammar[V]) StartRule() *Rule[V] {
	for _, r := range g.rules {
		if r.IsStart {
			return r
		}
	}
	return nil
}

// SetStartSymbol installs the augmented start rule @start -> sym @end, whose
// action simply forwards sym's reduced value. May only be called once.
func (g *Grammar[V]) SetStartSymbol(sym symbol.Symbol) error {
	if g.started {
		return &GrammarError{Reason: "start symbol already set", Kind: ErrKindAlreadyStarted}
	}
	// @start is a reserved name, so it is installed directly rather than
	// through AddSymbol, which rejects it.
	startSym := symbol.Symbol{
		Index: len(g.symbols),
		Kind:  symbol.Nonterminal,
		Name:  symbol.StartName,
	}
	g.symbols = append(g.symbols, startSym)
	g.symbolsByName[symbol.StartName] = startSym

	rule := &Rule[V]{
		Index:   len(g.rules),
		LHS:     startSym,
		RHS:     []symbol.Symbol{sym, g.endSym},
		IsStart: true,
		Action: func(args []V) V {
			return args[0]
		},
	}
	g.rules = append(g.rules, rule)
	g.start = sym
	g.started = true
	return nil
}

// StartSymbol returns the user-declared start symbol (not the synthetic
// @start wrapper) set by SetStartSymbol.
func (g *Grammar[V]) StartSymbol() symbol.Symbol {
	return g.start
}

// AddRule declares lhs -> rhs with the given action. lhs must already be a
// declared Nonterminal.
func (g *Grammar[V]) AddRule(lhs symbol.Symbol, rhs []symbol.Symbol, action Action[V]) (*Rule[V], error) {
	if lhs.Kind != symbol.Nonterminal {
		return nil, &GrammarError{Reason: fmt.Sprintf("rule left-hand side %q must be a nonterminal", lhs.Name), Kind: ErrKindNotNonterminal}
	}
	rhsCopy := make([]symbol.Symbol, len(rhs))
	copy(rhsCopy, rhs)

	rule := &Rule[V]{
		Index:  len(g.rules),
		LHS:    lhs,
		RHS:    rhsCopy,
		Action: action,
	}
	g.rules = append(g.rules, rule)
	g.invalidateMemo()
	return rule, nil
}

// AddMidruleRule declares a synthetic epsilon rule for a mid-rule action
// (§4.7): lhs is a fresh nonterminal, and midruleSize is the number of RHS
// symbols of the *enclosing* rule that precede the splice point. Used by
// package gbuild's desugaring; ordinary grammars built directly against this
// package rarely need it.
func (g *Grammar[V]) AddMidruleRule(lhs symbol.Symbol, midruleSize int, action Action[V]) (*Rule[V], error) {
	if lhs.Kind != symbol.Nonterminal {
		return nil, &GrammarError{Reason: fmt.Sprintf("mid-rule left-hand side %q must be a nonterminal", lhs.Name), Kind: ErrKindNotNonterminal}
	}
	rule := &Rule[V]{
		Index:       len(g.rules),
		LHS:         lhs,
		RHS:         nil,
		Action:      action,
		Midrule:     true,
		MidruleSize: midruleSize,
	}
	g.rules = append(g.rules, rule)
	g.invalidateMemo()
	return rule, nil
}

// SetPrecedence assigns a Precedence to a terminal Symbol. Rule precedence is
// set via SetRulePrecedence since Rule is generic and cannot be named
// without V.
func (g *Grammar[V]) SetPrecedence(sym symbol.Symbol, level int, assoc symbol.Associativity) error {
	if sym.Kind != symbol.Terminal {
		return &GrammarError{Reason: fmt.Sprintf("precedence can only be set on terminals, %q is %s", sym.Name, sym.Kind), Kind: ErrKindBadPrecedenceTarget}
	}
	sym.Prec = symbol.Precedence{Level: level, Assoc: assoc, Defined: true}
	g.symbolsByName[sym.Name] = sym
	g.symbols[sym.Index] = sym
	return nil
}

// SetRulePrecedence assigns an explicit precedence override to rule,
// overriding the default of "the rightmost terminal's precedence" used by
// ParsingTable conflict resolution (§4.8).
func (g *Grammar[V]) SetRulePrecedence(rule *Rule[V], level int, assoc symbol.Associativity) {
	rule.Prec = symbol.Precedence{Level: level, Assoc: assoc, Defined: true}
}

// Symbols returns every declared symbol in declaration order.
func (g *Grammar[V]) Symbols() []symbol.Symbol {
	out := make([]symbol.Symbol, len(g.symbols))
	copy(out, g.symbols)
	return out
}

// Terminals returns every declared Terminal symbol, in declaration order,
// not including @end.
func (g *Grammar[V]) Terminals() []symbol.Symbol {
	var out []symbol.Symbol
	for _, s := range g.symbols {
		if s.Kind == symbol.Terminal {
			out = append(out, s)
		}
	}
	return out
}

// Nonterminals returns every declared Nonterminal symbol, in declaration
// order, including the synthetic @start once SetStartSymbol has run.
func (g *Grammar[V]) Nonterminals() []symbol.Symbol {
	var out []symbol.Symbol
	for _, s := range g.symbols {
		if s.Kind == symbol.Nonterminal {
			out = append(out, s)
		}
	}
	return out
}

// Rules returns every declared rule, including the synthetic start rule and
// any mid-rule markers, in declaration order.
func (g *Grammar[V]) Rules() []*Rule[V] {
	out := make([]*Rule[V], len(g.rules))
	copy(out, g.rules)
	return out
}

// RuleByIndex returns the rule with the given Index, or nil if none exists.
// Rule.Index is dense and assigned in declaration order, so this is an O(1)
// slice lookup in the common case.
func (g *Grammar[V]) RuleByIndex(index int) *Rule[V] {
	if index < 0 || index >= len(g.rules) {
		return nil
	}
	if g.rules[index].Index == index {
		return g.rules[index]
	}
	for _, r := range g.rules {
		if r.Index == index {
			return r
		}
	}
	return nil
}

// RulesOf returns the rules whose LHS is sym, in declaration order.
func (g *Grammar[V]) RulesOf(sym symbol.Symbol) []*Rule[V] {
	var out []*Rule[V]
	for _, r := range g.rules {
		if r.LHS.Index == sym.Index {
			out = append(out, r)
		}
	}
	return out
}

// RulesContaining returns every rule that has sym anywhere in its RHS.
func (g *Grammar[V]) RulesContaining(sym symbol.Symbol) []*Rule[V] {
	var out []*Rule[V]
	for _, r := range g.rules {
		for _, s := range r.RHS {
			if s.Index == sym.Index {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func (g *Grammar[V]) invalidateMemo() {
	g.lockMemo()
	defer g.unlockMemo()
	g.emptyMemo = make(map[int]bool)
	g.firstMemo = make(map[int]*symbol.Set)
	g.followMemo = make(map[int]*symbol.Set)
}

// Validate iterates Empty to a fixed point over every nonterminal and
// reports any structural problems (no start symbol, a nonterminal with no
// rules, etc). This is the supported way to get a globally-consistent
// answer out of Empty/First; see DESIGN.md for why a single unmemoized call
// to Empty/First before Validate has run is only best-effort (§9 open
// question #1).
func (g *Grammar[V]) Validate() error {
	var errs []string
	if !g.started {
		errs = append(errs, "no start symbol set")
	}
	for _, nt := range g.Nonterminals() {
		if len(g.RulesOf(nt)) == 0 {
			errs = append(errs, fmt.Sprintf("nonterminal %q has no productions", nt.Name))
		}
	}

	// run Empty to a fixed point across all nonterminals so that later,
	// single-symbol queries of Empty/First are stable even for grammars
	// with mutual left recursion; see Empty's doc comment.
	changed := true
	for changed {
		changed = false
		for _, nt := range g.Nonterminals() {
			g.lockMemo()
			before := g.emptyMemo[nt.Index]
			g.unlockMemo()
			g.invalidateEmptyFor(nt)
			after := g.Empty([]symbol.Symbol{nt})
			if after != before {
				changed = true
			}
		}
	}

	if len(errs) > 0 {
		return &GrammarError{Reason: strings.Join(errs, "; "), Kind: ErrKindInvalidGrammar}
	}
	return nil
}

func (g *Grammar[V]) invalidateEmptyFor(sym symbol.Symbol) {
	g.lockMemo()
	defer g.unlockMemo()
	delete(g.emptyMemo, sym.Index)
}

// Empty reports whether the symbol string γ can derive the empty string.
//
// Recursion is guarded by a "visited" set exactly as original_source's
// Grammar::empty does: a nonterminal already on the current call stack is
// treated as not-empty for that recursive branch rather than merging in
// whatever the in-progress outer call eventually decides. This is
// intentional — see §9 open question #1 in the design notes — and is made
// globally sound by Validate iterating this to a fixed point.
func (g *Grammar[V]) Empty(gamma []symbol.Symbol) bool {
	visited := make(map[int]bool)
	return g.empty(gamma, visited)
}

func (g *Grammar[V]) empty(gamma []symbol.Symbol, visited map[int]bool) bool {
	for _, sym := range gamma {
		if !g.emptySymbol(sym, visited) {
			return false
		}
	}
	return true
}

func (g *Grammar[V]) emptySymbol(sym symbol.Symbol, visited map[int]bool) bool {
	if sym.Kind != symbol.Nonterminal {
		return false
	}
	g.lockMemo()
	v, ok := g.emptyMemo[sym.Index]
	g.unlockMemo()
	if ok {
		return v
	}
	if visited[sym.Index] {
		return false
	}
	visited[sym.Index] = true

	result := false
	for _, r := range g.RulesOf(sym) {
		if g.empty(r.RHS, visited) {
			result = true
			break
		}
	}
	g.lockMemo()
	g.emptyMemo[sym.Index] = result
	g.unlockMemo()
	return result
}

// First computes the set of terminals that may begin some derivation of γ,
// including @end only where reachable through the augmented start rule.
func (g *Grammar[V]) First(gamma []symbol.Symbol) *symbol.Set {
	visited := make(map[int]bool)
	return g.first(gamma, visited)
}

func (g *Grammar[V]) first(gamma []symbol.Symbol, visited map[int]bool) *symbol.Set {
	out := symbol.NewSet()
	for _, sym := range gamma {
		out.AddAll(g.firstSymbol(sym, visited))
		if !g.emptySymbol(sym, visited) {
			break
		}
	}
	return out
}

func (g *Grammar[V]) firstSymbol(sym symbol.Symbol, visited map[int]bool) *symbol.Set {
	if sym.Kind != symbol.Nonterminal {
		s := symbol.NewSet()
		s.Add(sym)
		return s
	}
	g.lockMemo()
	memo, ok := g.firstMemo[sym.Index]
	g.unlockMemo()
	if ok {
		return memo
	}
	if visited[sym.Index] {
		return symbol.NewSet()
	}
	visited[sym.Index] = true

	out := symbol.NewSet()
	for _, r := range g.RulesOf(sym) {
		out.AddAll(g.first(r.RHS, visited))
	}
	g.lockMemo()
	g.firstMemo[sym.Index] = out
	g.unlockMemo()
	return out
}

// Follow computes the plain-grammar Follow set of sym: terminals that can
// immediately follow sym in some derivation from the start symbol. This is
// a diagnostic operation, independent of any automaton — it is not how the
// parser's actual LALR lookaheads are computed (see package relation for
// that); it is restored here because original_source exposes it as a
// standalone utility for inspecting a grammar before a single state has
// been built (§4.13 of the design).
func (g *Grammar[V]) Follow(sym symbol.Symbol) *symbol.Set {
	visited := make(map[int]bool)
	return g.follow(sym, visited)
}

func (g *Grammar[V]) follow(sym symbol.Symbol, visited map[int]bool) *symbol.Set {
	g.lockMemo()
	memo, ok := g.followMemo[sym.Index]
	g.unlockMemo()
	if ok {
		return memo
	}
	if visited[sym.Index] {
		return symbol.NewSet()
	}
	visited[sym.Index] = true

	out := symbol.NewSet()
	if g.started && sym.Index == g.start.Index {
		out.Add(g.endSym)
	}

	for _, r := range g.RulesContaining(sym) {
		for i, s := range r.RHS {
			if s.Index != sym.Index {
				continue
			}
			tail := r.RHS[i+1:]
			out.AddAll(g.first(tail, map[int]bool{}))
			if g.Empty(tail) {
				out.AddAll(g.follow(r.LHS, visited))
			}
		}
	}

	g.lockMemo()
	g.followMemo[sym.Index] = out
	g.unlockMemo()
	return out
}
