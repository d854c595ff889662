package relation

import (
	"github.com/dekarrin/lrgen/automaton"
	"github.com/dekarrin/lrgen/grammar"
	"github.com/dekarrin/lrgen/symbol"
)

// backtrack walks the automaton's back-transitions along alpha, from right
// to left, starting at start, and returns every state reachable by
// consuming the whole of alpha. At each step the current frontier of states
// is deduplicated by index before continuing, which is equivalent to the
// full (state, item) visited-set backtracking original_source performs:
// because Goto is a function (each state has at most one forward
// transition per symbol), two paths that reach the same predecessor state
// after consuming the same suffix of alpha are guaranteed to continue
// identically from there.
func backtrack[V any](start *automaton.State[V], alpha []symbol.Symbol) []*automaton.State[V] {
	current := []*automaton.State[V]{start}
	for i := len(alpha) - 1; i >= 0; i-- {
		sym := alpha[i]
		seen := make(map[int]bool)
		var next []*automaton.State[V]
		for _, s := range current {
			for _, p := range s.Back[sym.Index] {
				if !seen[p.Index] {
					seen[p.Index] = true
					next = append(next, p)
				}
			}
		}
		current = next
	}
	return current
}

type ssAdder map[StateSymbol]map[StateSymbol]bool

func (a ssAdder) add(out map[StateSymbol][]StateSymbol, k, v StateSymbol) {
	if a[k] == nil {
		a[k] = make(map[StateSymbol]bool)
	}
	if !a[k][v] {
		a[k][v] = true
		out[k] = append(out[k], v)
	}
}

// Includes computes the (state,symbol) includes (state,symbol) relation of
// §4.3: for every non-final item A -> α·Bβ in state Q where B is a
// nonterminal and β derives ε, (Q,B) includes (P,A) for every state P
// reached by backtracking along α from Q.
func Includes[V any](a *automaton.Automaton[V], g *grammar.Grammar[V]) map[StateSymbol][]StateSymbol {
	out := make(map[StateSymbol][]StateSymbol)
	seen := ssAdder{}

	for _, q := range a.States() {
		for _, it := range q.Items {
			b, ok := it.ReadSymbol()
			if !ok || b.Kind != symbol.Nonterminal {
				continue
			}
			beta := it.RestAfterRead()
			if len(beta) > 0 && !g.Empty(beta) {
				continue
			}
			alpha := it.Rule.RHS[:it.ReadPos]
			for _, p := range backtrack(q, alpha) {
				seen.add(out, StateSymbol{State: q.Index, Symbol: b.Index}, StateSymbol{State: p.Index, Symbol: it.Rule.LHS.Index})
			}
		}
	}
	return out
}

// Lookback computes the (state,rule) lookback (state,symbol) relation of
// §4.3: for every final item A -> γ· in state Q, (Q, A->γ) lookback (P, A)
// for every state P reached by backtracking along γ from Q that has a
// forward transition on A.
func Lookback[V any](a *automaton.Automaton[V]) map[StateRule][]StateSymbol {
	out := make(map[StateRule][]StateSymbol)
	seen := make(map[StateRule]map[StateSymbol]bool)
	add := func(k StateRule, v StateSymbol) {
		if seen[k] == nil {
			seen[k] = make(map[StateSymbol]bool)
		}
		if !seen[k][v] {
			seen[k][v] = true
			out[k] = append(out[k], v)
		}
	}

	for _, q := range a.States() {
		for _, it := range q.Items {
			if !it.IsFinal() {
				continue
			}
			for _, p := range backtrack(q, it.Rule.RHS) {
				if _, ok := p.Forward[it.Rule.LHS.Index]; ok {
					add(StateRule{State: q.Index, Rule: it.Rule.Index}, StateSymbol{State: p.Index, Symbol: it.Rule.LHS.Index})
				}
			}
		}
	}
	return out
}
