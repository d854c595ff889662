package relation

import (
	"github.com/dekarrin/lrgen/automaton"
	"github.com/dekarrin/lrgen/grammar"
	"github.com/dekarrin/lrgen/symbol"
)

// Read computes, for every non-final item A -> α·Bβ with B nonterminal in
// some state Q, Read(Q,B) ⊇ First(β), unioned across every such item
// (§4.4). This is the "directly reads" set and is the base function the
// Follow digraph traversal starts from.
func Read[V any](a *automaton.Automaton[V], g *grammar.Grammar[V]) map[StateSymbol]*symbol.Set {
	out := make(map[StateSymbol]*symbol.Set)
	for _, q := range a.States() {
		for _, it := range q.Items {
			b, ok := it.ReadSymbol()
			if !ok || b.Kind != symbol.Nonterminal {
				continue
			}
			key := StateSymbol{State: q.Index, Symbol: b.Index}
			if out[key] == nil {
				out[key] = symbol.NewSet()
			}
			out[key].AddAll(g.First(it.RestAfterRead()))
		}
	}
	return out
}

// Follow computes the automaton-level Follow(Q,A) of §4.5 as the Digraph
// fixed point over the Includes relation, seeded by Read:
//
//	Follow(Q,A) = Read(Q,A) ∪ ⋃ { Follow(P,B) | (Q,A) Includes (P,B) }
func Follow[V any](a *automaton.Automaton[V], g *grammar.Grammar[V]) map[StateSymbol]*symbol.Set {
	includes := Includes(a, g)
	read := Read(a, g)

	seen := make(map[StateSymbol]bool)
	var nodes []StateSymbol
	note := func(k StateSymbol) {
		if !seen[k] {
			seen[k] = true
			nodes = append(nodes, k)
		}
	}
	for k := range read {
		note(k)
	}
	for k, vs := range includes {
		note(k)
		for _, v := range vs {
			note(v)
		}
	}

	return digraph(nodes, includes, read)
}

// Lookahead computes, per (state, reducing rule), the union of Follow(P,B)
// over every (P,B) in that rule's Lookback image (§4.6). A rule/state pair
// absent from Lookback is simply absent here too — that reduction never
// fires.
func Lookahead[V any](a *automaton.Automaton[V], g *grammar.Grammar[V]) map[StateRule]*symbol.Set {
	lookback := Lookback(a)
	follow := Follow(a, g)

	out := make(map[StateRule]*symbol.Set)
	for key, images := range lookback {
		s := symbol.NewSet()
		for _, img := range images {
			if f, ok := follow[img]; ok {
				s.AddAll(f)
			}
		}
		out[key] = s
	}
	return out
}
