package automaton

import (
	"fmt"
	"io"

	"github.com/dekarrin/lrgen/grammar"
	"github.com/dekarrin/lrgen/symbol"
)

// Automaton owns every State built from a Grammar's start rule, deduplicated
// by kernel equality (§3, §4.2).
type Automaton[V any] struct {
	g      *grammar.Grammar[V]
	states []*State[V]
	byKey  map[string]*State[V]
}

// States returns every state in discovery order (dense Index order).
func (a *Automaton[V]) States() []*State[V] {
	out := make([]*State[V], len(a.states))
	copy(out, a.states)
	return out
}

// State returns the state with the given dense index.
func (a *Automaton[V]) State(index int) *State[V] {
	return a.states[index]
}

// Initial returns the automaton's start state (index 0).
func (a *Automaton[V]) Initial() *State[V] {
	return a.states[0]
}

// Build constructs the LR(0) automaton for g: closure of the initial item
// from g's start rule, then BFS over goto transitions, deduplicating new
// states against existing ones by kernel (§4.2). g must already have a
// start rule installed via Grammar.SetStartSymbol.
func Build[V any](g *grammar.Grammar[V]) (*Automaton[V], error) {
	startRule := g.StartRule()
	if startRule == nil {
		return nil, fmt.Errorf("automaton: grammar has no start rule; call SetStartSymbol first")
	}

	a := &Automaton[V]{
		g:     g,
		byKey: make(map[string]*State[V]),
	}

	initial := newState[V](0)
	initial.addItem(grammar.Item[V]{Rule: startRule, ReadPos: 0})
	a.closure(initial)
	a.states = append(a.states, initial)
	a.byKey[initial.kernelKey()] = initial

	queue := []*State[V]{initial}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, sym := range a.readSymbols(cur) {
			if sym.Kind == symbol.End {
				// @end only ever appears in an accepting item; there is no
				// goto transition on it, only the Accept action.
				continue
			}
			next := a.goTo(cur, sym)
			if len(next.Items) == 0 {
				continue
			}
			a.closure(next)

			key := next.kernelKey()
			if existing, ok := a.byKey[key]; ok {
				cur.addTransition(sym, existing)
				continue
			}
			next.Index = len(a.states)
			a.states = append(a.states, next)
			a.byKey[key] = next
			cur.addTransition(sym, next)
			queue = append(queue, next)
		}
	}

	return a, nil
}

// closure extends s in place with B -> ·γ for every rule of every
// nonterminal B appearing as a read symbol somewhere in s, to a fixed point
// (§4.2).
func (a *Automaton[V]) closure(s *State[V]) {
	toProcess := append([]grammar.Item[V]{}, s.Items...)

	for len(toProcess) > 0 {
		it := toProcess[0]
		toProcess = toProcess[1:]

		sym, ok := it.ReadSymbol()
		if !ok || sym.Kind != symbol.Nonterminal {
			continue
		}
		for _, r := range a.g.RulesOf(sym) {
			newItem := grammar.Item[V]{Rule: r, ReadPos: 0}
			before := len(s.Items)
			s.addItem(newItem)
			if len(s.Items) > before {
				toProcess = append(toProcess, newItem)
			}
		}
	}
}

// readSymbols returns, in symbol-index order, the distinct symbols that
// appear as a read symbol of some item in s.
func (a *Automaton[V]) readSymbols(s *State[V]) []symbol.Symbol {
	seen := make(map[int]symbol.Symbol)
	for _, it := range s.Items {
		if sym, ok := it.ReadSymbol(); ok {
			seen[sym.Index] = sym
		}
	}
	out := make([]symbol.Symbol, 0, len(seen))
	for _, sym := range seen {
		out = append(out, sym)
	}
	sortSymbols(out)
	return out
}

func sortSymbols(syms []symbol.Symbol) {
	for i := 1; i < len(syms); i++ {
		for j := i; j > 0 && syms[j].Index < syms[j-1].Index; j-- {
			syms[j], syms[j-1] = syms[j-1], syms[j]
		}
	}
}

// goTo collects every item in s whose read symbol is sym, steps each past
// it, and returns the resulting (not-yet-closed, not-yet-deduplicated)
// state (§4.2).
func (a *Automaton[V]) goTo(s *State[V], sym symbol.Symbol) *State[V] {
	next := newState[V](-1)
	for _, it := range s.Items {
		readSym, ok := it.ReadSymbol()
		if !ok || readSym.Index != sym.Index {
			continue
		}
		next.addItem(it.Step())
	}
	return next
}

// WriteDOT writes a Graphviz dot description of the automaton to w, for
// external diagnostic tooling — the one generate_graph-style hook the
// design's §1 carve-out calls for. Not used by any core operation.
func (a *Automaton[V]) WriteDOT(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph automaton {"); err != nil {
		return err
	}
	for _, s := range a.states {
		shape := "box"
		if s.IsAccepting() {
			shape = "doublecircle"
		}
		if _, err := fmt.Fprintf(w, "  s%d [shape=%s, label=%q];\n", s.Index, shape, s.String()); err != nil {
			return err
		}
	}
	for _, s := range a.states {
		for _, symIdx := range s.ForwardSymbolIndexes() {
			dest := s.Forward[symIdx]
			label := a.symbolName(symIdx)
			if _, err := fmt.Fprintf(w, "  s%d -> s%d [label=%q];\n", s.Index, dest.Index, label); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

func (a *Automaton[V]) symbolName(symIndex int) string {
	for _, sym := range a.g.Symbols() {
		if sym.Index == symIndex {
			return sym.Name
		}
	}
	return fmt.Sprintf("#%d", symIndex)
}
