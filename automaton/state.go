// Package automaton builds the LR(0) automaton over a grammar's items:
// kernel-deduplicated states connected by forward and back transitions,
// constructed via closure and goto exactly as described in §4.2 of the
// design.
package automaton

import (
	"sort"
	"strings"

	"github.com/dekarrin/lrgen/grammar"
	"github.com/dekarrin/lrgen/symbol"
)

// State is the canonical set of items reachable by some viable prefix: an
// insertion-ordered, sorted-unique collection of items with a dense Index,
// plus forward and back transitions keyed by symbol.
//
// Two States are the same state iff their Kernel items are equal (§3); the
// non-kernel items are byproducts of Closure and are not part of identity.
type State[V any] struct {
	Index int
	Items []grammar.Item[V]

	// Forward maps a symbol's Index to the state reached by Goto(this, sym).
	Forward map[int]*State[V]
	// Back maps a symbol's Index to every state with a forward transition
	// on that symbol into this state.
	Back map[int][]*State[V]
}

func newState[V any](index int) *State[V] {
	return &State[V]{
		Index:   index,
		Forward: make(map[int]*State[V]),
		Back:    make(map[int][]*State[V]),
	}
}

// addItem inserts it into s.Items keeping the slice sorted by Item.Less and
// free of duplicates (by Item.Equal). Used only during construction.
func (s *State[V]) addItem(it grammar.Item[V]) {
	idx := sort.Search(len(s.Items), func(i int) bool {
		return !s.Items[i].Less(it)
	})
	if idx < len(s.Items) && s.Items[idx].Equal(it) {
		return
	}
	s.Items = append(s.Items, grammar.Item[V]{})
	copy(s.Items[idx+1:], s.Items[idx:])
	s.Items[idx] = it
}

// Kernel returns the subset of Items that are kernel items, in the State's
// canonical sorted order (kernel items always sort first, per Item.Less).
func (s *State[V]) Kernel() []grammar.Item[V] {
	var out []grammar.Item[V]
	for _, it := range s.Items {
		if !it.IsKernel() {
			break
		}
		out = append(out, it)
	}
	return out
}

// kernelKey returns a string uniquely identifying s's kernel, used as the
// dedup key when constructing the automaton. Two states with equal kernels
// produce equal keys regardless of the order closure discovered items in,
// since Items is always kept sorted.
func (s *State[V]) kernelKey() string {
	var sb strings.Builder
	for _, it := range s.Kernel() {
		sb.WriteString(it.String())
		sb.WriteRune('\x1f')
	}
	return sb.String()
}

// IsAccepting reports whether s contains exactly one accepting item (read
// symbol is @end) — the condition under which ParsingTable installs Accept.
func (s *State[V]) IsAccepting() bool {
	count := 0
	for _, it := range s.Items {
		if it.IsAccepting() {
			count++
		}
	}
	return count == 1
}

// addTransition installs a forward transition from s to dest on sym, and the
// corresponding back-transition from dest to s.
func (s *State[V]) addTransition(sym symbol.Symbol, dest *State[V]) {
	s.Forward[sym.Index] = dest
	back := append(dest.Back[sym.Index], s)
	sort.Slice(back, func(i, j int) bool { return back[i].Index < back[j].Index })
	dest.Back[sym.Index] = back
}

// ForwardSymbolIndexes returns the symbol indexes with a forward transition
// out of s, in ascending (symbol-index) order.
func (s *State[V]) ForwardSymbolIndexes() []int {
	out := make([]int, 0, len(s.Forward))
	for idx := range s.Forward {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

func (s *State[V]) String() string {
	var sb strings.Builder
	sb.WriteString("state ")
	for i, it := range s.Items {
		if i > 0 {
			sb.WriteString(" | ")
		}
		sb.WriteString(it.String())
	}
	return sb.String()
}
