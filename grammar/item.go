package grammar

import (
	"fmt"

	"github.com/dekarrin/lrgen/symbol"
)

// Item is an LR item: a Rule together with a read position, A -> α · β.
//
// Kernel, Final, and Accepting all follow directly from RHS/ReadPos per the
// classic definitions (§3 of the design): Kernel iff ReadPos > 0 or the rule
// is the start rule; Final iff ReadPos == len(RHS); Accepting iff the next
// unread symbol is the end marker.
type Item[V any] struct {
	Rule    *Rule[V]
	ReadPos int
}

// IsKernel reports whether this item belongs to a state's kernel (as opposed
// to being a byproduct of closure).
func (it Item[V]) IsKernel() bool {
	return it.ReadPos > 0 || it.Rule.IsStart
}

// IsFinal reports whether the dot has reached the end of the rule's RHS.
func (it Item[V]) IsFinal() bool {
	return it.ReadPos >= len(it.Rule.RHS)
}

// ReadSymbol returns the symbol immediately after the dot, and true, or the
// zero Symbol and false if the item is final.
func (it Item[V]) ReadSymbol() (symbol.Symbol, bool) {
	if it.IsFinal() {
		return symbol.Symbol{}, false
	}
	return it.Rule.RHS[it.ReadPos], true
}

// IsAccepting reports whether the item's read symbol is the end marker —
// the signal that a state containing it should get an Accept action.
func (it Item[V]) IsAccepting() bool {
	sym, ok := it.ReadSymbol()
	return ok && sym.Kind == symbol.End
}

// RestAfterRead returns the symbols of RHS that remain unread after the
// current read symbol — i.e. β in A -> α · X β. Used by the Includes
// relation to test Empty(β).
func (it Item[V]) RestAfterRead() []symbol.Symbol {
	if it.IsFinal() {
		return nil
	}
	return it.Rule.RHS[it.ReadPos+1:]
}

// Step returns the item with the dot advanced one position past the current
// read symbol. Panics if the item is already final; callers must check
// IsFinal (or ReadSymbol's ok return) first, since advancing past the end of
// a rule is always a generator bug, never a user-facing condition.
func (it Item[V]) Step() Item[V] {
	if it.IsFinal() {
		panic(fmt.Sprintf("cannot step a final item: %s", it))
	}
	return Item[V]{Rule: it.Rule, ReadPos: it.ReadPos + 1}
}

// StepBack returns the item with the dot moved one position earlier. Panics
// if ReadPos is already 0, for the same reason as Step.
func (it Item[V]) StepBack() Item[V] {
	if it.ReadPos == 0 {
		panic(fmt.Sprintf("cannot step back a kernel-root item: %s", it))
	}
	return Item[V]{Rule: it.Rule, ReadPos: it.ReadPos - 1}
}

// Less gives items a total order with kernel items sorting before closure
// items, then by rule index, then by read position — this is the order
// State uses to keep its item list canonical so that two states with equal
// kernels compare equal regardless of the order closure happened to produce
// them in.
func (it Item[V]) Less(o Item[V]) bool {
	ik, ok := 0, 0
	if !it.IsKernel() {
		ik = 1
	}
	if !o.IsKernel() {
		ok = 1
	}
	if ik != ok {
		return ik < ok
	}
	if it.Rule.Index != o.Rule.Index {
		return it.Rule.Index < o.Rule.Index
	}
	return it.ReadPos < o.ReadPos
}

// Equal reports whether it and o are the same (rule, read position) pair.
func (it Item[V]) Equal(o Item[V]) bool {
	return it.Rule.Index == o.Rule.Index && it.ReadPos == o.ReadPos
}

func (it Item[V]) String() string {
	var out string
	out = it.Rule.LHS.Name + " ->"
	if len(it.Rule.RHS) == 0 {
		return out + " · ε"
	}
	for i, s := range it.Rule.RHS {
		if i == it.ReadPos {
			out += " ·"
		}
		out += " " + s.Name
	}
	if it.ReadPos == len(it.Rule.RHS) {
		out += " ·"
	}
	return out
}
