package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/lrgen/symbol"
)

// Action is a semantic action attached to a Rule. It is called with the
// already-reduced values of the rule's right-hand side, in left-to-right
// order, and must produce the value for the left-hand side nonterminal.
//
// For a mid-rule action rule (see Rule.Midrule), args has length
// Rule.MidruleSize and contains the top that-many values of the parser's
// value stack without having popped them (§4.7 of the design: mid-rule
// actions observe, but do not consume, the values gathered so far).
type Action[V any] func(args []V) V

// Rule is a single production lhs -> rhs₀ rhs₁ … with an optional semantic
// Action, an optional precedence override, and the bookkeeping needed for
// the start rule and for synthetic mid-rule-action rules.
type Rule[V any] struct {
	Index  int
	LHS    symbol.Symbol
	RHS    []symbol.Symbol
	Action Action[V]

	Prec symbol.Precedence

	// IsStart marks the single synthetic augmenting rule @start -> S @end
	// installed by SetStartSymbol.
	IsStart bool

	// Midrule marks a synthetic rule installed by the mid-rule-action
	// desugaring described in §4.7. Its RHS is empty (it is an epsilon
	// rule); MidruleSize records how many symbols of the *enclosing*
	// rule's RHS precede the position this rule was spliced into, which is
	// also the number of value-stack entries its Action should receive.
	Midrule     bool
	MidruleSize int
}

// Arity is the number of arguments Action expects: |RHS| ordinarily, or
// MidruleSize for a mid-rule marker rule.
func (r Rule[V]) Arity() int {
	if r.Midrule {
		return r.MidruleSize
	}
	return len(r.RHS)
}

// RightmostTerminal returns the rightmost terminal symbol in RHS and true,
// or the zero Symbol and false if RHS contains no terminal. Used by
// ParsingTable conflict resolution to find a rule's precedence when none was
// explicitly declared (§4.8).
func (r Rule[V]) RightmostTerminal() (symbol.Symbol, bool) {
	for i := len(r.RHS) - 1; i >= 0; i-- {
		if r.RHS[i].Kind == symbol.Terminal {
			return r.RHS[i], true
		}
	}
	return symbol.Symbol{}, false
}

// EffectivePrecedence returns the rule's own precedence if declared,
// otherwise its rightmost terminal's precedence, otherwise the zero
// (undefined) Precedence.
func (r Rule[V]) EffectivePrecedence() symbol.Precedence {
	if r.Prec.Defined {
		return r.Prec
	}
	if t, ok := r.RightmostTerminal(); ok {
		return t.Prec
	}
	return symbol.Precedence{}
}

func (r Rule[V]) String() string {
	var sb strings.Builder
	sb.WriteString(r.LHS.Name)
	sb.WriteString(" ->")
	if len(r.RHS) == 0 {
		sb.WriteString(" ε")
	}
	for _, s := range r.RHS {
		sb.WriteRune(' ')
		sb.WriteString(s.Name)
	}
	return sb.String()
}

// HasAction reports whether r carries a non-nil semantic action.
func (r Rule[V]) HasAction() bool {
	return r.Action != nil
}

// Perform invokes r's action, or if none was set, returns the zero value of
// V (this is how epsilon mid-rule markers with no explicit action behave).
func (r Rule[V]) Perform(args []V) V {
	if r.Action == nil {
		var zero V
		return zero
	}
	return r.Action(args)
}

func badArity[V any](r Rule[V], got int) error {
	return fmt.Errorf("rule %q expects %d argument(s), got %d", r.String(), r.Arity(), got)
}
