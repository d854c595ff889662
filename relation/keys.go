// Package relation computes the set-valued relations and fixed-point
// operations that turn an LR(0) automaton into LALR(1) lookahead sets:
// Includes and Lookback (§4.3), and Read/Follow/Lookahead (§4.4-§4.6),
// the latter via the Digraph/SCC traversal.
package relation

import "fmt"

// StateSymbol is a (state index, symbol index) pair — the key type for the
// Includes relation, the Read operation, and the automaton-level Follow
// operation.
type StateSymbol struct {
	State  int
	Symbol int
}

func (k StateSymbol) String() string {
	return fmt.Sprintf("(state %d, sym %d)", k.State, k.Symbol)
}

// StateRule is a (state index, rule index) pair — the key type for the
// Lookback relation and the Lookahead operation.
type StateRule struct {
	State int
	Rule  int
}

func (k StateRule) String() string {
	return fmt.Sprintf("(state %d, rule %d)", k.State, k.Rule)
}
