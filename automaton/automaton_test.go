package automaton

import (
	"testing"

	"github.com/dekarrin/lrgen/grammar"
	"github.com/dekarrin/lrgen/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildArithGrammar mirrors the fixture in package grammar's tests: E -> E+E
// | E*E | num.
func buildArithGrammar(t *testing.T) *grammar.Grammar[int] {
	t.Helper()
	g := grammar.New[int]()

	plus, err := g.AddSymbol(symbol.Terminal, "+")
	require.NoError(t, err)
	star, err := g.AddSymbol(symbol.Terminal, "*")
	require.NoError(t, err)
	num, err := g.AddSymbol(symbol.Terminal, "num")
	require.NoError(t, err)
	e, err := g.AddSymbol(symbol.Nonterminal, "E")
	require.NoError(t, err)

	require.NoError(t, g.SetPrecedence(plus, 1, symbol.Left))
	require.NoError(t, g.SetPrecedence(star, 2, symbol.Left))

	_, err = g.AddRule(e, []symbol.Symbol{e, plus, e}, func(args []int) int { return args[0] + args[2] })
	require.NoError(t, err)
	_, err = g.AddRule(e, []symbol.Symbol{e, star, e}, func(args []int) int { return args[0] * args[2] })
	require.NoError(t, err)
	_, err = g.AddRule(e, []symbol.Symbol{num}, func(args []int) int { return args[0] })
	require.NoError(t, err)

	require.NoError(t, g.SetStartSymbol(e))
	return g
}

func TestBuild_initialStateClosure(t *testing.T) {
	g := buildArithGrammar(t)
	a, err := Build(g)
	require.NoError(t, err)

	initial := a.Initial()
	// closure of @start -> ·E @end should add all three E productions with
	// the dot at position 0, plus the kernel item itself: 4 items total.
	assert.Len(t, initial.Items, 4)
}

func TestBuild_kernelDeduplication(t *testing.T) {
	g := buildArithGrammar(t)
	a, err := Build(g)
	require.NoError(t, err)

	// every state must be reachable and have a distinct kernel from every
	// other state (the State.Index values are dense and the byKey map
	// enforces this at construction time, but assert it holds externally
	// too).
	seen := map[string]int{}
	for _, s := range a.States() {
		key := s.kernelKey()
		if prev, ok := seen[key]; ok {
			t.Fatalf("states %d and %d have identical kernels", prev, s.Index)
		}
		seen[key] = s.Index
	}
}

func TestBuild_acceptingStateExists(t *testing.T) {
	g := buildArithGrammar(t)
	a, err := Build(g)
	require.NoError(t, err)

	foundAccepting := false
	for _, s := range a.States() {
		if s.IsAccepting() {
			foundAccepting = true
		}
	}
	assert.True(t, foundAccepting)
}

func TestBuild_errorsWithoutStartRule(t *testing.T) {
	g := grammar.New[int]()
	_, err := Build(g)
	assert.Error(t, err)
}
