package relation

import (
	"testing"

	"github.com/dekarrin/lrgen/automaton"
	"github.com/dekarrin/lrgen/grammar"
	"github.com/dekarrin/lrgen/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildArithGrammar(t *testing.T) (*grammar.Grammar[int], *automaton.Automaton[int]) {
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

	a, err := automaton.Build(g)
	require.NoError(t, err)
	return g, a
}

func TestRead_includesFirstOfTail(t *testing.T) {
	g, a := buildArithGrammar(t)
	plus, _ := g.Symbol("+")

	// E -> ·E + E has tail "+ E" after E, so First of that tail puts + into
	// Read(Q,E).
	read := Read(a, g)
	found := false
	for _, s := range read {
		if s.Has(plus) {
			found = true
		}
	}
	assert.True(t, found, "expected some Read(Q,E) to contain +")
}

func TestFollow_supersetOfRead(t *testing.T) {
	g, a := buildArithGrammar(t)
	read := Read(a, g)
	follow := Follow(a, g)

	for k, rs := range read {
		fs, ok := follow[k]
		require.True(t, ok, "follow missing key present in read: %v", k)
		for _, sym := range rs.Slice() {
			assert.True(t, fs.Has(sym), "Follow(%v) missing %v from Read", k, sym)
		}
	}
}

func TestLookahead_nonEmptyForArithGrammar(t *testing.T) {
	g, a := buildArithGrammar(t)
	la := Lookahead(a, g)
	assert.NotEmpty(t, la)

	plus, _ := g.Symbol("+")
	star, _ := g.Symbol("*")

	foundPlusOrStar := false
	for _, s := range la {
		if s.Has(plus) || s.Has(star) || s.Has(g.End()) {
			foundPlusOrStar = true
		}
	}
	assert.True(t, foundPlusOrStar)
}
