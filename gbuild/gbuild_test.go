package gbuild

import (
	"strconv"
	"strings"
	"testing"

	"github.com/dekarrin/lrgen/automaton"
	"github.com/dekarrin/lrgen/grammar"
	"github.com/dekarrin/lrgen/lex"
	"github.com/dekarrin/lrgen/parse"
	"github.com/dekarrin/lrgen/symbol"
	"github.com/dekarrin/lrgen/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleBuilder_simpleArithGrammar(t *testing.T) {
	g := grammar.New[int]()
	tz := lex.New[int](g)

	_, err := NewToken(g, tz, `\s+`).Done()
	require.NoError(t, err)
	_, err = NewToken(g, tz, `\+`).Symbol("+").Precedence(1, symbol.Left).Done()
	require.NoError(t, err)
	_, err = NewToken(g, tz, `[0-9]+`).Symbol("num").Action(func(m string) int {
		n, _ := strconv.Atoi(m)
		return n
	}).Done()
	require.NoError(t, err)

	plus, _ := g.Symbol("+")
	num, _ := g.Symbol("num")

	require.NoError(t, NewRule[int](g, "E").
		Production(num, plus, num, grammar.Action[int](func(args []int) int { return args[0] + args[2] })).
		Done())

	e, err := g.Symbol("E")
	require.NoError(t, err)
	require.NoError(t, g.SetStartSymbol(e))

	a, err := automaton.Build(g)
	require.NoError(t, err)
	tbl, report, err := table.Build(g, a, table.Options{})
	require.NoError(t, err)
	require.True(t, report.OK(), report.String())

	require.NoError(t, tz.Prepare())
	require.NoError(t, tz.PushStream("test", strings.NewReader("3+4")))

	p := parse.New(g, a, tbl, tz)
	v, err := p.Parse()
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

// TestRuleBuilder_midruleAction exercises a Production where the action is
// spliced between two symbols (not trailing), which must desugar into a
// synthetic epsilon nonterminal per §4.7.
func TestRuleBuilder_midruleAction(t *testing.T) {
	g := grammar.New[int]()
	tz := lex.New[int](g)
	_, err := NewToken(g, tz, `a`).Symbol("a").Action(func(string) int { return 1 }).Done()
	require.NoError(t, err)
	aSym, _ := g.Symbol("a")

	midCalled := false
	require.NoError(t, NewRule[int](g, "S").
		Production(aSym, grammar.Action[int](func(args []int) int {
			midCalled = true
			return args[0]
		}), aSym, grammar.Action[int](func(args []int) int {
			return args[0] + args[1] + args[2]
		})).
		Done())

	s, _ := g.Symbol("S")
	require.NoError(t, g.SetStartSymbol(s))

	a, err := automaton.Build(g)
	require.NoError(t, err)
	tbl, report, err := table.Build(g, a, table.Options{})
	require.NoError(t, err)
	require.True(t, report.OK(), report.String())

	require.NoError(t, tz.Prepare())
	require.NoError(t, tz.PushStream("test", strings.NewReader("aa")))

	p := parse.New(g, a, tbl, tz)
	v, err := p.Parse()
	require.NoError(t, err)
	assert.True(t, midCalled)
	assert.Equal(t, 3, v)
}

// TestRuleBuilder_leftAssociativeSubtractionGroupsLeftToRight builds a
// recursive, ambiguous grammar through the fluent DSL and resolves it with
// left-associative precedence on "-", a non-associative operator: unlike
// "+"/"*", left-vs-right grouping changes the computed result, so this would
// catch a builder-level associativity regression that a "+"-only grammar
// can't.
func TestRuleBuilder_leftAssociativeSubtractionGroupsLeftToRight(t *testing.T) {
	g := grammar.New[int]()
	tz := lex.New[int](g)

	_, err := NewToken(g, tz, `\s+`).Done()
	require.NoError(t, err)
	_, err = NewToken(g, tz, `-`).Symbol("-").Precedence(1, symbol.Left).Done()
	require.NoError(t, err)
	_, err = NewToken(g, tz, `[0-9]+`).Symbol("num").Action(func(m string) int {
		n, _ := strconv.Atoi(m)
		return n
	}).Done()
	require.NoError(t, err)

	minus, _ := g.Symbol("-")

	rb := NewRule[int](g, "E")
	e := rb.Symbol()
	num, _ := g.Symbol("num")
	require.NoError(t, rb.
		Production(e, minus, e, grammar.Action[int](func(args []int) int { return args[0] - args[2] })).
		Production(num, grammar.Action[int](func(args []int) int { return args[0] })).
		Done())

	require.NoError(t, g.SetStartSymbol(e))

	a, err := automaton.Build(g)
	require.NoError(t, err)
	tbl, report, err := table.Build(g, a, table.Options{})
	require.NoError(t, err)
	require.True(t, report.OK(), report.String())

	require.NoError(t, tz.Prepare())
	require.NoError(t, tz.PushStream("test", strings.NewReader("10 - 3 - 2")))

	p := parse.New(g, a, tbl, tz)
	v, err := p.Parse()
	require.NoError(t, err)
	// (10 - 3) - 2 = 5; the wrong right-grouping 10 - (3 - 2) would give 9.
	assert.Equal(t, 5, v)
}
