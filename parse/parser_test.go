package parse

import (
	"strconv"
	"strings"
	"testing"

	"github.com/dekarrin/lrgen/automaton"
	"github.com/dekarrin/lrgen/grammar"
	"github.com/dekarrin/lrgen/lex"
	"github.com/dekarrin/lrgen/symbol"
	"github.com/dekarrin/lrgen/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildArithParser(t *testing.T, input string) *Parser[int] {
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

	tbl, report, err := table.Build(g, a, table.Options{})
	require.NoError(t, err)
	require.True(t, report.OK(), report.String())

	tz := lex.New[int](g)
	tz.AddToken(`\s+`, nil)
	tz.AddToken(`\+`, &plus)
	tz.AddToken(`\*`, &star)
	tz.AddToken(`[0-9]+`, &num).SetAction(func(m string) int {
		n, _ := strconv.Atoi(m)
		return n
	})
	require.NoError(t, tz.Prepare())
	require.NoError(t, tz.PushStream("test", strings.NewReader(input)))

	return New(g, a, tbl, tz)
}

// buildExtendedArithParser adds "-" (left-assoc, same precedence as "+") and
// "^" (right-assoc, binding tighter than "*") to the grammar, so grouping
// direction actually changes the computed value: unlike "+"/"*", both "-" and
// "^" are non-associative operations, so a left-vs-right grouping bug flips
// the result instead of hiding behind an identity.
func buildExtendedArithParser(t *testing.T, input string) *Parser[int] {
	t.Helper()
	g := grammar.New[int]()

	plus, err := g.AddSymbol(symbol.Terminal, "+")
	require.NoError(t, err)
	minus, err := g.AddSymbol(symbol.Terminal, "-")
	require.NoError(t, err)
	star, err := g.AddSymbol(symbol.Terminal, "*")
	require.NoError(t, err)
	caret, err := g.AddSymbol(symbol.Terminal, "^")
	require.NoError(t, err)
	num, err := g.AddSymbol(symbol.Terminal, "num")
	require.NoError(t, err)
	e, err := g.AddSymbol(symbol.Nonterminal, "E")
	require.NoError(t, err)

	require.NoError(t, g.SetPrecedence(plus, 1, symbol.Left))
	require.NoError(t, g.SetPrecedence(minus, 1, symbol.Left))
	require.NoError(t, g.SetPrecedence(star, 2, symbol.Left))
	require.NoError(t, g.SetPrecedence(caret, 3, symbol.Right))

	_, err = g.AddRule(e, []symbol.Symbol{e, plus, e}, func(args []int) int { return args[0] + args[2] })
	require.NoError(t, err)
	_, err = g.AddRule(e, []symbol.Symbol{e, minus, e}, func(args []int) int { return args[0] - args[2] })
	require.NoError(t, err)
	_, err = g.AddRule(e, []symbol.Symbol{e, star, e}, func(args []int) int { return args[0] * args[2] })
	require.NoError(t, err)
	_, err = g.AddRule(e, []symbol.Symbol{e, caret, e}, func(args []int) int {
		result := 1
		for i := 0; i < args[2]; i++ {
			result *= args[0]
		}
		return result
	})
	require.NoError(t, err)
	_, err = g.AddRule(e, []symbol.Symbol{num}, func(args []int) int { return args[0] })
	require.NoError(t, err)

	require.NoError(t, g.SetStartSymbol(e))

	a, err := automaton.Build(g)
	require.NoError(t, err)

	tbl, report, err := table.Build(g, a, table.Options{})
	require.NoError(t, err)
	require.True(t, report.OK(), report.String())

	tz := lex.New[int](g)
	tz.AddToken(`\s+`, nil)
	tz.AddToken(`\+`, &plus)
	tz.AddToken(`-`, &minus)
	tz.AddToken(`\*`, &star)
	tz.AddToken(`\^`, &caret)
	tz.AddToken(`[0-9]+`, &num).SetAction(func(m string) int {
		n, _ := strconv.Atoi(m)
		return n
	})
	require.NoError(t, tz.Prepare())
	require.NoError(t, tz.PushStream("test", strings.NewReader(input)))

	return New(g, a, tbl, tz)
}

func TestParse_leftAssociativeSubtractionGroupsLeftToRight(t *testing.T) {
	p := buildExtendedArithParser(t, "10 - 3 - 2")
	v, err := p.Parse()
	require.NoError(t, err)
	// (10 - 3) - 2 = 5; the wrong right-grouping 10 - (3 - 2) would give 9.
	assert.Equal(t, 5, v)
}

func TestParse_rightAssociativeExponentGroupsRightToLeft(t *testing.T) {
	p := buildExtendedArithParser(t, "2 ^ 3 ^ 2")
	v, err := p.Parse()
	require.NoError(t, err)
	// 2 ^ (3 ^ 2) = 2 ^ 9 = 512; the wrong left-grouping (2 ^ 3) ^ 2 would give 64.
	assert.Equal(t, 512, v)
}

func TestParse_simpleSum(t *testing.T) {
	p := buildArithParser(t, "1 + 2")
	v, err := p.Parse()
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestParse_precedenceAppliesToValues(t *testing.T) {
	p := buildArithParser(t, "2 + 3 * 4")
	v, err := p.Parse()
	require.NoError(t, err)
	assert.Equal(t, 14, v, "* should bind tighter than + even though tokens are scanned left to right")
}

func TestParse_syntaxErrorOnBadInput(t *testing.T) {
	p := buildArithParser(t, "1 + + 2")
	_, err := p.Parse()
	require.Error(t, err)
	assert.IsType(t, &SyntaxError{}, err)
}

func TestParse_traceListenerReceivesEvents(t *testing.T) {
	p := buildArithParser(t, "1 + 2")
	var lines []string
	p.OnTrace(func(s string) { lines = append(lines, s) })
	_, err := p.Parse()
	require.NoError(t, err)
	assert.NotEmpty(t, lines)
	assert.Equal(t, "accept", lines[len(lines)-1])
}
