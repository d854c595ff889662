package lex

import (
	"errors"
	"strings"
	"testing"

	"github.com/dekarrin/lrgen/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGrammar struct{ end symbol.Symbol }

func (s stubGrammar) End() symbol.Symbol { return s.end }

func newStub() stubGrammar {
	return stubGrammar{end: symbol.Symbol{Index: 0, Kind: symbol.End, Name: symbol.EndName}}
}

func TestNextToken_longestMatchWins(t *testing.T) {
	tz := New[string](newStub())
	ifSym := symbol.Symbol{Index: 1, Kind: symbol.Terminal, Name: "IF"}
	idSym := symbol.Symbol{Index: 2, Kind: symbol.Terminal, Name: "ID"}

	tz.AddToken("if", &ifSym).SetAction(func(m string) string { return m })
	tz.AddToken(`[a-z]+`, &idSym).SetAction(func(m string) string { return m })
	require.NoError(t, tz.Prepare())
	require.NoError(t, tz.PushStream("test", strings.NewReader("iffy")))

	m, err := tz.NextToken()
	require.NoError(t, err)
	assert.Equal(t, idSym.Index, m.Symbol.Index, "expected the longer ID match, not the shorter IF keyword")
	assert.Equal(t, "iffy", m.Text)
}

func TestNextToken_fullwordStopsKeywordAbsorbingSuffix(t *testing.T) {
	tz := New[string](newStub())
	ifSym := symbol.Symbol{Index: 1, Kind: symbol.Terminal, Name: "IF"}
	idSym := symbol.Symbol{Index: 2, Kind: symbol.Terminal, Name: "ID"}

	tz.AddToken("if", &ifSym).Fullword().SetAction(func(m string) string { return m })
	tz.AddToken(`[a-z]+`, &idSym).SetAction(func(m string) string { return m })
	require.NoError(t, tz.Prepare())
	require.NoError(t, tz.PushStream("test", strings.NewReader("iffy")))

	m, err := tz.NextToken()
	require.NoError(t, err)
	assert.Equal(t, idSym.Index, m.Symbol.Index, "fullword IF must not match a prefix of iffy")
}

func TestNextToken_silentTokenSkipped(t *testing.T) {
	tz := New[string](newStub())
	idSym := symbol.Symbol{Index: 1, Kind: symbol.Terminal, Name: "ID"}

	tz.AddToken(`\s+`, nil) // whitespace, silent
	tz.AddToken(`[a-z]+`, &idSym).SetAction(func(m string) string { return m })
	require.NoError(t, tz.Prepare())
	require.NoError(t, tz.PushStream("test", strings.NewReader("  abc")))

	m, err := tz.NextToken()
	require.NoError(t, err)
	assert.Equal(t, "abc", m.Text)
}

func TestNextToken_yieldsEndAfterStreamsExhausted(t *testing.T) {
	tz := New[string](newStub())
	require.NoError(t, tz.Prepare())
	require.NoError(t, tz.PushStream("test", strings.NewReader("")))

	m, err := tz.NextToken()
	require.NoError(t, err)
	assert.Equal(t, symbol.End, m.Symbol.Kind)
}

func TestNextToken_stateChangeGovernsActiveTokens(t *testing.T) {
	tz := New[string](newStub())
	quote := symbol.Symbol{Index: 1, Kind: symbol.Terminal, Name: "QUOTE"}
	strBody := symbol.Symbol{Index: 2, Kind: symbol.Terminal, Name: "STR"}

	tz.AddToken(`"`, &quote, InitialState).SetEnterState("instring")
	tz.AddToken(`[^"]+`, &strBody, "instring").SetEnterState("")
	require.NoError(t, tz.Prepare())
	require.NoError(t, tz.PushStream("test", strings.NewReader(`"hello"`)))

	first, err := tz.NextToken()
	require.NoError(t, err)
	assert.Equal(t, quote.Index, first.Symbol.Index)

	second, err := tz.NextToken()
	require.NoError(t, err)
	assert.Equal(t, strBody.Index, second.Symbol.Index)
	assert.Equal(t, "hello", second.Text)
}

func TestNextToken_noMatchReturnsTokenizationError(t *testing.T) {
	tz := New[string](newStub())
	idSym := symbol.Symbol{Index: 1, Kind: symbol.Terminal, Name: "ID"}
	tz.AddToken(`[a-z]+`, &idSym).SetAction(func(m string) string { return m })
	require.NoError(t, tz.Prepare())
	require.NoError(t, tz.PushStream("test", strings.NewReader("123")))

	_, err := tz.NextToken()
	require.Error(t, err)
	assert.IsType(t, &TokenizationError{}, err)
	assert.True(t, errors.Is(err, ErrKindNoMatch))
}

// Two tokens whose patterns match the same number of characters at the same
// position must resolve by declaration order, not by whichever happens to be
// iterated first in an unordered structure: the earlier-declared token wins.
func TestNextToken_equalLengthMatchesBreakTieByDeclarationOrder(t *testing.T) {
	tz := New[string](newStub())
	first := symbol.Symbol{Index: 1, Kind: symbol.Terminal, Name: "ALPHA"}
	second := symbol.Symbol{Index: 2, Kind: symbol.Terminal, Name: "BETA"}

	// Both patterns match exactly "abc" (3 characters); ALPHA is declared
	// first and must win even though BETA's pattern is also a full match.
	tz.AddToken(`abc`, &first).SetAction(func(m string) string { return m })
	tz.AddToken(`[a-c]+`, &second).SetAction(func(m string) string { return m })
	require.NoError(t, tz.Prepare())
	require.NoError(t, tz.PushStream("test", strings.NewReader("abc")))

	m, err := tz.NextToken()
	require.NoError(t, err)
	assert.Equal(t, first.Index, m.Symbol.Index, "earlier-declared token must win an equal-length tie")
	assert.Equal(t, "abc", m.Text)
}

func TestSetState_unknownStateIsErrKindUnknownState(t *testing.T) {
	tz := New[string](newStub())
	err := tz.SetState("nope")
	require.Error(t, err)
	assert.IsType(t, &UnknownStateError{}, err)
	assert.True(t, errors.Is(err, ErrKindUnknownState))
}
