package table

import (
	"fmt"

	"github.com/dekarrin/lrgen/automaton"
	"github.com/dekarrin/lrgen/grammar"
	"github.com/dekarrin/lrgen/relation"
	"github.com/dekarrin/lrgen/symbol"
	"github.com/dekarrin/rosed"
	"github.com/google/uuid"
)

// Table is the computed ACTION/GOTO parsing table for a grammar: a pure
// function of the grammar once built (§8 testable property — building twice
// yields equal tables), read-only for the lifetime of any Parser using it.
type Table[V any] struct {
	g *grammar.Grammar[V]
	a *automaton.Automaton[V]

	action map[int]map[int]Action // state -> terminal index -> Action
	goTo   map[int]map[int]int    // state -> nonterminal index -> state
}

// Options configures how Build resolves ambiguity.
type Options struct {
	// StrictMode causes Build to return a *BuildConflictError instead of a
	// nil error when the resulting Report has any conflicts.
	StrictMode bool
}

// Build computes the ACTION/GOTO table for g's automaton a, following the
// installation order resolved in the design's §9 open question #2: shifts
// (and GOTOs) for every state are installed first, then reductions are
// installed per final item with precedence-based override (§4.8).
func Build[V any](g *grammar.Grammar[V], a *automaton.Automaton[V], opts Options) (*Table[V], *Report, error) {
	t := &Table[V]{
		g:      g,
		a:      a,
		action: make(map[int]map[int]Action),
		goTo:   make(map[int]map[int]int),
	}
	report := &Report{ID: uuid.New()}

	for _, s := range a.States() {
		t.action[s.Index] = make(map[int]Action)
		t.goTo[s.Index] = make(map[int]int)

		if s.IsAccepting() {
			t.action[s.Index][g.End().Index] = Action{Kind: Accept}
		}

		for _, symIdx := range s.ForwardSymbolIndexes() {
			sym := t.symbolByIndex(symIdx)
			dest := s.Forward[symIdx]
			if sym.Kind == symbol.Nonterminal {
				t.goTo[s.Index][symIdx] = dest.Index
				continue
			}
			if _, exists := t.action[s.Index][symIdx]; !exists {
				t.action[s.Index][symIdx] = Action{Kind: Shift, State: dest.Index}
			}
		}
	}

	lookaheads := relation.Lookahead(a, g)
	for _, s := range a.States() {
		for _, it := range s.Items {
			if !it.IsFinal() || it.Rule.IsStart {
				continue
			}
			la, ok := lookaheads[relation.StateRule{State: s.Index, Rule: it.Rule.Index}]
			if !ok {
				continue
			}
			for _, a := range la.Slice() {
				t.addReduction(s.Index, a, it.Rule, report)
			}
		}
	}

	if opts.StrictMode && !report.OK() {
		return t, report, &BuildConflictError{Report: report}
	}
	return t, report, nil
}

func (t *Table[V]) symbolByIndex(idx int) symbol.Symbol {
	for _, sym := range t.g.Symbols() {
		if sym.Index == idx {
			return sym
		}
	}
	panic(fmt.Sprintf("no such symbol index: %d", idx))
}

// addReduction installs Reduce(rule) at ACTION[state, lookahead], resolving
// a collision with an existing Shift or Reduce entry per §4.8.
func (t *Table[V]) addReduction(stateIdx int, lookahead symbol.Symbol, rule *grammar.Rule[V], report *Report) {
	existing, ok := t.action[stateIdx][lookahead.Index]
	if !ok {
		t.action[stateIdx][lookahead.Index] = Action{Kind: Reduce, Rule: rule.Index}
		return
	}

	switch existing.Kind {
	case Accept:
		// an Accept entry is installed only for @end on an accepting state
		// and is never contested; nothing to do.
		return

	case Reduce:
		// reduce/reduce: keep the earlier-installed rule, report the rest.
		if existing.Rule != rule.Index {
			report.ReduceReduce = append(report.ReduceReduce, ReduceReduceConflict{
				State:     stateIdx,
				Symbol:    lookahead.Name,
				KeptRule:  existing.Rule,
				OtherRule: rule.Index,
			})
		}
		return

	case Shift:
		stackPrec := rule.EffectivePrecedence()
		symPrec := lookahead.Prec

		if stackPrec.Defined && symPrec.Defined {
			if stackPrec.Less(symPrec) {
				return // keep shift
			}
			if stackPrec.Greater(symPrec) {
				t.action[stateIdx][lookahead.Index] = Action{Kind: Reduce, Rule: rule.Index}
				return
			}
			// with both defined, Less or Greater always decides (at equal
			// Level the rule's associativity picks one), so the report +
			// default-shift below is reached only when a side is undefined.
		}

		report.ShiftReduce = append(report.ShiftReduce, ShiftReduceConflict{
			State:     stateIdx,
			Symbol:    lookahead.Name,
			Rule:      rule.Index,
			KeptShift: true,
		})
		// default: keep the shift.
	}
}

// Action returns the ACTION table entry for (state, terminal).
func (t *Table[V]) Action(state int, terminal symbol.Symbol) (Action, bool) {
	m, ok := t.action[state]
	if !ok {
		return Action{}, false
	}
	a, ok := m[terminal.Index]
	return a, ok
}

// GoTo returns the GOTO table entry for (state, nonterminal).
func (t *Table[V]) GoTo(state int, nonterminal symbol.Symbol) (int, bool) {
	m, ok := t.goTo[state]
	if !ok {
		return 0, false
	}
	s, ok := m[nonterminal.Index]
	return s, ok
}

// ExpectedSymbols returns, in declaration order, every terminal with a
// defined ACTION entry at state — the "expected symbol" oracle used by the
// syntax-error formatter and, optionally, REPL hinting (§4.8, §4.13).
func (t *Table[V]) ExpectedSymbols(state int) []symbol.Symbol {
	var out []symbol.Symbol
	entries := t.action[state]
	for _, term := range t.g.Terminals() {
		if _, ok := entries[term.Index]; ok {
			out = append(out, term)
		}
	}
	if _, ok := entries[t.g.End().Index]; ok {
		out = append(out, t.g.End())
	}
	return out
}

// String renders the ACTION/GOTO table as a bordered grid via rosed,
// grounded on the teacher's own LL(1)-table pretty-printer.
func (t *Table[V]) String() string {
	terms := t.g.Terminals()
	terms = append(terms, t.g.End())
	nonterms := t.g.Nonterminals()

	header := []string{"state"}
	for _, s := range terms {
		header = append(header, s.Name)
	}
	for _, s := range nonterms {
		header = append(header, s.Name)
	}

	data := [][]string{header}
	for _, s := range t.a.States() {
		row := []string{fmt.Sprintf("%d", s.Index)}
		for _, term := range terms {
			a, ok := t.Action(s.Index, term)
			if ok {
				row = append(row, a.String())
			} else {
				row = append(row, "")
			}
		}
		for _, nt := range nonterms {
			dest, ok := t.GoTo(s.Index, nt)
			if ok {
				row = append(row, fmt.Sprintf("%d", dest))
			} else {
				row = append(row, "")
			}
		}
		data = append(data, row)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 120, rosed.Options{TableBorders: true}).
		String()
}
