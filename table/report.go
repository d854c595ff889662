package table

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrKindUnresolvedConflict is BuildConflictError's sentinel kind, usable
// with errors.Is, mirroring grammar's ErrKind* / the teacher's serr package.
var ErrKindUnresolvedConflict = errors.New("build has unresolved shift/reduce or reduce/reduce conflicts")

// ShiftReduceConflict records a state/lookahead pair where a Shift was kept
// over a candidate Reduce (or vice versa) without a precedence-based reason
// to prefer one.
type ShiftReduceConflict struct {
	State     int
	Symbol    string
	Rule      int
	KeptShift bool
}

func (c ShiftReduceConflict) String() string {
	kept := "reduce"
	if c.KeptShift {
		kept = "shift"
	}
	return fmt.Sprintf("shift/reduce conflict in state %d on %q (rule %d); kept %s", c.State, c.Symbol, c.Rule, kept)
}

// ReduceReduceConflict records a state/lookahead pair where two different
// rules both wanted to reduce; the rule installed first is kept.
type ReduceReduceConflict struct {
	State      int
	Symbol     string
	KeptRule   int
	OtherRule  int
}

func (c ReduceReduceConflict) String() string {
	return fmt.Sprintf("reduce/reduce conflict in state %d on %q between rule %d and rule %d; kept rule %d", c.State, c.Symbol, c.KeptRule, c.OtherRule, c.KeptRule)
}

// Report enumerates the conflicts found while building a Table (§4.8, §7
// BuildConflict). It is never fatal by itself — the table is fully usable
// with the default resolutions described in §4.8 — unless the caller opts
// into StrictMode (see BuildConflictError).
//
// ID is a correlation identifier a host can log alongside a later runtime
// SyntaxError/TokenizationError to tie a parse failure back to the build
// that produced the table that failed on it.
type Report struct {
	ID             uuid.UUID
	ShiftReduce    []ShiftReduceConflict
	ReduceReduce   []ReduceReduceConflict
}

// OK reports whether the build produced zero conflicts.
func (r *Report) OK() bool {
	return len(r.ShiftReduce) == 0 && len(r.ReduceReduce) == 0
}

func (r *Report) String() string {
	if r.OK() {
		return fmt.Sprintf("report %s: no conflicts", r.ID)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "report %s: %d shift/reduce, %d reduce/reduce conflict(s)\n", r.ID, len(r.ShiftReduce), len(r.ReduceReduce))
	for _, c := range r.ShiftReduce {
		sb.WriteString("  " + c.String() + "\n")
	}
	for _, c := range r.ReduceReduce {
		sb.WriteString("  " + c.String() + "\n")
	}
	return sb.String()
}

// BuildConflictError is returned by Build when StrictMode is requested and
// the report is not OK.
type BuildConflictError struct {
	Report *Report
}

func (e *BuildConflictError) Error() string {
	return "build has unresolved conflicts:\n" + e.Report.String()
}

// Unwrap lets errors.Is(err, ErrKindUnresolvedConflict) succeed without a
// type assertion.
func (e *BuildConflictError) Unwrap() error {
	return ErrKindUnresolvedConflict
}
