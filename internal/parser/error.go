package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/n-lang/ncore/internal/lexer"
)

// Error is a single parse failure: the position it arose at, what was
// expected there, and what was actually found (spec §4.2/§7).
type Error struct {
	Pos      lexer.Position
	Expected []string
	Got      string
	Unexpected bool // true => ran out of tokens (UnexpectedEnd), not ExpectedGot
}

func (e *Error) Error() string {
	if e.Unexpected {
		return fmt.Sprintf("%s: unexpected end of input, expected %s", e.Pos, strings.Join(e.Expected, " or "))
	}
	return fmt.Sprintf("%s: expected %s, got %s", e.Pos, strings.Join(e.Expected, " or "), e.Got)
}

// merge combines two errors at the same position by unioning their
// Expected sets (spec §4.2). Errors at different positions are not merged
// here — see errorGroup for multi-position accumulation across alternation
// branches.
func (e *Error) merge(other *Error) *Error {
	if other == nil {
		return e
	}
	if e == nil {
		return other
	}
	if e.Pos.Offset != other.Pos.Offset {
		// Ordered-choice tie-break: the error from whichever branch got
		// furthest is more informative; keep it, the rest is reported via
		// errorGroup at the call site that collects per-branch errors.
		if other.Pos.Offset > e.Pos.Offset {
			return other
		}
		return e
	}
	seen := make(map[string]bool, len(e.Expected))
	merged := make([]string, 0, len(e.Expected)+len(other.Expected))
	for _, x := range e.Expected {
		if !seen[x] {
			seen[x] = true
			merged = append(merged, x)
		}
	}
	for _, x := range other.Expected {
		if !seen[x] {
			seen[x] = true
			merged = append(merged, x)
		}
	}
	return &Error{Pos: e.Pos, Expected: merged, Got: e.Got, Unexpected: e.Unexpected && other.Unexpected}
}

// errorGroup collects every branch's error during an alternation so all of
// them can be reported even though only the deepest is used for recovery
// decisions (spec §4.2: "the group is sorted by position for human display").
type errorGroup struct {
	errs []*Error
}

func (g *errorGroup) add(e *Error) {
	if e == nil {
		return
	}
	g.errs = append(g.errs, e)
}

// best returns the merged, furthest-reaching error — "any single error is
// sufficient for which bug to fix first" (spec §4.2).
func (g *errorGroup) best() *Error {
	var best *Error
	for _, e := range g.errs {
		best = best.merge(e)
	}
	return best
}

// sorted returns every distinct error, ordered by position, for display.
func (g *errorGroup) sorted() []*Error {
	out := append([]*Error(nil), g.errs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Pos.Offset < out[j].Pos.Offset })
	return out
}

func tokenDesc(k lexer.Kind, text string) string {
	if text != "" {
		return fmt.Sprintf("%q", text)
	}
	return k.String()
}

func gotDesc(t lexer.Token) string {
	if t.Kind == lexer.EndOfInput {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Text)
}
