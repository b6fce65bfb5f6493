// Package diag defines the closed diagnostic taxonomy (spec §7) shared by
// the parser and the semantic analyzer, and renders diagnostics against
// source text.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/n-lang/ncore/internal/lexer"
	"go.uber.org/multierr"
)

// Kind is the closed set of parse/semantic error kinds from spec §7.
type Kind string

const (
	// Parse
	KindUnexpectedEnd Kind = "unexpected_end"
	KindExpectedGot    Kind = "expected_got"
	KindCustom         Kind = "custom"

	// Semantic
	KindUnresolvedItem             Kind = "unresolved_item"
	KindSuperOfRoot                Kind = "super_of_root"
	KindItemNameNotSpecified       Kind = "item_name_not_specified"
	KindDuplicateDefinition        Kind = "duplicate_definition"
	KindExpectedItemOfAnotherType  Kind = "expected_item_of_another_type"
	KindNotInScope                 Kind = "not_in_scope"
	KindVariableTypeUnknown        Kind = "variable_type_unknown"
	KindWrongProperty              Kind = "wrong_property"
	KindCannotCastType              Kind = "cannot_cast_type"
	KindWrongArgumentsCount        Kind = "wrong_arguments_count"
	KindNotAllowedHere             Kind = "not_allowed_here"
	KindNotAllowedInside           Kind = "not_allowed_inside"
	KindCannotModifyReadonlyVariable Kind = "cannot_modify_readonly_variable"
	KindCannotDoWithDatasource      Kind = "cannot_do_with_datasource"
	KindValueListWithWrongLength    Kind = "value_list_with_wrong_length"
	KindSelectWithWrongColumnCount  Kind = "select_with_wrong_column_count"
	KindExpectedExpressionOfAnotherType Kind = "expected_expression_of_another_type"
	KindNotSupportedYet             Kind = "not_supported_yet"
	KindOperatorNotApplicable       Kind = "operator_not_applicable"
)

// Diagnostic is one error, carrying the position it arose at (or a span),
// its kind, a human message, and optionally the Text it came from so the
// renderer can show source context.
type Diagnostic struct {
	Kind     Kind
	Pos      lexer.Position
	Message  string
	Expected []string // ExpectedGot / UnexpectedEnd: union of expected token descriptions
	Got      string

	Source *Text
}

func (d *Diagnostic) Error() string {
	if len(d.Expected) > 0 {
		return fmt.Sprintf("%s: expected %s, got %s", d.Pos, strings.Join(d.Expected, " or "), d.Got)
	}
	return fmt.Sprintf("%s: %s", d.Pos, d.Message)
}

// key identifies diagnostics that should merge their Expected sets: same
// position, same kind (spec §4.2/§7: "errors at the same position with the
// same kind merge their expected sets").
type key struct {
	offset int
	kind   Kind
}

// Set accumulates diagnostics for one pass, merging duplicates by (position,
// kind) and otherwise preserving insertion order; All() sorts by position
// only for human display, per spec §4.2.
type Set struct {
	order []key
	byKey map[key]*Diagnostic
	plain []*Diagnostic // kinds that never merge (most semantic kinds)
}

func NewSet() *Set {
	return &Set{byKey: make(map[key]*Diagnostic)}
}

func (s *Set) Add(d *Diagnostic) {
	if d.Kind == KindExpectedGot || d.Kind == KindUnexpectedEnd {
		k := key{offset: d.Pos.Offset, kind: d.Kind}
		if existing, ok := s.byKey[k]; ok {
			existing.Expected = mergeExpected(existing.Expected, d.Expected)
			return
		}
		s.byKey[k] = d
		s.order = append(s.order, k)
		return
	}
	s.plain = append(s.plain, d)
}

func mergeExpected(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	out := make([]string, 0, len(a)+len(b))
	for _, x := range a {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	for _, x := range b {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	return out
}

// Empty reports whether the set holds no diagnostics.
func (s *Set) Empty() bool { return len(s.order) == 0 && len(s.plain) == 0 }

// All returns every diagnostic, sorted by source position for display.
// Sort is not used for "which bug to fix first" (spec §4.2): any single
// diagnostic is sufficient for that.
func (s *Set) All() []*Diagnostic {
	out := make([]*Diagnostic, 0, len(s.order)+len(s.plain))
	for _, k := range s.order {
		out = append(out, s.byKey[k])
	}
	out = append(out, s.plain...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Pos.Offset < out[j].Pos.Offset
	})
	return out
}

// AsError folds the set into a single multierr-combined error, or nil if
// empty. go.uber.org/multierr gives callers the usual errors.Is/As over the
// combined value while preserving every individual diagnostic.
func (s *Set) AsError() error {
	var err error
	for _, d := range s.All() {
		err = multierr.Append(err, d)
	}
	return err
}
