package parser

import (
	"github.com/n-lang/ncore/internal/ast"
	"github.com/n-lang/ncore/internal/diag"
	"github.com/n-lang/ncore/internal/lexer"
)

// Parse lexes and parses one source file into an ast.File. On lexical
// failure the returned diagnostic set holds a single entry (the lexer is
// non-restartable, spec §4.1); on parse failure it holds the best
// (furthest-reaching) error from the top-level item loop.
func Parse(text *diag.Text) (*ast.File, *diag.Set) {
	set := diag.NewSet()

	toks, lexErr := lexer.Tokenize(text.Body)
	if lexErr != nil {
		set.Add(toLexDiag(lexErr, text))
		return nil, set
	}
	toks = lexer.FilterWhitespace(toks)

	cur := newCursor(toks)
	f, err := file(cur)
	if err != nil {
		set.Add(toParseDiag(err, text))
		return nil, set
	}
	if cur.peek().Kind != lexer.EndOfInput {
		t := cur.peek()
		set.Add(&diag.Diagnostic{
			Kind: diag.KindExpectedGot, Pos: t.Span.Begin, Source: text,
			Expected: []string{"end of input"}, Got: gotDesc(t),
		})
		return nil, set
	}
	return &f, set
}

func toLexDiag(err error, text *diag.Text) *diag.Diagnostic {
	le, ok := err.(*lexer.Error)
	if !ok {
		return &diag.Diagnostic{Kind: diag.KindCustom, Message: err.Error(), Source: text}
	}
	kind := diag.KindCustom
	var expected []string
	got := ""
	if le.Expected != "" {
		expected = []string{le.Expected}
	}
	if le.Got != 0 {
		got = string(le.Got)
	}
	switch le.Kind {
	case lexer.UnexpectedEnd:
		kind = diag.KindUnexpectedEnd
	default:
		kind = diag.KindExpectedGot
	}
	return &diag.Diagnostic{Kind: kind, Pos: le.Pos, Message: le.Error(), Expected: expected, Got: got, Source: text}
}

func toParseDiag(err *Error, text *diag.Text) *diag.Diagnostic {
	kind := diag.KindExpectedGot
	if err.Unexpected {
		kind = diag.KindUnexpectedEnd
	}
	return &diag.Diagnostic{Kind: kind, Pos: err.Pos, Expected: err.Expected, Got: err.Got, Source: text}
}
