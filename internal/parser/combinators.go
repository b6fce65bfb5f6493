package parser

import (
	"strings"

	"github.com/n-lang/ncore/internal/lexer"
)

// token matches one token of the given kind, advancing on success.
func token(c *cursor, kind lexer.Kind) (lexer.Token, *Error) {
	t := c.peek()
	if t.Kind != kind {
		return lexer.Token{}, &Error{Pos: t.Span.Begin, Expected: []string{tokenDesc(kind, "")}, Got: gotDesc(t), Unexpected: t.Kind == lexer.EndOfInput}
	}
	return c.advance(), nil
}

// exactToken matches one token of the given kind with exact text (used for
// fixed symbols and punctuation).
func exactToken(c *cursor, kind lexer.Kind, text string) (lexer.Token, *Error) {
	t := c.peek()
	if t.Kind != kind || t.Text != text {
		return lexer.Token{}, &Error{Pos: t.Span.Begin, Expected: []string{tokenDesc(kind, text)}, Got: gotDesc(t), Unexpected: t.Kind == lexer.EndOfInput}
	}
	return c.advance(), nil
}

// keyword matches a Word token case-insensitively.
func keyword(c *cursor, text string) (lexer.Token, *Error) {
	t := c.peek()
	if t.Kind != lexer.Word || !strings.EqualFold(t.Text, text) {
		return lexer.Token{}, &Error{Pos: t.Span.Begin, Expected: []string{"'" + text + "'"}, Got: gotDesc(t), Unexpected: t.Kind == lexer.EndOfInput}
	}
	return c.advance(), nil
}

// multiKeyword matches any of several case-insensitive keywords, returning
// which one matched.
func multiKeyword(c *cursor, options ...string) (string, *Error) {
	t := c.peek()
	if t.Kind == lexer.Word {
		for _, opt := range options {
			if strings.EqualFold(t.Text, opt) {
				c.advance()
				return opt, nil
			}
		}
	}
	expected := make([]string, len(options))
	for i, o := range options {
		expected[i] = "'" + o + "'"
	}
	return "", &Error{Pos: t.Span.Begin, Expected: expected, Got: gotDesc(t), Unexpected: t.Kind == lexer.EndOfInput}
}

// parserFn[T] is the generic combinator signature (spec §4.2): takes a
// cursor, returns a value or an error; a failed parser must not have
// advanced the cursor (callers use opt/alt to guarantee this by resetting
// to a saved mark).
type parserFn[T any] func(*cursor) (T, *Error)

// opt never fails: it returns (value, true) on success or (zero, false)
// with the cursor restored on failure.
func opt[T any](c *cursor, p parserFn[T]) (T, bool) {
	mark := c.mark()
	v, err := p(c)
	if err != nil {
		c.reset(mark)
		var zero T
		return zero, false
	}
	return v, true
}

// list is greedy and never fails: it parses zero or more `element`
// separated by `delim`, with an optional trailing delimiter.
func list[T any](c *cursor, element parserFn[T], delim func(*cursor) *Error) []T {
	var out []T
	first, ok := opt(c, element)
	if !ok {
		return out
	}
	out = append(out, first)
	for {
		mark := c.mark()
		if delim(c) != nil {
			c.reset(mark)
			break
		}
		next, ok := opt(c, element)
		if !ok {
			break // trailing delimiter: consumed, the list ends here
		}
		out = append(out, next)
	}
	return out
}

// wrap demands both braces around one element.
func wrap[T any](c *cursor, open func(*cursor) *Error, element parserFn[T], close func(*cursor) *Error) (T, *Error) {
	var zero T
	if err := open(c); err != nil {
		return zero, err
	}
	v, err := element(c)
	if err != nil {
		return zero, err
	}
	if err := close(c); err != nil {
		return zero, err
	}
	return v, nil
}

// sym builds a `func(*cursor) *Error` for exactToken(SymbolGroup, text), the
// shape `list`/`wrap` want for their delimiter/brace arguments.
func sym(text string) func(*cursor) *Error {
	return func(c *cursor) *Error {
		_, err := exactToken(c, lexer.SymbolGroup, text)
		return err
	}
}

func kw(text string) func(*cursor) *Error {
	return func(c *cursor) *Error {
		_, err := keyword(c, text)
		return err
	}
}

// alt tries each branch in order (first-match), returning the first
// success; on total failure it reports the union of every branch's
// expected set at the deepest position reached (spec §4.2).
func alt[T any](c *cursor, branches ...parserFn[T]) (T, *Error) {
	var zero T
	var group errorGroup
	for _, b := range branches {
		mark := c.mark()
		v, err := b(c)
		if err == nil {
			return v, nil
		}
		group.add(err)
		c.reset(mark)
	}
	return zero, group.best()
}
