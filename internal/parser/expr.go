package parser

import (
	"github.com/n-lang/ncore/internal/ast"
	"github.com/n-lang/ncore/internal/lexer"
)

// matchOp tries, in order, a symbol spelling and then a keyword spelling
// (possibly itself two adjacent words, e.g. "sounds like"), returning the
// canonical operator text on success without advancing on failure.
func matchOp(c *cursor, sym_ string, words ...string) (string, bool) {
	mark := c.mark()
	if sym_ != "" {
		if _, err := exactToken(c, lexer.SymbolGroup, sym_); err == nil {
			switch sym_ { // symbol spellings of the keyword operators
			case "||":
				return "or", true
			case "^^":
				return "xor", true
			case "&&":
				return "and", true
			}
			return sym_, true
		}
		c.reset(mark)
	}
	if len(words) > 0 {
		ok := true
		for _, w := range words {
			if _, err := keyword(c, w); err != nil {
				ok = false
				break
			}
		}
		if ok {
			canon := words[0]
			for _, w := range words[1:] {
				canon += " " + w
			}
			return canon, true
		}
		c.reset(mark)
	}
	return "", false
}

// binLevel folds left-associatively over `next`, trying each spelling in
// `ops` at every step; exactly one of sym/words is set per spelling.
type opSpelling struct {
	sym   string
	words []string
}

func binLevel(c *cursor, next parserFn[*ast.Expr], rightAssoc bool, ops ...opSpelling) (*ast.Expr, *Error) {
	left, err := next(c)
	if err != nil {
		return nil, err
	}
	if rightAssoc {
		opPos := c.peek().Span.Begin
		for _, spec := range ops {
			if op, ok := matchOp(c, spec.sym, spec.words...); ok {
				right, err := binLevel(c, next, rightAssoc, ops...) // right-recurse
				if err != nil {
					return nil, err
				}
				return mkBinary(left, op, opPos, right), nil
			}
		}
		return left, nil
	}
	for {
		opPos := c.peek().Span.Begin
		matched := ""
		for _, spec := range ops {
			if op, ok := matchOp(c, spec.sym, spec.words...); ok {
				matched = op
				break
			}
		}
		if matched == "" {
			return left, nil
		}
		right, err := next(c)
		if err != nil {
			return nil, err
		}
		left = mkBinary(left, matched, opPos, right)
	}
}

func mkBinary(left *ast.Expr, op string, opPos lexer.Position, right *ast.Expr) *ast.Expr {
	span := ast.ItemPosition{Begin: left.Span().Begin, End: right.Span().End}
	e := &ast.Expr{Meta: ast.Meta{Pos: span}, Kind: ast.ExprBinary}
	e.Binary.Op = op
	e.Binary.OpPos = ast.ItemPosition{Begin: opPos, End: opPos}
	e.Binary.Left = left
	e.Binary.Right = right
	return e
}

// parseExpr is the precedence-table entry point (spec §4.2), lowest
// precedence first; each level folds left except `**` which is
// right-associative.
func parseExpr(c *cursor) (*ast.Expr, *Error) {
	return level1(c)
}

func level1(c *cursor) (*ast.Expr, *Error) { // or, ||
	return binLevel(c, level2, false, opSpelling{sym: "||"}, opSpelling{words: []string{"or"}})
}
func level2(c *cursor) (*ast.Expr, *Error) { // xor, ^^
	return binLevel(c, level3, false, opSpelling{sym: "^^"}, opSpelling{words: []string{"xor"}})
}
func level3(c *cursor) (*ast.Expr, *Error) { // and, &&
	return binLevel(c, level4, false, opSpelling{sym: "&&"}, opSpelling{words: []string{"and"}})
}
func level4(c *cursor) (*ast.Expr, *Error) { // |
	return binLevel(c, level5, false, opSpelling{sym: "|"})
}
func level5(c *cursor) (*ast.Expr, *Error) { // ^
	return binLevel(c, level6, false, opSpelling{sym: "^"})
}
func level6(c *cursor) (*ast.Expr, *Error) { // &
	return binLevel(c, level7, false, opSpelling{sym: "&"})
}
func level7(c *cursor) (*ast.Expr, *Error) { // << >>
	return binLevel(c, level8, false, opSpelling{sym: "<<"}, opSpelling{sym: ">>"})
}
func level8(c *cursor) (*ast.Expr, *Error) { // is in
	return binLevel(c, level9, false, opSpelling{words: []string{"is", "in"}})
}
func level9(c *cursor) (*ast.Expr, *Error) { // = >= > <= <
	return binLevel(c, level10, false,
		opSpelling{sym: ">="}, opSpelling{sym: "<="}, opSpelling{sym: "="},
		opSpelling{sym: ">"}, opSpelling{sym: "<"})
}
func level10(c *cursor) (*ast.Expr, *Error) { // like, sounds like, regexp
	return binLevel(c, level11, false,
		opSpelling{words: []string{"sounds", "like"}},
		opSpelling{words: []string{"like"}},
		opSpelling{words: []string{"regexp"}})
}
func level11(c *cursor) (*ast.Expr, *Error) { // + -
	return binLevel(c, level12, false, opSpelling{sym: "+"}, opSpelling{sym: "-"})
}
func level12(c *cursor) (*ast.Expr, *Error) { // * / mod % div
	return binLevel(c, level13, false,
		opSpelling{sym: "*"}, opSpelling{sym: "/"},
		opSpelling{words: []string{"mod"}}, opSpelling{sym: "%"}, opSpelling{words: []string{"div"}})
}
func level13(c *cursor) (*ast.Expr, *Error) { // ** right-assoc
	return binLevel(c, level14, true, opSpelling{sym: "**"})
}
func level14(c *cursor) (*ast.Expr, *Error) { // .. highest binary level
	return binLevel(c, unaryExpr, false, opSpelling{sym: ".."})
}

var prefixOps = map[string]bool{
	"!": true, "all": true, "any": true, "+": true, "-": true, "~": true,
	"binary": true, "row": true, "exists": true,
}

// unaryExpr parses the prefix-operator stack, then hands off to postfix.
func unaryExpr(c *cursor) (*ast.Expr, *Error) {
	start := c.peek().Span.Begin
	t := c.peek()
	var op string
	switch {
	case t.Kind == lexer.SymbolGroup && prefixOps[t.Text]:
		op = t.Text
	case t.Kind == lexer.Word && prefixOps[toLower(t.Text)]:
		op = toLower(t.Text)
	}
	if op != "" {
		c.advance()
		operand, err := unaryExpr(c)
		if err != nil {
			return nil, err
		}
		e := &ast.Expr{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.ExprPrefix}
		e.Prefix.Op = op
		e.Prefix.Operand = operand
		return e, nil
	}
	return postfixExpr(c)
}

func toLower(s string) string {
	b := []byte(s)
	for i, ch := range b {
		if ch >= 'A' && ch <= 'Z' {
			b[i] = ch + 32
		}
	}
	return string(b)
}

var postfixWhats = []string{"null", "true", "false", "unknown"}

// postfixExpr parses a primary then zero or more `.prop` accesses and/or a
// trailing `is [not] {null|true|false|unknown}` (spec §4.2).
func postfixExpr(c *cursor) (*ast.Expr, *Error) {
	start := c.peek().Span.Begin
	base, err := primaryExpr(c)
	if err != nil {
		return nil, err
	}
	for {
		mark := c.mark()
		if _, err := exactToken(c, lexer.SymbolGroup, "."); err == nil {
			prop, err := token(c, lexer.Word)
			if err != nil {
				c.reset(mark)
				break
			}
			e := &ast.Expr{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.ExprPath}
			e.Path.Base = base
			if base.Kind == ast.ExprPath { // keep the root; Props holds every step from it
				e.Path.Base = base.Path.Base
			}
			e.Path.Props = append(append([]string{}, pathPropsOf(base)...), prop.Text)
			base = e
			continue
		}
		c.reset(mark)
		break
	}
	for {
		mark := c.mark()
		if _, err := keyword(c, "is"); err != nil {
			c.reset(mark)
			break
		}
		negated := false
		if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "not") }); ok {
			negated = true
		}
		word, err := multiKeyword(c, postfixWhats...)
		if err != nil {
			c.reset(mark)
			break
		}
		e := &ast.Expr{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.ExprPostfix}
		e.Postfix.Negated = negated
		e.Postfix.What = word
		e.Postfix.Operand = base
		base = e
	}
	return base, nil
}

func pathPropsOf(e *ast.Expr) []string {
	if e.Kind == ast.ExprPath {
		return e.Path.Props
	}
	return nil
}

// primaryExpr parses literals, identifiers/calls/paths, and parenthesized
// sub-expressions.
func primaryExpr(c *cursor) (*ast.Expr, *Error) {
	start := c.peek().Span.Begin

	if lit, ok := opt(c, literalExpr); ok {
		return &ast.Expr{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.ExprLiteral, Literal: &lit}, nil
	}

	if e, ok := opt(c, func(c *cursor) (*ast.Expr, *Error) {
		return wrap(c, sym("("), parseExpr, sym(")"))
	}); ok {
		return e, nil
	}

	if sel, ok := opt(c, func(c *cursor) (ast.Select, *Error) { return selectQuery(c) }); ok {
		return &ast.Expr{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.ExprSelect, Select: &sel}, nil
	}

	path, err := modulePath(c)
	if err != nil {
		return nil, err
	}
	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return exactToken(c, lexer.SymbolGroup, "(") }); ok {
		args := list(c, parseExpr, sym(","))
		if _, err := exactToken(c, lexer.SymbolGroup, ")"); err != nil {
			return nil, err
		}
		e := &ast.Expr{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.ExprCall}
		e.Call.Callee = path
		e.Call.Args = args
		return e, nil
	}
	if path.Len() == 1 {
		return &ast.Expr{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.ExprIdent, Ident: path.First()}, nil
	}
	e := &ast.Expr{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.ExprPath}
	first := path.First()
	e.Path.Base = &ast.Expr{Meta: ast.Meta{Pos: ast.ItemPosition{Begin: start, End: start}}, Kind: ast.ExprIdent, Ident: first}
	e.Path.Props = path.Components[1:]
	return e, nil
}

func literalExpr(c *cursor) (ast.Literal, *Error) {
	t := c.peek()
	switch {
	case t.Kind == lexer.NumberLiteral:
		c.advance()
		return ast.Literal{
			TextMeta: ast.TextMeta{Meta: ast.Meta{Pos: t.Span}, Text: t.Text},
			Kind:     ast.LitNumber, Negative: t.Number.Negative, Fractional: t.Number.Fractional,
			Radix: t.Number.Radix, ApproxValue: t.Number.ApproxValue,
		}, nil
	case t.Kind == lexer.StringLiteral:
		c.advance()
		return ast.Literal{TextMeta: ast.TextMeta{Meta: ast.Meta{Pos: t.Span}, Text: t.Text}, Kind: ast.LitString, Length: t.Str.Length}, nil
	case t.Kind == lexer.BracedExpressionLiteral:
		c.advance()
		return ast.Literal{TextMeta: ast.TextMeta{Meta: ast.Meta{Pos: t.Span}, Text: t.Text}, Kind: ast.LitBraced, Length: t.Str.Length}, nil
	case t.Kind == lexer.Word && strEqualFold(t.Text, "true"):
		c.advance()
		return ast.Literal{TextMeta: ast.TextMeta{Meta: ast.Meta{Pos: t.Span}, Text: t.Text}, Kind: ast.LitTrue}, nil
	case t.Kind == lexer.Word && strEqualFold(t.Text, "false"):
		c.advance()
		return ast.Literal{TextMeta: ast.TextMeta{Meta: ast.Meta{Pos: t.Span}, Text: t.Text}, Kind: ast.LitFalse}, nil
	case t.Kind == lexer.Word && strEqualFold(t.Text, "null"):
		c.advance()
		return ast.Literal{TextMeta: ast.TextMeta{Meta: ast.Meta{Pos: t.Span}, Text: t.Text}, Kind: ast.LitNull}, nil
	}
	return ast.Literal{}, &Error{Pos: t.Span.Begin, Expected: []string{"a literal"}, Got: gotDesc(t)}
}

func strEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return toLower(a) == toLower(b)
}
