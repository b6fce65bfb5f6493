package parser

import (
	"strconv"

	"github.com/n-lang/ncore/internal/ast"
	"github.com/n-lang/ncore/internal/lexer"
)

func u32Literal(c *cursor) (int, *Error) {
	t, err := token(c, lexer.NumberLiteral)
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(t.Text)
	if convErr != nil || n < 0 {
		return 0, &Error{Pos: t.Span.Begin, Expected: []string{"an unsigned integer"}, Got: gotDesc(t)}
	}
	return n, nil
}

// singleSize parses an optional `(N)` size suffix.
func singleSize(c *cursor) *int {
	v, ok := opt(c, func(c *cursor) (int, *Error) {
		return wrap(c, sym("("), u32Literal, sym(")"))
	})
	if !ok {
		return nil
	}
	return &v
}

func unsignedZerofill(c *cursor) (bool, bool) {
	_, unsigned := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "unsigned") })
	_, zerofill := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "zerofill") })
	return unsigned, zerofill
}

// primitiveType parses spec §4.3's primitive grammar.
func primitiveType(c *cursor) (ast.PrimitiveType, *Error) {
	start := c.peek().Span.Begin

	if _, err := keyword(c, "bit"); err == nil {
		size := singleSize(c)
		return ast.PrimitiveType{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.PrimitiveNumber, Number: ast.NumberBit, Size: size}, nil
	}
	if _, err := keyword(c, "boolean"); err == nil {
		return ast.PrimitiveType{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.PrimitiveNumber, Number: ast.NumberBoolean}, nil
	}

	if pt, ok := opt(c, integerType); ok {
		return pt, nil
	}
	if pt, ok := opt(c, decimalType); ok {
		return pt, nil
	}
	if pt, ok := opt(c, floatOrDouble); ok {
		return pt, nil
	}
	if pt, ok := opt(c, dateTimeType); ok {
		return pt, nil
	}
	if pt, ok := opt(c, yearType); ok {
		return pt, nil
	}
	if pt, ok := opt(c, stringType); ok {
		return pt, nil
	}

	t := c.peek()
	return ast.PrimitiveType{}, &Error{Pos: t.Span.Begin, Expected: []string{"a primitive type"}, Got: gotDesc(t)}
}

func integerType(c *cursor) (ast.PrimitiveType, *Error) {
	start := c.peek().Span.Begin
	unsigned, zerofill := unsignedZerofill(c)
	size := 32
	if word, err := multiKeyword(c, "tiny", "small", "medium", "big"); err == nil {
		switch word {
		case "tiny":
			size = 8
		case "small":
			size = 16
		case "medium":
			size = 24
		case "big":
			size = 64
		}
	}
	if _, err := keyword(c, "integer"); err != nil {
		return ast.PrimitiveType{}, err
	}
	return ast.PrimitiveType{
		Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.PrimitiveNumber, Number: ast.NumberInteger,
		Size: &size, Unsigned: unsigned, Zerofill: zerofill,
	}, nil
}

func decimalType(c *cursor) (ast.PrimitiveType, *Error) {
	start := c.peek().Span.Begin
	unsigned, zerofill := unsignedZerofill(c)
	if _, err := keyword(c, "decimal"); err != nil {
		return ast.PrimitiveType{}, err
	}
	var size, scale *int
	if pair, ok := opt(c, func(c *cursor) ([2]*int, *Error) {
		return wrap(c, sym("("), func(c *cursor) ([2]*int, *Error) {
			a, err := u32Literal(c)
			if err != nil {
				return [2]*int{}, err
			}
			var b *int
			if bv, ok := opt(c, func(c *cursor) (int, *Error) {
				if _, err := exactToken(c, lexer.SymbolGroup, ","); err != nil {
					return 0, err
				}
				return u32Literal(c)
			}); ok {
				b = &bv
			}
			return [2]*int{&a, b}, nil
		}, sym(")"))
	}); ok {
		size, scale = pair[0], pair[1]
	}
	return ast.PrimitiveType{
		Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.PrimitiveNumber, Number: ast.NumberDecimal,
		Size: size, Scale: scale, Unsigned: unsigned, Zerofill: zerofill,
	}, nil
}

func floatSize(c *cursor) (*int, *int) {
	pair, ok := opt(c, func(c *cursor) ([2]int, *Error) {
		return wrap(c, sym("("), func(c *cursor) ([2]int, *Error) {
			a, err := u32Literal(c)
			if err != nil {
				return [2]int{}, err
			}
			if _, err := exactToken(c, lexer.SymbolGroup, ","); err != nil {
				return [2]int{}, err
			}
			b, err := u32Literal(c)
			if err != nil {
				return [2]int{}, err
			}
			return [2]int{a, b}, nil
		}, sym(")"))
	})
	if !ok {
		return nil, nil
	}
	return &pair[0], &pair[1]
}

func floatOrDouble(c *cursor) (ast.PrimitiveType, *Error) {
	start := c.peek().Span.Begin
	word, err := multiKeyword(c, "float", "double")
	if err != nil {
		return ast.PrimitiveType{}, err
	}
	size, scale := floatSize(c)
	kind := ast.NumberFloat
	if word == "double" {
		kind = ast.NumberDouble
	}
	return ast.PrimitiveType{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.PrimitiveNumber, Number: kind, Size: size, Scale: scale}, nil
}

var dateTimeKinds = map[string]ast.DateTimeKind{
	"date": ast.DTDate, "time": ast.DTTime, "datetime": ast.DTDatetime, "timestamp": ast.DTTimestamp,
}

func dateTimeType(c *cursor) (ast.PrimitiveType, *Error) {
	start := c.peek().Span.Begin
	word, err := multiKeyword(c, "date", "time", "datetime", "timestamp")
	if err != nil {
		return ast.PrimitiveType{}, err
	}
	kind := dateTimeKinds[word]
	if kind == ast.DTDate {
		return ast.PrimitiveType{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.PrimitiveDateTime, DateTime: kind}, nil
	}
	p := singleSize(c)
	return ast.PrimitiveType{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.PrimitiveDateTime, DateTime: kind, Precision: p}, nil
}

func yearType(c *cursor) (ast.PrimitiveType, *Error) {
	start := c.peek().Span.Begin
	if _, err := keyword(c, "year4"); err == nil {
		return ast.PrimitiveType{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.PrimitiveYear, Year: ast.Year4}, nil
	}
	if _, err := keyword(c, "year2"); err == nil {
		return ast.PrimitiveType{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.PrimitiveYear, Year: ast.Year2}, nil
	}
	if _, err := keyword(c, "year"); err == nil {
		return ast.PrimitiveType{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.PrimitiveYear, Year: ast.Year4}, nil
	}
	t := c.peek()
	return ast.PrimitiveType{}, &Error{Pos: t.Span.Begin, Expected: []string{"'year'"}, Got: gotDesc(t)}
}

func characterSet(c *cursor) (ast.CharacterSet, *Error) {
	if _, err := keyword(c, "character"); err != nil {
		return ast.CharSetNone, err
	}
	if _, err := keyword(c, "set"); err != nil {
		return ast.CharSetNone, err
	}
	word, err := multiKeyword(c, "binary", "utf8")
	if err != nil {
		return ast.CharSetNone, err
	}
	if word == "binary" {
		return ast.CharSetBinary, nil
	}
	return ast.CharSetUTF8, nil
}

func stringType(c *cursor) (ast.PrimitiveType, *Error) {
	start := c.peek().Span.Begin
	if _, err := keyword(c, "varchar"); err == nil {
		size, werr := wrap(c, sym("("), u32Literal, sym(")"))
		if werr != nil {
			return ast.PrimitiveType{}, werr
		}
		cs, _ := opt(c, characterSet)
		return ast.PrimitiveType{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.PrimitiveString, IsText: false, Size: &size, Charset: cs}, nil
	}
	if _, err := keyword(c, "text"); err == nil {
		cs, _ := opt(c, characterSet)
		return ast.PrimitiveType{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.PrimitiveString, IsText: true, Charset: cs}, nil
	}
	t := c.peek()
	return ast.PrimitiveType{}, &Error{Pos: t.Span.Begin, Expected: []string{"'varchar'", "'text'"}, Got: gotDesc(t)}
}

// --- compound & reference types ---

func attribute(c *cursor) (ast.Attribute, *Error) {
	start := c.peek().Span.Begin
	if _, err := exactToken(c, lexer.SymbolGroup, "#["); err != nil {
		return ast.Attribute{}, err
	}
	name, err := token(c, lexer.Word)
	if err != nil {
		return ast.Attribute{}, err
	}
	var args []string
	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return exactToken(c, lexer.SymbolGroup, "(") }); ok {
		args = list(c, func(c *cursor) (string, *Error) {
			t, err := token(c, lexer.Word)
			return t.Text, err
		}, sym(","))
		if _, err := exactToken(c, lexer.SymbolGroup, ")"); err != nil {
			return ast.Attribute{}, err
		}
	}
	if _, err := exactToken(c, lexer.SymbolGroup, "]"); err != nil {
		return ast.Attribute{}, err
	}
	return ast.Attribute{Meta: ast.Meta{Pos: c.spanFrom(start)}, Name: name.Text, Args: args}, nil
}

// adjacentAttributes greedily parses zero or more attributes with no delimiter.
func adjacentAttributes(c *cursor) []ast.Attribute {
	var out []ast.Attribute
	for {
		a, ok := opt(c, attribute)
		if !ok {
			return out
		}
		out = append(out, a)
	}
}

func structField(c *cursor) (ast.Field, *Error) {
	start := c.peek().Span.Begin
	attrs := adjacentAttributes(c)
	name, err := token(c, lexer.Word)
	if err != nil {
		return ast.Field{}, err
	}
	if _, err := exactToken(c, lexer.SymbolGroup, ":"); err != nil {
		return ast.Field{}, err
	}
	ty, err := dataType(c)
	if err != nil {
		return ast.Field{}, err
	}
	return ast.Field{Meta: ast.Meta{Pos: c.spanFrom(start)}, Attributes: attrs, Name: name.Text, Type: ty}, nil
}

func tupleField(c *cursor) (ast.Field, *Error) {
	start := c.peek().Span.Begin
	attrs := adjacentAttributes(c)
	ty, err := dataType(c)
	if err != nil {
		return ast.Field{}, err
	}
	return ast.Field{Meta: ast.Meta{Pos: c.spanFrom(start)}, Attributes: attrs, Type: ty}, nil
}

// compoundType decides struct-vs-tuple by its opening delimiter alone, then
// commits: a malformed field inside must surface its own error rather than
// being swallowed by a fallback attempt at the other form.
func compoundType(c *cursor) (ast.CompoundType, *Error) {
	start := c.peek().Span.Begin
	switch {
	case c.peek().Kind == lexer.SymbolGroup && c.peek().Text == "{":
		fields, err := wrap(c, sym("{"), func(c *cursor) ([]ast.Field, *Error) {
			return list(c, structField, sym(",")), nil
		}, sym("}"))
		if err != nil {
			return ast.CompoundType{}, err
		}
		return ast.CompoundType{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.CompoundStructure, Fields: fields}, nil
	case c.peek().Kind == lexer.SymbolGroup && c.peek().Text == "(":
		fields, err := wrap(c, sym("("), func(c *cursor) ([]ast.Field, *Error) {
			return list(c, tupleField, sym(",")), nil
		}, sym(")"))
		if err != nil {
			return ast.CompoundType{}, err
		}
		return ast.CompoundType{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.CompoundTuple, Fields: fields}, nil
	default:
		t := c.peek()
		return ast.CompoundType{}, &Error{Pos: t.Span.Begin, Expected: []string{"'{'", "'('"}, Got: gotDesc(t)}
	}
}

// modulePath parses a "::"-delimited identifier path (also used for
// property/module references).
func modulePath(c *cursor) (ast.Path, *Error) {
	start := c.peek().Span.Begin
	first, err := token(c, lexer.Word)
	if err != nil {
		return ast.Path{}, err
	}
	comps := []string{first.Text}
	for {
		mark := c.mark()
		if _, err := exactToken(c, lexer.SymbolGroup, "::"); err != nil {
			c.reset(mark)
			break
		}
		next, err := token(c, lexer.Word)
		if err != nil {
			c.reset(mark)
			break
		}
		comps = append(comps, next.Text)
	}
	return ast.NewPath(c.spanFrom(start), "::", comps...), nil
}

// dataType parses one base type, then zero or more trailing `[]` array
// suffixes (spec §4.3: arrays are transparent wrappers over their element).
func dataType(c *cursor) (ast.TypeExpr, *Error) {
	base, err := baseDataType(c)
	if err != nil {
		return ast.TypeExpr{}, err
	}
	for {
		mark := c.mark()
		if _, err := exactToken(c, lexer.SymbolGroup, "[]"); err != nil {
			c.reset(mark)
			return base, nil
		}
		elem := base
		base = ast.TypeExpr{Meta: ast.Meta{Pos: c.spanFrom(base.Pos.Begin)}, Kind: ast.TypeArray, Element: &elem}
	}
}

func baseDataType(c *cursor) (ast.TypeExpr, *Error) {
	start := c.peek().Span.Begin
	if ct, ok := opt(c, compoundType); ok {
		return ast.TypeExpr{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.TypeCompound, Compound: &ct}, nil
	}
	if pt, ok := opt(c, primitiveType); ok {
		return ast.TypeExpr{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.TypePrimitive, Primitive: &pt}, nil
	}
	if p, ok := opt(c, modulePath); ok {
		return ast.TypeExpr{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.TypeReference, Reference: &p}, nil
	}
	t := c.peek()
	return ast.TypeExpr{}, &Error{Pos: t.Span.Begin, Expected: []string{"a data type"}, Got: gotDesc(t)}
}
