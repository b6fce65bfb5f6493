package parser

import (
	"github.com/n-lang/ncore/internal/ast"
	"github.com/n-lang/ncore/internal/lexer"
)

func structItem(c *cursor) (ast.Item, *Error) {
	start := c.peek().Span.Begin
	if _, err := keyword(c, "struct"); err != nil {
		return ast.Item{}, err
	}
	name, err := ident(c)
	if err != nil {
		return ast.Item{}, err
	}
	ct, err := compoundType(c)
	if err != nil {
		return ast.Item{}, err
	}
	if ct.Kind == ast.CompoundTuple {
		if _, err := exactToken(c, lexer.SymbolGroup, ";"); err != nil {
			return ast.Item{}, err
		}
	}
	return ast.Item{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.ItemDataType, Name: name, DataType: &ct}, nil
}

func tableItem(c *cursor) (ast.Item, *Error) {
	start := c.peek().Span.Begin
	if _, err := keyword(c, "table"); err != nil {
		return ast.Item{}, err
	}
	name, err := ident(c)
	if err != nil {
		return ast.Item{}, err
	}
	fields, err := wrap(c, sym("{"), func(c *cursor) ([]ast.Field, *Error) {
		return list(c, structField, sym(",")), nil
	}, sym("}"))
	if err != nil {
		return ast.Item{}, err
	}
	return ast.Item{
		Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.ItemTable, Name: name,
		Table: &ast.TableDef{Meta: ast.Meta{Pos: c.spanFrom(start)}, Fields: fields},
	}, nil
}

func fnParam(c *cursor) (ast.FunctionParam, *Error) {
	start := c.peek().Span.Begin
	name, err := ident(c)
	if err != nil {
		return ast.FunctionParam{}, err
	}
	if _, err := exactToken(c, lexer.SymbolGroup, ":"); err != nil {
		return ast.FunctionParam{}, err
	}
	ty, err := dataType(c)
	if err != nil {
		return ast.FunctionParam{}, err
	}
	return ast.FunctionParam{Meta: ast.Meta{Pos: c.spanFrom(start)}, Name: name, Type: ty}, nil
}

func fnItem(c *cursor) (ast.Item, *Error) {
	start := c.peek().Span.Begin
	attrs := adjacentAttributes(c)
	extern := false
	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "extern") }); ok {
		extern = true
	}
	if _, err := keyword(c, "fn"); err != nil {
		return ast.Item{}, err
	}
	name, err := ident(c)
	if err != nil {
		return ast.Item{}, err
	}
	params, err := wrap(c, sym("("), func(c *cursor) ([]ast.FunctionParam, *Error) {
		return list(c, fnParam, sym(",")), nil
	}, sym(")"))
	if err != nil {
		return ast.Item{}, err
	}
	var result *ast.TypeExpr
	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return exactToken(c, lexer.SymbolGroup, ":") }); ok {
		ty, err := dataType(c)
		if err != nil {
			return ast.Item{}, err
		}
		result = &ty
	}
	fn := &ast.FunctionDef{Meta: ast.Meta{Pos: c.spanFrom(start)}, Extern: extern, Attributes: attrs, Params: params, Result: result}
	if extern {
		if _, err := exactToken(c, lexer.SymbolGroup, ";"); err != nil {
			return ast.Item{}, err
		}
	} else {
		body, err := blockStmt(c)
		if err != nil {
			return ast.Item{}, err
		}
		fn.Body = &body
	}
	fn.Meta = ast.Meta{Pos: c.spanFrom(start)}
	return ast.Item{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.ItemFunction, Name: name, Function: fn}, nil
}

func useItem(c *cursor) (ast.Item, *Error) {
	start := c.peek().Span.Begin
	if _, err := keyword(c, "use"); err != nil {
		return ast.Item{}, err
	}
	first, err := useSegment(c)
	if err != nil {
		return ast.Item{}, err
	}
	comps := []string{first}
	wildcard := false
	for {
		mark := c.mark()
		if _, err := exactToken(c, lexer.SymbolGroup, "::"); err != nil {
			c.reset(mark)
			break
		}
		if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return exactToken(c, lexer.SymbolGroup, "*") }); ok {
			wildcard = true
			break
		}
		next, err := useSegment(c)
		if err != nil {
			c.reset(mark)
			break
		}
		comps = append(comps, next)
	}
	var alias string
	if !wildcard {
		if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "as") }); ok {
			a, err := ident(c)
			if err != nil {
				return ast.Item{}, err
			}
			alias = a
		}
	}
	if _, err := exactToken(c, lexer.SymbolGroup, ";"); err != nil {
		return ast.Item{}, err
	}
	path := ast.NewPath(c.spanFrom(start), "::", comps...)
	name := alias
	if name == "" && !wildcard {
		name = path.Last()
	}
	return ast.Item{
		Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.ItemUse, Name: name,
		Use: &ast.UseDef{Meta: ast.Meta{Pos: c.spanFrom(start)}, Path: path, Alias: alias, Wildcard: wildcard},
	}, nil
}

// useSegment accepts "self"/"super" in addition to plain identifiers, per
// spec §4.4's module-relative path resolution.
func useSegment(c *cursor) (string, *Error) {
	word, err := multiKeyword(c, "self", "super")
	if err == nil {
		return word, nil
	}
	return ident(c)
}

func modItem(c *cursor) (ast.Item, *Error) {
	start := c.peek().Span.Begin
	if _, err := keyword(c, "mod"); err != nil {
		return ast.Item{}, err
	}
	name, err := ident(c)
	if err != nil {
		return ast.Item{}, err
	}
	items, err := wrap(c, sym("{"), func(c *cursor) ([]*ast.Item, *Error) {
		var out []*ast.Item
		for {
			if c.peek().Kind == lexer.SymbolGroup && c.peek().Text == "}" {
				return out, nil
			}
			it, err := moduleItem(c)
			if err != nil {
				return nil, err
			}
			out = append(out, &it)
		}
	}, sym("}"))
	if err != nil {
		return ast.Item{}, err
	}
	return ast.Item{
		Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.ItemModule, Name: name,
		Module: &ast.ModuleDef{Meta: ast.Meta{Pos: c.spanFrom(start)}, Name: name, Items: items},
	}, nil
}

// moduleItem dispatches one top-level/module-nested item (spec §4.3:
// struct, table, fn, nested mod, use).
func moduleItem(c *cursor) (ast.Item, *Error) {
	return alt(c, structItem, tableItem, fnItem, modItem, useItem)
}

// file parses a whole source file into module-level items.
func file(c *cursor) (ast.File, *Error) {
	start := c.peek().Span.Begin
	var items []*ast.Item
	for c.peek().Kind != lexer.EndOfInput {
		it, err := moduleItem(c)
		if err != nil {
			return ast.File{}, err
		}
		items = append(items, &it)
	}
	return ast.File{Meta: ast.Meta{Pos: c.spanFrom(start)}, Items: items}, nil
}
