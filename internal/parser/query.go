package parser

import (
	"github.com/n-lang/ncore/internal/ast"
	"github.com/n-lang/ncore/internal/lexer"
)

func ident(c *cursor) (string, *Error) {
	t, err := token(c, lexer.Word)
	return t.Text, err
}

func selectModifiers(c *cursor) (ast.Select, bool) {
	var s ast.Select
	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "distinctrow") }); ok {
		s.Quantifier = ast.SelectDistinctRow
	} else if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "distinct") }); ok {
		s.Quantifier = ast.SelectDistinct
	} else {
		opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "all") })
	}
	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "high_priority") }); ok {
		s.HighPriority = true
	}
	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "straight_join") }); ok {
		s.StraightJoin = true
	}
	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "sql_small_result") }); ok {
		s.SQLSmallResult = true
	}
	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "sql_big_result") }); ok {
		s.SQLBigResult = true
	}
	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "sql_buffer_result") }); ok {
		s.SQLBufferResult = true
	}
	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "sql_cache") }); ok {
		v := true
		s.SQLCache = &v
	} else if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "sql_no_cache") }); ok {
		v := false
		s.SQLCache = &v
	}
	return s, true
}

func selectColumn(c *cursor) (ast.SelectColumn, *Error) {
	start := c.peek().Span.Begin
	if _, err := exactToken(c, lexer.SymbolGroup, "*"); err == nil {
		return ast.SelectColumn{Meta: ast.Meta{Pos: c.spanFrom(start)}, Star: true}, nil
	}
	value, err := parseExpr(c)
	if err != nil {
		return ast.SelectColumn{}, err
	}
	var alias string
	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "as") }); ok {
		a, err := ident(c)
		if err != nil {
			return ast.SelectColumn{}, err
		}
		alias = a
	} else if a, ok := opt(c, ident); ok {
		alias = a
	}
	return ast.SelectColumn{Meta: ast.Meta{Pos: c.spanFrom(start)}, Value: value, Alias: alias}, nil
}

func orderItem(c *cursor) (ast.OrderItem, *Error) {
	start := c.peek().Span.Begin
	value, err := parseExpr(c)
	if err != nil {
		return ast.OrderItem{}, err
	}
	desc := false
	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "desc") }); ok {
		desc = true
	} else {
		opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "asc") })
	}
	return ast.OrderItem{Meta: ast.Meta{Pos: c.spanFrom(start)}, Value: value, Desc: desc}, nil
}

func joinKeyword(c *cursor) (ast.JoinKind, bool, *Error) {
	if _, err := keyword(c, "join"); err == nil {
		return ast.JoinInner, false, nil
	}
	if _, err := keyword(c, "inner"); err == nil {
		if _, err := keyword(c, "join"); err != nil {
			return 0, false, err
		}
		return ast.JoinInner, false, nil
	}
	if _, err := keyword(c, "cross"); err == nil {
		if _, err := keyword(c, "join"); err != nil {
			return 0, false, err
		}
		return ast.JoinCross, false, nil
	}
	outerKinds := []struct {
		kind ast.JoinKind
		word string
	}{{ast.JoinLeft, "left"}, {ast.JoinRight, "right"}, {ast.JoinFull, "full"}}
	for _, spec := range outerKinds {
		kind, word := spec.kind, spec.word
		mark := c.mark()
		if _, err := keyword(c, word); err == nil {
			outer := false
			if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "outer") }); ok {
				outer = true
			}
			if _, err := keyword(c, "join"); err != nil {
				c.reset(mark)
				continue
			}
			return kind, outer, nil
		}
		c.reset(mark)
	}
	t := c.peek()
	return 0, false, &Error{Pos: t.Span.Begin, Expected: []string{"a join keyword"}, Got: gotDesc(t)}
}

func joinCondition(c *cursor) (*ast.JoinCondition, *Error) {
	start := c.peek().Span.Begin
	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "on") }); ok {
		e, err := parseExpr(c)
		if err != nil {
			return nil, err
		}
		return &ast.JoinCondition{Meta: ast.Meta{Pos: c.spanFrom(start)}, On: e}, nil
	}
	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "using") }); ok {
		cols, err := wrap(c, sym("("), func(c *cursor) ([]string, *Error) {
			return list(c, ident, sym(",")), nil
		}, sym(")"))
		if err != nil {
			return nil, err
		}
		return &ast.JoinCondition{Meta: ast.Meta{Pos: c.spanFrom(start)}, Using: cols}, nil
	}
	return nil, nil
}

// tableSource decides subquery-vs-table by its leading token alone, then
// commits, so a malformed subquery reports its own error instead of falling
// through to a confusing "expected a table name" at a half-consumed cursor.
func tableSource(c *cursor) (ast.DataSource, *Error) {
	start := c.peek().Span.Begin
	if c.peek().Kind == lexer.SymbolGroup && c.peek().Text == "(" {
		sel, err := wrap(c, sym("("), selectQuery, sym(")"))
		if err != nil {
			return ast.DataSource{}, err
		}
		opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "as") })
		alias, ok := opt(c, ident)
		if !ok {
			t := c.peek()
			return ast.DataSource{}, &Error{Pos: t.Span.Begin, Expected: []string{"an alias"}, Got: gotDesc(t)}
		}
		return ast.DataSource{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.DataSourceSubquery, Subquery: &sel, Alias: alias}, nil
	}
	path, err := modulePath(c)
	if err != nil {
		return ast.DataSource{}, err
	}
	var alias string
	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "as") }); ok {
		a, err := ident(c)
		if err != nil {
			return ast.DataSource{}, err
		}
		alias = a
	} else if a, ok := opt(c, ident); ok {
		alias = a
	}
	return ast.DataSource{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.DataSourceTable, Table: path, Alias: alias}, nil
}

// fromClause parses one table/subquery and folds in trailing joins and
// comma-separated cross joins, left-associatively.
func fromClause(c *cursor) (*ast.DataSource, *Error) {
	start := c.peek().Span.Begin
	left, err := tableSource(c)
	if err != nil {
		return nil, err
	}
	cur := &left
	for {
		mark := c.mark()
		if _, err := exactToken(c, lexer.SymbolGroup, ","); err == nil {
			right, err := tableSource(c)
			if err != nil {
				c.reset(mark)
				break
			}
			cur = &ast.DataSource{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.DataSourceJoin, Left: cur, Right: &right, Join: ast.JoinComma}
			continue
		}
		c.reset(mark)

		mark = c.mark()
		natural := false
		if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "natural") }); ok {
			natural = true
		}
		kind, outer, jerr := joinKeyword(c)
		if jerr != nil {
			c.reset(mark)
			break
		}
		right, err := tableSource(c)
		if err != nil {
			c.reset(mark)
			break
		}
		cond, err := joinCondition(c)
		if err != nil {
			c.reset(mark)
			break
		}
		if natural {
			cond = &ast.JoinCondition{Natural: true}
		}
		cur = &ast.DataSource{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.DataSourceJoin, Left: cur, Right: &right, Join: kind, Outer: outer, Condition: cond}
	}
	return cur, nil
}

// selectQuery parses a full SELECT statement (spec §4.3's query grammar).
func selectQuery(c *cursor) (ast.Select, *Error) {
	start := c.peek().Span.Begin
	if _, err := keyword(c, "select"); err != nil {
		return ast.Select{}, err
	}
	s, _ := selectModifiers(c)

	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return exactToken(c, lexer.SymbolGroup, "*") }); ok {
		s.Columns = []ast.SelectColumn{{Star: true}}
	} else {
		cols := list(c, selectColumn, sym(","))
		if len(cols) == 0 {
			t := c.peek()
			return ast.Select{}, &Error{Pos: t.Span.Begin, Expected: []string{"a select column"}, Got: gotDesc(t)}
		}
		s.Columns = cols
	}

	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "from") }); ok {
		from, err := fromClause(c)
		if err != nil {
			return ast.Select{}, err
		}
		s.From = from
	}

	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "where") }); ok {
		w, err := parseExpr(c)
		if err != nil {
			return ast.Select{}, err
		}
		s.Where = w
	}

	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "group") }); ok {
		if _, err := keyword(c, "by"); err != nil {
			return ast.Select{}, err
		}
		s.GroupBy = list(c, orderItem, sym(","))
		if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "with") }); ok {
			if _, err := keyword(c, "rollup"); err != nil {
				return ast.Select{}, err
			}
			s.GroupByRollup = true
		}
	}

	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "having") }); ok {
		h, err := parseExpr(c)
		if err != nil {
			return ast.Select{}, err
		}
		s.Having = h
	}

	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "order") }); ok {
		if _, err := keyword(c, "by"); err != nil {
			return ast.Select{}, err
		}
		s.OrderBy = list(c, orderItem, sym(","))
	}

	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "limit") }); ok {
		s.HasLimit = true
		first, err := parseExpr(c)
		if err != nil {
			return ast.Select{}, err
		}
		if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return exactToken(c, lexer.SymbolGroup, ",") }); ok {
			second, err := parseExpr(c)
			if err != nil {
				return ast.Select{}, err
			}
			s.LimitOffset = first
			s.LimitCount = second
		} else if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "offset") }); ok {
			second, err := parseExpr(c)
			if err != nil {
				return ast.Select{}, err
			}
			s.LimitCount = first
			s.LimitOffset = second
		} else {
			s.LimitCount = first
		}
	}

	s.Meta = ast.Meta{Pos: c.spanFrom(start)}
	return s, nil
}

// --- INSERT / UPDATE / DELETE ---

func setItem(c *cursor) (ast.SetItem, *Error) {
	start := c.peek().Span.Begin
	col, err := modulePath(c)
	if err != nil {
		return ast.SetItem{}, err
	}
	if _, err := exactToken(c, lexer.SymbolGroup, "="); err != nil {
		return ast.SetItem{}, err
	}
	val, err := parseExpr(c)
	if err != nil {
		return ast.SetItem{}, err
	}
	return ast.SetItem{Meta: ast.Meta{Pos: c.spanFrom(start)}, Column: col, Value: val}, nil
}

func insertStmt(c *cursor) (ast.Insert, *Error) {
	start := c.peek().Span.Begin
	if _, err := keyword(c, "insert"); err != nil {
		return ast.Insert{}, err
	}
	opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "into") })
	table, err := modulePath(c)
	if err != nil {
		return ast.Insert{}, err
	}
	var cols []string
	if c2, ok := opt(c, func(c *cursor) ([]string, *Error) {
		return wrap(c, sym("("), func(c *cursor) ([]string, *Error) { return list(c, ident, sym(",")), nil }, sym(")"))
	}); ok {
		cols = c2
	}

	ins := ast.Insert{Meta: ast.Meta{Pos: c.spanFrom(start)}, Table: table, Columns: cols}

	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "values") }); ok {
		rows := list(c, func(c *cursor) ([]*ast.Expr, *Error) {
			return wrap(c, sym("("), func(c *cursor) ([]*ast.Expr, *Error) { return list(c, parseExpr, sym(",")), nil }, sym(")"))
		}, sym(","))
		ins.SourceKind = ast.InsertValues
		ins.Values = rows
	} else if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "set") }); ok {
		ins.SourceKind = ast.InsertSet
		ins.Sets = list(c, setItem, sym(","))
	} else {
		sel, err := selectQuery(c)
		if err != nil {
			return ast.Insert{}, err
		}
		ins.SourceKind = ast.InsertSubquery
		ins.Subquery = &sel
	}

	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "on") }); ok {
		if _, err := keyword(c, "duplicate"); err != nil {
			return ast.Insert{}, err
		}
		if _, err := keyword(c, "key"); err != nil {
			return ast.Insert{}, err
		}
		if _, err := keyword(c, "update"); err != nil {
			return ast.Insert{}, err
		}
		ins.OnDuplicateKeyUpdate = list(c, setItem, sym(","))
	}
	ins.Meta = ast.Meta{Pos: c.spanFrom(start)}
	return ins, nil
}

func updateStmt(c *cursor) (ast.Update, *Error) {
	start := c.peek().Span.Begin
	if _, err := keyword(c, "update"); err != nil {
		return ast.Update{}, err
	}
	table, err := modulePath(c)
	if err != nil {
		return ast.Update{}, err
	}
	var alias string
	if a, ok := opt(c, ident); ok {
		alias = a
	}
	if _, err := keyword(c, "set"); err != nil {
		return ast.Update{}, err
	}
	sets := list(c, setItem, sym(","))
	var where *ast.Expr
	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "where") }); ok {
		w, err := parseExpr(c)
		if err != nil {
			return ast.Update{}, err
		}
		where = w
	}
	return ast.Update{Meta: ast.Meta{Pos: c.spanFrom(start)}, Table: table, Alias: alias, Sets: sets, Where: where}, nil
}

func deleteStmt(c *cursor) (ast.Delete, *Error) {
	start := c.peek().Span.Begin
	if _, err := keyword(c, "delete"); err != nil {
		return ast.Delete{}, err
	}
	opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "from") })
	table, err := modulePath(c)
	if err != nil {
		return ast.Delete{}, err
	}
	var alias string
	if a, ok := opt(c, ident); ok {
		alias = a
	}
	var where *ast.Expr
	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "where") }); ok {
		w, err := parseExpr(c)
		if err != nil {
			return ast.Delete{}, err
		}
		where = w
	}
	return ast.Delete{Meta: ast.Meta{Pos: c.spanFrom(start)}, Table: table, Alias: alias, Where: where}, nil
}
