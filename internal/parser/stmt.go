package parser

import (
	"github.com/n-lang/ncore/internal/ast"
	"github.com/n-lang/ncore/internal/lexer"
)

func letStmt(c *cursor) (ast.Stmt, *Error) {
	start := c.peek().Span.Begin
	if _, err := keyword(c, "let"); err != nil {
		return ast.Stmt{}, err
	}
	name, err := ident(c)
	if err != nil {
		return ast.Stmt{}, err
	}
	var ty *ast.TypeExpr
	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return exactToken(c, lexer.SymbolGroup, ":") }); ok {
		t, err := dataType(c)
		if err != nil {
			return ast.Stmt{}, err
		}
		ty = &t
	}
	var init *ast.Expr
	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return exactToken(c, lexer.SymbolGroup, "=") }); ok {
		e, err := parseExpr(c)
		if err != nil {
			return ast.Stmt{}, err
		}
		init = e
	}
	if _, err := exactToken(c, lexer.SymbolGroup, ";"); err != nil {
		return ast.Stmt{}, err
	}
	s := ast.Stmt{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.StmtLet}
	s.Let.Name = name
	s.Let.Type = ty
	s.Let.Init = init
	return s, nil
}

func assignStmt(c *cursor) (ast.Stmt, *Error) {
	start := c.peek().Span.Begin
	target, err := modulePath(c)
	if err != nil {
		return ast.Stmt{}, err
	}
	if _, err := exactToken(c, lexer.SymbolGroup, ":="); err != nil {
		return ast.Stmt{}, err
	}
	val, err := parseExpr(c)
	if err != nil {
		return ast.Stmt{}, err
	}
	if _, err := exactToken(c, lexer.SymbolGroup, ";"); err != nil {
		return ast.Stmt{}, err
	}
	s := ast.Stmt{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.StmtAssign}
	s.Assign.Target = target
	s.Assign.Value = val
	return s, nil
}

func blockStmt(c *cursor) (ast.Stmt, *Error) {
	start := c.peek().Span.Begin
	if _, err := exactToken(c, lexer.SymbolGroup, "{"); err != nil {
		return ast.Stmt{}, err
	}
	var body []*ast.Stmt
	for {
		if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return exactToken(c, lexer.SymbolGroup, "}") }); ok {
			return ast.Stmt{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.StmtBlock, Block: body}, nil
		}
		st, err := statement(c)
		if err != nil {
			return ast.Stmt{}, err
		}
		body = append(body, &st)
	}
}

func ifStmt(c *cursor) (ast.Stmt, *Error) {
	start := c.peek().Span.Begin
	if _, err := keyword(c, "if"); err != nil {
		return ast.Stmt{}, err
	}
	cond, err := parseExpr(c)
	if err != nil {
		return ast.Stmt{}, err
	}
	then, err := blockStmt(c)
	if err != nil {
		return ast.Stmt{}, err
	}
	s := ast.Stmt{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.StmtIf}
	s.If.Cond = cond
	s.If.Then = &then
	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return keyword(c, "else") }); ok {
		if elseIf, ok := opt(c, ifStmt); ok {
			s.If.Else = &elseIf
		} else {
			els, err := blockStmt(c)
			if err != nil {
				return ast.Stmt{}, err
			}
			s.If.Else = &els
		}
	}
	return s, nil
}

func loopStmt(c *cursor) (ast.Stmt, *Error) {
	start := c.peek().Span.Begin
	if _, err := keyword(c, "loop"); err != nil {
		return ast.Stmt{}, err
	}
	body, err := blockStmt(c)
	if err != nil {
		return ast.Stmt{}, err
	}
	s := ast.Stmt{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.StmtLoop}
	s.Loop.Body = &body
	return s, nil
}

func whileStmt(c *cursor) (ast.Stmt, *Error) {
	start := c.peek().Span.Begin
	if _, err := keyword(c, "while"); err != nil {
		return ast.Stmt{}, err
	}
	cond, err := parseExpr(c)
	if err != nil {
		return ast.Stmt{}, err
	}
	body, err := blockStmt(c)
	if err != nil {
		return ast.Stmt{}, err
	}
	s := ast.Stmt{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.StmtWhile}
	s.While.Cond = cond
	s.While.Body = &body
	return s, nil
}

func doWhileStmt(c *cursor) (ast.Stmt, *Error) {
	start := c.peek().Span.Begin
	if _, err := keyword(c, "do"); err != nil {
		return ast.Stmt{}, err
	}
	body, err := blockStmt(c)
	if err != nil {
		return ast.Stmt{}, err
	}
	if _, err := keyword(c, "while"); err != nil {
		return ast.Stmt{}, err
	}
	cond, err := parseExpr(c)
	if err != nil {
		return ast.Stmt{}, err
	}
	if _, err := exactToken(c, lexer.SymbolGroup, ";"); err != nil {
		return ast.Stmt{}, err
	}
	s := ast.Stmt{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.StmtDoWhile}
	s.DoWhile.Body = &body
	s.DoWhile.Cond = cond
	return s, nil
}

func breakContinueStmt(c *cursor) (ast.Stmt, *Error) {
	start := c.peek().Span.Begin
	word, err := multiKeyword(c, "break", "continue")
	if err != nil {
		return ast.Stmt{}, err
	}
	label, _ := opt(c, ident)
	if _, err := exactToken(c, lexer.SymbolGroup, ";"); err != nil {
		return ast.Stmt{}, err
	}
	kind := ast.StmtBreak
	if word == "continue" {
		kind = ast.StmtContinue
	}
	return ast.Stmt{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: kind, Label: label}, nil
}

func returnStmt(c *cursor) (ast.Stmt, *Error) {
	start := c.peek().Span.Begin
	if _, err := keyword(c, "return"); err != nil {
		return ast.Stmt{}, err
	}
	var val *ast.Expr
	if _, ok := opt(c, func(c *cursor) (lexer.Token, *Error) { return exactToken(c, lexer.SymbolGroup, ";") }); ok {
		return ast.Stmt{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.StmtReturn}, nil
	}
	e, err := parseExpr(c)
	if err != nil {
		return ast.Stmt{}, err
	}
	val = e
	if _, err := exactToken(c, lexer.SymbolGroup, ";"); err != nil {
		return ast.Stmt{}, err
	}
	return ast.Stmt{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.StmtReturn, Return: val}, nil
}

func dmlStmt(c *cursor) (ast.Stmt, *Error) {
	start := c.peek().Span.Begin
	if sel, ok := opt(c, selectQuery); ok {
		if _, err := exactToken(c, lexer.SymbolGroup, ";"); err != nil {
			return ast.Stmt{}, err
		}
		return ast.Stmt{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.StmtSelect, Select: &sel}, nil
	}
	if ins, ok := opt(c, insertStmt); ok {
		if _, err := exactToken(c, lexer.SymbolGroup, ";"); err != nil {
			return ast.Stmt{}, err
		}
		return ast.Stmt{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.StmtInsert, Insert: &ins}, nil
	}
	if upd, ok := opt(c, updateStmt); ok {
		if _, err := exactToken(c, lexer.SymbolGroup, ";"); err != nil {
			return ast.Stmt{}, err
		}
		return ast.Stmt{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.StmtUpdate, Update: &upd}, nil
	}
	del, err := deleteStmt(c)
	if err != nil {
		return ast.Stmt{}, err
	}
	if _, err := exactToken(c, lexer.SymbolGroup, ";"); err != nil {
		return ast.Stmt{}, err
	}
	return ast.Stmt{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.StmtDelete, Delete: &del}, nil
}

func exprStmt(c *cursor) (ast.Stmt, *Error) {
	start := c.peek().Span.Begin
	e, err := parseExpr(c)
	if err != nil {
		return ast.Stmt{}, err
	}
	if _, err := exactToken(c, lexer.SymbolGroup, ";"); err != nil {
		return ast.Stmt{}, err
	}
	return ast.Stmt{Meta: ast.Meta{Pos: c.spanFrom(start)}, Kind: ast.StmtExpr, Expr: e}, nil
}

// statement tries each production in order and takes the first that
// parses (spec §4.3's statement grammar; §4.5's jumping classification consumes
// this tree later in semantic resolution).
func statement(c *cursor) (ast.Stmt, *Error) {
	return alt(c, blockStmt, letStmt, ifStmt, loopStmt, whileStmt, doWhileStmt,
		breakContinueStmt, returnStmt, assignStmt, dmlStmt, exprStmt)
}
