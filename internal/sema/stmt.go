package sema

import (
	"github.com/n-lang/ncore/internal/ast"
	"github.com/n-lang/ncore/internal/diag"
	"github.com/n-lang/ncore/internal/ir"
)

// resolveStmt elaborates an ast.Stmt, computing its control-flow
// classification (spec §4.5) alongside its IR form.
func (c *ctx) resolveStmt(s *ast.Stmt) (*ir.Statement, ir.Jumping) {
	if s == nil {
		return nil, ir.Jumping{Kind: ir.JumpNothing}
	}
	switch s.Kind {
	case ast.StmtLet:
		return c.resolveLet(s)
	case ast.StmtAssign:
		return c.resolveAssign(s)
	case ast.StmtIf:
		return c.resolveIf(s)
	case ast.StmtLoop:
		return c.resolveLoop(s)
	case ast.StmtWhile:
		return c.resolveWhile(s)
	case ast.StmtDoWhile:
		return c.resolveDoWhile(s)
	case ast.StmtBreak, ast.StmtContinue:
		return c.resolveBreakContinue(s)
	case ast.StmtReturn:
		return c.resolveReturn(s)
	case ast.StmtBlock:
		return c.resolveBlock(s)
	case ast.StmtExpr:
		return c.resolveExprStmt(s)
	case ast.StmtSelect, ast.StmtInsert, ast.StmtUpdate, ast.StmtDelete:
		return c.resolveDML(s)
	}
	return &ir.Statement{Pos: s.Pos, AST: s}, ir.Jumping{Kind: ir.JumpNothing}
}

func (c *ctx) resolveLet(s *ast.Stmt) (*ir.Statement, ir.Jumping) {
	var declared *ir.DataType
	if s.Let.Type != nil {
		dt, _ := c.resolveType(s.Let.Type)
		declared = &dt
	}
	var initExpr *ir.Expression
	if s.Let.Init != nil {
		initExpr, _ = c.resolveExpr(s.Let.Init)
	}
	varType := declared
	if varType == nil && initExpr != nil {
		varType = &initExpr.DataType
	}
	if declared != nil && initExpr != nil && !initExpr.DataType.CanCastTo(*declared) {
		c.error(s.Pos, diag.KindExpectedExpressionOfAnotherType, "initializer type does not match declared type")
	}
	if !c.scope.Define(ir.Variable{Name: s.Let.Name, Pos: s.Pos, Type: varType}) {
		c.error(s.Pos, diag.KindDuplicateDefinition, "duplicate variable '"+s.Let.Name+"'")
	}
	sideEffects := initExpr != nil && !initExpr.IsPure
	return &ir.Statement{Pos: s.Pos, AST: s, HasSideEffects: sideEffects}, ir.Jumping{Kind: ir.JumpNothing}
}

func (c *ctx) resolveAssign(s *ast.Stmt) (*ir.Statement, ir.Jumping) {
	value, _ := c.resolveExpr(s.Assign.Value)
	head, rest := s.Assign.Target.PopLeft()
	v, ok := c.scope.Lookup(head)
	if !ok {
		c.error(s.Pos, diag.KindNotInScope, "'"+s.Assign.Target.String()+"' not in scope")
		return &ir.Statement{Pos: s.Pos, AST: s, HasSideEffects: true}, ir.Jumping{Kind: ir.JumpNothing}
	}
	if v.ReadOnly {
		c.error(s.Pos, diag.KindCannotModifyReadonlyVariable, "cannot modify readonly variable '"+v.Name+"'")
		return &ir.Statement{Pos: s.Pos, AST: s, HasSideEffects: true}, ir.Jumping{Kind: ir.JumpNothing}
	}
	if rest.Len() == 0 {
		if v.Type != nil && value != nil && !value.DataType.CanCastTo(*v.Type) {
			c.error(s.Pos, diag.KindExpectedExpressionOfAnotherType, "assigned value type does not match variable type")
		}
		return &ir.Statement{Pos: s.Pos, AST: s, HasSideEffects: true}, ir.Jumping{Kind: ir.JumpNothing}
	}
	if v.Type == nil {
		c.error(s.Pos, diag.KindVariableTypeUnknown, "'"+head+"' has no known type yet")
		return &ir.Statement{Pos: s.Pos, AST: s, HasSideEffects: true}, ir.Jumping{Kind: ir.JumpNothing}
	}
	dt := *v.Type
	for _, prop := range rest.Components {
		next, found := propertyType(dt, prop)
		if !found {
			c.error(s.Pos, diag.KindWrongProperty, "no property '"+prop+"'")
			return &ir.Statement{Pos: s.Pos, AST: s, HasSideEffects: true}, ir.Jumping{Kind: ir.JumpNothing}
		}
		dt = next
	}
	if value != nil && !value.DataType.CanCastTo(dt) {
		c.error(s.Pos, diag.KindExpectedExpressionOfAnotherType, "assigned value type does not match property type")
	}
	return &ir.Statement{Pos: s.Pos, AST: s, HasSideEffects: true}, ir.Jumping{Kind: ir.JumpNothing}
}

func (c *ctx) resolveIf(s *ast.Stmt) (*ir.Statement, ir.Jumping) {
	cond, _ := c.resolveExpr(s.If.Cond)
	if cond != nil && !cond.DataType.CanCastTo(boolType()) {
		c.error(s.If.Cond.Pos, diag.KindExpectedExpressionOfAnotherType, "condition must be boolean")
	}
	_, thenJump := c.resolveStmt(s.If.Then)
	elseJump := ir.Jumping{Kind: ir.JumpNothing}
	if s.If.Else != nil {
		_, elseJump = c.resolveStmt(s.If.Else)
	}
	return &ir.Statement{Pos: s.Pos, AST: s}, ir.Join(thenJump, elseJump)
}

func (c *ctx) resolveLoop(s *ast.Stmt) (*ir.Statement, ir.Jumping) {
	_, bodyJump := c.resolveStmt(s.Loop.Body)
	return &ir.Statement{Pos: s.Pos, AST: s}, loopJumping(bodyJump)
}

func (c *ctx) resolveWhile(s *ast.Stmt) (*ir.Statement, ir.Jumping) {
	cond, _ := c.resolveExpr(s.While.Cond)
	if cond != nil && !cond.DataType.CanCastTo(boolType()) {
		c.error(s.While.Cond.Pos, diag.KindExpectedExpressionOfAnotherType, "condition must be boolean")
	}
	_, bodyJump := c.resolveStmt(s.While.Body)
	return &ir.Statement{Pos: s.Pos, AST: s}, loopJumping(bodyJump)
}

func (c *ctx) resolveDoWhile(s *ast.Stmt) (*ir.Statement, ir.Jumping) {
	_, bodyJump := c.resolveStmt(s.DoWhile.Body)
	cond, _ := c.resolveExpr(s.DoWhile.Cond)
	if cond != nil && !cond.DataType.CanCastTo(boolType()) {
		c.error(s.DoWhile.Cond.Pos, diag.KindExpectedExpressionOfAnotherType, "condition must be boolean")
	}
	return &ir.Statement{Pos: s.Pos, AST: s}, loopJumping(bodyJump)
}

// loopJumping folds a loop body's jump classification into the loop's own:
// break/continue are absorbed (they target this loop), a bare return
// escapes it (spec §4.5).
func loopJumping(body ir.Jumping) ir.Jumping {
	switch body.Kind {
	case ir.JumpAlwaysReturns:
		return body
	case ir.JumpAlwaysBreaks, ir.JumpAlwaysContinues:
		return ir.Jumping{Kind: ir.JumpNothing}
	case ir.JumpSometimes:
		if body.Returns {
			return ir.Jumping{Kind: ir.JumpSometimes, Returns: true}
		}
		return ir.Jumping{Kind: ir.JumpNothing}
	default:
		return ir.Jumping{Kind: ir.JumpNothing}
	}
}

// resolveBreakContinue rejects labels as NotSupportedYet (spec §4.5's
// "break/continue label rejected").
func (c *ctx) resolveBreakContinue(s *ast.Stmt) (*ir.Statement, ir.Jumping) {
	if s.Label != "" {
		c.error(s.Pos, diag.KindNotSupportedYet, "labeled break/continue is not supported yet")
	}
	kind := ir.JumpAlwaysBreaks
	if s.Kind == ast.StmtContinue {
		kind = ir.JumpAlwaysContinues
	}
	return &ir.Statement{Pos: s.Pos, AST: s}, ir.Jumping{Kind: kind}
}

func (c *ctx) resolveReturn(s *ast.Stmt) (*ir.Statement, ir.Jumping) {
	if s.Return != nil {
		c.resolveExpr(s.Return)
	}
	return &ir.Statement{Pos: s.Pos, AST: s}, ir.Jumping{Kind: ir.JumpAlwaysReturns}
}

func (c *ctx) resolveBlock(s *ast.Stmt) (*ir.Statement, ir.Jumping) {
	parent := c.scope
	c.pushScope()
	jumping := ir.Jumping{Kind: ir.JumpNothing}
	sideEffects := false
	for _, inner := range s.Block {
		stmt, j := c.resolveStmt(inner)
		if stmt != nil {
			sideEffects = sideEffects || stmt.HasSideEffects
		}
		jumping = jumping.Then(j)
	}
	c.popScope(parent)
	return &ir.Statement{Pos: s.Pos, AST: s, HasSideEffects: sideEffects}, jumping
}

func (c *ctx) resolveExprStmt(s *ast.Stmt) (*ir.Statement, ir.Jumping) {
	e, _ := c.resolveExpr(s.Expr)
	sideEffects := e == nil || !e.IsPure
	return &ir.Statement{Pos: s.Pos, AST: s, HasSideEffects: sideEffects}, ir.Jumping{Kind: ir.JumpNothing}
}

func (c *ctx) resolveDML(s *ast.Stmt) (*ir.Statement, ir.Jumping) {
	if s.Kind == ast.StmtSelect {
		c.resolveSelect(s.Select)
	}
	// INSERT/UPDATE/DELETE are always side-effecting (spec §4.4's purity
	// rules single out stdlib/user function calls; DML always mutates).
	return &ir.Statement{Pos: s.Pos, AST: s, HasSideEffects: true}, ir.Jumping{Kind: ir.JumpNothing}
}
