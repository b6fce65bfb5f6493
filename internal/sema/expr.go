package sema

import (
	"math"
	"strconv"

	"github.com/n-lang/ncore/internal/ast"
	"github.com/n-lang/ncore/internal/diag"
	"github.com/n-lang/ncore/internal/ir"
)

// resolveExpr elaborates an ast.Expr into an ir.Expression (spec §4.4
// "Expression resolution"). ok is false only when blocked on an import.
func (c *ctx) resolveExpr(e *ast.Expr) (*ir.Expression, bool) {
	if e == nil {
		return nil, true
	}
	switch e.Kind {
	case ast.ExprLiteral:
		return c.resolveLiteral(e)
	case ast.ExprIdent:
		return c.resolveIdent(e)
	case ast.ExprPath:
		return c.resolvePropertyPath(e)
	case ast.ExprBinary:
		return c.resolveBinary(e)
	case ast.ExprPrefix:
		return c.resolvePrefix(e)
	case ast.ExprPostfix:
		return c.resolvePostfix(e)
	case ast.ExprCall:
		return c.resolveCall(e)
	case ast.ExprSelect:
		return c.resolveSelectExpr(e)
	}
	return nil, true
}

func boolType() ir.DataType {
	return ir.DataType{Kind: ir.TypePrimitive, Primitive: &ast.PrimitiveType{Kind: ast.PrimitiveNumber, Number: ast.NumberBoolean}}
}

func intType(size int, unsigned bool) ir.DataType {
	s := size
	return ir.DataType{Kind: ir.TypePrimitive, Primitive: &ast.PrimitiveType{Kind: ast.PrimitiveNumber, Number: ast.NumberInteger, Size: &s, Unsigned: unsigned}}
}

func floatType(double bool) ir.DataType {
	kind := ast.NumberFloat
	if double {
		kind = ast.NumberDouble
	}
	return ir.DataType{Kind: ir.TypePrimitive, Primitive: &ast.PrimitiveType{Kind: ast.PrimitiveNumber, Number: kind}}
}

func varcharType(n int) ir.DataType {
	return ir.DataType{Kind: ir.TypePrimitive, Primitive: &ast.PrimitiveType{Kind: ast.PrimitiveString, Size: &n}}
}

func textType() ir.DataType {
	return ir.DataType{Kind: ir.TypePrimitive, Primitive: &ast.PrimitiveType{Kind: ast.PrimitiveString, IsText: true}}
}

// resolveLiteral types a literal per spec §4.4: strings by code-point
// length (< 256 -> varchar(len), else text), integers by the smallest
// signed/unsigned width their magnitude fits, fractionals as float
// (single if representable, else double), booleans, and null as reserved.
func (c *ctx) resolveLiteral(e *ast.Expr) (*ir.Expression, bool) {
	lit := e.Literal
	var dt ir.DataType
	switch lit.Kind {
	case ast.LitString, ast.LitBraced:
		if lit.Length < 256 {
			dt = varcharType(lit.Length)
		} else {
			dt = textType()
		}
	case ast.LitNumber:
		if lit.Fractional {
			dt = floatType(!representableAsFloat32(lit.ApproxValue))
		} else {
			dt = smallestIntType(lit.ApproxValue, lit.Negative)
		}
	case ast.LitTrue, ast.LitFalse:
		dt = boolType()
	case ast.LitNull:
		c.error(e.Pos, diag.KindNotSupportedYet, "null literals are not supported yet")
		dt = ir.DataType{Kind: ir.TypeVoid}
	}
	return &ir.Expression{Pos: e.Pos, AST: e, DataType: dt, IsPure: true}, true
}

func representableAsFloat32(v float64) bool {
	return float64(float32(v)) == v
}

// smallestIntType sizes an integer literal by the formula in
// definitions.rs, preserved verbatim (spec §9's Open Question): the raw
// bit-width isn't snapped to 8/16/32/64, so e.g. 300 sizes to 9 bits.
func smallestIntType(approxValue float64, negative bool) ir.DataType {
	var log2 float64
	if approxValue < 0 {
		log2 = math.Ceil(math.Log2(1 - approxValue))
	} else {
		log2 = math.Ceil(math.Log2(1 + approxValue))
	}
	size := 0
	if log2 > 0 {
		size = int(math.Min(log2, 255))
	}
	if negative {
		size++
	}
	return intType(size, !negative)
}

func (c *ctx) resolveIdent(e *ast.Expr) (*ir.Expression, bool) {
	v, ok := c.scope.Lookup(e.Ident)
	if !ok {
		c.error(e.Pos, diag.KindNotInScope, "'"+e.Ident+"' not in scope")
		return &ir.Expression{Pos: e.Pos, AST: e, DataType: ir.DataType{Kind: ir.TypeVoid}}, true
	}
	if v.Type == nil {
		c.error(e.Pos, diag.KindVariableTypeUnknown, "'"+e.Ident+"' has no known type yet")
		return &ir.Expression{Pos: e.Pos, AST: e, DataType: ir.DataType{Kind: ir.TypeVoid}}, true
	}
	return &ir.Expression{Pos: e.Pos, AST: e, DataType: *v.Type, IsPure: true}, true
}

// resolvePropertyPath walks expr.a.b.c left-to-right through structural
// components; tuple indices use the componentN convention (spec §4.4).
func (c *ctx) resolvePropertyPath(e *ast.Expr) (*ir.Expression, bool) {
	base, ok := c.resolveExpr(e.Path.Base)
	if !ok {
		return nil, false
	}
	dt := base.DataType
	for _, prop := range e.Path.Props {
		next, found := propertyType(dt, prop)
		if !found {
			c.error(e.Pos, diag.KindWrongProperty, "no property '"+prop+"'")
			return &ir.Expression{Pos: e.Pos, AST: e, DataType: ir.DataType{Kind: ir.TypeVoid}}, true
		}
		dt = next
	}
	return &ir.Expression{Pos: e.Pos, AST: e, DataType: dt, IsPure: base.IsPure}, true
}

func propertyType(dt ir.DataType, name string) (ir.DataType, bool) {
	var result ir.DataType
	found := false
	for {
		if dt.Kind == ir.TypeReference && dt.Reference != nil {
			var item ir.Item
			dt.Reference.Read(func(it ir.Item) { item = it })
			if item.Kind == ir.ItemDataType && item.DataType != nil {
				dt = *item.DataType
				continue
			}
			if item.Kind == ir.ItemTable {
				dt = item.Table.RowType()
				continue
			}
		}
		break
	}
	if dt.Kind != ir.TypeCompound {
		return ir.DataType{}, false
	}
	dt.Compound.Fields.Each(func(n string, f ir.CompoundField) {
		if n == name {
			result = f.Type
			found = true
		}
	})
	return result, found
}

func (c *ctx) resolveBinary(e *ast.Expr) (*ir.Expression, bool) {
	left, ok := c.resolveExpr(e.Binary.Left)
	if !ok {
		return nil, false
	}
	right, ok := c.resolveExpr(e.Binary.Right)
	if !ok {
		return nil, false
	}
	entry, found := c.analyzer.Stdlib.LookupBinaryOp(e.Binary.Op, left.DataType, right.DataType)
	if !found {
		c.error(e.Binary.OpPos, diag.KindOperatorNotApplicable, "operator '"+e.Binary.Op+"' is not applicable here")
		return &ir.Expression{Pos: e.Pos, AST: e, DataType: ir.DataType{Kind: ir.TypeVoid}}, true
	}
	return &ir.Expression{Pos: e.Pos, AST: e, DataType: entry.OutputType, IsPure: left.IsPure && right.IsPure}, true
}

func (c *ctx) resolvePrefix(e *ast.Expr) (*ir.Expression, bool) {
	operand, ok := c.resolveExpr(e.Prefix.Operand)
	if !ok {
		return nil, false
	}
	entry, found := c.analyzer.Stdlib.LookupPrefixOp(e.Prefix.Op, operand.DataType)
	if !found {
		c.error(e.Pos, diag.KindOperatorNotApplicable, "operator '"+e.Prefix.Op+"' is not applicable here")
		return &ir.Expression{Pos: e.Pos, AST: e, DataType: ir.DataType{Kind: ir.TypeVoid}}, true
	}
	return &ir.Expression{Pos: e.Pos, AST: e, DataType: entry.OutputType, IsPure: operand.IsPure}, true
}

// resolvePostfix types `is [not] {null|true|false|unknown}` as boolean
// (spec §4.2/§4.3): it is always applicable, so there is no registry
// lookup here.
func (c *ctx) resolvePostfix(e *ast.Expr) (*ir.Expression, bool) {
	operand, ok := c.resolveExpr(e.Postfix.Operand)
	if !ok {
		return nil, false
	}
	return &ir.Expression{Pos: e.Pos, AST: e, DataType: boolType(), IsPure: operand.IsPure}, true
}

// resolveCall resolves the callee path; a module item must be a Function,
// else falls back to the stdlib registry for a single-component name
// (spec §4.4).
func (c *ctx) resolveCall(e *ast.Expr) (*ir.Expression, bool) {
	args := make([]*ir.Expression, 0, len(e.Call.Args))
	argTypes := make([]ir.DataType, 0, len(e.Call.Args))
	for _, a := range e.Call.Args {
		ae, ok := c.resolveExpr(a)
		if !ok {
			return nil, false
		}
		args = append(args, ae)
		argTypes = append(argTypes, ae.DataType)
	}

	if e.Call.Callee.Len() > 1 {
		item, ok := c.resolveItemPath(e.Call.Callee)
		if !ok {
			return nil, false
		}
		return c.resolveUserFunctionCall(e, item, args, argTypes)
	}

	name := e.Call.Callee.First()
	if item, ok := c.module.Items.Get(name); ok {
		return c.resolveUserFunctionCall(e, item, args, argTypes)
	}

	fn, found := c.analyzer.Stdlib.LookupFunction(name, argTypes)
	if !found {
		overloads := c.analyzer.Stdlib.FunctionsNamed(name)
		if len(overloads) > 0 {
			c.error(e.Pos, diag.KindWrongArgumentsCount, "wrong number/type of arguments to '"+name+"'")
		} else {
			c.error(e.Call.Callee.Span(), diag.KindNotInScope, "'"+name+"' not in scope")
		}
		return &ir.Expression{Pos: e.Pos, AST: e, DataType: ir.DataType{Kind: ir.TypeVoid}}, true
	}
	if fn.IsAggregate && !c.scope.IsAggregate {
		c.error(e.Pos, diag.KindNotAllowedHere, "aggregate function '"+name+"' is only allowed in an aggregate query")
	}
	if !fn.IsLiteWeight && c.scope.IsLiteWeight {
		c.error(e.Pos, diag.KindNotAllowedHere, "not lite-weight functions")
	}
	return &ir.Expression{Pos: e.Pos, AST: e, DataType: fn.ResultType, IsPure: true}, true
}

func (c *ctx) resolveUserFunctionCall(e *ast.Expr, item *ir.Handle[ir.Item], args []*ir.Expression, argTypes []ir.DataType) (*ir.Expression, bool) {
	if item == nil {
		return &ir.Expression{Pos: e.Pos, AST: e, DataType: ir.DataType{Kind: ir.TypeVoid}}, true
	}
	var fn *ir.Function
	var kind ir.ItemKind
	item.Read(func(it ir.Item) { kind = it.Kind; fn = it.Function })
	if kind != ir.ItemFunction || fn == nil {
		c.error(e.Call.Callee.Span(), diag.KindExpectedItemOfAnotherType, "'"+e.Call.Callee.String()+"' is not a function")
		return &ir.Expression{Pos: e.Pos, AST: e, DataType: ir.DataType{Kind: ir.TypeVoid}}, true
	}
	if fn.Args.Len() != len(args) {
		c.error(e.Pos, diag.KindWrongArgumentsCount, "expected "+strconv.Itoa(fn.Args.Len())+" arguments")
		return &ir.Expression{Pos: e.Pos, AST: e, DataType: fn.Result}, true
	}
	ok := true
	i := 0
	fn.Args.Each(func(_ string, formal ir.Variable) {
		if formal.Type != nil && !argTypes[i].CanCastTo(*formal.Type) {
			ok = false
		}
		i++
	})
	if !ok {
		c.error(e.Pos, diag.KindExpectedExpressionOfAnotherType, "argument type mismatch calling '"+e.Call.Callee.String()+"'")
	}
	if c.scope.IsLiteWeight && !fn.IsPure {
		c.error(e.Pos, diag.KindNotAllowedHere, "not lite-weight functions")
	}
	return &ir.Expression{Pos: e.Pos, AST: e, DataType: fn.Result, IsPure: fn.IsPure}, true
}

func (c *ctx) resolveSelectExpr(e *ast.Expr) (*ir.Expression, bool) {
	dt, ok := c.resolveSelect(e.Select)
	if !ok {
		return nil, false
	}
	return &ir.Expression{Pos: e.Pos, AST: e, DataType: dt, IsPure: true}, true
}
