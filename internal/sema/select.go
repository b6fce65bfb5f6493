package sema

import (
	"github.com/n-lang/ncore/internal/ast"
	"github.com/n-lang/ncore/internal/diag"
	"github.com/n-lang/ncore/internal/ir"
)

// resolveSelect types a SELECT query (spec §4.4's "SELECT result typing"):
// FROM first (binding one variable per alias in a fresh lite-weight child
// scope), then WHERE/HAVING, then the projection (tuple unless every
// column is nameable, in which case a structure), finally wrapped in
// Array(T) unless LIMIT 1 or an aggregate query without GROUP BY makes it
// a single row.
func (c *ctx) resolveSelect(sel *ast.Select) (ir.DataType, bool) {
	parent := c.scope
	fromScope := c.pushScope()
	fromScope.IsLiteWeight = true

	if sel.From != nil {
		c.resolveDataSource(sel.From, fromScope)
	}

	if sel.Where != nil {
		where, _ := c.resolveExpr(sel.Where)
		if where != nil && !where.DataType.CanCastTo(boolType()) {
			c.error(sel.Where.Pos, diag.KindExpectedExpressionOfAnotherType, "where clause must be boolean")
		}
	}

	isAggregate := selectIsAggregate(sel)
	if isAggregate {
		fromScope.IsAggregate = true
	}

	if sel.Having != nil {
		havingParent := c.scope
		havingScope := c.pushScope()
		havingScope.IsAggregate = true
		having, _ := c.resolveExpr(sel.Having)
		if having != nil && !having.DataType.CanCastTo(boolType()) {
			c.error(sel.Having.Pos, diag.KindExpectedExpressionOfAnotherType, "having clause must be boolean")
		}
		c.popScope(havingParent)
	}

	rowType := c.resolveProjection(sel, isAggregate)

	c.popScope(parent)

	if sel.HasLimit && sel.LimitCount != nil && isLimitOne(sel.LimitCount) {
		return rowType, true
	}
	if isAggregate && len(sel.GroupBy) == 0 {
		return rowType, true
	}
	return ir.DataType{Kind: ir.TypeArray, Element: &rowType}, true
}

func isLimitOne(e *ast.Expr) bool {
	return e.Kind == ast.ExprLiteral && e.Literal != nil && e.Literal.Kind == ast.LitNumber &&
		!e.Literal.Fractional && !e.Literal.Negative && e.Literal.ApproxValue == 1
}

// resolveProjection builds the row type: a tuple if any column lacks a
// nameable alias/identifier, otherwise a structure keyed by name. In an
// aggregate query, every projected expression must be verbatim in GROUP BY
// or composed only of aggregate calls (spec §4.4).
func (c *ctx) resolveProjection(sel *ast.Select, isAggregate bool) ir.DataType {
	fields := ir.NewCompoundFields()
	allNamed := true
	i := 0
	for _, col := range sel.Columns {
		if col.Star {
			allNamed = false
			i++
			continue
		}
		value, _ := c.resolveExpr(col.Value)
		name := col.Alias
		if name == "" {
			name = identNameOf(col.Value)
		}
		if name == "" {
			allNamed = false
		}
		if isAggregate && !selectProjectionIsAggregateSafe(col.Value, sel.GroupBy) {
			c.error(col.Pos, diag.KindNotAllowedInside, "not aggregation expression")
		}
		dt := ir.DataType{Kind: ir.TypeVoid}
		if value != nil {
			dt = value.DataType
		}
		fieldName := name
		if fieldName == "" {
			fieldName = ir.TupleComponentName(i)
		}
		fields.Put(fieldName, ir.CompoundField{Name: fieldName, Type: dt})
		i++
	}
	kind := ir.CompoundStructure
	if !allNamed {
		kind = ir.CompoundTuple
		renumbered := ir.NewCompoundFields()
		idx := 0
		fields.Each(func(_ string, f ir.CompoundField) {
			n := ir.TupleComponentName(idx)
			renumbered.Put(n, ir.CompoundField{Name: n, Type: f.Type})
			idx++
		})
		fields = renumbered
	}
	return ir.DataType{Kind: ir.TypeCompound, Compound: &ir.CompoundType{Kind: kind, Fields: fields}}
}

func identNameOf(e *ast.Expr) string {
	if e == nil {
		return ""
	}
	if e.Kind == ast.ExprIdent {
		return e.Ident
	}
	if e.Kind == ast.ExprPath && len(e.Path.Props) > 0 {
		return e.Path.Props[len(e.Path.Props)-1]
	}
	return ""
}

// selectIsAggregate reports whether a query counts as an "aggregate query"
// (spec §4.4): any output expression contains an aggregate call, or there's
// a GROUP BY.
func selectIsAggregate(sel *ast.Select) bool {
	if len(sel.GroupBy) > 0 {
		return true
	}
	for _, col := range sel.Columns {
		if exprContainsAggregateCall(col.Value) {
			return true
		}
	}
	return false
}

func exprContainsAggregateCall(e *ast.Expr) bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case ast.ExprCall:
		// Heuristic grounded on the stdlib's aggregate names (spec §6):
		// max/min/sum/avg/count are the only aggregate entries shipped.
		if e.Call.Callee.Len() == 1 && isAggregateFunctionName(e.Call.Callee.First()) {
			return true
		}
		for _, a := range e.Call.Args {
			if exprContainsAggregateCall(a) {
				return true
			}
		}
	case ast.ExprBinary:
		return exprContainsAggregateCall(e.Binary.Left) || exprContainsAggregateCall(e.Binary.Right)
	case ast.ExprPrefix:
		return exprContainsAggregateCall(e.Prefix.Operand)
	case ast.ExprPostfix:
		return exprContainsAggregateCall(e.Postfix.Operand)
	case ast.ExprPath:
		return exprContainsAggregateCall(e.Path.Base)
	}
	return false
}

func isAggregateFunctionName(name string) bool {
	switch name {
	case "max", "min", "sum", "avg", "count":
		return true
	}
	return false
}

// selectProjectionIsAggregateSafe checks a projected expression is either
// verbatim in GROUP BY or built only from aggregate calls (spec §4.4).
func selectProjectionIsAggregateSafe(e *ast.Expr, groupBy []ast.OrderItem) bool {
	if exprInGroupBy(e, groupBy) {
		return true
	}
	return exprIsAggregateComposed(e)
}

func exprInGroupBy(e *ast.Expr, groupBy []ast.OrderItem) bool {
	key := func(x *ast.Expr) string { // "id" or "c.id", as written
		if x != nil && x.Kind == ast.ExprIdent {
			return x.Ident
		}
		if x != nil && x.Kind == ast.ExprPath && x.Path.Base != nil && x.Path.Base.Kind == ast.ExprIdent {
			k := x.Path.Base.Ident
			for _, p := range x.Path.Props {
				k += "." + p
			}
			return k
		}
		return ""
	}
	name := key(e)
	if name == "" {
		return false
	}
	for _, g := range groupBy {
		if key(g.Value) == name {
			return true
		}
	}
	return false
}

func exprIsAggregateComposed(e *ast.Expr) bool {
	if e == nil {
		return true
	}
	switch e.Kind {
	case ast.ExprLiteral:
		return true
	case ast.ExprCall:
		if e.Call.Callee.Len() == 1 && isAggregateFunctionName(e.Call.Callee.First()) {
			return true
		}
		for _, a := range e.Call.Args {
			if !exprIsAggregateComposed(a) {
				return false
			}
		}
		return len(e.Call.Args) > 0
	case ast.ExprBinary:
		return exprIsAggregateComposed(e.Binary.Left) && exprIsAggregateComposed(e.Binary.Right)
	case ast.ExprPrefix:
		return exprIsAggregateComposed(e.Prefix.Operand)
	}
	return false
}

// resolveDataSource binds a variable per table/subquery alias into scope
// (spec §4.4), resolving join conditions in the combined scope.
func (c *ctx) resolveDataSource(ds *ast.DataSource, scope *ir.Scope) {
	switch ds.Kind {
	case ast.DataSourceTable:
		dt := c.tableRowType(ds.Table)
		name := ds.Alias
		if name == "" {
			name = ds.Table.Last()
		}
		scope.Define(ir.Variable{Name: name, Pos: ds.Pos, Type: &dt, ReadOnly: true})
	case ast.DataSourceSubquery:
		dt, _ := c.resolveSelect(ds.Subquery)
		if dt.Kind == ir.TypeArray {
			dt = *dt.Element
		}
		scope.Define(ir.Variable{Name: ds.Alias, Pos: ds.Pos, Type: &dt, ReadOnly: true})
	case ast.DataSourceJoin:
		c.resolveDataSource(ds.Left, scope)
		c.resolveDataSource(ds.Right, scope)
		if ds.Condition != nil && ds.Condition.On != nil {
			c.resolveExpr(ds.Condition.On)
		}
	}
}

func (c *ctx) tableRowType(path ast.Path) ir.DataType {
	item, ok := c.resolveItemPath(path)
	if !ok || item == nil {
		return ir.DataType{Kind: ir.TypeVoid}
	}
	var dt ir.DataType
	item.Read(func(it ir.Item) {
		switch it.Kind {
		case ir.ItemTable:
			dt = it.Table.RowType()
		default:
			dt = ir.DataType{Kind: ir.TypeVoid}
		}
	})
	return dt
}
