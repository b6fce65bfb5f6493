package sema

import (
	"github.com/n-lang/ncore/internal/ast"
	"github.com/n-lang/ncore/internal/diag"
	"github.com/n-lang/ncore/internal/ir"
)

// resolveItemBodies fills in the placeholder Item handles declareItems
// created, now that every name in the module (and its nested modules) is
// live for forward references (spec §4.4: "Items inside a module may
// reference one another in any order").
func (c *ctx) resolveItemBodies(file *ast.File) {
	for _, item := range file.Items {
		switch item.Kind {
		case ast.ItemDataType:
			c.resolveDataTypeItem(item)
		case ast.ItemTable:
			c.resolveTableItem(item)
		case ast.ItemFunction:
			c.resolveFunctionItem(item)
		}
	}
}

func (c *ctx) handleFor(name string) *ir.Handle[ir.Item] {
	h, ok := c.module.Items.Get(name)
	if !ok {
		return nil
	}
	return h
}

func (c *ctx) resolveDataTypeItem(item *ast.Item) {
	handle := c.handleFor(item.Name)
	if handle == nil {
		return
	}
	dt, _ := c.resolveCompoundType(item.DataType)
	handle.Write(func(it *ir.Item) { it.DataType = &dt })
}

func (c *ctx) resolveTableItem(item *ast.Item) {
	handle := c.handleFor(item.Name)
	if handle == nil {
		return
	}
	fields := ir.NewCompoundFields()
	for _, f := range item.Table.Fields {
		ft, ok := c.resolveType(&f.Type)
		if !ok {
			continue
		}
		if !fields.Put(f.Name, ir.CompoundField{Name: f.Name, Type: ft}) {
			c.error(f.Pos, diag.KindDuplicateDefinition, "duplicate field '"+f.Name+"'")
		}
	}
	table := ir.NewTable(item.Pos, fields)
	handle.Write(func(it *ir.Item) { it.Table = table })
}

func (c *ctx) resolveFunctionItem(item *ast.Item) {
	handle := c.handleFor(item.Name)
	if handle == nil {
		return
	}
	def := item.Function

	argsMap := ir.NewVariableMap()
	for _, p := range def.Params {
		pt, ok := c.resolveType(&p.Type)
		if !ok {
			continue
		}
		v := ir.Variable{Name: p.Name, Pos: p.Pos, Type: &pt, IsArg: true, ReadOnly: true}
		if !argsMap.Put(p.Name, v) {
			c.error(p.Pos, diag.KindDuplicateDefinition, "duplicate argument '"+p.Name+"'")
		}
	}

	result, _ := c.resolveType(def.Result)

	fn := &ir.Function{Pos: item.Pos, Args: argsMap, Result: result, Extern: def.Extern}
	if def.Extern {
		fn.NoSideEffects = hasAttribute(def.Attributes, "no_side_effects")
		fn.IsPure = fn.NoSideEffects
	} else {
		parent := c.scope
		fnScope := c.pushScope()
		fnScope.IsLiteWeight = hasAttribute(def.Attributes, "lite_weight")
		argsMap.Each(func(name string, v ir.Variable) { fnScope.Define(v) })

		body, jumping := c.resolveStmt(def.Body)
		fn.Body = body
		fn.IsPure = !bodyHasSideEffects(body)
		_ = jumping
		c.popScope(parent)
	}

	handle.Write(func(it *ir.Item) { it.Function = fn })
}

func hasAttribute(attrs []ast.Attribute, name string) bool {
	for _, a := range attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

func bodyHasSideEffects(s *ir.Statement) bool {
	if s == nil {
		return false
	}
	return s.HasSideEffects
}
