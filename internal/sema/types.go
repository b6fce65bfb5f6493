package sema

import (
	"github.com/n-lang/ncore/internal/ast"
	"github.com/n-lang/ncore/internal/diag"
	"github.com/n-lang/ncore/internal/ir"
)

// resolveType elaborates an ast.TypeExpr into an ir.DataType (spec §4.4
// "Type elaboration"). ok is false only when resolution must wait on an
// import that hasn't loaded yet.
func (c *ctx) resolveType(t *ast.TypeExpr) (ir.DataType, bool) {
	if t == nil {
		return ir.DataType{Kind: ir.TypeVoid}, true
	}
	switch t.Kind {
	case ast.TypePrimitive:
		return ir.DataType{Kind: ir.TypePrimitive, Primitive: t.Primitive}, true

	case ast.TypeCompound:
		return c.resolveCompoundType(t.Compound)

	case ast.TypeArray:
		elem, ok := c.resolveType(t.Element)
		if !ok {
			return ir.DataType{}, false
		}
		return ir.DataType{Kind: ir.TypeArray, Element: &elem}, true

	case ast.TypeReference:
		return c.resolveTypeReference(*t.Reference)
	}
	return ir.DataType{}, true
}

func (c *ctx) resolveCompoundType(ct *ast.CompoundType) (ir.DataType, bool) {
	fields := ir.NewCompoundFields()
	kind := ir.CompoundStructure
	if ct.Kind == ast.CompoundTuple {
		kind = ir.CompoundTuple
	}
	for i, f := range ct.Fields {
		fieldType, ok := c.resolveType(&f.Type)
		if !ok {
			return ir.DataType{}, false
		}
		name := f.Name
		if ct.Kind == ast.CompoundTuple {
			name = ir.TupleComponentName(i)
		}
		if !fields.Put(name, ir.CompoundField{Name: name, Type: fieldType}) {
			c.error(f.Pos, diag.KindDuplicateDefinition, "duplicate field '"+name+"'")
		}
	}
	return ir.DataType{Kind: ir.TypeCompound, Compound: &ir.CompoundType{Kind: kind, Fields: fields}}, true
}

// resolveTypeReference elaborates a module-qualified identifier path into
// a DataType referencing the named item; the item must turn out to be a
// DataType, else ExpectedItemOfAnotherType (spec §4.4).
func (c *ctx) resolveTypeReference(path ast.Path) (ir.DataType, bool) {
	item, ok := c.resolveItemPath(path)
	if !ok {
		return ir.DataType{}, false
	}
	if item == nil {
		return ir.DataType{}, true // already reported
	}
	var kind ir.ItemKind
	item.Read(func(it ir.Item) { kind = it.Kind })
	if kind != ir.ItemDataType {
		c.error(path.Span(), diag.KindExpectedItemOfAnotherType, "'"+path.String()+"' is not a type")
		return ir.DataType{}, true
	}
	return ir.DataType{Kind: ir.TypeReference, Reference: item}, true
}
