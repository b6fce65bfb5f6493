package sema

import (
	"testing"

	"github.com/n-lang/ncore/internal/ast"
	"github.com/n-lang/ncore/internal/diag"
	"github.com/n-lang/ncore/internal/ir"
	"github.com/n-lang/ncore/internal/project"
	"github.com/n-lang/ncore/internal/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intTypeExpr(size int) *ast.TypeExpr {
	return &ast.TypeExpr{Kind: ast.TypePrimitive, Primitive: &ast.PrimitiveType{Kind: ast.PrimitiveNumber, Number: ast.NumberInteger, Size: &size}}
}

func mainPath() ast.Path {
	return ast.NewPath(ast.ItemPosition{}, "::", "main")
}

// resolveProgram resolves a hand-built single-module AST directly through
// the Analyzer (bypassing text/parse, which internal/project's own tests
// already cover), returning the resolved module and diagnostics. The empty
// project is only present to satisfy the Resolver signature; none of these
// programs reference another module.
func resolveProgram(t *testing.T, items []*ast.Item) (*ir.Module, *diag.Set) {
	t.Helper()
	analyzer := NewAnalyzer(stdlib.MSSQLBundle())
	proj := project.NewProject(project.NewMemoryTextSource(nil), analyzer)

	file := &ast.File{Items: items}
	mod, diags, ok := analyzer.Resolve(file, mainPath(), proj)
	require.True(t, ok, "resolution should not block on an import")
	require.NotNil(t, mod)
	return mod, diags
}

func TestStructResolvesFields(t *testing.T) {
	t.Parallel()

	item := &ast.Item{Kind: ast.ItemDataType, Name: "Point", DataType: &ast.CompoundType{
		Kind: ast.CompoundStructure,
		Fields: []ast.Field{
			{Name: "x", Type: *intTypeExpr(32)},
			{Name: "y", Type: *intTypeExpr(32)},
		},
	}}

	mod, diags := resolveProgram(t, []*ast.Item{item})
	assert.True(t, diags.Empty())

	handle, ok := mod.Items.Get("Point")
	require.True(t, ok)
	handle.Read(func(it ir.Item) {
		require.Equal(t, ir.ItemDataType, it.Kind)
		require.NotNil(t, it.DataType)
		assert.Equal(t, 2, it.DataType.Compound.Fields.Len())
	})
}

func TestDuplicateFieldIsDiagnosed(t *testing.T) {
	t.Parallel()

	item := &ast.Item{Kind: ast.ItemDataType, Name: "Dup", DataType: &ast.CompoundType{
		Kind: ast.CompoundStructure,
		Fields: []ast.Field{
			{Name: "x", Type: *intTypeExpr(32)},
			{Name: "x", Type: *intTypeExpr(32)},
		},
	}}

	_, diags := resolveProgram(t, []*ast.Item{item})
	require.False(t, diags.Empty())
	found := false
	for _, d := range diags.All() {
		if d.Kind == diag.KindDuplicateDefinition {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDuplicateItemIsDiagnosed(t *testing.T) {
	t.Parallel()

	a := &ast.Item{Kind: ast.ItemDataType, Name: "Thing", DataType: &ast.CompoundType{Kind: ast.CompoundStructure}}
	b := &ast.Item{Kind: ast.ItemDataType, Name: "Thing", DataType: &ast.CompoundType{Kind: ast.CompoundStructure}}

	_, diags := resolveProgram(t, []*ast.Item{a, b})
	require.False(t, diags.Empty())
	found := false
	for _, d := range diags.All() {
		if d.Kind == diag.KindDuplicateDefinition {
			found = true
		}
	}
	assert.True(t, found)
}

func TestFunctionBodyResolvesReturnAndSideEffects(t *testing.T) {
	t.Parallel()

	// fn add(a: integer, b: integer): integer {
	//   return a + b;
	// }
	addExpr := &ast.Expr{Kind: ast.ExprBinary}
	addExpr.Binary.Op = "+"
	addExpr.Binary.Left = &ast.Expr{Kind: ast.ExprIdent, Ident: "a"}
	addExpr.Binary.Right = &ast.Expr{Kind: ast.ExprIdent, Ident: "b"}

	body := &ast.Stmt{Kind: ast.StmtBlock, Block: []*ast.Stmt{
		{Kind: ast.StmtReturn, Return: addExpr},
	}}

	fnItem := &ast.Item{Kind: ast.ItemFunction, Name: "add", Function: &ast.FunctionDef{
		Params: []ast.FunctionParam{
			{Name: "a", Type: *intTypeExpr(32)},
			{Name: "b", Type: *intTypeExpr(32)},
		},
		Result: intTypeExpr(32),
		Body:   body,
	}}

	mod, diags := resolveProgram(t, []*ast.Item{fnItem})
	assert.True(t, diags.Empty())

	handle, ok := mod.Items.Get("add")
	require.True(t, ok)
	handle.Read(func(it ir.Item) {
		require.NotNil(t, it.Function)
		assert.Equal(t, 2, it.Function.Args.Len())
		assert.True(t, it.Function.IsPure, "pure arithmetic body should not be flagged as side-effecting")
	})
}

func TestUnknownIdentifierIsNotInScope(t *testing.T) {
	t.Parallel()

	body := &ast.Stmt{Kind: ast.StmtBlock, Block: []*ast.Stmt{
		{Kind: ast.StmtReturn, Return: &ast.Expr{Kind: ast.ExprIdent, Ident: "nope"}},
	}}
	fnItem := &ast.Item{Kind: ast.ItemFunction, Name: "f", Function: &ast.FunctionDef{
		Result: intTypeExpr(32),
		Body:   body,
	}}

	_, diags := resolveProgram(t, []*ast.Item{fnItem})
	require.False(t, diags.Empty())
	found := false
	for _, d := range diags.All() {
		if d.Kind == diag.KindNotInScope {
			found = true
		}
	}
	assert.True(t, found)
}

func TestExternFunctionWithNoSideEffectsIsPure(t *testing.T) {
	t.Parallel()

	fnItem := &ast.Item{Kind: ast.ItemFunction, Name: "now", Function: &ast.FunctionDef{
		Extern:     true,
		Attributes: []ast.Attribute{{Name: "no_side_effects"}},
		Result:     intTypeExpr(64),
	}}

	mod, diags := resolveProgram(t, []*ast.Item{fnItem})
	assert.True(t, diags.Empty())

	handle, ok := mod.Items.Get("now")
	require.True(t, ok)
	handle.Read(func(it ir.Item) {
		assert.True(t, it.Function.Extern)
		assert.True(t, it.Function.IsPure)
	})
}
