// Package sema resolves parsed ASTs into the typed IR (spec §4.4): name
// resolution, type elaboration, expression/statement resolution, and
// SELECT result typing. It is the project driver's Resolver (spec §4.4's
// "passed to its AST root's resolve with context (module_path, project)").
package sema

import (
	"github.com/n-lang/ncore/internal/ast"
	"github.com/n-lang/ncore/internal/diag"
	"github.com/n-lang/ncore/internal/ir"
	"github.com/n-lang/ncore/internal/project"
	"github.com/n-lang/ncore/internal/stdlib"
)

// Analyzer is the project.Resolver implementation; Stdlib is consulted for
// operator/function resolution (spec §4.4's "fall back to the stdlib
// function registry").
type Analyzer struct {
	Stdlib *stdlib.Registry
}

func NewAnalyzer(std *stdlib.Registry) *Analyzer {
	return &Analyzer{Stdlib: std}
}

// ctx threads the state one module resolution needs: the module under
// construction, the project (for resolve_import callbacks), the current
// scope, and a diagnostic sink. The waiting field is never set; a
// resolution blocked on an import that hasn't loaded yet is reported
// through the ok=false results of the resolve functions instead.
type ctx struct {
	analyzer *Analyzer
	proj     *project.Project
	modPath  ast.Path
	module   *ir.Module
	diags    *diag.Set

	scope   *ir.Scope
	waiting bool
}

func (c *ctx) error(pos ast.ItemPosition, kind diag.Kind, msg string) {
	c.diags.Add(&diag.Diagnostic{Kind: kind, Pos: pos, Message: msg})
}

func (c *ctx) pushScope() *ir.Scope {
	c.scope = ir.NewScope(c.scope)
	return c.scope
}

func (c *ctx) popScope(to *ir.Scope) {
	c.scope = to
}
