package sema

import (
	"github.com/n-lang/ncore/internal/ast"
	"github.com/n-lang/ncore/internal/diag"
	"github.com/n-lang/ncore/internal/ir"
	"github.com/n-lang/ncore/internal/project"
)

// Resolve implements project.Resolver (spec §4.4's resolve pass). It
// declares every module item (so items may reference each other in any
// order), then resolves each item's body. If a wildcard `use` names a
// module that hasn't resolved yet, it asks the project to request it and
// returns ok=false so the driver retries next round. A non-wildcard `use`
// path is looked up only in this module's items and wildcard imports; it
// does not request or wait for another module, and an unknown first
// component is reported as NotInScope.
func (a *Analyzer) Resolve(file *ast.File, path ast.Path, proj *project.Project) (*ir.Module, *diag.Set, bool) {
	c := &ctx{analyzer: a, proj: proj, modPath: path, module: ir.NewModule(path), diags: diag.NewSet()}

	if !c.declareItems(file) {
		return nil, c.diags, false
	}
	c.resolveItemBodies(file)

	return c.module, c.diags, true
}

// declareItems makes every item's name live in the module's ordered item
// map (spec §3: "An item becomes live on first put_item"), processing
// `use` items' imports along the way. Returns false if an import is not
// yet available.
func (c *ctx) declareItems(file *ast.File) bool {
	for _, item := range file.Items {
		switch item.Kind {
		case ast.ItemUse:
			if !c.declareUse(item) {
				return false
			}
		case ast.ItemDataType:
			handle := ir.NewHandle(ir.Item{Name: item.Name, Pos: item.Pos, Kind: ir.ItemDataType})
			c.putItem(item.Name, item.Pos, handle)
		case ast.ItemTable:
			handle := ir.NewHandle(ir.Item{Name: item.Name, Pos: item.Pos, Kind: ir.ItemTable})
			c.putItem(item.Name, item.Pos, handle)
		case ast.ItemFunction:
			handle := ir.NewHandle(ir.Item{Name: item.Name, Pos: item.Pos, Kind: ir.ItemFunction})
			c.putItem(item.Name, item.Pos, handle)
		case ast.ItemModule:
			sub, ok := c.resolveNestedModule(item)
			if !ok {
				return false
			}
			handle := ir.NewHandle(ir.Item{Name: item.Name, Pos: item.Pos, Kind: ir.ItemModuleRef, Module: sub})
			c.putItem(item.Name, item.Pos, handle)
		}
	}
	return true
}

func (c *ctx) putItem(name string, pos ast.ItemPosition, handle *ir.Handle[ir.Item]) {
	if name == "" {
		c.error(pos, diag.KindItemNameNotSpecified, "item has no name")
		return
	}
	if !c.module.Items.Put(name, handle) {
		c.error(pos, diag.KindDuplicateDefinition, "duplicate definition of '"+name+"'")
	}
}

// declareUse resolves one `use` item: binds a single imported name, or
// (wildcard) appends the target module to this module's import list (spec
// §4.4's name resolution rules).
func (c *ctx) declareUse(item *ast.Item) bool {
	u := item.Use
	target := c.rewriteSelfSuper(u.Path)

	if u.Wildcard {
		mod, ok := c.lookupModuleHandle(target)
		if !ok {
			return false
		}
		c.module.Imports = append(c.module.Imports, mod)
		return true
	}

	handle, ok := c.resolveItemPath(target)
	if !ok {
		return false
	}
	if handle == nil {
		return true // already reported (bad path)
	}
	name := u.Alias
	if name == "" {
		name = target.Last()
	}
	c.putItem(name, item.Pos, handle)
	return true
}

// rewriteSelfSuper applies spec §4.4's `self`/`super` path rewrite.
func (c *ctx) rewriteSelfSuper(p ast.Path) ast.Path {
	for p.Len() > 0 && (p.First() == "self" || p.First() == "super") {
		if p.First() == "self" {
			_, rest := p.PopLeft()
			p = rest
			continue
		}
		if c.modPath.Len() == 0 {
			c.error(p.Span(), diag.KindSuperOfRoot, "'super' used at the project root")
			return p
		}
		_, rest := p.PopLeft()
		parent, _ := c.modPath.PopRight()
		p = ast.NewPath(p.Span(), p.Delimiter, append(append([]string{}, parent.Components...), rest.Components...)...)
	}
	return p
}

// lookupModuleHandle resolves an absolute module path to its resolved
// Module handle via the project, requesting it first if unknown.
func (c *ctx) lookupModuleHandle(path ast.Path) (*ir.Handle[ir.Module], bool) {
	c.proj.RequestModule(path)
	return c.proj.LookupModule(path)
}

// resolveNestedModule resolves a `mod name { ... }` item's body eagerly,
// as a sub-analysis sharing this project (spec §4.3's nested mod).
func (c *ctx) resolveNestedModule(item *ast.Item) (*ir.Handle[ir.Module], bool) {
	subPath := c.modPath.WithComponent(item.Name)
	sub := &ctx{analyzer: c.analyzer, proj: c.proj, modPath: subPath, module: ir.NewModule(subPath), diags: diag.NewSet()}

	file := &ast.File{Meta: item.Meta, Items: item.Module.Items}
	if !sub.declareItems(file) {
		return nil, false
	}
	sub.resolveItemBodies(file)
	for _, d := range sub.diags.All() {
		c.diags.Add(d)
	}
	return ir.NewHandle(*sub.module), true
}

// resolveItemPath resolves a (possibly multi-component) path to the item
// handle it names: single component -> this module's item map, or its
// imports; multiple components -> first component names an imported
// module item, remaining components walk its item map recursively.
// The lookup never waits on a module load: ok is always true, and a name
// that is not found is reported as NotInScope and yields a nil handle.
func (c *ctx) resolveItemPath(path ast.Path) (*ir.Handle[ir.Item], bool) {
	path = c.rewriteSelfSuper(path)
	if path.Len() == 0 {
		return nil, true
	}
	return c.lookupInModule(c.module, path.Components, path.Span(), map[string]bool{})
}

func (c *ctx) lookupInModule(mod *ir.Module, names []string, pos ast.ItemPosition, visited map[string]bool) (*ir.Handle[ir.Item], bool) {
	key := mod.Path.String()
	if visited[key] {
		return nil, true
	}
	visited[key] = true

	head := names[0]
	handle, ok := mod.Items.Get(head)
	if !ok {
		for _, imp := range mod.Imports {
			var found *ir.Handle[ir.Item]
			imp.Read(func(m ir.Module) {
				if h, present := m.Items.Get(head); present {
					found = h
				}
			})
			if found != nil {
				handle = found
				ok = true
				break
			}
		}
	}
	if !ok {
		c.error(pos, diag.KindNotInScope, "'"+head+"' not found")
		return nil, true
	}
	if len(names) == 1 {
		return handle, true
	}

	var nextMod *ir.Handle[ir.Module]
	handle.Read(func(it ir.Item) {
		if it.Kind == ir.ItemModuleRef {
			nextMod = it.Module
		}
	})
	if nextMod == nil {
		c.error(pos, diag.KindExpectedItemOfAnotherType, "'"+head+"' is not a module")
		return nil, true
	}
	var out *ir.Handle[ir.Item]
	var innerOK bool
	nextMod.Read(func(m ir.Module) {
		out, innerOK = c.lookupInModule(&m, names[1:], pos, visited)
	})
	return out, innerOK
}
