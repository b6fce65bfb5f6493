package project

import (
	"testing"

	"github.com/n-lang/ncore/internal/ast"
	"github.com/n-lang/ncore/internal/diag"
	"github.com/n-lang/ncore/internal/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver resolves every module to an empty ir.Module on its first
// visit, recording the paths it was asked to resolve.
type fakeResolver struct {
	seen []string
}

func (f *fakeResolver) Resolve(file *ast.File, path ast.Path, proj *Project) (*ir.Module, *diag.Set, bool) {
	f.seen = append(f.seen, path.String())
	mod := ir.NewModule(path)
	return mod, diag.NewSet(), true
}

func TestProjectResolvesRequestedModule(t *testing.T) {
	t.Parallel()

	source := NewMemoryTextSource(map[string]string{
		"main": "struct Point { x: integer }\n",
	})
	resolver := &fakeResolver{}
	proj := NewProject(source, resolver)

	mainPath := ast.NewPath(ast.ItemPosition{}, "::", "main")
	proj.RequestModule(mainPath)

	diags := proj.Resolve()
	require.True(t, diags.Empty())

	state, ok := proj.State(mainPath)
	require.True(t, ok)
	assert.Equal(t, StateResolved, state.Kind)
	assert.Contains(t, resolver.seen, "main")
}

func TestProjectReportsMissingModule(t *testing.T) {
	t.Parallel()

	source := NewMemoryTextSource(map[string]string{})
	proj := NewProject(source, &fakeResolver{})

	path := ast.NewPath(ast.ItemPosition{}, "::", "nonexistent")
	proj.RequestModule(path)

	diags := proj.Resolve()
	assert.False(t, diags.Empty())

	state, ok := proj.State(path)
	require.True(t, ok)
	assert.Equal(t, StateLoadFailed, state.Kind)
}

func TestProjectReportsParseFailure(t *testing.T) {
	t.Parallel()

	source := NewMemoryTextSource(map[string]string{
		"broken": "struct {{{ not valid",
	})
	proj := NewProject(source, &fakeResolver{})

	path := ast.NewPath(ast.ItemPosition{}, "::", "broken")
	proj.RequestModule(path)

	diags := proj.Resolve()
	assert.False(t, diags.Empty())

	state, ok := proj.State(path)
	require.True(t, ok)
	assert.Equal(t, StateParseFailed, state.Kind)
}

// importingResolver requests a second module the first time it's asked to
// resolve "main", and only finishes once that import has been satisfied by
// a later Load pass (spec §4.4's "current module remains Unresolved for
// the next iteration").
type importingResolver struct {
	rounds map[string]int
}

func (r *importingResolver) Resolve(file *ast.File, path ast.Path, proj *Project) (*ir.Module, *diag.Set, bool) {
	if r.rounds == nil {
		r.rounds = make(map[string]int)
	}
	key := path.String()
	r.rounds[key]++

	if key == "main" {
		importPath := ast.NewPath(ast.ItemPosition{}, "::", "dep")
		proj.RequestModule(importPath)
		dep, ok := proj.LookupModule(importPath)
		if !ok {
			return nil, nil, false
		}
		_ = dep
	}

	mod := ir.NewModule(path)
	return mod, diag.NewSet(), true
}

func TestProjectFixedPointWaitsForImport(t *testing.T) {
	t.Parallel()

	source := NewMemoryTextSource(map[string]string{
		"main": "use dep;\n",
		"dep":  "struct Empty {}\n",
	})
	resolver := &importingResolver{}
	proj := NewProject(source, resolver)

	proj.RequestModule(ast.NewPath(ast.ItemPosition{}, "::", "main"))

	diags := proj.Resolve()
	require.True(t, diags.Empty())

	mainState, ok := proj.State(ast.NewPath(ast.ItemPosition{}, "::", "main"))
	require.True(t, ok)
	assert.Equal(t, StateResolved, mainState.Kind)

	depState, ok := proj.State(ast.NewPath(ast.ItemPosition{}, "::", "dep"))
	require.True(t, ok)
	assert.Equal(t, StateResolved, depState.Kind)
}
