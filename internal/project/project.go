// Package project drives the fixed-point load/resolve loop over a map of
// module paths to module states (spec §4.4), asking an external TextSource
// for module text (spec §6).
package project

import (
	"github.com/n-lang/ncore/internal/ast"
	"github.com/n-lang/ncore/internal/diag"
	"github.com/n-lang/ncore/internal/ir"
	"github.com/n-lang/ncore/internal/parser"
)

// StateKind tags a module's position in its lifecycle (spec §3):
// `Requested -> LoadFailed | ParseFailed(errors) | Unresolved(AST) ->
// Resolved(Module)`.
type StateKind int

const (
	StateRequested StateKind = iota
	StateLoadFailed
	StateParseFailed
	StateUnresolved
	StateResolved
)

// State is one module's current lifecycle position plus whatever payload
// that position carries.
type State struct {
	Kind StateKind

	AST         *ast.File      // StateUnresolved
	Resolved    *ir.Handle[ir.Module] // StateResolved
	Diagnostics *diag.Set      // StateParseFailed / StateResolved
	LoadErr     error          // StateLoadFailed
}

// Resolver resolves one module's AST into an ir.Module, given the project
// as callback context for resolve_import (spec §4.4). It reports whether it
// made progress (consumed the Unresolved state) and any diagnostics raised.
// A module that calls RequestImport for a not-yet-known path and cannot
// finish should return ok=false so the driver retries it next iteration.
type Resolver interface {
	Resolve(file *ast.File, path ast.Path, proj *Project) (mod *ir.Module, diags *diag.Set, ok bool)
}

// Project is the fixed-point driver over ModulePath -> ModuleState (spec
// §4.4). It owns the module states; items/Tables/Functions are in turn
// owned by the Module each state resolves to (spec §3's ownership rule).
type Project struct {
	source   TextSource
	resolver Resolver

	states map[string]*State
	order  []string // first-requested order, for deterministic passes
}

func NewProject(source TextSource, resolver Resolver) *Project {
	return &Project{source: source, resolver: resolver, states: make(map[string]*State)}
}

// RequestModule ensures path has at least a Requested entry, returning
// whether this call created it (spec §4.4's "the driver records a new
// Requested entry").
func (p *Project) RequestModule(path ast.Path) bool {
	key := path.String()
	if _, ok := p.states[key]; ok {
		return false
	}
	p.states[key] = &State{Kind: StateRequested}
	p.order = append(p.order, key)
	return true
}

// State returns the current state for path, if any.
func (p *Project) State(path ast.Path) (*State, bool) {
	s, ok := p.states[path.String()]
	return s, ok
}

// LookupModule returns the resolved module at path, if it has reached
// StateResolved.
func (p *Project) LookupModule(path ast.Path) (*ir.Handle[ir.Module], bool) {
	s, ok := p.states[path.String()]
	if !ok || s.Kind != StateResolved {
		return nil, false
	}
	return s.Resolved, true
}

// Resolve runs the fixed-point driver: alternating load and resolve passes
// until a pass makes no progress (spec §4.4). It returns the accumulated
// diagnostics of every module: one per LoadFailed module, the stored sets
// of ParseFailed and Resolved modules, plus one per module still stuck
// Unresolved/Requested once the loop goes dry (an unresolved `use` cycle
// or a missing module). A TextSource I/O error (anything but "not found")
// stops the loop right after the load pass that met it.
func (p *Project) Resolve() *diag.Set {
	for {
		progressed := p.loadPass()
		for _, key := range p.order {
			if p.states[key].LoadErr != nil {
				return p.collectDiagnostics()
			}
		}
		if p.resolvePass() {
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return p.collectDiagnostics()
}

// loadPass asks the TextSource for every Requested module's bytes, lexes,
// and parses it (spec §4.4 step 1).
func (p *Project) loadPass() bool {
	progressed := false
	for _, key := range p.order {
		s := p.states[key]
		if s.Kind != StateRequested {
			continue
		}
		progressed = true
		p.load(key, s)
	}
	return progressed
}

func (p *Project) load(key string, s *State) {
	text, ok, err := p.source.Load(key)
	if err != nil {
		s.Kind = StateLoadFailed
		s.LoadErr = err
		return
	}
	if !ok {
		s.Kind = StateLoadFailed
		s.LoadErr = nil
		return
	}
	file, diags := parser.Parse(text)
	if file == nil {
		s.Kind = StateParseFailed
		s.Diagnostics = diags
		return
	}
	s.Kind = StateUnresolved
	s.AST = file
}

// resolvePass runs the resolver over every Unresolved module (spec §4.4
// step 2). A module that cannot finish (e.g. it requested a still-unknown
// import) stays Unresolved for the next round.
func (p *Project) resolvePass() bool {
	progressed := false
	for _, key := range p.order {
		s := p.states[key]
		if s.Kind != StateUnresolved {
			continue
		}
		path := pathFromKey(key, s.AST)
		mod, diags, ok := p.resolver.Resolve(s.AST, path, p)
		if !ok {
			continue
		}
		progressed = true
		if mod == nil {
			s.Kind = StateParseFailed // resolution itself failed hard; diagnostics explain why
			s.Diagnostics = diags
			continue
		}
		s.Kind = StateResolved
		s.Resolved = ir.NewHandle(*mod)
		s.Diagnostics = diags
	}
	return progressed
}

func pathFromKey(key string, file *ast.File) ast.Path {
	pos := ast.ItemPosition{}
	if file != nil {
		pos = file.Pos
	}
	return ast.NewPath(pos, "::", key)
}

func (p *Project) collectDiagnostics() *diag.Set {
	set := diag.NewSet()
	for _, key := range p.order {
		s := p.states[key]
		switch s.Kind {
		case StateLoadFailed:
			set.Add(&diag.Diagnostic{Kind: diag.KindUnresolvedItem, Message: "module " + key + " could not be loaded"})
		case StateParseFailed, StateResolved:
			if s.Diagnostics != nil {
				for _, d := range s.Diagnostics.All() {
					set.Add(d)
				}
			}
		case StateUnresolved, StateRequested:
			set.Add(&diag.Diagnostic{Kind: diag.KindUnresolvedItem, Message: "module " + key + " never resolved (missing import or cycle)"})
		}
	}
	return set
}
