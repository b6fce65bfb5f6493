package ir

import (
	"github.com/n-lang/ncore/internal/ast"
)

// ItemKind tags a resolved module item (spec §3: "DataType | Table |
// Function | ModuleRef").
type ItemKind int

const (
	ItemDataType ItemKind = iota
	ItemTable
	ItemFunction
	ItemModuleRef
)

// Item is a named, resolved module member.
type Item struct {
	Name string
	Pos  ast.ItemPosition

	Kind ItemKind

	DataType *DataType
	Table    *Table
	Function *Function
	Module   *Handle[Module]
}

// Function is a resolved function definition (spec §3: "Arg map (ordered),
// result type, body statement or external, purity flag").
type Function struct {
	Pos       ast.ItemPosition
	Args      *orderedMap[Variable]
	Result    DataType
	Body      *Statement // nil when Extern
	Extern    bool
	NoSideEffects bool // #[no_side_effects] on an extern fn (spec §6)
	IsPure    bool     // computed: extern && NoSideEffects, or composed from body
}

// Table is a resolved table definition; RowType is computed lazily and
// memoized on first call (spec §3, §9's SyncRef note).
type Table struct {
	Pos    ast.ItemPosition
	Fields *orderedMap[CompoundField]

	rowType     *Handle[*DataType]
}

// NewVariableMap builds an empty ordered name->Variable map (a function's
// argument list, spec §3's "Arg map (ordered)").
func NewVariableMap() *orderedMap[Variable] {
	return newOrderedMap[Variable]()
}

func NewTable(pos ast.ItemPosition, fields *orderedMap[CompoundField]) *Table {
	return &Table{Pos: pos, Fields: fields, rowType: NewHandle[*DataType](nil)}
}

// RowType lazily builds and memoizes this table's row record type, a
// Structure compound over its fields (spec §3's "lazily memoizes its row
// record type"; §9's SyncRef-style shared lazy handle).
func (t *Table) RowType() DataType {
	var out DataType
	t.rowType.Write(func(cached **DataType) {
		if *cached == nil {
			rt := DataType{Kind: TypeCompound, Compound: &CompoundType{Kind: CompoundStructure, Fields: t.Fields}}
			*cached = &rt
		}
		out = **cached
	})
	return out
}

// Variable is a named binding in a scope (spec §3).
type Variable struct {
	Name     string
	Pos      ast.ItemPosition
	Type     *DataType // nil until inferred/declared
	ReadOnly bool
	IsArg    bool
}

// Scope is a lexical variable scope (spec §3, §4.4's lite-weight/aggregate
// flags).
type Scope struct {
	Vars         *orderedMap[Variable]
	Parent       *Scope
	IsAggregate  bool
	IsLiteWeight bool
	InCycle      bool
}

func NewScope(parent *Scope) *Scope {
	s := &Scope{Vars: newOrderedMap[Variable](), Parent: parent}
	if parent != nil {
		s.IsAggregate = parent.IsAggregate
		s.IsLiteWeight = parent.IsLiteWeight
		s.InCycle = parent.InCycle
	}
	return s
}

// Lookup walks this scope then its ancestors.
func (s *Scope) Lookup(name string) (Variable, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if v, ok := sc.Vars.Get(name); ok {
			return v, true
		}
	}
	return Variable{}, false
}

// Define adds a variable to this scope, reporting whether it is new
// (duplicate-definition detection is the caller's responsibility: spec
// §4.4 wants both positions in the diagnostic).
func (s *Scope) Define(v Variable) bool {
	return s.Vars.Put(v.Name, v)
}

// JumpKind tags a statement's control-flow exit (spec §4.5).
type JumpKind int

const (
	JumpNothing JumpKind = iota
	JumpSometimes
	JumpAlwaysReturns
	JumpAlwaysBreaks
	JumpAlwaysContinues
)

// Jumping classifies how a statement may leave its enclosing block (spec
// §4.5): `Nothing | Sometimes{returns, breaks, continues} | AlwaysReturns |
// AlwaysBreaks | AlwaysContinues`.
type Jumping struct {
	Kind JumpKind
	// meaningful when Kind == JumpSometimes
	Returns, Breaks, Continues bool
}

// Join combines two branches' jump classifications (spec §4.5's "if cond
// then [else]: Jumping = join of both branches", missing else == Nothing).
func Join(a, b Jumping) Jumping {
	if a.Kind == b.Kind && a.Kind != JumpSometimes {
		return a
	}
	return Jumping{
		Kind:      JumpSometimes,
		Returns:   a.anyReturns() || b.anyReturns(),
		Breaks:    a.anyBreaks() || b.anyBreaks(),
		Continues: a.anyContinues() || b.anyContinues(),
	}
}

func (j Jumping) anyReturns() bool {
	return j.Kind == JumpAlwaysReturns || (j.Kind == JumpSometimes && j.Returns)
}
func (j Jumping) anyBreaks() bool {
	return j.Kind == JumpAlwaysBreaks || (j.Kind == JumpSometimes && j.Breaks)
}
func (j Jumping) anyContinues() bool {
	return j.Kind == JumpAlwaysContinues || (j.Kind == JumpSometimes && j.Continues)
}

// Then sequences this jump classification with whatever comes next: once
// this statement always jumps, later statements in the same block are
// unreachable and don't change the classification.
func (j Jumping) Then(next Jumping) Jumping {
	if j.Kind == JumpAlwaysReturns || j.Kind == JumpAlwaysBreaks || j.Kind == JumpAlwaysContinues {
		return j
	}
	if j.Kind == JumpNothing {
		return next
	}
	return Join(j, next)
}

// Expression is the resolved counterpart of ast.Expr: a tagged body plus
// its elaborated DataType (spec §3).
type Expression struct {
	Pos      ast.ItemPosition
	AST      *ast.Expr
	DataType DataType
	IsPure   bool
}

// Statement is the resolved counterpart of ast.Stmt, carrying its
// control-flow classification (spec §3, §4.5).
type Statement struct {
	Pos             ast.ItemPosition
	AST             *ast.Stmt
	HasSideEffects  bool
	Jumping         Jumping
}

// Module is a named unit holding an ordered name->Item map plus imported
// modules (spec §3).
type Module struct {
	Path    ast.Path
	Items   *orderedMap[*Handle[Item]]
	Imports []*Handle[Module] // from wildcard `use a::b::*;`
}

func NewModule(path ast.Path) *Module {
	return &Module{Path: path, Items: newOrderedMap[*Handle[Item]]()}
}
