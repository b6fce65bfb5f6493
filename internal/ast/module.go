package ast

// File is one parsed source file: a flat list of module-level items
// (spec §4.3's "Module items": struct, table, fn, nested mod, use).
type File struct {
	Meta
	Items []*Item
}

type ItemKind int

const (
	ItemDataType ItemKind = iota
	ItemTable
	ItemFunction
	ItemModule
	ItemUse
)

type Item struct {
	Meta
	Kind ItemKind
	Name string // "" for a wildcard ItemUse; otherwise its alias or last path component

	DataType *CompoundType // ItemDataType ("struct Name { ... }" or "struct Name(...)")
	Table    *TableDef
	Function *FunctionDef
	Module   *ModuleDef
	Use      *UseDef
}

type TableDef struct {
	Meta
	Fields []Field
}

type FunctionParam struct {
	Meta
	Name string
	Type TypeExpr
}

type FunctionDef struct {
	Meta
	Extern     bool
	Attributes []Attribute
	Params     []FunctionParam
	Result     *TypeExpr // nil == Void
	Body       *Stmt     // nil when Extern; otherwise a StmtBlock
}

type ModuleDef struct {
	Meta
	Name  string
	Items []*Item
}

type UseDef struct {
	Meta
	Path     Path
	Alias    string // "" if none
	Wildcard bool   // `use a::b::*;`
}
