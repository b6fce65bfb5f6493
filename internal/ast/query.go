package ast

// --- SELECT ---

type SelectQuantifier int

const (
	SelectAll SelectQuantifier = iota
	SelectDistinct
	SelectDistinctRow
)

type SelectColumn struct {
	Meta
	Star  bool // `select *`
	Value *Expr
	Alias string // "" if none
}

type OrderItem struct {
	Meta
	Value *Expr
	Desc  bool
}

type Select struct {
	Meta

	Quantifier     SelectQuantifier
	HighPriority   bool
	StraightJoin   bool
	SQLSmallResult bool
	SQLBigResult   bool
	SQLBufferResult bool
	SQLCache       *bool // nil = unspecified, else true=cache/false=no_cache

	Columns []SelectColumn
	From    *DataSource // nil if no FROM clause

	Where *Expr

	GroupBy       []OrderItem
	GroupByRollup bool
	Having        *Expr

	OrderBy []OrderItem

	HasLimit    bool
	LimitCount  *Expr
	LimitOffset *Expr
	LimitNone   bool
}

// --- data sources ---

type DataSourceKind int

const (
	DataSourceTable DataSourceKind = iota
	DataSourceSubquery
	DataSourceJoin
)

type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLeft
	JoinRight
	JoinFull
	JoinCross
	JoinComma
)

type JoinCondition struct {
	Meta
	Natural bool
	On      *Expr
	Using   []string
}

type DataSource struct {
	Meta
	Kind DataSourceKind

	// DataSourceTable
	Table Path
	Alias string // "" if none

	// DataSourceSubquery
	Subquery *Select // Alias above is mandatory for this kind

	// DataSourceJoin
	Left      *DataSource
	Right     *DataSource
	Join      JoinKind
	Outer     bool
	Condition *JoinCondition
}

// --- INSERT/UPDATE/DELETE ---

type InsertSourceKind int

const (
	InsertValues InsertSourceKind = iota
	InsertSet
	InsertSubquery
)

type SetItem struct {
	Meta
	Column Path
	Value  *Expr
}

type Insert struct {
	Meta
	Table   Path
	Columns []string // optional column list

	SourceKind InsertSourceKind
	Values     [][]*Expr // InsertValues: one row per VALUES(...)
	Sets       []SetItem // InsertSet
	Subquery   *Select   // InsertSubquery

	OnDuplicateKeyUpdate []SetItem
}

type Update struct {
	Meta
	Table Path
	Alias string
	Sets  []SetItem
	Where *Expr
}

type Delete struct {
	Meta
	Table Path
	Alias string
	Where *Expr
}
