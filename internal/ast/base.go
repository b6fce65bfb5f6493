// Package ast is the typed abstract syntax tree produced by the parser.
//
// Every node is a discriminated union: a tagged Kind plus exactly one
// populated variant field, never base-class dispatch (spec §9's "Tagged
// variants everywhere"). Every node embeds Meta so it carries a position
// span and, for leaves, the exact source text slice used by diagnostics.
package ast

import "github.com/n-lang/ncore/internal/lexer"

// ItemPosition is re-exported so callers only need to import this package
// for AST work.
type ItemPosition = lexer.ItemPosition

// Node is implemented by every AST node.
type Node interface {
	Span() ItemPosition
}

// Meta is embedded by every AST node for its source span.
type Meta struct {
	Pos ItemPosition
}

func (m Meta) Span() ItemPosition { return m.Pos }

// TextMeta is embedded by leaf nodes (literals, identifiers, operator
// tokens) that must preserve their exact source text for diagnostics.
type TextMeta struct {
	Meta
	Text string
}
