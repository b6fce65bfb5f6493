// Package lexer turns N source text into a flat, position-tracked token stream.
package lexer

import (
	participlelexer "github.com/alecthomas/participle/v2/lexer"
)

// Position is a single point in source text. It is participle's lexer.Position
// (Filename/Offset/Line/Column) rather than a bespoke type: the scanner below is
// hand-rolled (participle's regex-rule engine cannot express N's radix/sign/
// fractional-aware numeric literals), but it still speaks participle's position
// vocabulary so downstream diagnostics rendering and any participle-based tooling
// share one coordinate system.
type Position = participlelexer.Position

// ItemPosition is a half-open source span: [Begin, End).
type ItemPosition struct {
	Begin Position
	End   Position
}
