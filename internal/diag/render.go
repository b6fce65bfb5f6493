package diag

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Text is a named, loaded source buffer (spec §6's Text{name, text}).
// Tokens and AST nodes borrow substrings of it for the lifetime of analysis
// (spec §9: Text kept alive rather than copying every literal).
type Text struct {
	Name string
	Body string
}

// colorEnabled mirrors the teacher's CLI convention of only colorizing when
// stdout is a real terminal.
var colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

// Render formats a diagnostic as "file line L, column C", the offending
// source line, and a single caret beneath the diagnostic's column. Only
// the start position is marked; the extent of a span is not underlined.
func Render(d *Diagnostic) string {
	var b strings.Builder

	name := "<input>"
	if d.Source != nil {
		name = d.Source.Name
	}
	fmt.Fprintf(&b, "%s line %d, column %d: %s\n", name, d.Pos.Line, d.Pos.Column, d.Error())

	if d.Source == nil {
		return b.String()
	}
	lines := strings.Split(d.Source.Body, "\n")
	idx := d.Pos.Line - 1
	if idx < 0 || idx >= len(lines) {
		return b.String()
	}
	line := lines[idx]
	b.WriteString(line)
	b.WriteByte('\n')

	col := d.Pos.Column - 1
	if col < 0 {
		col = 0
	}
	if col > len(line) {
		col = len(line)
	}
	caret := strings.Repeat(" ", col) + "^"
	if colorEnabled {
		caret = "\033[1;31m" + caret + "\033[0m"
	}
	b.WriteString(caret)
	return b.String()
}
