package lsp

import (
	"context"
	"fmt"
	"strings"

	"go.lsp.dev/protocol"

	"github.com/n-lang/ncore/internal/ir"
	"github.com/n-lang/ncore/internal/project"
)

// Hover resolves the word under the cursor against the document's own
// module items: types, tables, and functions report their IR shape.
func (s *Server) Hover(_ context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Project == nil {
		return nil, nil
	}
	word := wordAt(doc.Content, params.Position)
	if word == "" {
		return nil, nil
	}

	name := moduleNameFromURI(doc.URI)
	state, ok := doc.Project.State(modulePath(name))
	if !ok || state.Kind != project.StateResolved || state.Resolved == nil {
		return nil, nil
	}

	var content string
	state.Resolved.Read(func(mod ir.Module) {
		if item, found := mod.Items.Get(word); found {
			content = hoverForItem(word, item)
		}
	})
	if content == "" {
		return nil, nil
	}
	return &protocol.Hover{Contents: protocol.MarkupContent{Kind: protocol.Markdown, Value: content}}, nil
}

func hoverForItem(name string, handle *ir.Handle[ir.Item]) string {
	var out string
	handle.Read(func(it ir.Item) {
		switch it.Kind {
		case ir.ItemDataType:
			out = fmt.Sprintf("```\nstruct %s\n```", name)
		case ir.ItemTable:
			out = fmt.Sprintf("```\ntable %s\n```", name)
		case ir.ItemFunction:
			if it.Function != nil {
				out = fmt.Sprintf("```\nfn %s(...)\n```", name)
			}
		case ir.ItemModuleRef:
			out = fmt.Sprintf("```\nmod %s\n```", name)
		}
	})
	return out
}

// wordAt extracts the identifier-like run of characters under an LSP
// position from raw buffer text (line/character are UTF-16 code units,
// but N source is ASCII-identifier-only so byte offsets line up).
func wordAt(content string, pos protocol.Position) string {
	lines := strings.Split(content, "\n")
	if int(pos.Line) >= len(lines) {
		return ""
	}
	line := lines[pos.Line]
	col := int(pos.Character)
	if col > len(line) {
		col = len(line)
	}
	isWord := func(b byte) bool {
		return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
	}
	start := col
	for start > 0 && isWord(line[start-1]) {
		start--
	}
	end := col
	for end < len(line) && isWord(line[end]) {
		end++
	}
	return line[start:end]
}
