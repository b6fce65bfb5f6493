package lsp

import (
	"path/filepath"
	"strings"

	"go.lsp.dev/protocol"

	"github.com/n-lang/ncore/internal/ast"
	"github.com/n-lang/ncore/internal/lexer"
)

// moduleNameFromURI maps a document URI to its single-segment module name:
// the file's basename without its `.n` extension (matching DirTextSource's
// own convention). Works directly off the URI string to sidestep any
// file-scheme parsing.
func moduleNameFromURI(uri protocol.DocumentURI) string {
	base := filepath.Base(string(uri))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func modulePath(name string) ast.Path {
	return ast.NewPath(lexer.ItemPosition{}, "::", name)
}
