package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/n-lang/ncore/internal/diag"
)

// publishDiagnostics converts a resolve pass's diagnostics into LSP form
// and pushes them for the document's own URI. Every diagnostic of the
// resolve pass is published there unfiltered, including ones that arose in
// other modules (e.g. an imported file).
func (s *Server) publishDiagnostics(ctx context.Context, doc *Document) {
	if doc.Diagnostics == nil {
		return
	}
	out := make([]protocol.Diagnostic, 0, len(doc.Diagnostics.All()))
	for _, d := range doc.Diagnostics.All() {
		out = append(out, convertDiagnostic(d))
	}
	if err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     uint32(doc.Version),
		Diagnostics: out,
	}); err != nil {
		s.logger.Error("publishDiagnostics failed", zap.Error(err))
	}
}

func convertDiagnostic(d *diag.Diagnostic) protocol.Diagnostic {
	line := uint32(0)
	col := uint32(0)
	if d.Pos.Line > 0 {
		line = uint32(d.Pos.Line - 1)
	}
	if d.Pos.Column > 0 {
		col = uint32(d.Pos.Column - 1)
	}
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: col},
			End:   protocol.Position{Line: line, Character: col + 1},
		},
		Severity: protocol.DiagnosticSeverityError,
		Source:   "n",
		Message:  d.Error(),
		Code:     string(d.Kind),
	}
}
