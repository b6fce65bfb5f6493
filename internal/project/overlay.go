package project

import "github.com/n-lang/ncore/internal/diag"

// OverlayTextSource checks an in-memory set of unsaved edits before
// falling through to a base TextSource (spec §6's hook for editors: the
// LSP server's open-buffer content must win over whatever is on disk).
type OverlayTextSource struct {
	base    TextSource
	overlay map[string]string
}

func NewOverlayTextSource(base TextSource, overlay map[string]string) *OverlayTextSource {
	return &OverlayTextSource{base: base, overlay: overlay}
}

func (o *OverlayTextSource) Load(name string) (*diag.Text, bool, error) {
	if body, ok := o.overlay[name]; ok {
		return &diag.Text{Name: name, Body: body}, true, nil
	}
	return o.base.Load(name)
}
