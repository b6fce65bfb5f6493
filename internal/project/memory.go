package project

import (
	"os"

	"github.com/n-lang/ncore/internal/diag"
)

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// MemoryTextSource is an in-memory TextSource, handy for tests and
// embedders that already have source text loaded (spec §6: a TextSource
// is any responder to "module name -> Text or not found").
type MemoryTextSource struct {
	byName map[string]string
}

func NewMemoryTextSource(files map[string]string) *MemoryTextSource {
	return &MemoryTextSource{byName: files}
}

func (m *MemoryTextSource) Load(name string) (*diag.Text, bool, error) {
	body, ok := m.byName[name]
	if !ok {
		return nil, false, nil
	}
	return &diag.Text{Name: name, Body: body}, true, nil
}
