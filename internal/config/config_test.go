package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultUsesMSSQLAndCurrentDir(t *testing.T) {
	t.Parallel()

	p := Default()
	assert.Equal(t, ".", p.Root)
	assert.Equal(t, "mssql", p.Stdlib)
	assert.Equal(t, "main", p.EntryModule)
}

func TestLoadParsesYAMLAndFillsDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".n-project.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: ./src\nentry_module: app\n"), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "./src", p.Root)
	assert.Equal(t, "app", p.EntryModule)
	assert.Equal(t, "mssql", p.Stdlib, "unset stdlib bundle should default")
}

func TestLoadMissingFileErrors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
