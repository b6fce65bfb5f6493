// Package config loads the project-level `.n-project.yaml` file: the
// source roots the project driver walks and the stdlib bundle it
// preloads (SPEC_FULL.md's ambient config section, grounded on the
// teacher's yaml.v3-based schema file).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Project is the parsed `.n-project.yaml`.
type Project struct {
	// Root is the directory DirTextSource walks for `.n` module files.
	Root string `yaml:"root"`

	// Stdlib names the preloaded standard library bundle; currently only
	// "mssql" is shipped (spec §6's MSSQLBundle).
	Stdlib string `yaml:"stdlib"`

	// EntryModule is the module path resolution starts from.
	EntryModule string `yaml:"entry_module"`
}

// Default returns the configuration used when no `.n-project.yaml` is
// present: walk the current directory, preload the mssql bundle, and
// enter at "main".
func Default() *Project {
	return &Project{Root: ".", Stdlib: "mssql", EntryModule: "main"}
}

// Load reads and parses path into a Project, defaulting unset fields.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if p.Root == "" {
		p.Root = "."
	}
	if p.Stdlib == "" {
		p.Stdlib = "mssql"
	}
	if p.EntryModule == "" {
		p.EntryModule = "main"
	}
	return p, nil
}
