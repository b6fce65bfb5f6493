// Package project drives the fixed-point load/resolve loop over a map of
// module paths to module states (spec §4.4), asking an external TextSource
// for module text (spec §6).
package project

import (
	"path/filepath"
	"strings"

	"github.com/boyter/gocodewalker"
	"github.com/n-lang/ncore/internal/diag"
)

// TextSource responds to a module path with source text or "not found"
// (spec §6). The project loader's one external dependency.
type TextSource interface {
	// Load returns the Text for the given single-segment module name, or
	// ok=false if no such module exists. A non-nil err other than "not
	// found" is a fatal I/O failure (spec §7).
	Load(name string) (text *diag.Text, ok bool, err error)
}

// DirTextSource is the reference TextSource (spec §6): it walks a
// directory with gocodewalker, mapping files named `<name>.n` to the
// single-segment module path `name`.
type DirTextSource struct {
	root  string
	files map[string]string // module name -> file path
	built bool
}

func NewDirTextSource(root string) *DirTextSource {
	return &DirTextSource{root: root}
}

func (d *DirTextSource) index() error {
	if d.built {
		return nil
	}
	d.files = make(map[string]string)

	fileChan := make(chan *gocodewalker.File, 100)
	walker := gocodewalker.NewFileWalker(d.root, fileChan)
	walker.AllowListExtensions = []string{"n"}

	errChan := make(chan error, 1)
	go func() { errChan <- walker.Start() }()

	for f := range fileChan {
		base := filepath.Base(f.Location)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		d.files[name] = f.Location
	}
	if err := <-errChan; err != nil {
		return err
	}
	d.built = true
	return nil
}

func (d *DirTextSource) Load(name string) (*diag.Text, bool, error) {
	if err := d.index(); err != nil {
		return nil, false, err
	}
	path, ok := d.files[name]
	if !ok {
		return nil, false, nil
	}
	body, err := readFile(path)
	if err != nil {
		return nil, false, err
	}
	return &diag.Text{Name: path, Body: body}, true, nil
}
