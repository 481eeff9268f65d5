// Package parts defines the part model and the directory layout each part
// owns under a project work root.
//
// A part is a named unit of the build with its own raw configuration
// (properties). Each part keeps private directories for sources, build
// output, installed artifacts, overlay layers, and persisted step state.
// Shared stage and prime areas are owned by the project, subdivided per
// partition when partitions are in use.
package parts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Directory layout shared by all parts of a project.
type ProjectDirs struct {
	Work string // Root of the project work area.
}

// Root directory holding all per-part directories.
func (d ProjectDirs) PartsDir() string {
	return filepath.Join(d.Work, "parts")
}

// Root of the overlay work area.
func (d ProjectDirs) OverlayDir() string {
	return filepath.Join(d.Work, "overlay")
}

// The shared staging area for the given partition. An empty partition
// selects the default area.
func (d ProjectDirs) StageDir(partition string) string {
	if partition == "" {
		return filepath.Join(d.Work, "stage")
	}
	return filepath.Join(d.Work, "partitions", partition, "stage")
}

// The shared prime area for the given partition. An empty partition selects
// the default area.
func (d ProjectDirs) PrimeDir(partition string) string {
	if partition == "" {
		return filepath.Join(d.Work, "prime")
	}
	return filepath.Join(d.Work, "partitions", partition, "prime")
}

// A named unit of the build with its own configuration.
type Part struct {
	Name       string         // Part name, unique within a project.
	Properties map[string]any // Raw part configuration, keyed by hyphenated property name.

	dirs ProjectDirs
}

// Creates a part bound to the given project directories.
func New(name string, properties map[string]any, dirs ProjectDirs) *Part {
	return &Part{
		Name:       name,
		Properties: properties,
		dirs:       dirs,
	}
}

// The directory holding everything owned by this part.
func (p *Part) Dir() string {
	return filepath.Join(p.dirs.PartsDir(), p.Name)
}

// The directory sources are pulled into.
func (p *Part) SrcDir() string {
	return filepath.Join(p.Dir(), "src")
}

// The directory the part builds in.
func (p *Part) BuildDir() string {
	return filepath.Join(p.Dir(), "build")
}

// The directory build artifacts are installed into before staging.
func (p *Part) InstallDir() string {
	return filepath.Join(p.Dir(), "install")
}

// The directory holding this part's overlay filesystem layer.
func (p *Part) LayerDir() string {
	return filepath.Join(p.Dir(), "layer")
}

// The directory persisted step state files are written to.
func (p *Part) StateDir() string {
	return filepath.Join(p.Dir(), "state")
}

// The parts this part depends on, from the "after" property.
func (p *Part) Dependencies() []string {
	raw, ok := p.Properties["after"]
	if !ok {
		return nil
	}

	items, ok := raw.([]any)
	if !ok {
		return nil
	}

	deps := make([]string, 0, len(items))
	for _, item := range items {
		if name, ok := item.(string); ok {
			deps = append(deps, name)
		}
	}
	return deps
}

// Reads part definitions from a project file.
//
// The file maps part names to their raw properties:
//
//	parts:
//	  hello:
//	    plugin: autotools
//	    source: .
//
// Parts are returned sorted by name for deterministic processing.
func LoadFile(path string, dirs ProjectDirs) ([]*Part, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project file: %w", err)
	}

	var doc struct {
		Parts map[string]map[string]any `yaml:"parts"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse project file: %w", err)
	}

	names := make([]string, 0, len(doc.Parts))
	for name := range doc.Parts {
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]*Part, 0, len(names))
	for _, name := range names {
		list = append(list, New(name, doc.Parts[name], dirs))
	}
	return list, nil
}
