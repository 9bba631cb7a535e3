package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/golineage/lineage"
	"github.com/golineage/lineage/registry"
)

// EntityDef describes one entity in a definition document.
type EntityDef struct {
	ID      string   `yaml:"id" json:"id"`
	Name    string   `yaml:"name,omitempty" json:"name,omitempty"`
	Parents []string `yaml:"parents,omitempty" json:"parents,omitempty"`
}

// Definition is a parsed hierarchy definition document. Hierarchy declares
// the entities and their parent links; Registry lists the occurrence
// sequence by entity ID, in order, duplicates allowed.
type Definition struct {
	Version   lineage.FormatVersion `yaml:"version" json:"version"`
	Hierarchy []EntityDef           `yaml:"hierarchy" json:"hierarchy"`
	Registry  []string              `yaml:"registry,omitempty" json:"registry,omitempty"`
}

// Parse decodes a YAML definition document. A missing version is treated as
// the default format; an unsupported version, an empty entity ID, or a
// duplicate entity ID within the document is an error.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}
	if def.Version == 0 {
		def.Version = lineage.DefaultFormat
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadFile reads and parses a single definition file.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return def, nil
}

// LoadDir parses every .yaml and .yml file directly under dir and merges
// them in lexical filename order.
func LoadDir(dir string) (*Definition, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	more, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	matches = append(matches, more...)
	sort.Strings(matches)

	merged := &Definition{Version: lineage.DefaultFormat}
	for _, path := range matches {
		def, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if err := merged.merge(def); err != nil {
			return nil, fmt.Errorf("merge %s: %w", path, err)
		}
	}
	return merged, nil
}

// LoadFS parses every .yaml and .yml file under root in fsys, walking
// subdirectories, and merges them in walk order. Useful with embedded
// definition trees.
func LoadFS(fsys fs.FS, root string) (*Definition, error) {
	merged := &Definition{Version: lineage.DefaultFormat}
	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isDefinitionFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		def, err := Parse(data)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		if err := merged.merge(def); err != nil {
			return fmt.Errorf("merge %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// Validate checks the document for structural problems that would make it
// unsafe to apply.
func (d *Definition) Validate() error {
	if !d.Version.IsValid() {
		return fmt.Errorf("unsupported definition format %s", d.Version)
	}
	seen := make(map[string]bool, len(d.Hierarchy))
	for _, e := range d.Hierarchy {
		if e.ID == "" {
			return fmt.Errorf("entity %q has an empty ID", e.Name)
		}
		if seen[e.ID] {
			return fmt.Errorf("duplicate entity %q in definition", e.ID)
		}
		seen[e.ID] = true
	}
	for _, id := range d.Registry {
		if id == "" {
			return fmt.Errorf("empty entity ID in registry sequence")
		}
	}
	return nil
}

// Entities converts the hierarchy section to entity values.
func (d *Definition) Entities() []lineage.Entity {
	entities := make([]lineage.Entity, 0, len(d.Hierarchy))
	for _, e := range d.Hierarchy {
		entities = append(entities, lineage.Entity{
			ID:      e.ID,
			Name:    e.Name,
			Parents: e.Parents,
		})
	}
	return entities
}

// Apply defines the document's hierarchy in reg, then appends its registry
// occurrences. Occurrences referencing entities the merged registry does
// not define are an error.
func (d *Definition) Apply(reg *registry.Registry) error {
	if err := reg.DefineAll(d.Entities()...); err != nil {
		return fmt.Errorf("apply hierarchy: %w", err)
	}
	if err := reg.AddAll(d.Registry...); err != nil {
		return fmt.Errorf("apply registry: %w", err)
	}
	return nil
}

// NewRegistry builds a fresh registry from the document.
func (d *Definition) NewRegistry(opts ...lineage.Option) (*registry.Registry, error) {
	reg := registry.New(opts...)
	if err := d.Apply(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// merge appends another document into d. Versions must match; hierarchy and
// registry entries are appended in order.
func (d *Definition) merge(other *Definition) error {
	if other.Version != d.Version {
		return fmt.Errorf("format %s does not match %s", other.Version, d.Version)
	}
	d.Hierarchy = append(d.Hierarchy, other.Hierarchy...)
	d.Registry = append(d.Registry, other.Registry...)
	return d.Validate()
}

func isDefinitionFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
