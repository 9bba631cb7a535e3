// Package samples provides embedded demonstration hierarchy definitions.
//
// Two definition documents ship with the module:
//   - demo: the diamond hierarchy used throughout package examples
//   - vehicles: a small vehicle taxonomy with named entities
//
// Usage:
//
//	reg := samples.NewDemoRegistry()
//	line, err := resolver.New(reg).Resolve(ctx, "K")
package samples

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/golineage/lineage"
	"github.com/golineage/lineage/loader"
	"github.com/golineage/lineage/registry"
)

//go:embed hierarchies/*.yaml
var Hierarchies embed.FS

// Names of the bundled definition documents.
const (
	Demo     = "demo"
	Vehicles = "vehicles"
)

// Read returns the raw YAML for a bundled definition.
func Read(name string) ([]byte, error) {
	path := "hierarchies/" + name + ".yaml"
	data, err := Hierarchies.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Load parses a bundled definition by name.
func Load(name string) (*loader.Definition, error) {
	data, err := Read(name)
	if err != nil {
		return nil, err
	}
	def, err := loader.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return def, nil
}

// MustLoad parses a bundled definition and panics on failure. A failure
// here means the embedded document itself is broken.
func MustLoad(name string) *loader.Definition {
	def, err := Load(name)
	if err != nil {
		panic(err)
	}
	return def
}

// Has reports whether a bundled definition with this name exists.
func Has(name string) bool {
	_, err := Hierarchies.ReadFile("hierarchies/" + name + ".yaml")
	return err == nil
}

// List returns the names of all bundled definitions, sorted.
func List() []string {
	entries, err := Hierarchies.ReadDir("hierarchies")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// NewDemoRegistry builds a registry populated with the demo hierarchy and
// its occurrence sequence.
func NewDemoRegistry(opts ...lineage.Option) *registry.Registry {
	reg := registry.New(opts...)
	if err := MustLoad(Demo).Apply(reg); err != nil {
		panic(err)
	}
	return reg
}
