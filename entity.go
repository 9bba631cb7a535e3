package lineage

import "strings"

// NarrowFunc attempts to view an instance through the shape of an entity,
// mirroring a type assertion: it returns the narrowed view and whether the
// narrowing succeeded. A nil NarrowFunc accepts every instance unchanged.
type NarrowFunc func(instance any) (any, bool)

// Entity is the runtime descriptor for a node in a derivation hierarchy.
// Entities carry identity in their ID only; Name and Narrow are metadata.
type Entity struct {
	// ID uniquely identifies the entity within a registry.
	ID string `json:"id" yaml:"id"`

	// Name is an optional display name. DisplayName falls back to ID
	// when Name is empty.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Parents lists the IDs this entity directly derives from.
	Parents []string `json:"parents,omitempty" yaml:"parents,omitempty"`

	// Narrow checks whether an instance can be treated as this entity.
	Narrow NarrowFunc `json:"-" yaml:"-"`
}

// DisplayName returns Name, or ID when no name is set.
func (e Entity) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}

// Same reports whether both entities carry the same ID.
func (e Entity) Same(other Entity) bool {
	return e.ID == other.ID
}

// String returns the entity's ID.
func (e Entity) String() string {
	return e.ID
}

// Relation answers ancestry queries over entity IDs.
//
// DerivesFrom(ancestorID, id) reports whether ancestorID identifies an
// ancestor of id or the same entity. The relation is reflexive: for any
// known entity x, DerivesFrom(x, x) is true.
type Relation interface {
	DerivesFrom(ancestorID, id string) bool
}

// RelationFunc adapts a plain function to the Relation interface.
type RelationFunc func(ancestorID, id string) bool

// DerivesFrom calls f.
func (f RelationFunc) DerivesFrom(ancestorID, id string) bool {
	return f(ancestorID, id)
}

var _ Relation = RelationFunc(nil)

// Line is a derivation line ordered from the outermost ancestor down to the
// queried entity itself. An empty Line means the query matched nothing.
type Line []Entity

// IDs returns the entity IDs in line order.
func (l Line) IDs() []string {
	ids := make([]string, len(l))
	for i, e := range l {
		ids[i] = e.ID
	}
	return ids
}

// Names returns the display names in line order.
func (l Line) Names() []string {
	names := make([]string, len(l))
	for i, e := range l {
		names[i] = e.DisplayName()
	}
	return names
}

// Last returns the final entity of the line. For a non-empty line this is
// the queried entity.
func (l Line) Last() (Entity, bool) {
	if len(l) == 0 {
		return Entity{}, false
	}
	return l[len(l)-1], true
}

// Contains reports whether any entity in the line carries the given ID.
func (l Line) Contains(id string) bool {
	for _, e := range l {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Clone returns a copy of the line backed by fresh storage.
func (l Line) Clone() Line {
	if l == nil {
		return nil
	}
	out := make(Line, len(l))
	copy(out, l)
	return out
}

// String renders the line as "A -> B -> C".
func (l Line) String() string {
	return strings.Join(l.IDs(), " -> ")
}
