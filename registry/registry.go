// Package registry maintains the catalog of defined entities and the ordered
// occurrence sequence that ancestor resolution runs against.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/golineage/lineage"
	"github.com/golineage/lineage/pool"
)

// Sentinel errors returned by registry mutations.
var (
	// ErrEmptyID is returned when an entity carries no ID.
	ErrEmptyID = errors.New("entity ID is empty")

	// ErrNotDefined is returned when an occurrence names an undefined entity.
	ErrNotDefined = errors.New("entity not defined")
)

// visitedPool provides scratch sets for traversals over parent links.
var visitedPool = pool.NewMapPool[string, bool](16)

// redefinition records a Define call that replaced an entity with a
// different parent set. Verify reports these as duplicate-definition
// conflicts.
type redefinition struct {
	id         string
	oldParents []string
	newParents []string
}

// Registry holds entity definitions and the ordered sequence of entity
// occurrences. Definitions form the derivation hierarchy through their
// parent links; occurrences are what Snapshot exposes to the resolver,
// in insertion order with duplicates preserved.
//
// A Registry is safe for concurrent use. Reads take a shared lock, so
// concurrent resolves against a stable registry do not contend.
type Registry struct {
	mu     sync.RWMutex
	defs   map[string]lineage.Entity
	order  []string
	redefs []redefinition

	// generation increases on every mutation. Resolvers key their result
	// caches on it, so stale lines are never served after a change.
	generation uint64

	// Memoized transitive closures and child index, built lazily under
	// the write lock and dropped whenever a definition changes.
	ancestors map[string]map[string]bool
	children  map[string][]string

	logger *zap.Logger
}

// New creates an empty registry.
func New(opts ...lineage.Option) *Registry {
	o := lineage.NewOptions(opts...)
	return &Registry{
		defs:   make(map[string]lineage.Entity),
		logger: o.Logger,
	}
}

// Registry implements lineage.Relation through its declared parent links.
var _ lineage.Relation = (*Registry)(nil)

// --- Definitions ---

// Define registers an entity in the catalog. Redefining an ID replaces the
// previous entry; when the parent set differs the conflict is remembered
// and surfaces as a duplicate-definition issue from Verify.
func (r *Registry) Define(e lineage.Entity) error {
	if e.ID == "" {
		return ErrEmptyID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, exists := r.defs[e.ID]; exists {
		if !sameParents(old.Parents, e.Parents) {
			r.redefs = append(r.redefs, redefinition{
				id:         e.ID,
				oldParents: cloneStrings(old.Parents),
				newParents: cloneStrings(e.Parents),
			})
			r.logger.Warn("entity redefined with different parents",
				zap.String("id", e.ID),
				zap.Strings("old_parents", old.Parents),
				zap.Strings("new_parents", e.Parents))
		}
	} else {
		r.logger.Debug("entity defined",
			zap.String("id", e.ID),
			zap.Strings("parents", e.Parents))
	}

	r.defs[e.ID] = e
	r.invalidateLocked()
	return nil
}

// MustDefine is Define that panics on error. Intended for static
// hierarchies assembled at startup.
func (r *Registry) MustDefine(e lineage.Entity) {
	if err := r.Define(e); err != nil {
		panic(fmt.Sprintf("registry: define %q: %v", e.ID, err))
	}
}

// DefineAll registers every entity, stopping at the first error.
func (r *Registry) DefineAll(entities ...lineage.Entity) error {
	for _, e := range entities {
		if err := r.Define(e); err != nil {
			return fmt.Errorf("define %q: %w", e.ID, err)
		}
	}
	return nil
}

// --- Occurrences ---

// Add appends an occurrence of a defined entity to the sequence.
func (r *Registry) Add(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.defs[id]; !ok {
		return fmt.Errorf("add %q: %w", id, ErrNotDefined)
	}
	r.order = append(r.order, id)
	r.generation++
	return nil
}

// AddAll appends occurrences in the given order, stopping at the first
// undefined ID.
func (r *Registry) AddAll(ids ...string) error {
	for _, id := range ids {
		if err := r.Add(id); err != nil {
			return err
		}
	}
	return nil
}

// AddEntity defines the entity if it is not yet in the catalog, then
// appends an occurrence of it.
func (r *Registry) AddEntity(e lineage.Entity) error {
	if e.ID == "" {
		return ErrEmptyID
	}

	r.mu.Lock()
	if _, exists := r.defs[e.ID]; !exists {
		r.defs[e.ID] = e
		r.invalidateLocked()
	}
	r.order = append(r.order, e.ID)
	r.generation++
	r.mu.Unlock()
	return nil
}

// --- Queries ---

// Lookup returns the definition for an ID.
func (r *Registry) Lookup(id string) (lineage.Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.defs[id]
	return e, ok
}

// Snapshot materializes the occurrence sequence as entities, in insertion
// order with duplicates preserved. The returned slice is independent of
// the registry and stays valid across later mutations.
func (r *Registry) Snapshot() []lineage.Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]lineage.Entity, len(r.order))
	for i, id := range r.order {
		out[i] = r.defs[id]
	}
	return out
}

// Defined returns every catalog entry, sorted by ID.
func (r *Registry) Defined() []lineage.Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]lineage.Entity, 0, len(r.defs))
	for _, e := range r.defs {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of occurrences in the sequence.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// DefinedCount returns the number of catalog entries.
func (r *Registry) DefinedCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

// Generation returns the mutation counter. It increases on every Define,
// Add and Clear, and never decreases.
func (r *Registry) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// Clear removes all definitions and occurrences. The generation keeps
// rising so cached results from before the clear are never served.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.defs = make(map[string]lineage.Entity)
	r.order = nil
	r.redefs = nil
	r.invalidateLocked()
	r.logger.Debug("registry cleared")
}

// --- Derivation relation ---

// DerivesFrom reports whether ancestorID identifies an ancestor of id or
// the same ID. The relation is reflexive for every ID, known or not;
// beyond equality it is the transitive closure of the declared parent
// links. Cycles in the links are tolerated and simply close over every
// node they reach.
func (r *Registry) DerivesFrom(ancestorID, id string) bool {
	if ancestorID == id {
		return true
	}

	r.mu.RLock()
	if set, ok := r.ancestors[id]; ok {
		hit := set[ancestorID]
		r.mu.RUnlock()
		return hit
	}
	r.mu.RUnlock()

	r.mu.Lock()
	hit := r.ancestorsLocked(id)[ancestorID]
	r.mu.Unlock()
	return hit
}

// Parents returns the declared direct parents of an entity.
func (r *Registry) Parents(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.defs[id]
	if !ok {
		return nil
	}
	return cloneStrings(e.Parents)
}

// Ancestors returns every strict ancestor of an entity, sorted by ID.
func (r *Registry) Ancestors(id string) []string {
	r.mu.Lock()
	set := r.ancestorsLocked(id)
	out := make([]string, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	r.mu.Unlock()

	sort.Strings(out)
	return out
}

// ancestorsLocked returns the memoized transitive closure over parent
// links for id. The write lock must be held.
func (r *Registry) ancestorsLocked(id string) map[string]bool {
	if set, ok := r.ancestors[id]; ok {
		return set
	}

	set := make(map[string]bool)
	stackp := pool.AcquireStringSlice()
	stack := append(*stackp, id)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range r.defs[n].Parents {
			if !set[p] {
				set[p] = true
				stack = append(stack, p)
			}
		}
	}
	*stackp = stack
	pool.ReleaseStringSlice(stackp)

	if r.ancestors == nil {
		r.ancestors = make(map[string]map[string]bool)
	}
	r.ancestors[id] = set
	return set
}

// invalidateLocked drops memoized hierarchy state after a definition
// change. The write lock must be held.
func (r *Registry) invalidateLocked() {
	r.ancestors = nil
	r.children = nil
	r.generation++
}

// --- Helpers ---

func sameParents(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
