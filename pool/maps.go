package pool

import "sync"

// MapPool provides pooled maps for temporary use, such as visited sets
// during hierarchy traversal.
type MapPool[K comparable, V any] struct {
	pool sync.Pool
	cap  int
}

// NewMapPool creates a new pool for maps with the given initial capacity.
func NewMapPool[K comparable, V any](initialCap int) *MapPool[K, V] {
	return &MapPool[K, V]{
		pool: sync.Pool{
			New: func() any {
				return make(map[K]V, initialCap)
			},
		},
		cap: initialCap,
	}
}

// Acquire gets a map from the pool.
func (p *MapPool[K, V]) Acquire() map[K]V {
	return p.pool.Get().(map[K]V)
}

// Release returns a map to the pool after clearing it.
func (p *MapPool[K, V]) Release(m map[K]V) {
	if m == nil {
		return
	}
	clear(m)
	p.pool.Put(m)
}
