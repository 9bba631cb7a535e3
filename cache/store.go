package cache

// Store is the backend contract shared by the LRU and TTL caches.
// Keys are strings; resolvers derive them from registry generation and query.
type Store[V any] interface {
	// Get retrieves a value, reporting whether it was present.
	Get(key string) (V, bool)

	// Set adds or updates a value.
	Set(key string, value V)

	// Clear removes all entries.
	Clear()

	// Len returns the current number of entries.
	Len() int
}

var (
	_ Store[int] = (*Cache[string, int])(nil)
	_ Store[int] = (*TTL[int])(nil)
)
