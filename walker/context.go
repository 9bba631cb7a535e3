package walker

import (
	"sync"

	"github.com/golineage/lineage"
)

// Context holds the state of a single visit during a walk.
type Context struct {
	// Entity is the line entry being visited
	Entity lineage.Entity

	// Instance is the walked instance. When the narrowing check ran and
	// the entity supplied a Narrow function, this is the narrowed view;
	// otherwise it is the instance as passed to Walk.
	Instance any

	// Narrowed reports whether a narrowing check vouched for Instance.
	// False when the walk runs with narrowing checks disabled.
	Narrowed bool

	// Index is the position within the line, starting at 0
	Index int

	// LineLen is the total length of the line
	LineLen int

	// Query is the ID of the queried entity (the line's final entry)
	Query string
}

// contextPool holds reusable Context instances.
var contextPool = sync.Pool{
	New: func() any {
		return &Context{}
	},
}

// AcquireContext gets a Context from the pool.
// Call Release() when done to return it to the pool.
func AcquireContext() *Context {
	wctx := contextPool.Get().(*Context)
	wctx.Reset()
	return wctx
}

// Release returns the Context to the pool.
// After calling Release, the context should not be used.
func (c *Context) Release() {
	if c == nil {
		return
	}
	contextPool.Put(c)
}

// Reset clears all fields for reuse.
func (c *Context) Reset() {
	c.Entity = lineage.Entity{}
	c.Instance = nil
	c.Narrowed = false
	c.Index = 0
	c.LineLen = 0
	c.Query = ""
}

// Clone creates a copy of the context.
// The returned context is from the pool and should be released.
func (c *Context) Clone() *Context {
	clone := AcquireContext()
	clone.Entity = c.Entity
	clone.Instance = c.Instance
	clone.Narrowed = c.Narrowed
	clone.Index = c.Index
	clone.LineLen = c.LineLen
	clone.Query = c.Query
	return clone
}

// IsFirst reports whether this is the first entry of the line, the
// outermost ancestor.
func (c *Context) IsFirst() bool {
	return c.Index == 0
}

// IsLast reports whether this is the final entry of the line, the queried
// entity itself.
func (c *Context) IsLast() bool {
	return c.Index == c.LineLen-1
}
