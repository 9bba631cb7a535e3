package pool

import (
	"strconv"
	"sync"
)

// TrailBuilder provides efficient building of arrow-joined entity trails,
// such as "F -> H -> J -> I -> K". It reuses a byte buffer that grows as
// needed and can be recycled via sync.Pool.
type TrailBuilder struct {
	buf []byte
}

// trailBuilderPool holds reusable TrailBuilder instances.
var trailBuilderPool = sync.Pool{
	New: func() any {
		return &TrailBuilder{
			buf: make([]byte, 0, 128),
		}
	},
}

// AcquireTrailBuilder gets a TrailBuilder from the pool.
// Call Release() when done to return it to the pool.
func AcquireTrailBuilder() *TrailBuilder {
	tb := trailBuilderPool.Get().(*TrailBuilder)
	tb.Reset()
	return tb
}

// Release returns the TrailBuilder to the pool.
func (b *TrailBuilder) Release() {
	if b == nil {
		return
	}
	// Don't return oversized buffers to the pool
	if cap(b.buf) <= 4096 {
		trailBuilderPool.Put(b)
	}
}

// Reset clears the buffer without deallocating.
func (b *TrailBuilder) Reset() {
	b.buf = b.buf[:0]
}

// Len returns the current length of the trail text.
func (b *TrailBuilder) Len() int {
	return len(b.buf)
}

// Append adds an entity ID, joined to the trail with " -> ".
func (b *TrailBuilder) Append(id string) {
	if len(b.buf) > 0 {
		b.buf = append(b.buf, " -> "...)
	}
	b.buf = append(b.buf, id...)
}

// AppendRef adds an entity ID with its line index as "ID[i]".
func (b *TrailBuilder) AppendRef(id string, index int) {
	if len(b.buf) > 0 {
		b.buf = append(b.buf, " -> "...)
	}
	b.buf = append(b.buf, id...)
	b.buf = append(b.buf, '[')
	b.buf = strconv.AppendInt(b.buf, int64(index), 10)
	b.buf = append(b.buf, ']')
}

// String returns the built trail as a string.
// This creates a single allocation for the final string.
func (b *TrailBuilder) String() string {
	return string(b.buf)
}

// BuildTrail is a convenience function that builds a trail using a callback.
// The TrailBuilder is automatically returned to the pool after the callback.
//
// Example:
//
//	trail := pool.BuildTrail(func(b *pool.TrailBuilder) {
//	    b.Append("F")
//	    b.Append("H")
//	    b.AppendRef("K", 4)
//	})
func BuildTrail(fn func(*TrailBuilder)) string {
	tb := AcquireTrailBuilder()
	defer tb.Release()
	fn(tb)
	return tb.String()
}
