// Package pool provides sync.Pool wrappers for reducing GC pressure.
package pool

import "sync"

// stringSlicePool provides pooled []string for traversal stacks.
var stringSlicePool = sync.Pool{
	New: func() any {
		s := make([]string, 0, 16)
		return &s
	},
}

// AcquireStringSlice gets a string slice from the pool.
func AcquireStringSlice() *[]string {
	s := stringSlicePool.Get().(*[]string)
	*s = (*s)[:0]
	return s
}

// ReleaseStringSlice returns a string slice to the pool.
func ReleaseStringSlice(s *[]string) {
	if s == nil {
		return
	}
	// Don't return oversized slices
	if cap(*s) <= 256 {
		stringSlicePool.Put(s)
	}
}

// byteSlicePool provides pooled []byte for rendering output records.
var byteSlicePool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 1024)
		return &b
	},
}

// AcquireByteSlice gets a byte slice from the pool.
func AcquireByteSlice() *[]byte {
	b := byteSlicePool.Get().(*[]byte)
	*b = (*b)[:0]
	return b
}

// ReleaseByteSlice returns a byte slice to the pool.
func ReleaseByteSlice(b *[]byte) {
	if b == nil {
		return
	}
	// Don't return oversized slices
	if cap(*b) <= 65536 {
		byteSlicePool.Put(b)
	}
}
