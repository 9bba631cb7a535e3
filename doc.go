// Package lineage provides high-performance derivation-line resolution
// over entity hierarchies.
//
// This package is designed from the ground up to leverage Go's strengths:
// concurrency with goroutines, sync.Pool for memory efficiency, generics
// for type-safe caches, and small composable interfaces.
//
// # Quick Start
//
//	import (
//	    ln "github.com/golineage/lineage"
//	    "github.com/golineage/lineage/service"
//	)
//
//	svc := service.New(reg)
//
//	line, err := svc.Resolve(ctx, "K")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(line) // F -> H -> J -> I -> K
//
// # Performance Features
//
//   - Worker Pool: Parallel batch resolution using runtime.NumCPU() workers
//   - sync.Pool: Reduces GC pressure through walk context and report reuse
//   - Generic Cache: Type-safe LRU caches without interface{} overhead
//   - Streaming: Resolve query streams without loading them into memory
//
// # Functional Options
//
//	svc := service.New(reg,
//	    ln.WithNarrowingChecks(true),
//	    ln.WithWorkerCount(runtime.NumCPU()),
//	    ln.WithCache(1024),
//	)
//
// # Resolution
//
// Resolution runs in two steps, each handling one aspect:
//
//   - Filter: Collect the registry entries related to the queried entity
//   - Select: Repeatedly pick the outermost remaining ancestor
//
// The resulting Line runs from the outermost ancestor down to the queried
// entity itself. Narrowing checks registered on entities can then gate a
// walk along the line.
//
// # Architecture
//
//   - Small interfaces (1-2 methods each) for composability
//   - Context-based cancellation on every blocking operation
//   - Structured logging via zap with a no-op default
package lineage
