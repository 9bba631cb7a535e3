// Package worker provides a worker pool for parallel line resolution.
//
// The pool resolves many queries concurrently against a shared resolver,
// taking advantage of multi-core processors. Results arrive on a channel
// in completion order; use the batch helpers when input order matters.
//
// Example usage:
//
//	pool := worker.NewPool(res, 4)
//
//	for i, query := range queries {
//	    pool.Submit(worker.Job{ID: strconv.Itoa(i), Query: query})
//	}
//
//	batch := pool.CloseAndWait()
//	for _, result := range batch.Results {
//	    if result.Error != nil {
//	        // Handle error
//	    }
//	    // Process result.Line
//	}
package worker
