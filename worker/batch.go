package worker

import (
	"context"
	"runtime"
	"strconv"
	"sync"
	"time"
)

// BatchResolver resolves a slice of queries and returns results in input
// order, with job IDs derived from the input index.
type BatchResolver struct {
	resolver Resolver
	workers  int
}

// NewBatchResolver creates a new batch resolver.
func NewBatchResolver(resolver Resolver, workers int) *BatchResolver {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchResolver{
		resolver: resolver,
		workers:  workers,
	}
}

// ResolveBatch resolves multiple queries in parallel.
func (br *BatchResolver) ResolveBatch(ctx context.Context, queries []string) *BatchResult {
	if len(queries) == 0 {
		return &BatchResult{
			Results:       make([]*JobResult, 0),
			TotalJobs:     0,
			CompletedJobs: 0,
		}
	}

	// For small batches, don't use parallelism
	if len(queries) <= 2 {
		return br.resolveSequential(ctx, queries)
	}

	return br.resolveParallel(ctx, queries)
}

func (br *BatchResolver) resolveSequential(ctx context.Context, queries []string) *BatchResult {
	results := make([]*JobResult, 0, len(queries))
	failed := 0
	var total time.Duration

	for i, query := range queries {
		select {
		case <-ctx.Done():
			return &BatchResult{
				Results:       results,
				TotalJobs:     len(queries),
				CompletedJobs: len(results),
				FailedJobs:    failed,
				TotalDuration: total,
			}
		default:
		}

		result := br.resolveOne(ctx, i, query)
		results = append(results, result)
		total += result.Duration
		if result.Error != nil {
			failed++
		}
	}

	return &BatchResult{
		Results:       results,
		TotalJobs:     len(queries),
		CompletedJobs: len(results),
		FailedJobs:    failed,
		TotalDuration: total,
	}
}

func (br *BatchResolver) resolveParallel(ctx context.Context, queries []string) *BatchResult {
	numWorkers := br.workers
	if numWorkers > len(queries) {
		numWorkers = len(queries)
	}

	jobs := make(chan indexedQuery, len(queries))
	resultsChan := make(chan *indexedResult, len(queries))

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				resultsChan <- &indexedResult{
					index:  job.index,
					result: br.resolveOne(ctx, job.index, job.query),
				}
			}
		}()
	}

	go func() {
		for i, query := range queries {
			jobs <- indexedQuery{index: i, query: query}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	// Collect results in input order
	results := make([]*JobResult, len(queries))
	completed := 0
	failed := 0
	var total time.Duration

	for ir := range resultsChan {
		results[ir.index] = ir.result
		completed++
		total += ir.result.Duration
		if ir.result.Error != nil {
			failed++
		}
	}

	// Canceled runs leave gaps; compact so Results holds only completed jobs
	if completed < len(queries) {
		compacted := make([]*JobResult, 0, completed)
		for _, r := range results {
			if r != nil {
				compacted = append(compacted, r)
			}
		}
		results = compacted
	}

	return &BatchResult{
		Results:       results,
		TotalJobs:     len(queries),
		CompletedJobs: completed,
		FailedJobs:    failed,
		TotalDuration: total,
	}
}

func (br *BatchResolver) resolveOne(ctx context.Context, index int, query string) *JobResult {
	start := time.Now()

	result := &JobResult{
		ID:    strconv.Itoa(index),
		Query: query,
	}

	if br.resolver == nil {
		result.Error = ErrNoResolver
		result.Duration = time.Since(start)
		return result
	}

	line, err := br.resolver.Resolve(ctx, query)
	result.Line = line
	result.Error = err
	result.Duration = time.Since(start)
	return result
}

type indexedQuery struct {
	index int
	query string
}

type indexedResult struct {
	index  int
	result *JobResult
}

// ResolveBatch is a convenience function for one-off batch resolution.
func ResolveBatch(ctx context.Context, resolver Resolver, queries []string, workers int) *BatchResult {
	return NewBatchResolver(resolver, workers).ResolveBatch(ctx, queries)
}
