package worker

import (
	"time"

	"github.com/golineage/lineage"
)

// Job represents a resolution job to be processed by a worker.
type Job struct {
	// ID is a caller-chosen identifier echoed back on the result.
	ID string

	// Query is the entity ID to resolve.
	Query string
}

// JobResult represents the result of a resolution job.
type JobResult struct {
	// ID matches the Job.ID that produced this result.
	ID string

	// Query is the entity ID that was resolved.
	Query string

	// Line is the resolved ancestor line. An empty line means the entity
	// had no occurrences; it is not an error.
	Line lineage.Line

	// Error contains any error that occurred during resolution.
	Error error

	// Duration is the time taken to resolve.
	Duration time.Duration
}

// BatchResult aggregates results from multiple jobs.
type BatchResult struct {
	// Results contains all job results.
	Results []*JobResult

	// TotalJobs is the number of jobs submitted.
	TotalJobs int

	// CompletedJobs is the number of jobs completed (including errors).
	CompletedJobs int

	// FailedJobs is the number of jobs that failed with an error.
	FailedJobs int

	// TotalDuration is the summed resolution time across all jobs.
	TotalDuration time.Duration
}

// HasErrors returns true if any job failed.
func (br *BatchResult) HasErrors() bool {
	for _, r := range br.Results {
		if r.Error != nil {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of failed jobs.
func (br *BatchResult) ErrorCount() int {
	count := 0
	for _, r := range br.Results {
		if r.Error != nil {
			count++
		}
	}
	return count
}

// FoundCount returns the number of jobs that produced a non-empty line.
func (br *BatchResult) FoundCount() int {
	count := 0
	for _, r := range br.Results {
		if r.Error == nil && len(r.Line) > 0 {
			count++
		}
	}
	return count
}
