package lineage

import (
	"sync"
)

// Report contains the outcome of walking a derivation line.
// Use Release() to return it to the pool when done for better performance.
type Report struct {
	// OK is true if no errors were found (warnings are allowed)
	OK bool `json:"ok"`

	// Issues contains all findings in the order they were recorded
	Issues []Issue `json:"issues,omitempty"`

	// JobID is set when using batch processing to correlate reports
	JobID string `json:"jobId,omitempty"`

	// Query is the entity ID the report answers for
	Query string `json:"query,omitempty"`

	// Visited counts the entities actually visited during the walk
	Visited int `json:"visited,omitempty"`

	// mu protects concurrent access to Issues
	mu sync.Mutex
}

// reportPool holds reusable Report instances.
var reportPool = sync.Pool{
	New: func() any {
		return &Report{
			Issues: make([]Issue, 0, 16), // Pre-allocate for typical case
		}
	},
}

// AcquireReport gets a Report from the pool.
// The report starts as OK with no issues.
func AcquireReport() *Report {
	r := reportPool.Get().(*Report)
	r.Reset()
	return r
}

// Release returns the Report to the pool.
// After calling Release, the Report should not be used.
func (r *Report) Release() {
	if r == nil {
		return
	}
	// Don't return reports with oversized issue slices
	if cap(r.Issues) <= 1024 {
		reportPool.Put(r)
	}
}

// Reset clears the report for reuse.
func (r *Report) Reset() {
	r.OK = true
	r.Issues = r.Issues[:0]
	r.JobID = ""
	r.Query = ""
	r.Visited = 0
}

// AddIssue adds a finding to the report.
// This method is thread-safe.
func (r *Report) AddIssue(issue Issue) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Issues = append(r.Issues, issue)
	if issue.IsError() {
		r.OK = false
	}
}

// AddIssues adds multiple findings to the report.
// This method is thread-safe.
func (r *Report) AddIssues(issues []Issue) {
	if len(issues) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.Issues = append(r.Issues, issues...)
	for _, issue := range issues {
		if issue.IsError() {
			r.OK = false
			break
		}
	}
}

// AddError is a convenience method to add an error issue.
func (r *Report) AddError(code Code, diagnostics, entityID string) {
	r.AddIssue(Issue{
		Severity:    SeverityError,
		Code:        code,
		Diagnostics: diagnostics,
		EntityID:    entityID,
	})
}

// AddWarning is a convenience method to add a warning issue.
func (r *Report) AddWarning(code Code, diagnostics, entityID string) {
	r.AddIssue(Issue{
		Severity:    SeverityWarning,
		Code:        code,
		Diagnostics: diagnostics,
		EntityID:    entityID,
	})
}

// HasErrors returns true if there are any error or fatal issues.
func (r *Report) HasErrors() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, issue := range r.Issues {
		if issue.IsError() {
			return true
		}
	}
	return false
}

// HasWarnings returns true if there are any warning issues.
func (r *Report) HasWarnings() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, issue := range r.Issues {
		if issue.IsWarning() {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of error and fatal issues.
func (r *Report) ErrorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, issue := range r.Issues {
		if issue.IsError() {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warning issues.
func (r *Report) WarningCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, issue := range r.Issues {
		if issue.IsWarning() {
			count++
		}
	}
	return count
}

// Errors returns all error and fatal issues.
func (r *Report) Errors() []Issue {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errors []Issue
	for _, issue := range r.Issues {
		if issue.IsError() {
			errors = append(errors, issue)
		}
	}
	return errors
}

// Warnings returns all warning issues.
func (r *Report) Warnings() []Issue {
	r.mu.Lock()
	defer r.mu.Unlock()

	var warnings []Issue
	for _, issue := range r.Issues {
		if issue.IsWarning() {
			warnings = append(warnings, issue)
		}
	}
	return warnings
}

// Merge combines another report into this one.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}

	other.mu.Lock()
	issues := make([]Issue, len(other.Issues))
	copy(issues, other.Issues)
	visited := other.Visited
	other.mu.Unlock()

	r.AddIssues(issues)

	r.mu.Lock()
	r.Visited += visited
	r.mu.Unlock()
}

// Clone creates a copy of the report (not pooled).
func (r *Report) Clone() *Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := &Report{
		OK:      r.OK,
		Issues:  make([]Issue, len(r.Issues)),
		JobID:   r.JobID,
		Query:   r.Query,
		Visited: r.Visited,
	}
	copy(clone.Issues, r.Issues)
	return clone
}

// NewReport creates a new (non-pooled) report.
// Prefer AcquireReport() for better performance.
func NewReport() *Report {
	return &Report{
		OK:     true,
		Issues: make([]Issue, 0, 8),
	}
}
