package lineage

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks resolution and walk performance using lock-free atomic
// operations. All methods are safe for concurrent use.
type Metrics struct {
	// Resolution counts
	resolutionsTotal atomic.Uint64
	resolutionsFound atomic.Uint64

	// Timing (stored as nanoseconds)
	resolutionTimeTotal atomic.Uint64
	resolutionTimeMin   atomic.Uint64
	resolutionTimeMax   atomic.Uint64

	// Cache metrics
	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64

	// Pool metrics
	poolAcquires atomic.Uint64
	poolReleases atomic.Uint64

	// Walk metrics
	visitsTotal atomic.Uint64
	skipsTotal  atomic.Uint64

	// Issue counts by severity
	errorsTotal   atomic.Uint64
	warningsTotal atomic.Uint64
	infosTotal    atomic.Uint64

	// Per-step timing
	stepTiming sync.Map // map[string]*stepMetrics
}

// stepMetrics tracks metrics for a single processing step.
type stepMetrics struct {
	invocations atomic.Uint64
	totalTime   atomic.Uint64 // nanoseconds
	issuesFound atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Initialize min to max uint64 so first value becomes the minimum
	m.resolutionTimeMin.Store(^uint64(0))
	return m
}

// --- Recording Methods ---

// RecordResolution records a completed resolution. found is true when the
// resolved line was non-empty.
func (m *Metrics) RecordResolution(duration time.Duration, found bool) {
	m.resolutionsTotal.Add(1)
	if found {
		m.resolutionsFound.Add(1)
	}

	ns := uint64(duration.Nanoseconds()) //nolint:gosec // Safe: nanoseconds are always positive for valid durations
	m.resolutionTimeTotal.Add(ns)

	// Update min (CAS loop)
	for {
		old := m.resolutionTimeMin.Load()
		if ns >= old {
			break
		}
		if m.resolutionTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}

	// Update max (CAS loop)
	for {
		old := m.resolutionTimeMax.Load()
		if ns <= old {
			break
		}
		if m.resolutionTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordCacheHit records a cache hit.
func (m *Metrics) RecordCacheHit() {
	m.cacheHits.Add(1)
}

// RecordCacheMiss records a cache miss.
func (m *Metrics) RecordCacheMiss() {
	m.cacheMisses.Add(1)
}

// RecordPoolAcquire records a pool acquire operation.
func (m *Metrics) RecordPoolAcquire() {
	m.poolAcquires.Add(1)
}

// RecordPoolRelease records a pool release operation.
func (m *Metrics) RecordPoolRelease() {
	m.poolReleases.Add(1)
}

// RecordVisit records an entity visited during a walk.
func (m *Metrics) RecordVisit() {
	m.visitsTotal.Add(1)
}

// RecordSkip records an entity skipped by a failed narrowing check.
func (m *Metrics) RecordSkip() {
	m.skipsTotal.Add(1)
}

// RecordError records an error issue.
func (m *Metrics) RecordError() {
	m.errorsTotal.Add(1)
}

// RecordWarning records a warning issue.
func (m *Metrics) RecordWarning() {
	m.warningsTotal.Add(1)
}

// RecordInfo records an informational issue.
func (m *Metrics) RecordInfo() {
	m.infosTotal.Add(1)
}

// RecordIssue records an issue based on severity.
func (m *Metrics) RecordIssue(severity Severity) {
	switch severity {
	case SeverityError, SeverityFatal:
		m.errorsTotal.Add(1)
	case SeverityWarning:
		m.warningsTotal.Add(1)
	case SeverityInformation:
		m.infosTotal.Add(1)
	}
}

// RecordStep records metrics for a processing step.
func (m *Metrics) RecordStep(stepName string, duration time.Duration, issuesFound int) {
	sm := m.getOrCreateStepMetrics(stepName)
	sm.invocations.Add(1)
	sm.totalTime.Add(uint64(duration.Nanoseconds())) //nolint:gosec // Safe: nanoseconds are always positive
	sm.issuesFound.Add(uint64(issuesFound))          //nolint:gosec // Safe: issuesFound is a small positive integer
}

func (m *Metrics) getOrCreateStepMetrics(name string) *stepMetrics {
	if v, ok := m.stepTiming.Load(name); ok {
		return v.(*stepMetrics)
	}
	sm := &stepMetrics{}
	actual, _ := m.stepTiming.LoadOrStore(name, sm)
	return actual.(*stepMetrics)
}

// --- Query Methods ---

// ResolutionsTotal returns the total number of resolutions performed.
func (m *Metrics) ResolutionsTotal() uint64 {
	return m.resolutionsTotal.Load()
}

// ResolutionsFound returns the number of resolutions with a non-empty line.
func (m *Metrics) ResolutionsFound() uint64 {
	return m.resolutionsFound.Load()
}

// FoundRate returns the fraction of resolutions with a non-empty line
// (0.0 to 1.0).
func (m *Metrics) FoundRate() float64 {
	total := m.resolutionsTotal.Load()
	if total == 0 {
		return 0
	}
	return float64(m.resolutionsFound.Load()) / float64(total)
}

// AverageResolutionTime returns the average resolution duration.
func (m *Metrics) AverageResolutionTime() time.Duration {
	total := m.resolutionsTotal.Load()
	if total == 0 {
		return 0
	}
	avgNs := m.resolutionTimeTotal.Load() / total
	return time.Duration(avgNs) //nolint:gosec // Safe: avgNs represents nanoseconds within int64 range
}

// MinResolutionTime returns the minimum resolution duration.
func (m *Metrics) MinResolutionTime() time.Duration {
	minVal := m.resolutionTimeMin.Load()
	if minVal == ^uint64(0) {
		return 0
	}
	return time.Duration(minVal) //nolint:gosec // Safe: minVal represents nanoseconds within int64 range
}

// MaxResolutionTime returns the maximum resolution duration.
func (m *Metrics) MaxResolutionTime() time.Duration {
	return time.Duration(m.resolutionTimeMax.Load()) //nolint:gosec // Safe: nanoseconds within int64 range
}

// CacheHits returns the total cache hits.
func (m *Metrics) CacheHits() uint64 {
	return m.cacheHits.Load()
}

// CacheMisses returns the total cache misses.
func (m *Metrics) CacheMisses() uint64 {
	return m.cacheMisses.Load()
}

// CacheHitRate returns the cache hit rate (0.0 to 1.0).
func (m *Metrics) CacheHitRate() float64 {
	hits := m.cacheHits.Load()
	misses := m.cacheMisses.Load()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// PoolAcquires returns the total pool acquire operations.
func (m *Metrics) PoolAcquires() uint64 {
	return m.poolAcquires.Load()
}

// PoolReleases returns the total pool release operations.
func (m *Metrics) PoolReleases() uint64 {
	return m.poolReleases.Load()
}

// PoolLeaks returns potential pool leaks (acquires - releases).
func (m *Metrics) PoolLeaks() int64 {
	return int64(m.poolAcquires.Load()) - int64(m.poolReleases.Load()) //nolint:gosec // Safe: counters won't overflow int64
}

// VisitsTotal returns the total entities visited during walks.
func (m *Metrics) VisitsTotal() uint64 {
	return m.visitsTotal.Load()
}

// SkipsTotal returns the total entities skipped by narrowing checks.
func (m *Metrics) SkipsTotal() uint64 {
	return m.skipsTotal.Load()
}

// ErrorsTotal returns the total error issues found.
func (m *Metrics) ErrorsTotal() uint64 {
	return m.errorsTotal.Load()
}

// WarningsTotal returns the total warning issues found.
func (m *Metrics) WarningsTotal() uint64 {
	return m.warningsTotal.Load()
}

// InfosTotal returns the total informational issues found.
func (m *Metrics) InfosTotal() uint64 {
	return m.infosTotal.Load()
}

// StepStats holds statistics for a single processing step.
type StepStats struct {
	Name        string
	Invocations uint64
	TotalTime   time.Duration
	AvgTime     time.Duration
	IssuesFound uint64
}

// StepStats returns statistics for a specific step.
func (m *Metrics) StepStats(stepName string) (StepStats, bool) {
	v, ok := m.stepTiming.Load(stepName)
	if !ok {
		return StepStats{Name: stepName}, false
	}
	sm := v.(*stepMetrics)
	invocations := sm.invocations.Load()
	totalTime := sm.totalTime.Load()

	var avgTime time.Duration
	if invocations > 0 {
		avgTime = time.Duration(totalTime / invocations) //nolint:gosec // Safe: nanoseconds within int64 range
	}

	return StepStats{
		Name:        stepName,
		Invocations: invocations,
		TotalTime:   time.Duration(totalTime), //nolint:gosec // Safe: nanoseconds within int64 range
		AvgTime:     avgTime,
		IssuesFound: sm.issuesFound.Load(),
	}, true
}

// AllStepStats returns statistics for all steps.
func (m *Metrics) AllStepStats() []StepStats {
	var stats []StepStats
	m.stepTiming.Range(func(key, value any) bool {
		sm := value.(*stepMetrics)
		name := key.(string)
		invocations := sm.invocations.Load()
		totalTime := sm.totalTime.Load()

		var avgTime time.Duration
		if invocations > 0 {
			avgTime = time.Duration(totalTime / invocations) //nolint:gosec // Safe: nanoseconds within int64 range
		}

		stats = append(stats, StepStats{
			Name:        name,
			Invocations: invocations,
			TotalTime:   time.Duration(totalTime), //nolint:gosec // Safe: nanoseconds within int64 range
			AvgTime:     avgTime,
			IssuesFound: sm.issuesFound.Load(),
		})
		return true
	})
	return stats
}

// --- Export Methods ---

// Snapshot represents a point-in-time snapshot of all metrics.
type Snapshot struct {
	// Timestamp when the snapshot was taken
	Timestamp time.Time `json:"timestamp"`

	// Resolution metrics
	ResolutionsTotal uint64  `json:"resolutions_total"`
	ResolutionsFound uint64  `json:"resolutions_found"`
	FoundRate        float64 `json:"found_rate"`

	// Timing metrics (in nanoseconds for precision)
	AvgResolutionTimeNs uint64 `json:"avg_resolution_time_ns"`
	MinResolutionTimeNs uint64 `json:"min_resolution_time_ns"`
	MaxResolutionTimeNs uint64 `json:"max_resolution_time_ns"`

	// Cache metrics
	CacheHits    uint64  `json:"cache_hits"`
	CacheMisses  uint64  `json:"cache_misses"`
	CacheHitRate float64 `json:"cache_hit_rate"`

	// Pool metrics
	PoolAcquires uint64 `json:"pool_acquires"`
	PoolReleases uint64 `json:"pool_releases"`
	PoolLeaks    int64  `json:"pool_leaks"`

	// Walk metrics
	VisitsTotal uint64 `json:"visits_total"`
	SkipsTotal  uint64 `json:"skips_total"`

	// Issue metrics
	ErrorsTotal   uint64 `json:"errors_total"`
	WarningsTotal uint64 `json:"warnings_total"`
	InfosTotal    uint64 `json:"infos_total"`

	// Step metrics
	Steps []StepStats `json:"steps,omitempty"`
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	total := m.resolutionsTotal.Load()
	cacheHits := m.cacheHits.Load()
	cacheMisses := m.cacheMisses.Load()

	var avgTime, foundRate, cacheHitRate float64
	if total > 0 {
		avgTime = float64(m.resolutionTimeTotal.Load()) / float64(total)
		foundRate = float64(m.resolutionsFound.Load()) / float64(total)
	}
	if cacheTotal := cacheHits + cacheMisses; cacheTotal > 0 {
		cacheHitRate = float64(cacheHits) / float64(cacheTotal)
	}

	minTime := m.resolutionTimeMin.Load()
	if minTime == ^uint64(0) {
		minTime = 0
	}

	return Snapshot{
		Timestamp:           time.Now(),
		ResolutionsTotal:    total,
		ResolutionsFound:    m.resolutionsFound.Load(),
		FoundRate:           foundRate,
		AvgResolutionTimeNs: uint64(avgTime),
		MinResolutionTimeNs: minTime,
		MaxResolutionTimeNs: m.resolutionTimeMax.Load(),
		CacheHits:           cacheHits,
		CacheMisses:         cacheMisses,
		CacheHitRate:        cacheHitRate,
		PoolAcquires:        m.poolAcquires.Load(),
		PoolReleases:        m.poolReleases.Load(),
		PoolLeaks:           m.PoolLeaks(),
		VisitsTotal:         m.visitsTotal.Load(),
		SkipsTotal:          m.skipsTotal.Load(),
		ErrorsTotal:         m.errorsTotal.Load(),
		WarningsTotal:       m.warningsTotal.Load(),
		InfosTotal:          m.infosTotal.Load(),
		Steps:               m.AllStepStats(),
	}
}

// Export returns metrics as a map suitable for external systems.
func (m *Metrics) Export() map[string]interface{} {
	s := m.Snapshot()
	return map[string]interface{}{
		"resolutions_total":      s.ResolutionsTotal,
		"resolutions_found":      s.ResolutionsFound,
		"found_rate":             s.FoundRate,
		"avg_resolution_time_ns": s.AvgResolutionTimeNs,
		"min_resolution_time_ns": s.MinResolutionTimeNs,
		"max_resolution_time_ns": s.MaxResolutionTimeNs,
		"cache_hits":             s.CacheHits,
		"cache_misses":           s.CacheMisses,
		"cache_hit_rate":         s.CacheHitRate,
		"pool_acquires":          s.PoolAcquires,
		"pool_releases":          s.PoolReleases,
		"pool_leaks":             s.PoolLeaks,
		"visits_total":           s.VisitsTotal,
		"skips_total":            s.SkipsTotal,
		"errors_total":           s.ErrorsTotal,
		"warnings_total":         s.WarningsTotal,
		"infos_total":            s.InfosTotal,
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.resolutionsTotal.Store(0)
	m.resolutionsFound.Store(0)
	m.resolutionTimeTotal.Store(0)
	m.resolutionTimeMin.Store(^uint64(0))
	m.resolutionTimeMax.Store(0)
	m.cacheHits.Store(0)
	m.cacheMisses.Store(0)
	m.poolAcquires.Store(0)
	m.poolReleases.Store(0)
	m.visitsTotal.Store(0)
	m.skipsTotal.Store(0)
	m.errorsTotal.Store(0)
	m.warningsTotal.Store(0)
	m.infosTotal.Store(0)

	// Clear step timing
	m.stepTiming.Range(func(key, _ any) bool {
		m.stepTiming.Delete(key)
		return true
	})
}
