package lineage

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMetrics_Basic(t *testing.T) {
	m := NewMetrics()

	require.Zero(t, m.ResolutionsTotal())

	m.RecordResolution(100*time.Millisecond, true)

	require.Equal(t, uint64(1), m.ResolutionsTotal())
	require.Equal(t, uint64(1), m.ResolutionsFound())
}

func TestMetrics_FoundRate(t *testing.T) {
	m := NewMetrics()

	// No resolutions yet
	require.Zero(t, m.FoundRate())

	m.RecordResolution(100*time.Millisecond, true)
	m.RecordResolution(100*time.Millisecond, true)
	m.RecordResolution(100*time.Millisecond, false)

	require.InDelta(t, 2.0/3.0, m.FoundRate(), 0.01)
}

func TestMetrics_ResolutionTime(t *testing.T) {
	m := NewMetrics()

	// No resolutions yet
	require.Zero(t, m.AverageResolutionTime())
	require.Zero(t, m.MinResolutionTime())
	require.Zero(t, m.MaxResolutionTime())

	m.RecordResolution(100*time.Millisecond, true)
	m.RecordResolution(200*time.Millisecond, true)
	m.RecordResolution(300*time.Millisecond, true)

	require.InDelta(t, float64(200*time.Millisecond), float64(m.AverageResolutionTime()), float64(time.Millisecond))
	require.Equal(t, 100*time.Millisecond, m.MinResolutionTime())
	require.Equal(t, 300*time.Millisecond, m.MaxResolutionTime())
}

func TestMetrics_Cache(t *testing.T) {
	m := NewMetrics()

	m.RecordCacheHit()
	m.RecordCacheHit()
	m.RecordCacheMiss()

	require.Equal(t, uint64(2), m.CacheHits())
	require.Equal(t, uint64(1), m.CacheMisses())
	require.InDelta(t, 2.0/3.0, m.CacheHitRate(), 0.01)
}

func TestMetrics_CacheHitRate_NoDivByZero(t *testing.T) {
	m := NewMetrics()

	require.Zero(t, m.CacheHitRate())
}

func TestMetrics_Pool(t *testing.T) {
	m := NewMetrics()

	m.RecordPoolAcquire()
	m.RecordPoolAcquire()
	m.RecordPoolRelease()

	require.Equal(t, uint64(2), m.PoolAcquires())
	require.Equal(t, uint64(1), m.PoolReleases())
	require.Equal(t, int64(1), m.PoolLeaks())
}

func TestMetrics_Walk(t *testing.T) {
	m := NewMetrics()

	m.RecordVisit()
	m.RecordVisit()
	m.RecordVisit()
	m.RecordSkip()

	require.Equal(t, uint64(3), m.VisitsTotal())
	require.Equal(t, uint64(1), m.SkipsTotal())
}

func TestMetrics_Issues(t *testing.T) {
	m := NewMetrics()

	m.RecordError()
	m.RecordError()
	m.RecordWarning()
	m.RecordInfo()

	require.Equal(t, uint64(2), m.ErrorsTotal())
	require.Equal(t, uint64(1), m.WarningsTotal())
	require.Equal(t, uint64(1), m.InfosTotal())
}

func TestMetrics_RecordIssue(t *testing.T) {
	m := NewMetrics()

	m.RecordIssue(SeverityError)
	m.RecordIssue(SeverityFatal)
	m.RecordIssue(SeverityWarning)
	m.RecordIssue(SeverityInformation)

	require.Equal(t, uint64(2), m.ErrorsTotal(), "error + fatal")
	require.Equal(t, uint64(1), m.WarningsTotal())
	require.Equal(t, uint64(1), m.InfosTotal())
}

func TestMetrics_Step(t *testing.T) {
	m := NewMetrics()

	m.RecordStep("resolve.filter", 100*time.Millisecond, 2)
	m.RecordStep("resolve.filter", 200*time.Millisecond, 3)
	m.RecordStep("resolve.select", 50*time.Millisecond, 1)

	stats, ok := m.StepStats("resolve.filter")
	require.True(t, ok)
	require.Equal(t, uint64(2), stats.Invocations)
	require.Equal(t, 300*time.Millisecond, stats.TotalTime)
	require.Equal(t, 150*time.Millisecond, stats.AvgTime)
	require.Equal(t, uint64(5), stats.IssuesFound)

	// Non-existent step
	_, ok = m.StepStats("nonexistent")
	require.False(t, ok)
}

func TestMetrics_AllStepStats(t *testing.T) {
	m := NewMetrics()

	m.RecordStep("resolve.filter", 100*time.Millisecond, 2)
	m.RecordStep("resolve.select", 50*time.Millisecond, 1)
	m.RecordStep("walk.narrow", 200*time.Millisecond, 3)

	require.Len(t, m.AllStepStats(), 3)
}

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()

	m.RecordResolution(100*time.Millisecond, true)
	m.RecordCacheHit()
	m.RecordPoolAcquire()
	m.RecordVisit()
	m.RecordError()
	m.RecordStep("resolve.filter", 50*time.Millisecond, 1)

	s := m.Snapshot()

	require.Equal(t, uint64(1), s.ResolutionsTotal)
	require.Equal(t, uint64(1), s.CacheHits)
	require.Equal(t, uint64(1), s.PoolAcquires)
	require.Equal(t, uint64(1), s.VisitsTotal)
	require.Equal(t, uint64(1), s.ErrorsTotal)
	require.Len(t, s.Steps, 1)
	require.False(t, s.Timestamp.IsZero())
}

func TestMetrics_Export(t *testing.T) {
	m := NewMetrics()

	m.RecordResolution(100*time.Millisecond, true)
	m.RecordCacheHit()

	export := m.Export()

	require.Equal(t, uint64(1), export["resolutions_total"])
	require.Equal(t, uint64(1), export["cache_hits"])
}

func TestMetrics_Reset(t *testing.T) {
	m := NewMetrics()

	m.RecordResolution(100*time.Millisecond, true)
	m.RecordCacheHit()
	m.RecordPoolAcquire()
	m.RecordVisit()
	m.RecordError()
	m.RecordStep("resolve.filter", 50*time.Millisecond, 1)

	m.Reset()

	require.Zero(t, m.ResolutionsTotal())
	require.Zero(t, m.CacheHits())
	require.Zero(t, m.PoolAcquires())
	require.Zero(t, m.VisitsTotal())
	require.Zero(t, m.ErrorsTotal())
	require.Empty(t, m.AllStepStats())
}

func TestMetrics_Concurrent(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	n := 100

	// Concurrent resolution recording
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.RecordResolution(time.Duration(i)*time.Millisecond, i%2 == 0)
		}(i)
	}

	// Concurrent cache recording
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				m.RecordCacheHit()
			} else {
				m.RecordCacheMiss()
			}
		}(i)
	}

	// Concurrent step recording
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.RecordStep("test", time.Duration(i)*time.Millisecond, 1)
		}(i)
	}

	wg.Wait()

	require.Equal(t, uint64(n), m.ResolutionsTotal())
	require.Equal(t, uint64(n), m.CacheHits()+m.CacheMisses())

	stats, _ := m.StepStats("test")
	require.Equal(t, uint64(n), stats.Invocations)
}

func BenchmarkMetrics_RecordResolution(b *testing.B) {
	m := NewMetrics()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.RecordResolution(100*time.Millisecond, true)
	}
}

func BenchmarkMetrics_RecordStep(b *testing.B) {
	m := NewMetrics()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.RecordStep("resolve.filter", 100*time.Millisecond, 1)
	}
}

func BenchmarkMetrics_Snapshot(b *testing.B) {
	m := NewMetrics()
	for i := 0; i < 100; i++ {
		m.RecordResolution(100*time.Millisecond, true)
		m.RecordStep("resolve.filter", 50*time.Millisecond, 1)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Snapshot()
	}
}

func BenchmarkMetrics_Concurrent(b *testing.B) {
	m := NewMetrics()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			switch i % 4 {
			case 0:
				m.RecordResolution(100*time.Millisecond, true)
			case 1:
				m.RecordCacheHit()
			case 2:
				m.RecordPoolAcquire()
			case 3:
				m.RecordStep("resolve.filter", 50*time.Millisecond, 1)
			}
			i++
		}
	})
}
