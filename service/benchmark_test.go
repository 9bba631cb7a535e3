package service

import (
	"context"
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/golineage/lineage"
	"github.com/golineage/lineage/samples"
	"github.com/golineage/lineage/walker"
	"github.com/golineage/lineage/worker"
)

var benchQueries = []string{"D", "K", "T", "E", "L", "Z"}

// BenchmarkService_Resolve benchmarks single-query resolution.
func BenchmarkService_Resolve(b *testing.B) {
	ctx := context.Background()

	b.Run("cached", func(b *testing.B) {
		svc := New(samples.NewDemoRegistry())

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			if _, err := svc.Resolve(ctx, "K"); err != nil {
				b.Fatalf("Resolve error: %v", err)
			}
		}
	})

	b.Run("uncached", func(b *testing.B) {
		svc := New(samples.NewDemoRegistry(), lineage.WithoutCache())

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			if _, err := svc.Resolve(ctx, "K"); err != nil {
				b.Fatalf("Resolve error: %v", err)
			}
		}
	})
}

// BenchmarkService_Walk benchmarks the resolve-then-walk path.
func BenchmarkService_Walk(b *testing.B) {
	ctx := context.Background()
	svc := New(samples.NewDemoRegistry())
	visit := func(*walker.Context) error { return nil }

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		report, err := svc.Walk(ctx, "K", nil, visit)
		if err != nil {
			b.Fatalf("Walk error: %v", err)
		}
		report.Release()
	}
}

// BenchmarkBatchResolution compares sequential and parallel batch resolution.
func BenchmarkBatchResolution(b *testing.B) {
	ctx := context.Background()
	svc := New(samples.NewDemoRegistry(), lineage.WithoutCache())

	queries := make([]string, 100)
	for i := range queries {
		queries[i] = benchQueries[i%len(benchQueries)]
	}

	b.Run("sequential", func(b *testing.B) {
		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			for _, q := range queries {
				_, _ = svc.Resolve(ctx, q)
			}
		}
	})

	for _, workers := range []int{2, 4, 8} {
		b.Run(fmt.Sprintf("parallel_%d_workers", workers), func(b *testing.B) {
			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				_ = worker.ResolveBatch(ctx, svc, queries, workers)
			}
		})
	}
}

// BenchmarkParallelResolution tests scaling with different worker counts.
func BenchmarkParallelResolution(b *testing.B) {
	ctx := context.Background()
	svc := New(samples.NewDemoRegistry(), lineage.WithoutCache())

	queries := make([]string, 1000)
	for i := range queries {
		queries[i] = benchQueries[i%len(benchQueries)]
	}

	maxWorkers := runtime.NumCPU() * 2
	for workers := 1; workers <= maxWorkers; workers *= 2 {
		b.Run(fmt.Sprintf("workers_%d", workers), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = worker.ResolveBatch(ctx, svc, queries, workers)
			}
		})
	}
}

// BenchmarkReportPool compares pooled and unpooled report allocation.
func BenchmarkReportPool(b *testing.B) {
	issue := lineage.Issue{
		Severity:    lineage.SeverityWarning,
		Code:        lineage.CodeNarrowFailed,
		Diagnostics: "narrowing rejected instance",
		EntityID:    "K",
	}

	b.Run("acquire_release", func(b *testing.B) {
		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			r := lineage.AcquireReport()
			r.AddIssue(issue)
			r.Release()
		}
	})

	b.Run("without_pool", func(b *testing.B) {
		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			r := lineage.NewReport()
			r.AddIssue(issue)
		}
	})
}

// BenchmarkThroughput measures resolution throughput over a large batch.
func BenchmarkThroughput(b *testing.B) {
	ctx := context.Background()
	svc := New(samples.NewDemoRegistry())

	queries := make([]string, 10000)
	for i := range queries {
		queries[i] = benchQueries[i%len(benchQueries)]
	}

	start := time.Now()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = worker.ResolveBatch(ctx, svc, queries, runtime.NumCPU())
	}

	b.StopTimer()
	duration := time.Since(start)
	throughput := float64(b.N*len(queries)) / duration.Seconds()
	b.ReportMetric(throughput, "queries/sec")
}
