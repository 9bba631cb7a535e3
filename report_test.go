package lineage

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReport_Basic(t *testing.T) {
	r := NewReport()

	require.True(t, r.OK)
	require.Empty(t, r.Issues)
}

func TestReport_AddIssue(t *testing.T) {
	r := NewReport()

	r.AddIssue(Issue{
		Severity:    SeverityWarning,
		Code:        CodeNarrowFailed,
		Diagnostics: "narrowing failed",
	})

	require.True(t, r.OK, "report should still be OK after warning")
	require.Len(t, r.Issues, 1)

	r.AddIssue(Issue{
		Severity:    SeverityError,
		Code:        CodeVisitError,
		Diagnostics: "visit failed",
	})

	require.False(t, r.OK, "report should not be OK after error")
	require.Len(t, r.Issues, 2)
}

func TestReport_AddIssues(t *testing.T) {
	r := NewReport()

	r.AddIssues([]Issue{
		{Severity: SeverityWarning, Code: CodeNarrowFailed},
		{Severity: SeverityWarning, Code: CodeNarrowFailed},
	})

	require.True(t, r.OK, "report should still be OK after warnings only")
	require.Len(t, r.Issues, 2)

	r.AddIssues([]Issue{
		{Severity: SeverityError, Code: CodeVisitError},
	})

	require.False(t, r.OK)
}

func TestReport_AddIssues_Empty(t *testing.T) {
	r := NewReport()
	r.AddIssues(nil)
	r.AddIssues([]Issue{})

	require.Empty(t, r.Issues)
}

func TestReport_AddError(t *testing.T) {
	r := NewReport()

	r.AddError(CodeUnknownEntity, "entity X is not defined", "X")

	require.False(t, r.OK)
	require.Len(t, r.Issues, 1)
	require.Equal(t, SeverityError, r.Issues[0].Severity)
	require.Equal(t, "X", r.Issues[0].EntityID)
}

func TestReport_AddWarning(t *testing.T) {
	r := NewReport()

	r.AddWarning(CodeNarrowFailed, "instance rejected", "C")

	require.True(t, r.OK)
	require.Len(t, r.Issues, 1)
	require.Equal(t, SeverityWarning, r.Issues[0].Severity)
}

func TestReport_HasErrors(t *testing.T) {
	r := NewReport()
	require.False(t, r.HasErrors())

	r.AddWarning(CodeNarrowFailed, "warning", "C")
	require.False(t, r.HasErrors())

	r.AddError(CodeVisitError, "error", "C")
	require.True(t, r.HasErrors())
}

func TestReport_HasWarnings(t *testing.T) {
	r := NewReport()
	require.False(t, r.HasWarnings())

	r.AddError(CodeVisitError, "error", "C")
	require.False(t, r.HasWarnings())

	r.AddWarning(CodeNarrowFailed, "warning", "C")
	require.True(t, r.HasWarnings())
}

func TestReport_Counts(t *testing.T) {
	r := NewReport()

	r.AddError(CodeVisitError, "error 1", "A")
	r.AddWarning(CodeNarrowFailed, "warning", "B")
	r.AddError(CodeVisitError, "error 2", "C")
	r.AddIssue(Issue{Severity: SeverityFatal, Code: CodeProcessing})

	require.Equal(t, 3, r.ErrorCount())
	require.Equal(t, 1, r.WarningCount())
	require.Len(t, r.Errors(), 3)
	require.Len(t, r.Warnings(), 1)
}

func TestReport_Merge(t *testing.T) {
	r1 := NewReport()
	r1.AddWarning(CodeNarrowFailed, "warning", "A")
	r1.Visited = 2

	r2 := NewReport()
	r2.AddError(CodeVisitError, "error", "B")
	r2.Visited = 3

	r1.Merge(r2)

	require.False(t, r1.OK)
	require.Len(t, r1.Issues, 2)
	require.Equal(t, 5, r1.Visited)
}

func TestReport_Merge_Nil(t *testing.T) {
	r := NewReport()
	r.Merge(nil) // Should not panic
	require.Empty(t, r.Issues)
}

func TestReport_Clone(t *testing.T) {
	r := NewReport()
	r.AddError(CodeVisitError, "error", "C")
	r.JobID = "job-123"
	r.Query = "K"
	r.Visited = 4

	clone := r.Clone()

	require.Equal(t, r.OK, clone.OK)
	require.Len(t, clone.Issues, len(r.Issues))
	require.Equal(t, r.JobID, clone.JobID)
	require.Equal(t, r.Query, clone.Query)
	require.Equal(t, r.Visited, clone.Visited)

	// Verify it's a deep copy
	clone.AddError(CodeVisitError, "another error", "D")
	require.Len(t, r.Issues, 1)
}

func TestReport_Reset(t *testing.T) {
	r := NewReport()
	r.AddError(CodeVisitError, "error", "C")
	r.JobID = "job-123"
	r.Query = "K"
	r.Visited = 4

	r.Reset()

	require.True(t, r.OK)
	require.Empty(t, r.Issues)
	require.Empty(t, r.JobID)
	require.Empty(t, r.Query)
	require.Zero(t, r.Visited)
}

func TestReport_Pool(t *testing.T) {
	r := AcquireReport()
	require.NotNil(t, r)
	require.True(t, r.OK)

	r.AddError(CodeVisitError, "error", "C")
	r.Release()

	// Acquire another one - should be reset
	r2 := AcquireReport()
	require.True(t, r2.OK)
	require.Empty(t, r2.Issues)
	r2.Release()
}

func TestReport_Pool_NilRelease(t *testing.T) {
	var r *Report
	r.Release() // Should not panic
}

func TestReport_Concurrent(t *testing.T) {
	r := NewReport()
	var wg sync.WaitGroup
	n := 100

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				r.AddError(CodeVisitError, "error", "A")
			} else {
				r.AddWarning(CodeNarrowFailed, "warning", "B")
			}
		}(i)
	}

	wg.Wait()

	require.Len(t, r.Issues, n)
}

func BenchmarkReport_AddIssue(b *testing.B) {
	r := NewReport()
	issue := Issue{
		Severity:    SeverityError,
		Code:        CodeVisitError,
		Diagnostics: "visit failed",
		EntityID:    "C",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.AddIssue(issue)
	}
}

func BenchmarkReport_Pool(b *testing.B) {
	for i := 0; i < b.N; i++ {
		r := AcquireReport()
		r.AddError(CodeVisitError, "error", "C")
		r.Release()
	}
}

func BenchmarkReport_NoPool(b *testing.B) {
	for i := 0; i < b.N; i++ {
		r := NewReport()
		r.AddError(CodeVisitError, "error", "C")
		_ = r
	}
}
