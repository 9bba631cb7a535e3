package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/golineage/lineage"
	"github.com/golineage/lineage/loader"
	"github.com/golineage/lineage/registry"
	"github.com/golineage/lineage/samples"
	"github.com/golineage/lineage/walker"
)

func newDemoService(t *testing.T, opts ...lineage.Option) *Service {
	t.Helper()
	return New(samples.NewDemoRegistry(), opts...)
}

func TestService_Resolve(t *testing.T) {
	svc := newDemoService(t)

	line, err := svc.Resolve(context.Background(), "K")
	require.NoError(t, err)
	require.Equal(t, []string{"F", "H", "J", "I", "K"}, line.IDs())
}

func TestService_ResolveAbsent(t *testing.T) {
	svc := newDemoService(t)

	line, err := svc.Resolve(context.Background(), "nope")
	require.NoError(t, err)
	require.Empty(t, line)
}

func TestService_Walk(t *testing.T) {
	svc := newDemoService(t)

	var visited []string
	report, err := svc.Walk(context.Background(), "D", "payload", func(wctx *walker.Context) error {
		visited = append(visited, wctx.Entity.ID)
		return nil
	})
	require.NoError(t, err)

	require.Equal(t, []string{"A", "C", "D"}, visited)
	require.True(t, report.OK)
	require.Equal(t, 3, report.Visited)
	require.Equal(t, "D", report.Query)
}

func TestService_WalkVisitError(t *testing.T) {
	svc := newDemoService(t)
	boom := errors.New("boom")

	report, err := svc.Walk(context.Background(), "D", nil, func(wctx *walker.Context) error {
		if wctx.Entity.ID == "C" {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
	require.False(t, report.OK)
	require.Equal(t, 1, report.Visited)
}

func TestService_WalkLine(t *testing.T) {
	svc := newDemoService(t)

	line := lineage.Line{{ID: "X"}, {ID: "Y"}}
	var visited []string
	report, err := svc.WalkLine(context.Background(), line, nil, func(wctx *walker.Context) error {
		visited = append(visited, wctx.Entity.ID)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"X", "Y"}, visited)
	require.Equal(t, 2, report.Visited)
}

func TestService_Collect(t *testing.T) {
	svc := newDemoService(t)

	contexts, err := svc.Collect(context.Background(), "T", nil)
	require.NoError(t, err)
	require.Len(t, contexts, 3)
	require.Equal(t, "A", contexts[0].Entity.ID)
	require.Equal(t, "T", contexts[2].Entity.ID)
	require.True(t, contexts[2].IsLast())
}

func TestService_ResolveBatch(t *testing.T) {
	svc := newDemoService(t)

	batch := svc.ResolveBatch(context.Background(), []string{"D", "K", "nope"})
	require.Equal(t, 3, batch.TotalJobs)
	require.Equal(t, 3, batch.CompletedJobs)
	require.False(t, batch.HasErrors())
	require.Equal(t, 2, batch.FoundCount())

	require.Equal(t, "D", batch.Results[0].Query)
	require.Equal(t, []string{"A", "C", "D"}, batch.Results[0].Line.IDs())
	require.Equal(t, []string{"F", "H", "J", "I", "K"}, batch.Results[1].Line.IDs())
	require.Empty(t, batch.Results[2].Line)
}

func TestService_Verify(t *testing.T) {
	svc := newDemoService(t)

	report := svc.Verify()
	require.True(t, report.OK)
	require.Empty(t, report.Issues)
}

func TestService_VerifyBrokenDefinitions(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Define(lineage.Entity{ID: "B", Parents: []string{"missing"}}))
	svc := New(reg)

	report := svc.Verify()
	require.False(t, report.OK)
	require.Equal(t, 1, report.ErrorCount())
	require.Equal(t, lineage.CodeUnknownParent, report.Issues[0].Code)
}

func TestService_NewFromDefinition(t *testing.T) {
	svc, err := NewFromDefinition(samples.MustLoad(samples.Demo))
	require.NoError(t, err)

	line, err := svc.Resolve(context.Background(), "D")
	require.NoError(t, err)
	require.Equal(t, []string{"A", "C", "D"}, line.IDs())
}

func TestService_NewFromDefinitionBadOccurrence(t *testing.T) {
	def := &loader.Definition{
		Version:   lineage.FormatV1,
		Hierarchy: []loader.EntityDef{{ID: "A"}},
		Registry:  []string{"A", "ghost"},
	}

	_, err := NewFromDefinition(def)
	require.ErrorIs(t, err, registry.ErrNotDefined)
}

func TestService_Reload(t *testing.T) {
	svc := newDemoService(t)
	require.Equal(t, 14, svc.Registry().DefinedCount())

	require.NoError(t, svc.Reload(samples.MustLoad(samples.Vehicles)))
	require.Equal(t, 9, svc.Registry().DefinedCount())

	line, err := svc.Resolve(context.Background(), "sedan")
	require.NoError(t, err)
	require.Equal(t, []string{"vehicle", "land", "car", "sedan"}, line.IDs())

	// The old hierarchy is gone
	line, err = svc.Resolve(context.Background(), "K")
	require.NoError(t, err)
	require.Empty(t, line)
}

func TestService_ReloadInvalidatesCache(t *testing.T) {
	svc := newDemoService(t)

	_, err := svc.Resolve(context.Background(), "D")
	require.NoError(t, err)
	_, err = svc.Resolve(context.Background(), "D")
	require.NoError(t, err)
	require.Equal(t, uint64(1), svc.Metrics().CacheHits())

	require.NoError(t, svc.Reload(samples.MustLoad(samples.Demo)))

	// Same query, fresh generation: the cached line must not be served.
	_, err = svc.Resolve(context.Background(), "D")
	require.NoError(t, err)
	require.Equal(t, uint64(1), svc.Metrics().CacheHits())
	require.Equal(t, uint64(2), svc.Metrics().CacheMisses())
}

func TestService_SharedMetrics(t *testing.T) {
	svc := newDemoService(t)

	_, err := svc.Walk(context.Background(), "D", nil, func(wctx *walker.Context) error {
		return nil
	})
	require.NoError(t, err)

	// Resolver and walker feed the same sink.
	m := svc.Metrics()
	require.Equal(t, uint64(1), m.ResolutionsTotal())
	require.Equal(t, uint64(3), m.VisitsTotal())
}

func TestService_CallerMetricsSink(t *testing.T) {
	sink := lineage.NewMetrics()
	svc := newDemoService(t, lineage.WithMetricsSink(sink))

	_, err := svc.Resolve(context.Background(), "D")
	require.NoError(t, err)

	require.Same(t, sink, svc.Metrics())
	require.Equal(t, uint64(1), sink.ResolutionsTotal())
}
