// Package resolver computes ancestor lines over a registry's occurrence
// sequence.
//
// Resolution runs in two steps. The filter step keeps every occurrence the
// queried entity derives from, preserving sequence order and duplicates.
// The selection step repeatedly extracts an element no other remaining
// element derives from and removes all of its occurrences, producing a
// duplicate-free line ordered base to derived. An empty line is a valid
// result, never an error.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/golineage/lineage"
	"github.com/golineage/lineage/cache"
	"github.com/golineage/lineage/registry"
	"github.com/golineage/lineage/seq"
)

// ErrNoRegistry is returned by Resolve when the resolver has no registry.
var ErrNoRegistry = errors.New("no registry configured")

// Resolver resolves ancestor lines against a registry, with optional
// result caching keyed on the registry generation.
type Resolver struct {
	reg     *registry.Registry
	rel     lineage.Relation
	store   cache.Store[lineage.Line]
	logger  *zap.Logger
	metrics *lineage.Metrics
}

// New creates a resolver over the given registry. By default the registry's
// declared parent links supply the derivation relation; WithRelation
// overrides that.
func New(reg *registry.Registry, opts ...lineage.Option) *Resolver {
	o := lineage.NewOptions(opts...)

	r := &Resolver{
		reg:     reg,
		logger:  o.Logger,
		metrics: o.Metrics,
	}
	if reg != nil {
		r.rel = reg
	}
	if r.metrics == nil {
		r.metrics = lineage.NewMetrics()
	}
	if o.EnableCache {
		if o.CacheTTL > 0 {
			r.store = cache.NewTTL[lineage.Line](o.CacheTTL, cache.DefaultCleanupInterval)
		} else {
			r.store = cache.New[string, lineage.Line](o.CacheSize)
		}
	}
	return r
}

// WithRelation replaces the derivation relation. Intended for configuration
// time, before the resolver is shared across goroutines.
func (r *Resolver) WithRelation(rel lineage.Relation) *Resolver {
	if rel != nil {
		r.rel = rel
	}
	return r
}

// Metrics returns the metrics collected by this resolver.
func (r *Resolver) Metrics() *lineage.Metrics {
	return r.metrics
}

// Resolve computes the ancestor line for queryID against the current
// registry snapshot. Results are cached until the registry mutates; cached
// lines are returned as independent copies.
func (r *Resolver) Resolve(ctx context.Context, queryID string) (lineage.Line, error) {
	if r.reg == nil {
		return nil, ErrNoRegistry
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("resolve %q: %w", queryID, err)
	}

	var key string
	if r.store != nil {
		key = strconv.FormatUint(r.reg.Generation(), 10) + ":" + queryID
		if line, ok := r.store.Get(key); ok {
			r.metrics.RecordCacheHit()
			r.logger.Debug("resolved from cache",
				zap.String("query", queryID),
				zap.Int("line_len", len(line)))
			return line.Clone(), nil
		}
		r.metrics.RecordCacheMiss()
	}

	snapshot := r.reg.Snapshot()
	start := time.Now()

	filterStart := time.Now()
	candidates := filterCandidates(snapshot, r.rel, queryID)
	r.metrics.RecordStep("resolve.filter", time.Since(filterStart), 0)

	selectStart := time.Now()
	line := selectLine(candidates, r.rel)
	r.metrics.RecordStep("resolve.select", time.Since(selectStart), 0)

	took := time.Since(start)
	r.metrics.RecordResolution(took, len(line) > 0)
	r.logger.Debug("resolved",
		zap.String("query", queryID),
		zap.Int("candidates", len(candidates)),
		zap.Int("line_len", len(line)),
		zap.Duration("took", took))

	if r.store != nil {
		r.store.Set(key, line.Clone())
	}
	return line, nil
}

// ResolveSequence computes an ancestor line over an explicit occurrence
// sequence and relation, without a registry, cache, or metrics. It is the
// pure core of Resolve, exported for callers that bring their own relation.
func ResolveSequence(entries []lineage.Entity, rel lineage.Relation, queryID string) lineage.Line {
	return selectLine(filterCandidates(entries, rel, queryID), rel)
}

// filterCandidates keeps the occurrences the queried entity derives from,
// in sequence order, duplicates preserved.
func filterCandidates(entries []lineage.Entity, rel lineage.Relation, queryID string) []lineage.Entity {
	return seq.Filter(entries, func(e lineage.Entity) bool {
		return rel.DerivesFrom(e.ID, queryID)
	})
}

// selectLine orders the candidates base to derived. Each round extracts an
// element no other remaining element strictly derives from, then drops all
// occurrences with its ID. When several remaining elements are mutually
// unranked the fold direction of seq.MaxBy decides which one is extracted.
func selectLine(candidates []lineage.Entity, rel lineage.Relation) lineage.Line {
	line := lineage.Line{}
	remaining := candidates
	for len(remaining) > 0 {
		winner, _ := seq.MaxBy(remaining, func(x, y lineage.Entity) bool {
			return rel.DerivesFrom(x.ID, y.ID)
		})
		remaining = seq.Filter(remaining, func(e lineage.Entity) bool {
			return e.ID != winner.ID
		})
		line = seq.Append(line, winner)
	}
	return line
}
