// Package service assembles a registry, resolver, and walker behind a
// single façade sharing one metrics sink.
//
// # Usage
//
//	svc, err := service.NewFromDefinition(def)
//	if err != nil {
//		log.Fatal(err)
//	}
//	report, err := svc.Walk(ctx, "K", instance, func(wctx *walker.Context) error {
//		fmt.Println(wctx.Entity.DisplayName())
//		return nil
//	})
//
// # Thread Safety
//
// A Service is safe for concurrent use once constructed. Reload swaps the
// definitions in place and is not atomic with respect to concurrent
// resolves; callers needing isolation should build a fresh service.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/golineage/lineage"
	"github.com/golineage/lineage/loader"
	"github.com/golineage/lineage/registry"
	"github.com/golineage/lineage/resolver"
	"github.com/golineage/lineage/walker"
	"github.com/golineage/lineage/worker"
)

// Service bundles the registry with a resolver and walker configured from
// the same options.
type Service struct {
	reg      *registry.Registry
	resolver *resolver.Resolver
	walker   *walker.Walker
	logger   *zap.Logger
	metrics  *lineage.Metrics
	workers  int
}

// New creates a service over an existing registry.
func New(reg *registry.Registry, opts ...lineage.Option) *Service {
	o := lineage.NewOptions(opts...)

	// One sink across resolver and walker unless the caller brought one.
	metrics := o.Metrics
	if metrics == nil {
		metrics = lineage.NewMetrics()
		opts = append(opts, lineage.WithMetricsSink(metrics))
	}

	return &Service{
		reg:      reg,
		resolver: resolver.New(reg, opts...),
		walker:   walker.New(nil, opts...),
		logger:   o.Logger,
		metrics:  metrics,
		workers:  o.WorkerCount,
	}
}

// NewFromDefinition builds a registry from a parsed definition document and
// wraps it in a service.
func NewFromDefinition(def *loader.Definition, opts ...lineage.Option) (*Service, error) {
	reg := registry.New(opts...)
	if err := def.Apply(reg); err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}
	return New(reg, opts...), nil
}

// Registry returns the underlying registry.
func (s *Service) Registry() *registry.Registry {
	return s.reg
}

// Metrics returns the shared metrics sink.
func (s *Service) Metrics() *lineage.Metrics {
	return s.metrics
}

// Resolve computes the ancestor line for queryID.
func (s *Service) Resolve(ctx context.Context, queryID string) (lineage.Line, error) {
	return s.resolver.Resolve(ctx, queryID)
}

// Walk resolves queryID and visits the resulting line from the outermost
// ancestor down to the queried entity.
func (s *Service) Walk(ctx context.Context, queryID string, instance any, visit walker.VisitFunc) (*lineage.Report, error) {
	line, err := s.resolver.Resolve(ctx, queryID)
	if err != nil {
		return nil, err
	}
	return s.walker.Walk(ctx, line, instance, visit)
}

// WalkLine visits an already resolved line.
func (s *Service) WalkLine(ctx context.Context, line lineage.Line, instance any, visit walker.VisitFunc) (*lineage.Report, error) {
	return s.walker.Walk(ctx, line, instance, visit)
}

// Collect resolves queryID and returns the visit contexts the walk would
// produce, in order.
func (s *Service) Collect(ctx context.Context, queryID string, instance any) ([]*walker.Context, error) {
	line, err := s.resolver.Resolve(ctx, queryID)
	if err != nil {
		return nil, err
	}
	return s.walker.Collect(ctx, line, instance)
}

// ResolveBatch resolves multiple queries in parallel. Results are ordered
// by input position.
func (s *Service) ResolveBatch(ctx context.Context, queries []string) *worker.BatchResult {
	return worker.ResolveBatch(ctx, s.resolver, queries, s.workers)
}

// Verify checks the registry's definitions and wraps the findings in a
// report. The report is OK when no definition errors were found.
func (s *Service) Verify() *lineage.Report {
	report := lineage.NewReport()
	report.AddIssues(s.reg.Verify())
	return report
}

// Reload clears the registry and applies a new definition document. The
// registry generation keeps rising, so previously cached lines are never
// served again.
func (s *Service) Reload(def *loader.Definition) error {
	s.reg.Clear()
	if err := def.Apply(s.reg); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	s.logger.Info("definitions reloaded",
		zap.Int("entities", s.reg.DefinedCount()),
		zap.Int("occurrences", s.reg.Len()))
	return nil
}
