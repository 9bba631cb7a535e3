package walker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/golineage/lineage"
	"github.com/golineage/lineage/pool"
)

// VisitFunc is called for each line entry during a walk.
// Return an error to abort the walk with that error.
// Return nil to continue walking.
type VisitFunc func(wctx *Context) error

// Walker invokes a visitor along an ancestor line, running narrowing
// checks between steps.
type Walker struct {
	checker   Checker
	narrowing bool
	pooling   bool
	logger    *zap.Logger
	metrics   *lineage.Metrics
}

// New creates a walker. A nil checker means DefaultChecker; disabling
// narrowing checks through the options replaces the checker with
// NullChecker, so every entry is visited unconditionally.
func New(checker Checker, opts ...lineage.Option) *Walker {
	o := lineage.NewOptions(opts...)

	if checker == nil {
		checker = DefaultChecker{}
	}
	if !o.NarrowingChecks {
		checker = NullChecker{}
	}

	m := o.Metrics
	if m == nil {
		m = lineage.NewMetrics()
	}

	return &Walker{
		checker:   checker,
		narrowing: o.NarrowingChecks,
		pooling:   o.EnablePooling,
		logger:    o.Logger,
		metrics:   m,
	}
}

// Metrics returns the metrics collected by this walker.
func (w *Walker) Metrics() *lineage.Metrics {
	return w.metrics
}

// Walk invokes visit once per line entry, in order. A failed narrowing
// check skips the entry, records a warning on the report and continues; a
// non-nil error from visit aborts the walk and is returned alongside the
// report accumulated so far.
//
// When pooling is enabled the returned report comes from the report pool;
// call its Release method when done with it.
func (w *Walker) Walk(ctx context.Context, line lineage.Line, instance any, visit VisitFunc) (*lineage.Report, error) {
	var report *lineage.Report
	if w.pooling {
		report = lineage.AcquireReport()
	} else {
		report = lineage.NewReport()
	}
	if last, ok := line.Last(); ok {
		report.Query = last.ID
	}

	for i := range line {
		e := line[i]

		select {
		case <-ctx.Done():
			return report, fmt.Errorf("walk at %s: %w", e.ID, ctx.Err())
		default:
		}

		checkStart := time.Now()
		view, ok := w.checker.Check(e, instance)
		if w.narrowing {
			issues := 0
			if !ok {
				issues = 1
			}
			w.metrics.RecordStep("walk.narrow", time.Since(checkStart), issues)
		}
		if !ok {
			report.AddIssue(lineage.Warning(lineage.CodeNarrowFailed).
				Entity(e.ID).
				At(i).
				Step("walk.narrow").
				Diagnostics(fmt.Sprintf("instance cannot be narrowed to %s", e.DisplayName())).
				Build())
			w.metrics.RecordSkip()
			w.metrics.RecordIssue(lineage.SeverityWarning)
			w.logger.Debug("narrowing failed, step skipped",
				zap.String("entity", e.ID),
				zap.Int("index", i))
			continue
		}

		wctx := AcquireContext()
		w.metrics.RecordPoolAcquire()
		wctx.Entity = e
		wctx.Instance = view
		wctx.Narrowed = w.narrowing
		wctx.Index = i
		wctx.LineLen = len(line)
		wctx.Query = report.Query

		err := visit(wctx)
		wctx.Release()
		w.metrics.RecordPoolRelease()
		if err != nil {
			report.AddIssue(lineage.Error(lineage.CodeVisitError).
				Entity(e.ID).
				At(i).
				Diagnostics(err.Error()).
				Build())
			w.metrics.RecordIssue(lineage.SeverityError)
			return report, fmt.Errorf("visit %s: %w", e.ID, err)
		}

		report.Visited++
		w.metrics.RecordVisit()
	}

	if w.logger.Core().Enabled(zap.DebugLevel) {
		trail := pool.BuildTrail(func(tb *pool.TrailBuilder) {
			for _, e := range line {
				tb.Append(e.ID)
			}
		})
		w.logger.Debug("walk complete",
			zap.String("trail", trail),
			zap.Int("visited", report.Visited),
			zap.Int("skipped", len(line)-report.Visited))
	}

	return report, nil
}

// Collect walks the line and returns a clone of every visited context.
// The clones come from the context pool; release them when done.
func (w *Walker) Collect(ctx context.Context, line lineage.Line, instance any) ([]*Context, error) {
	var contexts []*Context

	report, err := w.Walk(ctx, line, instance, func(wctx *Context) error {
		contexts = append(contexts, wctx.Clone())
		return nil
	})
	if w.pooling {
		report.Release()
	}

	return contexts, err
}
