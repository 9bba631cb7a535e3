// Package walker drives a visitor along a resolved ancestor line.
//
// A walk invokes the visitor once per line entry, base to derived. Before
// each visit the walker runs a narrowing check: can the walked instance be
// viewed through the shape of this entry's entity? A failed check is not
// an error. The step is skipped, a warning lands in the report, and the
// walk moves on, so the walk is always total over the line. Walking an
// empty line performs no visits and returns an empty report.
//
// Only an error returned by the visitor itself aborts a walk.
//
// # Usage
//
//	w := walker.New(nil)
//
//	report, err := w.Walk(ctx, line, instance, func(wctx *walker.Context) error {
//	    // wctx.Entity   - the line entry being visited
//	    // wctx.Instance - the instance, narrowed to the entity's shape
//	    // wctx.Index    - position within the line
//	    fmt.Println(wctx.Entity.DisplayName())
//	    return nil
//	})
//
// # Thread Safety
//
// A Walker is safe for concurrent walks; per-entity visit order is
// guaranteed only within a single walk. Contexts handed to the visitor are
// pooled and only valid during that visit; Clone the context to keep it.
package walker
