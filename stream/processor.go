// Package stream provides streaming resolution over large query inputs.
//
// Input is read line by line. Blank lines and lines starting with # are
// skipped; a line starting with { is parsed as a JSON record with a
// "query" field and an optional "id" echoed back on the result, anything
// else is taken as a bare entity ID.
package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/golineage/lineage"
	"github.com/golineage/lineage/pool"
)

// QueryResult represents the resolution result for a single input line.
type QueryResult struct {
	// Index is the position of the query in the input, counting only
	// lines that produce a result. An index of -1 marks a stream-level
	// failure such as a read error.
	Index int

	// Query is the entity ID that was resolved.
	Query string

	// ID is the caller-supplied identifier from the input record, if any.
	ID string

	// Line is the resolved ancestor line. Empty means no occurrences.
	Line lineage.Line

	// Error is set if the line could not be parsed or resolved.
	Error error
}

// ResolveFunc resolves a single query.
type ResolveFunc func(ctx context.Context, queryID string) (lineage.Line, error)

// Processor resolves query streams.
type Processor struct {
	// resolve is the function applied to each query
	resolve ResolveFunc

	// bufferSize is the channel buffer size
	bufferSize int

	// workerCount is the number of parallel workers
	workerCount int
}

// NewProcessor creates a new stream processor. The resolve function must
// not be nil.
func NewProcessor(resolve ResolveFunc) *Processor {
	return &Processor{
		resolve:     resolve,
		bufferSize:  100,
		workerCount: 4,
	}
}

// WithBufferSize sets the channel buffer size.
func (p *Processor) WithBufferSize(size int) *Processor {
	if size > 0 {
		p.bufferSize = size
	}
	return p
}

// WithWorkerCount sets the number of parallel workers.
func (p *Processor) WithWorkerCount(count int) *Processor {
	if count > 0 {
		p.workerCount = count
	}
	return p
}

// ResolveStream resolves queries from r one at a time, emitting results in
// input order. The caller must drain the returned channel.
func (p *Processor) ResolveStream(ctx context.Context, r io.Reader) <-chan *QueryResult {
	results := make(chan *QueryResult, p.bufferSize)

	go func() {
		defer close(results)

		scanner := bufio.NewScanner(r)
		index := 0
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				results <- &QueryResult{Index: -1, Error: ctx.Err()}
				return
			default:
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			query, id, err := parseQuery(line)
			if err != nil {
				results <- &QueryResult{Index: index, Error: err}
				index++
				continue
			}

			results <- p.resolveOne(ctx, index, query, id)
			index++
		}
		if err := scanner.Err(); err != nil {
			results <- &QueryResult{Index: -1, Error: fmt.Errorf("read queries: %w", err)}
		}
	}()

	return results
}

// ResolveStreamParallel resolves queries in parallel while preserving
// input order in the output. The caller must drain the returned channel.
func (p *Processor) ResolveStreamParallel(ctx context.Context, r io.Reader) <-chan *QueryResult {
	results := make(chan *QueryResult, p.bufferSize)

	go func() {
		defer close(results)

		type workItem struct {
			index int
			query string
			id    string
		}

		workChan := make(chan workItem, p.bufferSize)
		resultChan := make(chan *QueryResult, p.bufferSize)

		var wg sync.WaitGroup
		for i := 0; i < p.workerCount; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for work := range workChan {
					select {
					case <-ctx.Done():
						return
					default:
					}
					resultChan <- p.resolveOne(ctx, work.index, work.query, work.id)
				}
			}()
		}

		go func() {
			scanner := bufio.NewScanner(r)
			index := 0
		scan:
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" || strings.HasPrefix(line, "#") {
					continue
				}

				query, id, err := parseQuery(line)
				if err != nil {
					resultChan <- &QueryResult{Index: index, Error: err}
					index++
					continue
				}

				select {
				case workChan <- workItem{index: index, query: query, id: id}:
					index++
				case <-ctx.Done():
					break scan
				}
			}
			close(workChan)
			wg.Wait()
			if err := scanner.Err(); err != nil {
				resultChan <- &QueryResult{Index: -1, Error: fmt.Errorf("read queries: %w", err)}
			}
			close(resultChan)
		}()

		// Emit in input order
		pending := make(map[int]*QueryResult)
		nextIndex := 0
		for result := range resultChan {
			if result.Index < 0 {
				results <- result
				continue
			}
			pending[result.Index] = result
			for {
				r, ok := pending[nextIndex]
				if !ok {
					break
				}
				results <- r
				delete(pending, nextIndex)
				nextIndex++
			}
		}

		// A canceled run leaves gaps; flush whatever completed
		for len(pending) > 0 {
			if r, ok := pending[nextIndex]; ok {
				results <- r
				delete(pending, nextIndex)
			}
			nextIndex++
		}
	}()

	return results
}

func (p *Processor) resolveOne(ctx context.Context, index int, query, id string) *QueryResult {
	result := &QueryResult{Index: index, Query: query, ID: id}
	result.Line, result.Error = p.resolve(ctx, query)
	return result
}

// parseQuery extracts the query ID and optional correlation ID from an
// input line.
func parseQuery(line string) (query, id string, err error) {
	if !strings.HasPrefix(line, "{") {
		return line, "", nil
	}
	var record struct {
		Query string `json:"query"`
		ID    string `json:"id"`
	}
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		return "", "", fmt.Errorf("parse query record: %w", err)
	}
	if record.Query == "" {
		return "", "", fmt.Errorf("query record has no query field")
	}
	return record.Query, record.ID, nil
}

// StreamResult aggregates results from a streaming resolution.
type StreamResult struct {
	// TotalQueries is the number of queries processed, including failed ones
	TotalQueries int

	// Found is the count of queries that produced a non-empty line
	Found int

	// Empty is the count of queries that matched no occurrences
	Empty int

	// Failed is the count of queries that failed to parse or resolve
	Failed int

	// ProcessingErrors collects all errors, including stream-level ones
	ProcessingErrors []error

	// Lines holds the non-empty lines, keyed by input index
	Lines map[int]lineage.Line
}

// Aggregate collects all results from a streaming resolution.
func Aggregate(results <-chan *QueryResult) *StreamResult {
	agg := &StreamResult{
		Lines: make(map[int]lineage.Line),
	}
	for result := range results {
		agg.observe(result)
	}
	return agg
}

func (r *StreamResult) observe(result *QueryResult) {
	if result.Error != nil {
		r.ProcessingErrors = append(r.ProcessingErrors, result.Error)
		if result.Index >= 0 {
			r.TotalQueries++
			r.Failed++
		}
		return
	}

	r.TotalQueries++
	if len(result.Line) > 0 {
		r.Found++
		r.Lines[result.Index] = result.Line
	} else {
		r.Empty++
	}
}

// HasErrors returns true if any query or the stream itself failed.
func (r *StreamResult) HasErrors() bool {
	return len(r.ProcessingErrors) > 0
}

// Summary returns a human-readable summary of the run.
func (r *StreamResult) Summary() string {
	return fmt.Sprintf(
		"Processed %d queries: %d found, %d empty, %d failed",
		r.TotalQueries,
		r.Found,
		r.Empty,
		r.Failed,
	)
}

// Format selects the output encoding for WriteResults.
type Format string

// Supported output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// queryRecord is the JSON form of one result.
type queryRecord struct {
	Query string   `json:"query"`
	ID    string   `json:"id,omitempty"`
	Line  []string `json:"line"`
	Error string   `json:"error,omitempty"`
}

// WriteResults consumes a result channel, renders each record to w, and
// returns the aggregate. The channel is fully drained even when writing
// fails part way.
func WriteResults(w io.Writer, results <-chan *QueryResult, format Format) (*StreamResult, error) {
	agg := &StreamResult{
		Lines: make(map[int]lineage.Line),
	}
	enc := json.NewEncoder(w)

	var writeErr error
	for result := range results {
		agg.observe(result)
		if writeErr != nil {
			continue // Keep draining
		}

		if format == FormatJSON {
			record := queryRecord{Query: result.Query, ID: result.ID, Line: result.Line.IDs()}
			if result.Error != nil {
				record.Error = result.Error.Error()
			}
			writeErr = enc.Encode(record)
			continue
		}
		writeErr = writeText(w, result)
	}
	if writeErr != nil {
		return agg, fmt.Errorf("write results: %w", writeErr)
	}
	return agg, nil
}

func writeText(w io.Writer, result *QueryResult) error {
	buf := pool.AcquireByteSlice()
	defer pool.ReleaseByteSlice(buf)

	b := (*buf)[:0]
	b = append(b, result.Query...)
	switch {
	case result.Error != nil:
		b = append(b, ": error: "...)
		b = append(b, result.Error.Error()...)
	case len(result.Line) == 0:
		b = append(b, ": (not found)"...)
	default:
		b = append(b, ": "...)
		for i, e := range result.Line {
			if i > 0 {
				b = append(b, " -> "...)
			}
			b = append(b, e.ID...)
		}
	}
	b = append(b, '\n')
	*buf = b

	_, err := w.Write(b)
	return err
}
