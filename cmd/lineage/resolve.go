package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/golineage/lineage/stream"
	"github.com/golineage/lineage/worker"
)

var resolveStdin bool

var resolveCmd = &cobra.Command{
	Use:   "resolve [query]...",
	Short: "Resolve ancestor lines for entity queries",
	Long: `Resolve computes the ancestor line for each query: every ancestor with
at least one occurrence, ordered from the outermost base down to the
queried entity. A query without occurrences prints as not found; that is
not an error.

Examples:
  lineage resolve K
  lineage resolve D K T -o json
  cat queries.txt | lineage resolve --stdin`,
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().BoolVar(&resolveStdin, "stdin", false,
		"read queries from stdin, one per line")
}

func runResolve(cmd *cobra.Command, args []string) error {
	if !resolveStdin && len(args) == 0 {
		return fmt.Errorf("no queries given (pass entity IDs or --stdin)")
	}

	svc, _, err := buildService()
	if err != nil {
		return err
	}

	if resolveStdin {
		processor := stream.NewProcessor(svc.Resolve)
		results := processor.ResolveStreamParallel(cmd.Context(), os.Stdin)

		agg, err := stream.WriteResults(os.Stdout, results, stream.Format(outputFormat()))
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, agg.Summary())
		if agg.HasErrors() {
			return fmt.Errorf("%d queries failed", agg.Failed)
		}
		return nil
	}

	batch := svc.ResolveBatch(cmd.Context(), args)
	if err := renderBatch(os.Stdout, batch, outputFormat()); err != nil {
		return err
	}
	if batch.HasErrors() {
		return fmt.Errorf("%d of %d queries failed", batch.FailedJobs, batch.TotalJobs)
	}
	return nil
}

// resolveOutput is the JSON form of one resolved query.
type resolveOutput struct {
	Query string   `json:"query"`
	Line  []string `json:"line"`
	Error string   `json:"error,omitempty"`
}

func renderBatch(w io.Writer, batch *worker.BatchResult, format string) error {
	if format == "json" {
		outputs := make([]resolveOutput, 0, len(batch.Results))
		for _, r := range batch.Results {
			out := resolveOutput{Query: r.Query, Line: r.Line.IDs()}
			if r.Error != nil {
				out.Error = r.Error.Error()
			}
			outputs = append(outputs, out)
		}
		data, err := json.MarshalIndent(outputs, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	for _, r := range batch.Results {
		switch {
		case r.Error != nil:
			fmt.Fprintf(w, "%s: error: %v\n", r.Query, r.Error)
		case len(r.Line) == 0:
			fmt.Fprintf(w, "%s: (not found)\n", r.Query)
		default:
			fmt.Fprintf(w, "%s: %s\n", r.Query, r.Line)
		}
	}
	return nil
}
