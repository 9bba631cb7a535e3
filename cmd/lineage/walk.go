package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/golineage/lineage"
	"github.com/golineage/lineage/walker"
)

var walkCmd = &cobra.Command{
	Use:   "walk <query>",
	Short: "Resolve a line and visit it from base to derived",
	Long: `Walk resolves the ancestor line for the query and visits each entity in
order, outermost base first, queried entity last.

Examples:
  lineage walk K
  lineage walk amphibious -f vehicles.yaml -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runWalk,
}

func init() {
	rootCmd.AddCommand(walkCmd)
}

// walkStep is one visited entity in the JSON output.
type walkStep struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
}

// walkOutput is the JSON output structure for a walk.
type walkOutput struct {
	Query   string        `json:"query"`
	Visited int           `json:"visited"`
	OK      bool          `json:"ok"`
	Steps   []walkStep    `json:"steps"`
	Issues  []issueOutput `json:"issues,omitempty"`
}

// issueOutput represents a single issue in JSON output.
type issueOutput struct {
	Severity    string `json:"severity"`
	Code        string `json:"code"`
	Diagnostics string `json:"diagnostics"`
	EntityID    string `json:"entityId,omitempty"`
}

func runWalk(cmd *cobra.Command, args []string) error {
	svc, _, err := buildService()
	if err != nil {
		return err
	}
	query := args[0]

	var steps []walkStep
	report, err := svc.Walk(cmd.Context(), query, nil, func(wctx *walker.Context) error {
		steps = append(steps, walkStep{
			Index: wctx.Index,
			ID:    wctx.Entity.ID,
			Name:  wctx.Entity.Name,
		})
		return nil
	})
	if err != nil {
		return err
	}
	defer report.Release()

	if outputFormat() == "json" {
		out := walkOutput{
			Query:   query,
			Visited: report.Visited,
			OK:      report.OK,
			Steps:   steps,
		}
		out.Issues = toIssueOutputs(report.Issues)

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(steps) == 0 && len(report.Issues) == 0 {
		fmt.Printf("%s: (no occurrences)\n", query)
		return nil
	}

	fmt.Printf("== %s ==\n", query)
	for _, step := range steps {
		label := step.ID
		if step.Name != "" {
			label = fmt.Sprintf("%s (%s)", step.Name, step.ID)
		}
		fmt.Printf("%3d. %s\n", step.Index+1, label)
	}
	fmt.Printf("Visited: %d\n", report.Visited)

	if len(report.Issues) > 0 {
		fmt.Println("\nIssues:")
		printIssues(os.Stdout, report.Issues)
	}
	return nil
}

func toIssueOutputs(issues []lineage.Issue) []issueOutput {
	if len(issues) == 0 {
		return nil
	}
	outputs := make([]issueOutput, 0, len(issues))
	for _, iss := range issues {
		outputs = append(outputs, issueOutput{
			Severity:    string(iss.Severity),
			Code:        string(iss.Code),
			Diagnostics: iss.Diagnostics,
			EntityID:    iss.EntityID,
		})
	}
	return outputs
}

func printIssues(w io.Writer, issues []lineage.Issue) {
	for _, iss := range issues {
		location := ""
		if iss.EntityID != "" {
			location = fmt.Sprintf(" @ %s", iss.EntityID)
		}
		fmt.Fprintf(w, "  %s [%s] %s%s\n", severityLabel(iss.Severity), iss.Code, iss.Diagnostics, location)
	}
}

func severityLabel(severity lineage.Severity) string {
	switch severity {
	case lineage.SeverityFatal, lineage.SeverityError:
		return "ERROR"
	case lineage.SeverityWarning:
		return "WARN "
	case lineage.SeverityInformation:
		return "INFO "
	default:
		return "     "
	}
}
