package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show a summary of the loaded definitions",
	Long: `Info prints the shape of the loaded hierarchy: how many entities are
defined, how many occurrences are registered, the root and leaf entities,
and any structural problems found by verification.`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

// infoOutput is the JSON output structure for the info command.
type infoOutput struct {
	Defined     int           `json:"defined"`
	Occurrences int           `json:"occurrences"`
	Roots       []string      `json:"roots"`
	Leaves      []string      `json:"leaves"`
	MaxDepth    int           `json:"maxDepth"`
	OK          bool          `json:"ok"`
	Issues      []issueOutput `json:"issues,omitempty"`
}

func runInfo(cmd *cobra.Command, _ []string) error {
	svc, _, err := buildService()
	if err != nil {
		return err
	}
	reg := svc.Registry()

	report := svc.Verify()
	defer report.Release()

	out := infoOutput{
		Defined:     reg.DefinedCount(),
		Occurrences: reg.Len(),
		Roots:       reg.Roots(),
		Leaves:      reg.Leaves(),
		MaxDepth:    reg.MaxDepth(),
		OK:          report.OK,
	}
	out.Issues = toIssueOutputs(report.Issues)

	if outputFormat() == "json" {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		fmt.Printf("Defined entities: %d\n", out.Defined)
		fmt.Printf("Occurrences:      %d\n", out.Occurrences)
		fmt.Printf("Roots:            %s\n", joinOrDash(out.Roots))
		fmt.Printf("Leaves:           %s\n", joinOrDash(out.Leaves))
		fmt.Printf("Max depth:        %d\n", out.MaxDepth)
		if len(report.Issues) > 0 {
			fmt.Println("\nIssues:")
			printIssues(os.Stdout, report.Issues)
		}
	}

	if report.HasErrors() {
		return fmt.Errorf("verification found %d errors", report.ErrorCount())
	}
	return nil
}

func joinOrDash(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ", ")
}
