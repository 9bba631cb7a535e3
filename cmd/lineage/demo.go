package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/golineage/lineage/samples"
	"github.com/golineage/lineage/service"
	"github.com/golineage/lineage/walker"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the bundled demonstration scenarios",
	Long: `Demo resolves a few queries against the bundled sample hierarchies so the
selection order can be seen without writing any definitions. It always uses
the embedded samples and ignores the --definitions flag.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, _ []string) error {
	demoSvc := service.New(samples.NewDemoRegistry())

	fmt.Println("== demo hierarchy ==")
	for _, query := range []string{"D", "K", "T", "absent"} {
		line, err := demoSvc.Resolve(cmd.Context(), query)
		if err != nil {
			return err
		}
		if len(line) == 0 {
			fmt.Printf("%-6s -> (not found)\n", query)
			continue
		}
		fmt.Printf("%-6s -> %s\n", query, line)
	}

	def, err := samples.Load(samples.Vehicles)
	if err != nil {
		return err
	}
	vehicleSvc, err := service.NewFromDefinition(def)
	if err != nil {
		return err
	}

	fmt.Println("\n== vehicles walk: amphibious ==")
	report, err := vehicleSvc.Walk(cmd.Context(), "amphibious", nil, func(wctx *walker.Context) error {
		fmt.Printf("%3d. %s\n", wctx.Index+1, wctx.Entity.DisplayName())
		return nil
	})
	if err != nil {
		return err
	}
	defer report.Release()
	fmt.Printf("Visited: %d\n", report.Visited)
	return nil
}
