package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/golineage/lineage"
	"github.com/golineage/lineage/watch"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <query>...",
	Short: "Re-resolve queries whenever the definition files change",
	Long: `Watch resolves the given queries, then keeps watching the definition file
or directory and re-resolves after every change. Stop with Ctrl-C.

Examples:
  lineage watch K -f hierarchy.yaml
  lineage watch sedan suv -f ./definitions --debounce 500ms`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", time.Second, "settle time before reloading after a change")
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := viper.GetString("definitions")
	if path == "" {
		return fmt.Errorf("watch needs --definitions pointing at a file or directory")
	}

	svc, logger, err := buildService()
	if err != nil {
		return err
	}

	render := func() {
		batch := svc.ResolveBatch(cmd.Context(), args)
		if err := renderBatch(os.Stdout, batch, outputFormat()); err != nil {
			fmt.Fprintf(os.Stderr, "render: %v\n", err)
		}
	}
	render()

	watcher, err := watch.New(watch.Config{Path: path, Debounce: watchDebounce}, lineage.WithLogger(logger))
	if err != nil {
		return err
	}
	defer watcher.Stop()

	changes, err := watcher.Start()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "watching %s\n", path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			def, err := loadDefinition()
			if err != nil {
				fmt.Fprintf(os.Stderr, "reload: %v\n", err)
				continue
			}
			if err := svc.Reload(def); err != nil {
				fmt.Fprintf(os.Stderr, "reload: %v\n", err)
				continue
			}
			fmt.Fprintf(os.Stderr, "definitions reloaded\n")
			render()
		}
	}
}
