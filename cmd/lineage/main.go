// Package main implements the lineage CLI tool.
package main

import "os"

// Populated at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
