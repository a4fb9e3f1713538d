package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "maestro",
	Short: "Dynamic multi-agent task orchestrator",
	Long: `Maestro turns a natural-language request into a dependency graph of
tasks, dispatches each task to a specialist agent (math, string, web
search, code, weather, writer, editor), and runs independent tasks in
parallel while feeding each task a bounded bundle of its upstream
results.

Core capabilities:
- Plans a request into tasks with explicit dependencies
- Executes independent tasks concurrently, dependents in waves
- Keeps per-task context bounded by reducing oversized upstream outputs
- Propagates failures forward and keeps unaffected branches running`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
