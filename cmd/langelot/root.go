package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "langelot",
	Short: "Multi-approach task orchestration",
	Long: `Langelot answers a task by attacking it from several angles at once.

A task is decomposed into 2-3 independent approaches, each approach is
dispatched to the best-suited worker (pure reasoning, web retrieval, or
document analysis), the workers run in parallel, and the results are
synthesized into one answer.

Examples:
  langelot run "Compare the main approaches to LLM evaluation"
  langelot run --worker retrieval "What changed in Go 1.24?"
  langelot run --doc report.pdf "Summarize the key risks in this report"
  langelot history`,
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
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
