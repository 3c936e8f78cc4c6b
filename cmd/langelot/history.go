package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Jolt-Capital/langelot/internal/config"
	"github.com/Jolt-Capital/langelot/internal/state"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List or show past runs",
	Long: `List recent orchestration runs, or show one run in full.

Without arguments, lists the most recent runs. With a run ID, prints the
stored approaches, per-approach results, and the synthesis.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		historyPath := cfg.History.Path
		if historyPath == "" {
			historyPath = state.DefaultPath()
		}
		if _, err := os.Stat(historyPath); err != nil {
			fmt.Println("No run history yet.")
			return nil
		}

		db, err := state.Open(historyPath)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer db.Close()

		if len(args) == 1 {
			return showRun(db, args[0])
		}
		return listRuns(db)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to list")
}

func listRuns(db *state.DB) error {
	summaries, err := db.ListRuns(historyLimit)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No run history yet.")
		return nil
	}

	dim := color.New(color.Faint)
	for _, s := range summaries {
		task := s.Task
		if len(task) > 60 {
			task = task[:57] + "..."
		}
		fmt.Printf("%s  %s\n", color.CyanString(s.ID), task)
		dim.Printf("          %s, %d approaches, %s\n",
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			s.Approaches,
			s.FinishedAt.Sub(s.StartedAt).Round(time.Second))
	}
	return nil
}

func showRun(db *state.DB, id string) error {
	result, err := db.GetRun(id)
	if err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("run %s not found", id)
	}

	heading := color.New(color.FgYellow, color.Bold)
	dim := color.New(color.Faint)

	color.New(color.FgCyan, color.Bold).Printf("Run %s\n", result.RunID)
	fmt.Printf("Task: %s\n", result.Task)
	dim.Printf("%s, %s\n\n",
		result.StartedAt.Local().Format("2006-01-02 15:04:05"),
		result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))

	for i, r := range result.Results {
		heading.Printf("Approach %d: %s", i+1, r.Approach)
		dim.Printf("  [%s]\n", r.Capability)
		fmt.Println(r.Result)
		if len(r.Citations) > 0 {
			dim.Println("Sources:")
			for j, c := range r.Citations {
				dim.Printf("  %d. %s (%s)\n", j+1, c.Title, c.URL)
			}
		}
		fmt.Println()
	}

	color.New(color.FgGreen, color.Bold).Println("Synthesis")
	fmt.Println(result.Synthesis)
	return nil
}
