package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Jolt-Capital/langelot/internal/config"
	"github.com/Jolt-Capital/langelot/internal/llm"
	"github.com/Jolt-Capital/langelot/internal/orchestrator"
	"github.com/Jolt-Capital/langelot/internal/router"
	"github.com/Jolt-Capital/langelot/internal/state"
	"github.com/Jolt-Capital/langelot/pkg/models"
)

var (
	runModel       string
	runFastModel   string
	runMaxTokens   int64
	runTemperature float64
	runWorker      string
	runDocs        []string
	runContextFile string
	runLogFile     string
	runNoHistory   bool
	runShowUsage   bool
)

var runCmd = &cobra.Command{
	Use:   "run <task>",
	Short: "Run a task through the orchestration pipeline",
	Long: `Run a task through the full pipeline: decompose, dispatch, synthesize.

The task is decomposed into 2-3 independent approaches. Each approach is
routed to a worker:
  - reasoning: pure analysis from background knowledge (fast model)
  - retrieval: generation grounded in live web search, with citations
  - docs:      generation grounded in documents passed via --doc

Routing is automatic unless --worker pins every approach to one worker.
Completed runs are recorded in the history database; see 'langelot history'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTask,
}

func init() {
	registerRunFlags(runCmd)
}

func registerRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&runModel, "model", "", "Model for decomposition, synthesis, retrieval, and docs")
	cmd.Flags().StringVar(&runFastModel, "fast-model", "", "Model for the reasoning worker")
	cmd.Flags().Int64Var(&runMaxTokens, "max-tokens", 0, "Max output tokens per generation call")
	cmd.Flags().Float64Var(&runTemperature, "temperature", 0, "Sampling temperature for all calls")
	cmd.Flags().StringVarP(&runWorker, "worker", "w", "", "Pin all approaches to one worker: auto, reasoning, retrieval, or docs")
	cmd.Flags().StringArrayVar(&runDocs, "doc", nil, "Document to ground execution on (repeatable)")
	cmd.Flags().StringVar(&runContextFile, "context", "", "YAML file of key/value context merged into every prompt")
	cmd.Flags().StringVar(&runLogFile, "log", "", "Append a detailed run log to this file")
	cmd.Flags().BoolVar(&runNoHistory, "no-history", false, "Skip recording this run in the history database")
	cmd.Flags().BoolVar(&runShowUsage, "usage", false, "Print token usage after the run")
}

func runTask(cmd *cobra.Command, args []string) error {
	task := strings.Join(args, " ")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyConfigDefaults(cmd, cfg)

	override := router.Override(runWorker)
	if runWorker != "" && !override.Valid() {
		return fmt.Errorf("unknown worker %q: expected auto, reasoning, retrieval, or docs", runWorker)
	}

	runContext, err := loadContextFile(runContextFile)
	if err != nil {
		return err
	}

	gen, err := llm.NewClient(llm.ClientConfig{
		APIKey:        cfg.Anthropic.APIKey,
		UseAWSBedrock: cfg.Anthropic.UseBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	opts := []orchestrator.Option{}

	runLog := orchestrator.NopRunLog()
	if runLogFile != "" {
		runLog, err = orchestrator.NewRunLog(runLogFile)
		if err != nil {
			return fmt.Errorf("open run log: %w", err)
		}
		defer runLog.Close()
	}
	opts = append(opts, orchestrator.WithRunLog(runLog))

	if cfg.History.Enabled && !runNoHistory {
		historyPath := cfg.History.Path
		if historyPath == "" {
			historyPath = state.DefaultPath()
		}
		db, err := state.Open(historyPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: history unavailable: %v\n", err)
		} else {
			defer db.Close()
			opts = append(opts, orchestrator.WithStore(db))
		}
	}

	engine := orchestrator.New(gen, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted, aborting run...")
		cancel()
	}()

	color.New(color.FgCyan, color.Bold).Printf("Orchestrating: %s\n\n", task)
	started := time.Now()

	result, err := engine.Orchestrate(ctx, task, orchestrator.Options{
		Model:          runModel,
		FastModel:      runFastModel,
		MaxTokens:      runMaxTokens,
		Temperature:    runTemperature,
		Context:        runContext,
		WorkerOverride: override,
		DocumentPaths:  runDocs,
	})
	if err != nil {
		return err
	}

	printResult(result, time.Since(started))
	if runShowUsage {
		input, output := gen.Tracker().Total()
		color.New(color.Faint).Printf("Tokens: %d prompt, %d completion across %d API calls\n",
			input, output, gen.Tracker().Calls())
	}
	return nil
}

// applyConfigDefaults fills flag values the user did not set from the
// loaded configuration. A flag explicitly set on the command line always
// wins, even when set to its zero value (e.g. --temperature 0).
func applyConfigDefaults(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("model") {
		runModel = cfg.Defaults.Model
	}
	if !flags.Changed("fast-model") {
		runFastModel = cfg.Defaults.FastModel
	}
	if !flags.Changed("max-tokens") {
		runMaxTokens = cfg.Defaults.MaxTokens
	}
	if !flags.Changed("temperature") {
		runTemperature = cfg.Defaults.Temperature
	}
	if !flags.Changed("worker") && cfg.Defaults.Worker != "" && cfg.Defaults.Worker != "auto" {
		runWorker = cfg.Defaults.Worker
	}
}

// loadContextFile reads a YAML mapping of contextual key/value pairs.
func loadContextFile(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read context file: %w", err)
	}

	ctx := map[string]any{}
	if err := yaml.Unmarshal(data, &ctx); err != nil {
		return nil, fmt.Errorf("parse context file %s: %w", path, err)
	}
	return ctx, nil
}

// printResult renders the completed run to stdout.
func printResult(result *models.OrchestrationResult, elapsed time.Duration) {
	heading := color.New(color.FgYellow, color.Bold)
	dim := color.New(color.Faint)

	for i, r := range result.Results {
		heading.Printf("Approach %d: %s", i+1, r.Approach)
		dim.Printf("  [%s, %s]\n", r.Capability, r.Duration.Round(time.Millisecond))
		fmt.Println(r.Result)

		if len(r.Citations) > 0 {
			dim.Println("Sources:")
			for j, c := range r.Citations {
				dim.Printf("  %d. %s (%s)\n", j+1, c.Title, c.URL)
			}
		}
		if len(r.DocumentsUsed) > 0 {
			dim.Printf("Documents: %s\n", strings.Join(r.DocumentsUsed, ", "))
		}
		fmt.Println()
	}

	color.New(color.FgGreen, color.Bold).Println("Synthesis")
	fmt.Println(result.Synthesis)
	fmt.Println()

	dim.Printf("Run %s finished in %s\n", result.RunID, elapsed.Round(time.Millisecond))
}
