package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jolt-Capital/langelot/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Display the configuration langelot will use, after merging the user
config, any project .langelot.yaml, and environment variables.

User configuration lives at ` + "`~/.config/langelot/config.yaml`" + `.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		apiKeyDisplay := "(not set)"
		if cfg.Anthropic.APIKey != "" {
			apiKeyDisplay = "****"
		}
		modelDisplay := cfg.Defaults.Model
		if modelDisplay == "" {
			modelDisplay = "(built-in default)"
		}
		fastModelDisplay := cfg.Defaults.FastModel
		if fastModelDisplay == "" {
			fastModelDisplay = "(built-in default)"
		}

		fmt.Printf("anthropic.api_key: %s\n", apiKeyDisplay)
		fmt.Printf("anthropic.use_bedrock: %t\n", cfg.Anthropic.UseBedrock)
		if cfg.Anthropic.UseBedrock {
			fmt.Printf("anthropic.aws_region: %s\n", cfg.Anthropic.AWSRegion)
			fmt.Printf("anthropic.aws_profile: %s\n", cfg.Anthropic.AWSProfile)
		}
		fmt.Printf("defaults.model: %s\n", modelDisplay)
		fmt.Printf("defaults.fast_model: %s\n", fastModelDisplay)
		fmt.Printf("defaults.max_tokens: %d\n", cfg.Defaults.MaxTokens)
		fmt.Printf("defaults.temperature: %g\n", cfg.Defaults.Temperature)
		fmt.Printf("defaults.worker: %s\n", cfg.Defaults.Worker)
		fmt.Printf("history.enabled: %t\n", cfg.History.Enabled)
		historyPath := cfg.History.Path
		if historyPath == "" {
			historyPath = "(default)"
		}
		fmt.Printf("history.path: %s\n", historyPath)
	},
}
