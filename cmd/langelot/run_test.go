package main

import (
	"testing"

	"github.com/Jolt-Capital/langelot/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Defaults: config.DefaultsConfig{
			Model:       "config-model",
			FastModel:   "config-fast",
			MaxTokens:   2048,
			Temperature: 0.7,
			Worker:      "retrieval",
		},
	}
}

func TestApplyConfigDefaultsUnsetFlags(t *testing.T) {
	cmd := runCmd
	cmd.ResetFlags()
	registerRunFlags(cmd)

	applyConfigDefaults(cmd, testConfig())

	if runModel != "config-model" {
		t.Errorf("runModel = %q, want config value", runModel)
	}
	if runMaxTokens != 2048 {
		t.Errorf("runMaxTokens = %d, want 2048", runMaxTokens)
	}
	if runTemperature != 0.7 {
		t.Errorf("runTemperature = %g, want 0.7", runTemperature)
	}
	if runWorker != "retrieval" {
		t.Errorf("runWorker = %q, want config value", runWorker)
	}
}

func TestApplyConfigDefaultsExplicitZero(t *testing.T) {
	cmd := runCmd
	cmd.ResetFlags()
	registerRunFlags(cmd)

	// An explicit zero on the command line must survive the config merge.
	if err := cmd.Flags().Set("temperature", "0"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("max-tokens", "0"); err != nil {
		t.Fatal(err)
	}

	applyConfigDefaults(cmd, testConfig())

	if runTemperature != 0 {
		t.Errorf("runTemperature = %g, want explicit 0 kept", runTemperature)
	}
	if runMaxTokens != 0 {
		t.Errorf("runMaxTokens = %d, want explicit 0 kept", runMaxTokens)
	}
	// Untouched flags still pick up config values.
	if runModel != "config-model" {
		t.Errorf("runModel = %q, want config value", runModel)
	}
}

func TestApplyConfigDefaultsExplicitWorker(t *testing.T) {
	cmd := runCmd
	cmd.ResetFlags()
	registerRunFlags(cmd)

	if err := cmd.Flags().Set("worker", "reasoning"); err != nil {
		t.Fatal(err)
	}

	applyConfigDefaults(cmd, testConfig())

	if runWorker != "reasoning" {
		t.Errorf("runWorker = %q, want the explicit flag value", runWorker)
	}
}
