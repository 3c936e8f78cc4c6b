package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromPath(t *testing.T) {
	path := writeConfig(t, `
anthropic:
  api_key: test-key
  use_bedrock: true
  aws_region: us-west-2
defaults:
  model: big-model
  max_tokens: 2048
  temperature: 0.3
  worker: retrieval
history:
  enabled: false
  path: /tmp/custom.db
`)

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.Anthropic.APIKey != "test-key" {
		t.Errorf("APIKey = %q", cfg.Anthropic.APIKey)
	}
	if !cfg.Anthropic.UseBedrock || cfg.Anthropic.AWSRegion != "us-west-2" {
		t.Errorf("bedrock settings = %+v", cfg.Anthropic)
	}
	if cfg.Defaults.Model != "big-model" {
		t.Errorf("Model = %q", cfg.Defaults.Model)
	}
	if cfg.Defaults.MaxTokens != 2048 {
		t.Errorf("MaxTokens = %d", cfg.Defaults.MaxTokens)
	}
	if cfg.Defaults.Temperature != 0.3 {
		t.Errorf("Temperature = %g", cfg.Defaults.Temperature)
	}
	if cfg.Defaults.Worker != "retrieval" {
		t.Errorf("Worker = %q", cfg.Defaults.Worker)
	}
	if cfg.History.Enabled || cfg.History.Path != "/tmp/custom.db" {
		t.Errorf("history = %+v", cfg.History)
	}
}

func TestLoadFromPathDefaults(t *testing.T) {
	path := writeConfig(t, "anthropic:\n  api_key: k\n")

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.Defaults.MaxTokens != 4096 {
		t.Errorf("MaxTokens default = %d, want 4096", cfg.Defaults.MaxTokens)
	}
	if cfg.Defaults.Worker != "auto" {
		t.Errorf("Worker default = %q, want auto", cfg.Defaults.Worker)
	}
	if !cfg.History.Enabled {
		t.Error("history should default to enabled")
	}
}

func TestLoadFromPathExpandsEnv(t *testing.T) {
	t.Setenv("LANGELOT_TEST_KEY", "expanded-key")
	path := writeConfig(t, "anthropic:\n  api_key: ${LANGELOT_TEST_KEY}\n")

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Anthropic.APIKey != "expanded-key" {
		t.Errorf("APIKey = %q, want env-expanded value", cfg.Anthropic.APIKey)
	}
}

func TestLoadFromPathMissingFile(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
