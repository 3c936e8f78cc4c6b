package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/config"
)

// Default model names. Workers that want low latency use FastModel.
var (
	DefaultModel = string(anthropic.ModelClaudeSonnet4_20250514)
	FastModel    = string(anthropic.ModelClaude3_5Haiku20241022)
)

// Client implements Generator on the Anthropic API with token tracking.
type Client struct {
	inner   anthropic.Client
	tracker *TokenTracker
	bedrock bool
}

// Compile-time interface check.
var _ Generator = (*Client)(nil)

// ClientConfig contains configuration for creating a new Client.
type ClientConfig struct {
	// APIKey is the Anthropic API key. If empty, uses ANTHROPIC_API_KEY env var.
	APIKey string
	// UseAWSBedrock indicates whether to use AWS Bedrock instead of direct API.
	UseAWSBedrock bool
	// AWSRegion is the AWS region for Bedrock (e.g., "us-west-2").
	AWSRegion string
	// AWSProfile is the optional AWS profile name to use.
	AWSProfile string
}

// NewClient creates a new Anthropic-backed Generator.
func NewClient(cfg ClientConfig) (*Client, error) {
	var opts []option.RequestOption

	if cfg.UseAWSBedrock {
		ctx := context.Background()

		var loadOpts []func(*config.LoadOptions) error
		if cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, config.WithRegion(cfg.AWSRegion))
		}
		if cfg.AWSProfile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.AWSProfile))
		}

		opts = append(opts, bedrock.WithLoadDefaultConfig(ctx, loadOpts...))
	} else {
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	return &Client{
		inner:   anthropic.NewClient(opts...),
		tracker: NewTokenTracker(),
		bedrock: cfg.UseAWSBedrock,
	}, nil
}

// resolveModel maps a model name to the Bedrock inference profile format
// when this client talks to Bedrock. Bedrock uses cross-region inference
// profiles: us.anthropic.{model}-v1:0.
func (c *Client) resolveModel(model string) anthropic.Model {
	if model == "" {
		model = DefaultModel
	}
	if !c.bedrock || strings.HasPrefix(model, "us.anthropic") {
		return anthropic.Model(model)
	}

	bedrockModels := map[string]string{
		string(anthropic.ModelClaudeSonnet4_20250514):   "us.anthropic.claude-sonnet-4-20250514-v1:0",
		string(anthropic.ModelClaudeSonnet4_5_20250929): "us.anthropic.claude-sonnet-4-5-20250929-v1:0",
		string(anthropic.ModelClaudeHaiku4_5_20251001):  "us.anthropic.claude-haiku-4-5-20251001-v1:0",
		string(anthropic.ModelClaudeOpus4_1_20250805):   "us.anthropic.claude-opus-4-1-20250805-v1:0",
		string(anthropic.ModelClaude3_7Sonnet20250219):  "us.anthropic.claude-3-7-sonnet-20250219-v1:0",
		string(anthropic.ModelClaude3_5Haiku20241022):   "us.anthropic.claude-3-5-haiku-20241022-v1:0",
	}
	if translated, ok := bedrockModels[model]; ok {
		return anthropic.Model(translated)
	}
	return anthropic.Model(model)
}

// Tracker returns the token tracker for this client.
func (c *Client) Tracker() *TokenTracker {
	return c.tracker
}

// TokenTracker tracks token usage across API calls.
type TokenTracker struct {
	mu        sync.Mutex
	inputTok  int64
	outputTok int64
	calls     int
}

// NewTokenTracker creates a new token tracker.
func NewTokenTracker() *TokenTracker {
	return &TokenTracker{}
}

// Add records token usage from an API call.
func (t *TokenTracker) Add(input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inputTok += input
	t.outputTok += output
	t.calls++
}

// Total returns the total input and output tokens tracked.
func (t *TokenTracker) Total() (input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inputTok, t.outputTok
}

// Calls returns the number of API calls made.
func (t *TokenTracker) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}
