package worker

import (
	"context"
	"time"

	"github.com/Jolt-Capital/langelot/internal/llm"
	"github.com/Jolt-Capital/langelot/internal/protocol"
	"github.com/Jolt-Capital/langelot/pkg/models"
)

// ReasoningWorker executes an approach with a single plain generation call
// against a model tuned for low latency. No external side effects.
type ReasoningWorker struct {
	gen         llm.Generator
	model       string
	maxTokens   int64
	temperature float64
}

var _ Worker = (*ReasoningWorker)(nil)

// NewReasoningWorker creates a reasoning worker. An empty model selects the
// fast default.
func NewReasoningWorker(gen llm.Generator, model string, maxTokens int64, temperature float64) *ReasoningWorker {
	if model == "" {
		model = llm.FastModel
	}
	return &ReasoningWorker{gen: gen, model: model, maxTokens: maxTokens, temperature: temperature}
}

// Capability reports the worker's capability kind.
func (w *ReasoningWorker) Capability() models.Capability {
	return models.CapabilityReasoning
}

// Execute runs one approach and extracts the tagged result.
func (w *ReasoningWorker) Execute(ctx context.Context, req Request) (models.WorkerResult, error) {
	start := time.Now()

	resp, err := w.gen.Generate(ctx, llm.GenerateRequest{
		Prompt:      buildPrompt(req),
		Model:       w.model,
		MaxTokens:   w.maxTokens,
		Temperature: w.temperature,
	})
	if err != nil {
		return models.WorkerResult{}, wrapExecution(err, "reasoning approach %q", req.Approach)
	}

	return models.WorkerResult{
		Approach:   req.Approach,
		Result:     protocol.ExtractResult(resp.Text),
		Capability: models.CapabilityReasoning,
		Model:      w.model,
		Duration:   time.Since(start),
		Usage:      resp.Usage,
	}, nil
}
