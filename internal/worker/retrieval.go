package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Jolt-Capital/langelot/internal/llm"
	"github.com/Jolt-Capital/langelot/internal/protocol"
	"github.com/Jolt-Capital/langelot/pkg/models"
)

// retrievalDisclaimer is appended to fallback answers so the reader can see
// the result did not come from live sources.
const retrievalDisclaimer = "Note: live retrieval was unavailable for this approach; the answer above is based on background knowledge only."

// RetrievalWorker executes an approach with one retrieval-augmented
// generation call. When that call specifically fails, it degrades to a
// single plain call with a visible disclaimer; the degraded path failing
// too surfaces as a worker execution error.
type RetrievalWorker struct {
	gen         llm.Generator
	model       string
	maxTokens   int64
	temperature float64
	log         Logger
}

var _ Worker = (*RetrievalWorker)(nil)

// NewRetrievalWorker creates a retrieval worker.
func NewRetrievalWorker(gen llm.Generator, model string, maxTokens int64, temperature float64, log Logger) *RetrievalWorker {
	if model == "" {
		model = llm.DefaultModel
	}
	return &RetrievalWorker{gen: gen, model: model, maxTokens: maxTokens, temperature: temperature, log: log}
}

// Capability reports the worker's capability kind.
func (w *RetrievalWorker) Capability() models.Capability {
	return models.CapabilityRetrieval
}

// Execute runs one approach against live sources.
func (w *RetrievalWorker) Execute(ctx context.Context, req Request) (models.WorkerResult, error) {
	start := time.Now()
	prompt := buildPrompt(req) + retrievalInstruction

	resp, err := w.gen.GenerateWithRetrieval(ctx, prompt, w.model)
	if err != nil {
		logf(w.log, "retrieval call failed for approach %q, falling back to plain generation: %v", req.Approach, err)
		return w.executeFallback(ctx, req, start)
	}

	return models.WorkerResult{
		Approach:   req.Approach,
		Result:     formatWithCitations(protocol.ExtractResult(resp.Text), resp.Citations),
		Capability: models.CapabilityRetrieval,
		Citations:  resp.Citations,
		Model:      w.model,
		Duration:   time.Since(start),
		Usage:      resp.Usage,
	}, nil
}

// executeFallback is the degraded path: one plain generation call with the
// disclaimer appended and no citations.
func (w *RetrievalWorker) executeFallback(ctx context.Context, req Request, start time.Time) (models.WorkerResult, error) {
	resp, err := w.gen.Generate(ctx, llm.GenerateRequest{
		Prompt:      buildPrompt(req),
		Model:       w.model,
		MaxTokens:   w.maxTokens,
		Temperature: w.temperature,
	})
	if err != nil {
		return models.WorkerResult{}, wrapExecution(err, "retrieval fallback for approach %q", req.Approach)
	}

	result := protocol.ExtractResult(resp.Text) + "\n\n" + retrievalDisclaimer
	return models.WorkerResult{
		Approach:   req.Approach,
		Result:     result,
		Capability: models.CapabilityRetrieval,
		Model:      w.model,
		Duration:   time.Since(start),
		Usage:      resp.Usage,
	}, nil
}

// formatWithCitations appends an enumerated source list to the result body.
func formatWithCitations(body string, citations []models.SourceCitation) string {
	if len(citations) == 0 {
		return body
	}

	var sb strings.Builder
	sb.WriteString(body)
	sb.WriteString("\n\nSources:\n")
	for i, c := range citations {
		title := c.Title
		if title == "" {
			title = c.URL
		}
		fmt.Fprintf(&sb, "%d. %s (%s)\n", i+1, title, c.URL)
	}
	return strings.TrimRight(sb.String(), "\n")
}
