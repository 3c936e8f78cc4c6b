package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Jolt-Capital/langelot/internal/llm"
	"github.com/Jolt-Capital/langelot/internal/router"
	"github.com/Jolt-Capital/langelot/pkg/models"
)

// scriptedGenerator answers decomposition, worker, and synthesis prompts by
// inspecting the prompt text. Safe for concurrent worker calls.
type scriptedGenerator struct {
	mu            sync.Mutex
	decomposition string
	calls         int
	workerCalls   []string
	failGenerate  bool
}

func (g *scriptedGenerator) Generate(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++

	if g.failGenerate {
		return llm.GenerateResponse{}, errors.New("service down")
	}

	usage := models.TokenUsage{PromptTokens: 10, CompletionTokens: 5}
	switch {
	case strings.Contains(req.Prompt, "Break the following task"):
		return llm.GenerateResponse{Text: g.decomposition, Usage: usage}, nil
	case strings.Contains(req.Prompt, "Synthesize them into one coherent answer"):
		return llm.GenerateResponse{Text: "the synthesized answer", Usage: usage}, nil
	default:
		// Worker execution prompt: echo the approach name back.
		approach := "unknown"
		for _, line := range strings.Split(req.Prompt, "\n") {
			if after, ok := strings.CutPrefix(line, "Your approach: "); ok {
				approach = after
				break
			}
		}
		g.workerCalls = append(g.workerCalls, approach)
		return llm.GenerateResponse{Text: "<result>result for " + approach + "</result>", Usage: usage}, nil
	}
}

func (g *scriptedGenerator) GenerateWithRetrieval(ctx context.Context, prompt, model string) (llm.RetrievalResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return llm.RetrievalResponse{
		Text:      "<result>retrieved answer</result>",
		Citations: []models.SourceCitation{{Title: "Source", URL: "https://example.com"}},
		Usage:     models.TokenUsage{PromptTokens: 10, CompletionTokens: 5},
	}, nil
}

func (g *scriptedGenerator) UploadDocument(ctx context.Context, localPath string) (llm.Upload, error) {
	return llm.Upload{RemoteID: "file-1", DisplayName: localPath}, nil
}

func (g *scriptedGenerator) GenerateWithDocuments(ctx context.Context, prompt string, remoteIDs []string, model string) (llm.GenerateResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return llm.GenerateResponse{
		Text:  "<result>grounded answer</result>",
		Usage: models.TokenUsage{PromptTokens: 10, CompletionTokens: 5},
	}, nil
}

// memoryStore records saved runs.
type memoryStore struct {
	saved []*models.OrchestrationResult
}

func (s *memoryStore) SaveRun(result *models.OrchestrationResult) error {
	s.saved = append(s.saved, result)
	return nil
}

const twoApproachDecomposition = `<approach>Theoretical framing</approach>
<description>Work from first principles.</description>
<agent>reasoning</agent>
<approach>Field survey</approach>
<description>Collect current practice.</description>
<agent>retrieval</agent>`

func TestOrchestrate(t *testing.T) {
	gen := &scriptedGenerator{decomposition: twoApproachDecomposition}
	store := &memoryStore{}
	engine := New(gen, WithStore(store))

	result, err := engine.Orchestrate(context.Background(), "Study the topic", Options{})
	if err != nil {
		t.Fatalf("Orchestrate: %v", err)
	}

	if result.RunID == "" {
		t.Error("empty RunID")
	}
	if result.Task != "Study the topic" {
		t.Errorf("Task = %q", result.Task)
	}
	if len(result.Strategies) != 2 {
		t.Fatalf("got %d strategies, want 2", len(result.Strategies))
	}
	if len(result.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(result.Results))
	}

	// Results hold strategy order regardless of completion order.
	if result.Results[0].Approach != "Theoretical framing" {
		t.Errorf("result 0 approach = %q", result.Results[0].Approach)
	}
	if result.Results[1].Approach != "Field survey" {
		t.Errorf("result 1 approach = %q", result.Results[1].Approach)
	}
	if result.Results[0].Capability != models.CapabilityReasoning {
		t.Errorf("result 0 capability = %q", result.Results[0].Capability)
	}
	if result.Results[1].Capability != models.CapabilityRetrieval {
		t.Errorf("result 1 capability = %q", result.Results[1].Capability)
	}
	if len(result.Results[1].Citations) != 1 {
		t.Errorf("retrieval result citations = %v", result.Results[1].Citations)
	}

	if result.Synthesis != "the synthesized answer" {
		t.Errorf("Synthesis = %q", result.Synthesis)
	}
	if result.FinishedAt.Before(result.StartedAt) {
		t.Error("FinishedAt precedes StartedAt")
	}
	// Every generation call reports 10 prompt and 5 completion tokens:
	// decomposition, two worker executions, and synthesis.
	want := models.TokenUsage{PromptTokens: 40, CompletionTokens: 20}
	if result.Usage != want {
		t.Errorf("Usage = %+v, want %+v", result.Usage, want)
	}
	if result.Results[0].Usage.Total() == 0 || result.Results[1].Usage.Total() == 0 {
		t.Error("per-worker usage not recorded")
	}

	if len(store.saved) != 1 || store.saved[0].RunID != result.RunID {
		t.Errorf("store.saved = %v", store.saved)
	}
}

func TestOrchestrateDecompositionFailure(t *testing.T) {
	gen := &scriptedGenerator{failGenerate: true}
	engine := New(gen)

	_, err := engine.Orchestrate(context.Background(), "task", Options{})
	if !errors.Is(err, ErrDecomposition) {
		t.Errorf("error = %v, want ErrDecomposition", err)
	}
}

func TestOrchestrateNoStrategies(t *testing.T) {
	gen := &scriptedGenerator{decomposition: "I cannot split this task."}
	engine := New(gen)

	_, err := engine.Orchestrate(context.Background(), "task", Options{})
	if !errors.Is(err, ErrDecomposition) {
		t.Errorf("error = %v, want ErrDecomposition", err)
	}
}

func TestOrchestrateConfigErrorBeforeGeneration(t *testing.T) {
	gen := &scriptedGenerator{decomposition: twoApproachDecomposition}
	engine := New(gen)

	_, err := engine.Orchestrate(context.Background(), "task", Options{
		WorkerOverride: router.OverrideDocs,
	})
	if !errors.Is(err, router.ErrConfiguration) {
		t.Fatalf("error = %v, want ErrConfiguration", err)
	}
	if gen.calls != 0 {
		t.Errorf("generation called %d times before config validation, want 0", gen.calls)
	}
}

func TestOrchestrateOverride(t *testing.T) {
	gen := &scriptedGenerator{decomposition: twoApproachDecomposition}
	engine := New(gen)

	result, err := engine.Orchestrate(context.Background(), "task", Options{
		WorkerOverride: router.OverrideReasoning,
	})
	if err != nil {
		t.Fatalf("Orchestrate: %v", err)
	}

	// The second approach hints retrieval but the override pins reasoning.
	for i, r := range result.Results {
		if r.Capability != models.CapabilityReasoning {
			t.Errorf("result %d capability = %q, want reasoning", i, r.Capability)
		}
	}
}

func TestOrchestrateHintlessRetrievalRouting(t *testing.T) {
	// Legacy decomposition without agent tags: the recency keyword in the
	// task routes both approaches to retrieval.
	gen := &scriptedGenerator{decomposition: `<approach>Chemistry survey</approach>
<description>Review cathode developments.</description>
<approach>Manufacturing survey</approach>
<description>Review production changes.</description>`}
	engine := New(gen)

	result, err := engine.Orchestrate(context.Background(), "Summarize recent advances in battery chemistry", Options{})
	if err != nil {
		t.Fatalf("Orchestrate: %v", err)
	}

	if len(result.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(result.Results))
	}
	for i, r := range result.Results {
		if r.Capability != models.CapabilityRetrieval {
			t.Errorf("result %d capability = %q, want retrieval", i, r.Capability)
		}
	}
	if result.Synthesis == "" {
		t.Error("empty synthesis")
	}
}

func TestOrchestrateDocsHintDowngradeCompletes(t *testing.T) {
	// A docs hint with no documents configured downgrades that approach to
	// reasoning and the run still completes.
	gen := &scriptedGenerator{decomposition: `<approach>Document review</approach>
<description>Read the provided files.</description>
<agent>docs</agent>`}
	engine := New(gen)

	result, err := engine.Orchestrate(context.Background(), "task", Options{})
	if err != nil {
		t.Fatalf("Orchestrate: %v", err)
	}
	if result.Results[0].Capability != models.CapabilityReasoning {
		t.Errorf("capability = %q, want reasoning downgrade", result.Results[0].Capability)
	}
}

func TestBuildSynthesisPrompt(t *testing.T) {
	results := []models.WorkerResult{
		{Approach: "First", Result: "alpha"},
		{Approach: "Second", Result: "beta"},
	}
	prompt := buildSynthesisPrompt("the task", results)

	if !strings.Contains(prompt, "the task") {
		t.Error("prompt missing task")
	}
	first := strings.Index(prompt, "Approach 1: First")
	second := strings.Index(prompt, "Approach 2: Second")
	if first == -1 || second == -1 || second < first {
		t.Errorf("approaches missing or out of order:\n%s", prompt)
	}
	if !strings.Contains(prompt, "alpha") || !strings.Contains(prompt, "beta") {
		t.Error("prompt missing results")
	}
}
