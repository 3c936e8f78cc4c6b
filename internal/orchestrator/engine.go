// Package orchestrator implements the run pipeline: decompose a task into
// independent approaches, dispatch each to a capability-matched worker in
// parallel, and synthesize the results into one answer.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Jolt-Capital/langelot/internal/llm"
	"github.com/Jolt-Capital/langelot/internal/protocol"
	"github.com/Jolt-Capital/langelot/internal/router"
	"github.com/Jolt-Capital/langelot/internal/worker"
	"github.com/Jolt-Capital/langelot/pkg/models"
)

// ErrDecomposition means the decomposition step produced zero usable
// strategies. Fatal; no retry.
var ErrDecomposition = errors.New("decomposition produced no strategies")

// Options configures a single orchestration run.
type Options struct {
	// Model drives decomposition, synthesis, and the retrieval and
	// document workers. Empty selects the default model.
	Model string
	// FastModel drives the reasoning worker. Empty selects the fast
	// default.
	FastModel string
	// MaxTokens bounds each generation call's output.
	MaxTokens int64
	// Temperature applies to every generation call.
	Temperature float64
	// Context is merged verbatim into every prompt.
	Context map[string]any
	// WorkerOverride pins every strategy to one capability; empty or
	// auto lets hints and the heuristic decide.
	WorkerOverride router.Override
	// DocumentPaths are local files for document-grounded execution.
	DocumentPaths []string
}

// RunStore persists completed runs. The state package satisfies this.
type RunStore interface {
	SaveRun(result *models.OrchestrationResult) error
}

// Engine is the top-level pipeline. Engines are cheap; distinct runs share
// no state and may execute fully concurrently, each with its own worker
// pool inside the router.
type Engine struct {
	gen   llm.Generator
	log   *RunLog
	store RunStore
}

// Option configures an Engine.
type Option func(*Engine)

// WithRunLog sets the per-run log sink. The caller owns its lifecycle.
func WithRunLog(l *RunLog) Option {
	return func(e *Engine) { e.log = l }
}

// WithStore sets the run-history store. Persistence failures are logged,
// never fatal.
func WithStore(s RunStore) Option {
	return func(e *Engine) { e.store = s }
}

// New creates an Engine on the given generator.
func New(gen llm.Generator, opts ...Option) *Engine {
	e := &Engine{gen: gen, log: NopRunLog()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Orchestrate runs the full pipeline for one task: Decomposing,
// Dispatching, Synthesizing, Done. Any phase failure aborts the run; there
// is no partial or degraded result.
func (e *Engine) Orchestrate(ctx context.Context, task string, opts Options) (*models.OrchestrationResult, error) {
	if opts.Model == "" {
		opts.Model = llm.DefaultModel
	}
	if opts.FastModel == "" {
		opts.FastModel = llm.FastModel
	}

	rt := router.New(e.gen, router.Config{
		Override:      opts.WorkerOverride,
		DocumentPaths: opts.DocumentPaths,
		Model:         opts.Model,
		FastModel:     opts.FastModel,
		MaxTokens:     opts.MaxTokens,
		Temperature:   opts.Temperature,
	}, e.log)
	defer rt.Close()

	// Option validation happens before the first generation call.
	if err := rt.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.New().String()[:8]
	startedAt := time.Now()
	var usage models.TokenUsage
	e.log.Logf("run %s: orchestrating task %q", runID, task)

	// Decomposing.
	strategies, decomposeUsage, err := e.decompose(ctx, task, opts)
	if err != nil {
		return nil, err
	}
	usage.Add(decomposeUsage)
	e.log.Logf("run %s: %d strategies", runID, len(strategies))

	// Dispatching.
	assignments, err := rt.Route(ctx, task, strategies)
	if err != nil {
		return nil, err
	}
	results, err := e.dispatch(ctx, task, opts.Context, assignments)
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		usage.Add(r.Usage)
	}

	// Synthesizing.
	synthesis, synthUsage, err := e.synthesize(ctx, task, opts, results)
	if err != nil {
		return nil, err
	}
	usage.Add(synthUsage)

	result := &models.OrchestrationResult{
		RunID:      runID,
		Task:       task,
		Strategies: strategies,
		Results:    results,
		Synthesis:  synthesis,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Usage:      usage,
	}

	if e.store != nil {
		if err := e.store.SaveRun(result); err != nil {
			e.log.Logf("run %s: persisting run failed: %v", runID, err)
		}
	}

	e.log.Logf("run %s: done in %s", runID, result.FinishedAt.Sub(startedAt).Round(time.Millisecond))
	return result, nil
}

// decompose issues the decomposition call and parses the strategies.
func (e *Engine) decompose(ctx context.Context, task string, opts Options) ([]models.Strategy, models.TokenUsage, error) {
	resp, err := e.gen.Generate(ctx, llm.GenerateRequest{
		Prompt:      buildDecompositionPrompt(task, opts.Context),
		Model:       opts.Model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return nil, models.TokenUsage{}, fmt.Errorf("decomposition call: %w", errors.Join(ErrDecomposition, err))
	}

	strategies := protocol.ParseStrategies(resp.Text, e.log)
	if len(strategies) == 0 {
		return nil, resp.Usage, fmt.Errorf("no approach tags in decomposition output: %w", ErrDecomposition)
	}
	return strategies, resp.Usage, nil
}

// dispatch executes every assignment concurrently and joins on completion.
// Results land at the index of their strategy, preserving order end to end.
// All dispatched calls settle before the phase returns; the first failure
// fails the run.
func (e *Engine) dispatch(ctx context.Context, task string, runContext map[string]any, assignments []router.Assignment) ([]models.WorkerResult, error) {
	results := make([]models.WorkerResult, len(assignments))
	g, gctx := errgroup.WithContext(ctx)

	for i, a := range assignments {
		g.Go(func() error {
			e.log.Logf("dispatching approach %q to %s worker", a.Strategy.Approach, a.Capability)

			res, err := a.Worker.Execute(gctx, worker.Request{
				Task:        task,
				Approach:    a.Strategy.Approach,
				Description: a.Strategy.Description,
				Context:     runContext,
			})
			if err != nil {
				return err
			}

			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}
	return results, nil
}

// synthesize merges all worker results into the final answer. The raw
// response text is the synthesis; no tag parsing here.
func (e *Engine) synthesize(ctx context.Context, task string, opts Options, results []models.WorkerResult) (string, models.TokenUsage, error) {
	resp, err := e.gen.Generate(ctx, llm.GenerateRequest{
		Prompt:      buildSynthesisPrompt(task, results),
		Model:       opts.Model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return "", models.TokenUsage{}, fmt.Errorf("synthesis call: %w", err)
	}
	return resp.Text, resp.Usage, nil
}
