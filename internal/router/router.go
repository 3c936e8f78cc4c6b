// Package router decides which capability worker services each strategy,
// given the global override, per-strategy hints from decomposition, and the
// availability of prerequisite resources.
package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jolt-Capital/langelot/internal/llm"
	"github.com/Jolt-Capital/langelot/internal/worker"
	"github.com/Jolt-Capital/langelot/pkg/models"
)

// ErrConfiguration is an invalid option combination, surfaced before any
// generation call is made. No retry.
var ErrConfiguration = errors.New("invalid configuration")

// Override is the caller's global worker-type override.
type Override string

const (
	// OverrideAuto lets hints and the heuristic decide per strategy.
	OverrideAuto Override = "auto"
	// OverrideReasoning forces every strategy onto the reasoning worker.
	OverrideReasoning Override = "reasoning"
	// OverrideRetrieval forces every strategy onto the retrieval worker.
	OverrideRetrieval Override = "retrieval"
	// OverrideDocs forces every strategy onto the document worker.
	OverrideDocs Override = "docs"
)

// Valid returns true if the override is a known value.
func (o Override) Valid() bool {
	switch o {
	case OverrideAuto, OverrideReasoning, OverrideRetrieval, OverrideDocs:
		return true
	default:
		return false
	}
}

// capability returns the forced capability, or false for auto.
func (o Override) capability() (models.Capability, bool) {
	switch o {
	case OverrideReasoning:
		return models.CapabilityReasoning, true
	case OverrideRetrieval:
		return models.CapabilityRetrieval, true
	case OverrideDocs:
		return models.CapabilityDocs, true
	default:
		return "", false
	}
}

// Config carries the per-run settings the router needs to build workers.
type Config struct {
	Override      Override
	DocumentPaths []string
	Model         string
	FastModel     string
	MaxTokens     int64
	Temperature   float64
}

// Assignment pairs a strategy with the worker that will execute it and the
// capability it resolved to.
type Assignment struct {
	Strategy   models.Strategy
	Capability models.Capability
	Worker     worker.Worker
}

// Router resolves strategies to workers. Worker instances are created at
// most once per run and reused across all strategies routed to the same
// capability, which amortizes the document upload cost.
type Router struct {
	gen llm.Generator
	cfg Config
	log worker.Logger

	workers       map[models.Capability]worker.Worker
	docsInitErr   error
	docsAttempted bool
}

// New creates a Router for one orchestration run.
func New(gen llm.Generator, cfg Config, log worker.Logger) *Router {
	if cfg.Override == "" {
		cfg.Override = OverrideAuto
	}
	return &Router{
		gen:     gen,
		cfg:     cfg,
		log:     log,
		workers: make(map[models.Capability]worker.Worker),
	}
}

// Validate checks the option combination before any generation call. A
// document override with no documents configured fails the whole run.
func (r *Router) Validate() error {
	if !r.cfg.Override.Valid() {
		return fmt.Errorf("unknown worker override %q: %w", r.cfg.Override, ErrConfiguration)
	}
	if r.cfg.Override == OverrideDocs && len(r.cfg.DocumentPaths) == 0 {
		return fmt.Errorf("document worker override requires document paths: %w", ErrConfiguration)
	}
	return nil
}

// Route resolves every strategy to a worker assignment, in order.
func (r *Router) Route(ctx context.Context, task string, strategies []models.Strategy) ([]Assignment, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	assignments := make([]Assignment, 0, len(strategies))
	for _, s := range strategies {
		capability, err := r.resolve(ctx, task, s)
		if err != nil {
			return nil, err
		}

		w, err := r.workerFor(ctx, capability)
		if err != nil {
			return nil, err
		}

		assignments = append(assignments, Assignment{
			Strategy:   s,
			Capability: capability,
			Worker:     w,
		})
	}
	return assignments, nil
}

// resolve applies the decision policy for one strategy: global override,
// then the decomposition hint with a document downgrade, then the keyword
// heuristic for hint-less legacy decompositions.
func (r *Router) resolve(ctx context.Context, task string, s models.Strategy) (models.Capability, error) {
	if forced, ok := r.cfg.Override.capability(); ok {
		return forced, nil
	}

	if s.Capability != "" {
		if s.Capability == models.CapabilityDocs && !r.documentsUsable(ctx) {
			logf(r.log, "approach %q wants document analysis but no usable documents, downgrading to reasoning", s.Approach)
			return models.CapabilityReasoning, nil
		}
		return s.Capability, nil
	}

	return r.classify(ctx, task), nil
}

// classify is the heuristic for decompositions that emit no capability
// hints, in priority order.
func (r *Router) classify(ctx context.Context, task string) models.Capability {
	if len(r.cfg.DocumentPaths) > 0 && r.documentsUsable(ctx) {
		return models.CapabilityDocs
	}

	if kw, ok := matchesAny(task, recencyKeywords); ok {
		logf(r.log, "task matched recency keyword %q, selecting retrieval", kw)
		return models.CapabilityRetrieval
	}

	if _, complex := matchesAny(task, complexityKeywords); !complex && len(task) < shortTaskLimit {
		return models.CapabilityReasoning
	}

	return models.CapabilityRetrieval
}

// documentsUsable reports whether document-grounded execution is possible:
// paths are configured and the document worker initialized successfully.
// Initialization is attempted once and its outcome cached for the run.
func (r *Router) documentsUsable(ctx context.Context) bool {
	if len(r.cfg.DocumentPaths) == 0 {
		return false
	}
	if _, err := r.docsWorker(ctx); err != nil {
		return false
	}
	return true
}

// workerFor returns the cached worker for a capability, creating it on
// first use. The capability union is closed; the switch is exhaustive.
func (r *Router) workerFor(ctx context.Context, c models.Capability) (worker.Worker, error) {
	if w, ok := r.workers[c]; ok {
		return w, nil
	}

	switch c {
	case models.CapabilityReasoning:
		w := worker.NewReasoningWorker(r.gen, r.cfg.FastModel, r.cfg.MaxTokens, r.cfg.Temperature)
		r.workers[c] = w
		return w, nil
	case models.CapabilityRetrieval:
		w := worker.NewRetrievalWorker(r.gen, r.cfg.Model, r.cfg.MaxTokens, r.cfg.Temperature, r.log)
		r.workers[c] = w
		return w, nil
	case models.CapabilityDocs:
		return r.docsWorker(ctx)
	default:
		return nil, fmt.Errorf("unknown capability %q: %w", c, ErrConfiguration)
	}
}

// docsWorker creates and initializes the document worker once, caching
// either the instance or the initialization failure.
func (r *Router) docsWorker(ctx context.Context) (worker.Worker, error) {
	if w, ok := r.workers[models.CapabilityDocs]; ok {
		return w, nil
	}
	if r.docsAttempted {
		return nil, r.docsInitErr
	}
	r.docsAttempted = true

	w := worker.NewDocumentWorker(r.gen, r.cfg.DocumentPaths, r.cfg.Model, r.cfg.MaxTokens, r.log)
	if err := w.Init(ctx); err != nil {
		r.docsInitErr = err
		logf(r.log, "document worker initialization failed: %v", err)
		return nil, err
	}

	r.workers[models.CapabilityDocs] = w
	return w, nil
}

// Close releases per-run worker resources.
func (r *Router) Close() {
	if w, ok := r.workers[models.CapabilityDocs]; ok {
		if dw, ok := w.(*worker.DocumentWorker); ok {
			dw.Close()
		}
	}
}

func logf(l worker.Logger, format string, args ...any) {
	if l != nil {
		l.Logf(format, args...)
	}
}
