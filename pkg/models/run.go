// Package models defines the shared domain types for langelot orchestration runs.
package models

import "time"

// Strategy is one named sub-plan for tackling the overall task. Strategies
// are produced once by the decomposition step and read-only afterward.
// Capability may be empty when the decomposition protocol did not emit
// per-approach hints; the router supplies one in that case.
type Strategy struct {
	Approach    string
	Description string
	Capability  Capability
}

// SourceCitation is one source backing a retrieval-augmented result.
type SourceCitation struct {
	Title   string
	URL     string
	Snippet string
}

// WorkerResult is the outcome of executing one strategy. One instance is
// produced per Strategy, in the same order as the strategies sequence, and
// never mutated after creation.
type WorkerResult struct {
	Approach      string
	Result        string
	Capability    Capability
	Citations     []SourceCitation
	DocumentsUsed []string
	Model         string
	Duration      time.Duration
	Usage         TokenUsage
}

// UploadedDocument records a local file uploaded to the generation service
// for document-grounded execution. It lives for the duration of the worker
// instance and is not persisted across runs.
type UploadedDocument struct {
	RemoteID    string
	LocalPath   string
	DisplayName string
}

// TokenUsage aggregates prompt and completion tokens across generation calls.
type TokenUsage struct {
	PromptTokens     int64
	CompletionTokens int64
}

// Total returns the combined token count.
func (u TokenUsage) Total() int64 {
	return u.PromptTokens + u.CompletionTokens
}

// Add accumulates another usage record.
func (u *TokenUsage) Add(other TokenUsage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
}

// OrchestrationResult is the terminal, immutable output of one run.
// Invariant: len(Results) == len(Strategies) and
// Results[i].Approach == Strategies[i].Approach for every index.
type OrchestrationResult struct {
	RunID      string
	Task       string
	Strategies []Strategy
	Results    []WorkerResult
	Synthesis  string
	StartedAt  time.Time
	FinishedAt time.Time
	Usage      TokenUsage
}
