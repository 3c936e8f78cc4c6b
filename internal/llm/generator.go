// Package llm provides the text-generation collaborator for langelot.
// It wraps the Anthropic API behind four opaque operations: plain
// generation, retrieval-augmented generation, document upload, and
// document-grounded generation. No retry or protocol logic lives here.
package llm

import (
	"context"
	"errors"

	"github.com/Jolt-Capital/langelot/pkg/models"
)

// Collaborator failure classes. Callers wrap these into the run-level error
// taxonomy at the point they are caught.
var (
	// ErrGeneration is a failed plain or document-grounded generation call.
	ErrGeneration = errors.New("generation failed")
	// ErrRetrieval is a failed retrieval-augmented generation call.
	ErrRetrieval = errors.New("retrieval-augmented generation failed")
	// ErrUpload is a failed document upload.
	ErrUpload = errors.New("document upload failed")
)

// GenerateRequest configures a single plain generation call.
type GenerateRequest struct {
	Prompt      string
	Model       string
	MaxTokens   int64
	Temperature float64
}

// GenerateResponse carries generated text and the usage of the call.
type GenerateResponse struct {
	Text  string
	Usage models.TokenUsage
}

// RetrievalResponse carries generated text plus the sources the model
// consulted during live retrieval.
type RetrievalResponse struct {
	Text      string
	Citations []models.SourceCitation
	Usage     models.TokenUsage
}

// Upload describes a document accepted by the service's storage.
type Upload struct {
	RemoteID    string
	ByteSize    int64
	DisplayName string
}

// Generator is the capability surface workers and the engine consume. It is
// stateless and reentrant: one Generator may be called concurrently from
// multiple workers.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	GenerateWithRetrieval(ctx context.Context, prompt, model string) (RetrievalResponse, error)
	UploadDocument(ctx context.Context, localPath string) (Upload, error)
	GenerateWithDocuments(ctx context.Context, prompt string, remoteIDs []string, model string) (GenerateResponse, error)
}
