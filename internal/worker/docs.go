package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Jolt-Capital/langelot/internal/llm"
	"github.com/Jolt-Capital/langelot/internal/protocol"
	"github.com/Jolt-Capital/langelot/pkg/models"
)

// acceptedExtensions are the document types the upload phase admits.
var acceptedExtensions = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".md":   true,
	".doc":  true,
	".docx": true,
}

// DocumentWorker executes approaches grounded in uploaded documents. It has
// a two-phase lifecycle: Init uploads the configured files once, Execute
// issues generation calls referencing every successful upload. Close simply
// discards the in-memory upload records; the service expires remote files
// on its own.
type DocumentWorker struct {
	gen       llm.Generator
	paths     []string
	model     string
	maxTokens int64
	log       Logger

	uploads     []models.UploadedDocument
	initialized bool
}

var _ Worker = (*DocumentWorker)(nil)

// NewDocumentWorker creates a document worker over the given local paths.
// The set must be non-empty; Init enforces that.
func NewDocumentWorker(gen llm.Generator, paths []string, model string, maxTokens int64, log Logger) *DocumentWorker {
	if model == "" {
		model = llm.DefaultModel
	}
	return &DocumentWorker{gen: gen, paths: paths, model: model, maxTokens: maxTokens, log: log}
}

// Capability reports the worker's capability kind.
func (w *DocumentWorker) Capability() models.Capability {
	return models.CapabilityDocs
}

// Init validates and uploads the configured documents. A single file's
// failure is logged and skipped; Init fails only when zero files succeed.
// It must run once before any Execute call.
func (w *DocumentWorker) Init(ctx context.Context) error {
	if w.initialized {
		return nil
	}

	if len(w.paths) == 0 {
		return fmt.Errorf("no document paths configured: %w", ErrInitialization)
	}

	var lastErr error
	for _, path := range w.paths {
		if err := validateDocumentPath(path); err != nil {
			logf(w.log, "skipping document %s: %v", path, err)
			lastErr = err
			continue
		}

		upload, err := w.gen.UploadDocument(ctx, path)
		if err != nil {
			logf(w.log, "upload failed for %s, skipping: %v", path, err)
			lastErr = err
			continue
		}

		w.uploads = append(w.uploads, models.UploadedDocument{
			RemoteID:    upload.RemoteID,
			LocalPath:   path,
			DisplayName: upload.DisplayName,
		})
	}

	if len(w.uploads) == 0 {
		return fmt.Errorf("no documents uploaded: %w", errors.Join(ErrInitialization, lastErr))
	}

	w.initialized = true
	return nil
}

// Documents returns the display names of the successfully uploaded files.
func (w *DocumentWorker) Documents() []string {
	names := make([]string, 0, len(w.uploads))
	for _, u := range w.uploads {
		names = append(names, u.DisplayName)
	}
	return names
}

// Execute runs one approach against all uploaded documents.
func (w *DocumentWorker) Execute(ctx context.Context, req Request) (models.WorkerResult, error) {
	if !w.initialized {
		return models.WorkerResult{}, fmt.Errorf("document worker: %w", ErrNotInitialized)
	}

	start := time.Now()
	remoteIDs := make([]string, 0, len(w.uploads))
	for _, u := range w.uploads {
		remoteIDs = append(remoteIDs, u.RemoteID)
	}

	prompt := buildPrompt(req) + documentInstruction
	resp, err := w.gen.GenerateWithDocuments(ctx, prompt, remoteIDs, w.model)
	if err != nil {
		return models.WorkerResult{}, wrapExecution(err, "document approach %q", req.Approach)
	}

	return models.WorkerResult{
		Approach:      req.Approach,
		Result:        protocol.ExtractResult(resp.Text),
		Capability:    models.CapabilityDocs,
		DocumentsUsed: w.Documents(),
		Model:         w.model,
		Duration:      time.Since(start),
		Usage:         resp.Usage,
	}, nil
}

// Close discards the in-memory upload records. No remote deletion is
// issued; the service expires uploads independently.
func (w *DocumentWorker) Close() {
	w.uploads = nil
	w.initialized = false
}

// validateDocumentPath checks that the file exists and carries an accepted
// extension.
func validateDocumentPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if ext := strings.ToLower(filepath.Ext(path)); !acceptedExtensions[ext] {
		return fmt.Errorf("unsupported document type %q", ext)
	}
	return nil
}
