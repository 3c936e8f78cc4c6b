// Package worker implements the three capability workers that execute
// decomposed approaches: pure reasoning, retrieval-augmented generation,
// and document-grounded analysis.
package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jolt-Capital/langelot/pkg/models"
)

// Worker failure classes.
var (
	// ErrWorkerExecution is fatal to the run: the underlying generation
	// call failed after any internal fallback also failed.
	ErrWorkerExecution = errors.New("worker execution failed")
	// ErrInitialization means zero documents could be uploaded during
	// document worker initialization.
	ErrInitialization = errors.New("worker initialization failed")
	// ErrNotInitialized means Execute was called on a document worker
	// before any document uploaded successfully.
	ErrNotInitialized = errors.New("worker not initialized")
)

// Request is the unit of work handed to a worker: one approach of a larger
// task, plus the caller-supplied context merged into every prompt.
type Request struct {
	Task        string
	Approach    string
	Description string
	Context     map[string]any
}

// Worker turns a Request into a WorkerResult. Implementations own their
// configuration and share no mutable state, so distinct workers may execute
// concurrently.
type Worker interface {
	Capability() models.Capability
	Execute(ctx context.Context, req Request) (models.WorkerResult, error)
}

// Logger receives worker warnings. A nil Logger silences them.
type Logger interface {
	Logf(format string, args ...any)
}

func logf(l Logger, format string, args ...any) {
	if l != nil {
		l.Logf(format, args...)
	}
}

// wrapExecution classifies err as a worker execution failure while keeping
// the original chain inspectable.
func wrapExecution(err error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), errors.Join(ErrWorkerExecution, err))
}
