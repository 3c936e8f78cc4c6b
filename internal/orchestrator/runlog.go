package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// RunLog is the per-run log sink handed to the engine, router and workers
// at construction. The caller owns its lifecycle: create one per run,
// close or discard it after Orchestrate returns. A RunLog without a file
// is a no-op, as is a nil RunLog.
type RunLog struct {
	mu   sync.Mutex
	file *os.File
}

// NewRunLog creates a log writing to the specified path, creating parent
// directories as needed. An empty path returns a no-op log.
func NewRunLog(path string) (*RunLog, error) {
	if path == "" {
		return &RunLog{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	log := &RunLog{file: f}
	log.Logf("=== run log started at %s ===", time.Now().Format(time.RFC3339))
	return log, nil
}

// NopRunLog returns a no-op log for testing or when logging is disabled.
func NopRunLog() *RunLog {
	return &RunLog{}
}

// Logf writes a timestamped message. Safe on a nil or no-op log.
func (l *RunLog) Logf(format string, args ...any) {
	if l == nil || l.file == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.file, "[%s] %s\n", time.Now().Format("15:04:05.000"), fmt.Sprintf(format, args...))
}

// Close closes the log file. Safe on a nil or no-op log.
func (l *RunLog) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
