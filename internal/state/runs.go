package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Jolt-Capital/langelot/pkg/models"
)

// RunSummary is one row of the run listing.
type RunSummary struct {
	ID         string
	Task       string
	Approaches int
	StartedAt  time.Time
	FinishedAt time.Time
}

// SaveRun records a completed orchestration run and its per-approach
// results in one transaction.
func (db *DB) SaveRun(result *models.OrchestrationResult) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin save run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, task, synthesis, started_at, finished_at, prompt_tokens, completion_tokens)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, result.RunID, result.Task, result.Synthesis,
		formatTime(result.StartedAt), formatTime(result.FinishedAt),
		result.Usage.PromptTokens, result.Usage.CompletionTokens)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, r := range result.Results {
		description := ""
		if i < len(result.Strategies) {
			description = result.Strategies[i].Description
		}

		citations, err := json.Marshal(r.Citations)
		if err != nil {
			return fmt.Errorf("marshal citations: %w", err)
		}
		documents, err := json.Marshal(r.DocumentsUsed)
		if err != nil {
			return fmt.Errorf("marshal documents: %w", err)
		}

		_, err = tx.Exec(`
			INSERT INTO run_results (run_id, idx, approach, description, capability, result, model, duration_ms, citations, documents)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, result.RunID, i, r.Approach, description, string(r.Capability), r.Result,
			r.Model, r.Duration.Milliseconds(), string(citations), string(documents))
		if err != nil {
			return fmt.Errorf("insert run result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]RunSummary, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := db.conn.Query(`
		SELECT r.id, r.task, r.started_at, r.finished_at,
		       (SELECT COUNT(*) FROM run_results rr WHERE rr.run_id = r.id)
		FROM runs r
		ORDER BY r.started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var s RunSummary
		var startedAt, finishedAt string
		if err := rows.Scan(&s.ID, &s.Task, &startedAt, &finishedAt, &s.Approaches); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.StartedAt, _ = parseTime(startedAt)
		s.FinishedAt, _ = parseTime(finishedAt)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// GetRun reconstructs a stored run by ID. Returns nil when not found.
func (db *DB) GetRun(id string) (*models.OrchestrationResult, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	row := db.conn.QueryRow(`
		SELECT id, task, synthesis, started_at, finished_at, prompt_tokens, completion_tokens
		FROM runs WHERE id = ?
	`, id)

	var result models.OrchestrationResult
	var startedAt, finishedAt string
	err := row.Scan(&result.RunID, &result.Task, &result.Synthesis,
		&startedAt, &finishedAt, &result.Usage.PromptTokens, &result.Usage.CompletionTokens)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	result.StartedAt, _ = parseTime(startedAt)
	result.FinishedAt, _ = parseTime(finishedAt)

	rows, err := db.conn.Query(`
		SELECT approach, description, capability, result, model, duration_ms, citations, documents
		FROM run_results WHERE run_id = ? ORDER BY idx
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get run results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r models.WorkerResult
		var description, capability, citations, documents string
		var durationMs int64
		if err := rows.Scan(&r.Approach, &description, &capability, &r.Result,
			&r.Model, &durationMs, &citations, &documents); err != nil {
			return nil, fmt.Errorf("scan run result: %w", err)
		}

		r.Capability = models.Capability(capability)
		r.Duration = time.Duration(durationMs) * time.Millisecond
		if err := json.Unmarshal([]byte(citations), &r.Citations); err != nil {
			return nil, fmt.Errorf("unmarshal citations: %w", err)
		}
		if err := json.Unmarshal([]byte(documents), &r.DocumentsUsed); err != nil {
			return nil, fmt.Errorf("unmarshal documents: %w", err)
		}

		result.Results = append(result.Results, r)
		result.Strategies = append(result.Strategies, models.Strategy{
			Approach:    r.Approach,
			Description: description,
			Capability:  r.Capability,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &result, nil
}
