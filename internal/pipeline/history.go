// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrRunNotFound is returned when a run ID has no history entry.
var ErrRunNotFound = errors.New("run not found")

// History persists run records to SQLite in the XDG state directory.
//
// The database uses WAL mode so a `pipeline history` invocation can read
// while a run is writing.
type History struct {
	db *sql.DB
}

// RunSummary is one row of `pipeline history`.
type RunSummary struct {
	RunID       string
	Pipeline    string
	Status      Status
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	StepCount   int
}

// StepRecord is a persisted step outcome.
type StepRecord struct {
	Position   int
	StepID     string
	Action     string
	Status     Status
	StatusCode int
	Error      string
	Duration   time.Duration
}

// OpenHistory opens (creating if needed) the history database at path.
func OpenHistory(path string) (*History, error) {
	if path == "" {
		return nil, fmt.Errorf("history database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	connStr := path + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_foreign_keys=ON"
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to history database: %w", err)
	}

	h := &History{db: db}
	if err := h.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating history database: %w", err)
	}

	return h, nil
}

func (h *History) migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			pipeline TEXT NOT NULL,
			status TEXT NOT NULL,
			started_at TEXT NOT NULL,
			completed_at TEXT,
			duration_ms INTEGER
		)`,

		`CREATE TABLE IF NOT EXISTS steps (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			step_id TEXT NOT NULL,
			action TEXT NOT NULL,
			status TEXT NOT NULL,
			status_code INTEGER,
			error TEXT,
			duration_ms INTEGER,
			PRIMARY KEY (run_id, position)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_runs_started_at
			ON runs(started_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_steps_run
			ON steps(run_id)`,
	}

	for _, migration := range migrations {
		if _, err := h.db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// RecordStart inserts the run in the running state.
func (h *History) RecordStart(ctx context.Context, run *RunResult) error {
	query := `INSERT INTO runs (id, pipeline, status, started_at)
	          VALUES (?, ?, ?, ?)`

	_, err := h.db.ExecContext(ctx, query,
		run.RunID,
		run.Pipeline,
		string(StatusRunning),
		run.StartedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording run start: %w", err)
	}
	return nil
}

// RecordStep inserts one completed step of a run.
func (h *History) RecordStep(ctx context.Context, runID string, position int, step StepResult) error {
	query := `INSERT INTO steps (run_id, position, step_id, action, status, status_code, error, duration_ms)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := h.db.ExecContext(ctx, query,
		runID,
		position,
		step.StepID,
		step.Action,
		string(step.Status),
		step.StatusCode,
		step.Error,
		step.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("recording step: %w", err)
	}
	return nil
}

// RecordFinish stamps the run's terminal status.
func (h *History) RecordFinish(ctx context.Context, run *RunResult) error {
	query := `UPDATE runs SET status = ?, completed_at = ?, duration_ms = ?
	          WHERE id = ?`

	_, err := h.db.ExecContext(ctx, query,
		string(run.Status),
		run.CompletedAt.UTC().Format(time.RFC3339),
		run.Duration.Milliseconds(),
		run.RunID,
	)
	if err != nil {
		return fmt.Errorf("recording run finish: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (h *History) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT r.id, r.pipeline, r.status, r.started_at, r.completed_at, r.duration_ms,
	          (SELECT COUNT(*) FROM steps s WHERE s.run_id = r.id)
	          FROM runs r ORDER BY r.started_at DESC LIMIT ?`

	rows, err := h.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		summary, err := scanRunSummary(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, summary)
	}
	return runs, rows.Err()
}

// GetRun returns one run with its steps, or ErrRunNotFound. A unique ID
// prefix resolves too, so the short IDs shown in list output work here.
func (h *History) GetRun(ctx context.Context, runID string) (*RunSummary, []StepRecord, error) {
	summary, err := h.findRun(ctx, runID)
	if err != nil {
		return nil, nil, err
	}
	runID = summary.RunID

	stepQuery := `SELECT position, step_id, action, status, status_code, error, duration_ms
	              FROM steps WHERE run_id = ? ORDER BY position`

	rows, err := h.db.QueryContext(ctx, stepQuery, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing steps: %w", err)
	}
	defer rows.Close()

	var steps []StepRecord
	for rows.Next() {
		var record StepRecord
		var status string
		var durationMS int64
		if err := rows.Scan(&record.Position, &record.StepID, &record.Action, &status, &record.StatusCode, &record.Error, &durationMS); err != nil {
			return nil, nil, fmt.Errorf("scanning step: %w", err)
		}
		record.Status = Status(status)
		record.Duration = time.Duration(durationMS) * time.Millisecond
		steps = append(steps, record)
	}

	return summary, steps, rows.Err()
}

// findRun resolves an exact run ID, falling back to prefix matching. An
// ambiguous prefix is an error rather than a guess.
func (h *History) findRun(ctx context.Context, runID string) (*RunSummary, error) {
	query := `SELECT r.id, r.pipeline, r.status, r.started_at, r.completed_at, r.duration_ms,
	          (SELECT COUNT(*) FROM steps s WHERE s.run_id = r.id)
	          FROM runs r WHERE r.id = ?`

	summary, err := scanRunSummary(h.db.QueryRowContext(ctx, query, runID))
	if err == nil {
		return &summary, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	prefixQuery := `SELECT r.id, r.pipeline, r.status, r.started_at, r.completed_at, r.duration_ms,
	                (SELECT COUNT(*) FROM steps s WHERE s.run_id = r.id)
	                FROM runs r WHERE r.id LIKE ? || '%' LIMIT 2`

	rows, err := h.db.QueryContext(ctx, prefixQuery, runID)
	if err != nil {
		return nil, fmt.Errorf("resolving run id: %w", err)
	}
	defer rows.Close()

	var matches []RunSummary
	for rows.Next() {
		match, err := scanRunSummary(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, ErrRunNotFound
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("run id %q is ambiguous, use more characters", runID)
	}
}

// Close releases the database handle.
func (h *History) Close() error {
	return h.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRunSummary(row rowScanner) (RunSummary, error) {
	var summary RunSummary
	var status, startedAt string
	var completedAt sql.NullString
	var durationMS sql.NullInt64

	err := row.Scan(&summary.RunID, &summary.Pipeline, &status, &startedAt, &completedAt, &durationMS, &summary.StepCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return summary, err
		}
		return summary, fmt.Errorf("scanning run: %w", err)
	}

	summary.Status = Status(status)
	summary.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	if completedAt.Valid {
		summary.CompletedAt, _ = time.Parse(time.RFC3339, completedAt.String)
	}
	if durationMS.Valid {
		summary.Duration = time.Duration(durationMS.Int64) * time.Millisecond
	}

	return summary, nil
}
