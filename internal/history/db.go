// Package history records agent runs, steps and tool calls in a local SQLite
// database for later inspection.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// RunRecord is one completed or in-flight agent run.
type RunRecord struct {
	RunID     string
	AgentName string
	Request   string
	Result    string
	State     string
	StartedAt int64
	EndedAt   int64
}

// Recorder writes run history to SQLite.
type Recorder struct {
	db *sql.DB
}

// NewRecorder opens (or creates) the history database and initializes the
// schema.
func NewRecorder(ctx context.Context, dbPath string) (*Recorder, error) {
	// WAL mode allows a reader while the recorder writes.
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite doesn't support multiple writers well.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	r := &Recorder{db: db}
	if err := r.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return r, nil
}

// Close closes the database connection.
func (r *Recorder) Close() error {
	return r.db.Close()
}

func (r *Recorder) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id     TEXT PRIMARY KEY,
		agent_name TEXT NOT NULL,
		request    TEXT NOT NULL,
		result     TEXT,
		state      TEXT NOT NULL DEFAULT 'running',
		started_at INTEGER NOT NULL,
		ended_at   INTEGER
	);

	CREATE TABLE IF NOT EXISTS steps (
		step_id  INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id   TEXT NOT NULL,
		step     INTEGER NOT NULL,
		thought  TEXT,
		at_unix  INTEGER NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(run_id)
	);

	CREATE TABLE IF NOT EXISTS tool_calls (
		call_id   INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id    TEXT NOT NULL,
		step      INTEGER NOT NULL,
		tool_name TEXT NOT NULL,
		args      TEXT,
		output    TEXT,
		at_unix   INTEGER NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(run_id)
	);

	CREATE INDEX IF NOT EXISTS idx_steps_run ON steps(run_id);
	CREATE INDEX IF NOT EXISTS idx_tool_calls_run ON tool_calls(run_id);
	`
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// StartRun inserts a new run row in the running state.
func (r *Recorder) StartRun(ctx context.Context, runID, agentName, request string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, agent_name, request, started_at) VALUES (?, ?, ?, ?)`,
		runID, agentName, request, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record run start: %w", err)
	}
	return nil
}

// EndRun finalizes a run row with its terminal state and result text.
func (r *Recorder) EndRun(ctx context.Context, runID, state, result string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE runs SET state = ?, result = ?, ended_at = ? WHERE run_id = ?`,
		state, result, time.Now().Unix(), runID)
	if err != nil {
		return fmt.Errorf("failed to record run end: %w", err)
	}
	return nil
}

// RecordStep appends a step row.
func (r *Recorder) RecordStep(ctx context.Context, runID string, step int, thought string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO steps (run_id, step, thought, at_unix) VALUES (?, ?, ?, ?)`,
		runID, step, thought, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record step: %w", err)
	}
	return nil
}

// RecordToolCall appends a tool call row.
func (r *Recorder) RecordToolCall(ctx context.Context, runID string, step int, toolName, args, output string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tool_calls (run_id, step, tool_name, args, output, at_unix) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, step, toolName, args, output, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record tool call: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (r *Recorder) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT run_id, agent_name, request, COALESCE(result, ''), state, started_at, COALESCE(ended_at, 0)
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(&rec.RunID, &rec.AgentName, &rec.Request, &rec.Result, &rec.State, &rec.StartedAt, &rec.EndedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, rec)
	}
	return runs, rows.Err()
}
