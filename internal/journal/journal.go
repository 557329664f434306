// Package journal persists a local history of orchestration runs.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Run outcomes recorded in the journal.
const (
	OutcomeSuccess  = "success"
	OutcomeFailed   = "failed"
	OutcomeCanceled = "canceled"
)

// Entry is one recorded run.
type Entry struct {
	RunID       string
	Started     time.Time
	Duration    time.Duration
	Outcome     string
	Error       string
	PluginCount int
}

// Store is a SQLite-backed run journal.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates or opens the journal database at dbPath. Use ":memory:" for an
// ephemeral journal.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open journal database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize journal schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		started INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		plugin_count INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records one finished run.
func (s *Store) Append(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (run_id, started, duration_ms, outcome, error, plugin_count) VALUES (?, ?, ?, ?, ?, ?)",
		e.RunID, e.Started.Unix(), e.Duration.Milliseconds(), e.Outcome, e.Error, e.PluginCount,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns up to n runs, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n <= 0 {
		n = 10
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT run_id, started, duration_ms, outcome, error, plugin_count FROM runs ORDER BY id DESC LIMIT ?",
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var startedUnix, durationMS int64
		if err := rows.Scan(&e.RunID, &startedUnix, &durationMS, &e.Outcome, &e.Error, &e.PluginCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		e.Started = time.Unix(startedUnix, 0)
		e.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
