// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists run outcomes in a local SQLite database so
// past batches can be inspected. It is additive only: nothing in the
// conversion path reads from it.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/vdxconvert/pkg/types"
)

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path, creating the schema
// if it does not exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			total INTEGER NOT NULL,
			succeeded INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			seconds REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			filename TEXT NOT NULL,
			output TEXT,
			archive TEXT,
			success INTEGER NOT NULL,
			seconds REAL NOT NULL,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run_id ON results(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Run is one recorded batch with its aggregate counts.
type Run struct {
	ID        int64     `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Total     int       `json:"total"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Seconds   float64   `json:"seconds"`
}

// Record inserts one run and its per-file results transactionally and
// returns the new run ID.
func (s *Store) Record(ctx context.Context, startedAt time.Time, results []types.Result) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var succeeded, failed int
	var seconds float64
	for _, r := range results {
		if r.Success {
			succeeded++
		} else {
			failed++
		}
		seconds += r.Seconds
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, total, succeeded, failed, seconds) VALUES (?, ?, ?, ?, ?)`,
		startedAt.UTC().Format(time.RFC3339Nano), len(results), succeeded, failed, seconds,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (run_id, filename, output, archive, success, seconds, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		if _, err := stmt.ExecContext(ctx,
			runID, r.Filename, r.Output, r.Archive, r.Success, r.Seconds, r.Err,
		); err != nil {
			return 0, fmt.Errorf("inserting result for %s: %w", r.Filename, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, total, succeeded, failed, seconds
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &started, &r.Total, &r.Succeeded, &r.Failed, &r.Seconds); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, started); err == nil {
			r.StartedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Results returns the per-file results of one run in insertion order.
func (s *Store) Results(ctx context.Context, runID int64) ([]types.Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT filename, output, archive, success, seconds, error
		 FROM results WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying results for run %d: %w", runID, err)
	}
	defer rows.Close()

	var results []types.Result
	for rows.Next() {
		var r types.Result
		if err := rows.Scan(&r.Filename, &r.Output, &r.Archive, &r.Success, &r.Seconds, &r.Err); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
