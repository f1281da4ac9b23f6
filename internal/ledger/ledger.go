// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger persists batch run history to SQLite so operators can
// review past runs and their worst files. The ledger is write-only from
// the pipeline's point of view: it is never consulted to skip or resume
// work between runs.
package ledger

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/docmill/internal/pipeline"
)

// Store manages the batch history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path, creating the schema
// and any parent directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
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
			finished_at TEXT NOT NULL,
			input_dir TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			workers INTEGER NOT NULL,
			converted INTEGER NOT NULL,
			recovered INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_files (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			source TEXT NOT NULL,
			state TEXT NOT NULL,
			failure_reason TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_files_run_id ON run_files(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun appends one finished batch and its per-file outcomes in a
// single transaction, returning the new run's id.
func (s *Store) RecordRun(started, finished time.Time, inputDir, outputDir string, workers int, sum pipeline.Summary) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (started_at, finished_at, input_dir, output_dir, workers, converted, recovered, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		started.UTC().Format(time.RFC3339),
		finished.UTC().Format(time.RFC3339),
		inputDir, outputDir, workers,
		sum.Converted, sum.Recovered, sum.Failed,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, e := range sum.Entries {
		if _, err := tx.Exec(
			`INSERT INTO run_files (run_id, source, state, failure_reason) VALUES (?, ?, ?, ?)`,
			runID, e.SourcePath, string(e.State), e.FailureReason,
		); err != nil {
			return 0, fmt.Errorf("inserting file outcome: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// LastRun returns the counts of the most recent recorded run, for the
// history subcommand. ok is false when the ledger is empty.
func (s *Store) LastRun() (sum pipeline.Summary, finished time.Time, ok bool, err error) {
	row := s.db.QueryRow(
		`SELECT finished_at, converted, recovered, failed FROM runs ORDER BY id DESC LIMIT 1`)

	var finishedAt string
	if err := row.Scan(&finishedAt, &sum.Converted, &sum.Recovered, &sum.Failed); err != nil {
		if err == sql.ErrNoRows {
			return pipeline.Summary{}, time.Time{}, false, nil
		}
		return pipeline.Summary{}, time.Time{}, false, fmt.Errorf("querying last run: %w", err)
	}
	if t, parseErr := time.Parse(time.RFC3339, finishedAt); parseErr == nil {
		finished = t
	}
	return sum, finished, true, nil
}
