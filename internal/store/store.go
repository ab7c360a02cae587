// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists extracted triples across runs in a SQLite database
// together with the per-document outcome of every run, so the graph can be
// queried, exported, and extended incrementally.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/kgextract/internal/triples"
	"github.com/pdiddy/kgextract/pkg/types"
)

// DefaultPath is used when no database path is configured.
const DefaultPath = "kgextract.db"

// timeFormat is fixed-width so stored timestamps sort lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Run sources.
const (
	SourceExtract = "extract"
	SourceImport  = "import"
)

// Store manages the triple database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the database at cfg.Path and creates the schema if
// it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One writer keeps WAL transactions from contending.
	db.SetMaxOpenConns(1)

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 100
	}
	s := &Store{db: db, maxResults: maxResults}

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
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			extracted INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			added INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			path TEXT NOT NULL,
			status TEXT NOT NULL,
			stage TEXT,
			error TEXT,
			triples INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_run_id ON documents(run_id)`,
		`CREATE TABLE IF NOT EXISTS triples (
			subject TEXT NOT NULL,
			predicate TEXT NOT NULL,
			object TEXT NOT NULL,
			first_run TEXT NOT NULL REFERENCES runs(id),
			PRIMARY KEY (subject, predicate, object)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_triples_predicate ON triples(predicate)`,
		`CREATE INDEX IF NOT EXISTS idx_triples_object ON triples(object)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Run is one batch of triples to record: an extraction run or an import.
type Run struct {
	ID         string
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time
	Documents  []types.DocumentReport
	Triples    []types.Triple
}

// RecordRun stores run, its document reports, and its triples in one
// transaction. Triples already present keep their first run. It returns the
// number of triples new to the store.
func (s *Store) RecordRun(ctx context.Context, run Run) (int, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Source == "" {
		run.Source = SourceExtract
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = run.FinishedAt
	}

	var extracted, skipped, failed int
	for _, d := range run.Documents {
		switch d.Status {
		case types.DocumentExtracted:
			extracted++
		case types.DocumentSkipped:
			skipped++
		case types.DocumentFailed:
			failed++
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, source, started_at, finished_at, extracted, skipped, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source,
		run.StartedAt.UTC().Format(timeFormat), run.FinishedAt.UTC().Format(timeFormat),
		extracted, skipped, failed,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	docStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO documents (run_id, path, status, stage, error, triples) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing document insert: %w", err)
	}
	defer docStmt.Close()
	for _, d := range run.Documents {
		if _, err := docStmt.ExecContext(ctx, run.ID, d.Path, string(d.Status), d.Stage, d.Error, d.Triples); err != nil {
			return 0, fmt.Errorf("inserting document %s: %w", d.Path, err)
		}
	}

	tripleStmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO triples (subject, predicate, object, first_run) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing triple insert: %w", err)
	}
	defer tripleStmt.Close()

	added := 0
	for _, t := range run.Triples {
		r, err := tripleStmt.ExecContext(ctx, t.Subject, t.Predicate, t.Object, run.ID)
		if err != nil {
			return 0, fmt.Errorf("inserting triple %s %s %s: %w", t.Subject, t.Predicate, t.Object, err)
		}
		n, err := r.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("counting inserted triples: %w", err)
		}
		added += int(n)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE runs SET added = ? WHERE id = ?`, added, run.ID); err != nil {
		return 0, fmt.Errorf("updating run %s: %w", run.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run %s: %w", run.ID, err)
	}
	return added, nil
}

// Import loads a triples file in the extract output format. The file is
// recorded as a run of its own with source "import". It returns the number
// of triples read and the number new to the store.
func (s *Store) Import(ctx context.Context, r io.Reader, name string) (read, added int, err error) {
	started := time.Now().UTC()
	ts, err := triples.ReadNTriples(r)
	if err != nil {
		return 0, 0, fmt.Errorf("reading %s: %w", name, err)
	}
	added, err = s.RecordRun(ctx, Run{
		Source:    SourceImport,
		StartedAt: started,
		Documents: []types.DocumentReport{{Path: name, Status: types.DocumentExtracted, Triples: len(ts)}},
		Triples:   ts,
	})
	if err != nil {
		return len(ts), 0, err
	}
	return len(ts), added, nil
}
