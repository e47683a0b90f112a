// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdf-ocr/internal/converter"
)

// Store keeps a local SQLite record of conversion runs
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Run is one recorded conversion
type Run struct {
	ID           string
	DocumentPath string
	DocumentHash string
	Pages        int
	FailedPages  []int
	OutputPath   string
	Persisted    bool
	Status       string
	CreatedAt    time.Time
}

// NewStore opens (and creates if needed) the history database at dbPath
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, now: time.Now}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// initSchema creates the necessary tables
func (s *Store) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		document_path TEXT NOT NULL,
		document_hash TEXT NOT NULL,
		pages INTEGER NOT NULL DEFAULT 0,
		failed_pages TEXT NOT NULL DEFAULT '',
		output_path TEXT NOT NULL DEFAULT '',
		persisted INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_document ON runs(document_path);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// RecordRun stores the outcome of a conversion and returns the new run ID
func (s *Store) RecordRun(report *converter.Report, documentHash string) (string, error) {
	id := uuid.New().String()

	const query = `
		INSERT INTO runs (id, document_path, document_hash, pages, failed_pages, output_path, persisted, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		id,
		report.DocumentPath,
		documentHash,
		report.Pages,
		joinPages(report.FailedPages),
		report.OutputPath,
		report.Persisted,
		report.Status,
		s.now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}

	return id, nil
}

// LastRun returns the most recent run for a document, or nil if there is none
func (s *Store) LastRun(documentPath string) (*Run, error) {
	row := s.db.QueryRow(
		selectRuns+" WHERE document_path = ? ORDER BY seq DESC LIMIT 1",
		documentPath,
	)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last run: %w", err)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(selectRuns+" ORDER BY seq DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

const selectRuns = `SELECT id, document_path, document_hash, pages, failed_pages, output_path, persisted, status, created_at FROM runs`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var failed string

	err := row.Scan(
		&run.ID,
		&run.DocumentPath,
		&run.DocumentHash,
		&run.Pages,
		&failed,
		&run.OutputPath,
		&run.Persisted,
		&run.Status,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	run.FailedPages, err = splitPages(failed)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func joinPages(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}

func splitPages(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	pages := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("bad failed_pages value %q: %w", s, err)
		}
		pages = append(pages, n)
	}
	return pages, nil
}
