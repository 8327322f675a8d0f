package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// nowUTC returns the current UTC time as an ISO 8601 string.
func nowUTC() string { return time.Now().UTC().Format(time.RFC3339) }

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	system TEXT NOT NULL,
	phi REAL NOT NULL,
	method TEXT NOT NULL,
	mip TEXT,
	partitions_evaluated INTEGER NOT NULL,
	elapsed_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// SqlStore implements Store with SQLite.
type SqlStore struct {
	db *sql.DB
}

// Open opens or creates a SQLite DB at path and ensures the schema.
// Creates the parent directory (e.g. .integra) if it does not exist.
func Open(path string) (*SqlStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SqlStore{db: db}, nil
}

// SaveRun inserts one measurement record. A blank CreatedAt is stamped
// with the current UTC time.
func (s *SqlStore) SaveRun(run Run) error {
	if run.CreatedAt == "" {
		run.CreatedAt = nowUTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO runs(id, created_at, system, phi, method, mip, partitions_evaluated, elapsed_ms)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt, run.System, run.Phi, run.Method, run.MIP,
		run.PartitionsEvaluated, run.ElapsedMS,
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. limit <= 0 means
// all of them.
func (s *SqlStore) ListRuns(limit int) ([]Run, error) {
	query := `SELECT id, created_at, system, phi, method, COALESCE(mip, ''), partitions_evaluated, elapsed_ms
		FROM runs ORDER BY created_at DESC, id DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = s.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.System, &r.Phi, &r.Method, &r.MIP,
			&r.PartitionsEvaluated, &r.ElapsedMS); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close closes the underlying database.
func (s *SqlStore) Close() error {
	return s.db.Close()
}
