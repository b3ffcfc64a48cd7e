// Package duckdb records slice invocations and observed header metadata in a
// local DuckDB catalog.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for the run catalog.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create catalog directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS slice_runs (
		started_at TIMESTAMP,
		file VARCHAR,
		location VARCHAR,
		filter VARCHAR,
		format VARCHAR,
		from_row BIGINT,
		to_row BIGINT,
		units_emitted BIGINT,
		duration_ms BIGINT
	)`); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS header_fields (
		file VARCHAR,
		field VARCHAR,
		description VARCHAR,
		PRIMARY KEY (file, field)
	)`)
	return err
}

// Run is one catalog entry describing a slice invocation.
type Run struct {
	StartedAt    time.Time
	File         string
	Location     string
	Filter       string
	Format       string
	From         int64
	To           int64
	UnitsEmitted int64
	Duration     time.Duration
}

// RecordRun appends one run to the catalog.
func (s *Store) RecordRun(r Run) error {
	_, err := s.db.Exec(
		`INSERT INTO slice_runs VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.StartedAt, r.File, r.Location, r.Filter, r.Format,
		r.From, r.To, r.UnitsEmitted, r.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// RecordHeaderFields upserts the meta-header descriptions observed for file.
func (s *Store) RecordHeaderFields(file string, descriptions map[string]string) error {
	for field, desc := range descriptions {
		if _, err := s.db.Exec(
			`INSERT OR REPLACE INTO header_fields VALUES (?, ?, ?)`,
			file, field, desc,
		); err != nil {
			return fmt.Errorf("record header field %s: %w", field, err)
		}
	}
	return nil
}

// HeaderFields returns the recorded meta-header descriptions for file.
func (s *Store) HeaderFields(file string) (map[string]string, error) {
	rows, err := s.db.Query(
		`SELECT field, description FROM header_fields WHERE file = ?`, file)
	if err != nil {
		return nil, fmt.Errorf("query header fields: %w", err)
	}
	defer rows.Close()

	fields := make(map[string]string)
	for rows.Next() {
		var field, desc string
		if err := rows.Scan(&field, &desc); err != nil {
			return nil, fmt.Errorf("scan header field: %w", err)
		}
		fields[field] = desc
	}
	return fields, rows.Err()
}

// RecentRuns returns up to limit runs, most recent first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT started_at, file, location, filter, format,
		        from_row, to_row, units_emitted, duration_ms
		 FROM slice_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationMS int64
		if err := rows.Scan(&r.StartedAt, &r.File, &r.Location, &r.Filter,
			&r.Format, &r.From, &r.To, &r.UnitsEmitted, &durationMS); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
