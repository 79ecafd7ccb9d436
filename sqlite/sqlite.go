// Package sqlite provides SQLite-based storage implementations for evidmap
// services.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Wait 5 seconds before failing on lock contention instead of
	// returning "database is locked" immediately.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// WAL gives much better write performance and allows concurrent reads
	// during writes. Not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sources (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			url TEXT NOT NULL DEFAULT '',
			last_polled TEXT,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			source_id TEXT NOT NULL REFERENCES sources(id) ON DELETE CASCADE,
			external_id TEXT NOT NULL DEFAULT '',
			original_url TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			author TEXT NOT NULL DEFAULT '',
			content_html TEXT NOT NULL DEFAULT '',
			content_text TEXT NOT NULL DEFAULT '',
			content_hash TEXT NOT NULL DEFAULT '',
			published_at TEXT,
			created_at TEXT NOT NULL,
			archived INTEGER NOT NULL DEFAULT 0,
			segment_version INTEGER NOT NULL DEFAULT 0,
			segment_status TEXT NOT NULL DEFAULT 'none'
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_source_external
			ON documents(source_id, external_id) WHERE external_id != '';
		CREATE INDEX IF NOT EXISTS idx_documents_source_id ON documents(source_id);

		CREATE TABLE IF NOT EXISTS segments (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			text TEXT NOT NULL,
			content_html TEXT NOT NULL DEFAULT '',
			start_offset INTEGER NOT NULL DEFAULT 0,
			end_offset INTEGER NOT NULL DEFAULT 0,
			offset_kind TEXT NOT NULL DEFAULT 'text',
			status TEXT NOT NULL DEFAULT 'proposed',
			version INTEGER NOT NULL DEFAULT 1,
			provenance TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_segments_document_id ON segments(document_id);

		CREATE TABLE IF NOT EXISTS hypotheses (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			reference_url TEXT NOT NULL DEFAULT '',
			reference_type TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS evidence (
			id TEXT PRIMARY KEY,
			hypothesis_id TEXT NOT NULL REFERENCES hypotheses(id) ON DELETE CASCADE,
			segment_id TEXT NOT NULL REFERENCES segments(id) ON DELETE CASCADE,
			verdict TEXT NOT NULL DEFAULT '',
			analysis_text TEXT NOT NULL DEFAULT '',
			authored_by TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_evidence_hypothesis_id ON evidence(hypothesis_id);
		CREATE INDEX IF NOT EXISTS idx_evidence_segment_id ON evidence(segment_id);

		CREATE TABLE IF NOT EXISTS questions (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS question_hypotheses (
			question_id TEXT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
			hypothesis_id TEXT NOT NULL REFERENCES hypotheses(id) ON DELETE CASCADE,
			PRIMARY KEY (question_id, hypothesis_id)
		);

		CREATE TABLE IF NOT EXISTS ingest_jobs (
			id TEXT PRIMARY KEY,
			source_id TEXT NOT NULL REFERENCES sources(id) ON DELETE CASCADE,
			status TEXT NOT NULL DEFAULT 'queued',
			error TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_ingest_jobs_status ON ingest_jobs(status, created_at);

		CREATE TABLE IF NOT EXISTS povs (
			id TEXT PRIMARY KEY,
			segment_id TEXT NOT NULL REFERENCES segments(id) ON DELETE CASCADE,
			persona TEXT NOT NULL,
			summary TEXT NOT NULL,
			trace_json TEXT NOT NULL DEFAULT '{}',
			run_status TEXT NOT NULL DEFAULT 'draft',
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_povs_segment_id ON povs(segment_id);

		CREATE TABLE IF NOT EXISTS reference_cache (
			hypothesis_id TEXT PRIMARY KEY REFERENCES hypotheses(id) ON DELETE CASCADE,
			url TEXT NOT NULL,
			text TEXT NOT NULL,
			fetched_at TEXT NOT NULL
		);
	`

	_, err := db.db.Exec(schema)
	return err
}
