// Package index implements the metadata index: a derived, rebuildable
// SQLite mirror of the prompt files for fast lookup, tag filtering, and
// full-text search. No business invariants live here beyond referential
// constraints; higher layers own name uniqueness, version increments, and
// tag pruning rules.
package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Error wraps a failure of the underlying relational store. Batch callers
// treat it as fatal, unlike per-file read/parse failures.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("index: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func indexErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// DB wraps the SQLite connection backing the metadata index.
type DB struct {
	db *sql.DB
}

// migrations is the forward-only schema history. Each entry runs inside a
// transaction; PRAGMA user_version records how far a database has applied.
var migrations = []string{
	`
	CREATE TABLE prompts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		content_hash TEXT NOT NULL,
		file_path TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		version INTEGER NOT NULL,
		is_template INTEGER NOT NULL DEFAULT 0,
		is_favorite INTEGER NOT NULL DEFAULT 0,
		favorite_order INTEGER NOT NULL DEFAULT 0,
		is_pinned INTEGER NOT NULL DEFAULT 0,
		pin_order INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX idx_prompts_name ON prompts(name);
	CREATE INDEX idx_prompts_file_path ON prompts(file_path);

	CREATE TABLE tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE COLLATE NOCASE
	);

	CREATE TABLE prompt_tags (
		prompt_id TEXT NOT NULL REFERENCES prompts(id) ON DELETE CASCADE,
		tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (prompt_id, tag_id)
	);

	CREATE VIRTUAL TABLE prompts_fts USING fts5(
		id,
		name,
		content
	);

	CREATE TABLE _meta (
		key TEXT PRIMARY KEY,
		value TEXT
	);
	`,
}

// Open opens or creates the metadata index at the given path, applying any
// pending migrations.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, indexErr("creating cache directory", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, indexErr("opening database", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, indexErr("enabling foreign keys", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return indexErr("reading schema version", err)
	}

	if version > len(migrations) {
		return indexErr("migrating", fmt.Errorf("database schema version %d is newer than this build supports (%d)", version, len(migrations)))
	}

	for i := version; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return indexErr("migrating", err)
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback()
			return indexErr(fmt.Sprintf("applying migration %d", i+1), err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			tx.Rollback()
			return indexErr(fmt.Sprintf("recording migration %d", i+1), err)
		}
		if err := tx.Commit(); err != nil {
			return indexErr(fmt.Sprintf("committing migration %d", i+1), err)
		}
	}

	return nil
}

// Record is a generic row used by the raw query primitives.
type Record map[string]any

// Query executes a parameterized SQL query and returns generic records.
func (d *DB) Query(query string, args ...any) ([]Record, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, indexErr("executing query", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, indexErr("reading columns", err)
	}

	var records []Record
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, indexErr("scanning row", err)
		}

		record := make(Record, len(cols))
		for i, col := range cols {
			record[col] = values[i]
		}
		records = append(records, record)
	}

	return records, indexErr("reading rows", rows.Err())
}

// Exec executes a parameterized SQL statement and returns affected rows.
func (d *DB) Exec(query string, args ...any) (int64, error) {
	res, err := d.db.Exec(query, args...)
	if err != nil {
		return 0, indexErr("executing statement", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, indexErr("reading affected rows", err)
	}
	return n, nil
}

// GetLastSync returns the recorded time of the last full reconciliation,
// or the zero time when none is recorded.
func (d *DB) GetLastSync() (time.Time, error) {
	var value sql.NullString
	err := d.db.QueryRow("SELECT value FROM _meta WHERE key = 'last_sync'").Scan(&value)
	if err == sql.ErrNoRows || (err == nil && !value.Valid) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, indexErr("reading last sync", err)
	}
	t, err := time.Parse(time.RFC3339, value.String)
	if err != nil {
		return time.Time{}, indexErr("parsing last sync", err)
	}
	return t, nil
}

// SetLastSync records the time of a full reconciliation pass.
func (d *DB) SetLastSync(t time.Time) error {
	_, err := d.db.Exec(`INSERT OR REPLACE INTO _meta (key, value) VALUES ('last_sync', ?)`,
		t.Format(time.RFC3339))
	return indexErr("recording last sync", err)
}
