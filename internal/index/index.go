// Package index provides the SQLite-backed case store: one row per case,
// keyed by id, replacing the ledger's full-document rewrite with indexed
// writes.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jannatulferdou/cybersheild/internal/casestore"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS cases (
	id             TEXT PRIMARY KEY,
	is_anonymous   INTEGER NOT NULL DEFAULT 0,
	reporter_name  TEXT NOT NULL DEFAULT '',
	description    TEXT NOT NULL DEFAULT '',
	evidence_links TEXT NOT NULL DEFAULT '[]',
	evidence_files TEXT NOT NULL DEFAULT '[]',
	created_at     DATETIME NOT NULL,
	updated_at     DATETIME,
	status         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cases_status ON cases(status);
`

// DB wraps a sql.DB with case-store operations.
type DB struct {
	conn *sql.DB
}

// Verify *DB satisfies the store contract at compile time.
var _ casestore.Store = (*DB)(nil)

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
