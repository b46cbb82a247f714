// Package testdb provides an in-memory SQLite database with the pins table,
// used by repository and handler tests in place of MySQL.
package testdb

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE pins (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	lat         REAL NOT NULL,
	lng         REAL NOT NULL,
	type        TEXT NOT NULL,
	title       TEXT NULL,
	description TEXT NULL,
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// Open returns a fresh database that is closed when the test ends.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}
