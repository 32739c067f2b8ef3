package storage

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// Schema is the built-in schema definition, used when no override path is configured.
//
//go:embed schema.sql
var Schema string

// ExpectedTables lists the tables the schema must create.
var ExpectedTables = []string{"account", "exercise", "schedule"}

// LoadSchema returns the schema definition to apply at startup.
// PRE: none
// POST: Returns the embedded schema when path is empty, otherwise the file contents or an error
func LoadSchema(path string) (string, error) {
	if path == "" {
		return Schema, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read schema %s: %w", path, err)
	}
	return string(b), nil
}

// Open opens the SQLite database at path with WAL mode, foreign keys and a busy timeout.
// PRE: path is a writable file location or ":memory:"
// POST: Returns a pinged connection pool
func Open(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	if path == ":memory:" {
		dsn = ":memory:?_pragma=foreign_keys(ON)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return db, nil
}

// Migrate applies the schema definition. Every statement is idempotent, so it is safe
// to run on each startup and from concurrently starting processes.
// PRE: db is a valid database connection; schema is non-empty
// POST: All tables exist and foreign keys are enforced
func Migrate(db *sql.DB, schema string) error {
	if schema == "" {
		return fmt.Errorf("schema definition is empty")
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	for _, table := range ExpectedTables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&name)
		if err != nil {
			return fmt.Errorf("schema did not create table %s: %w", table, err)
		}
	}
	return nil
}
