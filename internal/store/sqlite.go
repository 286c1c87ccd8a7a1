package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS slots (
    name TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// SQLite is a Backend keeping slots in a single sqlite table.
type SQLite struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewSQLite wraps an existing database handle. The schema must already
// be in place.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{DB: db}
}

// OpenSQLite opens (or creates) the sqlite database at path and ensures
// the slots table exists.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{DB: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.DB.Close()
}

// Get implements Backend.
func (s *SQLite) Get(ctx context.Context, name string) (string, bool, error) {
	var value string
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT value FROM slots WHERE name = $1`,
		name,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read slot %s: %w", name, err)
	}
	return value, true, nil
}

// Put implements Backend.
func (s *SQLite) Put(ctx context.Context, name, value string) error {
	_, err := s.DB.ExecContext(
		ctx,
		`INSERT INTO slots (name, value) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET value = excluded.value`,
		name, value,
	)
	if err != nil {
		return fmt.Errorf("write slot %s: %w", name, err)
	}
	return nil
}

// Delete implements Backend.
func (s *SQLite) Delete(ctx context.Context, name string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM slots WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete slot %s: %w", name, err)
	}
	return nil
}
