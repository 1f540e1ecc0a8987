// Package postgres persists documents in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq" // register the postgres database/sql driver

	"stockcount/pkg/kv"
)

// Schema creates the table used by Storage.
const Schema = "CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)"

// Storage persists documents in PostgreSQL.
type Storage struct {
	db *sql.DB
}

// New creates a PostgreSQL storage. The caller must ensure the kv table
// exists, see Migrate.
func New(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// Open connects to dsn and creates the kv table if needed.
func Open(ctx context.Context, dsn string) (*Storage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	s := New(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the kv table.
func (s *Storage) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, Schema)
	return err
}

// Get retrieves a document by key.
func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key=$1", key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", kv.ErrNotFound
	}
	return v, err
}

// Set inserts or replaces the document stored under key.
func (s *Storage) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, "INSERT INTO kv (key,value) VALUES ($1,$2) ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value", key, value)
	return err
}

// Close closes the underlying database.
func (s *Storage) Close() error {
	return s.db.Close()
}
