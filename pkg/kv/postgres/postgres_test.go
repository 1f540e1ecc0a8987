package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"stockcount/pkg/kv"
)

func TestStorage(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	key := "stockcount_test_" + t.Name()
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key=$1", key); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if _, err := s.Get(ctx, key); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Set(ctx, key, "a"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, key, "b"); err != nil {
		t.Fatalf("set again: %v", err)
	}
	got, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "b" {
		t.Fatalf("expected b, got %s", got)
	}
}
