package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"stockcount/pkg/kv"
)

func TestStorage(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "count.db")
	s, err := Open(path)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	defer s.Close()

	if _, err := s.Get(ctx, "cadastro_clientes_v1"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Set(ctx, "cadastro_clientes_v1", `[{"id":"1"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "cadastro_clientes_v1", `[]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := s.Get(ctx, "cadastro_clientes_v1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != `[]` {
		t.Fatalf("expected [], got %s", got)
	}
}

func TestStorageReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "count.db")
	s, err := Open(path)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	if err := s.Set(ctx, "contagem_ean_qtd_v1", `[{"ean":"789","qtd":3}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.Get(ctx, "contagem_ean_qtd_v1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != `[{"ean":"789","qtd":3}]` {
		t.Fatalf("unexpected document %s", got)
	}
}
