// Package backend opens the kv.Storage selected by configuration.
package backend

import (
	"context"
	"fmt"

	"stockcount/pkg/config"
	"stockcount/pkg/kv"
	"stockcount/pkg/kv/memory"
	"stockcount/pkg/kv/postgres"
	"stockcount/pkg/kv/redis"
	"stockcount/pkg/kv/sqlite"
)

// Open returns the configured storage and a function releasing it.
func Open(ctx context.Context, cfg config.Storage) (kv.Storage, func() error, error) {
	nop := func() error { return nil }
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.New(), nop, nil
	case config.BackendSQLite, "":
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendPostgres:
		s, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		return s, s.Close, nil
	case config.BackendRedis:
		s, err := redis.Open(ctx, cfg.RedisAddr, cfg.RedisPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("redis: %w", err)
		}
		return s, s.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
}
