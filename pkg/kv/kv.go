// Package kv defines the persistence collaborator used by record stores: a
// key-value store holding one serialized document per key.
package kv

import (
	"context"
	"errors"
)

// Storage defines behavior for persisting whole documents under a fixed key.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// ErrNotFound indicates no document is stored under the requested key.
var ErrNotFound = errors.New("kv: key not found")
