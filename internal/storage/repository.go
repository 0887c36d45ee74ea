package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

// KVStore is a durable string-keyed store. Get reports ok=false for keys
// that were never written.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
