package storage

import (
	"context"
	"errors"
)

// ErrNotFound reports a key with no stored value.
var ErrNotFound = errors.New("key not found")

// KeyValue is the persistence collaborator: a flat string store the
// snapshot and review layers serialize into.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
