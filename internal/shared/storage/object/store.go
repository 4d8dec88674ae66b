package object

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when no object exists at a key.
var ErrNotFound = errors.New("object not found")

// ErrInvalidKey is returned for keys that would escape the store namespace.
var ErrInvalidKey = errors.New("invalid storage key")

// ObjectStore defines the contract for saving and retrieving binary objects.
// Put at an existing key replaces the previous object.
type ObjectStore interface {
	Put(ctx context.Context, key string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Sweeper is implemented by stores that can purge stale objects themselves.
type Sweeper interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
