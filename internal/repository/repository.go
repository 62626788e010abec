// Package repository contains the key-value persistence layer behind the collections.
// Implementations live in subpackages (memory, sqldb, object) inside this directory.
package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no entry is stored under the key.
var ErrNotFound = errors.New("entry not found")

// EntryRepository stores opaque blobs by key. No business logic here,
// strictly persistence operations.
type EntryRepository interface {
	// Get returns the blob stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
