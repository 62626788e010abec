// Package object implements repository.EntryRepository on an S3-compatible object store.
// Each key becomes one JSON object under the collections/ prefix.
package object

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"tradedesk/internal/repository"
	"tradedesk/internal/storage"
)

const prefix = "collections"

// EntryObject stores entries as objects in a bucket.
type EntryObject struct {
	store storage.Storage
}

var _ repository.EntryRepository = (*EntryObject)(nil)

// New creates an EntryObject on top of store.
func New(store storage.Storage) *EntryObject {
	return &EntryObject{store: store}
}

// ObjectKey returns the object name used for key.
func ObjectKey(key string) string {
	return path.Join(prefix, key+".json")
}

// Get downloads the object for key.
func (r *EntryObject) Get(ctx context.Context, key string) ([]byte, error) {
	rc, _, err := r.store.Get(ctx, ObjectKey(key))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	return b, nil
}

// Put overwrites the object for key.
func (r *EntryObject) Put(ctx context.Context, key string, value []byte) error {
	_, err := r.store.Put(ctx, ObjectKey(key), bytes.NewReader(value), storage.PutObjectOptions{
		Size:        int64(len(value)),
		ContentType: "application/json",
		Metadata: map[string]string{
			"collection": key,
		},
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

// Ping checks the bucket.
func (r *EntryObject) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}
