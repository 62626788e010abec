// Package store persists named record lists as JSON blobs.
//
// Failures never propagate: a key that is missing, unreadable or corrupt loads as an
// empty list, and a failed save is logged and dropped. Callers treat an empty list as
// a normal starting state.
package store

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"tradedesk/internal/logging"
	"tradedesk/internal/repository"
)

// Store reads and writes lists through an EntryRepository.
// The zero value and a Store without a repository are no-ops.
type Store struct {
	repo repository.EntryRepository
	log  *zap.Logger
}

// New creates a Store on top of repo.
func New(repo repository.EntryRepository, log *zap.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{repo: repo, log: log}
}

// Available reports whether a persistence layer is attached.
func (s *Store) Available() bool {
	return s != nil && s.repo != nil
}

// Ping checks the persistence layer.
func (s *Store) Ping(ctx context.Context) error {
	if !s.Available() {
		return nil
	}
	return s.repo.Ping(ctx)
}

// Save encodes list and writes it under key. A nil list is stored as [].
func (s *Store) Save(ctx context.Context, key string, list any) {
	if !s.Available() {
		return
	}

	b, err := json.Marshal(list)
	if err != nil {
		s.log.Warn("collection_save_failed", zap.String("key", key), zap.Error(err))
		return
	}
	if string(b) == "null" {
		b = []byte("[]")
	}
	if err := s.repo.Put(ctx, key, b); err != nil {
		s.log.Warn("collection_save_failed", zap.String("key", key), zap.Error(err))
		return
	}
	s.log.Debug("collection_saved", zap.String("key", key), zap.Int("bytes", len(b)))
}

// Load returns the list stored under key, or an empty list when there is nothing usable.
func Load[T any](ctx context.Context, s *Store, key string) []T {
	out := []T{}
	if !s.Available() {
		return out
	}

	b, err := s.repo.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("collection_load_failed", zap.String("key", key), zap.Error(err))
		}
		return out
	}

	var list []T
	if err := json.Unmarshal(b, &list); err != nil {
		s.log.Warn("collection_corrupt", zap.String("key", key), zap.Error(err))
		return out
	}
	if list == nil {
		return out
	}
	return list
}
