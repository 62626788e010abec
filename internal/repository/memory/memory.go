// Package memory implements repository.EntryRepository on an in-memory go-memdb database.
// Contents are lost when the process exits.
package memory

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-memdb"

	"tradedesk/internal/repository"
)

const tblEntries = "entries"

var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tblEntries: {
			Name: tblEntries,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "Key"},
				},
			},
		},
	},
}

type entry struct {
	Key   string
	Value []byte
}

// EntryMemory is a go-memdb implementation of repository.EntryRepository.
type EntryMemory struct {
	db *memdb.MemDB
}

var _ repository.EntryRepository = (*EntryMemory)(nil)

// New creates an empty in-memory repository.
func New() (*EntryMemory, error) {
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("new memdb: %w", err)
	}
	return &EntryMemory{db: db}, nil
}

// Get returns a copy of the value stored under key.
func (m *EntryMemory) Get(_ context.Context, key string) ([]byte, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tblEntries, "id", key)
	if err != nil {
		return nil, fmt.Errorf("find entry %s: %w", key, err)
	}
	if raw == nil {
		return nil, repository.ErrNotFound
	}

	e := raw.(*entry)
	return append([]byte(nil), e.Value...), nil
}

// Put stores a copy of value under key.
func (m *EntryMemory) Put(_ context.Context, key string, value []byte) error {
	txn := m.db.Txn(true)
	defer txn.Abort()

	if err := txn.Insert(tblEntries, &entry{
		Key:   key,
		Value: append([]byte(nil), value...),
	}); err != nil {
		return fmt.Errorf("insert entry %s: %w", key, err)
	}
	txn.Commit()
	return nil
}

// Ping always succeeds.
func (m *EntryMemory) Ping(context.Context) error {
	return nil
}
