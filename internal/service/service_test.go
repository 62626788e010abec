package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tradedesk/internal/collection"
	"tradedesk/internal/model"
	"tradedesk/internal/render"
	"tradedesk/internal/repository/memory"
	"tradedesk/internal/store"
)

var fixedNow = time.Date(2024, 7, 4, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func newStore(t *testing.T) (*store.Store, *memory.EntryMemory) {
	t.Helper()
	repo, err := memory.New()
	require.NoError(t, err)
	return store.New(repo, nil), repo
}

func persisted[T any](t *testing.T, repo *memory.EntryMemory, key string) []T {
	t.Helper()
	raw, err := repo.Get(context.Background(), key)
	require.NoError(t, err)
	var out []T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func newDocuments(t *testing.T, st *store.Store) *collection.Manager[model.Document] {
	t.Helper()
	return collection.New[model.Document](context.Background(), st, DocumentsKey, render.Documents)
}

func newProducts(t *testing.T, st *store.Store) *collection.Manager[model.Product] {
	t.Helper()
	return collection.New[model.Product](context.Background(), st, ProductsKey, render.Products)
}
