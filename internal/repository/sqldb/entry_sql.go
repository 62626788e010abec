// Package sqldb implements repository.EntryRepository on a SQL database (PostgreSQL or SQLite).
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tradedesk/internal/database"
	"tradedesk/internal/repository"
)

type queries struct {
	get string
	put string
}

var dialectQueries = map[database.Dialect]queries{
	database.Postgres: {
		get: `SELECT payload FROM kv_entries WHERE entry_key = $1`,
		put: `
		INSERT INTO kv_entries (entry_key, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (entry_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`,
	},
	database.SQLite: {
		get: `SELECT payload FROM kv_entries WHERE entry_key = ?`,
		put: `
		INSERT INTO kv_entries (entry_key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (entry_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`,
	},
}

// EntrySQL stores entries in the kv_entries table.
// It uses database/sql with parameterized queries and contains no business logic.
type EntrySQL struct {
	db *sql.DB
	q  queries
}

var _ repository.EntryRepository = (*EntrySQL)(nil)

// New creates an EntrySQL for the given dialect. The schema must already be migrated.
func New(db *sql.DB, dialect database.Dialect) (*EntrySQL, error) {
	q, ok := dialectQueries[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}
	return &EntrySQL{db: db, q: q}, nil
}

// Get fetches the payload stored under key.
func (r *EntrySQL) Get(ctx context.Context, key string) ([]byte, error) {
	var payload string
	if err := r.db.QueryRowContext(ctx, r.q.get, key).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return []byte(payload), nil
}

// Put upserts the payload for key.
func (r *EntrySQL) Put(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, r.q.put, key, string(value), time.Now().UTC())
	return err
}

// Ping checks database connectivity.
func (r *EntrySQL) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
