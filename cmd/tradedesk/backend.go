package main

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"tradedesk/internal/config"
	"tradedesk/internal/database"
	"tradedesk/internal/database/migration"
	"tradedesk/internal/repository"
	"tradedesk/internal/repository/memory"
	"tradedesk/internal/repository/object"
	"tradedesk/internal/repository/sqldb"
	"tradedesk/internal/storage"
)

// backend is the entry repository selected by the store driver.
type backend struct {
	repo  repository.EntryRepository
	close func() error
}

func nopClose() error { return nil }

func openBackend(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (*backend, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		repo, err := memory.New()
		if err != nil {
			return nil, fmt.Errorf("init memory store: %w", err)
		}
		return &backend{repo: repo, close: nopClose}, nil

	case config.DriverSQLite:
		db, err := database.NewSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		return sqlBackend(ctx, db, database.SQLite, log)

	case config.DriverPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		return sqlBackend(ctx, db, database.Postgres, log)

	case config.DriverMinIO:
		st, err := storage.NewMinIO(cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("init object storage: %w", err)
		}
		return &backend{repo: object.New(st), close: nopClose}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

func sqlBackend(ctx context.Context, db *sql.DB, dialect database.Dialect, log *zap.Logger) (*backend, error) {
	if err := migration.EnsureMigrated(ctx, db, dialect, log); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := sqldb.New(db, dialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &backend{repo: repo, close: db.Close}, nil
}
