package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tradedesk/internal/database"
	"tradedesk/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = map[database.Dialect][]migrationStep{
	database.Postgres: {
		{
			Name: "create_table_kv_entries",
			SQL: `CREATE TABLE IF NOT EXISTS kv_entries (
  entry_key  TEXT        PRIMARY KEY,
  payload    TEXT        NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
		},
		{
			Name: "create_index_kv_entries_updated_at",
			SQL:  `CREATE INDEX IF NOT EXISTS idx_kv_entries_updated_at ON kv_entries (updated_at);`,
		},
	},
	database.SQLite: {
		{
			Name: "create_table_kv_entries",
			SQL: `CREATE TABLE IF NOT EXISTS kv_entries (
  entry_key  TEXT     PRIMARY KEY,
  payload    TEXT     NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);`,
		},
		{
			Name: "create_index_kv_entries_updated_at",
			SQL:  `CREATE INDEX IF NOT EXISTS idx_kv_entries_updated_at ON kv_entries (updated_at);`,
		},
	},
}

var sentinels = map[database.Dialect]string{
	database.Postgres: "SELECT to_regclass('public.kv_entries') IS NOT NULL",
	database.SQLite:   "SELECT COUNT(*) > 0 FROM sqlite_master WHERE type = 'table' AND name = 'kv_entries'",
}

// EnsureMigrated checks if the 'kv_entries' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, dialect database.Dialect, log *zap.Logger) error {
	start := time.Now()
	if log == nil {
		log = logging.Nop()
	}
	log = log.With(zap.String("dialect", string(dialect)))

	sentinel, ok := sentinels[dialect]
	if !ok {
		return fmt.Errorf("unsupported dialect: %s", dialect)
	}

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	if err := db.QueryRowContext(ctx, sentinel).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.String("error_message", fmt.Sprintf("failed to check sentinel table: %v", err)),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("reason", "schema already exists, skipping migration"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"))

	for _, step := range steps[dialect] {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.String("error_message", err.Error()),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
