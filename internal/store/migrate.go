package store

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jmoiron/sqlx"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

//go:embed schema_postgres.sql
var postgresSchema string

// Schema versions:
// 1 - initial tables
// 2 - submission listing index
const currentSchemaVersion = 2

var migrations = map[int][]string{
	2: {
		"CREATE INDEX IF NOT EXISTS idx_submissions_submitted_at ON form_submissions(submitted_at)",
		"CREATE INDEX IF NOT EXISTS idx_submissions_user ON form_submissions(user_id)",
	},
}

func applyPragmas(ctx context.Context, db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("store: %s: %w", pragma, err)
		}
	}
	return nil
}

// migrate creates the tables and applies numbered migrations. SQLite tracks
// the version in user_version, PostgreSQL in schema_version.
func migrate(ctx context.Context, db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == DriverPostgres {
		schema = postgresSchema
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("store: apply schema: %w", err)
	}

	version, err := schemaVersion(ctx, db)
	if err != nil {
		return err
	}
	for v := version + 1; v <= currentSchemaVersion; v++ {
		for _, stmt := range migrations[v] {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("store: migration %d: %w", v, err)
			}
		}
	}
	if version < currentSchemaVersion {
		return setSchemaVersion(ctx, db, currentSchemaVersion)
	}
	return nil
}

func schemaVersion(ctx context.Context, db *sqlx.DB) (int, error) {
	var version int
	if db.DriverName() != DriverPostgres {
		if err := db.GetContext(ctx, &version, "PRAGMA user_version"); err != nil {
			return 0, fmt.Errorf("store: read user_version: %w", err)
		}
		return version, nil
	}
	if _, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)"); err != nil {
		return 0, fmt.Errorf("store: schema_version table: %w", err)
	}
	if err := db.GetContext(ctx, &version, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return 0, fmt.Errorf("store: read schema_version: %w", err)
	}
	return version, nil
}

func setSchemaVersion(ctx context.Context, db *sqlx.DB, version int) error {
	var err error
	if db.DriverName() != DriverPostgres {
		_, err = db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version))
	} else {
		_, err = db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES ($1)", version)
	}
	if err != nil {
		return fmt.Errorf("store: set schema version: %w", err)
	}
	return nil
}
