package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrate applies every pending embedded migration for the given dialect.
func Migrate(ctx context.Context, db *sql.DB, dialect string) error {
	var gooseDialect goose.Dialect
	switch dialect {
	case DialectPostgres:
		gooseDialect = goose.DialectPostgres
	case DialectSQLite:
		gooseDialect = goose.DialectSQLite3
	default:
		return fmt.Errorf(ErrMsgUnknownDialectFmt, dialect)
	}

	fsys, err := fs.Sub(migrationsFS, "migrations/"+dialect)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToRunMigrations, err)
	}

	provider, err := goose.NewProvider(gooseDialect, db, fsys)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToRunMigrations, err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToRunMigrations, err)
	}

	if len(results) == 0 {
		slog.Default().Info(LogMsgMigrationsUpToDate, "dialect", dialect)
	}
	for _, r := range results {
		slog.Default().Info(LogMsgMigrationApplied,
			"dialect", dialect,
			"version", r.Source.Version,
			"duration", r.Duration)
	}
	return nil
}
