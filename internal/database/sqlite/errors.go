package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/osse101/guildledger/internal/database"
	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/repository"
)

// wrapErr translates driver failures into domain errors. It returns nil for a nil err.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrTxDone) {
		return repository.ErrTxClosed
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return fmt.Errorf("%s: %w", op, domain.ErrInsufficientFunds)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%s: %w", op, domain.ErrPlayerNotFound)
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return database.Transient(op, err)
		}
		switch sqliteErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return database.Transient(op, err)
		}
	}

	if database.IsTransient(err) {
		return database.Transient(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
