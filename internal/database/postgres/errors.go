package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/osse101/guildledger/internal/database"
	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/repository"
)

// PostgreSQL error codes the store translates into domain errors.
const (
	pgCheckViolation      = "23514"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// wrapErr translates driver failures into domain errors. It returns nil for a nil err.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrTxClosed) {
		return repository.ErrTxClosed
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCheckViolation:
			return fmt.Errorf("%s: %w", op, domain.ErrInsufficientFunds)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, domain.ErrPlayerNotFound)
		case pgUniqueViolation:
			// A concurrent writer got there first. Retrying sees the new state.
			return database.Transient(op, err)
		}
	}

	if database.IsTransient(err) {
		return database.Transient(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
