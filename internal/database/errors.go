package database

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/osse101/guildledger/internal/domain"
)

// transientSQLStates are PostgreSQL errors after which the whole transaction
// can be retried unchanged.
var transientSQLStates = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"55P03": true, // lock_not_available
	"57014": true, // query_canceled (statement timeout)
	"57P01": true, // admin_shutdown
	"57P02": true, // crash_shutdown
	"57P03": true, // cannot_connect_now
	"53300": true, // too_many_connections
}

// IsTransient reports whether err is an infrastructure failure that rolled
// back cleanly.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domain.ErrTransient) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exceptions
		return transientSQLStates[pgErr.Code] || len(pgErr.Code) == 5 && pgErr.Code[:2] == "08"
	}
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// Transient wraps err with domain.ErrTransient so callers can tell it apart
// from rule violations.
func Transient(op string, err error) error {
	if errors.Is(err, domain.ErrTransient) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrTransient, err)
}
