package repository

import (
	"context"
	"errors"

	"github.com/osse101/guildledger/internal/logger"
)

// ErrTxClosed is returned by Rollback after the transaction already finished.
var ErrTxClosed = errors.New("tx is closed")

// SafeRollback rolls back a transaction and logs any error
func SafeRollback(ctx context.Context, tx Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, ErrTxClosed) {
		logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
	}
}
