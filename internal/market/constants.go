package market

// Error messages
const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
	ErrMsgLockPlayersFailed       = "failed to lock players: %w"
	ErrMsgReserveFailed           = "failed to reserve resources: %w"
	ErrMsgInsertListingFailed     = "failed to create listing: %w"
	ErrMsgGetListingFailed        = "failed to get listing: %w"
	ErrMsgCloseListingFailed      = "failed to close listing: %w"
	ErrMsgRefundFailed            = "failed to return reserved resources: %w"
	ErrMsgBuyerDebitFailed        = "failed to debit buyer: %w"
	ErrMsgSettleFailed            = "failed to settle trade: %w"
	ErrMsgListFailed              = "failed to list listings: %w"
	ErrFmtNotListable             = "%w: %s cannot be listed"
	ErrFmtUnknownFilter           = "%w: unknown market filter %q"
	ErrFmtEmptyField              = "%w: %s is required"
	ErrFmtInsufficientQuantity    = "%w: not enough %s to list %d"
	ErrFmtLedgerOverflow          = "%w: trade would push %s past the ledger maximum"
)

// Log messages
const (
	LogMsgListingCreated    = "Listing created"
	LogMsgListingCancelled  = "Listing cancelled"
	LogMsgListingSold       = "Listing sold"
	LogMsgOperationRejected = "Market operation rejected"
	LogMsgOperationFailed   = "Market operation failed"
	LogMsgPublishFailed     = "Failed to publish market event"
)

// Operation names used for spans and logs
const (
	OpCreateListing = "market.CreateListing"
	OpCancelListing = "market.CancelListing"
	OpBuy           = "market.Buy"

	tracerName = "guildledger/market"
)
