package ledger

// Error messages
const (
	ErrMsgGetLedgerFailed  = "failed to get ledger: %w"
	ErrMsgApplyDeltaFailed = "failed to apply ledger delta: %w"
	ErrMsgProvisionFailed  = "failed to provision ledger: %w"
	ErrMsgBeginTxFailed    = "failed to begin transaction: %w"
	ErrMsgCommitFailed     = "failed to commit transaction: %w"
	ErrMsgEmptyPlayerID    = "%w: player_id is required"
	ErrMsgEmptyDelta       = "%w: delta changes nothing"
	ErrMsgNegativeOpening  = "%w: opening balance must be non-negative"
	ErrMsgDeltaOverflow    = "%w: delta would exceed the ledger maximum"
)

// Log messages
const (
	LogMsgLedgerProvisioned = "Ledger provisioned"
	LogMsgLedgerExists      = "Ledger already provisioned"
	LogMsgDeltaRejected     = "Ledger delta rejected"
	LogMsgDeltaFailed       = "Ledger delta failed"
	LogMsgLedgerGranted     = "Ledger grant applied"
	LogMsgPublishFailed     = "Failed to publish ledger event"
)

const tracerName = "guildledger/ledger"
