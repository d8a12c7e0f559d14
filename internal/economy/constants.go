package economy

// Error messages
const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
	ErrMsgLockPlayerFailed        = "failed to lock player: %w"
	ErrMsgLookupFailed            = "failed to look up equipment: %w"
	ErrMsgDebitFailed             = "failed to debit purchase price: %w"
	ErrMsgCreditFailed            = "failed to credit refund: %w"
	ErrMsgGetLedgerFailed         = "failed to get ledger: %w"
	ErrMsgListCatalogFailed       = "failed to list catalog: %w"
	ErrFmtPurchaseSlotMismatch    = "%w: %s is %s equipment, not %s"
	ErrFmtEmptyField              = "%w: %s is required"
)

// Log messages
const (
	LogMsgItemPurchased     = "Equipment purchased"
	LogMsgItemSold          = "Equipment sold"
	LogMsgSlotChanged       = "Equipment slot changed"
	LogMsgOperationRejected = "Economy operation rejected"
	LogMsgOperationFailed   = "Economy operation failed"
	LogMsgPublishFailed     = "Failed to publish economy event"
)

// Operation names used for spans and logs
const (
	OpPurchase  = "economy.Purchase"
	OpSell      = "economy.Sell"
	OpEquip     = "economy.EquipOrSwap"
	OpUnequip   = "economy.Unequip"
	OpShop      = "economy.Shop"
	OpInventory = "economy.Inventory"

	tracerName = "guildledger/economy"
)
