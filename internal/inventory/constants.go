package inventory

// Error messages
const (
	ErrMsgAddItemFailed    = "failed to add item: %w"
	ErrMsgRemoveItemFailed = "failed to remove item: %w"
	ErrMsgEquipFailed      = "failed to equip item: %w"
	ErrMsgUnequipFailed    = "failed to unequip slot: %w"
	ErrMsgListFailed       = "failed to list inventory: %w"
	ErrMsgDefinitionFailed = "failed to resolve equipment %s: %w"
	ErrFmtSlotMismatch     = "%w: %s goes in %s, not %s"
)

// Log messages
const (
	LogMsgItemSwapped = "Swapped equipped item"
	LogMsgEquipNoop   = "Item already equipped in slot"
	LogMsgUnequipNoop = "Slot already empty"
)
