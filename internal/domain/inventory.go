package domain

import "time"

// InventoryItem is one owned instance of a catalog definition.
type InventoryItem struct {
	InventoryID  string    `json:"inventory_id"`
	OwnerID      string    `json:"owner_id"`
	EquipmentID  string    `json:"equipment_id"`
	EquippedSlot *SlotType `json:"equipped_slot"`
	AcquiredAt   time.Time `json:"acquired_at"`
}

// IsEquipped reports whether the item occupies a slot.
func (i InventoryItem) IsEquipped() bool {
	return i.EquippedSlot != nil
}

// OwnedEquipment pairs an owned item with its definition for display.
type OwnedEquipment struct {
	InventoryItem
	Equipment Equipment `json:"equipment"`
}

// InventoryView is the read model behind the inventory screen.
type InventoryView struct {
	Equipped   map[SlotType]OwnedEquipment `json:"equipped"`
	Unequipped []OwnedEquipment            `json:"unequipped"`
	Stats      Stats                       `json:"stats"`
}
