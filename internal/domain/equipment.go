package domain

import "fmt"

// SlotType is an equip position. A player holds at most one item per slot.
type SlotType string

const (
	SlotWeapon    SlotType = "weapon"
	SlotArmor     SlotType = "armor"
	SlotHelmet    SlotType = "helmet"
	SlotBoots     SlotType = "boots"
	SlotAccessory SlotType = "accessory"
)

// AllSlots lists slots in display order.
var AllSlots = []SlotType{SlotWeapon, SlotArmor, SlotHelmet, SlotBoots, SlotAccessory}

// ParseSlot validates a slot name.
func ParseSlot(s string) (SlotType, error) {
	for _, slot := range AllSlots {
		if string(slot) == s {
			return slot, nil
		}
	}
	return "", fmt.Errorf("%w: unknown slot %q", ErrInvalidInput, s)
}

// Stats are combat modifiers. Equipment stats add to the player's base stats.
type Stats struct {
	Attack  int `json:"attack" yaml:"attack"`
	Defense int `json:"defense" yaml:"defense"`
	Health  int `json:"health" yaml:"health"`
	Speed   int `json:"speed" yaml:"speed"`
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Attack:  s.Attack + o.Attack,
		Defense: s.Defense + o.Defense,
		Health:  s.Health + o.Health,
		Speed:   s.Speed + o.Speed,
	}
}

// Equipment is an immutable catalog definition.
type Equipment struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	SlotType SlotType `json:"slot_type"`
	CostGold int64    `json:"cost_gold"`
	Stats    Stats    `json:"stats"`
}

// SellBackPrice is the refund for selling an item back to the shop:
// half the catalog cost, rounded down.
func (e Equipment) SellBackPrice() int64 {
	return e.CostGold * SellBackNumerator / SellBackDenominator
}
