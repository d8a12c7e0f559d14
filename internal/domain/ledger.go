package domain

import (
	"fmt"
	"time"
)

// Resource names a ledger balance field.
type Resource string

const (
	ResourceGold   Resource = "gold"
	ResourceGems   Resource = "gems"
	ResourceMetals Resource = "metals"
	ResourceQuartz Resource = "quartz"
)

// ListableResources are the resources a player may offer on the marketplace.
// Gold is the settlement currency and is never listed.
var ListableResources = []Resource{ResourceGems, ResourceMetals, ResourceQuartz}

// ParseResource validates a resource name.
func ParseResource(s string) (Resource, error) {
	switch r := Resource(s); r {
	case ResourceGold, ResourceGems, ResourceMetals, ResourceQuartz:
		return r, nil
	}
	return "", fmt.Errorf("%w: unknown resource %q", ErrInvalidInput, s)
}

// IsListable reports whether r may be offered on the marketplace.
func (r Resource) IsListable() bool {
	for _, l := range ListableResources {
		if l == r {
			return true
		}
	}
	return false
}

// Balance is a snapshot of one player's ledger.
type Balance struct {
	Gold   int64 `json:"gold"`
	Gems   int64 `json:"gems"`
	Metals int64 `json:"metals"`
	Quartz int64 `json:"quartz"`
}

// Get returns the amount held of r.
func (b Balance) Get(r Resource) int64 {
	switch r {
	case ResourceGold:
		return b.Gold
	case ResourceGems:
		return b.Gems
	case ResourceMetals:
		return b.Metals
	case ResourceQuartz:
		return b.Quartz
	}
	return 0
}

// Valid reports whether every field is non-negative.
func (b Balance) Valid() bool {
	return b.Gold >= 0 && b.Gems >= 0 && b.Metals >= 0 && b.Quartz >= 0
}

// Ledger is the persisted per-player balance record.
type Ledger struct {
	PlayerID string `json:"player_id"`
	Balance
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Delta is a signed change to a ledger. The guard applied with every delta
// rejects any result below zero.
type Delta struct {
	Gold   int64 `json:"gold"`
	Gems   int64 `json:"gems"`
	Metals int64 `json:"metals"`
	Quartz int64 `json:"quartz"`
}

// DeltaOf returns a delta touching a single resource.
func DeltaOf(r Resource, amount int64) Delta {
	var d Delta
	switch r {
	case ResourceGold:
		d.Gold = amount
	case ResourceGems:
		d.Gems = amount
	case ResourceMetals:
		d.Metals = amount
	case ResourceQuartz:
		d.Quartz = amount
	}
	return d
}

// IsZero reports whether d changes nothing.
func (d Delta) IsZero() bool {
	return d == Delta{}
}

// Overflows reports whether adding d would push any field past MaxLedgerAmount.
func (b Balance) Overflows(d Delta) bool {
	return addOverflows(b.Gold, d.Gold) ||
		addOverflows(b.Gems, d.Gems) ||
		addOverflows(b.Metals, d.Metals) ||
		addOverflows(b.Quartz, d.Quartz)
}

func addOverflows(have, add int64) bool {
	return add > 0 && have > MaxLedgerAmount-add
}

// Apply returns b with d added.
func (b Balance) Apply(d Delta) Balance {
	return Balance{
		Gold:   b.Gold + d.Gold,
		Gems:   b.Gems + d.Gems,
		Metals: b.Metals + d.Metals,
		Quartz: b.Quartz + d.Quartz,
	}
}
