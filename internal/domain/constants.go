package domain

import "math"

// Shop constants
const (
	// SellBackNumerator / SellBackDenominator is the 50% refund rate, applied with floor.
	SellBackNumerator   = 1
	SellBackDenominator = 2
)

// Marketplace constants
const (
	MinListingQuantity = 1
	MinUnitPrice       = 1
	MaxUnitPrice       = 1_000_000

	// MarketFilterAll selects listings of every resource type.
	MarketFilterAll = "all"
)

// MaxLedgerAmount bounds any single ledger field or total price.
const MaxLedgerAmount = math.MaxInt64

// BaseStats are every player's stats before equipment modifiers.
var BaseStats = Stats{Attack: 5, Defense: 5, Health: 100, Speed: 5}
