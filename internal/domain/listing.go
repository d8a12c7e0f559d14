package domain

import (
	"fmt"
	"math/bits"
	"time"
)

// ListingStatus is the lifecycle state of a marketplace listing.
// active is the only non-terminal state.
type ListingStatus string

const (
	ListingActive    ListingStatus = "active"
	ListingSold      ListingStatus = "sold"
	ListingCancelled ListingStatus = "cancelled"
)

// Listing is a standing offer of a fixed quantity of one resource at a fixed unit price.
// Its resources were removed from the seller's ledger when the listing was created.
type Listing struct {
	ListingID string        `json:"listing_id"`
	SellerID  string        `json:"seller_id"`
	ItemType  Resource      `json:"item_type"`
	Quantity  int64         `json:"quantity"`
	UnitPrice int64         `json:"unit_price"`
	Status    ListingStatus `json:"status"`
	BuyerID   *string       `json:"buyer_id,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	ClosedAt  *time.Time    `json:"closed_at,omitempty"`
}

// IsActive reports whether the listing can still be bought or cancelled.
func (l Listing) IsActive() bool {
	return l.Status == ListingActive
}

// Total is the gold price of the whole listing.
func (l Listing) Total() int64 {
	return l.Quantity * l.UnitPrice
}

// ValidateListingTerms checks quantity and unit price bounds and that the total
// price is representable.
func ValidateListingTerms(quantity, unitPrice int64) error {
	if quantity < MinListingQuantity {
		return fmt.Errorf("%w: quantity must be at least %d", ErrInvalidRange, MinListingQuantity)
	}
	if unitPrice < MinUnitPrice || unitPrice > MaxUnitPrice {
		return fmt.Errorf("%w: unit_price must be between %d and %d", ErrInvalidRange, MinUnitPrice, MaxUnitPrice)
	}
	hi, lo := bits.Mul64(uint64(quantity), uint64(unitPrice))
	if hi != 0 || lo > MaxLedgerAmount {
		return fmt.Errorf("%w: total price overflows", ErrInvalidRange)
	}
	return nil
}
