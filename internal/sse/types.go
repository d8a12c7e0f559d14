package sse

import "github.com/osse101/guildledger/internal/domain"

// MarketUpdatePayload is the stream view of a listing change. It omits the
// buyer so spectators cannot see who bought what.
type MarketUpdatePayload struct {
	ListingID string               `json:"listing_id"`
	SellerID  string               `json:"seller_id"`
	ItemType  domain.Resource      `json:"item_type"`
	Quantity  int64                `json:"quantity"`
	UnitPrice int64                `json:"unit_price"`
	Status    domain.ListingStatus `json:"status"`
}

// NewMarketUpdatePayload projects a listing for the stream.
func NewMarketUpdatePayload(l domain.Listing) MarketUpdatePayload {
	return MarketUpdatePayload{
		ListingID: l.ListingID,
		SellerID:  l.SellerID,
		ItemType:  l.ItemType,
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice,
		Status:    l.Status,
	}
}
