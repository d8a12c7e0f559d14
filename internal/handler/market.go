package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/logger"
	"github.com/osse101/guildledger/internal/market"
)

// CreateListingRequest offers quantity units of item_type at unit_price gold each.
// Quantity and price bounds are checked by the market service so they surface
// as INVALID_RANGE.
type CreateListingRequest struct {
	ItemType  string `json:"item_type" validate:"required,listable"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// ListingsResponse wraps a listing page.
type ListingsResponse struct {
	Listings []domain.Listing `json:"listings"`
}

// MarketHandlers serves the player marketplace.
type MarketHandlers struct {
	svc market.Service
}

// NewMarketHandlers creates the marketplace handlers.
func NewMarketHandlers(svc market.Service) *MarketHandlers {
	return &MarketHandlers{svc: svc}
}

// HandleBrowse lists active listings, cheapest first
// @Summary Browse the marketplace
// @Tags market
// @Produce json
// @Param type query string false "gems, metals, quartz or all"
// @Success 200 {object} ListingsResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/market [get]
func (h *MarketHandlers) HandleBrowse() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requirePlayer(w, r); !ok {
			return
		}

		filter := GetOptionalQueryParam(r, "type", domain.MarketFilterAll)
		listings, err := h.svc.Browse(r.Context(), filter)
		if err != nil {
			respondServiceError(w, r, "Browse market", err)
			return
		}
		respondJSON(w, http.StatusOK, ListingsResponse{Listings: nonNil(listings)})
	}
}

// HandleMine lists the caller's listings in every state, newest first
// @Summary My listings
// @Tags market
// @Produce json
// @Success 200 {object} ListingsResponse
// @Router /api/v1/market/listings/mine [get]
func (h *MarketHandlers) HandleMine() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := requirePlayer(w, r)
		if !ok {
			return
		}

		listings, err := h.svc.MyListings(r.Context(), playerID)
		if err != nil {
			respondServiceError(w, r, "My listings", err)
			return
		}
		respondJSON(w, http.StatusOK, ListingsResponse{Listings: nonNil(listings)})
	}
}

// HandleCreate reserves resources and opens a listing
// @Summary Create listing
// @Tags market
// @Accept json
// @Produce json
// @Param request body CreateListingRequest true "Listing terms"
// @Success 201 {object} domain.Listing
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/market/listings [post]
func (h *MarketHandlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := requirePlayer(w, r)
		if !ok {
			return
		}

		var req CreateListingRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Create listing"); err != nil {
			return
		}

		listing, err := h.svc.CreateListing(r.Context(), playerID, domain.Resource(req.ItemType), req.Quantity, req.UnitPrice)
		if err != nil {
			respondServiceError(w, r, "Create listing", err)
			return
		}

		logger.FromContext(r.Context()).Info("Listing created",
			"listing_id", listing.ListingID, "item_type", listing.ItemType, "quantity", listing.Quantity)
		respondJSON(w, http.StatusCreated, listing)
	}
}

// HandleCancel closes an active listing and returns its resources to the seller
// @Summary Cancel listing
// @Tags market
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} market.CancelResult
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/market/listings/{id} [delete]
func (h *MarketHandlers) HandleCancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := requirePlayer(w, r)
		if !ok {
			return
		}

		res, err := h.svc.CancelListing(r.Context(), playerID, chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, r, "Cancel listing", err)
			return
		}

		logger.FromContext(r.Context()).Info("Listing cancelled",
			"listing_id", res.Listing.ListingID, "refunded", res.Refunded)
		respondJSON(w, http.StatusOK, res)
	}
}

// HandleBuy buys a whole listing
// @Summary Buy listing
// @Tags market
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} market.BuyResult
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/market/listings/{id}/buy [post]
func (h *MarketHandlers) HandleBuy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := requirePlayer(w, r)
		if !ok {
			return
		}

		res, err := h.svc.Buy(r.Context(), playerID, chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, r, "Buy listing", err)
			return
		}

		logger.FromContext(r.Context()).Info("Listing bought",
			"listing_id", res.Listing.ListingID, "total_gold", res.TotalGold)
		respondJSON(w, http.StatusOK, res)
	}
}

func nonNil(listings []domain.Listing) []domain.Listing {
	if listings == nil {
		return []domain.Listing{}
	}
	return listings
}
