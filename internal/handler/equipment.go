package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/economy"
	"github.com/osse101/guildledger/internal/logger"
)

// PurchaseRequest buys one catalog item. Type, when set, must match the item's slot.
type PurchaseRequest struct {
	EquipmentID string `json:"equipment_id" validate:"required,max=64,excludesall=\x00\n\r\t"`
	Type        string `json:"type,omitempty" validate:"omitempty,slot"`
}

// SellRequest sells one owned item back to the shop.
type SellRequest struct {
	InventoryID string `json:"inventory_id" validate:"required,max=64"`
}

// SlotRequest equips item_id into the path slot, or empties the slot when omitted.
type SlotRequest struct {
	ItemID string `json:"item_id,omitempty" validate:"omitempty,max=64"`
}

// SlotResponse is the player's equipped map after a slot change.
type SlotResponse struct {
	Equipped map[domain.SlotType]domain.InventoryItem `json:"equipped"`
}

// EquipmentHandlers serves the shop, inventory and slot routes.
type EquipmentHandlers struct {
	svc economy.Service
}

// NewEquipmentHandlers creates the equipment handlers.
func NewEquipmentHandlers(svc economy.Service) *EquipmentHandlers {
	return &EquipmentHandlers{svc: svc}
}

// HandleShop lists catalog equipment and the caller's gold
// @Summary Browse the equipment shop
// @Tags equipment
// @Produce json
// @Param type query string false "Slot filter"
// @Success 200 {object} economy.ShopView
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/equipment/shop [get]
func (h *EquipmentHandlers) HandleShop() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := requirePlayer(w, r)
		if !ok {
			return
		}
		slot, ok := optionalSlot(w, r.URL.Query().Get("type"))
		if !ok {
			return
		}

		view, err := h.svc.Shop(r.Context(), playerID, slot)
		if err != nil {
			respondServiceError(w, r, "Shop", err)
			return
		}
		respondJSON(w, http.StatusOK, view)
	}
}

// HandlePurchase buys a catalog item
// @Summary Purchase equipment
// @Tags equipment
// @Accept json
// @Produce json
// @Param request body PurchaseRequest true "Item to buy"
// @Success 201 {object} economy.PurchaseResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/equipment/purchase [post]
func (h *EquipmentHandlers) HandlePurchase() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := requirePlayer(w, r)
		if !ok {
			return
		}

		var req PurchaseRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Purchase"); err != nil {
			return
		}
		slot, ok := optionalSlot(w, req.Type)
		if !ok {
			return
		}

		res, err := h.svc.Purchase(r.Context(), playerID, req.EquipmentID, slot)
		if err != nil {
			respondServiceError(w, r, "Purchase", err)
			return
		}

		logger.FromContext(r.Context()).Info("Equipment purchased",
			"equipment_id", res.EquipmentID, "inventory_id", res.InventoryID)
		respondJSON(w, http.StatusCreated, res)
	}
}

// HandleSell sells an owned item for half its catalog cost, rounded down
// @Summary Sell equipment
// @Tags equipment
// @Accept json
// @Produce json
// @Param request body SellRequest true "Item to sell"
// @Success 200 {object} economy.SellResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/equipment/sell [post]
func (h *EquipmentHandlers) HandleSell() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := requirePlayer(w, r)
		if !ok {
			return
		}

		var req SellRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Sell"); err != nil {
			return
		}

		res, err := h.svc.Sell(r.Context(), playerID, req.InventoryID)
		if err != nil {
			respondServiceError(w, r, "Sell", err)
			return
		}

		logger.FromContext(r.Context()).Info("Equipment sold",
			"inventory_id", res.InventoryID, "refund_gold", res.RefundGold)
		respondJSON(w, http.StatusOK, res)
	}
}

// HandleInventory returns equipped and unequipped items with total stats
// @Summary Get inventory
// @Tags equipment
// @Produce json
// @Success 200 {object} domain.InventoryView
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/equipment/inventory [get]
func (h *EquipmentHandlers) HandleInventory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := requirePlayer(w, r)
		if !ok {
			return
		}

		view, err := h.svc.Inventory(r.Context(), playerID)
		if err != nil {
			respondServiceError(w, r, "Inventory", err)
			return
		}
		respondJSON(w, http.StatusOK, view)
	}
}

// HandleSlot equips an item into a slot, swapping out the occupant, or empties it
// @Summary Equip or unequip a slot
// @Tags equipment
// @Accept json
// @Produce json
// @Param slot path string true "Slot"
// @Param request body SlotRequest false "Item to equip; omit to unequip"
// @Success 200 {object} SlotResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/equipment/slot/{slot} [post]
func (h *EquipmentHandlers) HandleSlot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := requirePlayer(w, r)
		if !ok {
			return
		}

		slot, err := domain.ParseSlot(chi.URLParam(r, "slot"))
		if err != nil {
			respondError(w, http.StatusBadRequest, domain.CodeInvalidInput, ErrMsgInvalidSlot)
			return
		}

		var req SlotRequest
		if err := DecodeOptionalRequest(r, w, &req, "Slot"); err != nil {
			return
		}

		var equipped map[domain.SlotType]domain.InventoryItem
		if req.ItemID == "" {
			equipped, err = h.svc.Unequip(r.Context(), playerID, slot)
		} else {
			equipped, err = h.svc.EquipOrSwap(r.Context(), playerID, req.ItemID, slot)
		}
		if err != nil {
			respondServiceError(w, r, "Slot", err)
			return
		}
		respondJSON(w, http.StatusOK, SlotResponse{Equipped: equipped})
	}
}
