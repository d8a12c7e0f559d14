package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/ledger"
)

// BalanceResponse is a player's ledger.
type BalanceResponse struct {
	PlayerID string         `json:"player_id"`
	Balance  domain.Balance `json:"balance"`
}

// ProvisionRequest creates a ledger. Opening defaults to the configured starting gold.
type ProvisionRequest struct {
	PlayerID string          `json:"player_id" validate:"required,max=64,excludesall=\x00\n\r\t "`
	Opening  *domain.Balance `json:"opening,omitempty"`
}

// ProvisionResponse reports whether the ledger was created by this call.
type ProvisionResponse struct {
	Ledger  *domain.Ledger `json:"ledger"`
	Created bool           `json:"created"`
}

// GrantRequest applies a signed delta from an external system.
type GrantRequest struct {
	Delta  domain.Delta `json:"delta"`
	Reason string       `json:"reason" validate:"required,max=200"`
}

// LedgerHandlers serves balance reads and the admin ledger routes.
type LedgerHandlers struct {
	svc ledger.Service
}

// NewLedgerHandlers creates the ledger handlers.
func NewLedgerHandlers(svc ledger.Service) *LedgerHandlers {
	return &LedgerHandlers{svc: svc}
}

// HandleGetLedger returns the caller's balance
// @Summary Get balance
// @Tags ledger
// @Produce json
// @Success 200 {object} BalanceResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/ledger [get]
func (h *LedgerHandlers) HandleGetLedger() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := requirePlayer(w, r)
		if !ok {
			return
		}

		balance, err := h.svc.GetBalance(r.Context(), playerID)
		if err != nil {
			respondServiceError(w, r, "Get ledger", err)
			return
		}
		respondJSON(w, http.StatusOK, BalanceResponse{PlayerID: playerID, Balance: balance})
	}
}

// HandleProvision creates a player's ledger. Repeating the call is harmless.
// @Summary Provision a player ledger
// @Tags admin
// @Accept json
// @Produce json
// @Param request body ProvisionRequest true "Player"
// @Success 201 {object} ProvisionResponse
// @Success 200 {object} ProvisionResponse
// @Failure 400 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/players [post]
func (h *LedgerHandlers) HandleProvision() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProvisionRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Provision"); err != nil {
			return
		}

		l, created, err := h.svc.Provision(r.Context(), req.PlayerID, req.Opening)
		if err != nil {
			respondServiceError(w, r, "Provision", err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		respondJSON(w, status, ProvisionResponse{Ledger: l, Created: created})
	}
}

// HandleGrant credits or debits a player, for combat rewards and corrections
// @Summary Grant resources
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Player ID"
// @Param request body GrantRequest true "Signed delta"
// @Success 200 {object} BalanceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/players/{id}/grant [post]
func (h *LedgerHandlers) HandleGrant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := chi.URLParam(r, "id")

		var req GrantRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Grant"); err != nil {
			return
		}

		balance, err := h.svc.Grant(r.Context(), playerID, req.Delta, req.Reason)
		if err != nil {
			respondServiceError(w, r, "Grant", err)
			return
		}

		respondJSON(w, http.StatusOK, BalanceResponse{PlayerID: playerID, Balance: balance})
	}
}
