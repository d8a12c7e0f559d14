package handler

import (
	"errors"
	"net/http"

	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/logger"
)

// Handler-specific error messages
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request. Please check your inputs."
	ErrMsgMissingPlayer         = "Missing authenticated player"
	ErrMsgInvalidSlot           = "Unknown equipment slot"
	ErrMsgInvalidMarketFilter   = "Unknown resource filter"
)

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnavailableError   = "Server is temporarily unavailable. Please try again."

	ErrMsgPlayerNotFoundError       = "Player not found"
	ErrMsgNotEnoughMoneyError       = "Not enough gold"
	ErrMsgItemNotFoundError         = "Item not found in inventory."
	ErrMsgSlotMismatchError         = "That item does not fit that slot"
	ErrMsgInsufficientQuantityError = "Not enough resources"
	ErrMsgNotFoundError             = "Not found"
	ErrMsgNotOwnerError             = "That listing belongs to another player"
	ErrMsgSelfTradeError            = "You cannot buy your own listing"
	ErrMsgListingNotActiveError     = "That listing is no longer active"
	ErrMsgInvalidInputError         = "Invalid input"
	ErrMsgInvalidRangeError         = "Value out of range"
)

// Error codes that do not come from the domain
const (
	CodeValidation = "VALIDATION_FAILED"
)

// RetryAfterSeconds is sent with 503 responses for transient store failures.
const RetryAfterSeconds = "1"

// Log messages
const (
	LogMsgRequestFailed  = "Request failed"
	LogMsgBusinessReject = "Request rejected"
)

// ErrorDetail is the body of every error response.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorResponse wraps ErrorDetail as {"error": {...}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// mapServiceErrorToUserMessage converts a service error to an HTTP status, a
// stable error code and a message safe to show the player.
func mapServiceErrorToUserMessage(err error) (int, string, string) {
	if err == nil {
		return http.StatusInternalServerError, domain.CodeInternal, ErrMsgGenericServerError
	}

	code := domain.Code(err)
	switch {
	case errors.Is(err, domain.ErrTransient):
		return http.StatusServiceUnavailable, code, ErrMsgUnavailableError
	case errors.Is(err, domain.ErrPlayerNotFound):
		return http.StatusNotFound, code, ErrMsgPlayerNotFoundError
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, code, ErrMsgItemNotFoundError
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, code, ErrMsgNotFoundError
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden, code, ErrMsgNotOwnerError
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusConflict, code, ErrMsgNotEnoughMoneyError
	case errors.Is(err, domain.ErrInsufficientQuantity):
		return http.StatusConflict, code, ErrMsgInsufficientQuantityError
	case errors.Is(err, domain.ErrSlotMismatch):
		return http.StatusConflict, code, ErrMsgSlotMismatchError
	case errors.Is(err, domain.ErrSelfTrade):
		return http.StatusConflict, code, ErrMsgSelfTradeError
	case errors.Is(err, domain.ErrListingNotActive):
		return http.StatusConflict, code, ErrMsgListingNotActiveError
	case errors.Is(err, domain.ErrInvalidRange):
		return http.StatusBadRequest, code, ErrMsgInvalidRangeError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, code, ErrMsgInvalidInputError
	}

	return http.StatusInternalServerError, domain.CodeInternal, ErrMsgGenericServerError
}

// respondError writes {"error": {"code", "message"}}.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// respondServiceError logs err and writes the mapped error response. Internal
// errors never reach the client verbatim.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, code, message := mapServiceErrorToUserMessage(err)

	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(LogMsgRequestFailed, "operation", opName, "code", code, "error", err)
	} else {
		log.Debug(LogMsgBusinessReject, "operation", opName, "code", code, "error", err)
	}

	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", RetryAfterSeconds)
	}
	respondError(w, status, code, message)
}
