package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/logger"
	"github.com/osse101/guildledger/internal/middleware"
)

// DecodeAndValidateRequest decodes a JSON request body into req, rejecting
// unknown fields, then validates its tags.
//
// If this function returns an error, the HTTP response has already been written
// and the handler should return.
//
// Example usage:
//
//	var req PurchaseRequest
//	if err := DecodeAndValidateRequest(r, w, &req, "Purchase"); err != nil {
//	    return
//	}
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req any, actionName string) error {
	return decodeAndValidate(r, w, req, actionName, false)
}

// DecodeOptionalRequest is DecodeAndValidateRequest for endpoints whose body may be
// omitted. An empty body leaves req at its zero value.
func DecodeOptionalRequest(r *http.Request, w http.ResponseWriter, req any, actionName string) error {
	return decodeAndValidate(r, w, req, actionName, true)
}

func decodeAndValidate(r *http.Request, w http.ResponseWriter, req any, actionName string, allowEmpty bool) error {
	log := logger.FromContext(r.Context())

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		if !(allowEmpty && errors.Is(err, io.EOF)) {
			log.Debug(fmt.Sprintf("Failed to decode %s request", actionName), "error", err)
			respondError(w, http.StatusBadRequest, domain.CodeInvalidInput, ErrMsgInvalidRequest)
			return err
		}
	}

	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
			Code:    CodeValidation,
			Message: ErrMsgInvalidRequestSummary,
			Fields:  FormatValidationError(err),
		}})
		return err
	}

	log.Debug(fmt.Sprintf("%s request decoded", actionName))
	return nil
}

// requirePlayer returns the authenticated player. The session middleware runs
// before every player route, so a miss here is a wiring fault.
func requirePlayer(w http.ResponseWriter, r *http.Request) (string, bool) {
	playerID := middleware.PlayerIDFromContext(r.Context())
	if playerID == middleware.EmptyPlayerID {
		respondError(w, http.StatusUnauthorized, middleware.CodeUnauthenticated, ErrMsgMissingPlayer)
		return "", false
	}
	return playerID, true
}

// GetOptionalQueryParam retrieves an optional query parameter from the request.
func GetOptionalQueryParam(r *http.Request, paramName string, defaultValue string) string {
	value := r.URL.Query().Get(paramName)
	if value == "" {
		return defaultValue
	}
	return value
}

// optionalSlot parses an optional slot query value. It writes a 400 and returns
// false when the value is present but unknown.
func optionalSlot(w http.ResponseWriter, raw string) (*domain.SlotType, bool) {
	if raw == "" {
		return nil, true
	}
	slot, err := domain.ParseSlot(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, domain.CodeInvalidInput, ErrMsgInvalidSlot)
		return nil, false
	}
	return &slot, true
}
