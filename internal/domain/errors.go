package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Ledger errors
	ErrMsgPlayerNotFound    = "player not found"
	ErrMsgInsufficientFunds = "insufficient funds"

	// Inventory errors
	ErrMsgItemNotFound         = "Item not found in inventory."
	ErrMsgSlotMismatch         = "item does not fit that slot"
	ErrMsgInsufficientQuantity = "insufficient quantity"

	// Catalog errors
	ErrMsgNotFound = "not found"

	// Marketplace errors
	ErrMsgNotOwner         = "listing belongs to another player"
	ErrMsgSelfTrade        = "cannot buy your own listing"
	ErrMsgListingNotActive = "listing is not active"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
	ErrMsgInvalidRange = "value out of range"

	// Database/System errors
	ErrMsgTransient = "temporarily unavailable, retry"
)

// Stable error codes returned to API clients.
const (
	CodePlayerNotFound       = "PLAYER_NOT_FOUND"
	CodeInsufficientFunds    = "INSUFFICIENT_FUNDS"
	CodeItemNotFound         = "ITEM_NOT_FOUND"
	CodeSlotMismatch         = "SLOT_MISMATCH"
	CodeInsufficientQuantity = "INSUFFICIENT_QUANTITY"
	CodeNotFound             = "NOT_FOUND"
	CodeNotOwner             = "NOT_OWNER"
	CodeSelfTrade            = "SELF_TRADE"
	CodeListingNotActive     = "LISTING_NOT_ACTIVE"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeInvalidRange         = "INVALID_RANGE"
	CodeTransient            = "TRANSIENT"
	CodeInternal             = "INTERNAL"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrPlayerNotFound    = errors.New(ErrMsgPlayerNotFound)
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)

	ErrItemNotFound         = errors.New(ErrMsgItemNotFound)
	ErrSlotMismatch         = errors.New(ErrMsgSlotMismatch)
	ErrInsufficientQuantity = errors.New(ErrMsgInsufficientQuantity)

	ErrNotFound = errors.New(ErrMsgNotFound)

	ErrNotOwner         = errors.New(ErrMsgNotOwner)
	ErrSelfTrade        = errors.New(ErrMsgSelfTrade)
	ErrListingNotActive = errors.New(ErrMsgListingNotActive)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
	ErrInvalidRange = errors.New(ErrMsgInvalidRange)

	// ErrTransient marks store failures (timeouts, lost connections, serialization
	// conflicts) that rolled back cleanly and may be retried by the caller.
	ErrTransient = errors.New(ErrMsgTransient)
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrTransient, CodeTransient},
	{ErrPlayerNotFound, CodePlayerNotFound},
	{ErrInsufficientFunds, CodeInsufficientFunds},
	{ErrItemNotFound, CodeItemNotFound},
	{ErrSlotMismatch, CodeSlotMismatch},
	{ErrInsufficientQuantity, CodeInsufficientQuantity},
	{ErrNotOwner, CodeNotOwner},
	{ErrSelfTrade, CodeSelfTrade},
	{ErrListingNotActive, CodeListingNotActive},
	{ErrNotFound, CodeNotFound},
	{ErrInvalidRange, CodeInvalidRange},
	{ErrInvalidInput, CodeInvalidInput},
}

// Code returns the stable code of the most specific domain error in err's chain,
// or CodeInternal when err carries none.
func Code(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return CodeInternal
}

// IsBusinessError reports whether err is an expected rule violation rather than
// an infrastructure failure.
func IsBusinessError(err error) bool {
	code := Code(err)
	return code != CodeInternal && code != CodeTransient
}
