package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/guildledger/internal/domain"
)

// Type represents the type of an event
type Type string

// Event types follow the pattern <entity>.<action>.
const (
	EquipmentPurchased Type = "equipment.purchased"
	EquipmentSold      Type = "equipment.sold"
	ListingCreated     Type = "listing.created"
	ListingSold        Type = "listing.sold"
	ListingCancelled   Type = "listing.cancelled"
	LedgerProvisioned  Type = "ledger.provisioned"
	LedgerGranted      Type = "ledger.granted"
)

// ListingTypes are the event types carried by the market stream.
var ListingTypes = []Type{ListingCreated, ListingSold, ListingCancelled}

// Metadata carries request context that outlives the request itself.
type Metadata struct {
	RequestID  string    `json:"request_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Event represents a generic event in the system
type Event struct {
	Version  string   `json:"version"`
	Type     Type     `json:"type"`
	Payload  any      `json:"payload"`
	Metadata Metadata `json:"metadata"`
}

// EquipmentPurchasedPayloadV1 is published after a committed shop purchase.
type EquipmentPurchasedPayloadV1 struct {
	PlayerID    string `json:"player_id"`
	InventoryID string `json:"inventory_id"`
	EquipmentID string `json:"equipment_id"`
	CostGold    int64  `json:"cost_gold"`
}

// EquipmentSoldPayloadV1 is published after a committed sell-back.
type EquipmentSoldPayloadV1 struct {
	PlayerID    string `json:"player_id"`
	InventoryID string `json:"inventory_id"`
	EquipmentID string `json:"equipment_id"`
	RefundGold  int64  `json:"refund_gold"`
}

// ListingPayloadV1 is published for every listing state change.
type ListingPayloadV1 struct {
	Listing domain.Listing `json:"listing"`
}

// LedgerProvisionedPayloadV1 is published when a new ledger is created.
type LedgerProvisionedPayloadV1 struct {
	PlayerID string         `json:"player_id"`
	Balance  domain.Balance `json:"balance"`
}

// LedgerGrantedPayloadV1 is published after an administrative ledger adjustment.
type LedgerGrantedPayloadV1 struct {
	PlayerID string         `json:"player_id"`
	Delta    domain.Delta   `json:"delta"`
	Balance  domain.Balance `json:"balance"`
	Reason   string         `json:"reason,omitempty"`
}

func newEvent(t Type, requestID string, payload any) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    t,
		Payload: payload,
		Metadata: Metadata{
			RequestID:  requestID,
			OccurredAt: time.Now().UTC(),
		},
	}
}

// NewEquipmentPurchasedEvent creates an equipment.purchased event
func NewEquipmentPurchasedEvent(requestID string, p EquipmentPurchasedPayloadV1) Event {
	return newEvent(EquipmentPurchased, requestID, p)
}

// NewEquipmentSoldEvent creates an equipment.sold event
func NewEquipmentSoldEvent(requestID string, p EquipmentSoldPayloadV1) Event {
	return newEvent(EquipmentSold, requestID, p)
}

// NewListingEvent creates a listing event of type t
func NewListingEvent(t Type, requestID string, listing domain.Listing) Event {
	return newEvent(t, requestID, ListingPayloadV1{Listing: listing})
}

// NewLedgerProvisionedEvent creates a ledger.provisioned event
func NewLedgerProvisionedEvent(requestID string, p LedgerProvisionedPayloadV1) Event {
	return newEvent(LedgerProvisioned, requestID, p)
}

// NewLedgerGrantedEvent creates a ledger.granted event
func NewLedgerGrantedEvent(requestID string, p LedgerGrantedPayloadV1) Event {
	return newEvent(LedgerGranted, requestID, p)
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Publisher is the producing side of the bus. Services depend on this alone.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Bus defines the interface for an event bus
type Bus interface {
	Publisher
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber of the event type synchronously and joins their errors.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(ErrMsgHandlerErrorsFmt, len(errs), event.Type, errors.Join(errs...))
	}
	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
