package metrics

import (
	"context"

	"github.com/osse101/guildledger/internal/event"
	"github.com/osse101/guildledger/internal/logger"
)

// EventMetricsCollector subscribes to domain events and records business metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to every event type the collector understands
func (e *EventMetricsCollector) Register(bus event.Bus) {
	for _, t := range []event.Type{
		event.EquipmentPurchased,
		event.EquipmentSold,
		event.ListingCreated,
		event.ListingSold,
		event.ListingCancelled,
		event.LedgerProvisioned,
		event.LedgerGranted,
	} {
		bus.Subscribe(t, e.HandleEvent)
	}
}

// HandleEvent updates metrics for one event. It never fails delivery.
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.EquipmentPurchased:
		p, err := event.DecodePayload[event.EquipmentPurchasedPayloadV1](evt.Payload)
		if err != nil {
			return e.skip(ctx, evt, err)
		}
		EquipmentPurchased.WithLabelValues(p.EquipmentID).Inc()
		GoldSpent.Add(float64(p.CostGold))

	case event.EquipmentSold:
		p, err := event.DecodePayload[event.EquipmentSoldPayloadV1](evt.Payload)
		if err != nil {
			return e.skip(ctx, evt, err)
		}
		EquipmentSold.WithLabelValues(p.EquipmentID).Inc()
		GoldRefunded.Add(float64(p.RefundGold))

	case event.ListingCreated, event.ListingSold, event.ListingCancelled:
		p, err := event.DecodePayload[event.ListingPayloadV1](evt.Payload)
		if err != nil {
			return e.skip(ctx, evt, err)
		}
		itemType := string(p.Listing.ItemType)
		Listings.WithLabelValues(itemType, listingOutcome(evt.Type)).Inc()
		if evt.Type == event.ListingSold {
			MarketVolume.WithLabelValues(itemType).Add(float64(p.Listing.Total()))
		}
	}
	return nil
}

// RecordOperationError counts a failed economy operation by its error code.
func RecordOperationError(code string) {
	OperationErrors.WithLabelValues(code).Inc()
}

func (e *EventMetricsCollector) skip(ctx context.Context, evt event.Event, err error) error {
	logger.FromContext(ctx).Debug(LogMsgUnexpectedPayload, "type", evt.Type, "error", err)
	return nil
}

func listingOutcome(t event.Type) string {
	switch t {
	case event.ListingSold:
		return OutcomeSold
	case event.ListingCancelled:
		return OutcomeCancelled
	default:
		return OutcomeCreated
	}
}
