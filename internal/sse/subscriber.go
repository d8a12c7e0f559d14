package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/guildledger/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// Subscribe registers the listing handlers on the bus
func (s *Subscriber) Subscribe() {
	types := make([]string, 0, len(event.ListingTypes))
	for _, t := range event.ListingTypes {
		s.bus.Subscribe(t, s.handleListingEvent)
		types = append(types, string(t))
	}
	slog.Info(LogMsgSubscriberReady, "types", types)
}

// handleListingEvent never fails delivery: a bad payload is logged and dropped.
func (s *Subscriber) handleListingEvent(_ context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.ListingPayloadV1](evt.Payload)
	if err != nil {
		slog.Warn(LogMsgUnexpectedPayload, "type", evt.Type, "error", err)
		return nil
	}

	s.hub.Broadcast(string(evt.Type), NewMarketUpdatePayload(p.Listing))
	slog.Debug(LogMsgEventBroadcast, "event_type", evt.Type, "listing_id", p.Listing.ListingID)
	return nil
}
