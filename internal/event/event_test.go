package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/guildledger/internal/domain"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	var got []Event

	bus.Subscribe(ListingCreated, func(ctx context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	listing := domain.Listing{ListingID: "l1", SellerID: "s1", Status: domain.ListingActive}
	require.NoError(t, bus.Publish(context.Background(), NewListingEvent(ListingCreated, "req-1", listing)))
	require.NoError(t, bus.Publish(context.Background(), NewListingEvent(ListingSold, "req-2", listing)))

	require.Len(t, got, 1)
	assert.Equal(t, EventSchemaVersion, got[0].Version)
	assert.Equal(t, "req-1", got[0].Metadata.RequestID)
	assert.False(t, got[0].Metadata.OccurredAt.IsZero())

	payload, err := DecodePayload[ListingPayloadV1](got[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, "l1", payload.Listing.ListingID)
}

func TestMemoryBus_MultipleHandlers(t *testing.T) {
	bus := NewMemoryBus()
	count := 0
	handler := func(ctx context.Context, e Event) error {
		count++
		return nil
	}
	bus.Subscribe(EquipmentSold, handler)
	bus.Subscribe(EquipmentSold, handler)

	require.NoError(t, bus.Publish(context.Background(), Event{Type: EquipmentSold}))
	assert.Equal(t, 2, count)
}

func TestMemoryBus_JoinsHandlerErrors(t *testing.T) {
	bus := NewMemoryBus()
	boom := errors.New("handler error")
	bus.Subscribe(EquipmentSold, func(ctx context.Context, e Event) error { return boom })
	bus.Subscribe(EquipmentSold, func(ctx context.Context, e Event) error { return nil })

	err := bus.Publish(context.Background(), Event{Type: EquipmentSold})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "1 handler(s) failed")
}

func TestDecodePayload_FromGenericJSON(t *testing.T) {
	generic := map[string]any{"player_id": "p1", "refund_gold": float64(50)}

	p, err := DecodePayload[EquipmentSoldPayloadV1](generic)

	require.NoError(t, err)
	assert.Equal(t, "p1", p.PlayerID)
	assert.Equal(t, int64(50), p.RefundGold)
}

func TestCalculateRetryDelay(t *testing.T) {
	assert.Equal(t, DefaultRetryDelay, CalculateRetryDelay(DefaultRetryDelay, 1))
	assert.Equal(t, 4*DefaultRetryDelay, CalculateRetryDelay(DefaultRetryDelay, 3))
}
