package discord

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/event"
	"github.com/osse101/guildledger/internal/worker"
)

type mockWebhook struct {
	mock.Mock
}

func (m *mockWebhook) WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := m.Called(webhookID, token, wait, data)
	return nil, args.Error(0)
}

const testWebhookURL = "https://discord.com/api/webhooks/123456/s3cr3t-token"

func soldListing() domain.Listing {
	buyer := "bob"
	closed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return domain.Listing{
		ListingID: "l1", SellerID: "alice", ItemType: domain.ResourceMetals,
		Quantity: 50, UnitPrice: 1200, Status: domain.ListingSold,
		BuyerID: &buyer, CreatedAt: closed.Add(-time.Hour), ClosedAt: &closed,
	}
}

func TestParseWebhookURL(t *testing.T) {
	id, token, err := ParseWebhookURL(testWebhookURL)
	require.NoError(t, err)
	assert.Equal(t, "123456", id)
	assert.Equal(t, "s3cr3t-token", token)

	for _, bad := range []string{"https://discord.com/api/webhooks/123", "not a url at all", "https://example.com/"} {
		_, _, err := ParseWebhookURL(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormat(t *testing.T) {
	a, err := NewAnnouncerWithClient(new(mockWebhook), testWebhookURL, worker.NewPool(1, 1, time.Second))
	require.NoError(t, err)

	params := a.Format(soldListing())
	require.Len(t, params.Embeds, 1)
	embed := params.Embeds[0]
	assert.Equal(t, TitleMarketTrade, embed.Title)
	assert.Equal(t, "**bob** bought 50 Metals from **alice** for 60,000 gold (1,200 each).", embed.Description)
	assert.Equal(t, "2026-01-02T03:04:05Z", embed.Timestamp)
}

func TestHandleEvent_PostsThroughPool(t *testing.T) {
	client := new(mockWebhook)
	client.On("WebhookExecute", "123456", "s3cr3t-token", false, mock.Anything).Return(nil).Once()

	pool := worker.NewPool(1, 4, time.Second)
	pool.Start()
	a, err := NewAnnouncerWithClient(client, testWebhookURL, pool)
	require.NoError(t, err)

	bus := event.NewMemoryBus()
	a.Register(bus)
	require.NoError(t, bus.Publish(context.Background(), event.NewListingEvent(event.ListingSold, "req", soldListing())))
	// Other listing events are not announced.
	require.NoError(t, bus.Publish(context.Background(), event.NewListingEvent(event.ListingCreated, "req", soldListing())))

	pool.Stop()
	client.AssertExpectations(t)
}

func TestHandleEvent_WebhookFailureIsSwallowed(t *testing.T) {
	client := new(mockWebhook)
	client.On("WebhookExecute", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("429"))

	pool := worker.NewPool(1, 4, time.Second)
	pool.Start()
	a, err := NewAnnouncerWithClient(client, testWebhookURL, pool)
	require.NoError(t, err)

	err = a.HandleEvent(context.Background(), event.NewListingEvent(event.ListingSold, "", soldListing()))
	assert.NoError(t, err)
	pool.Stop()
	client.AssertNumberOfCalls(t, "WebhookExecute", 1)
}
