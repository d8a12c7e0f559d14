// Package discord posts marketplace trades to a Discord channel webhook.
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/event"
	"github.com/osse101/guildledger/internal/logger"
	"github.com/osse101/guildledger/internal/worker"
)

// WebhookExecutor is the part of *discordgo.Session the announcer uses.
type WebhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Announcer turns listing.sold events into webhook posts. Posts run on a
// worker pool so a slow Discord never delays a trade.
type Announcer struct {
	client    WebhookExecutor
	webhookID string
	token     string
	pool      *worker.Pool
	printer   *message.Printer
	title     cases.Caser
}

// ParseWebhookURL splits https://discord.com/api/webhooks/{id}/{token}.
func ParseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", ErrMsgInvalidWebhookURL, err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", errors.New(ErrMsgInvalidWebhookURL)
}

// NewAnnouncer creates an announcer for webhookURL using a discordgo session.
func NewAnnouncer(webhookURL string, pool *worker.Pool) (*Announcer, error) {
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf(ErrMsgSessionFailed, err)
	}
	return NewAnnouncerWithClient(session, webhookURL, pool)
}

// NewAnnouncerWithClient creates an announcer that posts through client.
func NewAnnouncerWithClient(client WebhookExecutor, webhookURL string, pool *worker.Pool) (*Announcer, error) {
	id, token, err := ParseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	return &Announcer{
		client:    client,
		webhookID: id,
		token:     token,
		pool:      pool,
		printer:   message.NewPrinter(language.English),
		title:     cases.Title(language.English),
	}, nil
}

// Register subscribes the announcer to completed trades.
func (a *Announcer) Register(bus event.Bus) {
	bus.Subscribe(event.ListingSold, a.HandleEvent)
	logger.Info(LogMsgAnnouncerReady, "types", []event.Type{event.ListingSold})
}

// HandleEvent queues an announcement. It never fails delivery.
func (a *Announcer) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	p, err := event.DecodePayload[event.ListingPayloadV1](evt.Payload)
	if err != nil {
		log.Warn(LogMsgUnexpectedPayload, "type", evt.Type, "error", err)
		return nil
	}

	params := a.Format(p.Listing)
	queued := a.pool.TryEnqueue(worker.JobFunc(func(ctx context.Context) error {
		return a.send(ctx, params)
	}))
	if !queued {
		log.Warn(LogMsgAnnouncementDropped, "listing_id", p.Listing.ListingID)
		return nil
	}
	log.Debug(LogMsgAnnouncementQueued, "listing_id", p.Listing.ListingID)
	return nil
}

// Format renders a sold listing as a webhook message.
func (a *Announcer) Format(l domain.Listing) *discordgo.WebhookParams {
	buyer := "someone"
	if l.BuyerID != nil {
		buyer = *l.BuyerID
	}
	closedAt := l.CreatedAt
	if l.ClosedAt != nil {
		closedAt = *l.ClosedAt
	}

	desc := a.printer.Sprintf("**%s** bought %d %s from **%s** for %d gold (%d each).",
		buyer, l.Quantity, a.title.String(string(l.ItemType)), l.SellerID, l.Total(), l.UnitPrice)

	return &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       TitleMarketTrade,
			Description: desc,
			Color:       ColorTrade,
			Timestamp:   closedAt.UTC().Format(time.RFC3339),
			Footer:      &discordgo.MessageEmbedFooter{Text: FooterText},
		}},
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}
}

func (a *Announcer) send(ctx context.Context, params *discordgo.WebhookParams) error {
	if _, err := a.client.WebhookExecute(a.webhookID, a.token, false, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf(ErrMsgExecuteFailed, err)
	}
	logger.FromContext(ctx).Debug(LogMsgAnnouncementSent)
	return nil
}
