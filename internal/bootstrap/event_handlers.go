package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/guildledger/internal/config"
	"github.com/osse101/guildledger/internal/discord"
	"github.com/osse101/guildledger/internal/event"
	"github.com/osse101/guildledger/internal/metrics"
	"github.com/osse101/guildledger/internal/sse"
	"github.com/osse101/guildledger/internal/worker"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus event.Bus
	Hub      *sse.Hub
	Pool     *worker.Pool
	Config   *config.Config
}

// RegisterEventHandlers subscribes the metrics collector, the market stream
// and, when a webhook is configured, the Discord trade announcer.
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	metrics.NewEventMetricsCollector().Register(deps.EventBus)
	slog.Info(LogMsgMetricsCollectorRegistered)

	if deps.Hub != nil {
		sse.NewSubscriber(deps.Hub, deps.EventBus).Subscribe()
		slog.Info(LogMsgStreamSubscriberRegistered)
	}

	if deps.Config.DiscordWebhookURL == "" {
		slog.Info(LogMsgAnnouncerDisabled)
		return nil
	}

	announcer, err := discord.NewAnnouncer(deps.Config.DiscordWebhookURL, deps.Pool)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedCreateAnnouncer, err)
	}
	announcer.Register(deps.EventBus)
	slog.Info(LogMsgAnnouncerRegistered)

	return nil
}
