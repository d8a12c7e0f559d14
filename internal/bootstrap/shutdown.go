package bootstrap

import (
	"context"
	"io"
	"log/slog"

	"github.com/osse101/guildledger/internal/event"
	"github.com/osse101/guildledger/internal/server"
	"github.com/osse101/guildledger/internal/sse"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil members are skipped.
type ShutdownComponents struct {
	Server             *server.Server
	Hub                *sse.Hub
	Background         *Background
	ResilientPublisher *event.ResilientPublisher
	DeadLetter         io.Closer
	Telemetry          func(context.Context) error
	Store              Store
}

// GracefulShutdown stops components in dependency order:
// 1. HTTP server (stop accepting new requests, drain in-flight ones)
// 2. Market stream hub (close client streams)
// 3. Event publisher (finish retries), then the background pool it feeds
// 4. Dead-letter file, traces, store
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if c.Hub != nil {
		c.Hub.Stop()
	}

	if c.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := c.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if c.Background != nil {
		slog.Info(LogMsgStoppingBackground)
		c.Background.Stop()
	}

	if c.DeadLetter != nil {
		if err := c.DeadLetter.Close(); err != nil {
			slog.Error(LogMsgDeadLetterCloseFailed, "error", err)
		}
	}

	if c.Telemetry != nil {
		if err := c.Telemetry(ctx); err != nil {
			slog.Error(LogMsgTelemetryShutdownFailed, "error", err)
		}
	}

	if c.Store != nil {
		c.Store.Close()
	}

	slog.Info(LogMsgServerStopped)
}
