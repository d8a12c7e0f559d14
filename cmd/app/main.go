package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/guildledger/internal/bootstrap"
	"github.com/osse101/guildledger/internal/catalog"
	"github.com/osse101/guildledger/internal/concurrency"
	"github.com/osse101/guildledger/internal/config"
	"github.com/osse101/guildledger/internal/economy"
	"github.com/osse101/guildledger/internal/inventory"
	"github.com/osse101/guildledger/internal/ledger"
	"github.com/osse101/guildledger/internal/market"
	"github.com/osse101/guildledger/internal/middleware"
	"github.com/osse101/guildledger/internal/server"
	"github.com/osse101/guildledger/internal/sse"
	"github.com/osse101/guildledger/internal/telemetry"
)

const shutdownTimeout = 15 * time.Second

// @title Guild Ledger API
// @version 1.0
// @description Player economy: ledger, equipment shop, slots and resource marketplace.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	migrateOnly := flag.Bool("migrate-only", false, "apply database migrations and exit")
	flag.Parse()

	if err := run(*migrateOnly); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run(migrateOnly bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logCloser, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if migrateOnly {
		cfg.AutoMigrate = true
	}
	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	if migrateOnly {
		store.Close()
		return nil
	}

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:     cfg.OTelEnabled,
		Endpoint:    cfg.OTelEndpoint,
		ServiceName: cfg.ServiceName,
		Version:     cfg.Version,
	})
	if err != nil {
		store.Close()
		return err
	}

	if err := bootstrap.SyncCatalog(ctx, cfg, store); err != nil {
		store.Close()
		return err
	}

	events, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		store.Close()
		return err
	}

	hub := sse.NewHub()
	hub.Start()
	background := bootstrap.StartBackground(cfg, store)

	if err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus: events.Bus,
		Hub:      hub,
		Pool:     background.Pool,
		Config:   cfg,
	}); err != nil {
		background.Stop()
		hub.Stop()
		store.Close()
		return err
	}

	locks := concurrency.NewLockManager()
	catalogSvc := catalog.NewService(store, cfg.CatalogCacheTTL)

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		Version:        cfg.Version,
		MaxBodyBytes:   cfg.MaxBodyBytes,
	}, server.Services{
		Store: store,
		Ledger: ledger.NewService(store, locks, events.Publisher, ledger.Options{
			StartingGold:     cfg.StartingGold,
			OperationTimeout: cfg.OperationTimeout,
		}),
		Economy: economy.NewService(store, catalogSvc, inventory.NewManager(store, catalogSvc), locks, events.Publisher,
			economy.Options{OperationTimeout: cfg.OperationTimeout}),
		Market: market.NewService(store, locks, events.Publisher,
			market.Options{OperationTimeout: cfg.OperationTimeout}),
		Hub:      hub,
		Sessions: middleware.NewSessionVerifier(cfg.JWTSecret, cfg.JWTIssuer),
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err = <-serverErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		Hub:                hub,
		Background:         background,
		ResilientPublisher: events.Publisher,
		DeadLetter:         events.DeadLetter,
		Telemetry:          shutdownTracing,
		Store:              store,
	})
	return err
}
