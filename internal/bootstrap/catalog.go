package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/guildledger/internal/catalog"
	"github.com/osse101/guildledger/internal/config"
	"github.com/osse101/guildledger/internal/repository"
)

// SyncCatalog loads and validates the equipment seed file, then upserts it.
// It runs once at startup; the catalog is read-only while serving.
func SyncCatalog(ctx context.Context, cfg *config.Config, repo repository.Catalog) error {
	slog.Info(LogMsgSyncingCatalog, "path", cfg.CatalogPath)
	loader := catalog.NewLoader(cfg.CatalogSchema)

	seed, err := loader.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedLoadCatalog, err)
	}

	result, err := loader.Sync(ctx, seed, repo)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedSyncCatalog, err)
	}

	if result.Inserted == 0 && result.Updated == 0 {
		slog.Info(LogMsgCatalogUnchanged, "definitions", len(seed.Equipment))
	}
	return nil
}
