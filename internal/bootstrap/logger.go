package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/guildledger/internal/config"
	"github.com/osse101/guildledger/internal/logger"
)

// SetupLogger installs the default logger from cfg. When LogDir is set the
// output is also written to a rotated file there.
// Returns the file closer (caller must close) and any error encountered.
func SetupLogger(cfg *config.Config) (io.Closer, error) {
	var filePath string
	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, DirPermission); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateLogsDir, err)
		}
		filePath = filepath.Join(cfg.LogDir, LogFileName)
	}

	closer := logger.Init(loggerConfig(cfg, filePath))

	slog.Info(LogMsgLoggingInitialized, "level", cfg.LogLevel, "format", cfg.LogFormat, "file", filePath)
	slog.Info(LogMsgStarting,
		"environment", cfg.Environment,
		"version", cfg.Version)

	slog.Debug(LogMsgConfigurationLoaded,
		"port", cfg.Port,
		"db_driver", cfg.DBDriver,
		"catalog_path", cfg.CatalogPath,
		"starting_gold", cfg.StartingGold,
		"operation_timeout", cfg.OperationTimeout,
		"discord_enabled", cfg.DiscordWebhookURL != "",
		"otel_enabled", cfg.OTelEnabled)

	return closer, nil
}

func loggerConfig(cfg *config.Config, filePath string) logger.Config {
	return logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: cfg.ServiceName,
		Version:     cfg.Version,
		Environment: cfg.Environment,
		AddSource:   cfg.IsDevelopment(),
		FilePath:    filePath,
	}
}
