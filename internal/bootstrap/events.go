package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/guildledger/internal/config"
	"github.com/osse101/guildledger/internal/event"
)

// EventSystem is the in-process bus plus the retrying publisher services use.
type EventSystem struct {
	Bus        *event.MemoryBus
	Publisher  *event.ResilientPublisher
	DeadLetter *event.DeadLetterWriter
}

// InitializeEventSystem creates the event bus and the resilient publisher
// wrapping it. Events whose delivery keeps failing end up in the dead-letter file.
func InitializeEventSystem(cfg *config.Config) (*EventSystem, error) {
	bus := event.NewMemoryBus()

	maxRetries := cfg.EventMaxRetries
	if maxRetries == 0 {
		maxRetries = EventDefaultMaxRetries
	}

	retryDelay := cfg.EventRetryDelay
	if retryDelay == 0 {
		retryDelay = EventDefaultRetryDelay
	}

	deadLetterPath := cfg.EventDeadLetterPath
	if deadLetterPath == "" {
		deadLetterPath = EventDefaultDeadLetterPath
	}

	if err := os.MkdirAll(filepath.Dir(deadLetterPath), DirPermission); err != nil {
		return nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetterDir, err)
	}

	deadLetter, err := event.NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetter, err)
	}

	publisher := event.NewResilientPublisher(bus, event.ResilientConfig{
		MaxRetries: maxRetries,
		RetryDelay: retryDelay,
	}, deadLetter)

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", maxRetries,
		"retry_delay", retryDelay,
		"deadletter_path", deadLetterPath)

	return &EventSystem{Bus: bus, Publisher: publisher, DeadLetter: deadLetter}, nil
}
