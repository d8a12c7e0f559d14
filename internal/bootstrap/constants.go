package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileName is the rotated log file written under Config.LogDir
	LogFileName = "guildledger.log"
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStarting            = "Starting guildledger"
	LogMsgConfigurationLoaded = "Configuration loaded"
	ErrMsgFailedCreateLogsDir = "failed to create logs directory"
)

// =============================================================================
// Store
// =============================================================================

const (
	LogMsgStoreOpened         = "Economy store opened"
	ErrMsgFailedOpenStore     = "failed to open economy store"
	ErrMsgFailedMigrate       = "failed to migrate database"
	ErrMsgUnsupportedDriver   = "unsupported database driver %q"
	LogMsgMigrationsCompleted = "Migrations completed"
)

// =============================================================================
// Catalog Sync
// =============================================================================

const (
	LogMsgSyncingCatalog   = "Syncing equipment catalog from config..."
	LogMsgCatalogSynced    = "Equipment catalog synced"
	LogMsgCatalogUnchanged = "Equipment catalog unchanged"

	ErrMsgFailedLoadCatalog = "failed to load equipment catalog"
	ErrMsgFailedSyncCatalog = "failed to sync equipment catalog to database"
)

// =============================================================================
// Event System Configuration
// =============================================================================

const (
	// EventDefaultMaxRetries is the default number of retry attempts for failed event publishing
	EventDefaultMaxRetries = 5

	// EventDefaultRetryDelay is the default base delay between retry attempts (exponential backoff)
	EventDefaultRetryDelay = 2 * time.Second

	// EventDefaultDeadLetterPath is the default file path for dead-letter event logging
	EventDefaultDeadLetterPath = "logs/event_deadletter.jsonl"
)

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized    = "Event system initialized"
	LogMsgFailedCreateDeadLetterDir = "failed to create dead-letter directory"
	LogMsgFailedCreateDeadLetter    = "failed to open dead-letter file"
)

// =============================================================================
// Event Handler Configuration
// =============================================================================

const (
	// BackgroundWorkers and BackgroundQueueSize size the pool shared by
	// webhook delivery and scheduled jobs
	BackgroundWorkers    = 2
	BackgroundQueueSize  = 100
	BackgroundJobTimeout = 10 * time.Second

	JobNameMarketDepth = "market_depth"
)

// Log messages for event handler registration
const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgStreamSubscriberRegistered = "Market stream subscriber registered"
	LogMsgAnnouncerRegistered        = "Discord announcer registered"
	LogMsgAnnouncerDisabled          = "Discord announcer disabled, no webhook configured"
	ErrMsgFailedCreateAnnouncer      = "failed to create discord announcer"
	LogMsgBackgroundStarted          = "Background workers started"
	LogMsgJobScheduled               = "Scheduled job registered"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgDeadLetterCloseFailed      = "Dead-letter file close failed"
	LogMsgTelemetryShutdownFailed    = "Telemetry shutdown failed"
	LogMsgStoppingBackground         = "Stopping background workers..."
)
