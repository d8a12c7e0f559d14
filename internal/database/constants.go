package database

import "time"

// Database Connection Pool Constants
const (
	// DefaultMinConnections is the minimum number of connections to maintain in the pool
	DefaultMinConnections = 2

	DefaultMaxConnLifetime = 30 * time.Minute
	DefaultMaxConnIdleTime = 5 * time.Minute
	DefaultPingTimeout     = 5 * time.Second
)

// Migration dialects
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Error Messages - Database Operations
const (
	ErrMsgFailedToParseConnString  = "failed to parse connection string"
	ErrMsgFailedToCreatePool       = "failed to create connection pool"
	ErrMsgFailedToPingDatabase     = "failed to ping database"
	ErrMsgFailedToBeginTransaction = "failed to begin transaction"
	ErrMsgFailedToRunMigrations    = "failed to run migrations"
	ErrMsgUnknownDialectFmt        = "unknown migration dialect %q"
)

// Log Messages
const (
	LogMsgSuccessfullyConnectedToDatabase = "Successfully connected to the database"
	LogMsgMigrationApplied                = "Applied migration"
	LogMsgMigrationsUpToDate              = "Database schema is up to date"
)
