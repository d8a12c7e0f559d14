package config

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Validation bounds
const (
	MinPort            = 1
	MaxPort            = 65535
	MinJWTSecretLength = 32
)

// Error messages
const (
	ErrMsgParseEnvFailed       = "failed to parse environment: %w"
	ErrMsgInvalidPortFmt       = "invalid PORT value: %d"
	ErrMsgAPIKeyRequired       = "API_KEY environment variable must be set for security"
	ErrMsgJWTSecretTooShortFmt = "JWT_SECRET must be at least %d bytes"
	ErrMsgDatabaseURLRequired  = "DATABASE_URL is required when DB_DRIVER=postgres"
	ErrMsgSQLitePathRequired   = "SQLITE_PATH is required when DB_DRIVER=sqlite"
	ErrMsgUnknownDriverFmt     = "unknown DB_DRIVER %q (expected postgres or sqlite)"
	ErrMsgOperationTimeoutFmt  = "OPERATION_TIMEOUT must be positive, got %s"
	ErrMsgStartingGoldNegative = "STARTING_GOLD must not be negative"
)
