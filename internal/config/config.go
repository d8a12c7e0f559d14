package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	Version     string `env:"VERSION" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"guildledger"`
	Port        int    `env:"PORT" envDefault:"8080"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogDir    string `env:"LOG_DIR"`

	DBDriver    string `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"guildledger.db"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"20"`
	DBMinConns  int32  `env:"DB_MIN_CONNS" envDefault:"2"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	APIKey         string   `env:"API_KEY"`
	JWTSecret      string   `env:"JWT_SECRET"`
	JWTIssuer      string   `env:"JWT_ISSUER" envDefault:"guildledger-auth"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
	MaxBodyBytes   int64    `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	CatalogPath     string        `env:"CATALOG_PATH" envDefault:"configs/equipment.yaml"`
	CatalogSchema   string        `env:"CATALOG_SCHEMA_PATH" envDefault:"configs/schemas/equipment.schema.json"`
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`

	OperationTimeout time.Duration `env:"OPERATION_TIMEOUT" envDefault:"5s"`
	StartingGold     int64         `env:"STARTING_GOLD" envDefault:"500"`

	DiscordWebhookURL string `env:"DISCORD_WEBHOOK_URL"`

	// MarketSnapshotInterval controls the market depth gauges; zero disables them.
	MarketSnapshotInterval time.Duration `env:"MARKET_SNAPSHOT_INTERVAL" envDefault:"30s"`

	OTelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint string `env:"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"`

	EventDeadLetterPath string        `env:"EVENT_DLQ_PATH" envDefault:"logs/event_deadletter.jsonl"`
	EventMaxRetries     int           `env:"EVENT_MAX_RETRIES" envDefault:"5"`
	EventRetryDelay     time.Duration `env:"EVENT_RETRY_DELAY" envDefault:"2s"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	if err := ValidateEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf(ErrMsgParseEnvFailed, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that only make sense together.
func (c *Config) Validate() error {
	if c.Port < MinPort || c.Port > MaxPort {
		return fmt.Errorf(ErrMsgInvalidPortFmt, c.Port)
	}
	if c.APIKey == "" {
		return fmt.Errorf(ErrMsgAPIKeyRequired)
	}
	if len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf(ErrMsgJWTSecretTooShortFmt, MinJWTSecretLength)
	}

	switch c.DBDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf(ErrMsgDatabaseURLRequired)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf(ErrMsgSQLitePathRequired)
		}
	default:
		return fmt.Errorf(ErrMsgUnknownDriverFmt, c.DBDriver)
	}

	if c.OperationTimeout <= 0 {
		return fmt.Errorf(ErrMsgOperationTimeoutFmt, c.OperationTimeout)
	}
	if c.StartingGold < 0 {
		return fmt.Errorf(ErrMsgStartingGoldNegative)
	}
	return nil
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "dev" || c.Environment == "development"
}
