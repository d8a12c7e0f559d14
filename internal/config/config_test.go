package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("API_KEY", "test-key")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/db")
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setRequired(t)

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, DriverPostgres, cfg.DBDriver)
		assert.Equal(t, 5*time.Second, cfg.OperationTimeout)
		assert.Equal(t, int64(500), cfg.StartingGold)
		assert.Equal(t, "configs/equipment.yaml", cfg.CatalogPath)
		assert.False(t, cfg.OTelEnabled)
		assert.Equal(t, 30*time.Second, cfg.MarketSnapshotInterval)
		assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	})

	t.Run("overrides", func(t *testing.T) {
		setRequired(t)
		t.Setenv("PORT", "3000")
		t.Setenv("DB_DRIVER", DriverSQLite)
		t.Setenv("SQLITE_PATH", "/tmp/x.db")
		t.Setenv("OPERATION_TIMEOUT", "250ms")
		t.Setenv("STARTING_GOLD", "0")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 3000, cfg.Port)
		assert.Equal(t, DriverSQLite, cfg.DBDriver)
		assert.Equal(t, "/tmp/x.db", cfg.SQLitePath)
		assert.Equal(t, 250*time.Millisecond, cfg.OperationTimeout)
		assert.Zero(t, cfg.StartingGold)
	})

	t.Run("lists", func(t *testing.T) {
		setRequired(t)
		t.Setenv("TRUSTED_PROXIES", "10.0.0.1,10.0.0.2")
		t.Setenv("MARKET_SNAPSHOT_INTERVAL", "0s")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.TrustedProxies)
		assert.Zero(t, cfg.MarketSnapshotInterval)
	})

	t.Run("missing required env", func(t *testing.T) {
		setRequired(t)
		t.Setenv("JWT_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("malformed port", func(t *testing.T) {
		setRequired(t)
		t.Setenv("PORT", "not-a-number")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:             8080,
			APIKey:           "k",
			JWTSecret:        testSecret,
			DBDriver:         DriverPostgres,
			DatabaseURL:      "postgres://localhost/db",
			OperationTimeout: time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"port too high", func(c *Config) { c.Port = 70000 }, "invalid PORT"},
		{"missing api key", func(c *Config) { c.APIKey = "" }, "API_KEY"},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, "JWT_SECRET"},
		{"postgres without url", func(c *Config) { c.DatabaseURL = "" }, "DATABASE_URL"},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, "unknown DB_DRIVER"},
		{"sqlite without path", func(c *Config) { c.DBDriver = DriverSQLite }, "SQLITE_PATH"},
		{"zero timeout", func(c *Config) { c.OperationTimeout = 0 }, "OPERATION_TIMEOUT"},
		{"negative starting gold", func(c *Config) { c.StartingGold = -1 }, "STARTING_GOLD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateEnv(t *testing.T) {
	t.Setenv("API_KEY", "")
	t.Setenv("JWT_SECRET", "")

	err := ValidateEnv()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
