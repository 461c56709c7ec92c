package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := FromLookup(env(map[string]string{"DB_DSN": "postgres://localhost/app"}))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, DriverPostgres, cfg.StorageDriver)
	assert.Equal(t, 20.0, cfg.RateLimitRPS)
	assert.Equal(t, 40, cfg.RateLimitBurst)
	assert.False(t, cfg.StrictAvailability)
	assert.False(t, cfg.OTelEnabled)
	assert.Equal(t, "localhost:4318", cfg.OTelEndpoint)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestOverrides(t *testing.T) {
	cfg, err := FromLookup(env(map[string]string{
		"ENV":                 "production",
		"STORAGE_DRIVER":      "Memory",
		"RATE_LIMIT_RPS":      "2.5",
		"RATE_LIMIT_BURST":    "5",
		"STRICT_AVAILABILITY": "true",
		"SHUTDOWN_TIMEOUT":    "3s",
		"HTTP_ADDR":           " :9090 ",
	}))
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 5, cfg.RateLimitBurst)
	assert.True(t, cfg.StrictAvailability)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
}

func TestInvalidValuesReportedTogether(t *testing.T) {
	_, err := FromLookup(env(map[string]string{
		"RATE_LIMIT_BURST":    "lots",
		"STRICT_AVAILABILITY": "maybe",
		"SHUTDOWN_TIMEOUT":    "10",
	}))
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "DB_DSN is required")
	assert.Contains(t, msg, "RATE_LIMIT_BURST must be an integer")
	assert.Contains(t, msg, "STRICT_AVAILABILITY must be a boolean")
	assert.Contains(t, msg, "SHUTDOWN_TIMEOUT must be a duration")
}

func TestUnknownDriver(t *testing.T) {
	_, err := FromLookup(env(map[string]string{"STORAGE_DRIVER": "sqlite"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
}
