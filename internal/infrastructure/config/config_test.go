package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menapay/orchestrator/internal/domain/payment"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORS.AllowedOrigins)

	assert.Equal(t, payment.RegionEgypt, cfg.Payment.DefaultRegion)
	assert.Equal(t, 30*time.Second, cfg.Payment.ProviderTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Payment.IdempotencyTTL)
	assert.False(t, cfg.Payment.RequireCallbackSignature)

	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.True(t, cfg.Observability.EnableMetrics)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PAYMENTS_SERVER_PORT", "9090")
	t.Setenv("PAYMENTS_PAYMENT_PROVIDER_TIMEOUT", "5s")
	t.Setenv("PAYMENTS_PAYMENT_REQUIRE_CALLBACK_SIGNATURE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Payment.ProviderTimeout)
	assert.True(t, cfg.Payment.RequireCallbackSignature)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server: ServerConfig{
				Port:         8080,
				ReadTimeout:  time.Second,
				WriteTimeout: time.Second,
			},
			Payment: PaymentConfig{
				DefaultRegion:   payment.RegionEgypt,
				ProviderTimeout: time.Second,
				IdempotencyTTL:  time.Hour,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"bad read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }, "read_timeout"},
		{"bad provider timeout", func(c *Config) { c.Payment.ProviderTimeout = 0 }, "provider_timeout"},
		{"bad idempotency ttl", func(c *Config) { c.Payment.IdempotencyTTL = -1 }, "idempotency_ttl"},
		{"bad region", func(c *Config) { c.Payment.DefaultRegion = "FRANCE" }, "default_region"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
