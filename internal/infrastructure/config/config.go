package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/menapay/orchestrator/internal/domain/payment"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Payment       PaymentConfig       `mapstructure:"payment"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	InstanceID    string              `mapstructure:"instance_id"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// RateLimitPerMinute throttles per client IP; zero disables it.
	RateLimitPerMinute int        `mapstructure:"rate_limit_per_minute"`
	CORS               CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type PaymentConfig struct {
	DefaultRegion payment.Region `mapstructure:"default_region"`
	// ProviderTimeout bounds every delegated adapter call.
	ProviderTimeout time.Duration `mapstructure:"provider_timeout"`
	IdempotencyTTL  time.Duration `mapstructure:"idempotency_ttl"`
	// RequireCallbackSignature rejects provider callbacks that carry no
	// signature header. Off by default: sandbox webhooks of several
	// providers are unsigned.
	RequireCallbackSignature bool `mapstructure:"require_callback_signature"`
}

type ObservabilityConfig struct {
	LogLevel       string `mapstructure:"log_level"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	EnableMetrics  bool   `mapstructure:"enable_metrics"`
	EnableTracing  bool   `mapstructure:"enable_tracing"`
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("PAYMENTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read from config file if exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/payments")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.read_timeout must be positive"))
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.write_timeout must be positive"))
	}
	if c.Payment.ProviderTimeout <= 0 {
		errs = append(errs, fmt.Errorf("payment.provider_timeout must be positive"))
	}
	if c.Payment.IdempotencyTTL <= 0 {
		errs = append(errs, fmt.Errorf("payment.idempotency_ttl must be positive"))
	}

	switch c.Payment.DefaultRegion {
	case payment.RegionEgypt, payment.RegionUAE, payment.RegionKSA:
	default:
		errs = append(errs, fmt.Errorf("payment.default_region must be one of EGYPT, UAE, KSA, got %q", c.Payment.DefaultRegion))
	}

	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.rate_limit_per_minute", 300)
	v.SetDefault("server.cors.allowed_origins", []string{"*"})
	v.SetDefault("server.cors.allow_credentials", false)

	// Payment defaults
	v.SetDefault("payment.default_region", string(payment.RegionEgypt))
	v.SetDefault("payment.provider_timeout", "30s")
	v.SetDefault("payment.idempotency_ttl", "24h")
	v.SetDefault("payment.require_callback_signature", false)

	// Observability defaults
	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.jaeger_endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("observability.enable_metrics", true)
	v.SetDefault("observability.enable_tracing", true)

	// Instance ID
	v.SetDefault("instance_id", "payments-1")
}
