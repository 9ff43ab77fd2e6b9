package gateway

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/menapay/orchestrator/internal/domain/payment"
)

// Environment selects the provider endpoint set.
const (
	EnvSandbox    = "sandbox"
	EnvProduction = "production"
)

// Config carries the provider credentials handed to an adapter at
// initialization. IframeID and IntegrationID are Paymob-specific
// extras; the other providers ignore them.
type Config struct {
	APIKey        string
	SecretKey     string
	MerchantID    string
	WebhookSecret string
	IframeID      string
	IntegrationID string
	Environment   string
}

// EnvPrefix derives the environment-variable prefix for a gateway:
// the gateway identifier with underscores stripped (STC_PAY -> STCPAY).
func EnvPrefix(gw payment.Gateway) string {
	return strings.ReplaceAll(string(gw), "_", "")
}

// ConfigFromEnv reads a gateway's credentials from gateway-prefixed
// environment variables ({PREFIX}_API_KEY, {PREFIX}_SECRET_KEY, ...)
// plus the global PAYMENT_ENVIRONMENT (sandbox by default).
func ConfigFromEnv(gw payment.Gateway) Config {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix(gw))
	v.AutomaticEnv()

	g := viper.New()
	g.SetDefault("payment_environment", EnvSandbox)
	g.AutomaticEnv()

	return Config{
		APIKey:        v.GetString("api_key"),
		SecretKey:     v.GetString("secret_key"),
		MerchantID:    v.GetString("merchant_id"),
		WebhookSecret: v.GetString("webhook_secret"),
		IframeID:      v.GetString("iframe_id"),
		IntegrationID: v.GetString("integration_id"),
		Environment:   g.GetString("payment_environment"),
	}
}

// BaseURL picks the endpoint for the configured environment.
func (c Config) BaseURL(sandbox, production string) string {
	if c.Environment == EnvProduction {
		return production
	}
	return sandbox
}
