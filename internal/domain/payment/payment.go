// Package payment holds the gateway-agnostic contract shared by every
// payment gateway: the unified request shape, the normalized response
// shapes, and the enums they are built from.
package payment

import (
	"strings"
	"time"
)

// Gateway identifies a concrete payment provider integration.
type Gateway string

const (
	GatewayPaymob   Gateway = "PAYMOB"
	GatewayFawry    Gateway = "FAWRY"
	GatewayPayTabs  Gateway = "PAYTABS"
	GatewayHyperPay Gateway = "HYPERPAY"
	GatewaySTCPay   Gateway = "STC_PAY"
	GatewayMada     Gateway = "MADA"

	// GatewayApplePay is routable in KSA but has no adapter of its own.
	GatewayApplePay Gateway = "APPLE_PAY"
)

// DefaultGateway is the last-resort gateway when none can be recovered
// from a transaction id.
const DefaultGateway = GatewayPaymob

// SupportedGateways lists the gateways that have a concrete adapter.
var SupportedGateways = []Gateway{
	GatewayPaymob,
	GatewayFawry,
	GatewayPayTabs,
	GatewayHyperPay,
	GatewaySTCPay,
	GatewayMada,
}

// IsSupported reports whether gw has a concrete adapter.
func (gw Gateway) IsSupported() bool {
	for _, g := range SupportedGateways {
		if g == gw {
			return true
		}
	}
	return false
}

// ParseGateway normalizes a caller-supplied gateway identifier.
func ParseGateway(s string) Gateway {
	return Gateway(strings.ToUpper(strings.TrimSpace(s)))
}

// Region is a market selector that determines default currency and
// gateway eligibility.
type Region string

const (
	RegionEgypt Region = "EGYPT"
	RegionUAE   Region = "UAE"
	RegionKSA   Region = "KSA"

	// RegionAuto asks the router to pick the configured default region.
	RegionAuto Region = "AUTO"
)

// CurrencyAuto asks the router to use the resolved region's default currency.
const CurrencyAuto = "AUTO"

// ParseRegion normalizes a caller-supplied region identifier.
func ParseRegion(s string) Region {
	return Region(strings.ToUpper(strings.TrimSpace(s)))
}

// Status is the canonical 4-value payment state every provider
// vocabulary is mapped onto.
type Status string

const (
	StatusSuccess   Status = "SUCCESS"
	StatusFailed    Status = "FAILED"
	StatusPending   Status = "PENDING"
	StatusCancelled Status = "CANCELLED"
)

// Contract is the unified, gateway-agnostic payment request. The AUTO
// selectors are resolved exactly once by the orchestrator; adapters
// never see AUTO.
type Contract struct {
	Amount           float64           `json:"amount" validate:"required,gt=0"`
	Currency         string            `json:"currency" validate:"required"`
	Region           Region            `json:"region" validate:"required"`
	CustomerName     string            `json:"customer_name" validate:"required"`
	CustomerEmail    string            `json:"customer_email" validate:"required,email"`
	CustomerPhone    string            `json:"customer_phone,omitempty"`
	OrderID          string            `json:"order_id" validate:"required"`
	Description      string            `json:"description,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	PreferredGateway Gateway           `json:"gateway,omitempty"`
	IdempotencyKey   string            `json:"idempotency_key,omitempty"`
}

// CreateResponse is returned when a payment has been created with a
// gateway. Gateway is carried both embedded in TransactionID and as a
// first-class field.
type CreateResponse struct {
	Status        Status    `json:"status"`
	TransactionID string    `json:"transaction_id"`
	PaymentURL    string    `json:"payment_url"`
	Gateway       Gateway   `json:"gateway"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// CallbackResponse is the normalized result of a provider webhook or a
// status query.
type CallbackResponse struct {
	TransactionID    string     `json:"transaction_id"`
	Status           Status     `json:"status"`
	Amount           float64    `json:"amount"`
	Currency         string     `json:"currency"`
	Gateway          Gateway    `json:"gateway"`
	GatewayReference string     `json:"gateway_reference"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
}

// RefundRequest asks for a (partial) refund of an existing transaction.
type RefundRequest struct {
	TransactionID  string  `json:"transaction_id" validate:"required"`
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	Reason         string  `json:"reason,omitempty"`
	Gateway        Gateway `json:"gateway,omitempty"`
	IdempotencyKey string  `json:"idempotency_key,omitempty"`
}

// RefundResponse reports the outcome of a refund request.
type RefundResponse struct {
	RefundID string  `json:"refund_id"`
	Status   Status  `json:"status"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Gateway  Gateway `json:"gateway"`
}

// PayoutRequest asks for a disbursement to an external destination.
// Payouts do not originate from an existing transaction, so the gateway
// is resolved from the currency instead of a transaction id.
type PayoutRequest struct {
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	Currency       string  `json:"currency" validate:"required"`
	Destination    string  `json:"destination" validate:"required"`
	Description    string  `json:"description,omitempty"`
	IdempotencyKey string  `json:"idempotency_key,omitempty"`
}

// PayoutResponse reports the outcome of a payout request.
type PayoutResponse struct {
	PayoutID string  `json:"payout_id"`
	Status   Status  `json:"status"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Gateway  Gateway `json:"gateway"`
}
