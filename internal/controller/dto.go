package controller

import (
	"strings"

	"github.com/menapay/orchestrator/internal/domain/payment"
)

// --- Request DTOs ---
// These DTOs handle HTTP/JSON concerns (raw strings for enums,
// validation tags). Controllers normalize them into domain types before
// calling the orchestrator; casing and AUTO defaults are resolved here
// so the orchestrator only ever sees canonical identifiers.

// CreatePaymentRequest holds the input for creating a payment.
type CreatePaymentRequest struct {
	Amount        float64           `json:"amount" validate:"required,gt=0"`
	Currency      string            `json:"currency,omitempty"`
	Region        string            `json:"region,omitempty"`
	CustomerName  string            `json:"customer_name" validate:"required"`
	CustomerEmail string            `json:"customer_email" validate:"required,email"`
	CustomerPhone string            `json:"customer_phone,omitempty"`
	OrderID       string            `json:"order_id" validate:"required"`
	Description   string            `json:"description,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Gateway       string            `json:"gateway,omitempty"`
}

// ToContract converts the DTO into the unified payment contract.
// Absent currency and region become AUTO selectors for the router.
func (r *CreatePaymentRequest) ToContract(idempotencyKey string) *payment.Contract {
	currency := strings.ToUpper(strings.TrimSpace(r.Currency))
	if currency == "" {
		currency = payment.CurrencyAuto
	}
	region := payment.ParseRegion(r.Region)
	if region == "" {
		region = payment.RegionAuto
	}

	return &payment.Contract{
		Amount:           r.Amount,
		Currency:         currency,
		Region:           region,
		CustomerName:     r.CustomerName,
		CustomerEmail:    r.CustomerEmail,
		CustomerPhone:    r.CustomerPhone,
		OrderID:          r.OrderID,
		Description:      r.Description,
		Metadata:         r.Metadata,
		PreferredGateway: payment.ParseGateway(r.Gateway),
		IdempotencyKey:   idempotencyKey,
	}
}

// RefundPaymentRequest holds the input for refunding a transaction.
type RefundPaymentRequest struct {
	TransactionID string  `json:"transaction_id" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Reason        string  `json:"reason,omitempty"`
	Gateway       string  `json:"gateway,omitempty"`
}

func (r *RefundPaymentRequest) ToDomain(idempotencyKey string) *payment.RefundRequest {
	return &payment.RefundRequest{
		TransactionID:  r.TransactionID,
		Amount:         r.Amount,
		Reason:         r.Reason,
		Gateway:        payment.ParseGateway(r.Gateway),
		IdempotencyKey: idempotencyKey,
	}
}

// PayoutRequest holds the input for a disbursement.
type PayoutRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Currency    string  `json:"currency" validate:"required"`
	Destination string  `json:"destination" validate:"required"`
	Description string  `json:"description,omitempty"`
}

func (r *PayoutRequest) ToDomain(idempotencyKey string) *payment.PayoutRequest {
	return &payment.PayoutRequest{
		Amount:         r.Amount,
		Currency:       strings.ToUpper(strings.TrimSpace(r.Currency)),
		Destination:    r.Destination,
		Description:    r.Description,
		IdempotencyKey: idempotencyKey,
	}
}

// --- Response envelope ---
// Every endpoint answers with the same envelope: {"success":true,
// "data":...} or {"success":false,"error":...}.

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// GatewaysResponse lists the ranked gateways for a region.
type GatewaysResponse struct {
	Region   payment.Region    `json:"region"`
	Gateways []payment.Gateway `json:"gateways"`
}

// IdempotencyKeyResponse carries a server-issued idempotency key.
type IdempotencyKeyResponse struct {
	IdempotencyKey string `json:"idempotency_key"`
}

// HealthResponse reports service and per-gateway adapter health.
type HealthResponse struct {
	Status   string                   `json:"status"`
	Gateways map[payment.Gateway]bool `json:"gateways"`
}
