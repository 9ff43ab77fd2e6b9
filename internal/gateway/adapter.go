// Package gateway contains the provider-specific payment adapters and
// the registry that owns their lifecycle. Every adapter maps the
// unified payment contract onto one provider's request, webhook, and
// signature formats.
package gateway

import (
	"context"
	"net/http"

	"github.com/menapay/orchestrator/internal/domain/payment"
)

// Adapter is the capability set every gateway implementation satisfies.
//
// CreatePayment, Refund, Payout and GetTransactionStatus must not be
// called before Initialize; they fail with ErrAdapterNotInitialized
// otherwise. HandleCallback is a pure mapping from the provider's
// webhook shape to the normalized shape and never fails on an
// unrecognized status value: unknown statuses map to FAILED, never to
// SUCCESS. VerifySignature is a boolean predicate, not an error path;
// it returns false when no webhook secret is configured.
type Adapter interface {
	// Gateway returns the identifier of the provider this adapter serves.
	Gateway() payment.Gateway
	// Initialize stores the provider credentials. Must be called once
	// before any other capability method.
	Initialize(cfg Config) error
	// CreatePayment creates a payment link with the provider.
	CreatePayment(ctx context.Context, c *payment.Contract) (*payment.CreateResponse, error)
	// HandleCallback normalizes a provider webhook payload.
	HandleCallback(ctx context.Context, payload map[string]any, headers http.Header) (*payment.CallbackResponse, error)
	// VerifySignature recomputes the provider's webhook signature over
	// the designated payload fields and compares it to the provided one.
	VerifySignature(payload map[string]any, signature string) bool
	// Refund issues a refund with the provider.
	Refund(ctx context.Context, req *payment.RefundRequest) (*payment.RefundResponse, error)
	// Payout issues a disbursement. Gateways without payout support
	// return ErrPayoutNotSupported so callers can distinguish "try
	// another gateway" from "this gateway is down".
	Payout(ctx context.Context, req *payment.PayoutRequest) (*payment.PayoutResponse, error)
	// GetTransactionStatus is a best-effort status probe. Without a real
	// provider integration it returns a PENDING placeholder; callers
	// must not treat PENDING as authoritative finality.
	GetTransactionStatus(ctx context.Context, transactionID string) (*payment.CallbackResponse, error)
	// HealthCheck reports whether the adapter has been initialized.
	HealthCheck() bool
}
