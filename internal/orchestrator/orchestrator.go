// Package orchestrator is the façade over the payment gateways: it
// validates the unified contract, resolves routing, obtains the
// adapter and enforces idempotency around every mutating operation.
package orchestrator

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	domainErrors "github.com/menapay/orchestrator/internal/domain/errors"
	"github.com/menapay/orchestrator/internal/domain/payment"
	"github.com/menapay/orchestrator/internal/gateway"
	"github.com/menapay/orchestrator/internal/idempotency"
	"github.com/menapay/orchestrator/internal/infrastructure/observability"
	"github.com/menapay/orchestrator/internal/routing"
)

const defaultProviderTimeout = 30 * time.Second

// signatureHeaderAliases are checked in order; the first non-empty
// value wins.
var signatureHeaderAliases = []string{"x-signature", "hmac", "signature"}

type Orchestrator struct {
	validate *validator.Validate
	router   *routing.Router
	registry *gateway.Registry
	idem     *idempotency.Store
	metrics  *observability.Metrics
	logger   zerolog.Logger
	tracer   trace.Tracer

	providerTimeout  time.Duration
	requireSignature bool
}

type Options struct {
	Router   *routing.Router
	Registry *gateway.Registry
	Store    *idempotency.Store
	Metrics  *observability.Metrics
	Logger   zerolog.Logger

	// ProviderTimeout bounds each delegated adapter call. The source
	// system has no timeout at all; this is a deliberate hardening.
	ProviderTimeout time.Duration
	// RequireCallbackSignature rejects unsigned provider callbacks
	// instead of processing them unverified.
	RequireCallbackSignature bool
}

func New(opts Options) *Orchestrator {
	if opts.ProviderTimeout <= 0 {
		opts.ProviderTimeout = defaultProviderTimeout
	}
	return &Orchestrator{
		validate:         validator.New(),
		router:           opts.Router,
		registry:         opts.Registry,
		idem:             opts.Store,
		metrics:          opts.Metrics,
		logger:           opts.Logger,
		tracer:           observability.Tracer("payments.orchestrator"),
		providerTimeout:  opts.ProviderTimeout,
		requireSignature: opts.RequireCallbackSignature,
	}
}

// dispatch runs one adapter capability call under the provider timeout
// and the gateway's circuit breaker, recording its duration.
func dispatch[T any](ctx context.Context, o *Orchestrator, gw payment.Gateway, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	ctx, cancel := context.WithTimeout(ctx, o.providerTimeout)
	defer cancel()

	ctx, span := o.tracer.Start(ctx, "gateway."+op,
		trace.WithAttributes(attribute.String("gateway", string(gw))))
	defer span.End()

	start := time.Now()
	defer func() {
		o.metrics.PaymentDuration.WithLabelValues(string(gw), op).Observe(time.Since(start).Seconds())
	}()

	br := o.registry.Breaker(gw)
	if br == nil {
		return fn(ctx)
	}
	v, err := br.Execute(func() (any, error) { return fn(ctx) })
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

func (o *Orchestrator) validateStruct(s any) error {
	if err := o.validate.Struct(s); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			return domainErrors.NewValidationError(ve[0].Field(), ve[0].Tag()+" validation failed")
		}
		return domainErrors.NewValidationError("body", err.Error())
	}
	return nil
}

// CreatePayment validates the contract, resolves region, currency and
// gateway, and delegates to the owning adapter. With an idempotency
// key present, a repeated call short-circuits to the stored response
// before any routing or adapter work happens.
func (o *Orchestrator) CreatePayment(ctx context.Context, c *payment.Contract) (*payment.CreateResponse, error) {
	if err := o.validateStruct(c); err != nil {
		return nil, err
	}

	v, replayed, err := o.idem.Do(scopeKey("create", c.IdempotencyKey), func() (any, error) {
		return o.createPayment(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	if replayed {
		o.metrics.IdempotencyReplays.WithLabelValues("create").Inc()
	}
	return v.(*payment.CreateResponse), nil
}

func (o *Orchestrator) createPayment(ctx context.Context, c *payment.Contract) (*payment.CreateResponse, error) {
	region := o.router.ResolveRegion(c.Region)
	currency := o.router.ResolveCurrency(c.Currency, region)
	gw := o.router.SelectGateway(region, c.PreferredGateway)

	if !o.router.Supports(region, gw) {
		return nil, fmt.Errorf("%s in %s: %w", gw, region, domainErrors.ErrGatewayNotSupported)
	}

	adapter, ok := o.registry.Get(gw)
	if !ok {
		return nil, fmt.Errorf("%s: %w", gw, domainErrors.ErrAdapterUnavailable)
	}

	// Re-stamp the contract so the adapter never sees AUTO selectors.
	stamped := *c
	stamped.Region = region
	stamped.Currency = currency

	resp, err := dispatch(ctx, o, gw, "create_payment", func(ctx context.Context) (*payment.CreateResponse, error) {
		return adapter.CreatePayment(ctx, &stamped)
	})
	if err != nil {
		o.metrics.PaymentsTotal.WithLabelValues(string(gw), "ERROR").Inc()
		return nil, err
	}

	o.metrics.PaymentsTotal.WithLabelValues(string(gw), string(resp.Status)).Inc()
	o.logger.Info().
		Str("gateway", string(gw)).
		Str("region", string(region)).
		Str("currency", currency).
		Str("transaction_id", resp.TransactionID).
		Msg("payment created")
	return resp, nil
}

// scopeKey namespaces an idempotency key by operation. The store is
// shared across create, refund and payout, and each caller asserts the
// replayed value to its own response type, so a key reused across
// operations must never collide with another operation's entry. An
// empty key stays empty so the store keeps treating it as
// non-idempotent.
func scopeKey(op, key string) string {
	if key == "" {
		return ""
	}
	return op + ":" + key
}

func extractSignature(headers http.Header) string {
	for _, alias := range signatureHeaderAliases {
		if v := headers.Get(alias); v != "" {
			return v
		}
	}
	return ""
}

// HandleCallback normalizes a provider webhook. The gateway comes from
// the callback route, never from the payload. A signature, when one of
// the header aliases carries it, must verify; an absent signature is
// tolerated unless require_callback_signature is set.
func (o *Orchestrator) HandleCallback(ctx context.Context, gw payment.Gateway, payload map[string]any, headers http.Header) (*payment.CallbackResponse, error) {
	adapter, ok := o.registry.Get(gw)
	if !ok {
		return nil, fmt.Errorf("%s: %w", gw, domainErrors.ErrAdapterUnavailable)
	}

	if sig := extractSignature(headers); sig != "" {
		if !adapter.VerifySignature(payload, sig) {
			o.metrics.SignatureFailures.WithLabelValues(string(gw)).Inc()
			return nil, fmt.Errorf("%s: %w", gw, domainErrors.ErrInvalidSignature)
		}
	} else {
		if o.requireSignature {
			return nil, fmt.Errorf("%s: %w", gw, domainErrors.ErrMissingSignature)
		}
		o.metrics.UnsignedCallbacks.WithLabelValues(string(gw)).Inc()
		o.logger.Warn().Str("gateway", string(gw)).Msg("processing unsigned callback")
	}

	ctx, cancel := context.WithTimeout(ctx, o.providerTimeout)
	defer cancel()

	resp, err := adapter.HandleCallback(ctx, payload, headers)
	if err != nil {
		return nil, err
	}
	o.metrics.CallbacksTotal.WithLabelValues(string(gw), string(resp.Status)).Inc()
	return resp, nil
}

// Refund issues a refund against an existing transaction. When the
// request names no gateway it is recovered from the transaction id.
func (o *Orchestrator) Refund(ctx context.Context, req *payment.RefundRequest) (*payment.RefundResponse, error) {
	if err := o.validateStruct(req); err != nil {
		return nil, err
	}

	v, replayed, err := o.idem.Do(scopeKey("refund", req.IdempotencyKey), func() (any, error) {
		return o.refund(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	if replayed {
		o.metrics.IdempotencyReplays.WithLabelValues("refund").Inc()
	}
	return v.(*payment.RefundResponse), nil
}

func (o *Orchestrator) refund(ctx context.Context, req *payment.RefundRequest) (*payment.RefundResponse, error) {
	gw := req.Gateway
	if gw == "" {
		gw = payment.GatewayFromTransactionID(req.TransactionID)
	}

	adapter, ok := o.registry.Get(gw)
	if !ok {
		return nil, fmt.Errorf("%s: %w", gw, domainErrors.ErrAdapterUnavailable)
	}

	resp, err := dispatch(ctx, o, gw, "refund", func(ctx context.Context) (*payment.RefundResponse, error) {
		return adapter.Refund(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	o.metrics.RefundsTotal.WithLabelValues(string(gw), string(resp.Status)).Inc()
	o.logger.Info().
		Str("gateway", string(gw)).
		Str("transaction_id", req.TransactionID).
		Str("refund_id", resp.RefundID).
		Msg("refund issued")
	return resp, nil
}

// Payout issues a disbursement. Payouts do not originate from an
// existing transaction, so the gateway is resolved through the
// currency's home region rather than a transaction id.
func (o *Orchestrator) Payout(ctx context.Context, req *payment.PayoutRequest) (*payment.PayoutResponse, error) {
	if err := o.validateStruct(req); err != nil {
		return nil, err
	}

	v, replayed, err := o.idem.Do(scopeKey("payout", req.IdempotencyKey), func() (any, error) {
		return o.payout(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	if replayed {
		o.metrics.IdempotencyReplays.WithLabelValues("payout").Inc()
	}
	return v.(*payment.PayoutResponse), nil
}

func (o *Orchestrator) payout(ctx context.Context, req *payment.PayoutRequest) (*payment.PayoutResponse, error) {
	region := routing.RegionForCurrency(req.Currency)
	gw := o.router.SelectGateway(region, "")

	adapter, ok := o.registry.Get(gw)
	if !ok {
		return nil, fmt.Errorf("%s: %w", gw, domainErrors.ErrAdapterUnavailable)
	}

	resp, err := dispatch(ctx, o, gw, "payout", func(ctx context.Context) (*payment.PayoutResponse, error) {
		return adapter.Payout(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	o.metrics.PayoutsTotal.WithLabelValues(string(gw), string(resp.Status)).Inc()
	o.logger.Info().
		Str("gateway", string(gw)).
		Str("payout_id", resp.PayoutID).
		Msg("payout issued")
	return resp, nil
}

// GetTransactionStatus probes a transaction's state on the adapter
// recovered from its id. The result is best-effort; PENDING is not
// authoritative finality.
func (o *Orchestrator) GetTransactionStatus(ctx context.Context, transactionID string) (*payment.CallbackResponse, error) {
	gw := payment.GatewayFromTransactionID(transactionID)

	adapter, ok := o.registry.Get(gw)
	if !ok {
		return nil, fmt.Errorf("%s: %w", gw, domainErrors.ErrAdapterUnavailable)
	}

	return dispatch(ctx, o, gw, "status", func(ctx context.Context) (*payment.CallbackResponse, error) {
		return adapter.GetTransactionStatus(ctx, transactionID)
	})
}

// AvailableGateways lists the priority-ranked gateways for a region.
func (o *Orchestrator) AvailableGateways(region payment.Region) ([]payment.Gateway, error) {
	if !o.router.SupportedRegion(region) {
		return nil, fmt.Errorf("%s: %w", region, domainErrors.ErrUnsupportedRegion)
	}
	return o.router.AvailableGateways(region), nil
}

// RoutingConfig returns the routing table currently in effect.
func (o *Orchestrator) RoutingConfig() routing.Config {
	return o.router.Config()
}

// HealthCheck reports per-gateway adapter health for every supported
// gateway.
func (o *Orchestrator) HealthCheck() map[payment.Gateway]bool {
	health := make(map[payment.Gateway]bool, len(payment.SupportedGateways))
	for _, gw := range payment.SupportedGateways {
		a, ok := o.registry.Get(gw)
		health[gw] = ok && a.HealthCheck()
	}
	return health
}

// GenerateIdempotencyKey issues a fresh server-assigned key.
func (o *Orchestrator) GenerateIdempotencyKey() string {
	return idempotency.GenerateKey()
}
