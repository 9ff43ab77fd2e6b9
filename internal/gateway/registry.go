package gateway

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	domainErrors "github.com/menapay/orchestrator/internal/domain/errors"
	"github.com/menapay/orchestrator/internal/domain/payment"
)

// constructors maps gateway identifiers to adapter builders. APPLE_PAY
// is deliberately absent: it is routable but has no adapter, so the
// registry reports it unavailable.
var constructors = map[payment.Gateway]func() Adapter{
	payment.GatewayPaymob:   NewPaymobAdapter,
	payment.GatewayFawry:    NewFawryAdapter,
	payment.GatewayPayTabs:  NewPayTabsAdapter,
	payment.GatewayHyperPay: NewHyperPayAdapter,
	payment.GatewaySTCPay:   NewSTCPayAdapter,
	payment.GatewayMada:     NewMadaAdapter,
}

// Registry lazily constructs and caches one adapter instance per
// gateway, reading its credentials from gateway-prefixed environment
// variables at first use. Construction or initialization failure is
// reported as "no adapter available", never as an error, so the
// orchestrator can surface a clean user-facing failure. Each cached
// adapter is paired with a circuit breaker that gates outbound calls.
type Registry struct {
	mu       sync.Mutex
	adapters map[payment.Gateway]Adapter
	breakers map[payment.Gateway]*gobreaker.CircuitBreaker[any]
	logger   zerolog.Logger
}

func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		adapters: make(map[payment.Gateway]Adapter),
		breakers: make(map[payment.Gateway]*gobreaker.CircuitBreaker[any]),
		logger:   logger,
	}
}

// Get returns the cached adapter for gw, building and initializing it
// on first request. Unknown gateways return (nil, false) without ever
// constructing anything.
func (r *Registry) Get(gw payment.Gateway) (Adapter, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.adapters[gw]; ok {
		return a, true
	}

	build, ok := constructors[gw]
	if !ok {
		return nil, false
	}

	a := build()
	if err := a.Initialize(ConfigFromEnv(gw)); err != nil {
		r.logger.Warn().Err(err).Str("gateway", string(gw)).Msg("adapter initialization failed")
		return nil, false
	}

	r.adapters[gw] = a
	r.breakers[gw] = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        string(gw),
		MaxRequests: 10,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.6
		},
		// Capability refusals are not outages.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domainErrors.ErrPayoutNotSupported)
		},
	})
	r.logger.Info().Str("gateway", string(gw)).Msg("adapter initialized")
	return a, true
}

// Breaker returns the circuit breaker paired with gw's adapter, or nil
// when no adapter has been built.
func (r *Registry) Breaker(gw payment.Gateway) *gobreaker.CircuitBreaker[any] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.breakers[gw]
}
