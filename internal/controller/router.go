package controller

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/menapay/orchestrator/internal/infrastructure/config"
	"github.com/menapay/orchestrator/internal/infrastructure/observability"
	customMW "github.com/menapay/orchestrator/internal/middleware"
	"github.com/menapay/orchestrator/internal/orchestrator"
)

type RouterDeps struct {
	Orchestrator *orchestrator.Orchestrator
	Metrics      *observability.Metrics
	CORSConfig   config.CORSConfig

	// RateLimitPerMinute throttles per client IP; zero disables it.
	RateLimitPerMinute int
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(customMW.Tracing())
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(customMW.SecurityHeaders())
	if deps.RateLimitPerMinute > 0 {
		r.Use(customMW.RateLimit(deps.RateLimitPerMinute))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSConfig.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "x-idempotency-key", "x-signature", "hmac", "signature"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: deps.CORSConfig.AllowCredentials,
		MaxAge:           300,
	}))
	r.Use(customMW.Metrics(deps.Metrics))

	healthH := NewHealthController(deps.Orchestrator)
	paymentH := NewPaymentController(deps.Orchestrator)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)

	r.Handle("/metrics", promhttp.Handler())

	r.Post("/create", paymentH.CreatePayment)
	r.Post("/callback/{gateway}", paymentH.HandleCallback)
	r.Post("/refund", paymentH.RefundPayment)
	r.Post("/payout", paymentH.Payout)
	r.Get("/transaction/{transactionID}", paymentH.GetTransaction)
	r.Get("/gateways/{region}", paymentH.GetGateways)
	r.Get("/config", paymentH.GetConfig)
	r.Post("/idempotency-key", paymentH.GenerateIdempotencyKey)

	return r
}
