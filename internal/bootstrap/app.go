package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/menapay/orchestrator/internal/infrastructure/config"
	"github.com/menapay/orchestrator/internal/infrastructure/observability"
)

// App bundles the ambient pieces every entrypoint needs: configuration,
// logging, metrics and tracing. The payment wiring itself stays in the
// entrypoints.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Metrics *observability.Metrics
}

func New(ctx context.Context, serviceName string, metricsNamespace string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := observability.InitLogger(serviceName, cfg.Observability.LogLevel, os.Stdout)
	logger.Info().Str("instance", cfg.InstanceID).Msg("Starting")

	if cfg.Observability.EnableTracing {
		tp, err := observability.InitTracer(serviceName, cfg.Observability.JaegerEndpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
		} else {
			go func() {
				<-ctx.Done()
				observability.Shutdown(context.Background(), tp)
			}()
			logger.Info().Msg("Tracing enabled")
		}
	}

	// With metrics disabled the collectors register against a private
	// registry, so instrumented code keeps working but /metrics (which
	// gathers the default registry) exposes none of it.
	var metrics *observability.Metrics
	if cfg.Observability.EnableMetrics {
		metrics = observability.NewMetrics(metricsNamespace, nil)
		logger.Info().Msg("Metrics initialized")
	} else {
		metrics = observability.NewMetrics(metricsNamespace, prometheus.NewRegistry())
		logger.Info().Msg("Metrics export disabled")
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
	}, nil
}
