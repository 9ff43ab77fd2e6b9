package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/menapay/orchestrator/internal/bootstrap"
	"github.com/menapay/orchestrator/internal/controller"
	"github.com/menapay/orchestrator/internal/gateway"
	"github.com/menapay/orchestrator/internal/idempotency"
	"github.com/menapay/orchestrator/internal/orchestrator"
	"github.com/menapay/orchestrator/internal/routing"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, "payments-api", "payments")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}

	// --- Payment wiring ---
	routingCfg := routing.DefaultConfig()
	routingCfg.DefaultRegion = app.Config.Payment.DefaultRegion
	router := routing.NewRouter(routingCfg)
	registry := gateway.NewRegistry(app.Logger)
	store := idempotency.NewStore(app.Config.Payment.IdempotencyTTL)

	orch := orchestrator.New(orchestrator.Options{
		Router:                   router,
		Registry:                 registry,
		Store:                    store,
		Metrics:                  app.Metrics,
		Logger:                   app.Logger,
		ProviderTimeout:          app.Config.Payment.ProviderTimeout,
		RequireCallbackSignature: app.Config.Payment.RequireCallbackSignature,
	})

	// --- HTTP server ---
	handler := controller.NewRouter(controller.RouterDeps{
		Orchestrator:       orch,
		Metrics:            app.Metrics,
		CORSConfig:         app.Config.Server.CORS,
		RateLimitPerMinute: app.Config.Server.RateLimitPerMinute,
	})

	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}

	go func() {
		app.Logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()

	app.Logger.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	app.Logger.Info().Msg("Server exited")
}
