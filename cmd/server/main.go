package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/server"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	metrics := middleware.NewMetrics()
	bus := events.NewBus()
	bus.Subscribe(metrics.ObserveEvent)
	bus.Subscribe(func(e events.Event) {
		logger.Debug("Event published", "kind", e.Kind, "entity_id", e.EntityID, "owner_id", e.OwnerID)
	})

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	// Auth must run before logging so the logged user ID is set.
	interceptors := connect.WithInterceptors(
		metrics.Interceptor(),
		middleware.RequireAuth(jwtManager,
			api.AuthServiceRegisterProcedure,
			api.AuthServiceLoginProcedure,
		),
		middleware.LoggingInterceptor(logger),
	)

	services := make(map[string]http.Handler)
	mount := func(path string, h http.Handler) {
		services[path] = h
	}
	mount(api.NewAuthServiceHandler(service.NewAuthService(authenticator, store, jwtManager, logger), interceptors))
	mount(api.NewSplitServiceHandler(service.NewSplitService(store, bus), interceptors))
	mount(api.NewGroupServiceHandler(service.NewGroupService(store, bus), interceptors))
	mount(api.NewLedgerServiceHandler(service.NewLedgerService(store, bus), interceptors))
	mount(api.NewSubscriptionServiceHandler(service.NewSubscriptionService(store, bus), interceptors))

	router := server.NewRouter(logger, server.RouterDependencies{
		Services:       services,
		Health:         store,
		Metrics:        metrics.Handler(),
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	})
	srv := server.New(logger, cfg.HTTP.Addr(), router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped unexpectedly: %w", err)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
