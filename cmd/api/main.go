// Copyright (c) 2026 AuthFlow. All rights reserved.

// Command api is the entry point for the AuthFlow gateway HTTP server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to Redis (gateway session store).
//  4. Initialize token verifier, metrics and the remote backend client.
//  5. Wire HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adititesting969/authflow-6448/internal/api"
	"github.com/Adititesting969/authflow-6448/internal/backend"
	"github.com/Adititesting969/authflow-6448/internal/platform/config"
	"github.com/Adititesting969/authflow-6448/internal/platform/constants"
	"github.com/Adititesting969/authflow-6448/internal/platform/metrics"
	redisstore "github.com/Adititesting969/authflow-6448/internal/platform/redis"
	"github.com/Adititesting969/authflow-6448/internal/platform/sec"
	"github.com/Adititesting969/authflow-6448/internal/users/account"
	"github.com/Adititesting969/authflow-6448/internal/users/auth"
	"github.com/Adititesting969/authflow-6448/internal/users/identity"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[AuthFlow] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 4. Token Verifier ─────────────────────────────────────────────────
	verifier, err := sec.NewTokenVerifier(cfg.JWTSecret)
	must(log, err, "initialize token verifier")

	// ── 5. Metrics ────────────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// ── 6. Remote Backend Client ──────────────────────────────────────────
	// All auth and data operations proxy to the hosted identity platform.
	// Readiness probes it; no connection is held open.
	backendClient := backend.NewHTTPClient(cfg.BackendURL, cfg.BackendKey, collector, log)

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckSessionStore: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
		CheckBackend: func() error {
			probeCtx, probeCancel := context.WithTimeout(context.Background(), constants.RemoteCallTimeout)
			defer probeCancel()
			return backendClient.Health(probeCtx)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	events := auth.NewBroadcaster()
	facades := auth.NewFactory(backendClient, events, log)
	sessionStore := auth.NewSessionStore(rdb)
	identities := identity.NewRegistry(facades, log)
	defer identities.Close()

	accountService := account.NewService(log)

	authHandler := auth.NewHandler(facades, sessionStore, cfg.ResetRedirectURL)
	accountHandler := account.NewHandler(accountService, identities, sessionStore)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   metrics.Handler(registry),
		Auth:      authHandler,
		Account:   accountHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, collector, verifier, sessionStore, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
