package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"

	marketplaceserver "github.com/Apurer/go-gin-marketplace/go"

	sessionsobs "github.com/Apurer/go-gin-marketplace/internal/domains/sessions/adapters/observability"
	sessionsworkflows "github.com/Apurer/go-gin-marketplace/internal/domains/sessions/adapters/workflows"
	sessionsapp "github.com/Apurer/go-gin-marketplace/internal/domains/sessions/application"
	sessionsports "github.com/Apurer/go-gin-marketplace/internal/domains/sessions/ports"
	platformobservability "github.com/Apurer/go-gin-marketplace/internal/platform/observability"
	"github.com/Apurer/go-gin-marketplace/internal/platform/storage"
	storagememory "github.com/Apurer/go-gin-marketplace/internal/platform/storage/memory"
)

const serviceName = "marketplace-api"

// Run boots the marketplace state API with observability, storage, and sweeping wired.
// It returns once ctx is canceled and the server has drained.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Observability(serviceName))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	backend, cleanupBackend := OpenBackend(ctx, cfg, logger)
	defer cleanupBackend()

	factory := sessionsobs.NewStoreFactory(sessionsapp.DefaultFactory{Logger: logger}, instruments, logger)
	registry := sessionsapp.NewRegistry(backend,
		sessionsapp.WithFactory(factory),
		sessionsapp.WithLogger(logger),
	)
	defer registry.CloseAll(context.Background())
	sessionService := sessionsobs.New(registry,
		sessionsobs.WithLogger(logger),
		sessionsobs.WithTracer(instruments.Tracer("internal.domains.sessions")),
		sessionsobs.WithMeter(instruments.Meter("internal.domains.sessions")),
	)

	sweeper, closeSweeper := newSweeper(cfg, backend, func() (client.Client, error) {
		return ConnectTemporalClient(cfg, instruments)
	}, logger)
	defer closeSweeper()
	sweeper = sessionsobs.NewSweeper(sweeper,
		sessionsobs.WithLogger(logger),
		sessionsobs.WithTracer(instruments.Tracer("internal.domains.sessions.sweeper")),
		sessionsobs.WithMeter(instruments.Meter("internal.domains.sessions.sweeper")),
	)
	if cfg.SessionReapEvery > 0 {
		go RunSessionReaper(ctx, sessionService, cfg.SessionReapEvery, cfg.SessionIdleTTL, logger)
	}
	if cfg.SweepInterval > 0 {
		go RunSweepLoop(ctx, sweeper, cfg.SweepInterval, cfg.IdleTTL, logger)
	}

	sessions := marketplaceserver.NewSessionAPI(sessionService)
	handlers := marketplaceserver.ApiHandleFunctions{
		SessionAPI:      sessions,
		CartAPI:         marketplaceserver.NewCartAPI(sessions),
		HistoryAPI:      marketplaceserver.NewHistoryAPI(sessions),
		NotificationAPI: marketplaceserver.NewNotificationAPI(sessions),
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router := marketplaceserver.NewRouterWithGinEngine(engine, handlers)

	server := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Marketplace API listening", slog.String("addr", server.Addr), slog.String("storage", cfg.StorageBackend))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Marketplace API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Marketplace API shutdown failed", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Marketplace API stopped")
	return nil
}

// newSweeper picks how idle storage is evicted. Memory storage lives only in
// this process, so a worker elsewhere could never reach it; it is always swept
// inline. Durable backends go through Temporal when it is reachable.
func newSweeper(cfg Config, backend storage.Evictor, dial func() (client.Client, error), logger *slog.Logger) (sessionsports.StorageSweeper, func()) {
	inline := sessionsworkflows.NewInlineSweeper(backend)
	if cfg.StorageBackend == BackendMemory {
		logger.Info("memory storage is swept inline")
		return inline, func() {}
	}
	if _, ok := backend.(*storagememory.Backend); ok {
		logger.Info("storage fell back to memory, sweeping inline")
		return inline, func() {}
	}
	temporalClient, err := dial()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, sweeping storage inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	return sessionsworkflows.NewTemporalSweeper(temporalClient), temporalClient.Close
}

// RunSessionReaper ends sessions idle for longer than idleFor every interval
// until ctx is done.
func RunSessionReaper(ctx context.Context, sessions sessionsports.Service, interval, idleFor time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if ended := sessions.EndIdle(ctx, now.Add(-idleFor)); len(ended) > 0 && logger != nil {
				logger.Debug("idle sessions reaped", slog.Int("sessions.count", len(ended)))
			}
		}
	}
}

// RunSweepLoop evicts idle device storage every interval until ctx is done.
// Failures are logged and retried on the next tick.
func RunSweepLoop(ctx context.Context, sweeper sessionsports.StorageSweeper, interval, idleFor time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := sweeper.Sweep(ctx, idleFor); err != nil && ctx.Err() == nil && logger != nil {
				logger.Warn("scheduled storage sweep failed", slog.String("error", err.Error()))
			}
		}
	}
}
