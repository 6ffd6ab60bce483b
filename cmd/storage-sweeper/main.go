package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/Apurer/go-gin-marketplace/internal/app/api"
	sessionsobs "github.com/Apurer/go-gin-marketplace/internal/domains/sessions/adapters/observability"
	sessionsworkflows "github.com/Apurer/go-gin-marketplace/internal/domains/sessions/adapters/workflows"
	platformobservability "github.com/Apurer/go-gin-marketplace/internal/platform/observability"
	storagememory "github.com/Apurer/go-gin-marketplace/internal/platform/storage/memory"
)

const serviceName = "marketplace-storage-sweeper"

// storage-sweeper evicts idle device storage once and exits. It runs against
// the backend directly, so it works without a Temporal cluster.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.StorageBackend == api.BackendMemory {
		log.Fatal("STORAGE_BACKEND is memory; nothing durable to sweep")
	}

	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Observability(serviceName))
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	backend, cleanup := api.OpenBackend(ctx, cfg, logger)
	defer cleanup()
	if _, ok := backend.(*storagememory.Backend); ok {
		logger.Error("durable storage unreachable, skipping sweep", slog.String("backend", cfg.StorageBackend))
		return
	}

	sweeper := sessionsobs.NewSweeper(sessionsworkflows.NewInlineSweeper(backend),
		sessionsobs.WithLogger(logger),
		sessionsobs.WithTracer(instruments.Tracer("cmd.storage-sweeper")),
		sessionsobs.WithMeter(instruments.Meter("cmd.storage-sweeper")),
	)
	report, err := sweeper.Sweep(ctx, cfg.IdleTTL)
	if err != nil {
		logger.Error("failed to sweep storage", slog.String("error", err.Error()))
		return
	}
	logger.Info("storage sweep finished",
		slog.Time("cutoff", report.Cutoff),
		slog.Int("evicted", len(report.Namespaces)),
		slog.String("backend", cfg.StorageBackend))
}
