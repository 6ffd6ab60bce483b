package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"

	"github.com/Apurer/go-gin-marketplace/internal/app/api"
	platformobservability "github.com/Apurer/go-gin-marketplace/internal/platform/observability"
	sweepactivities "github.com/Apurer/go-gin-marketplace/internal/platform/temporal/activities/sweep"
	sweepworkflows "github.com/Apurer/go-gin-marketplace/internal/platform/temporal/workflows/sweep"
)

func main() {
	ctx := context.Background()
	const serviceName = "marketplace-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
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

	backend, cleanupBackend := api.OpenBackend(ctx, cfg, logger)
	defer cleanupBackend()
	if cfg.StorageBackend == api.BackendMemory {
		logger.Warn("worker uses in-process storage; the API sweeps its own memory storage inline")
	}
	sweepActivities := sweepactivities.NewActivities(backend)

	temporalClient, err := api.ConnectTemporalClient(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, sweepworkflows.StorageSweepTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(sweepworkflows.StorageSweepWorkflow, sweepworkflows.RegisterOptions())
	w.RegisterActivityWithOptions(sweepActivities.PurgeIdle, activity.RegisterOptions{Name: sweepactivities.PurgeIdleActivityName})

	logger.Info("worker listening", slog.String("taskQueue", sweepworkflows.StorageSweepTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
