package api

import (
	"context"
	"log/slog"

	"github.com/Apurer/go-gin-marketplace/internal/platform/migrations"
	platformpostgres "github.com/Apurer/go-gin-marketplace/internal/platform/postgres"
	"github.com/Apurer/go-gin-marketplace/internal/platform/storage"
	storagememory "github.com/Apurer/go-gin-marketplace/internal/platform/storage/memory"
	storagepostgres "github.com/Apurer/go-gin-marketplace/internal/platform/storage/postgres"
	storagesqlite "github.com/Apurer/go-gin-marketplace/internal/platform/storage/sqlite"
)

// DurableBackend is a storage backend that can also evict idle devices.
type DurableBackend interface {
	storage.Backend
	storage.Evictor
}

// OpenBackend builds the configured storage backend. Any failure falls back to
// the in-process backend so sessions keep working, just without durability
// across restarts.
func OpenBackend(ctx context.Context, cfg Config, logger *slog.Logger) (DurableBackend, func()) {
	fallback := func() (DurableBackend, func()) {
		return storagememory.NewBackend(storagememory.WithQuota(cfg.StorageQuotaBytes)), func() {}
	}
	switch cfg.StorageBackend {
	case BackendPostgres:
		db, cleanup := platformpostgres.ConnectWithFallback(ctx, cfg.PostgresDSN, logger)
		if db == nil {
			return fallback()
		}
		if err := migrations.Run(db.WithContext(ctx)); err != nil {
			logger.Warn("failed to migrate storage schema, falling back to in-memory storage", slog.String("error", err.Error()))
			cleanup()
			return fallback()
		}
		logger.Info("device storage configured with postgres")
		return storagepostgres.NewBackend(db), cleanup
	case BackendSQLite:
		backend, err := storagesqlite.Open(cfg.SQLitePath)
		if err != nil {
			logger.Warn("failed to open sqlite storage, falling back to in-memory storage",
				slog.String("path", cfg.SQLitePath), slog.String("error", err.Error()))
			return fallback()
		}
		logger.Info("device storage configured with sqlite", slog.String("path", cfg.SQLitePath))
		return backend, func() { _ = backend.Close() }
	default:
		logger.Info("device storage configured in memory", slog.Int("quotaBytes", cfg.StorageQuotaBytes))
		return fallback()
	}
}
