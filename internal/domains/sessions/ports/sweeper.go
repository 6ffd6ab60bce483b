package ports

import (
	"context"
	"time"

	"github.com/Apurer/go-gin-marketplace/internal/platform/storage"
)

// StorageSweeper evicts device storage that has been idle for longer than idleFor.
type StorageSweeper interface {
	Sweep(ctx context.Context, idleFor time.Duration) (storage.SweepReport, error)
}
