package ports

import (
	"context"

	"github.com/Apurer/go-gin-marketplace/internal/domains/history/domain"
)

// StorageKey is the fixed durable-storage key holding the recently viewed log.
const StorageKey = "recent-history"

// Service exposes the recently-viewed log. It keeps no state of its own:
// every call goes to durable storage, and no call ever fails.
type Service interface {
	AddToHistory(ctx context.Context, entry domain.Entry)
	GetHistory(ctx context.Context) []domain.Entry
	ClearHistory(ctx context.Context)
}
