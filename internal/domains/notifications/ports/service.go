package ports

import (
	"context"

	"github.com/Apurer/go-gin-marketplace/internal/domains/notifications/domain"
)

// Service exposes the per-session notification list. State is in-memory only
// and starts empty for every new session.
type Service interface {
	SetNotifications(ctx context.Context, items []domain.Notification)
	MarkAsRead(ctx context.Context, id int64)
	MarkAllAsRead(ctx context.Context)
	AddNotification(ctx context.Context, item domain.Notification)
	List(ctx context.Context) []domain.Notification
	UnreadCount(ctx context.Context) int
}
