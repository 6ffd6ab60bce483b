package application

import (
	"context"
	"log/slog"

	cartapp "github.com/Apurer/go-gin-marketplace/internal/domains/cart/application"
	cartports "github.com/Apurer/go-gin-marketplace/internal/domains/cart/ports"
	historyapp "github.com/Apurer/go-gin-marketplace/internal/domains/history/application"
	historyports "github.com/Apurer/go-gin-marketplace/internal/domains/history/ports"
	notificationapp "github.com/Apurer/go-gin-marketplace/internal/domains/notifications/application"
	notificationports "github.com/Apurer/go-gin-marketplace/internal/domains/notifications/ports"
	"github.com/Apurer/go-gin-marketplace/internal/domains/sessions/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/sessions/ports"
	"github.com/Apurer/go-gin-marketplace/internal/platform/storage"
)

// DefaultFactory builds undecorated stores.
type DefaultFactory struct {
	Logger *slog.Logger
}

func (f DefaultFactory) Cart(ctx context.Context, _ domain.Session, st storage.Storage) cartports.Service {
	return cartapp.NewStore(ctx, st, cartapp.WithLogger(f.Logger))
}

func (f DefaultFactory) History(_ context.Context, _ domain.Session, st storage.Storage) historyports.Service {
	return historyapp.NewStore(st, historyapp.WithLogger(f.Logger))
}

func (f DefaultFactory) Notifications(context.Context, domain.Session) notificationports.Service {
	return notificationapp.NewStore()
}

var _ ports.StoreFactory = DefaultFactory{}
