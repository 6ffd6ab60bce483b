package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	cartobs "github.com/Apurer/go-gin-marketplace/internal/domains/cart/adapters/observability"
	cartports "github.com/Apurer/go-gin-marketplace/internal/domains/cart/ports"
	historyobs "github.com/Apurer/go-gin-marketplace/internal/domains/history/adapters/observability"
	historyports "github.com/Apurer/go-gin-marketplace/internal/domains/history/ports"
	notificationobs "github.com/Apurer/go-gin-marketplace/internal/domains/notifications/adapters/observability"
	notificationports "github.com/Apurer/go-gin-marketplace/internal/domains/notifications/ports"
	"github.com/Apurer/go-gin-marketplace/internal/domains/sessions/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/sessions/ports"
	"github.com/Apurer/go-gin-marketplace/internal/platform/storage"
)

// Instruments hands out named tracers and meters, one per decorated store.
type Instruments interface {
	Tracer(name string) trace.Tracer
	Meter(name string) metric.Meter
}

// StoreFactory decorates every store built by the inner factory.
type StoreFactory struct {
	inner       ports.StoreFactory
	instruments Instruments
	logger      *slog.Logger
}

func NewStoreFactory(inner ports.StoreFactory, instruments Instruments, logger *slog.Logger) *StoreFactory {
	return &StoreFactory{inner: inner, instruments: instruments, logger: logger}
}

func (f *StoreFactory) Cart(ctx context.Context, session domain.Session, st storage.Storage) cartports.Service {
	opts := []cartobs.Option{cartobs.WithLogger(f.logger), cartobs.WithSession(session.ID, session.DeviceID)}
	if f.instruments != nil {
		opts = append(opts,
			cartobs.WithTracer(f.instruments.Tracer("internal.domains.cart")),
			cartobs.WithMeter(f.instruments.Meter("internal.domains.cart")))
	}
	return cartobs.New(f.inner.Cart(ctx, session, st), opts...)
}

func (f *StoreFactory) History(ctx context.Context, session domain.Session, st storage.Storage) historyports.Service {
	opts := []historyobs.Option{historyobs.WithLogger(f.logger), historyobs.WithSession(session.ID)}
	if f.instruments != nil {
		opts = append(opts,
			historyobs.WithTracer(f.instruments.Tracer("internal.domains.history")),
			historyobs.WithMeter(f.instruments.Meter("internal.domains.history")))
	}
	return historyobs.New(f.inner.History(ctx, session, st), opts...)
}

func (f *StoreFactory) Notifications(ctx context.Context, session domain.Session) notificationports.Service {
	opts := []notificationobs.Option{notificationobs.WithLogger(f.logger), notificationobs.WithSession(session.ID)}
	if f.instruments != nil {
		opts = append(opts,
			notificationobs.WithTracer(f.instruments.Tracer("internal.domains.notifications")),
			notificationobs.WithMeter(f.instruments.Meter("internal.domains.notifications")))
	}
	return notificationobs.New(f.inner.Notifications(ctx, session), opts...)
}

var _ ports.StoreFactory = (*StoreFactory)(nil)
