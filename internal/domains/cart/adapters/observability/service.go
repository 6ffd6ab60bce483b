package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	cartdomain "github.com/Apurer/go-gin-marketplace/internal/domains/cart/domain"
	cartports "github.com/Apurer/go-gin-marketplace/internal/domains/cart/ports"
)

const tracerName = "github.com/Apurer/go-gin-marketplace/internal/domains/cart/adapters/observability/service"

// Service decorates the cart store with tracing, logging, and metrics.
type Service struct {
	inner   cartports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
	attrs   []attribute.KeyValue
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// WithSession tags spans and logs with the owning session and device.
func WithSession(sessionID, deviceID string) Option {
	return func(s *Service) {
		s.attrs = append(s.attrs, attribute.String("session.id", sessionID), attribute.String("device.id", deviceID))
	}
}

// New wraps the core cart store.
func New(inner cartports.Service, opts ...Option) cartports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) AddItem(ctx context.Context, product cartdomain.Product) bool {
	ctx, span := s.start(ctx, "CartStore.AddItem", attribute.String("cart.item.id", product.ID))
	defer span.End()

	added := s.inner.AddItem(ctx, product)
	span.SetAttributes(attribute.Bool("cart.item.added", added))
	if added {
		s.metrics.recordAdded(ctx)
	}
	s.logInfo(ctx, "cart item added", slog.String("cart.item.id", product.ID), slog.Bool("cart.item.added", added))
	return added
}

func (s *Service) RemoveItem(ctx context.Context, id string) {
	ctx, span := s.start(ctx, "CartStore.RemoveItem", attribute.String("cart.item.id", id))
	defer span.End()

	s.inner.RemoveItem(ctx, id)
	s.metrics.recordRemoved(ctx)
	s.logInfo(ctx, "cart item removed", slog.String("cart.item.id", id))
}

func (s *Service) ClearCart(ctx context.Context) {
	ctx, span := s.start(ctx, "CartStore.ClearCart")
	defer span.End()

	s.inner.ClearCart(ctx)
	s.metrics.recordCleared(ctx)
	s.logInfo(ctx, "cart cleared")
}

func (s *Service) SetTotals(ctx context.Context, shipping, total int64) {
	ctx, span := s.start(ctx, "CartStore.SetTotals",
		attribute.Int64("cart.shipping_fee", shipping), attribute.Int64("cart.total_amount", total))
	defer span.End()

	s.inner.SetTotals(ctx, shipping, total)
	s.logInfo(ctx, "cart totals set", slog.Int64("cart.shipping_fee", shipping), slog.Int64("cart.total_amount", total))
}

func (s *Service) Snapshot(ctx context.Context) cartdomain.State {
	ctx, span := s.start(ctx, "CartStore.Snapshot")
	defer span.End()

	state := s.inner.Snapshot(ctx)
	span.SetAttributes(attribute.Int("cart.items.count", state.Count()))
	return state
}

func (s *Service) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := make([]attribute.KeyValue, 0, len(s.attrs)+len(attrs))
	all = append(all, s.attrs...)
	all = append(all, attrs...)
	return s.tracer.Start(ctx, name, trace.WithAttributes(all...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	for _, kv := range s.attrs {
		attrs = append(attrs, slog.String(string(kv.Key), kv.Value.Emit()))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

type serviceMetrics struct {
	itemsAdded   metric.Int64Counter
	itemsRemoved metric.Int64Counter
	cartsCleared metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	itemsAdded, _ := m.Int64Counter("cart.store.items_added", metric.WithDescription("Number of line items added to carts"))
	itemsRemoved, _ := m.Int64Counter("cart.store.items_removed", metric.WithDescription("Number of remove calls on carts"))
	cartsCleared, _ := m.Int64Counter("cart.store.carts_cleared", metric.WithDescription("Number of carts cleared"))
	return serviceMetrics{itemsAdded: itemsAdded, itemsRemoved: itemsRemoved, cartsCleared: cartsCleared}
}

func (m serviceMetrics) recordAdded(ctx context.Context) {
	if m.itemsAdded != nil {
		m.itemsAdded.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRemoved(ctx context.Context) {
	if m.itemsRemoved != nil {
		m.itemsRemoved.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordCleared(ctx context.Context) {
	if m.cartsCleared != nil {
		m.cartsCleared.Add(ctx, 1)
	}
}

var _ cartports.Service = (*Service)(nil)
