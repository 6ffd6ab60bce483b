package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	notificationdomain "github.com/Apurer/go-gin-marketplace/internal/domains/notifications/domain"
	notificationports "github.com/Apurer/go-gin-marketplace/internal/domains/notifications/ports"
)

const tracerName = "github.com/Apurer/go-gin-marketplace/internal/domains/notifications/adapters/observability/service"

// Service decorates the notification store with tracing, logging, and metrics.
type Service struct {
	inner     notificationports.Service
	tracer    trace.Tracer
	logger    *slog.Logger
	metrics   serviceMetrics
	sessionID string
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

func WithSession(sessionID string) Option {
	return func(s *Service) {
		s.sessionID = sessionID
	}
}

func New(inner notificationports.Service, opts ...Option) notificationports.Service {
	s := &Service{inner: inner}
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

func (s *Service) SetNotifications(ctx context.Context, items []notificationdomain.Notification) {
	ctx, span := s.start(ctx, "NotificationStore.SetNotifications", attribute.Int("notifications.count", len(items)))
	defer span.End()

	s.inner.SetNotifications(ctx, items)
	s.logInfo(ctx, "notifications replaced", slog.Int("notifications.count", len(items)))
}

func (s *Service) MarkAsRead(ctx context.Context, id int64) {
	ctx, span := s.start(ctx, "NotificationStore.MarkAsRead", attribute.Int64("notification.id", id))
	defer span.End()

	s.inner.MarkAsRead(ctx, id)
	s.metrics.recordRead(ctx, "one")
	s.logInfo(ctx, "notification marked read", slog.Int64("notification.id", id))
}

func (s *Service) MarkAllAsRead(ctx context.Context) {
	ctx, span := s.start(ctx, "NotificationStore.MarkAllAsRead")
	defer span.End()

	s.inner.MarkAllAsRead(ctx)
	s.metrics.recordRead(ctx, "all")
	s.logInfo(ctx, "all notifications marked read")
}

func (s *Service) AddNotification(ctx context.Context, item notificationdomain.Notification) {
	ctx, span := s.start(ctx, "NotificationStore.AddNotification",
		attribute.Int64("notification.id", item.ID), attribute.String("notification.type", item.Type))
	defer span.End()

	s.inner.AddNotification(ctx, item)
	s.metrics.recordAdded(ctx, item.Type)
	s.logInfo(ctx, "notification added", slog.Int64("notification.id", item.ID), slog.String("notification.type", item.Type))
}

func (s *Service) List(ctx context.Context) []notificationdomain.Notification {
	ctx, span := s.start(ctx, "NotificationStore.List")
	defer span.End()

	items := s.inner.List(ctx)
	span.SetAttributes(attribute.Int("notifications.count", len(items)))
	return items
}

func (s *Service) UnreadCount(ctx context.Context) int {
	ctx, span := s.start(ctx, "NotificationStore.UnreadCount")
	defer span.End()

	n := s.inner.UnreadCount(ctx)
	span.SetAttributes(attribute.Int("notifications.unread", n))
	return n
}

func (s *Service) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("session.id", s.sessionID))
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	attrs = append(attrs, slog.String("session.id", s.sessionID))
	s.logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

type serviceMetrics struct {
	added metric.Int64Counter
	read  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	added, _ := m.Int64Counter("notifications.store.added", metric.WithDescription("Number of notifications pushed to sessions"))
	read, _ := m.Int64Counter("notifications.store.mark_read", metric.WithDescription("Number of mark-read calls"))
	return serviceMetrics{added: added, read: read}
}

func (m serviceMetrics) recordAdded(ctx context.Context, kind string) {
	if m.added != nil {
		m.added.Add(ctx, 1, metric.WithAttributes(attribute.String("notification.type", kind)))
	}
}

func (m serviceMetrics) recordRead(ctx context.Context, scope string) {
	if m.read != nil {
		m.read.Add(ctx, 1, metric.WithAttributes(attribute.String("scope", scope)))
	}
}

var _ notificationports.Service = (*Service)(nil)
