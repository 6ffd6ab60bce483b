package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	historydomain "github.com/Apurer/go-gin-marketplace/internal/domains/history/domain"
	historyports "github.com/Apurer/go-gin-marketplace/internal/domains/history/ports"
)

const tracerName = "github.com/Apurer/go-gin-marketplace/internal/domains/history/adapters/observability/service"

// Service decorates the recently-viewed store with tracing, logging, and metrics.
type Service struct {
	inner     historyports.Service
	tracer    trace.Tracer
	logger    *slog.Logger
	views     metric.Int64Counter
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
		if m == nil {
			return
		}
		s.views, _ = m.Int64Counter("history.store.views_recorded", metric.WithDescription("Number of product views recorded"))
	}
}

func WithSession(sessionID string) Option {
	return func(s *Service) {
		s.sessionID = sessionID
	}
}

func New(inner historyports.Service, opts ...Option) historyports.Service {
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

func (s *Service) AddToHistory(ctx context.Context, entry historydomain.Entry) {
	ctx, span := s.tracer.Start(ctx, "HistoryStore.AddToHistory", trace.WithAttributes(
		attribute.String("session.id", s.sessionID),
		attribute.String("history.entry.id", entry.ID),
	))
	defer span.End()

	s.inner.AddToHistory(ctx, entry)
	if s.views != nil {
		s.views.Add(ctx, 1)
	}
	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "product view recorded",
			slog.String("session.id", s.sessionID), slog.String("history.entry.id", entry.ID))
	}
}

func (s *Service) GetHistory(ctx context.Context) []historydomain.Entry {
	ctx, span := s.tracer.Start(ctx, "HistoryStore.GetHistory", trace.WithAttributes(attribute.String("session.id", s.sessionID)))
	defer span.End()

	entries := s.inner.GetHistory(ctx)
	span.SetAttributes(attribute.Int("history.entries.count", len(entries)))
	return entries
}

func (s *Service) ClearHistory(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "HistoryStore.ClearHistory", trace.WithAttributes(attribute.String("session.id", s.sessionID)))
	defer span.End()

	s.inner.ClearHistory(ctx)
	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "history cleared", slog.String("session.id", s.sessionID))
	}
}

var _ historyports.Service = (*Service)(nil)
