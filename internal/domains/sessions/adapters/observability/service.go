package observability

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-marketplace/internal/domains/sessions/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/sessions/ports"
	"github.com/Apurer/go-gin-marketplace/internal/platform/storage"
)

const tracerName = "github.com/Apurer/go-gin-marketplace/internal/domains/sessions/adapters/observability/service"

// Service decorates the session registry with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*settings)

type settings struct {
	tracer trace.Tracer
	logger *slog.Logger
	meter  metric.Meter
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *settings) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *settings) {
		s.meter = m
	}
}

func collect(opts []Option) settings {
	cfg := settings{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.tracer == nil {
		cfg.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return cfg
}

// New wraps the session registry.
func New(inner ports.Service, opts ...Option) ports.Service {
	cfg := collect(opts)
	return &Service{inner: inner, tracer: cfg.tracer, logger: cfg.logger, metrics: newServiceMetrics(cfg.meter)}
}

func (s *Service) Open(ctx context.Context, sessionID, deviceID string) (*ports.Handle, error) {
	ctx, span := s.tracer.Start(ctx, "SessionService.Open", trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	isNew := strings.TrimSpace(sessionID) == ""
	if !isNew {
		_, err := s.inner.Get(ctx, sessionID)
		isNew = errors.Is(err, ports.ErrNotFound)
	}
	handle, err := s.inner.Open(ctx, sessionID, deviceID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logWarn(ctx, "session open rejected", slog.String("session.id", sessionID), slog.String("error", err.Error()))
		return nil, err
	}
	span.SetAttributes(
		attribute.String("session.id", handle.Session.ID),
		attribute.String("device.id", handle.Session.DeviceID),
		attribute.Bool("session.created", isNew),
	)
	if isNew {
		s.metrics.recordOpened(ctx)
	}
	return handle, nil
}

func (s *Service) Get(ctx context.Context, sessionID string) (*ports.Handle, error) {
	ctx, span := s.tracer.Start(ctx, "SessionService.Get", trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	handle, err := s.inner.Get(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return handle, err
}

func (s *Service) End(ctx context.Context, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "SessionService.End", trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	if err := s.inner.End(ctx, sessionID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	s.metrics.recordEnded(ctx)
	return nil
}

func (s *Service) List(ctx context.Context) ([]domain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "SessionService.List")
	defer span.End()

	list, err := s.inner.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("sessions.count", len(list)))
	return list, nil
}

func (s *Service) EndIdle(ctx context.Context, cutoff time.Time) []string {
	ctx, span := s.tracer.Start(ctx, "SessionService.EndIdle", trace.WithAttributes(attribute.String("sessions.cutoff", cutoff.UTC().Format(time.RFC3339))))
	defer span.End()

	ended := s.inner.EndIdle(ctx, cutoff)
	span.SetAttributes(attribute.Int("sessions.ended", len(ended)))
	for range ended {
		s.metrics.recordEnded(ctx)
	}
	return ended
}

func (s *Service) logWarn(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
	}
}

type serviceMetrics struct {
	opened metric.Int64Counter
	ended  metric.Int64Counter
	active metric.Int64UpDownCounter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	opened, _ := m.Int64Counter("sessions.opened", metric.WithDescription("Number of sessions opened"))
	ended, _ := m.Int64Counter("sessions.ended", metric.WithDescription("Number of sessions ended"))
	active, _ := m.Int64UpDownCounter("sessions.active", metric.WithDescription("Sessions currently open"))
	return serviceMetrics{opened: opened, ended: ended, active: active}
}

func (m serviceMetrics) recordOpened(ctx context.Context) {
	if m.opened != nil {
		m.opened.Add(ctx, 1)
	}
	if m.active != nil {
		m.active.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordEnded(ctx context.Context) {
	if m.ended != nil {
		m.ended.Add(ctx, 1)
	}
	if m.active != nil {
		m.active.Add(ctx, -1)
	}
}

var _ ports.Service = (*Service)(nil)

// Sweeper decorates a storage sweeper with a span, a log line, and an eviction counter.
type Sweeper struct {
	inner   ports.StorageSweeper
	tracer  trace.Tracer
	logger  *slog.Logger
	evicted metric.Int64Counter
}

func NewSweeper(inner ports.StorageSweeper, opts ...Option) ports.StorageSweeper {
	cfg := collect(opts)
	s := &Sweeper{inner: inner, tracer: cfg.tracer, logger: cfg.logger}
	if cfg.meter != nil {
		s.evicted, _ = cfg.meter.Int64Counter("storage.sweep.evicted_namespaces", metric.WithDescription("Device namespaces evicted by storage sweeps"))
	}
	return s
}

func (s *Sweeper) Sweep(ctx context.Context, idleFor time.Duration) (storage.SweepReport, error) {
	ctx, span := s.tracer.Start(ctx, "StorageSweeper.Sweep", trace.WithAttributes(attribute.String("storage.idle_for", idleFor.String())))
	defer span.End()

	report, err := s.inner.Sweep(ctx, idleFor)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "storage sweep failed", slog.String("error", err.Error()))
		}
		return report, err
	}
	span.SetAttributes(attribute.Int("storage.evicted", len(report.Namespaces)))
	if s.evicted != nil {
		s.evicted.Add(ctx, int64(len(report.Namespaces)))
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "storage sweep completed",
			slog.Time("storage.cutoff", report.Cutoff),
			slog.Int("storage.evicted", len(report.Namespaces)))
	}
	return report, nil
}

var _ ports.StorageSweeper = (*Sweeper)(nil)
