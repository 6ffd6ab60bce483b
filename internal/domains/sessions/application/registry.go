package application

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-marketplace/internal/domains/sessions/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/sessions/ports"
	"github.com/Apurer/go-gin-marketplace/internal/platform/storage"
)

// Registry owns every open session and the stores bound to it.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*ports.Handle
	lastSeen map[string]time.Time
	backend  storage.Backend
	factory  ports.StoreFactory
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

type Option func(*Registry)

// WithFactory replaces the store factory, typically to add decorators.
func WithFactory(f ports.StoreFactory) Option {
	return func(r *Registry) {
		if f != nil {
			r.factory = f
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// WithIDGenerator overrides how blank session and device IDs are filled in.
func WithIDGenerator(gen func() string) Option {
	return func(r *Registry) {
		if gen != nil {
			r.newID = gen
		}
	}
}

// NewRegistry wires a registry over backend. A nil backend leaves every
// session without durable storage.
func NewRegistry(backend storage.Backend, opts ...Option) *Registry {
	r := &Registry{
		sessions: map[string]*ports.Handle{},
		lastSeen: map[string]time.Time{},
		backend:  backend,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.factory == nil {
		r.factory = DefaultFactory{Logger: r.logger}
	}
	return r
}

func (r *Registry) Open(ctx context.Context, sessionID, deviceID string) (*ports.Handle, error) {
	sessionID = strings.TrimSpace(sessionID)
	deviceID = strings.TrimSpace(deviceID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if sessionID != "" {
		if existing, ok := r.sessions[sessionID]; ok {
			if deviceID != "" && deviceID != existing.Session.DeviceID {
				return nil, ports.ErrDeviceMismatch
			}
			r.lastSeen[sessionID] = r.now()
			return existing, nil
		}
	} else {
		sessionID = r.newID()
	}
	if deviceID == "" {
		deviceID = r.newID()
	}
	opened := r.now()
	session, err := domain.NewSession(sessionID, deviceID, opened)
	if err != nil {
		return nil, mapError(err)
	}
	st := storage.Namespace(r.backend, session.DeviceID)
	handle := &ports.Handle{
		Session:       *session,
		Cart:          r.factory.Cart(ctx, *session, st),
		History:       r.factory.History(ctx, *session, st),
		Notifications: r.factory.Notifications(ctx, *session),
	}
	r.sessions[session.ID] = handle
	r.lastSeen[session.ID] = opened
	if r.logger != nil {
		r.logger.LogAttrs(ctx, slog.LevelInfo, "session opened",
			slog.String("session.id", session.ID),
			slog.String("device.id", session.DeviceID),
			slog.Bool("storage.available", storage.IsAvailable(ctx, st)))
	}
	return handle, nil
}

func (r *Registry) Get(_ context.Context, sessionID string) (*ports.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sessionID = strings.TrimSpace(sessionID)
	handle, ok := r.sessions[sessionID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	r.lastSeen[sessionID] = r.now()
	return handle, nil
}

func (r *Registry) End(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sessionID]; !ok {
		return ports.ErrNotFound
	}
	delete(r.sessions, sessionID)
	delete(r.lastSeen, sessionID)
	if r.logger != nil {
		r.logger.LogAttrs(ctx, slog.LevelInfo, "session ended", slog.String("session.id", sessionID))
	}
	return nil
}

// List returns open sessions ordered by opening time.
func (r *Registry) List(_ context.Context) ([]domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]domain.Session, 0, len(r.sessions))
	for _, handle := range r.sessions {
		list = append(list, handle.Session)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].OpenedAt.Equal(list[j].OpenedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].OpenedAt.Before(list[j].OpenedAt)
	})
	return list, nil
}

// CloseAll ends every open session and reports how many were dropped.
func (r *Registry) CloseAll(ctx context.Context) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.sessions)
	r.sessions = map[string]*ports.Handle{}
	r.lastSeen = map[string]time.Time{}
	if r.logger != nil && n > 0 {
		r.logger.LogAttrs(ctx, slog.LevelInfo, "sessions closed", slog.Int("sessions.count", n))
	}
	return n
}

func (r *Registry) EndIdle(ctx context.Context, cutoff time.Time) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ended := []string{}
	for id, seen := range r.lastSeen {
		if seen.After(cutoff) {
			continue
		}
		delete(r.sessions, id)
		delete(r.lastSeen, id)
		ended = append(ended, id)
	}
	sort.Strings(ended)
	if r.logger != nil && len(ended) > 0 {
		r.logger.LogAttrs(ctx, slog.LevelInfo, "idle sessions ended",
			slog.Int("sessions.count", len(ended)), slog.Time("sessions.cutoff", cutoff))
	}
	return ended
}

var _ ports.Service = (*Registry)(nil)
