package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Apurer/go-gin-marketplace/internal/domains/history/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/history/ports"
	"github.com/Apurer/go-gin-marketplace/internal/platform/storage"
)

// Store reads and writes the recently viewed log straight through durable
// storage. Without storage it reads empty and writes nothing.
type Store struct {
	mu      sync.Mutex
	storage storage.Storage
	box     *storage.Persisted[[]domain.Entry]
}

type Option func(*options)

type options struct {
	logger *slog.Logger
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func NewStore(st storage.Storage, opts ...Option) *Store {
	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Store{
		storage: st,
		box:     storage.NewPersisted[[]domain.Entry](ports.StorageKey, storage.WithLogger(cfg.logger)),
	}
}

func (s *Store) AddToHistory(ctx context.Context, entry domain.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !storage.IsAvailable(ctx, s.storage) {
		return
	}
	current, _ := s.box.Load(ctx, s.storage)
	s.box.Save(ctx, s.storage, domain.Push(current, entry))
}

func (s *Store) GetHistory(ctx context.Context) []domain.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, _ := s.box.Load(ctx, s.storage)
	return domain.Clamp(entries)
}

func (s *Store) ClearHistory(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.box.Clear(ctx, s.storage)
}

var _ ports.Service = (*Store)(nil)
