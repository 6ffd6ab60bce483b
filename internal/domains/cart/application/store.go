package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Apurer/go-gin-marketplace/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/cart/ports"
	"github.com/Apurer/go-gin-marketplace/internal/platform/storage"
)

// Store holds one device's cart and writes it back to storage after every
// mutation. Operations are serialised, so each completes, write-back
// included, before the next begins.
type Store struct {
	mu      sync.Mutex
	state   domain.State
	storage storage.Storage
	box     *storage.Persisted[domain.State]
	logger  *slog.Logger
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore rehydrates the cart from st, starting empty when nothing usable is
// stored. st may be nil or storage.Unavailable.
func NewStore(ctx context.Context, st storage.Storage, opts ...Option) *Store {
	s := &Store{state: domain.Empty(), storage: st}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.box = storage.NewPersisted[domain.State](ports.StorageKey,
		storage.WithVersion(ports.StorageVersion),
		storage.WithLogger(s.logger),
	)
	if restored, ok := s.box.Load(ctx, st); ok {
		s.state = restored.Normalize()
	}
	return s
}

func (s *Store) AddItem(ctx context.Context, product domain.Product) bool {
	var added bool
	s.mutate(ctx, func(state domain.State) domain.State {
		added = state.Find(product.ID) < 0
		return state.Add(product)
	})
	return added
}

func (s *Store) RemoveItem(ctx context.Context, id string) {
	s.mutate(ctx, func(state domain.State) domain.State { return state.Remove(id) })
}

func (s *Store) ClearCart(ctx context.Context) {
	s.mutate(ctx, func(state domain.State) domain.State { return state.Clear() })
}

func (s *Store) SetTotals(ctx context.Context, shipping, total int64) {
	s.mutate(ctx, func(state domain.State) domain.State { return state.SetTotals(shipping, total) })
}

func (s *Store) Snapshot(_ context.Context) domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Store) mutate(ctx context.Context, fn func(domain.State) domain.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	s.box.Save(ctx, s.storage, s.state)
}

var _ ports.Service = (*Store)(nil)
