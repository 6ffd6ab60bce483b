package application

import (
	"context"
	"sync"

	"github.com/Apurer/go-gin-marketplace/internal/domains/notifications/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/notifications/ports"
)

// Store keeps the notification list in memory.
type Store struct {
	mu    sync.RWMutex
	items domain.List
}

func NewStore() *Store {
	return &Store{items: domain.List{}}
}

func (s *Store) SetNotifications(_ context.Context, items []domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = domain.List(items).Clone()
}

func (s *Store) MarkAsRead(_ context.Context, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = s.items.MarkRead(id)
}

func (s *Store) MarkAllAsRead(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = s.items.MarkAllRead()
}

func (s *Store) AddNotification(_ context.Context, item domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = s.items.Prepend(item)
}

func (s *Store) List(_ context.Context) []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.Clone()
}

func (s *Store) UnreadCount(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.UnreadCount()
}

var _ ports.Service = (*Store)(nil)
