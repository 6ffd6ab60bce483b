package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/go-gin-marketplace/internal/platform/storage"
)

var (
	_ storage.Backend = (*Backend)(nil)
	_ storage.Evictor = (*Backend)(nil)
)

// ErrQuotaExceeded is returned when a write would push a namespace past its
// configured byte quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Backend is an in-process storage backend. Data lives as long as the process.
type Backend struct {
	mu         sync.RWMutex
	namespaces map[string]*namespace
	quota      int
	now        func() time.Time
}

type namespace struct {
	items     map[string]string
	updatedAt time.Time
}

type Option func(*Backend)

// WithQuota caps the total size of keys plus values per namespace, in bytes.
func WithQuota(bytes int) Option {
	return func(b *Backend) {
		b.quota = bytes
	}
}

// WithClock overrides the time source used for idle tracking.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) {
		if now != nil {
			b.now = now
		}
	}
}

func NewBackend(opts ...Option) *Backend {
	b := &Backend{namespaces: map[string]*namespace{}, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func (b *Backend) Get(_ context.Context, ns, key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	space, ok := b.namespaces[ns]
	if !ok {
		return "", false, nil
	}
	value, ok := space.items[key]
	return value, ok, nil
}

func (b *Backend) Put(_ context.Context, ns, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	space, ok := b.namespaces[ns]
	if !ok {
		space = &namespace{items: map[string]string{}}
	}
	if b.quota > 0 {
		size := len(key) + len(value)
		for k, v := range space.items {
			if k != key {
				size += len(k) + len(v)
			}
		}
		if size > b.quota {
			return ErrQuotaExceeded
		}
	}
	space.items[key] = value
	space.updatedAt = b.now()
	b.namespaces[ns] = space
	return nil
}

func (b *Backend) Delete(_ context.Context, ns, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	space, ok := b.namespaces[ns]
	if !ok {
		return nil
	}
	delete(space.items, key)
	space.updatedAt = b.now()
	if len(space.items) == 0 {
		delete(b.namespaces, ns)
	}
	return nil
}

// PurgeIdle drops namespaces not written since cutoff.
func (b *Backend) PurgeIdle(_ context.Context, cutoff time.Time) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	evicted := []string{}
	for name, space := range b.namespaces {
		if !space.updatedAt.After(cutoff) {
			evicted = append(evicted, name)
			delete(b.namespaces, name)
		}
	}
	sort.Strings(evicted)
	return evicted, nil
}
