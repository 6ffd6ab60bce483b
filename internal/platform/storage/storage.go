// Package storage models durable, device-scoped key/value storage for session
// state: the server-side counterpart of a browser's local storage.
package storage

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrUnavailable is returned by a Storage that has no durable capability.
var ErrUnavailable = errors.New("durable storage unavailable")

// Storage is a string key/value store scoped to a single device namespace.
// Callers must check Available before every access.
type Storage interface {
	Available(ctx context.Context) bool
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// Backend holds the items of many namespaces.
type Backend interface {
	Get(ctx context.Context, namespace, key string) (string, bool, error)
	Put(ctx context.Context, namespace, key, value string) error
	Delete(ctx context.Context, namespace, key string) error
}

// Evictor is implemented by backends that can drop idle namespaces.
type Evictor interface {
	// PurgeIdle removes every namespace whose newest write is at or before
	// cutoff and returns the evicted namespaces.
	PurgeIdle(ctx context.Context, cutoff time.Time) ([]string, error)
}

// SweepReport summarises one eviction pass.
type SweepReport struct {
	Cutoff     time.Time `json:"cutoff"`
	Namespaces []string  `json:"namespaces"`
}

// Unavailable stands in for execution contexts without durable storage.
var Unavailable Storage = unavailable{}

type unavailable struct{}

func (unavailable) Available(context.Context) bool { return false }

func (unavailable) GetItem(context.Context, string) (string, bool, error) {
	return "", false, ErrUnavailable
}

func (unavailable) SetItem(context.Context, string, string) error { return ErrUnavailable }

func (unavailable) RemoveItem(context.Context, string) error { return ErrUnavailable }

// Namespace scopes a backend to one device. A nil backend or a blank
// namespace yields Unavailable.
func Namespace(backend Backend, namespace string) Storage {
	namespace = strings.TrimSpace(namespace)
	if backend == nil || namespace == "" {
		return Unavailable
	}
	return &scoped{backend: backend, namespace: namespace}
}

type scoped struct {
	backend   Backend
	namespace string
}

func (s *scoped) Available(ctx context.Context) bool {
	return s != nil && s.backend != nil && ctx.Err() == nil
}

func (s *scoped) GetItem(ctx context.Context, key string) (string, bool, error) {
	return s.backend.Get(ctx, s.namespace, key)
}

func (s *scoped) SetItem(ctx context.Context, key, value string) error {
	return s.backend.Put(ctx, s.namespace, key, value)
}

func (s *scoped) RemoveItem(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, s.namespace, key)
}

// IsAvailable reports whether st can be used right now. A nil Storage is
// unavailable.
func IsAvailable(ctx context.Context, st Storage) bool {
	return st != nil && st.Available(ctx)
}
