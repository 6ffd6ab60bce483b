package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
)

// Persisted binds a value of type T to a fixed storage key. Loads treat
// unavailable storage and malformed data as absent; saves write the whole
// value back and report whether the write landed. Neither ever fails the
// caller.
type Persisted[T any] struct {
	key      string
	version  int
	envelope bool
	logger   *slog.Logger
}

// PersistOption configures a Persisted binding.
type PersistOption func(*persistConfig)

type persistConfig struct {
	version  int
	envelope bool
	logger   *slog.Logger
}

// WithVersion wraps stored values in {"state": ..., "version": v}. Stored
// envelopes carrying another version are treated as absent.
func WithVersion(v int) PersistOption {
	return func(c *persistConfig) {
		c.version = v
		c.envelope = true
	}
}

// WithLogger reports tolerated failures at warn level.
func WithLogger(logger *slog.Logger) PersistOption {
	return func(c *persistConfig) {
		c.logger = logger
	}
}

// NewPersisted creates a binding for key.
func NewPersisted[T any](key string, opts ...PersistOption) *Persisted[T] {
	cfg := persistConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Persisted[T]{key: key, version: cfg.version, envelope: cfg.envelope, logger: cfg.logger}
}

// Key returns the storage key the value lives under.
func (p *Persisted[T]) Key() string { return p.key }

type envelope struct {
	State   json.RawMessage `json:"state"`
	Version *int            `json:"version"`
}

// Load reads the stored value. ok is false when storage is unavailable, the
// key is missing or the stored data cannot be decoded.
func (p *Persisted[T]) Load(ctx context.Context, st Storage) (value T, ok bool) {
	if !IsAvailable(ctx, st) {
		return value, false
	}
	raw, found, err := st.GetItem(ctx, p.key)
	if err != nil {
		p.warn(ctx, "storage read failed", err)
		return value, false
	}
	if !found || raw == "" {
		return value, false
	}
	payload := []byte(raw)
	if p.envelope {
		var env envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			p.warn(ctx, "discarding malformed stored state", err)
			return value, false
		}
		if env.Version == nil || *env.Version != p.version {
			p.warn(ctx, "discarding stored state with unexpected version", nil)
			return value, false
		}
		payload = env.State
	}
	if len(bytes.TrimSpace(payload)) == 0 || bytes.Equal(bytes.TrimSpace(payload), []byte("null")) {
		return value, false
	}
	if err := json.Unmarshal(payload, &value); err != nil {
		p.warn(ctx, "discarding malformed stored state", err)
		var zero T
		return zero, false
	}
	return value, true
}

// Save writes value back in full. It returns false when the write did not
// land; the caller keeps its in-memory state either way.
func (p *Persisted[T]) Save(ctx context.Context, st Storage, value T) bool {
	if !IsAvailable(ctx, st) {
		return false
	}
	var (
		data []byte
		err  error
	)
	if p.envelope {
		state, merr := json.Marshal(value)
		if merr != nil {
			p.warn(ctx, "encoding state failed", merr)
			return false
		}
		version := p.version
		data, err = json.Marshal(envelope{State: state, Version: &version})
	} else {
		data, err = json.Marshal(value)
	}
	if err != nil {
		p.warn(ctx, "encoding state failed", err)
		return false
	}
	if err := st.SetItem(ctx, p.key, string(data)); err != nil {
		p.warn(ctx, "storage write failed", err)
		return false
	}
	return true
}

// Clear removes the stored value.
func (p *Persisted[T]) Clear(ctx context.Context, st Storage) bool {
	if !IsAvailable(ctx, st) {
		return false
	}
	if err := st.RemoveItem(ctx, p.key); err != nil {
		p.warn(ctx, "storage delete failed", err)
		return false
	}
	return true
}

func (p *Persisted[T]) warn(ctx context.Context, msg string, err error) {
	if p.logger == nil {
		return
	}
	attrs := []slog.Attr{slog.String("storage.key", p.key)}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	p.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}
