// Package sqlite provides a single-file storage backend, the on-device variant
// of durable session storage.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Apurer/go-gin-marketplace/internal/platform/storage"
)

var (
	_ storage.Backend = (*Backend)(nil)
	_ storage.Evictor = (*Backend)(nil)
)

const schema = `CREATE TABLE IF NOT EXISTS local_storage (
	namespace  TEXT    NOT NULL,
	key        TEXT    NOT NULL,
	value      TEXT    NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (namespace, key)
);
CREATE INDEX IF NOT EXISTS idx_local_storage_updated_at ON local_storage (updated_at);`

// Backend persists device storage in SQLite.
type Backend struct {
	sqlDB *sql.DB
	now   func() time.Time
}

type Option func(*Backend)

// WithClock overrides the time source used for idle tracking.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) {
		if now != nil {
			b.now = now
		}
	}
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Open opens (or creates) the database file at path and ensures the schema.
func Open(path string, opts ...Option) (*Backend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	b := &Backend{sqlDB: sqlDB, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b, nil
}

// Close closes the SQLite handle.
func (b *Backend) Close() error {
	if b == nil || b.sqlDB == nil {
		return nil
	}
	return b.sqlDB.Close()
}

func (b *Backend) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	if err := b.ensureDB(); err != nil {
		return "", false, err
	}
	var value string
	err := b.sqlDB.QueryRowContext(ctx,
		`SELECT value FROM local_storage WHERE namespace = ? AND key = ?`, namespace, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (b *Backend) Put(ctx context.Context, namespace, key, value string) error {
	if err := b.ensureDB(); err != nil {
		return err
	}
	_, err := b.sqlDB.ExecContext(ctx,
		`INSERT INTO local_storage (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		namespace, key, value, toMillis(b.now()))
	return err
}

func (b *Backend) Delete(ctx context.Context, namespace, key string) error {
	if err := b.ensureDB(); err != nil {
		return err
	}
	_, err := b.sqlDB.ExecContext(ctx, `DELETE FROM local_storage WHERE namespace = ? AND key = ?`, namespace, key)
	return err
}

// PurgeIdle removes every namespace whose newest item was written at or before cutoff.
func (b *Backend) PurgeIdle(ctx context.Context, cutoff time.Time) ([]string, error) {
	if err := b.ensureDB(); err != nil {
		return nil, err
	}
	tx, err := b.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx,
		`SELECT namespace FROM local_storage GROUP BY namespace HAVING MAX(updated_at) <= ? ORDER BY namespace`,
		toMillis(cutoff))
	if err != nil {
		return nil, err
	}
	evicted := []string{}
	for rows.Next() {
		var ns string
		if err := rows.Scan(&ns); err != nil {
			_ = rows.Close()
			return nil, err
		}
		evicted = append(evicted, ns)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, ns := range evicted {
		if _, err := tx.ExecContext(ctx, `DELETE FROM local_storage WHERE namespace = ?`, ns); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return evicted, nil
}

func (b *Backend) ensureDB() error {
	if b == nil || b.sqlDB == nil {
		return errors.New("sqlite storage backend not configured")
	}
	return nil
}
