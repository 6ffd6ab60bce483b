package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-marketplace/internal/platform/storage"
)

var (
	_ storage.Backend = (*Backend)(nil)
	_ storage.Evictor = (*Backend)(nil)
)

// Backend persists device storage in PostgreSQL using GORM.
type Backend struct {
	db *gorm.DB
}

// NewBackend wires a PostgreSQL-backed storage backend. Caller manages DB lifecycle
// and schema (see platform/migrations).
func NewBackend(db *gorm.DB) *Backend {
	return &Backend{db: db}
}

// ItemRecord maps one stored key of one namespace.
type ItemRecord struct {
	Namespace string    `gorm:"primaryKey;column:namespace;size:128"`
	Key       string    `gorm:"primaryKey;column:key;size:128"`
	Value     string    `gorm:"column:value;type:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;index"`
}

func (ItemRecord) TableName() string { return "local_storage" }

// Get loads a single item.
func (b *Backend) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	if err := b.ensureDB(); err != nil {
		return "", false, err
	}
	var record ItemRecord
	err := b.db.WithContext(ctx).First(&record, "namespace = ? AND key = ?", namespace, key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return record.Value, true, nil
}

// Put upserts an item.
func (b *Backend) Put(ctx context.Context, namespace, key, value string) error {
	if err := b.ensureDB(); err != nil {
		return err
	}
	record := ItemRecord{Namespace: namespace, Key: key, Value: value}
	return b.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "namespace"}, {Name: "key"}},
			DoUpdates: clause.Assignments(map[string]any{
				"value":      value,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).
		Create(&record).Error
}

// Delete removes an item. Missing items are not an error.
func (b *Backend) Delete(ctx context.Context, namespace, key string) error {
	if err := b.ensureDB(); err != nil {
		return err
	}
	return b.db.WithContext(ctx).Delete(&ItemRecord{}, "namespace = ? AND key = ?", namespace, key).Error
}

// PurgeIdle removes every namespace whose newest item was written at or before cutoff.
func (b *Backend) PurgeIdle(ctx context.Context, cutoff time.Time) ([]string, error) {
	if err := b.ensureDB(); err != nil {
		return nil, err
	}
	var evicted pq.StringArray
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := tx.Raw(`SELECT COALESCE(array_agg(namespace ORDER BY namespace), '{}')::text
			FROM (SELECT namespace FROM local_storage GROUP BY namespace HAVING MAX(updated_at) <= ?) idle`, cutoff).Row()
		if err := row.Scan(&evicted); err != nil {
			return err
		}
		if len(evicted) == 0 {
			return nil
		}
		return tx.Where("namespace IN ?", []string(evicted)).Delete(&ItemRecord{}).Error
	})
	if err != nil {
		return nil, err
	}
	return []string(evicted), nil
}

func (b *Backend) ensureDB() error {
	if b == nil || b.db == nil {
		return errors.New("postgres storage backend not configured")
	}
	return nil
}
