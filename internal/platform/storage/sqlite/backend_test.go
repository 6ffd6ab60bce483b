package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-marketplace/internal/platform/storage"
)

func openTestBackend(t *testing.T, opts ...Option) *Backend {
	t.Helper()
	b, err := Open(filepath.Join(t.TempDir(), "device.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func TestBackend_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	b := openTestBackend(t)

	_, ok, err := b.Get(ctx, "ns", "cart-storage")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Put(ctx, "ns", "cart-storage", `{"state":{},"version":0}`))
	require.NoError(t, b.Put(ctx, "ns", "cart-storage", `{"state":{"items":[]},"version":0}`))
	value, ok, err := b.Get(ctx, "ns", "cart-storage")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"state":{"items":[]},"version":0}`, value)

	require.NoError(t, b.Delete(ctx, "ns", "cart-storage"))
	_, ok, err = b.Get(ctx, "ns", "cart-storage")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBackend_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "device.db")

	first, err := Open(path)
	require.NoError(t, err)
	st := storage.Namespace(first, "device-1")
	require.NoError(t, st.SetItem(ctx, "recent-history", `[]`))
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()
	value, ok, err := storage.Namespace(second, "device-1").GetItem(ctx, "recent-history")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, value)
}

func TestBackend_PurgeIdle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	b := openTestBackend(t, WithClock(func() time.Time { return now }))

	require.NoError(t, b.Put(ctx, "idle", "k", "v"))
	require.NoError(t, b.Put(ctx, "mixed", "k1", "v"))
	now = now.Add(2 * time.Hour)
	require.NoError(t, b.Put(ctx, "mixed", "k2", "v"))

	evicted, err := b.PurgeIdle(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{"idle"}, evicted)

	_, ok, err := b.Get(ctx, "mixed", "k1")
	require.NoError(t, err)
	assert.True(t, ok)
}
