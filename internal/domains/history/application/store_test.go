package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-marketplace/internal/domains/history/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/history/ports"
	"github.com/Apurer/go-gin-marketplace/internal/platform/storage"
	"github.com/Apurer/go-gin-marketplace/internal/platform/storage/memory"
)

func viewed(n int) domain.Entry {
	return domain.Entry{ID: fmt.Sprintf("i%d", n), Title: fmt.Sprintf("item %d", n), Price: int64(n)}
}

func historyIDs(entries []domain.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestStore_AddAndGet(t *testing.T) {
	ctx := context.Background()
	st := storage.Namespace(memory.NewBackend(), "device-1")
	store := NewStore(st)

	assert.Equal(t, []domain.Entry{}, store.GetHistory(ctx))

	store.AddToHistory(ctx, viewed(1))
	store.AddToHistory(ctx, viewed(2))
	store.AddToHistory(ctx, viewed(1))

	assert.Equal(t, []string{"i1", "i2"}, historyIDs(store.GetHistory(ctx)))

	raw, ok, err := st.GetItem(ctx, ports.StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[
		{"id":"i1","title":"item 1","price":1,"imageUrl":"","productUrl":""},
		{"id":"i2","title":"item 2","price":2,"imageUrl":"","productUrl":""}
	]`, raw)
}

func TestStore_FullHistoryScenario(t *testing.T) {
	ctx := context.Background()
	store := NewStore(storage.Namespace(memory.NewBackend(), "device-1"))
	for n := 10; n >= 1; n-- {
		store.AddToHistory(ctx, viewed(n))
	}

	store.AddToHistory(ctx, viewed(11))

	got := store.GetHistory(ctx)
	require.Len(t, got, domain.MaxEntries)
	assert.Equal(t, []string{"i11", "i1", "i2", "i3", "i4", "i5", "i6", "i7", "i8", "i9"}, historyIDs(got))
}

func TestStore_SharedAcrossStoresOnSameDevice(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewBackend()
	tabA := NewStore(storage.Namespace(backend, "device-1"))
	tabB := NewStore(storage.Namespace(backend, "device-1"))

	tabA.AddToHistory(ctx, viewed(1))
	tabB.AddToHistory(ctx, viewed(2))

	assert.Equal(t, []string{"i2", "i1"}, historyIDs(tabA.GetHistory(ctx)))
}

func TestStore_StorageUnavailable(t *testing.T) {
	ctx := context.Background()
	store := NewStore(storage.Unavailable)

	assert.NotPanics(t, func() { store.AddToHistory(ctx, viewed(1)) })
	assert.Equal(t, []domain.Entry{}, store.GetHistory(ctx))
	assert.NotPanics(t, func() { store.ClearHistory(ctx) })

	nilStore := NewStore(nil)
	nilStore.AddToHistory(ctx, viewed(1))
	assert.Empty(t, nilStore.GetHistory(ctx))
}

func TestStore_MalformedDataReadsEmpty(t *testing.T) {
	ctx := context.Background()
	st := storage.Namespace(memory.NewBackend(), "device-1")
	require.NoError(t, st.SetItem(ctx, ports.StorageKey, "not-json"))
	store := NewStore(st)

	assert.Equal(t, []domain.Entry{}, store.GetHistory(ctx))

	store.AddToHistory(ctx, viewed(7))
	assert.Equal(t, []string{"i7"}, historyIDs(store.GetHistory(ctx)))
}

func TestStore_ClampsOversizedStoredLog(t *testing.T) {
	ctx := context.Background()
	st := storage.Namespace(memory.NewBackend(), "device-1")
	oversized := make([]domain.Entry, 0, 15)
	for n := 1; n <= 15; n++ {
		oversized = append(oversized, viewed(n))
	}
	require.True(t, storage.NewPersisted[[]domain.Entry](ports.StorageKey).Save(ctx, st, oversized))

	assert.Len(t, NewStore(st).GetHistory(ctx), domain.MaxEntries)
}

func TestStore_ClearHistory(t *testing.T) {
	ctx := context.Background()
	st := storage.Namespace(memory.NewBackend(), "device-1")
	store := NewStore(st)
	store.AddToHistory(ctx, viewed(1))

	store.ClearHistory(ctx)

	assert.Empty(t, store.GetHistory(ctx))
	_, ok, err := st.GetItem(ctx, ports.StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_StoredDuplicatesAreCollapsed(t *testing.T) {
	ctx := context.Background()
	st := storage.Namespace(memory.NewBackend(), "device-1")
	require.NoError(t, st.SetItem(ctx, ports.StorageKey, `[{"id":"a"},{"id":"b"},{"id":"a"}]`))
	store := NewStore(st)

	assert.Equal(t, []string{"a", "b"}, historyIDs(store.GetHistory(ctx)))

	store.AddToHistory(ctx, domain.Entry{ID: "c"})
	assert.Equal(t, []string{"c", "a", "b"}, historyIDs(store.GetHistory(ctx)))
}
