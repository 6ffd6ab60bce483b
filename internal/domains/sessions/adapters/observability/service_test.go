package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdomain "github.com/Apurer/go-gin-marketplace/internal/domains/cart/domain"
	historydomain "github.com/Apurer/go-gin-marketplace/internal/domains/history/domain"
	notificationdomain "github.com/Apurer/go-gin-marketplace/internal/domains/notifications/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/sessions/application"
	"github.com/Apurer/go-gin-marketplace/internal/domains/sessions/ports"
	"github.com/Apurer/go-gin-marketplace/internal/platform/storage"
	"github.com/Apurer/go-gin-marketplace/internal/platform/storage/memory"
)

func TestService_DelegatesToRegistry(t *testing.T) {
	ctx := context.Background()
	svc := New(application.NewRegistry(memory.NewBackend()))

	handle, err := svc.Open(ctx, "tab-1", "laptop")
	require.NoError(t, err)
	assert.Equal(t, "tab-1", handle.Session.ID)

	_, err = svc.Open(ctx, "tab-1", "phone")
	require.ErrorIs(t, err, ports.ErrDeviceMismatch)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.End(ctx, "tab-1"))
	_, err = svc.Get(ctx, "tab-1")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

type stubSweeper struct {
	report storage.SweepReport
}

func (s stubSweeper) Sweep(context.Context, time.Duration) (storage.SweepReport, error) {
	return s.report, nil
}

func TestSweeper_PassesReportThrough(t *testing.T) {
	want := storage.SweepReport{Namespaces: []string{"a", "b"}}
	got, err := NewSweeper(stubSweeper{report: want}).Sweep(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStoreFactory_DecoratedStoresBehaveLikePlainOnes(t *testing.T) {
	ctx := context.Background()
	factory := NewStoreFactory(application.DefaultFactory{}, nil, nil)
	reg := application.NewRegistry(memory.NewBackend(), application.WithFactory(factory))

	handle, err := reg.Open(ctx, "tab-1", "laptop")
	require.NoError(t, err)
	handle.Cart.AddItem(ctx, cartdomain.Product{ID: "A", UnitPrice: 10})
	handle.History.AddToHistory(ctx, historydomain.Entry{ID: "A"})
	handle.Notifications.AddNotification(ctx, notificationdomain.Notification{ID: 7, Unread: true})

	other, err := reg.Open(ctx, "tab-2", "laptop")
	require.NoError(t, err)
	assert.Equal(t, 1, other.Cart.Snapshot(ctx).Count())
	assert.Len(t, other.History.GetHistory(ctx), 1)
	assert.Zero(t, other.Notifications.UnreadCount(ctx))
	assert.Equal(t, 1, handle.Notifications.UnreadCount(ctx))
}

func TestService_EndIdleDelegates(t *testing.T) {
	ctx := context.Background()
	svc := New(application.NewRegistry(memory.NewBackend()))
	_, err := svc.Open(ctx, "tab-1", "laptop")
	require.NoError(t, err)

	assert.Empty(t, svc.EndIdle(ctx, time.Now().Add(-time.Hour)))
	assert.Equal(t, []string{"tab-1"}, svc.EndIdle(ctx, time.Now().Add(time.Second)))
	_, err = svc.Get(ctx, "tab-1")
	require.ErrorIs(t, err, ports.ErrNotFound)
}
