package ports

import (
	"context"
	"errors"
	"time"

	cartports "github.com/Apurer/go-gin-marketplace/internal/domains/cart/ports"
	historyports "github.com/Apurer/go-gin-marketplace/internal/domains/history/ports"
	notificationports "github.com/Apurer/go-gin-marketplace/internal/domains/notifications/ports"
	"github.com/Apurer/go-gin-marketplace/internal/domains/sessions/domain"
	"github.com/Apurer/go-gin-marketplace/internal/platform/storage"
)

var (
	ErrNotFound       = errors.New("session not found")
	ErrDeviceMismatch = errors.New("session is bound to another device")
)

// Handle bundles the stores owned by one open session.
type Handle struct {
	Session       domain.Session
	Cart          cartports.Service
	History       historyports.Service
	Notifications notificationports.Service
}

// StoreFactory builds the stores of a freshly opened session. st is the
// device-scoped durable storage and may be storage.Unavailable.
type StoreFactory interface {
	Cart(ctx context.Context, session domain.Session, st storage.Storage) cartports.Service
	History(ctx context.Context, session domain.Session, st storage.Storage) historyports.Service
	Notifications(ctx context.Context, session domain.Session) notificationports.Service
}

// Service manages session lifecycles.
type Service interface {
	// Open returns the session with sessionID, creating it on first access.
	// Blank identifiers are generated.
	Open(ctx context.Context, sessionID, deviceID string) (*Handle, error)
	Get(ctx context.Context, sessionID string) (*Handle, error)
	// End tears the session down. Durable device storage is left in place.
	End(ctx context.Context, sessionID string) error
	List(ctx context.Context) ([]domain.Session, error)
	// EndIdle ends every session not opened or looked up since cutoff and
	// returns the ended ids in ascending order.
	EndIdle(ctx context.Context, cutoff time.Time) []string
}
