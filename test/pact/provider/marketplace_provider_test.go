//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	pacttest "github.com/Apurer/go-gin-marketplace/test/pact"

	marketplaceserver "github.com/Apurer/go-gin-marketplace/go"
	historydomain "github.com/Apurer/go-gin-marketplace/internal/domains/history/domain"
	notificationdomain "github.com/Apurer/go-gin-marketplace/internal/domains/notifications/domain"
	sessionsobs "github.com/Apurer/go-gin-marketplace/internal/domains/sessions/adapters/observability"
	sessionsapp "github.com/Apurer/go-gin-marketplace/internal/domains/sessions/application"
	sessionsdomain "github.com/Apurer/go-gin-marketplace/internal/domains/sessions/domain"
	sessionsports "github.com/Apurer/go-gin-marketplace/internal/domains/sessions/ports"
	"github.com/Apurer/go-gin-marketplace/internal/platform/storage/memory"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestMarketplaceProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateNoSessions: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			return nil, nil
		},
		pacttest.StateEmptyCart: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			if setup {
				app.openSession(t)
			}
			return nil, nil
		},
		pacttest.StateViewedProducts: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			if setup {
				handle := app.openSession(t)
				entry, err := historydomain.NewEntry("reel-7", "Spinning Reel", 4500, "https://example.pact/products/reel-7.png", "/products/reel-7")
				require.NoError(t, err)
				handle.History.AddToHistory(context.Background(), entry)
			}
			return nil, nil
		},
		pacttest.StateUnreadMessages: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			if setup {
				handle := app.openSession(t)
				handle.Notifications.SetNotifications(context.Background(), []notificationdomain.Notification{
					{ID: pacttest.UnreadID, Type: "order", Title: "Order shipped", Unread: true},
				})
			}
			return nil, nil
		},
		pacttest.StateUnknownSession: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset()
			return nil
		},
	})
	require.NoError(t, err)
}

// resettableSessions lets state handlers swap in a fresh registry between interactions.
type resettableSessions struct {
	mu      sync.Mutex
	current sessionsports.Service
}

func (r *resettableSessions) get() sessionsports.Service {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *resettableSessions) Open(ctx context.Context, sessionID, deviceID string) (*sessionsports.Handle, error) {
	return r.get().Open(ctx, sessionID, deviceID)
}

func (r *resettableSessions) Get(ctx context.Context, sessionID string) (*sessionsports.Handle, error) {
	return r.get().Get(ctx, sessionID)
}

func (r *resettableSessions) End(ctx context.Context, sessionID string) error {
	return r.get().End(ctx, sessionID)
}

func (r *resettableSessions) List(ctx context.Context) ([]sessionsdomain.Session, error) {
	return r.get().List(ctx)
}

func (r *resettableSessions) EndIdle(ctx context.Context, cutoff time.Time) []string {
	return r.get().EndIdle(ctx, cutoff)
}

type contractProviderApp struct {
	sessions *resettableSessions
	server   *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	sessions := &resettableSessions{}
	app := &contractProviderApp{sessions: sessions}
	app.reset()

	sessionAPI := marketplaceserver.NewSessionAPI(sessions)
	handlers := marketplaceserver.ApiHandleFunctions{
		SessionAPI:      sessionAPI,
		CartAPI:         marketplaceserver.NewCartAPI(sessionAPI),
		HistoryAPI:      marketplaceserver.NewHistoryAPI(sessionAPI),
		NotificationAPI: marketplaceserver.NewNotificationAPI(sessionAPI),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router = marketplaceserver.NewRouterWithGinEngine(router, handlers)

	app.server = httptest.NewServer(router)
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset() {
	registry := sessionsapp.NewRegistry(memory.NewBackend())
	a.sessions.mu.Lock()
	a.sessions.current = sessionsobs.New(registry)
	a.sessions.mu.Unlock()
}

func (a *contractProviderApp) openSession(t testing.TB) *sessionsports.Handle {
	t.Helper()
	handle, err := a.sessions.Open(context.Background(), pacttest.SessionID, pacttest.DeviceID)
	require.NoError(t, err)
	return handle
}
