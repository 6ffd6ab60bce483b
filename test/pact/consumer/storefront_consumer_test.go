//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/go-gin-marketplace/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type sessionPayload struct {
	SessionID string `json:"sessionId"`
	DeviceID  string `json:"deviceId"`
}

type cartPayload struct {
	Items []struct {
		ID       string `json:"id"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
	ItemCount int `json:"itemCount"`
}

type entryPayload struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type notificationsPayload struct {
	UnreadCount int `json:"unreadCount"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestStorefrontContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	product := pacttest.ExampleProductPayload()
	entry := pacttest.ExampleEntryPayload()
	sessionsPath := "/v1/sessions"
	sessionPath := fmt.Sprintf("%s/%s", sessionsPath, pacttest.SessionID)

	pact.AddInteraction().
		Given(pacttest.StateNoSessions).
		UponReceiving("a request to open a session").
		WithRequest("POST", sessionsPath, func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"sessionId": matchers.S(pacttest.SessionID),
				"deviceId":  matchers.S(pacttest.DeviceID),
			})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"sessionId": matchers.S(pacttest.SessionID),
				"deviceId":  matchers.S(pacttest.DeviceID),
				"openedAt":  matchers.Like("2026-05-01T09:00:00Z"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateEmptyCart).
		UponReceiving("a request to add a product to the cart").
		WithRequest("POST", sessionPath+"/cart/items", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(product)
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"items": matchers.EachLike(matchers.Map{
					"id":       matchers.S(product["id"].(string)),
					"title":    matchers.Like(product["title"]),
					"price":    matchers.Like(product["price"]),
					"quantity": matchers.Like(1),
				}, 1),
				"itemCount":   matchers.Like(1),
				"shippingFee": matchers.Like(0),
				"totalAmount": matchers.Like(0),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateViewedProducts).
		UponReceiving("a request for recently viewed products").
		WithRequest("GET", sessionPath+"/history").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(matchers.Map{
				"id":    matchers.Like(entry["id"]),
				"title": matchers.Like(entry["title"]),
				"price": matchers.Like(entry["price"]),
			}, 1))
		})

	pact.AddInteraction().
		Given(pacttest.StateUnreadMessages).
		UponReceiving("a request to mark a notification as read").
		WithRequest("POST", fmt.Sprintf("%s/notifications/%d/read", sessionPath, pacttest.UnreadID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"notifications": matchers.EachLike(matchers.Map{
					"id":     matchers.Like(pacttest.UnreadID),
					"unread": matchers.Like(false),
				}, 1),
				"unreadCount": matchers.Like(0),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateUnknownSession).
		UponReceiving("a request for the cart of a session that is not open").
		WithRequest("GET", fmt.Sprintf("%s/%s/cart", sessionsPath, pacttest.UnknownSessionID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newStorefrontClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var session sessionPayload
		if err := client.do(ctx, http.MethodPost, sessionsPath, sessionPayload{SessionID: pacttest.SessionID, DeviceID: pacttest.DeviceID}, &session); err != nil {
			return fmt.Errorf("open session: %w", err)
		}
		if session.SessionID != pacttest.SessionID {
			return fmt.Errorf("expected session %s, got %+v", pacttest.SessionID, session)
		}

		var cart cartPayload
		if err := client.do(ctx, http.MethodPost, sessionPath+"/cart/items", product, &cart); err != nil {
			return fmt.Errorf("add to cart: %w", err)
		}
		if cart.ItemCount != 1 || len(cart.Items) == 0 || cart.Items[0].Quantity != 1 {
			return fmt.Errorf("expected one line item, got %+v", cart)
		}

		var history []entryPayload
		if err := client.do(ctx, http.MethodGet, sessionPath+"/history", nil, &history); err != nil {
			return fmt.Errorf("get history: %w", err)
		}
		if len(history) == 0 {
			return fmt.Errorf("expected recently viewed products")
		}

		var notifications notificationsPayload
		if err := client.do(ctx, http.MethodPost, fmt.Sprintf("%s/notifications/%d/read", sessionPath, pacttest.UnreadID), nil, &notifications); err != nil {
			return fmt.Errorf("mark read: %w", err)
		}

		err := client.do(ctx, http.MethodGet, fmt.Sprintf("%s/%s/cart", sessionsPath, pacttest.UnknownSessionID), nil, &cart)
		if err == nil {
			return fmt.Errorf("expected 404 for session %s", pacttest.UnknownSessionID)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}
		return nil
	})
	require.NoError(t, err)
}

type storefrontClient struct {
	baseURL    string
	httpClient *http.Client
}

func newStorefrontClient(config pactconsumer.MockServerConfig) *storefrontClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &storefrontClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *storefrontClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
