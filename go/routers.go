package marketplaceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the marketplace routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes whose handler is not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

type ApiHandleFunctions struct {
	// Routes for the CartAPI part of the API
	CartAPI CartAPI
	// Routes for the HistoryAPI part of the API
	HistoryAPI HistoryAPI
	// Routes for the NotificationAPI part of the API
	NotificationAPI NotificationAPI
	// Routes for the SessionAPI part of the API
	SessionAPI SessionAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"OpenSession", http.MethodPost, "/v1/sessions", handleFunctions.SessionAPI.OpenSession},
		{"EndSession", http.MethodDelete, "/v1/sessions/:sessionId", handleFunctions.SessionAPI.EndSession},
		{"GetCart", http.MethodGet, "/v1/sessions/:sessionId/cart", handleFunctions.CartAPI.GetCart},
		{"AddCartItem", http.MethodPost, "/v1/sessions/:sessionId/cart/items", handleFunctions.CartAPI.AddItem},
		{"RemoveCartItem", http.MethodDelete, "/v1/sessions/:sessionId/cart/items/:itemId", handleFunctions.CartAPI.RemoveItem},
		{"ClearCart", http.MethodDelete, "/v1/sessions/:sessionId/cart", handleFunctions.CartAPI.ClearCart},
		{"SetCartTotals", http.MethodPut, "/v1/sessions/:sessionId/cart/totals", handleFunctions.CartAPI.SetTotals},
		{"GetHistory", http.MethodGet, "/v1/sessions/:sessionId/history", handleFunctions.HistoryAPI.GetHistory},
		{"AddToHistory", http.MethodPost, "/v1/sessions/:sessionId/history", handleFunctions.HistoryAPI.AddToHistory},
		{"ClearHistory", http.MethodDelete, "/v1/sessions/:sessionId/history", handleFunctions.HistoryAPI.ClearHistory},
		{"ListNotifications", http.MethodGet, "/v1/sessions/:sessionId/notifications", handleFunctions.NotificationAPI.ListNotifications},
		{"SetNotifications", http.MethodPut, "/v1/sessions/:sessionId/notifications", handleFunctions.NotificationAPI.SetNotifications},
		{"AddNotification", http.MethodPost, "/v1/sessions/:sessionId/notifications", handleFunctions.NotificationAPI.AddNotification},
		{"MarkAllNotificationsRead", http.MethodPost, "/v1/sessions/:sessionId/notifications/read-all", handleFunctions.NotificationAPI.MarkAllAsRead},
		{"MarkNotificationRead", http.MethodPost, "/v1/sessions/:sessionId/notifications/:notificationId/read", handleFunctions.NotificationAPI.MarkAsRead},
	}
}
