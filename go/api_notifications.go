package marketplaceserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	notificationmapper "github.com/Apurer/go-gin-marketplace/internal/domains/notifications/adapters/http/mapper"
	notificationports "github.com/Apurer/go-gin-marketplace/internal/domains/notifications/ports"
)

// NotificationAPI exposes the in-memory notification list of a session.
type NotificationAPI struct {
	sessions SessionAPI
}

func NewNotificationAPI(sessions SessionAPI) NotificationAPI {
	return NotificationAPI{sessions: sessions}
}

// Get /v1/sessions/:sessionId/notifications
func (api *NotificationAPI) ListNotifications(c *gin.Context) {
	handle, ok := api.sessions.resolve(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, notificationList(c.Request.Context(), handle.Notifications))
}

// Put /v1/sessions/:sessionId/notifications
// Replaces the whole list
func (api *NotificationAPI) SetNotifications(c *gin.Context) {
	handle, ok := api.sessions.resolve(c)
	if !ok {
		return
	}
	var payload []notificationmapper.Notification
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	handle.Notifications.SetNotifications(ctx, notificationmapper.ToDomainNotifications(payload))
	c.JSON(http.StatusOK, notificationList(ctx, handle.Notifications))
}

// Post /v1/sessions/:sessionId/notifications
// Prepends one notification
func (api *NotificationAPI) AddNotification(c *gin.Context) {
	handle, ok := api.sessions.resolve(c)
	if !ok {
		return
	}
	var payload notificationmapper.Notification
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	handle.Notifications.AddNotification(ctx, notificationmapper.ToDomainNotification(payload))
	c.JSON(http.StatusOK, notificationList(ctx, handle.Notifications))
}

// Post /v1/sessions/:sessionId/notifications/:notificationId/read
// Unknown ids leave the list unchanged
func (api *NotificationAPI) MarkAsRead(c *gin.Context) {
	handle, ok := api.sessions.resolve(c)
	if !ok {
		return
	}
	var id int64
	if err := runtime.BindStyledParameterWithLocation("simple", false, "notificationId", runtime.ParamLocationPath, c.Param("notificationId"), &id); err != nil {
		respondBadRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	handle.Notifications.MarkAsRead(ctx, id)
	c.JSON(http.StatusOK, notificationList(ctx, handle.Notifications))
}

// Post /v1/sessions/:sessionId/notifications/read-all
func (api *NotificationAPI) MarkAllAsRead(c *gin.Context) {
	handle, ok := api.sessions.resolve(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	handle.Notifications.MarkAllAsRead(ctx)
	c.JSON(http.StatusOK, notificationList(ctx, handle.Notifications))
}

func notificationList(ctx context.Context, svc notificationports.Service) NotificationList {
	return NotificationList{
		Notifications: notificationmapper.FromDomainNotifications(svc.List(ctx)),
		UnreadCount:   svc.UnreadCount(ctx),
	}
}
