package marketplaceserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	historymapper "github.com/Apurer/go-gin-marketplace/internal/domains/history/adapters/http/mapper"
)

// HistoryAPI exposes the recently viewed products of a session's device.
type HistoryAPI struct {
	sessions SessionAPI
}

func NewHistoryAPI(sessions SessionAPI) HistoryAPI {
	return HistoryAPI{sessions: sessions}
}

// Get /v1/sessions/:sessionId/history
// Most recent first; limit trims the list further
func (api *HistoryAPI) GetHistory(c *gin.Context) {
	handle, ok := api.sessions.resolve(c)
	if !ok {
		return
	}
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", c.Request.URL.Query(), &limit); err != nil {
		respondBadRequest(c, err)
		return
	}
	if limit != nil && *limit < 0 {
		respondBadRequest(c, errors.New("limit must not be negative"))
		return
	}
	entries := handle.History.GetHistory(c.Request.Context())
	if limit != nil && *limit < len(entries) {
		entries = entries[:*limit]
	}
	c.JSON(http.StatusOK, historymapper.FromDomainEntries(entries))
}

// Post /v1/sessions/:sessionId/history
// Records a product view
func (api *HistoryAPI) AddToHistory(c *gin.Context) {
	handle, ok := api.sessions.resolve(c)
	if !ok {
		return
	}
	var payload historymapper.Entry
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	entry, err := historymapper.ToDomainEntry(payload)
	if err != nil {
		respondError(c, err)
		return
	}
	ctx := c.Request.Context()
	handle.History.AddToHistory(ctx, entry)
	c.JSON(http.StatusOK, historymapper.FromDomainEntries(handle.History.GetHistory(ctx)))
}

// Delete /v1/sessions/:sessionId/history
func (api *HistoryAPI) ClearHistory(c *gin.Context) {
	handle, ok := api.sessions.resolve(c)
	if !ok {
		return
	}
	handle.History.ClearHistory(c.Request.Context())
	c.Status(http.StatusNoContent)
}
