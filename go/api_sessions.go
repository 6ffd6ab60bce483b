package marketplaceserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	sessionsports "github.com/Apurer/go-gin-marketplace/internal/domains/sessions/ports"
)

// SessionAPI exposes session lifecycle over HTTP and resolves sessions for the other APIs.
type SessionAPI struct {
	service sessionsports.Service
}

func NewSessionAPI(service sessionsports.Service) SessionAPI {
	return SessionAPI{service: service}
}

// Post /v1/sessions
// Opens a session, or returns the already open one
func (api *SessionAPI) OpenSession(c *gin.Context) {
	var payload OpenSessionRequest
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		respondBadRequest(c, err)
		return
	}
	handle, err := api.service.Open(c.Request.Context(), payload.SessionID, payload.DeviceID)
	if err != nil {
		if errors.Is(err, sessionsports.ErrDeviceMismatch) {
			err = sessionError{id: payload.SessionID, err: err}
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainSession(handle.Session))
}

// Delete /v1/sessions/:sessionId
// Ends a session; device storage is kept
func (api *SessionAPI) EndSession(c *gin.Context) {
	sessionID, ok := bindSessionID(c)
	if !ok {
		return
	}
	if err := api.service.End(c.Request.Context(), sessionID); err != nil {
		if errors.Is(err, sessionsports.ErrNotFound) {
			err = sessionError{id: sessionID, err: err}
		}
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// resolve loads the open session named by the sessionId path parameter,
// answering the request itself when that fails.
func (api *SessionAPI) resolve(c *gin.Context) (*sessionsports.Handle, bool) {
	sessionID, ok := bindSessionID(c)
	if !ok {
		return nil, false
	}
	if api.service == nil {
		respondError(c, errors.New("session service not configured"))
		return nil, false
	}
	handle, err := api.service.Get(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, sessionsports.ErrNotFound) {
			err = sessionError{id: sessionID, err: err}
		}
		respondError(c, err)
		return nil, false
	}
	return handle, true
}

func bindSessionID(c *gin.Context) (string, bool) {
	var sessionID string
	if err := runtime.BindStyledParameterWithLocation("simple", false, "sessionId", runtime.ParamLocationPath, c.Param("sessionId"), &sessionID); err != nil {
		respondBadRequest(c, err)
		return "", false
	}
	return sessionID, true
}
