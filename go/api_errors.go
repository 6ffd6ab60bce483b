package marketplaceserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	cartapp "github.com/Apurer/go-gin-marketplace/internal/domains/cart/application"
	historymapper "github.com/Apurer/go-gin-marketplace/internal/domains/history/adapters/http/mapper"
	sessionsapp "github.com/Apurer/go-gin-marketplace/internal/domains/sessions/application"
	sessionsports "github.com/Apurer/go-gin-marketplace/internal/domains/sessions/ports"
	apierrors "github.com/Apurer/go-gin-marketplace/internal/shared/errors"
)

var responder = apierrors.NewResponder(
	mapSessionError,
	mapValidationError,
)

func mapSessionError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, sessionsports.ErrNotFound):
		return apierrors.NewNotFoundProblem("session", sessionIDFromError(err)), true
	case errors.Is(err, sessionsports.ErrDeviceMismatch):
		return apierrors.NewSessionConflictProblem(sessionIDFromError(err)), true
	case errors.Is(err, sessionsapp.ErrInvalidInput):
		return apierrors.NewValidationProblem(map[string]string{"session": err.Error()}), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapValidationError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, cartapp.ErrInvalidInput):
		return apierrors.NewValidationProblem(map[string]string{"item": err.Error()}), true
	case errors.Is(err, historymapper.ErrInvalidEntry):
		return apierrors.NewValidationProblem(map[string]string{"entry": err.Error()}), true
	}
	return apierrors.ProblemDetail{}, false
}

// sessionError attaches the session id named by the request to a session failure.
type sessionError struct {
	id  string
	err error
}

func (e sessionError) Error() string { return e.err.Error() + ": " + e.id }

func (e sessionError) Unwrap() error { return e.err }

func sessionIDFromError(err error) string {
	var failed sessionError
	if errors.As(err, &failed) {
		return failed.id
	}
	return ""
}

func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func respondBadRequest(c *gin.Context, err error) {
	responder.BadRequest(c, err.Error())
}
