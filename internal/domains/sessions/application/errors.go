package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-marketplace/internal/domains/sessions/domain"
)

var (
	// ErrInvalidInput signals the request violated a session invariant.
	ErrInvalidInput = errors.New("invalid session input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidSessionID) ||
		errors.Is(err, domain.ErrInvalidDeviceID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
