package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-marketplace/internal/domains/cart/domain"
)

var (
	// ErrInvalidInput signals product input violated a cart invariant.
	ErrInvalidInput = errors.New("invalid cart input")
)

// MapError classifies domain errors for outer adapters.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyItemID) ||
		errors.Is(err, domain.ErrNegativePrice) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
