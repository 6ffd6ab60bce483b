package ports

import (
	"context"

	"github.com/Apurer/go-gin-marketplace/internal/domains/cart/domain"
)

// StorageKey is the fixed durable-storage key holding the cart.
const StorageKey = "cart-storage"

// StorageVersion is the version written into the persisted envelope.
const StorageVersion = 0

// Service exposes the cart store to adapters. Every operation is total:
// nothing here fails, persistence problems degrade to in-memory behaviour.
type Service interface {
	// AddItem reports whether a new line item was created. Adding an id
	// already in the cart leaves it unchanged and returns false.
	AddItem(ctx context.Context, product domain.Product) bool
	RemoveItem(ctx context.Context, id string)
	ClearCart(ctx context.Context)
	SetTotals(ctx context.Context, shipping, total int64)
	Snapshot(ctx context.Context) domain.State
}
