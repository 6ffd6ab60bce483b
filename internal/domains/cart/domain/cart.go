package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyItemID   = errors.New("cart item id is required")
	ErrNegativePrice = errors.New("cart item price must not be negative")
)

// Product is what a caller hands to the cart: a line item without quantity.
type Product struct {
	ID        string
	Title     string
	UnitPrice int64
	Image     string
}

// NormalizeID canonicalises an item id arriving from outer layers.
func NormalizeID(id string) string {
	return strings.TrimSpace(id)
}

// NewProduct validates product input arriving from outer layers.
func NewProduct(id, title string, unitPrice int64, image string) (Product, error) {
	id = NormalizeID(id)
	if id == "" {
		return Product{}, ErrEmptyItemID
	}
	if unitPrice < 0 {
		return Product{}, ErrNegativePrice
	}
	return Product{ID: id, Title: title, UnitPrice: unitPrice, Image: image}, nil
}

// LineItem is a single product in the cart. At most one line item exists per ID.
type LineItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	UnitPrice int64  `json:"price"`
	Image     string `json:"image"`
	Quantity  int    `json:"quantity"`
}

// State is the full cart. ShippingFee and TotalAmount are computed elsewhere and
// injected through SetTotals; they are never derived from Items.
type State struct {
	Items       []LineItem `json:"items"`
	ShippingFee int64      `json:"shippingFee"`
	TotalAmount int64      `json:"totalAmount"`
}

// Empty returns a cart with no items and zero totals.
func Empty() State {
	return State{Items: []LineItem{}}
}

// Add appends p with quantity 1 unless an item with the same ID is present, in
// which case the cart is returned unchanged.
func (s State) Add(p Product) State {
	if s.Find(p.ID) >= 0 {
		return s.Clone()
	}
	next := s.Clone()
	next.Items = append(next.Items, LineItem{
		ID:        p.ID,
		Title:     p.Title,
		UnitPrice: p.UnitPrice,
		Image:     p.Image,
		Quantity:  1,
	})
	return next
}

// Remove drops the item with the given ID, if any.
func (s State) Remove(id string) State {
	next := State{Items: make([]LineItem, 0, len(s.Items)), ShippingFee: s.ShippingFee, TotalAmount: s.TotalAmount}
	for _, item := range s.Items {
		if item.ID != id {
			next.Items = append(next.Items, item)
		}
	}
	return next
}

// Clear resets items and both totals.
func (s State) Clear() State {
	return Empty()
}

// SetTotals overwrites shipping and total without validation.
func (s State) SetTotals(shipping, total int64) State {
	next := s.Clone()
	next.ShippingFee = shipping
	next.TotalAmount = total
	return next
}

// Find returns the index of the item with id, or -1.
func (s State) Find(id string) int {
	for i, item := range s.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Count returns the number of line items.
func (s State) Count() int { return len(s.Items) }

// Clone returns a deep copy; Items is never nil.
func (s State) Clone() State {
	items := make([]LineItem, len(s.Items))
	copy(items, s.Items)
	return State{Items: items, ShippingFee: s.ShippingFee, TotalAmount: s.TotalAmount}
}

// Normalize repairs rehydrated state so the uniqueness and quantity invariants
// hold: later duplicates are dropped and quantities below one are raised to one.
func (s State) Normalize() State {
	next := State{Items: make([]LineItem, 0, len(s.Items)), ShippingFee: s.ShippingFee, TotalAmount: s.TotalAmount}
	seen := make(map[string]struct{}, len(s.Items))
	for _, item := range s.Items {
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		next.Items = append(next.Items, item)
	}
	return next
}
