package mapper

import (
	cartapp "github.com/Apurer/go-gin-marketplace/internal/domains/cart/application"
	cartdomain "github.com/Apurer/go-gin-marketplace/internal/domains/cart/domain"
)

// Product represents the transport-layer shape of an item being added.
type Product struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Price int64  `json:"price"`
	Image string `json:"image,omitempty"`
}

// LineItem is the transport shape of a cart line.
type LineItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Price    int64  `json:"price"`
	Image    string `json:"image,omitempty"`
	Quantity int    `json:"quantity"`
}

// Cart is the transport shape of the whole cart.
type Cart struct {
	Items       []LineItem `json:"items"`
	ItemCount   int        `json:"itemCount"`
	ShippingFee int64      `json:"shippingFee"`
	TotalAmount int64      `json:"totalAmount"`
}

// ToDomainProduct validates and converts a transport product.
func ToDomainProduct(p Product) (cartdomain.Product, error) {
	product, err := cartdomain.NewProduct(p.ID, p.Title, p.Price, p.Image)
	if err != nil {
		return cartdomain.Product{}, cartapp.MapError(err)
	}
	return product, nil
}

// ToDomainItemID converts an item id taken from a request path.
func ToDomainItemID(raw string) string {
	return cartdomain.NormalizeID(raw)
}

// FromDomainState converts the cart state to its transport representation.
func FromDomainState(state cartdomain.State) Cart {
	items := make([]LineItem, 0, len(state.Items))
	for _, item := range state.Items {
		items = append(items, LineItem{
			ID:       item.ID,
			Title:    item.Title,
			Price:    item.UnitPrice,
			Image:    item.Image,
			Quantity: item.Quantity,
		})
	}
	return Cart{
		Items:       items,
		ItemCount:   len(items),
		ShippingFee: state.ShippingFee,
		TotalAmount: state.TotalAmount,
	}
}
