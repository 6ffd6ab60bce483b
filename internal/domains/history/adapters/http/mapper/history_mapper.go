package mapper

import (
	"errors"
	"fmt"

	historydomain "github.com/Apurer/go-gin-marketplace/internal/domains/history/domain"
)

// ErrInvalidEntry signals transport input that cannot become a history entry.
var ErrInvalidEntry = errors.New("invalid history entry")

// Entry is the transport shape of a recently viewed product.
type Entry struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Price      int64  `json:"price"`
	ImageURL   string `json:"imageUrl,omitempty"`
	ProductURL string `json:"productUrl,omitempty"`
}

func ToDomainEntry(e Entry) (historydomain.Entry, error) {
	entry, err := historydomain.NewEntry(e.ID, e.Title, e.Price, e.ImageURL, e.ProductURL)
	if err != nil {
		return historydomain.Entry{}, fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}
	return entry, nil
}

func FromDomainEntries(entries []historydomain.Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, Entry{
			ID:         e.ID,
			Title:      e.Title,
			Price:      e.Price,
			ImageURL:   e.ImageURL,
			ProductURL: e.ProductURL,
		})
	}
	return out
}
