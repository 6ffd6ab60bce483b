package domain

import (
	"errors"
	"strings"
)

// MaxEntries bounds the recently-viewed log.
const MaxEntries = 10

var ErrEmptyEntryID = errors.New("history entry id is required")

// Entry is one recently viewed product.
type Entry struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Price      int64  `json:"price"`
	ImageURL   string `json:"imageUrl"`
	ProductURL string `json:"productUrl"`
}

// NewEntry validates entry input arriving from outer layers.
func NewEntry(id, title string, price int64, imageURL, productURL string) (Entry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Entry{}, ErrEmptyEntryID
	}
	return Entry{ID: id, Title: title, Price: price, ImageURL: imageURL, ProductURL: productURL}, nil
}

// Push removes any entry sharing e's ID, puts e first and truncates to
// MaxEntries. Duplicates already present in entries are dropped too, keeping
// the first occurrence. entries is not modified.
func Push(entries []Entry, e Entry) []Entry {
	next := make([]Entry, 0, min(len(entries)+1, MaxEntries))
	next = append(next, e)
	return appendUnique(next, entries)
}

// Clamp returns at most the first MaxEntries distinct entries, never nil.
func Clamp(entries []Entry) []Entry {
	return appendUnique(make([]Entry, 0, min(len(entries), MaxEntries)), entries)
}

func appendUnique(dst, src []Entry) []Entry {
	seen := make(map[string]struct{}, len(dst)+len(src))
	for _, e := range dst {
		seen[e.ID] = struct{}{}
	}
	for _, e := range src {
		if len(dst) == MaxEntries {
			break
		}
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		dst = append(dst, e)
	}
	return dst
}
