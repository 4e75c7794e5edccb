// Package memory implements an in-memory catalog repository, used for the
// fixed embedded catalog and in tests.
package memory

import (
	"context"
	"sync"

	"prolist/pkg/catalog"
	"prolist/pkg/list"
)

// Repository provides an in-memory implementation of catalog.Repository.
// Items keep their insertion order.
type Repository struct {
	mu    sync.RWMutex
	items []list.Item
}

// New creates a repository seeded with the given items.
func New(seed ...list.Item) *Repository {
	return &Repository{items: append([]list.Item(nil), seed...)}
}

// List returns all items in insertion order.
func (r *Repository) List(ctx context.Context) ([]list.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]list.Item(nil), r.items...), nil
}

// Add appends an item.
func (r *Repository) Add(ctx context.Context, item list.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, item)
	return nil
}

// Delete removes an item by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, it := range r.items {
		if it.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return catalog.ErrNotFound
}
