// Package list holds the shopping-list domain: catalog items, per-item
// quantities, the bounded past-order history and the store that reconciles
// persisted state with the loaded catalog under the consent gate.
package list

import (
	"context"
	"errors"
)

// MaxPastOrders bounds the order history. Newest entries come first; the
// oldest entry is evicted once the bound is exceeded.
const MaxPastOrders = 20

// StoredDataVersion is the current envelope schema version.
const StoredDataVersion = 1

// Item is one orderable catalog entry. Identity is the ID; names are
// display-only and not guaranteed unique.
type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Quantities maps item ID to a positive quantity. Entries never hold a
// value of zero or less; such updates remove the entry instead.
type Quantities map[string]int

// OrderLine is one item/quantity pair inside a past order.
type OrderLine struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// PastOrder is an immutable snapshot of the quantities at save time.
type PastOrder struct {
	Date  string      `json:"date"` // RFC 3339
	Items []OrderLine `json:"items"`
}

// StoredData is the envelope persisted wholesale on every change. A version
// of zero marks the legacy pre-versioning layout and is still accepted.
type StoredData struct {
	Version    int         `json:"version"`
	Quantities Quantities  `json:"quantities"`
	PastOrders []PastOrder `json:"pastOrders"`
	Notes      string      `json:"notes,omitempty"`
}

// Storage is the port through which snapshots are persisted. Load reports
// false for an absent or unreadable snapshot; it never errors. Save replaces
// the snapshot wholesale.
type Storage interface {
	Load() (*StoredData, bool)
	Save(data StoredData) error
}

// Mutator is implemented by catalog sources that permit editing the master
// item list. A store without one rejects AddItem and DeleteItem.
type Mutator interface {
	Add(ctx context.Context, name string) (Item, error)
	Remove(ctx context.Context, id string) error
}

// ErrImmutableCatalog signals a catalog mutation against a read-only source.
var ErrImmutableCatalog = errors.New("catalog source is read-only")
