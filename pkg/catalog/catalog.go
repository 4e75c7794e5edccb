// Package catalog supplies the master list of orderable items. Two source
// variants exist: a Local repository-backed catalog that admins may edit,
// and a read-only Remote catalog fetched from a published spreadsheet.
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"prolist/pkg/list"
	"prolist/pkg/logger"
)

// Source produces the ordered item sequence. A source never returns an
// error: failure to produce items degrades to an empty catalog.
type Source interface {
	Items(ctx context.Context) []list.Item
	Mutable() bool
}

// Repository defines behavior for persisting the master item list behind a
// Local source.
type Repository interface {
	List(ctx context.Context) ([]list.Item, error)
	Add(ctx context.Context, item list.Item) error
	Delete(ctx context.Context, id string) error
}

// ErrNotFound indicates the requested item does not exist.
var ErrNotFound = errors.New("item not found")

// ErrEmptyName rejects item creation without a usable name.
var ErrEmptyName = errors.New("item name is required")

// Local is a mutable catalog backed by a Repository. It implements both
// Source and list.Mutator.
type Local struct {
	repo Repository
	log  *logger.Logger
}

// NewLocal builds a mutable catalog source over repo.
func NewLocal(repo Repository, log *logger.Logger) *Local {
	return &Local{repo: repo, log: log}
}

// Items lists the master catalog. A repository failure degrades to an empty
// catalog.
func (l *Local) Items(ctx context.Context) []list.Item {
	items, err := l.repo.List(ctx)
	if err != nil {
		l.log.Warn(ctx, "listing catalog", "error", err)
		return nil
	}
	return items
}

// Mutable reports that admins may edit this catalog.
func (l *Local) Mutable() bool { return true }

// Add creates a new catalog item with a synthetic ID.
func (l *Local) Add(ctx context.Context, name string) (list.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return list.Item{}, ErrEmptyName
	}
	item := list.Item{ID: "item-" + uuid.NewString(), Name: name}
	if err := l.repo.Add(ctx, item); err != nil {
		return list.Item{}, err
	}
	return item, nil
}

// Remove deletes a catalog item by ID.
func (l *Local) Remove(ctx context.Context, id string) error {
	return l.repo.Delete(ctx, id)
}
