// Package postgres implements the catalog repository on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"

	"prolist/pkg/catalog"
	"prolist/pkg/list"
)

// Repository persists catalog items in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository. The caller must ensure the items
// table exists:
// CREATE TABLE IF NOT EXISTS items (id TEXT PRIMARY KEY, name TEXT NOT NULL, position SERIAL);
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// List fetches all items in catalog order.
func (r *Repository) List(ctx context.Context) ([]list.Item, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM items ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []list.Item
	for rows.Next() {
		var it list.Item
		if err := rows.Scan(&it.ID, &it.Name); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Add inserts a new item at the end of the catalog.
func (r *Repository) Add(ctx context.Context, item list.Item) error {
	_, err := r.db.ExecContext(ctx, "INSERT INTO items (id, name) VALUES ($1,$2)", item.ID, item.Name)
	return err
}

// Delete removes an item by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM items WHERE id=$1", id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}
