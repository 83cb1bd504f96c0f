package repository

import (
	"context"

	"github.com/and161185/regolith/internal/model"
)

// ItemRepository provides CRUD access to items.
type ItemRepository interface {
	// Create inserts a new item and returns it with its assigned ID.
	Create(ctx context.Context, name, description string) (model.Item, error)
	// Get returns a single item by ID.
	Get(ctx context.Context, id int64) (model.Item, error)
	// List returns a window of items ordered by ID.
	List(ctx context.Context, page model.Page) ([]model.Item, error)
	// Update applies a partial patch under a row lock and returns the result.
	Update(ctx context.Context, id int64, patch model.ItemPatch) (model.Item, error)
	// Delete removes an item.
	Delete(ctx context.Context, id int64) error
}
