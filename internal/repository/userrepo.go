// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/regolith/internal/model"
)

// UserRepository provides access to users.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, name string) (model.User, error)
	// Get loads a user by ID.
	Get(ctx context.Context, id int64) (model.User, error)
	// List returns a window of users ordered by ID.
	List(ctx context.Context, page model.Page) ([]model.User, error)
	// Delete removes the user and every message it sent or received, atomically.
	Delete(ctx context.Context, id int64) error
}
