package repository

import (
	"context"

	"github.com/and161185/regolith/internal/model"
)

// MessageRepository stores immutable messages between users.
type MessageRepository interface {
	// Create validates the sender (and recipient if set) and inserts the message.
	// The returned message carries the sender name read in the same transaction.
	Create(ctx context.Context, m model.NewMessage) (model.Message, error)
	// List returns a window of messages ordered by timestamp, then ID.
	List(ctx context.Context, page model.Page) ([]model.Message, error)
}
