package service

import (
	"context"
	"fmt"

	"github.com/and161185/regolith/internal/errs"
	"github.com/and161185/regolith/internal/model"
	"github.com/and161185/regolith/internal/repository"
)

// MessageService defines operations over messages.
type MessageService interface {
	// Create stores a message from an existing sender and signals observers.
	Create(ctx context.Context, m model.NewMessage) (model.Message, error)
	// List returns a window of messages ordered by timestamp.
	List(ctx context.Context, p model.Page) ([]model.Message, error)
}

type MessageServiceImpl struct {
	repo   repository.MessageRepository
	notify Notifier
}

// NewMessageService constructs MessageService.
func NewMessageService(repo repository.MessageRepository, notify Notifier) *MessageServiceImpl {
	return &MessageServiceImpl{repo: repo, notify: notify}
}

// Create rejects unknown senders before anything is written. The returned
// message carries the sender's name as it is at the time of the call.
func (s *MessageServiceImpl) Create(ctx context.Context, m model.NewMessage) (model.Message, error) {
	if m.SenderID <= 0 {
		return model.Message{}, fmt.Errorf("sender %d: %w: %w", m.SenderID, errs.ErrValidation, errs.ErrNotFound)
	}
	if m.RecipientID != nil && *m.RecipientID <= 0 {
		return model.Message{}, fmt.Errorf("recipient %d: %w", *m.RecipientID, errs.ErrValidation)
	}
	out, err := s.repo.Create(ctx, m)
	if err != nil {
		return model.Message{}, err
	}
	s.notify.Publish(EventUpdate)
	return out, nil
}

func (s *MessageServiceImpl) List(ctx context.Context, p model.Page) ([]model.Message, error) {
	if err := checkPage(p); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, p)
}
