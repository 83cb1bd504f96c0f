package service

import (
	"context"

	"github.com/and161185/regolith/internal/model"
	"github.com/and161185/regolith/internal/repository"
)

// UserService defines operations over users.
type UserService interface {
	// Create registers a user. No signal is sent.
	Create(ctx context.Context, name string) (model.User, error)
	// Get returns a user by ID.
	Get(ctx context.Context, id int64) (model.User, error)
	// List returns a window of users in creation order.
	List(ctx context.Context, p model.Page) ([]model.User, error)
	// Delete removes the user with its messages and signals observers.
	Delete(ctx context.Context, id int64) error
}

type UserServiceImpl struct {
	repo   repository.UserRepository
	notify Notifier
}

// NewUserService constructs UserService.
func NewUserService(repo repository.UserRepository, notify Notifier) *UserServiceImpl {
	return &UserServiceImpl{repo: repo, notify: notify}
}

func (s *UserServiceImpl) Create(ctx context.Context, name string) (model.User, error) {
	return s.repo.Create(ctx, name)
}

func (s *UserServiceImpl) Get(ctx context.Context, id int64) (model.User, error) {
	if err := checkID("user", id); err != nil {
		return model.User{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *UserServiceImpl) List(ctx context.Context, p model.Page) ([]model.User, error) {
	if err := checkPage(p); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, p)
}

// Delete publishes EventUserDeleted once the cascade has committed.
func (s *UserServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := checkID("user", id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notify.Publish(EventUserDeleted)
	return nil
}
