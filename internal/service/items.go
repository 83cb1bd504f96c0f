package service

import (
	"context"

	"github.com/and161185/regolith/internal/model"
	"github.com/and161185/regolith/internal/repository"
)

// ItemService defines operations over items.
type ItemService interface {
	// Create stores a new item and signals observers.
	Create(ctx context.Context, name, description string) (model.Item, error)
	// Get returns a single item by ID.
	Get(ctx context.Context, id int64) (model.Item, error)
	// List returns a window of items in creation order.
	List(ctx context.Context, p model.Page) ([]model.Item, error)
	// Update applies a partial patch and signals observers.
	Update(ctx context.Context, id int64, patch model.ItemPatch) (model.Item, error)
	// Delete removes an item and signals observers.
	Delete(ctx context.Context, id int64) error
}

type ItemServiceImpl struct {
	repo   repository.ItemRepository
	notify Notifier
}

// NewItemService constructs ItemService.
func NewItemService(repo repository.ItemRepository, notify Notifier) *ItemServiceImpl {
	return &ItemServiceImpl{repo: repo, notify: notify}
}

func (s *ItemServiceImpl) Create(ctx context.Context, name, description string) (model.Item, error) {
	it, err := s.repo.Create(ctx, name, description)
	if err != nil {
		return model.Item{}, err
	}
	s.notify.Publish(EventUpdate)
	return it, nil
}

func (s *ItemServiceImpl) Get(ctx context.Context, id int64) (model.Item, error) {
	if err := checkID("item", id); err != nil {
		return model.Item{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *ItemServiceImpl) List(ctx context.Context, p model.Page) ([]model.Item, error) {
	if err := checkPage(p); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, p)
}

func (s *ItemServiceImpl) Update(ctx context.Context, id int64, patch model.ItemPatch) (model.Item, error) {
	if err := checkID("item", id); err != nil {
		return model.Item{}, err
	}
	it, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return model.Item{}, err
	}
	s.notify.Publish(EventUpdate)
	return it, nil
}

func (s *ItemServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := checkID("item", id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notify.Publish(EventUpdate)
	return nil
}
