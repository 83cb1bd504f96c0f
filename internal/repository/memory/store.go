// Package memory is an in-process implementation of the repository
// interfaces. It keeps the same integrity rules as the PostgreSQL backend
// and is used for local runs without a database and in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/and161185/regolith/internal/errs"
	"github.com/and161185/regolith/internal/model"
)

type storedMessage struct {
	id          int64
	senderID    int64
	recipientID *int64
	content     string
	ts          time.Time
}

// Store holds all entity state behind one mutex; every method is one
// atomic unit.
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	lastItem, lastUser, lastMsg int64

	items    map[int64]model.Item
	users    map[int64]model.User
	messages []storedMessage // insertion order
}

// New returns an empty store.
func New() *Store {
	return &Store{
		now:   func() time.Time { return time.Now().UTC() },
		items: make(map[int64]model.Item),
		users: make(map[int64]model.User),
	}
}

// Items returns the item repository view of s.
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }

// Users returns the user repository view of s.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Messages returns the message repository view of s.
func (s *Store) Messages() *MessageRepo { return &MessageRepo{s: s} }

// window slices an ordered listing; an offset past the end yields nil.
func window[T any](all []T, p model.Page) []T {
	if p.Offset >= len(all) {
		return nil
	}
	end := len(all)
	if p.Limit < end-p.Offset {
		end = p.Offset + p.Limit
	}
	return all[p.Offset:end]
}

// ItemRepo implements repository.ItemRepository in memory.
type ItemRepo struct{ s *Store }

func (r *ItemRepo) Create(_ context.Context, name, description string) (model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lastItem++
	it := model.Item{ID: r.s.lastItem, Name: name, Description: description}
	r.s.items[it.ID] = it
	return it, nil
}

func (r *ItemRepo) Get(_ context.Context, id int64) (model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return model.Item{}, fmt.Errorf("item %d: %w", id, errs.ErrNotFound)
	}
	return it, nil
}

func (r *ItemRepo) List(_ context.Context, p model.Page) ([]model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]model.Item, 0, len(r.s.items))
	for _, it := range r.s.items {
		all = append(all, it)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return window(all, p), nil
}

func (r *ItemRepo) Update(_ context.Context, id int64, patch model.ItemPatch) (model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return model.Item{}, fmt.Errorf("item %d: %w", id, errs.ErrNotFound)
	}
	it = patch.Apply(it)
	r.s.items[id] = it
	return it, nil
}

func (r *ItemRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[id]; !ok {
		return fmt.Errorf("item %d: %w", id, errs.ErrNotFound)
	}
	delete(r.s.items, id)
	return nil
}

// UserRepo implements repository.UserRepository in memory.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, name string) (model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lastUser++
	u := model.User{ID: r.s.lastUser, Name: name}
	r.s.users[u.ID] = u
	return u, nil
}

func (r *UserRepo) Get(_ context.Context, id int64) (model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return model.User{}, fmt.Errorf("user %d: %w", id, errs.ErrNotFound)
	}
	return u, nil
}

func (r *UserRepo) List(_ context.Context, p model.Page) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return window(all, p), nil
}

// Delete drops the user's sent and received messages and the user under one lock.
func (r *UserRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return fmt.Errorf("user %d: %w", id, errs.ErrNotFound)
	}
	kept := r.s.messages[:0]
	for _, m := range r.s.messages {
		if m.senderID == id || (m.recipientID != nil && *m.recipientID == id) {
			continue
		}
		kept = append(kept, m)
	}
	r.s.messages = kept
	delete(r.s.users, id)
	return nil
}

// MessageRepo implements repository.MessageRepository in memory.
type MessageRepo struct{ s *Store }

func (r *MessageRepo) Create(_ context.Context, nm model.NewMessage) (model.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sender, ok := r.s.users[nm.SenderID]
	if !ok {
		return model.Message{}, fmt.Errorf("sender %d: %w: %w", nm.SenderID, errs.ErrValidation, errs.ErrNotFound)
	}
	if nm.RecipientID != nil {
		if _, ok := r.s.users[*nm.RecipientID]; !ok {
			return model.Message{}, fmt.Errorf("recipient %d: %w", *nm.RecipientID, errs.ErrValidation)
		}
	}
	r.s.lastMsg++
	sm := storedMessage{
		id:          r.s.lastMsg,
		senderID:    nm.SenderID,
		recipientID: nm.RecipientID,
		content:     nm.Content,
		ts:          r.s.now(),
	}
	r.s.messages = append(r.s.messages, sm)
	return r.s.view(sm, sender.Name), nil
}

// List orders by timestamp; the stable sort keeps insertion order on ties.
func (r *MessageRepo) List(_ context.Context, p model.Page) ([]model.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]model.Message, 0, len(r.s.messages))
	for _, sm := range r.s.messages {
		all = append(all, r.s.view(sm, r.s.users[sm.senderID].Name))
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Timestamp.Before(all[j].Timestamp) })
	return window(all, p), nil
}

func (s *Store) view(sm storedMessage, senderName string) model.Message {
	return model.Message{
		ID:          sm.id,
		SenderID:    sm.senderID,
		RecipientID: sm.recipientID,
		SenderName:  senderName,
		Content:     sm.content,
		Timestamp:   sm.ts,
	}
}
