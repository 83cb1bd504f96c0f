package service

import (
	"context"
	"sync"

	"github.com/and161185/regolith/internal/model"
	"github.com/and161185/regolith/internal/repository"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Publish(payload string) {
	n.mu.Lock()
	n.events = append(n.events, payload)
	n.mu.Unlock()
}

func (n *recordingNotifier) got() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

type fakeItemRepo struct {
	createInName, createInDesc string
	createOut                  model.Item
	createErr                  error

	getInID int64
	getOut  model.Item
	getErr  error

	listInPage model.Page
	listOut    []model.Item
	listErr    error

	updInID    int64
	updInPatch model.ItemPatch
	updOut     model.Item
	updErr     error

	delInID int64
	delErr  error
}

var _ repository.ItemRepository = (*fakeItemRepo)(nil)

func (f *fakeItemRepo) Create(_ context.Context, name, description string) (model.Item, error) {
	f.createInName, f.createInDesc = name, description
	return f.createOut, f.createErr
}
func (f *fakeItemRepo) Get(_ context.Context, id int64) (model.Item, error) {
	f.getInID = id
	return f.getOut, f.getErr
}
func (f *fakeItemRepo) List(_ context.Context, p model.Page) ([]model.Item, error) {
	f.listInPage = p
	return append([]model.Item(nil), f.listOut...), f.listErr
}
func (f *fakeItemRepo) Update(_ context.Context, id int64, patch model.ItemPatch) (model.Item, error) {
	f.updInID, f.updInPatch = id, patch
	return f.updOut, f.updErr
}
func (f *fakeItemRepo) Delete(_ context.Context, id int64) error {
	f.delInID = id
	return f.delErr
}

type fakeUserRepo struct {
	createInName string
	createOut    model.User
	createErr    error

	getOut model.User
	getErr error

	listInPage model.Page
	listOut    []model.User

	delInID int64
	delErr  error
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func (f *fakeUserRepo) Create(_ context.Context, name string) (model.User, error) {
	f.createInName = name
	return f.createOut, f.createErr
}
func (f *fakeUserRepo) Get(_ context.Context, _ int64) (model.User, error) {
	return f.getOut, f.getErr
}
func (f *fakeUserRepo) List(_ context.Context, p model.Page) ([]model.User, error) {
	f.listInPage = p
	return f.listOut, nil
}
func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	f.delInID = id
	return f.delErr
}

type fakeMessageRepo struct {
	createIn    model.NewMessage
	createCalls int
	createOut   model.Message
	createErr   error

	listInPage model.Page
	listOut    []model.Message
}

var _ repository.MessageRepository = (*fakeMessageRepo)(nil)

func (f *fakeMessageRepo) Create(_ context.Context, m model.NewMessage) (model.Message, error) {
	f.createIn = m
	f.createCalls++
	return f.createOut, f.createErr
}
func (f *fakeMessageRepo) List(_ context.Context, p model.Page) ([]model.Message, error) {
	f.listInPage = p
	return f.listOut, nil
}
