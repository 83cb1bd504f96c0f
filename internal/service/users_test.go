package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/and161185/regolith/internal/errs"
	"github.com/and161185/regolith/internal/model"
)

func TestUserService_Create_NoSignal(t *testing.T) {
	t.Parallel()
	repo := &fakeUserRepo{createOut: model.User{ID: 1, Name: "A"}}
	n := &recordingNotifier{}
	s := NewUserService(repo, n)

	u, err := s.Create(context.Background(), "A")
	if err != nil || u.ID != 1 || repo.createInName != "A" {
		t.Fatalf("Create: u=%+v err=%v", u, err)
	}
	if len(n.got()) != 0 {
		t.Fatalf("user creation is not broadcast, got %v", n.got())
	}
}

func TestUserService_Delete_PublishesUserDeleted(t *testing.T) {
	t.Parallel()
	repo := &fakeUserRepo{}
	n := &recordingNotifier{}
	s := NewUserService(repo, n)

	if err := s.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if repo.delInID != 1 {
		t.Fatalf("delegate id mismatch: %d", repo.delInID)
	}
	if got := n.got(); !reflect.DeepEqual(got, []string{EventUserDeleted}) {
		t.Fatalf("want user_deleted, got %v", got)
	}
}

func TestUserService_Delete_NotFoundNoSignal(t *testing.T) {
	t.Parallel()
	repo := &fakeUserRepo{delErr: errs.ErrNotFound}
	n := &recordingNotifier{}
	s := NewUserService(repo, n)

	if err := s.Delete(context.Background(), 77); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if len(n.got()) != 0 {
		t.Fatalf("no signal expected, got %v", n.got())
	}
}

func TestUserService_GetAndList(t *testing.T) {
	t.Parallel()
	repo := &fakeUserRepo{getOut: model.User{ID: 2, Name: "B"}, listOut: []model.User{{ID: 2}}}
	s := NewUserService(repo, &recordingNotifier{})
	ctx := context.Background()

	u, err := s.Get(ctx, 2)
	if err != nil || u.Name != "B" {
		t.Fatalf("Get: u=%+v err=%v", u, err)
	}
	if _, err := s.Get(ctx, 0); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound for id 0, got %v", err)
	}
	if _, err := s.List(ctx, model.Page{Offset: 1}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if repo.listInPage != (model.Page{Offset: 1}) {
		t.Fatalf("page not forwarded unchanged: %+v", repo.listInPage)
	}
}
