package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/and161185/regolith/internal/errs"
	"github.com/and161185/regolith/internal/model"
)

func TestMessageService_Create_PublishesAndReturnsSenderName(t *testing.T) {
	t.Parallel()
	ts := time.Now()
	repo := &fakeMessageRepo{createOut: model.Message{ID: 1, SenderID: 1, SenderName: "A", Content: "hi", Timestamp: ts}}
	n := &recordingNotifier{}
	s := NewMessageService(repo, n)

	m, err := s.Create(context.Background(), model.NewMessage{SenderID: 1, Content: "hi"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.SenderName != "A" || repo.createIn.SenderID != 1 || repo.createIn.Content != "hi" {
		t.Fatalf("delegate mismatch: m=%+v in=%+v", m, repo.createIn)
	}
	if got := n.got(); !reflect.DeepEqual(got, []string{EventUpdate}) {
		t.Fatalf("want update, got %v", got)
	}
}

func TestMessageService_Create_UnknownSender(t *testing.T) {
	t.Parallel()
	repo := &fakeMessageRepo{createErr: fmt.Errorf("sender 9: %w: %w", errs.ErrValidation, errs.ErrNotFound)}
	n := &recordingNotifier{}
	s := NewMessageService(repo, n)

	_, err := s.Create(context.Background(), model.NewMessage{SenderID: 9, Content: "x"})
	if !errors.Is(err, errs.ErrValidation) || !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want validation+not found, got %v", err)
	}
	if len(n.got()) != 0 {
		t.Fatalf("no signal expected, got %v", n.got())
	}
}

func TestMessageService_Create_RejectsBadIDsBeforeStore(t *testing.T) {
	t.Parallel()
	repo := &fakeMessageRepo{}
	s := NewMessageService(repo, &recordingNotifier{})
	ctx := context.Background()

	if _, err := s.Create(ctx, model.NewMessage{SenderID: 0}); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound for sender 0, got %v", err)
	}
	bad := int64(-3)
	if _, err := s.Create(ctx, model.NewMessage{SenderID: 1, RecipientID: &bad}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want ErrValidation for bad recipient, got %v", err)
	}
	if repo.createCalls != 0 {
		t.Fatalf("store must not be called, calls=%d", repo.createCalls)
	}
}

func TestMessageService_List_ZeroLimitForwarded(t *testing.T) {
	t.Parallel()
	repo := &fakeMessageRepo{}
	s := NewMessageService(repo, &recordingNotifier{})

	out, err := s.List(context.Background(), model.Page{Offset: 2, Limit: 0})
	if err != nil || len(out) != 0 {
		t.Fatalf("List: out=%v err=%v", out, err)
	}
	if repo.listInPage != (model.Page{Offset: 2}) {
		t.Fatalf("want page forwarded unchanged, got %+v", repo.listInPage)
	}
	if _, err := s.List(context.Background(), model.Page{Limit: -5}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want ErrValidation on negative limit, got %v", err)
	}
}
