// Package service coordinates store mutations with real-time notifications.
//
// Every successful create/update/delete on a tracked entity publishes exactly
// one signal through the Notifier after the store has committed. Failed
// mutations publish nothing. Publishing never blocks the caller.
package service

import (
	"fmt"

	"github.com/and161185/regolith/internal/errs"
	"github.com/and161185/regolith/internal/model"
)

// Signals sent to observers. They carry no data; clients re-fetch.
const (
	EventUpdate      = "update"
	EventUserDeleted = "user_deleted"
)

// Notifier dispatches a signal to all observers without waiting for delivery.
type Notifier interface {
	Publish(payload string)
}

// checkPage rejects negative windows. A zero limit is a valid, empty page.
func checkPage(p model.Page) error {
	if p.Offset < 0 {
		return fmt.Errorf("validation: negative offset %d: %w", p.Offset, errs.ErrValidation)
	}
	if p.Limit < 0 {
		return fmt.Errorf("validation: negative limit %d: %w", p.Limit, errs.ErrValidation)
	}
	return nil
}

// checkID rejects ids that can never have been assigned.
func checkID(kind string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%s %d: %w", kind, id, errs.ErrNotFound)
	}
	return nil
}
