package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/and161185/regolith/internal/errs"
	"github.com/and161185/regolith/internal/model"
	"github.com/jackc/pgx/v5"
)

// MessageRepo implements MessageRepository using PostgreSQL.
type MessageRepo struct{ db *DB }

// NewMessageRepo constructs a message repository.
func NewMessageRepo(db *DB) *MessageRepo { return &MessageRepo{db: db} }

// Create checks that the sender (and the recipient, when given) exist, inserts
// the message and returns it joined with the sender's current name.
// Users are locked FOR SHARE so a concurrent delete cannot strand the new row.
func (r *MessageRepo) Create(ctx context.Context, nm model.NewMessage) (m model.Message, err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return model.Message{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	const selUser = `SELECT name FROM users WHERE id=$1 FOR SHARE`
	const ins = `
INSERT INTO messages (sender_id, recipient_id, content)
VALUES ($1, $2, $3)
RETURNING id, created_at`

	var senderName string
	if err = tx.QueryRow(ctx, selUser, nm.SenderID).Scan(&senderName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Message{}, fmt.Errorf("sender %d: %w: %w", nm.SenderID, errs.ErrValidation, errs.ErrNotFound)
		}
		return model.Message{}, err
	}
	if nm.RecipientID != nil {
		var ignored string
		if err = tx.QueryRow(ctx, selUser, *nm.RecipientID).Scan(&ignored); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.Message{}, fmt.Errorf("recipient %d: %w", *nm.RecipientID, errs.ErrValidation)
			}
			return model.Message{}, err
		}
	}

	var (
		id int64
		ts time.Time
	)
	if err = tx.QueryRow(ctx, ins, nm.SenderID, nm.RecipientID, nm.Content).Scan(&id, &ts); err != nil {
		if isForeignKeyViolation(err) {
			return model.Message{}, fmt.Errorf("insert message: %w", errs.ErrValidation)
		}
		return model.Message{}, err
	}
	return model.Message{
		ID:          id,
		SenderID:    nm.SenderID,
		RecipientID: nm.RecipientID,
		SenderName:  senderName,
		Content:     nm.Content,
		Timestamp:   ts,
	}, nil
}

// List returns messages ordered by timestamp; ties keep insertion order.
func (r *MessageRepo) List(ctx context.Context, page model.Page) ([]model.Message, error) {
	const q = `
SELECT m.id, m.sender_id, m.recipient_id, u.name, m.content, m.created_at
FROM messages m JOIN users u ON u.id = m.sender_id
ORDER BY m.created_at ASC, m.id ASC
OFFSET $1 LIMIT $2`
	rows, err := r.db.Pool.Query(ctx, q, page.Offset, page.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Message
	for rows.Next() {
		var m model.Message
		if err = rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.SenderName, &m.Content, &m.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
