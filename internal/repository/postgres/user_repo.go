package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/and161185/regolith/internal/errs"
	"github.com/and161185/regolith/internal/model"
	"github.com/jackc/pgx/v5"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user row.
func (r *UserRepo) Create(ctx context.Context, name string) (model.User, error) {
	const q = `INSERT INTO users (name) VALUES ($1) RETURNING id`
	u := model.User{Name: name}
	if err := r.db.Pool.QueryRow(ctx, q, name).Scan(&u.ID); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Get selects a user by ID.
func (r *UserRepo) Get(ctx context.Context, id int64) (model.User, error) {
	const q = `SELECT id, name FROM users WHERE id=$1`
	var u model.User
	if err := r.db.Pool.QueryRow(ctx, q, id).Scan(&u.ID, &u.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return u, nil
}

// List returns users in creation order.
func (r *UserRepo) List(ctx context.Context, page model.Page) ([]model.User, error) {
	const q = `SELECT id, name FROM users ORDER BY id ASC OFFSET $1 LIMIT $2`
	rows, err := r.db.Pool.Query(ctx, q, page.Offset, page.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err = rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Delete removes the user's messages (sent or received) and then the user,
// in one transaction. Either both steps are committed or neither is.
func (r *UserRepo) Delete(ctx context.Context, id int64) (err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
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

	const sel = `SELECT id FROM users WHERE id=$1 FOR UPDATE`
	const delMsgs = `DELETE FROM messages WHERE sender_id=$1 OR recipient_id=$1`
	const delUser = `DELETE FROM users WHERE id=$1`

	var got int64
	if err = tx.QueryRow(ctx, sel, id).Scan(&got); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.ErrNotFound
		}
		return err
	}
	if _, err = tx.Exec(ctx, delMsgs, id); err != nil {
		return fmt.Errorf("delete messages of user %d: %w", id, err)
	}
	tag, err := tx.Exec(ctx, delUser, id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
