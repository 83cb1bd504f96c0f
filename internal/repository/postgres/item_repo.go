package postgres

import (
	"context"
	"errors"

	"github.com/and161185/regolith/internal/errs"
	"github.com/and161185/regolith/internal/model"
	"github.com/jackc/pgx/v5"
)

// ItemRepo implements ItemRepository using PostgreSQL.
type ItemRepo struct{ db *DB }

// NewItemRepo constructs an item repository.
func NewItemRepo(db *DB) *ItemRepo { return &ItemRepo{db: db} }

// Create inserts an item and returns it with the assigned id.
func (r *ItemRepo) Create(ctx context.Context, name, description string) (model.Item, error) {
	const q = `INSERT INTO items (name, description) VALUES ($1, $2) RETURNING id`
	it := model.Item{Name: name, Description: description}
	if err := r.db.Pool.QueryRow(ctx, q, name, description).Scan(&it.ID); err != nil {
		return model.Item{}, err
	}
	return it, nil
}

// Get returns a single item by id.
func (r *ItemRepo) Get(ctx context.Context, id int64) (model.Item, error) {
	const q = `SELECT id, name, description FROM items WHERE id=$1`
	var it model.Item
	if err := r.db.Pool.QueryRow(ctx, q, id).Scan(&it.ID, &it.Name, &it.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Item{}, errs.ErrNotFound
		}
		return model.Item{}, err
	}
	return it, nil
}

// List returns items in creation order.
func (r *ItemRepo) List(ctx context.Context, page model.Page) ([]model.Item, error) {
	const q = `SELECT id, name, description FROM items ORDER BY id ASC OFFSET $1 LIMIT $2`
	rows, err := r.db.Pool.Query(ctx, q, page.Offset, page.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Item
	for rows.Next() {
		var it model.Item
		if err = rows.Scan(&it.ID, &it.Name, &it.Description); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Update locks the row, merges the present patch fields and writes them back.
func (r *ItemRepo) Update(ctx context.Context, id int64, patch model.ItemPatch) (it model.Item, err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return model.Item{}, err
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

	const sel = `SELECT id, name, description FROM items WHERE id=$1 FOR UPDATE`
	const upd = `UPDATE items SET name=$2, description=$3 WHERE id=$1`

	var cur model.Item
	if err = tx.QueryRow(ctx, sel, id).Scan(&cur.ID, &cur.Name, &cur.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Item{}, errs.ErrNotFound
		}
		return model.Item{}, err
	}
	if patch.Empty() {
		return cur, nil
	}
	next := patch.Apply(cur)
	if _, err = tx.Exec(ctx, upd, id, next.Name, next.Description); err != nil {
		return model.Item{}, err
	}
	return next, nil
}

// Delete removes an item row.
func (r *ItemRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM items WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
