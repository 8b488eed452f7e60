package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/stickyboard/sticky-board/internal/model"
)

// BoardRepo encapsulates queries over the `boards` table.  Boards belong to
// exactly one user and are cascade-deleted with them.
type BoardRepo struct{ DB *sql.DB }

func NewBoardRepo(db *sql.DB) *BoardRepo { return &BoardRepo{DB: db} }

// Create inserts a board for the given owner.  On success the board's ID and
// CreatedAt fields are populated.
func (r *BoardRepo) Create(ctx context.Context, b *model.Board) error {
	b.CreatedAt = time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO boards (title, code, content, owner_id, created_at) VALUES (?,?,?,?,?)",
		b.Title, b.Code, b.Content, b.OwnerID, b.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByID fetches a board regardless of owner.  Ownership checks belong to
// the caller so a foreign board can yield 403 rather than 404.
func (r *BoardRepo) GetByID(ctx context.Context, id uint64) (*model.Board, error) {
	var b model.Board
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,title,code,content,owner_id,created_at FROM boards WHERE id=?", id).
		Scan(&b.ID, &b.Title, &b.Code, &b.Content, &b.OwnerID, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBoardNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByOwner returns all boards for a specific owner ordered by id.
func (r *BoardRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Board, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,title,code,content,owner_id,created_at FROM boards WHERE owner_id=? ORDER BY id", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Board
	for rows.Next() {
		b := new(model.Board)
		if err := rows.Scan(&b.ID, &b.Title, &b.Code, &b.Content, &b.OwnerID, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// DeleteByIDAndOwner removes a board if it belongs to the given owner.  A
// board owned by someone else returns ErrForbidden; a missing id returns
// ErrBoardNotFound.
func (r *BoardRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.OwnerID != ownerID {
		return ErrForbidden
	}
	_, err = r.DB.ExecContext(ctx, "DELETE FROM boards WHERE id=?", id)
	return err
}
