package repository

// The service went through a schema migration: the historical `sticky_notes`
// table (position + text + done flag) predates the unified `notes` table.
// LegacyNoteRepo is the explicit migration adapter over that old table.  It
// is a read-path bridge: new writes always target `notes`, with one
// exception, restoring an old note clears its done flag in place.

import (
	"context"
	"database/sql"
	"errors"

	"github.com/stickyboard/sticky-board/internal/model"
)

const legacyColumns = "id,x,y,text,done,username,is_private,board_type"

// LegacyNoteRepo reads the pre-migration sticky_notes table.
type LegacyNoteRepo struct{ DB *sql.DB }

func NewLegacyNoteRepo(db *sql.DB) *LegacyNoteRepo { return &LegacyNoteRepo{DB: db} }

// ListByOwnerAndDone returns a user's legacy notes filtered by the done
// flag.  boardType narrows to one board; empty or "all" spans both, which
// mirrors how the pre-migration read paths were queried.
func (r *LegacyNoteRepo) ListByOwnerAndDone(ctx context.Context, username string, done bool, boardType string) ([]model.LegacyNote, error) {
	q := "SELECT " + legacyColumns + " FROM sticky_notes WHERE username=? AND done=?"
	args := []any{username, done}
	if boardType != "" && boardType != "all" {
		q += " AND board_type=?"
		args = append(args, boardType)
	}
	q += " ORDER BY id DESC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LegacyNote
	for rows.Next() {
		var l model.LegacyNote
		if err := rows.Scan(&l.ID, &l.X, &l.Y, &l.Text, &l.Done, &l.Username,
			&l.IsPrivate, &l.BoardType); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Restore clears the done flag on a legacy note and returns the updated
// row, or ErrNoteNotFound when the id matches nothing in the old table.
func (r *LegacyNoteRepo) Restore(ctx context.Context, id uint64) (model.LegacyNote, error) {
	res, err := r.DB.ExecContext(ctx, "UPDATE sticky_notes SET done=? WHERE id=?", false, id)
	if err != nil {
		return model.LegacyNote{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.LegacyNote{}, ErrNoteNotFound
	}

	var l model.LegacyNote
	err = r.DB.QueryRowContext(ctx, "SELECT "+legacyColumns+" FROM sticky_notes WHERE id=?", id).
		Scan(&l.ID, &l.X, &l.Y, &l.Text, &l.Done, &l.Username, &l.IsPrivate, &l.BoardType)
	if errors.Is(err, sql.ErrNoRows) {
		return model.LegacyNote{}, ErrNoteNotFound
	}
	return l, err
}
