// Package repository contains data access logic separated from HTTP
// handlers. This file defines the repository over the unified `notes` table.
// All read paths go through a single conjunctive NoteFilter; the divergent
// per-endpoint filtering schemes of earlier revisions collapse into it.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/stickyboard/sticky-board/internal/model"
)

// NoteFilter is a conjunctive predicate over notes.  Nil fields are not
// applied.  Username matches the owner, BoardType the board tag, Private the
// privacy flag and Status the lifecycle state.
type NoteFilter struct {
	Username  *string
	BoardType *string
	Private   *bool
	Status    *model.Status
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// PublicMain returns the filter used for guests: public notes on the shared
// board, optionally narrowed to one owner.
func PublicMain(username string) NoteFilter {
	f := NoteFilter{BoardType: strPtr(model.BoardMain), Private: boolPtr(false)}
	if username != "" {
		f.Username = &username
	}
	return f
}

const noteColumns = "id,title,content,x,y,status,username,is_private,board_type,color,likes,dislikes,created_at,updated_at"

// NoteRepo encapsulates all database queries related to notes.
type NoteRepo struct{ DB *sql.DB }

func NewNoteRepo(db *sql.DB) *NoteRepo { return &NoteRepo{DB: db} }

// Create inserts a note, applying the documented defaults for any field the
// client left unset: board_type "main", privacy false, status active,
// position 100/100 and the standard sticky color.  On success the note's ID
// and CreatedAt fields are populated.
func (r *NoteRepo) Create(ctx context.Context, n *model.Note) error {
	if n.BoardType != model.BoardMain && n.BoardType != model.BoardProfile {
		n.BoardType = model.BoardMain
	}
	if !model.ValidStatus(string(n.Status)) {
		n.Status = model.StatusActive
	}
	if n.X == 0 {
		n.X = model.DefaultX
	}
	if n.Y == 0 {
		n.Y = model.DefaultY
	}
	if n.Color == "" {
		n.Color = model.DefaultColor
	}
	n.CreatedAt = time.Now().UTC()

	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO notes (title, content, x, y, status, username, is_private, board_type, color, likes, dislikes, created_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		n.Title, n.Content, n.X, n.Y, string(n.Status), n.Username, n.IsPrivate,
		n.BoardType, n.Color, n.Likes, n.Dislikes, n.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return nil
}

// GetByID fetches a note by id, returning ErrNoteNotFound when absent.
func (r *NoteRepo) GetByID(ctx context.Context, id uint64) (*model.Note, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+noteColumns+" FROM notes WHERE id=?", id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	return n, err
}

// List returns notes matching every set predicate of the filter, newest
// first (descending id, matching the original's sort by creation).
func (r *NoteRepo) List(ctx context.Context, f NoteFilter) ([]*model.Note, error) {
	var (
		conds []string
		args  []any
	)
	if f.Username != nil {
		conds = append(conds, "username=?")
		args = append(args, *f.Username)
	}
	if f.BoardType != nil {
		conds = append(conds, "board_type=?")
		args = append(args, *f.BoardType)
	}
	if f.Private != nil {
		conds = append(conds, "is_private=?")
		args = append(args, *f.Private)
	}
	if f.Status != nil {
		conds = append(conds, "status=?")
		args = append(args, string(*f.Status))
	}
	q := "SELECT " + noteColumns + " FROM notes"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY id DESC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// UpdatePosition moves a note on its board and returns the updated record.
func (r *NoteRepo) UpdatePosition(ctx context.Context, id uint64, x, y int) (*model.Note, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE notes SET x=?, y=?, updated_at=? WHERE id=?", x, y, time.Now().UTC(), id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNoteNotFound
	}
	return r.GetByID(ctx, id)
}

// UpdateStatus applies a lifecycle transition.  Illegal transitions (e.g.
// done→deleted) return ErrInvalidTransition; restoring to active is always
// allowed, which is the only way out of deleted.
func (r *NoteRepo) UpdateStatus(ctx context.Context, id uint64, to model.Status) (*model.Note, error) {
	n, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(n.Status, to) {
		return nil, ErrInvalidTransition
	}
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE notes SET status=?, updated_at=? WHERE id=?",
		string(to), time.Now().UTC(), id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Update rewrites the mutable fields of a note (title, content, position,
// color, privacy, board) in place.
func (r *NoteRepo) Update(ctx context.Context, n *model.Note) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE notes SET title=?, content=?, x=?, y=?, is_private=?, board_type=?, color=?, updated_at=? WHERE id=?`,
		n.Title, n.Content, n.X, n.Y, n.IsPrivate, n.BoardType, n.Color, time.Now().UTC(), n.ID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// Like increments the like counter and returns the updated note.
func (r *NoteRepo) Like(ctx context.Context, id uint64) (*model.Note, error) {
	return r.bump(ctx, id, "likes")
}

// Dislike increments the dislike counter and returns the updated note.  The
// caller is responsible for the auto-delete threshold check so that the
// deletion can be broadcast instead of the update.
func (r *NoteRepo) Dislike(ctx context.Context, id uint64) (*model.Note, error) {
	return r.bump(ctx, id, "dislikes")
}

func (r *NoteRepo) bump(ctx context.Context, id uint64, column string) (*model.Note, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE notes SET "+column+"="+column+"+1 WHERE id=?", id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNoteNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a note row entirely (hard delete).
func (r *NoteRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM notes WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// CountByUsername returns how many notes a user owns, for the profile view.
func (r *NoteRepo) CountByUsername(ctx context.Context, username string) (int64, error) {
	var count int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notes WHERE username=?", username).Scan(&count)
	return count, err
}

type rowScanner interface{ Scan(dest ...any) error }

func scanNote(row rowScanner) (*model.Note, error) {
	var (
		n       model.Note
		status  string
		updated sql.NullTime
	)
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &n.X, &n.Y, &status, &n.Username,
		&n.IsPrivate, &n.BoardType, &n.Color, &n.Likes, &n.Dislikes, &n.CreatedAt, &updated); err != nil {
		return nil, err
	}
	n.Status = model.Status(status)
	if updated.Valid {
		t := updated.Time
		n.UpdatedAt = &t
	}
	return &n, nil
}
