package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/stickyboard/sticky-board/internal/model"
	"github.com/stickyboard/sticky-board/internal/utils"
)

// UserRepo encapsulates all database queries over the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID.  Duplicate checks run before the
// insert so a taken username or email never reaches the save path.
func (r *UserRepo) Create(ctx context.Context, username, email, password string, cost int) (uint64, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	taken, err := r.ExistsByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, ErrUsernameExists
	}
	if email != "" {
		used, err := r.existsByEmail(ctx, email)
		if err != nil {
			return 0, err
		}
		if used {
			return 0, ErrEmailExists
		}
	}

	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, roles, created_at) VALUES (?,?,?,?,?)",
		username, email, hash, string(model.RoleUser), time.Now().UTC())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.get(ctx, "SELECT id,username,email,password_hash,roles,created_at FROM users WHERE username=? LIMIT 1", strings.TrimSpace(username))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.get(ctx, "SELECT id,username,email,password_hash,roles,created_at FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) get(ctx context.Context, q string, arg any) (model.User, error) {
	var (
		u     model.User
		roles string
	)
	err := r.DB.QueryRowContext(ctx, q, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &roles, &u.CreatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Roles = model.ParseRoles(roles)
	return u, nil
}

// ExistsByUsername reports whether a username is already taken.
func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE username=? LIMIT 1", strings.TrimSpace(username)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *UserRepo) existsByEmail(ctx context.Context, email string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE email=? LIMIT 1", email).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
