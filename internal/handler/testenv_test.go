package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	_ "github.com/glebarez/go-sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stickyboard/sticky-board/internal/broadcast"
	"github.com/stickyboard/sticky-board/internal/config"
	"github.com/stickyboard/sticky-board/internal/repository"
)

var testTables = []string{
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		roles TEXT NOT NULL DEFAULT 'USER',
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE refresh_tokens (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		token_hash TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		x INTEGER NOT NULL DEFAULT 100,
		y INTEGER NOT NULL DEFAULT 100,
		status TEXT NOT NULL DEFAULT 'active',
		username TEXT NOT NULL,
		is_private BOOLEAN NOT NULL DEFAULT FALSE,
		board_type TEXT NOT NULL DEFAULT 'main',
		color TEXT NOT NULL DEFAULT '#fff9c4',
		likes INTEGER NOT NULL DEFAULT 0,
		dislikes INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME
	)`,
	`CREATE TABLE sticky_notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		x INTEGER NOT NULL DEFAULT 100,
		y INTEGER NOT NULL DEFAULT 100,
		text TEXT NOT NULL,
		done BOOLEAN NOT NULL DEFAULT FALSE,
		username TEXT NOT NULL,
		is_private BOOLEAN NOT NULL DEFAULT FALSE,
		board_type TEXT NOT NULL DEFAULT 'main'
	)`,
}

// env is the in-memory handler test harness: sqlite-backed repositories, a
// fresh hub, and handlers wired the way main wires them.
type env struct {
	e      *echo.Echo
	db     *sql.DB
	cfg    config.Config
	hub    *broadcast.Hub
	users  *repository.UserRepo
	notes  *repository.NoteRepo
	auth   *AuthHandler
	reg    *RegistrationHandler
	noteH  *NoteHandler
	stream *StreamHandler
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	for _, stmt := range testTables {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	cfg := config.Config{
		JWTSecret:        "handler-test-secret",
		AccessTTLMin:     15,
		RefreshTTLDays:   7,
		BcryptCost:       bcrypt.MinCost,
		DislikeThreshold: 3,
		LegacyFallback:   true,
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	notes := repository.NewNoteRepo(db)
	legacy := repository.NewLegacyNoteRepo(db)
	hub := broadcast.NewHub()

	auth := NewAuthHandler(cfg, users, tokens)
	return &env{
		e:      echo.New(),
		db:     db,
		cfg:    cfg,
		hub:    hub,
		users:  users,
		notes:  notes,
		auth:   auth,
		reg:    NewRegistrationHandler(auth, users),
		noteH:  NewNoteHandler(cfg, notes, legacy, hub),
		stream: NewStreamHandler(hub),
	}
}

// request builds an echo context for a handler call. body may be a JSON
// string or empty; user "" means anonymous.
func (v *env) request(t *testing.T, method, target, body, user string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := v.e.NewContext(req, rec)
	if user != "" {
		c.Set("username", user)
		c.Set("roles", []string{"USER"})
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (v *env) registerUser(t *testing.T, username, email string) {
	t.Helper()
	_, err := v.users.Create(context.Background(), username, email, "secret", v.cfg.BcryptCost)
	require.NoError(t, err)
}
