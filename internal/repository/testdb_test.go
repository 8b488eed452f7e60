package repository

import (
	"database/sql"
	"testing"

	_ "github.com/glebarez/go-sqlite"
	"github.com/stretchr/testify/require"
)

// testSchema is the SQLite rendition of the production DDL. Repositories use
// only portable SQL, so the same queries run against both engines.
var testSchema = []string{
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
	`CREATE TABLE boards (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		code TEXT NOT NULL UNIQUE,
		content TEXT NOT NULL,
		owner_id INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE subscription_tiers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		stripe_price_id TEXT NOT NULL,
		price INTEGER NOT NULL,
		currency TEXT NOT NULL,
		billing_interval TEXT NOT NULL,
		features TEXT,
		max_notes INTEGER NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		sort_order INTEGER NOT NULL DEFAULT 0
	)`,
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// One connection so every query sees the same in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range testSchema {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}
