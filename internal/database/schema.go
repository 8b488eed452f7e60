package database

import "database/sql"

// schema contains the MySQL DDL for all application tables.  Statements are
// idempotent so Migrate can run on every startup.  The legacy `sticky_notes`
// table is included because the migration adapter still reads it; nothing
// writes it anymore.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(64) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		roles VARCHAR(128) NOT NULL DEFAULT 'USER',
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL,
		INDEX idx_refresh_hash (token_hash),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS notes (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		x INT NOT NULL DEFAULT 100,
		y INT NOT NULL DEFAULT 100,
		status VARCHAR(16) NOT NULL DEFAULT 'active',
		username VARCHAR(64) NOT NULL,
		is_private BOOLEAN NOT NULL DEFAULT FALSE,
		board_type VARCHAR(16) NOT NULL DEFAULT 'main',
		color VARCHAR(20) NOT NULL DEFAULT '#fff9c4',
		likes INT NOT NULL DEFAULT 0,
		dislikes INT NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NULL,
		INDEX idx_notes_owner (username, board_type, status)
	)`,
	`CREATE TABLE IF NOT EXISTS sticky_notes (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		x INT NOT NULL DEFAULT 100,
		y INT NOT NULL DEFAULT 100,
		text TEXT NOT NULL,
		done BOOLEAN NOT NULL DEFAULT FALSE,
		username VARCHAR(64) NOT NULL,
		is_private BOOLEAN NOT NULL DEFAULT FALSE,
		board_type VARCHAR(16) NOT NULL DEFAULT 'main'
	)`,
	`CREATE TABLE IF NOT EXISTS boards (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		code VARCHAR(16) NOT NULL UNIQUE,
		content TEXT NOT NULL,
		owner_id BIGINT UNSIGNED NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS subscription_tiers (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(64) NOT NULL UNIQUE,
		stripe_price_id VARCHAR(128) NOT NULL,
		price INT NOT NULL,
		currency VARCHAR(8) NOT NULL,
		billing_interval VARCHAR(16) NOT NULL,
		features TEXT,
		max_notes INT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		sort_order INT NOT NULL DEFAULT 0
	)`,
}

// Migrate creates all application tables if they do not exist yet.
func Migrate(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
