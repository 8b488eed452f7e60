package model

import (
	"strings"
	"time"
)

// Role is an application role carried in the JWT "roles" claim.  Roles are
// persisted as a comma-joined string in users.roles but exposed as a typed
// set everywhere else.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRoles splits a comma-joined roles column into typed roles, dropping
// blanks.  An empty column yields the default USER role.
func ParseRoles(s string) []Role {
	var out []Role
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, Role(strings.ToUpper(p)))
		}
	}
	if len(out) == 0 {
		out = []Role{RoleUser}
	}
	return out
}

// JoinRoles renders a role set back into its column form.
func JoinRoles(roles []Role) string {
	if len(roles) == 0 {
		return string(RoleUser)
	}
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

// User represents an application user record as stored in the `users`
// table.  Notes reference users by username rather than by foreign key, so
// Username is the identity carried in token subjects and ownership filters.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Username     – unique login name; subject of issued tokens.
//	Email        – unique email address.
//	PasswordHash – bcrypt hashed password.
//	Roles        – set of roles (stored comma-joined in users.roles).
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each refresh
// token belongs to a user; the signed token itself is never stored, only its
// SHA-256 hash.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – owner of the token.
//	TokenHash – SHA-256 hex digest of the signed token.
//	ExpiresAt – expiration timestamp of the token.
//	RevokedAt – when the token was revoked (nil if still active).
//	CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
