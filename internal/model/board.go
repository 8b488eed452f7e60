package model

import "time"

// Board is a titled container of notes owned by exactly one user.  The code
// is a random identifier generated at creation so boards can be shared by
// link without exposing numeric ids.
//
// Fields:
//
//	ID        – primary key identifier.
//	Title     – human-friendly board title.
//	Code      – generated share code, unique per board.
//	Content   – free-form board content.
//	OwnerID   – users.id of the owning user (cascade delete).
//	CreatedAt – timestamp of creation.
type Board struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Code      string    `json:"code"`
	Content   string    `json:"content"`
	OwnerID   uint64    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
