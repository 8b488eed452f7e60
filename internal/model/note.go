package model

import "time"

// Status enumerates the lifecycle states of a note.  Valid transitions are
// active→done, active→deleted, done→active; deleted notes only leave the
// state via an explicit restore.
type Status string

const (
	StatusActive  Status = "active"
	StatusDone    Status = "done"
	StatusDeleted Status = "deleted"
)

// ValidStatus reports whether s is one of the known note states.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusActive, StatusDone, StatusDeleted:
		return true
	}
	return false
}

// CanTransition reports whether a note may move from one status to another.
// Restoring (→active) is always allowed; it is the only way out of deleted.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	switch to {
	case StatusActive:
		return true
	case StatusDone, StatusDeleted:
		return from == StatusActive
	}
	return false
}

// Board types.  The shared board visible to everyone is "main"; each user
// additionally has a personal "profile" board.
const (
	BoardMain    = "main"
	BoardProfile = "profile"
)

// Defaults applied when a note is created without explicit values.
const (
	DefaultX     = 100
	DefaultY     = 100
	DefaultColor = "#fff9c4"
)

// Note is the unified sticky-note entity stored in the `notes` table.  The
// owner is referenced by username string; there is no user foreign key.
//
// Fields:
//
//	ID        – primary key identifier.
//	Title     – short optional heading.
//	Content   – free-text body of the note.
//	X, Y      – position on the board, defaulting to 100/100.
//	Status    – lifecycle state (active, done, deleted).
//	Username  – owner username.
//	IsPrivate – private notes are hidden from guests and other users.
//	BoardType – "main" (shared) or "profile" (personal).
//	Color     – display color, defaulting to the classic sticky yellow.
//	Likes     – like counter.
//	Dislikes  – dislike counter; reaching the configured threshold deletes the note.
//	CreatedAt – timestamp of creation.
//	UpdatedAt – timestamp of last update (nil when never updated).
type Note struct {
	ID        uint64     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	X         int        `json:"x"`
	Y         int        `json:"y"`
	Status    Status     `json:"status"`
	Username  string     `json:"username"`
	IsPrivate bool       `json:"isPrivate"`
	BoardType string     `json:"boardType"`
	Color     string     `json:"color"`
	Likes     int        `json:"likes"`
	Dislikes  int        `json:"dislikes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Done is kept for clients of the pre-migration schema that still expect a
// boolean completion flag alongside the status enum.
func (n *Note) Done() bool { return n.Status == StatusDone }

// LegacyNote mirrors a row of the historical `sticky_notes` table that
// predates the unified schema.  It is read-only: the migration adapter maps
// it into Note on the fly and nothing writes it back except a restore, which
// clears the done flag.
type LegacyNote struct {
	ID        uint64
	X         int
	Y         int
	Text      string
	Done      bool
	Username  string
	IsPrivate bool
	BoardType string
}

// ToNote maps a legacy row into the unified shape.  Missing columns get the
// unified defaults; the status is derived from the requested read (legacy
// rows only distinguish done from not-done).
func (l LegacyNote) ToNote(status Status) Note {
	x, y := l.X, l.Y
	if x == 0 {
		x = DefaultX
	}
	if y == 0 {
		y = DefaultY
	}
	return Note{
		ID:        l.ID,
		Title:     "",
		Content:   l.Text,
		X:         x,
		Y:         y,
		Status:    status,
		Username:  l.Username,
		IsPrivate: l.IsPrivate,
		BoardType: l.BoardType,
		Color:     DefaultColor,
	}
}
