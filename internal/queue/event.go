// Package queue defines the note lifecycle events exchanged over the
// message broker and the background consumer that turns them into an
// activity log.
package queue

// NoteEvent is published on every note mutation. It carries enough context
// for downstream consumers to log or trigger analytics without querying the
// primary database.
type NoteEvent struct {
	Action    string `json:"action"` // created, updated, liked, disliked, deleted, status_changed
	NoteID    uint64 `json:"note_id"`
	Username  string `json:"username"`
	BoardType string `json:"board_type"`
	Status    string `json:"status,omitempty"`
	At        string `json:"at"`
}
