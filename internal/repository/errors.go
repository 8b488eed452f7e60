// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios: ErrForbidden means the
// current user is not authorized to touch a resource owned by someone else,
// while the *NotFound values map to HTTP 404 responses.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrUsernameExists is returned when registration hits a taken username.
var ErrUsernameExists = errors.New("username already taken")

// ErrEmailExists is returned when registration hits a taken email address.
var ErrEmailExists = errors.New("email already in use")

// ErrNoteNotFound is returned when a note id matches no row.
var ErrNoteNotFound = errors.New("note not found")

// ErrBoardNotFound is returned when a board id matches no row.
var ErrBoardNotFound = errors.New("board not found")

// ErrInvalidTransition is returned when a status change is not allowed by
// the note lifecycle (e.g. done→deleted without passing through active).
var ErrInvalidTransition = errors.New("invalid status transition")
