package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stickyboard/sticky-board/internal/broadcast"
	"github.com/stickyboard/sticky-board/internal/config"
	"github.com/stickyboard/sticky-board/internal/middleware"
	"github.com/stickyboard/sticky-board/internal/model"
	"github.com/stickyboard/sticky-board/internal/queue"
	"github.com/stickyboard/sticky-board/internal/repository"
)

// NoteHandler implements the note CRUD and interaction endpoints. Mutations
// are broadcast to streaming clients and published to the event queue; both
// are best-effort and never fail the triggering request.
type NoteHandler struct {
	Cfg    config.Config
	Notes  *repository.NoteRepo
	Legacy *repository.LegacyNoteRepo
	Hub    *broadcast.Hub

	// publish overrides the queue publisher in tests.
	publish func(context.Context, queue.NoteEvent) error
}

func NewNoteHandler(cfg config.Config, notes *repository.NoteRepo, legacy *repository.LegacyNoteRepo, hub *broadcast.Hub) *NoteHandler {
	return &NoteHandler{Cfg: cfg, Notes: notes, Legacy: legacy, Hub: hub}
}

func (h *NoteHandler) publishEvent(action string, n *model.Note) {
	ev := queue.NoteEvent{
		Action:    action,
		NoteID:    n.ID,
		Username:  n.Username,
		BoardType: n.BoardType,
		Status:    string(n.Status),
		At:        time.Now().UTC().Format(time.RFC3339),
	}
	fn := h.publish
	if fn == nil {
		fn = queue.PublishNoteEvent
	}
	go func() { _ = fn(context.Background(), ev) }()
}

// canModify reports whether the caller may mutate the note: the owner always
// can, admins can everything.
func canModify(c echo.Context, n *model.Note) bool {
	user := middleware.Username(c)
	return user != "" && (user == n.Username || middleware.HasRole(c, string(model.RoleAdmin)))
}

func parseID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// List serves the public shared board: non-private notes on the main board,
// newest first, optionally narrowed to one owner. 204 when the board is
// empty.
func (h *NoteHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	notes, err := h.Notes.List(ctx, repository.PublicMain(c.QueryParam("username")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list notes failed"})
	}
	if len(notes) == 0 {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, notes)
}

// Create persists a note owned by the caller, applying the board defaults
// for anything the client left unset.
func (h *NoteHandler) Create(c echo.Context) error {
	user := middleware.Username(c)
	if user == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var n model.Note
	if err := c.Bind(&n); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(n.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content required"})
	}
	n.ID = 0
	n.Username = user
	n.Likes, n.Dislikes = 0, 0

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Notes.Create(ctx, &n); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create note failed"})
	}

	h.Hub.Publish(&n)
	h.publishEvent("created", &n)
	return c.JSON(http.StatusOK, &n)
}

// Get returns one note. Private notes are only visible to their owner.
func (h *NoteHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid note id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Notes.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNoteNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "note not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load note failed"})
	}
	if n.IsPrivate && !canModify(c, n) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, n)
}

type noteUpdateReq struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	X         *int    `json:"x"`
	Y         *int    `json:"y"`
	Color     *string `json:"color"`
	IsPrivate *bool   `json:"isPrivate"`
	BoardType *string `json:"boardType"`
}

// Update rewrites the mutable fields the client sent; omitted fields keep
// their stored values. The updated note is broadcast.
func (h *NoteHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid note id"})
	}
	var req noteUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Notes.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNoteNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "note not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load note failed"})
	}
	if !canModify(c, n) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if req.Title != nil {
		n.Title = *req.Title
	}
	if req.Content != nil {
		n.Content = *req.Content
	}
	if req.X != nil {
		n.X = *req.X
	}
	if req.Y != nil {
		n.Y = *req.Y
	}
	if req.Color != nil {
		n.Color = *req.Color
	}
	if req.IsPrivate != nil {
		n.IsPrivate = *req.IsPrivate
	}
	if req.BoardType != nil {
		if *req.BoardType != model.BoardMain && *req.BoardType != model.BoardProfile {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid boardType"})
		}
		n.BoardType = *req.BoardType
	}

	if err := h.Notes.Update(ctx, n); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update note failed"})
	}
	n, err = h.Notes.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load note failed"})
	}

	h.Hub.Publish(n)
	h.publishEvent("updated", n)
	return c.JSON(http.StatusOK, n)
}

// UpdatePosition moves a note via the x/y query parameters.
func (h *NoteHandler) UpdatePosition(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid note id"})
	}
	x, errX := strconv.Atoi(c.QueryParam("x"))
	y, errY := strconv.Atoi(c.QueryParam("y"))
	if errX != nil || errY != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "x and y required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Notes.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNoteNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "note not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load note failed"})
	}
	if !canModify(c, n) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	n, err = h.Notes.UpdatePosition(ctx, id, x, y)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "move note failed"})
	}

	h.Hub.Publish(n)
	return c.JSON(http.StatusOK, n)
}

// Done marks a note completed.
func (h *NoteHandler) Done(c echo.Context) error {
	return h.transition(c, model.StatusDone)
}

// Status applies an explicit lifecycle transition from the `status` query
// parameter.
func (h *NoteHandler) Status(c echo.Context) error {
	status := c.QueryParam("status")
	if !model.ValidStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	return h.transition(c, model.Status(status))
}

func (h *NoteHandler) transition(c echo.Context, to model.Status) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid note id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Notes.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNoteNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "note not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load note failed"})
	}
	if !canModify(c, n) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	n, err = h.Notes.UpdateStatus(ctx, id, to)
	if errors.Is(err, repository.ErrInvalidTransition) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status transition"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
	}

	// Clients drop deleted notes from the board; everything else is an update.
	if to == model.StatusDeleted {
		h.Hub.PublishDeleted(n.ID)
	} else {
		h.Hub.Publish(n)
	}
	h.publishEvent("status_changed", n)
	return c.JSON(http.StatusOK, n)
}

// Restore brings a note back to active. When the id is unknown to the
// unified table and the legacy fallback is enabled, the pre-migration table
// is tried instead.
func (h *NoteHandler) Restore(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid note id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Notes.GetByID(ctx, id)
	switch {
	case err == nil:
		if !canModify(c, n) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		n, err = h.Notes.UpdateStatus(ctx, id, model.StatusActive)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "restore note failed"})
		}
		h.Hub.Publish(n)
		h.publishEvent("status_changed", n)
		return c.JSON(http.StatusOK, n)

	case errors.Is(err, repository.ErrNoteNotFound) && h.Cfg.LegacyFallback:
		l, err := h.Legacy.Restore(ctx, id)
		if errors.Is(err, repository.ErrNoteNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "note not found"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "restore note failed"})
		}
		restored := l.ToNote(model.StatusActive)
		h.Hub.Publish(&restored)
		h.publishEvent("status_changed", &restored)
		return c.JSON(http.StatusOK, &restored)

	case errors.Is(err, repository.ErrNoteNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "note not found"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load note failed"})
}

// Like increments the like counter and broadcasts the updated note.
func (h *NoteHandler) Like(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid note id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Notes.Like(ctx, id)
	if errors.Is(err, repository.ErrNoteNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "note not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "like note failed"})
	}

	h.Hub.Publish(n)
	h.publishEvent("liked", n)
	return c.JSON(http.StatusOK, n)
}

// Dislike increments the dislike counter. Reaching the configured threshold
// removes the note from the board entirely: the row is hard-deleted and the
// deletion sentinel is broadcast instead of an update.
func (h *NoteHandler) Dislike(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid note id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Notes.Dislike(ctx, id)
	if errors.Is(err, repository.ErrNoteNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "note not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "dislike note failed"})
	}

	if n.Dislikes >= h.Cfg.DislikeThreshold {
		return h.removeDisliked(ctx, c, id, n)
	}

	h.Hub.Publish(n)
	h.publishEvent("disliked", n)
	return c.JSON(http.StatusOK, n)
}

// removeDisliked hard-deletes a note that crossed the dislike threshold. A
// concurrent dislike may have removed the row already; that still counts as
// deleted, but only the request that won the delete broadcasts it.
func (h *NoteHandler) removeDisliked(ctx context.Context, c echo.Context, id uint64, n *model.Note) error {
	switch err := h.Notes.Delete(ctx, id); {
	case err == nil:
		h.Hub.PublishDeleted(id)
		h.publishEvent("deleted", n)
	case !errors.Is(err, repository.ErrNoteNotFound):
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete note failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": true, "id": id})
}

// Delete hard-deletes a note and broadcasts the deletion sentinel.
func (h *NoteHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid note id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Notes.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNoteNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "note not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load note failed"})
	}
	if !canModify(c, n) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Notes.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete note failed"})
	}

	h.Hub.PublishDeleted(id)
	h.publishEvent("deleted", n)
	return c.JSON(http.StatusOK, echo.Map{"deleted": true, "id": id})
}
