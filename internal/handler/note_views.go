package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stickyboard/sticky-board/internal/middleware"
	"github.com/stickyboard/sticky-board/internal/model"
	"github.com/stickyboard/sticky-board/internal/repository"
)

// Listing views over the unified notes table: the by-status filter and the
// per-user / profile-board views. All of them apply one conjunctive filter
// in SQL; privacy narrows to public rows unless the caller is the owner.

// ByStatus lists the caller's notes in one lifecycle state, optionally
// narrowed to a board. When the unified table has nothing and the legacy
// fallback is enabled, the pre-migration table is consulted with the
// equivalent done-flag filter.
func (h *NoteHandler) ByStatus(c echo.Context) error {
	user := middleware.Username(c)
	if user == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	rawStatus := c.QueryParam("status")
	if !model.ValidStatus(rawStatus) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	status := model.Status(rawStatus)
	boardType := c.QueryParam("boardType")

	f := repository.NoteFilter{Username: &user, Status: &status}
	if boardType != "" && boardType != "all" {
		if boardType != model.BoardMain && boardType != model.BoardProfile {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid boardType"})
		}
		f.BoardType = &boardType
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	notes, err := h.Notes.List(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list notes failed"})
	}

	// Deleted has no pre-migration equivalent; the old table only knows done.
	if len(notes) == 0 && h.Cfg.LegacyFallback && status != model.StatusDeleted {
		legacy, err := h.Legacy.ListByOwnerAndDone(ctx, user, status == model.StatusDone, boardType)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list notes failed"})
		}
		for _, l := range legacy {
			n := l.ToNote(status)
			notes = append(notes, &n)
		}
	}

	if len(notes) == 0 {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, notes)
}

// ProfileNotes lists a user's profile board. Private rows are only served
// to the owner; the isPrivate query parameter narrows further.
func (h *NoteHandler) ProfileNotes(c echo.Context) error {
	owner := c.Param("username")
	caller := middleware.Username(c)
	isOwner := caller != "" && caller == owner

	board := model.BoardProfile
	f := repository.NoteFilter{Username: &owner, BoardType: &board}

	if raw := c.QueryParam("isPrivate"); raw != "" {
		private, err := strconv.ParseBool(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid isPrivate"})
		}
		if private && !isOwner {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		f.Private = &private
	} else if !isOwner {
		public := false
		f.Private = &public
	}

	return h.listFiltered(c, f)
}

// UserNotes lists everything a user owns across both boards, restricted to
// public rows for anyone but the owner.
func (h *NoteHandler) UserNotes(c echo.Context) error {
	owner := c.Param("username")
	f := repository.NoteFilter{Username: &owner}
	if caller := middleware.Username(c); caller != owner {
		public := false
		f.Private = &public
	}
	return h.listFiltered(c, f)
}

// UserPrivateNotes lists a user's private notes; owner only.
func (h *NoteHandler) UserPrivateNotes(c echo.Context) error {
	owner := c.Param("username")
	if middleware.Username(c) != owner {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	private := true
	return h.listFiltered(c, repository.NoteFilter{Username: &owner, Private: &private})
}

// UserPublicNotes lists a user's public notes.
func (h *NoteHandler) UserPublicNotes(c echo.Context) error {
	owner := c.Param("username")
	public := false
	return h.listFiltered(c, repository.NoteFilter{Username: &owner, Private: &public})
}

func (h *NoteHandler) listFiltered(c echo.Context, f repository.NoteFilter) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	notes, err := h.Notes.List(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list notes failed"})
	}
	if len(notes) == 0 {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, notes)
}
