package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stickyboard/sticky-board/internal/middleware"
	"github.com/stickyboard/sticky-board/internal/repository"
)

// ProfileHandler serves the authenticated user's own profile.
type ProfileHandler struct {
	Users *repository.UserRepo
	Notes *repository.NoteRepo
}

func NewProfileHandler(users *repository.UserRepo, notes *repository.NoteRepo) *ProfileHandler {
	return &ProfileHandler{Users: users, Notes: notes}
}

// Get returns the caller's account record together with their note count.
func (h *ProfileHandler) Get(c echo.Context) error {
	username := middleware.Username(c)
	if username == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}

	count, err := h.Notes.CountByUsername(ctx, username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count notes failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":        u.ID,
		"username":  u.Username,
		"email":     u.Email,
		"roles":     roleStrings(u.Roles),
		"noteCount": count,
		"createdAt": u.CreatedAt,
	})
}
