package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stickyboard/sticky-board/internal/middleware"
	"github.com/stickyboard/sticky-board/internal/model"
	"github.com/stickyboard/sticky-board/internal/repository"
	"github.com/stickyboard/sticky-board/internal/utils"
)

// boardCodeBytes sizes the random share code (hex-encoded, so 8 chars).
const boardCodeBytes = 4

// BoardHandler implements the authenticated board CRUD.
type BoardHandler struct {
	Boards *repository.BoardRepo
	Users  *repository.UserRepo
}

func NewBoardHandler(boards *repository.BoardRepo, users *repository.UserRepo) *BoardHandler {
	return &BoardHandler{Boards: boards, Users: users}
}

func (h *BoardHandler) caller(c echo.Context, ctx context.Context) (model.User, error) {
	user := middleware.Username(c)
	if user == "" {
		return model.User{}, echo.ErrUnauthorized
	}
	return h.Users.GetByUsername(ctx, user)
}

// List returns the caller's boards.
func (h *BoardHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.caller(c, ctx)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	boards, err := h.Boards.ListByOwner(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list boards failed"})
	}
	return c.JSON(http.StatusOK, boards)
}

// Create inserts a board with a generated share code.
func (h *BoardHandler) Create(c echo.Context) error {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.caller(c, ctx)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	code, err := utils.RandomHex(boardCodeBytes)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate code failed"})
	}
	b := model.Board{Title: req.Title, Code: code, Content: req.Content, OwnerID: u.ID}
	if err := h.Boards.Create(ctx, &b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create board failed"})
	}
	return c.JSON(http.StatusOK, &b)
}

// Get returns one of the caller's boards; foreign boards yield 403.
func (h *BoardHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid board id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.caller(c, ctx)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	b, err := h.Boards.GetByID(ctx, id)
	if errors.Is(err, repository.ErrBoardNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "board not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load board failed"})
	}
	if b.OwnerID != u.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, b)
}

// Delete removes one of the caller's boards.
func (h *BoardHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid board id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.caller(c, ctx)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	err = h.Boards.DeleteByIDAndOwner(ctx, id, u.ID)
	switch {
	case errors.Is(err, repository.ErrBoardNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "board not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete board failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": true, "id": id})
}
