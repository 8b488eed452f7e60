package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stickyboard/sticky-board/internal/repository"
)

// RegistrationHandler serves the standalone registration surface used by the
// signup form: a username availability probe and a register endpoint that
// enforces the confirm-password field.
type RegistrationHandler struct {
	Auth  *AuthHandler
	Users *repository.UserRepo
}

func NewRegistrationHandler(auth *AuthHandler, users *repository.UserRepo) *RegistrationHandler {
	return &RegistrationHandler{Auth: auth, Users: users}
}

// CheckUsername answers a bare boolean: true when the username is taken.
func (h *RegistrationHandler) CheckUsername(c echo.Context) error {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	taken, err := h.Users.ExistsByUsername(ctx, username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check username failed"})
	}
	return c.JSON(http.StatusOK, taken)
}

// Register is the signup-form variant of auth register. The confirm-password
// field is mandatory here.
func (h *RegistrationHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ConfirmPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "confirmPassword required"})
	}
	if req.Password != req.ConfirmPassword {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passwords do not match"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.Create(ctx, req.Username, req.Email, req.Password, h.Auth.Cfg.BcryptCost); err != nil {
		switch err {
		case repository.ErrUsernameExists:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "username already exists"})
		case repository.ErrEmailExists:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	resp, err := h.Auth.issueTokens(ctx, u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, resp)
}
