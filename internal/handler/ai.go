package handler

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stickyboard/sticky-board/internal/ai"
	"github.com/stickyboard/sticky-board/internal/broadcast"
	"github.com/stickyboard/sticky-board/internal/middleware"
	"github.com/stickyboard/sticky-board/internal/model"
	"github.com/stickyboard/sticky-board/internal/repository"
)

// defaultStaleDays is the age at which an active note counts as needing
// attention.
const defaultStaleDays = 7

// AIHandler serves the assistant endpoints: local note analysis plus the
// generative Gemini endpoints. The generative ones answer 503 when no API
// key is configured; the local ones always work.
type AIHandler struct {
	Notes  *repository.NoteRepo
	Gemini *ai.Gemini
	Hub    *broadcast.Hub
}

func NewAIHandler(notes *repository.NoteRepo, gemini *ai.Gemini, hub *broadcast.Hub) *AIHandler {
	return &AIHandler{Notes: notes, Gemini: gemini, Hub: hub}
}

func (h *AIHandler) userNotes(c echo.Context) ([]*model.Note, string, error) {
	user := middleware.Username(c)
	if user == "" {
		return nil, "", echo.ErrUnauthorized
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	notes, err := h.Notes.List(ctx, repository.NoteFilter{Username: &user})
	return notes, user, err
}

// CreateNote persists free text from the assistant as a note at a
// randomized placement near the board's default position and broadcasts it.
func (h *AIHandler) CreateNote(c echo.Context) error {
	user := middleware.Username(c)
	if user == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	var req struct {
		Text    string `json:"text"`
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		text = strings.TrimSpace(req.Content)
	}
	if text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text required"})
	}

	n := model.Note{
		Content:  text,
		Username: user,
		X:        model.DefaultX + rand.Intn(200),
		Y:        model.DefaultY + rand.Intn(200),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Notes.Create(ctx, &n); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create note failed"})
	}

	h.Hub.Publish(&n)
	return c.JSON(http.StatusOK, &n)
}

// Scan runs the local analyzer over the caller's notes.
func (h *AIHandler) Scan(c echo.Context) error {
	notes, _, err := h.userNotes(c)
	if errors.Is(err, echo.ErrUnauthorized) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load notes failed"})
	}
	return c.JSON(http.StatusOK, ai.Scan(notes, defaultStaleDays*24*time.Hour))
}

// OldNotes lists the caller's active notes older than daysOld (default 7).
func (h *AIHandler) OldNotes(c echo.Context) error {
	days := defaultStaleDays
	if raw := c.QueryParam("daysOld"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid daysOld"})
		}
		days = n
	}

	notes, _, err := h.userNotes(c)
	if errors.Is(err, echo.ErrUnauthorized) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load notes failed"})
	}
	return c.JSON(http.StatusOK, ai.OldNotes(notes, time.Duration(days)*24*time.Hour))
}

// Suggestions serves the local heuristic suggestions.
func (h *AIHandler) Suggestions(c echo.Context) error {
	notes, _, err := h.userNotes(c)
	if errors.Is(err, echo.ErrUnauthorized) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load notes failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"suggestions": ai.Suggestions(notes)})
}

func noteContext(notes []*model.Note) string {
	var b strings.Builder
	for _, n := range notes {
		b.WriteString("- ")
		b.WriteString(n.Content)
		if n.Done() {
			b.WriteString(" (done)")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// GeminiSuggestions asks the model for suggestions over the caller's notes.
func (h *AIHandler) GeminiSuggestions(c echo.Context) error {
	notes, _, err := h.userNotes(c)
	if errors.Is(err, echo.ErrUnauthorized) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load notes failed"})
	}

	text, err := h.Gemini.SuggestFromNotes(c.Request().Context(), noteContext(notes))
	if errors.Is(err, ai.ErrNotConfigured) {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "ai service not configured"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ai request failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"suggestions": text})
}

// GeminiChat answers a free-form query grounded in the caller's notes.
func (h *AIHandler) GeminiChat(c echo.Context) error {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "query required"})
	}

	notes, _, err := h.userNotes(c)
	if errors.Is(err, echo.ErrUnauthorized) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load notes failed"})
	}

	text, err := h.Gemini.Chat(c.Request().Context(), req.Query, noteContext(notes))
	if errors.Is(err, ai.ErrNotConfigured) {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "ai service not configured"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ai request failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"response": text})
}

// Health reports generative availability and the configured model.
func (h *AIHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Gemini.Status())
}
