package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler serves liveness endpoints.
type HealthHandler struct {
	DB *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{DB: db}
}

// Health reports service and database status.
func (h *HealthHandler) Health(c echo.Context) error {
	dbStatus := "ok"
	if err := h.DB.PingContext(c.Request().Context()); err != nil {
		dbStatus = "down"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":   "ok",
		"database": dbStatus,
	})
}

// Test is a plain diagnostic endpoint.
func (h *HealthHandler) Test(c echo.Context) error {
	return c.String(http.StatusOK, "Sticky board API is running")
}
