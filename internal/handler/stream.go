package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stickyboard/sticky-board/internal/broadcast"
)

// StreamHandler serves the SSE endpoint that relays board events to
// connected clients.
type StreamHandler struct {
	Hub *broadcast.Hub
}

func NewStreamHandler(hub *broadcast.Hub) *StreamHandler {
	return &StreamHandler{Hub: hub}
}

// Stream subscribes the connection to the hub and writes one SSE frame per
// event, flushing after each. There is no replay: a client sees only events
// published while its connection is open and should re-fetch board state on
// connect. The subscription is torn down when the client disconnects.
func (h *StreamHandler) Stream(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	events, cancel := h.Hub.Subscribe()
	defer cancel()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case payload, ok := <-events:
			if !ok {
				// Dropped by the hub (stalled); the client will reconnect.
				return nil
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
