// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/stickyboard/sticky-board/internal/handler"
	"github.com/stickyboard/sticky-board/internal/middleware"
)

// Handlers bundles every handler the route table needs.
type Handlers struct {
	Auth         *handler.AuthHandler
	Registration *handler.RegistrationHandler
	Profile      *handler.ProfileHandler
	Notes        *handler.NoteHandler
	Stream       *handler.StreamHandler
	AI           *handler.AIHandler
	Payments     *handler.PaymentHandler
	Boards       *handler.BoardHandler
	Health       *handler.HealthHandler
}

// Register sets up the full route table. Public listing endpoints run the
// optional-auth middleware so guests pass through while owners are
// recognized; mutating endpoints require a valid token.
func Register(e *echo.Echo, h Handlers, jwtSecret string, listCache echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)
	e.GET("/test", h.Health.Test)

	// Auth surface.
	auth := e.Group("/api/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refreshtoken", h.Auth.Refresh)

	// Registration surface used by the signup form.
	reg := e.Group("/api/registration")
	reg.GET("/check-username/:username", h.Registration.CheckUsername)
	reg.POST("/register", h.Registration.Register)

	e.GET("/api/profile", h.Profile.Get, middleware.JWTAuth(jwtSecret))

	// Notes. Reads are open with optional identity; mutations need a token.
	optional := middleware.OptionalJWTAuth(jwtSecret)
	required := middleware.JWTAuth(jwtSecret)

	notes := e.Group("/api/notes")
	notes.GET("", h.Notes.List, optional, listCache)
	notes.GET("/sse", h.Stream.Stream)
	notes.GET("/by-status", h.Notes.ByStatus, required)
	notes.GET("/profile/:username", h.Notes.ProfileNotes, optional)
	notes.GET("/user/:username", h.Notes.UserNotes, optional)
	notes.GET("/user/:username/private", h.Notes.UserPrivateNotes, required)
	notes.GET("/user/:username/public", h.Notes.UserPublicNotes, optional, listCache)
	notes.GET("/:id", h.Notes.Get, optional)
	notes.POST("", h.Notes.Create, required)
	notes.PUT("/:id", h.Notes.Update, required)
	notes.PATCH("/:id/position", h.Notes.UpdatePosition, required)
	notes.PUT("/:id/done", h.Notes.Done, required)
	notes.PATCH("/:id/status", h.Notes.Status, required)
	notes.POST("/:id/restore", h.Notes.Restore, required)
	notes.PUT("/:id/like", h.Notes.Like, optional)
	notes.PUT("/:id/dislike", h.Notes.Dislike, optional)
	notes.DELETE("/:id", h.Notes.Delete, required)

	// Assistant.
	ai := e.Group("/api/ai")
	ai.GET("/health", h.AI.Health)
	ai.POST("/notes", h.AI.CreateNote, required)
	ai.GET("/scan", h.AI.Scan, required)
	ai.GET("/old-notes", h.AI.OldNotes, required)
	ai.GET("/suggestions", h.AI.Suggestions, required)
	ai.POST("/gemini-chat", h.AI.GeminiChat, required)
	ai.GET("/gemini-suggestions", h.AI.GeminiSuggestions, required)

	// Billing.
	pay := e.Group("/api/payments")
	pay.GET("/tiers", h.Payments.ListTiers)
	pay.POST("/create-checkout-session", h.Payments.CreateCheckoutSession, required)
	pay.POST("/create-portal-session", h.Payments.CreatePortalSession, required)
	pay.POST("/create-customer", h.Payments.CreateCustomer, required)
	pay.GET("/subscription/:id", h.Payments.GetSubscription, required)
	pay.DELETE("/subscription/:id", h.Payments.CancelSubscription, required)

	// Boards.
	board := e.Group("/api/board", required)
	board.GET("", h.Boards.List)
	board.POST("", h.Boards.Create)
	board.GET("/:id", h.Boards.Get)
	board.DELETE("/:id", h.Boards.Delete)
}
