package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stickyboard/sticky-board/internal/billing"
	"github.com/stickyboard/sticky-board/internal/middleware"
	"github.com/stickyboard/sticky-board/internal/repository"
)

// PaymentHandler serves the subscription billing endpoints. Everything that
// talks to Stripe answers 503 when no secret key is configured; the tier
// listing is plain database configuration and always works.
type PaymentHandler struct {
	Stripe *billing.Stripe
	Tiers  *repository.TierRepo
	Users  *repository.UserRepo
}

func NewPaymentHandler(s *billing.Stripe, tiers *repository.TierRepo, users *repository.UserRepo) *PaymentHandler {
	return &PaymentHandler{Stripe: s, Tiers: tiers, Users: users}
}

func notConfigured(c echo.Context) error {
	return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "payment service not configured"})
}

// ListTiers returns the active subscription tiers in display order.
func (h *PaymentHandler) ListTiers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tiers, err := h.Tiers.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list tiers failed"})
	}
	return c.JSON(http.StatusOK, tiers)
}

// CreateCheckoutSession starts a subscription checkout for the caller.
func (h *PaymentHandler) CreateCheckoutSession(c echo.Context) error {
	var req struct {
		PriceID    string `json:"priceId"`
		SuccessURL string `json:"successUrl"`
		CancelURL  string `json:"cancelUrl"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.PriceID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "priceId required"})
	}

	email := ""
	if user := middleware.Username(c); user != "" {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if u, err := h.Users.GetByUsername(ctx, user); err == nil {
			email = u.Email
		}
	}

	sess, err := h.Stripe.CreateCheckoutSession(req.PriceID, email, req.SuccessURL, req.CancelURL)
	if errors.Is(err, billing.ErrNotConfigured) {
		return notConfigured(c)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create checkout session failed"})
	}
	return c.JSON(http.StatusOK, sess)
}

// CreatePortalSession opens the Stripe customer portal.
func (h *PaymentHandler) CreatePortalSession(c echo.Context) error {
	var req struct {
		CustomerID string `json:"customerId"`
		ReturnURL  string `json:"returnUrl"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.CustomerID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customerId required"})
	}

	url, err := h.Stripe.CreatePortalSession(req.CustomerID, req.ReturnURL)
	if errors.Is(err, billing.ErrNotConfigured) {
		return notConfigured(c)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create portal session failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"url": url})
}

// CreateCustomer registers the caller as a Stripe customer.
func (h *PaymentHandler) CreateCustomer(c echo.Context) error {
	user := middleware.Username(c)
	if user == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	id, err := h.Stripe.CreateCustomer(u.Email, u.Username)
	if errors.Is(err, billing.ErrNotConfigured) {
		return notConfigured(c)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create customer failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"customerId": id})
}

// GetSubscription returns the state of a subscription.
func (h *PaymentHandler) GetSubscription(c echo.Context) error {
	id := c.Param("id")
	sub, err := h.Stripe.GetSubscription(id)
	if errors.Is(err, billing.ErrNotConfigured) {
		return notConfigured(c)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load subscription failed"})
	}
	return c.JSON(http.StatusOK, sub)
}

// CancelSubscription cancels a subscription immediately.
func (h *PaymentHandler) CancelSubscription(c echo.Context) error {
	id := c.Param("id")
	sub, err := h.Stripe.CancelSubscription(id)
	if errors.Is(err, billing.ErrNotConfigured) {
		return notConfigured(c)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel subscription failed"})
	}
	return c.JSON(http.StatusOK, sub)
}
