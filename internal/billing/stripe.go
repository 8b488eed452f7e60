// Package billing wraps the Stripe API behind a small surface the payment
// handlers call.  The wrapper checks configuration before every call so the
// handlers can answer 503 instead of leaking SDK errors when no secret key
// is set.
package billing

import (
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ErrNotConfigured is returned by every operation when the Stripe secret key
// is missing.  Handlers translate it into HTTP 503.
var ErrNotConfigured = errors.New("stripe secret key not configured")

// Stripe is the payment client.  A zero key produces a client whose every
// call fails with ErrNotConfigured.
type Stripe struct {
	api *client.API
}

// NewStripe builds a client for the given secret key.  An empty key is
// allowed; the service then runs in degraded mode.
func NewStripe(secretKey string) *Stripe {
	key := strings.TrimSpace(secretKey)
	s := &Stripe{}
	if key != "" {
		s.api = &client.API{}
		s.api.Init(key, nil)
	}
	return s
}

// Available reports whether a secret key was configured.
func (s *Stripe) Available() bool { return s.api != nil }

// CheckoutSession is the trimmed session shape returned to the frontend.
type CheckoutSession struct {
	ID  string `json:"sessionId"`
	URL string `json:"url"`
}

// CreateCheckoutSession starts a subscription checkout for one unit of the
// given price and returns the hosted page the frontend redirects to.
func (s *Stripe) CreateCheckoutSession(priceID, customerEmail, successURL, cancelURL string) (*CheckoutSession, error) {
	if !s.Available() {
		return nil, ErrNotConfigured
	}
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	if customerEmail != "" {
		params.CustomerEmail = stripe.String(customerEmail)
	}
	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// CreatePortalSession opens the Stripe customer portal for an existing
// customer and returns the portal URL.
func (s *Stripe) CreatePortalSession(customerID, returnURL string) (string, error) {
	if !s.Available() {
		return "", ErrNotConfigured
	}
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	sess, err := s.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

// CreateCustomer registers a Stripe customer for the given account and
// returns its ID.
func (s *Stripe) CreateCustomer(email, username string) (string, error) {
	if !s.Available() {
		return "", ErrNotConfigured
	}
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(username),
	}
	cus, err := s.api.Customers.New(params)
	if err != nil {
		return "", err
	}
	return cus.ID, nil
}

// SubscriptionDetails is the trimmed subscription shape served over the API.
type SubscriptionDetails struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	CurrentPeriodEnd  int64  `json:"currentPeriodEnd"`
	CancelAtPeriodEnd bool   `json:"cancelAtPeriodEnd"`
	CustomerID        string `json:"customerId"`
}

// GetSubscription fetches the current state of a subscription.
func (s *Stripe) GetSubscription(subscriptionID string) (*SubscriptionDetails, error) {
	if !s.Available() {
		return nil, ErrNotConfigured
	}
	sub, err := s.api.Subscriptions.Get(subscriptionID, nil)
	if err != nil {
		return nil, err
	}
	d := &SubscriptionDetails{
		ID:                sub.ID,
		Status:            string(sub.Status),
		CurrentPeriodEnd:  sub.CurrentPeriodEnd,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if sub.Customer != nil {
		d.CustomerID = sub.Customer.ID
	}
	return d, nil
}

// CancelSubscription cancels a subscription immediately and returns its
// final state.
func (s *Stripe) CancelSubscription(subscriptionID string) (*SubscriptionDetails, error) {
	if !s.Available() {
		return nil, ErrNotConfigured
	}
	sub, err := s.api.Subscriptions.Cancel(subscriptionID, nil)
	if err != nil {
		return nil, err
	}
	return &SubscriptionDetails{
		ID:                sub.ID,
		Status:            string(sub.Status),
		CurrentPeriodEnd:  sub.CurrentPeriodEnd,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}, nil
}
