package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnconfiguredClientRejectsEveryCall(t *testing.T) {
	s := NewStripe("")
	assert.False(t, s.Available())

	_, err := s.CreateCheckoutSession("price_123", "a@b.com", "https://x/ok", "https://x/no")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = s.CreatePortalSession("cus_123", "https://x")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = s.CreateCustomer("a@b.com", "alice")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = s.GetSubscription("sub_123")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = s.CancelSubscription("sub_123")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestWhitespaceKeyCountsAsUnconfigured(t *testing.T) {
	assert.False(t, NewStripe("   ").Available())
	assert.True(t, NewStripe("sk_test_123").Available())
}
