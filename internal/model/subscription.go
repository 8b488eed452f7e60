package model

// SubscriptionTier is billing plan metadata served to the frontend and
// referenced by the Stripe integration.  It is configuration data: rows are
// seeded by operators, never written by request handlers.
//
// Fields:
//
//	ID            – primary key identifier.
//	Name          – unique tier name (e.g. "Free", "Pro").
//	StripePriceID – external Stripe price identifier used at checkout.
//	Price         – price in the smallest currency unit.
//	Currency      – ISO currency code.
//	Interval      – billing interval ("month" or "year").
//	Features      – newline-separated feature text shown on pricing pages.
//	MaxNotes      – note-count cap for the tier.
//	IsActive      – inactive tiers are hidden from listings.
//	SortOrder     – display ordering.
type SubscriptionTier struct {
	ID            uint64 `json:"id"`
	Name          string `json:"name"`
	StripePriceID string `json:"stripePriceId"`
	Price         int    `json:"price"`
	Currency      string `json:"currency"`
	Interval      string `json:"interval"`
	Features      string `json:"features"`
	MaxNotes      int    `json:"maxNotes"`
	IsActive      bool   `json:"isActive"`
	SortOrder     int    `json:"sortOrder"`
}
