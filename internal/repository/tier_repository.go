package repository

import (
	"context"
	"database/sql"

	"github.com/stickyboard/sticky-board/internal/model"
)

// TierRepo serves subscription tier configuration rows.  Tiers are seeded by
// operators; request handlers only read them.
type TierRepo struct{ DB *sql.DB }

func NewTierRepo(db *sql.DB) *TierRepo { return &TierRepo{DB: db} }

// ListActive returns all active tiers in display order.
func (r *TierRepo) ListActive(ctx context.Context) ([]*model.SubscriptionTier, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id,name,stripe_price_id,price,currency,billing_interval,features,max_notes,is_active,sort_order
		 FROM subscription_tiers WHERE is_active=? ORDER BY sort_order, id`, true)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.SubscriptionTier
	for rows.Next() {
		t := new(model.SubscriptionTier)
		var features sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &t.StripePriceID, &t.Price, &t.Currency,
			&t.Interval, &features, &t.MaxNotes, &t.IsActive, &t.SortOrder); err != nil {
			return nil, err
		}
		t.Features = features.String
		out = append(out, t)
	}
	return out, rows.Err()
}
