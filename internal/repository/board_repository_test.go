package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stickyboard/sticky-board/internal/model"
)

func TestBoardCRUD(t *testing.T) {
	repo := NewBoardRepo(newTestDB(t))
	ctx := context.Background()

	b := model.Board{Title: "ideas", Code: "ab12cd34", Content: "scratch", OwnerID: 1}
	require.NoError(t, repo.Create(ctx, &b))
	assert.NotZero(t, b.ID)

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "ideas", got.Title)
	assert.Equal(t, "ab12cd34", got.Code)

	boards, err := repo.ListByOwner(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, boards, 1)

	require.NoError(t, repo.DeleteByIDAndOwner(ctx, b.ID, 1))
	_, err = repo.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, ErrBoardNotFound)
}

func TestBoardDeleteForeignOwner(t *testing.T) {
	repo := NewBoardRepo(newTestDB(t))
	ctx := context.Background()

	b := model.Board{Title: "ideas", Code: "ab12cd34", OwnerID: 1}
	require.NoError(t, repo.Create(ctx, &b))

	assert.ErrorIs(t, repo.DeleteByIDAndOwner(ctx, b.ID, 2), ErrForbidden)
	assert.ErrorIs(t, repo.DeleteByIDAndOwner(ctx, 999, 1), ErrBoardNotFound)
}

func TestTierListActive(t *testing.T) {
	db := newTestDB(t)
	repo := NewTierRepo(db)

	seed := func(name string, active bool, order int) {
		_, err := db.Exec(
			`INSERT INTO subscription_tiers (name, stripe_price_id, price, currency, billing_interval, features, max_notes, is_active, sort_order)
			 VALUES (?,?,?,?,?,?,?,?,?)`,
			name, "price_"+name, 500, "usd", "month", "feature list", 100, active, order)
		require.NoError(t, err)
	}
	seed("pro", true, 2)
	seed("free", true, 1)
	seed("legacy", false, 0)

	tiers, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	assert.Equal(t, "free", tiers[0].Name)
	assert.Equal(t, "pro", tiers[1].Name)
	assert.Equal(t, "price_pro", tiers[1].StripePriceID)
}
