package service

import (
	"context"
	"testing"
	"time"

	"garagelog/internal/model"
	"garagelog/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCouponForTest(repo *fakeCouponRepo, now time.Time) *couponService {
	svc := NewCouponService(repo, zerolog.Nop()).(*couponService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestCouponRedeem(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	coupon := &model.Coupon{ID: "c1", Code: "PROMO30", ValueDays: 30, IsActive: true}

	t.Run("extends from now when no end date", func(t *testing.T) {
		repo := &fakeCouponRepo{coupon: coupon}
		svc := newCouponForTest(repo, now)
		user := &model.User{ID: "u1", Tier: model.TierFree}

		newEnd, err := svc.Redeem(context.Background(), user, "PROMO30")
		require.NoError(t, err)

		assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), newEnd)
		assert.Equal(t, 1, repo.redeemCalls)
		assert.Equal(t, newEnd, repo.redeemedEnd)
	})

	t.Run("stacks on a future end date", func(t *testing.T) {
		repo := &fakeCouponRepo{coupon: coupon}
		svc := newCouponForTest(repo, now)
		end := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
		user := &model.User{ID: "u1", Tier: model.TierPremium01, SubscriptionEndDate: &end}

		newEnd, err := svc.Redeem(context.Background(), user, "PROMO30")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), newEnd)
	})

	t.Run("expired end date extends from now", func(t *testing.T) {
		repo := &fakeCouponRepo{coupon: coupon}
		svc := newCouponForTest(repo, now)
		end := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)
		user := &model.User{ID: "u1", Tier: model.TierPremium01, SubscriptionEndDate: &end}

		newEnd, err := svc.Redeem(context.Background(), user, "PROMO30")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), newEnd)
	})

	t.Run("unknown code", func(t *testing.T) {
		repo := &fakeCouponRepo{coupon: coupon}
		svc := newCouponForTest(repo, now)

		_, err := svc.Redeem(context.Background(), &model.User{ID: "u1"}, "NOPE")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Zero(t, repo.redeemCalls)
	})

	t.Run("inactive coupon reads as not found", func(t *testing.T) {
		inactive := &model.Coupon{ID: "c2", Code: "OLD", ValueDays: 7, IsActive: false}
		repo := &fakeCouponRepo{coupon: inactive}
		svc := newCouponForTest(repo, now)

		_, err := svc.Redeem(context.Background(), &model.User{ID: "u1"}, "OLD")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("second redemption conflicts", func(t *testing.T) {
		repo := &fakeCouponRepo{coupon: coupon, redeemErr: repository.ErrCouponAlreadyUsed}
		svc := newCouponForTest(repo, now)

		_, err := svc.Redeem(context.Background(), &model.User{ID: "u1"}, "PROMO30")
		assert.ErrorIs(t, err, ErrConflict)
	})
}
