package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"garagelog/internal/model"
	"garagelog/internal/repository"

	"github.com/rs/zerolog"
)

// CouponService redeems coupon codes against a user's subscription.
type CouponService interface {
	// Redeem applies the coupon and returns the new subscription end date.
	// The extension stacks on the later of now and the current end date;
	// the stored tier is never changed here.
	Redeem(ctx context.Context, user *model.User, code string) (time.Time, error)
}

type couponService struct {
	repo   repository.CouponRepository
	now    func() time.Time
	logger zerolog.Logger
}

// NewCouponService creates a new CouponService with a scoped logger.
func NewCouponService(repo repository.CouponRepository, logger zerolog.Logger) CouponService {
	return &couponService{
		repo:   repo,
		now:    time.Now,
		logger: logger.With().Str("service", "CouponService").Logger(),
	}
}

func (s *couponService) Redeem(ctx context.Context, user *model.User, code string) (time.Time, error) {
	coupon, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to look up coupon")
		return time.Time{}, err
	}
	if coupon == nil || !coupon.IsActive {
		return time.Time{}, fmt.Errorf("%w: coupon", ErrNotFound)
	}

	now := s.now().UTC()
	base := now
	if user.SubscriptionEndDate != nil && user.SubscriptionEndDate.After(now) {
		base = *user.SubscriptionEndDate
	}
	newEnd := base.AddDate(0, 0, coupon.ValueDays)

	if err := s.repo.Redeem(ctx, user.ID, coupon.ID, newEnd); err != nil {
		if errors.Is(err, repository.ErrCouponAlreadyUsed) {
			return time.Time{}, fmt.Errorf("%w: coupon already used", ErrConflict)
		}
		s.logger.Error().Err(err).Str("user_id", user.ID).Str("coupon_id", coupon.ID).Msg("Failed to redeem coupon")
		return time.Time{}, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("coupon_id", coupon.ID).Int("value_days", coupon.ValueDays).Msg("Coupon redeemed")
	return newEnd, nil
}
