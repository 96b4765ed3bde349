package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"garagelog/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrCouponAlreadyUsed is returned when the (user, coupon) pair has already
// been redeemed.
var ErrCouponAlreadyUsed = errors.New("coupon_already_used")

// CouponRepository provides access to coupons and their redemptions.
type CouponRepository interface {
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	// Redeem inserts the usage row, increments the coupon's usage_count and
	// moves the user's subscription end date, all in one transaction. The
	// composite unique constraint on (user_id, coupon_id) enforces
	// single-use per user.
	Redeem(ctx context.Context, userID, couponID string, newEnd time.Time) error
}

type couponRepo struct {
	pool *pgxpool.Pool
}

// NewCouponRepo creates a new CouponRepository.
func NewCouponRepo(pool *pgxpool.Pool) CouponRepository {
	return &couponRepo{pool: pool}
}

func (r *couponRepo) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	const q = `
        SELECT id, code, value_days, is_active, usage_count, created_at
        FROM coupons WHERE code = $1
    `
	var c model.Coupon
	err := r.pool.QueryRow(ctx, q, code).Scan(&c.ID, &c.Code, &c.ValueDays, &c.IsActive, &c.UsageCount, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch coupon by code: %w", err)
	}
	return &c, nil
}

func (r *couponRepo) Redeem(ctx context.Context, userID, couponID string, newEnd time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting transaction for coupon redemption: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	const usageQ = `INSERT INTO coupon_usages (user_id, coupon_id) VALUES ($1, $2)`
	if _, err := tx.Exec(ctx, usageQ, userID, couponID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrCouponAlreadyUsed
		}
		return fmt.Errorf("record coupon usage for user %s: %w", userID, err)
	}

	if _, err := tx.Exec(ctx, `UPDATE coupons SET usage_count = usage_count + 1 WHERE id = $1`, couponID); err != nil {
		return fmt.Errorf("increment usage count for coupon %s: %w", couponID, err)
	}

	if _, err := tx.Exec(ctx, `UPDATE users SET subscription_end_date = $2 WHERE id = $1`, userID, newEnd); err != nil {
		return fmt.Errorf("extend subscription for user %s: %w", userID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit coupon redemption for user %s: %w", userID, err)
	}
	return nil
}
