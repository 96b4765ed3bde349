package model

import "time"

// Coupon extends a user's subscription by ValueDays when redeemed.
type Coupon struct {
	ID         string    `db:"id" json:"id"`
	Code       string    `db:"code" json:"code"`
	ValueDays  int       `db:"value_days" json:"value_days"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	UsageCount int       `db:"usage_count" json:"usage_count"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// CouponUsage records a single redemption. Rows are append-only and the
// (user, coupon) pair is unique, which is what prevents re-redemption.
type CouponUsage struct {
	ID       string    `db:"id" json:"id"`
	UserID   string    `db:"user_id" json:"user_id"`
	CouponID string    `db:"coupon_id" json:"coupon_id"`
	UsedAt   time.Time `db:"used_at" json:"used_at"`
}
