package dto

import "time"

// CouponRedeemDTO is used for incoming redemption requests.
type CouponRedeemDTO struct {
	Code string `json:"code" validate:"required"`
}

// CouponRedeemResponseDTO reports the subscription state after redemption.
type CouponRedeemResponseDTO struct {
	Tier                string    `json:"tier"`
	SubscriptionEndDate time.Time `json:"subscription_end_date"`
}
