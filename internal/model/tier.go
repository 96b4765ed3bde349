package model

import "time"

// Tier names a subscription level. The stored tier is what the user bought;
// the effective tier additionally accounts for subscription expiry.
type Tier string

const (
	TierFree      Tier = "Free"
	TierPremium01 Tier = "Premium_01"
	TierPremium03 Tier = "Premium_03"
	TierPremium05 Tier = "Premium_05"
	TierPremium10 Tier = "Premium_10"
)

// UnlimitedServices marks a tier without a service-record ceiling.
const UnlimitedServices = -1

// Limits is the entitlement envelope of a tier.
type Limits struct {
	Vehicles int `json:"vehicles"`
	Services int `json:"services"`
	Photos   int `json:"photos"`
}

// TierLimits maps each known tier to its envelope. Tiers absent from this
// table are denied everything.
var TierLimits = map[Tier]Limits{
	TierFree:      {Vehicles: 1, Services: 3, Photos: 0},
	TierPremium01: {Vehicles: 1, Services: UnlimitedServices, Photos: 10},
	TierPremium03: {Vehicles: 1, Services: UnlimitedServices, Photos: 30},
	TierPremium05: {Vehicles: 1, Services: UnlimitedServices, Photos: 50},
	TierPremium10: {Vehicles: 1, Services: UnlimitedServices, Photos: 100},
}

// EffectiveTier resolves the tier to enforce for u at the given instant. A
// paid tier with no end date or an end date in the past degrades to Free;
// the stored tier is left untouched.
func EffectiveTier(u *User, now time.Time) Tier {
	if u.Tier == TierFree || u.Tier == "" {
		return TierFree
	}
	if u.SubscriptionEndDate == nil || u.SubscriptionEndDate.Before(now) {
		return TierFree
	}
	return u.Tier
}
