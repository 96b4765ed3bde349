package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveTier(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(30 * 24 * time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name string
		user User
		want Tier
	}{
		{
			name: "free stays free",
			user: User{Tier: TierFree},
			want: TierFree,
		},
		{
			name: "premium with future end date",
			user: User{Tier: TierPremium03, SubscriptionEndDate: &future},
			want: TierPremium03,
		},
		{
			name: "premium expired degrades to free",
			user: User{Tier: TierPremium10, SubscriptionEndDate: &past},
			want: TierFree,
		},
		{
			name: "premium with no end date degrades to free",
			user: User{Tier: TierPremium01},
			want: TierFree,
		},
		{
			name: "end date exactly now still premium",
			user: User{Tier: TierPremium05, SubscriptionEndDate: &now},
			want: TierPremium05,
		},
		{
			name: "empty tier treated as free",
			user: User{},
			want: TierFree,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveTier(&tt.user, now))
		})
	}
}

func TestTierLimits(t *testing.T) {
	assert.Equal(t, Limits{Vehicles: 1, Services: 3, Photos: 0}, TierLimits[TierFree])

	for _, tier := range []Tier{TierPremium01, TierPremium03, TierPremium05, TierPremium10} {
		limits, ok := TierLimits[tier]
		assert.True(t, ok, "missing limits for %s", tier)
		assert.Equal(t, 1, limits.Vehicles)
		assert.Equal(t, UnlimitedServices, limits.Services)
		assert.Greater(t, limits.Photos, 0)
	}

	_, ok := TierLimits[Tier("Enterprise")]
	assert.False(t, ok)
}

func TestVehicleTypeValid(t *testing.T) {
	assert.True(t, VehicleCar.Valid())
	assert.True(t, VehicleMotorcycle.Valid())
	assert.True(t, VehicleTruck.Valid())
	assert.False(t, VehicleType("bicycle").Valid())
	assert.False(t, VehicleType("").Valid())
}
