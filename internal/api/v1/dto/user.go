package dto

import "time"

// UserSyncDTO is the profile payload sent after identity-provider login.
type UserSyncDTO struct {
	Username   string  `json:"username"`
	Email      string  `json:"email" validate:"required,email"`
	NationalID *string `json:"national_id,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}

// UserResponseDTO is returned in API responses.
type UserResponseDTO struct {
	ID                  string     `json:"id"`
	Username            string     `json:"username"`
	Email               string     `json:"email"`
	NationalID          *string    `json:"national_id,omitempty"`
	Phone               *string    `json:"phone,omitempty"`
	Tier                string     `json:"tier"`
	SubscriptionEndDate *time.Time `json:"subscription_end_date,omitempty"`
	PhotoCount          int        `json:"photo_count"`
	CreatedAt           time.Time  `json:"created_at"`
}

// UserLimitsResponseDTO reports the resolved entitlement and live usage.
type UserLimitsResponseDTO struct {
	Tier          string `json:"tier"`
	EffectiveTier string `json:"effective_tier"`
	MaxVehicles   int    `json:"max_vehicles"`
	MaxServices   int    `json:"max_services"`
	MaxPhotos     int    `json:"max_photos"`
	Vehicles      int    `json:"vehicles"`
	Services      int    `json:"services"`
	Photos        int    `json:"photos"`
}
