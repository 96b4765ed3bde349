package dto

import "time"

// VehicleCreateDTO is used for incoming vehicle creation requests.
type VehicleCreateDTO struct {
	Type         string `json:"type" validate:"required"`
	Brand        string `json:"brand" validate:"required"`
	Model        string `json:"model" validate:"required"`
	Year         int    `json:"year" validate:"required"`
	LicensePlate string `json:"license_plate" validate:"required"`
	Color        string `json:"color"`
}

// VehicleResponseDTO is returned in API responses for vehicles.
type VehicleResponseDTO struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	LicensePlate string    `json:"license_plate"`
	Color        string    `json:"color"`
	CreatedAt    time.Time `json:"created_at"`
}
