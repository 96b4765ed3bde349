package model

import "time"

// VehicleType enumerates the recognized vehicle categories.
type VehicleType string

const (
	VehicleCar        VehicleType = "car"
	VehicleMotorcycle VehicleType = "motorcycle"
	VehicleTruck      VehicleType = "truck"
)

// Valid reports whether t is one of the recognized vehicle types.
func (t VehicleType) Valid() bool {
	switch t {
	case VehicleCar, VehicleMotorcycle, VehicleTruck:
		return true
	}
	return false
}

// Vehicle belongs to exactly one user. Deleting a vehicle cascades to its
// maintenances and their images.
type Vehicle struct {
	ID           string      `db:"id" json:"id"`
	UserID       string      `db:"user_id" json:"user_id"`
	Type         VehicleType `db:"type" json:"type"`
	Brand        string      `db:"brand" json:"brand"`
	Model        string      `db:"model" json:"model"`
	Year         int         `db:"year" json:"year"`
	LicensePlate string      `db:"license_plate" json:"license_plate"`
	Color        string      `db:"color" json:"color"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
}
