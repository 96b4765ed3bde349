package model

import "time"

// MaxImagesPerMaintenance is the hard cap on images attached to a single
// maintenance record, enforced at creation time.
const MaxImagesPerMaintenance = 4

// Maintenance is a service record logged against a vehicle.
type Maintenance struct {
	ID                string    `db:"id" json:"id"`
	VehicleID         string    `db:"vehicle_id" json:"vehicle_id"`
	ServiceType       string    `db:"service_type" json:"service_type"`
	Workshop          string    `db:"workshop" json:"workshop"`
	Mechanic          *string   `db:"mechanic" json:"mechanic,omitempty"`
	LaborWarrantyDate *string   `db:"labor_warranty_date" json:"labor_warranty_date,omitempty"`
	LaborCost         *float64  `db:"labor_cost" json:"labor_cost,omitempty"`
	Parts             *string   `db:"parts" json:"parts,omitempty"`
	PartsStore        *string   `db:"parts_store" json:"parts_store,omitempty"`
	PartsWarrantyDate *string   `db:"parts_warranty_date" json:"parts_warranty_date,omitempty"`
	PartsCost         *float64  `db:"parts_cost" json:"parts_cost,omitempty"`
	ServiceDate       time.Time `db:"service_date" json:"service_date"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`

	// Images holds the attached image locators when the record was loaded
	// with its images.
	Images []MaintenanceImage `db:"-" json:"images,omitempty"`
}

// MaintenanceImage stores the locator of a blob held in external storage.
type MaintenanceImage struct {
	ID            string    `db:"id" json:"id"`
	MaintenanceID string    `db:"maintenance_id" json:"maintenance_id"`
	Locator       string    `db:"locator" json:"locator"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
