package dto

import "time"

// MaintenanceCreateDTO is used for incoming maintenance creation requests.
// ServiceDate defaults to the current time when omitted. Images carries
// locators to attach in the same transaction as the insert.
type MaintenanceCreateDTO struct {
	VehicleID         string     `json:"vehicle_id" validate:"required"`
	ServiceType       string     `json:"service_type" validate:"required"`
	Workshop          string     `json:"workshop" validate:"required"`
	Mechanic          *string    `json:"mechanic,omitempty"`
	LaborWarrantyDate *string    `json:"labor_warranty_date,omitempty"`
	LaborCost         *float64   `json:"labor_cost,omitempty"`
	Parts             *string    `json:"parts,omitempty"`
	PartsStore        *string    `json:"parts_store,omitempty"`
	PartsWarrantyDate *string    `json:"parts_warranty_date,omitempty"`
	PartsCost         *float64   `json:"parts_cost,omitempty"`
	ServiceDate       *time.Time `json:"service_date,omitempty"`
	Images            []string   `json:"images,omitempty"`
}

// MaintenanceUpdateDTO is used for partial updates. A nil field keeps the
// stored value; a non-nil Images replaces the attached set.
type MaintenanceUpdateDTO struct {
	ServiceType       *string    `json:"service_type,omitempty"`
	Workshop          *string    `json:"workshop,omitempty"`
	Mechanic          *string    `json:"mechanic,omitempty"`
	LaborWarrantyDate *string    `json:"labor_warranty_date,omitempty"`
	LaborCost         *float64   `json:"labor_cost,omitempty"`
	Parts             *string    `json:"parts,omitempty"`
	PartsStore        *string    `json:"parts_store,omitempty"`
	PartsWarrantyDate *string    `json:"parts_warranty_date,omitempty"`
	PartsCost         *float64   `json:"parts_cost,omitempty"`
	ServiceDate       *time.Time `json:"service_date,omitempty"`
	Images            *[]string  `json:"images,omitempty"`
}

// MaintenanceResponseDTO is returned in API responses for maintenances.
type MaintenanceResponseDTO struct {
	ID                string    `json:"id"`
	VehicleID         string    `json:"vehicle_id"`
	ServiceType       string    `json:"service_type"`
	Workshop          string    `json:"workshop"`
	Mechanic          *string   `json:"mechanic,omitempty"`
	LaborWarrantyDate *string   `json:"labor_warranty_date,omitempty"`
	LaborCost         *float64  `json:"labor_cost,omitempty"`
	Parts             *string   `json:"parts,omitempty"`
	PartsStore        *string   `json:"parts_store,omitempty"`
	PartsWarrantyDate *string   `json:"parts_warranty_date,omitempty"`
	PartsCost         *float64  `json:"parts_cost,omitempty"`
	ServiceDate       time.Time `json:"service_date"`
	CreatedAt         time.Time `json:"created_at"`
	Images            []string  `json:"images"`
}
