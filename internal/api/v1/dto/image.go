package dto

import "time"

// ImageUploadDTO carries a base64 data-URI image payload.
type ImageUploadDTO struct {
	Image string `json:"image" validate:"required"`
}

// ImageResponseDTO is returned after an image is attached.
type ImageResponseDTO struct {
	ID            string    `json:"id"`
	MaintenanceID string    `json:"maintenance_id"`
	Locator       string    `json:"locator"`
	CreatedAt     time.Time `json:"created_at"`
}
