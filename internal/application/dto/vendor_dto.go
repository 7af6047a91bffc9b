package dto

import "time"

// CreateVendorRequest body para POST /api/vendors.
type CreateVendorRequest struct {
	Name string `json:"name"`
}

// VendorResponse vendor en respuestas.
type VendorResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	DisplayName    string    `json:"display_name"`
	NameNormalized string    `json:"name_normalized"`
	CreatedAt      time.Time `json:"created_at"`
}
