package dto

import "time"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"customer email is required"`
}

// CustomerResponse mirrors the stored customer data.
type CustomerResponse struct {
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// PropertyResponse mirrors the stored property data.
type PropertyResponse struct {
	PropertyID    string `json:"property_id,omitempty"`
	DevelopmentID string `json:"development_id,omitempty"`
	PartnerID     string `json:"partner_id,omitempty"`
	PropertyType  string `json:"property_type,omitempty"`
	Price         string `json:"price,omitempty"`
	Location      string `json:"location,omitempty"`
	City          string `json:"city,omitempty"`
}

// LeadResponse represents a stored lead.
type LeadResponse struct {
	UUID        string            `json:"uuid"`
	Application string            `json:"application"`
	Status      string            `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	Customer    CustomerResponse  `json:"customer"`
	Property    *PropertyResponse `json:"property,omitempty"`
}
