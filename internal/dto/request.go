package dto

// CustomerRequest carries the contact data of a new lead.
type CustomerRequest struct {
	Email     string `json:"email" binding:"required,email" example:"jan.kowalski@example.com"`
	Phone     string `json:"phone" binding:"required" example:"+48123456789"`
	FirstName string `json:"first_name" example:"Jan"`
	LastName  string `json:"last_name" example:"Kowalski"`
}

// PropertyRequest carries the optional property data of a new lead.
type PropertyRequest struct {
	PropertyID    string `json:"property_id" example:"prop-123"`
	DevelopmentID string `json:"development_id" example:"dev-456"`
	PartnerID     string `json:"partner_id" example:"partner-789"`
	PropertyType  string `json:"property_type" example:"apartment"`
	Price         string `json:"price" example:"500000.00"`
	Location      string `json:"location" example:"Mokotów"`
	City          string `json:"city" example:"Warszawa"`
}

// CreateLeadRequest represents a lead submitted by a source application.
type CreateLeadRequest struct {
	UUID        string           `json:"uuid" example:"7f9c24e5-31a7-4e3d-8f1a-0b6d3c2e1a9f"`
	Application string           `json:"application" binding:"required" example:"morizon"`
	Customer    CustomerRequest  `json:"customer" binding:"required"`
	Property    *PropertyRequest `json:"property,omitempty"`
}

// UpdateLeadStatusRequest moves a lead to a new lifecycle status.
type UpdateLeadStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new processed rejected" example:"processed"`
}
