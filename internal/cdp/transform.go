package cdp

import (
	"strings"

	"github.com/malyszg/lms-sub001/internal/domain"
)

// Payload transformers. Pure functions: no I/O, deterministic, never fail for
// a structurally valid lead. Each CDP has its own request body shape.

type propertyFields struct {
	PropertyID    string `json:"property_id,omitempty"`
	DevelopmentID string `json:"development_id,omitempty"`
	PartnerID     string `json:"partner_id,omitempty"`
	PropertyType  string `json:"property_type,omitempty"`
	Price         string `json:"price,omitempty"`
	Location      string `json:"location,omitempty"`
	City          string `json:"city,omitempty"`
}

type salesManagoContact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

type salesManagoCustomFields struct {
	LeadUUID        string          `json:"lead_uuid"`
	ApplicationName string          `json:"application_name"`
	Property        *propertyFields `json:"property,omitempty"`
}

type salesManagoPayload struct {
	Contact      salesManagoContact      `json:"contact"`
	Tags         []string                `json:"tags"`
	CustomFields salesManagoCustomFields `json:"customFields"`
}

type murapolClient struct {
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type murapolMetadata struct {
	LeadUUID        string `json:"lead_uuid"`
	ApplicationName string `json:"application_name"`
}

type murapolPayload struct {
	Client     murapolClient   `json:"client"`
	ProjectID  string          `json:"project_id,omitempty"`
	PropertyID string          `json:"property_id,omitempty"`
	Metadata   murapolMetadata `json:"metadata"`
}

type domDevelopmentClient struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

type domDevelopmentPayload struct {
	Client          domDevelopmentClient `json:"client"`
	DevelopmentID   string               `json:"development_id,omitempty"`
	LeadUUID        string               `json:"lead_uuid"`
	ApplicationName string               `json:"application_name"`
	PropertyDetails *propertyFields      `json:"property_details,omitempty"`
}

// PayloadFor builds the request body for the given system.
func PayloadFor(system System, lead *domain.Lead) (any, error) {
	switch system {
	case SalesManago:
		return transformSalesManago(lead), nil
	case Murapol:
		return transformMurapol(lead), nil
	case DomDevelopment:
		return transformDomDevelopment(lead), nil
	default:
		_, err := ParseSystem(string(system))
		return nil, err
	}
}

func transformSalesManago(lead *domain.Lead) salesManagoPayload {
	return salesManagoPayload{
		Contact: salesManagoContact{
			Email: lead.Customer.Email,
			Phone: lead.Customer.Phone,
			Name:  fullName(lead.Customer.FirstName, lead.Customer.LastName),
		},
		Tags: []string{"lead", "lms"},
		CustomFields: salesManagoCustomFields{
			LeadUUID:        lead.UUID,
			ApplicationName: lead.Application,
			// key omitted entirely when the lead carries no property
			Property: propertyOf(lead),
		},
	}
}

func transformMurapol(lead *domain.Lead) murapolPayload {
	payload := murapolPayload{
		Client: murapolClient{
			Email:     lead.Customer.Email,
			Phone:     lead.Customer.Phone,
			FirstName: lead.Customer.FirstName,
			LastName:  lead.Customer.LastName,
		},
		Metadata: murapolMetadata{
			LeadUUID:        lead.UUID,
			ApplicationName: lead.Application,
		},
	}

	// not all applications carry property data; omit rather than error
	if lead.Property != nil {
		payload.ProjectID = lead.Property.DevelopmentID
		payload.PropertyID = lead.Property.PropertyID
	}

	return payload
}

func transformDomDevelopment(lead *domain.Lead) domDevelopmentPayload {
	payload := domDevelopmentPayload{
		Client: domDevelopmentClient{
			Email: lead.Customer.Email,
			Phone: lead.Customer.Phone,
			Name:  fullName(lead.Customer.FirstName, lead.Customer.LastName),
		},
		LeadUUID:        lead.UUID,
		ApplicationName: lead.Application,
		PropertyDetails: propertyOf(lead),
	}

	if lead.Property != nil {
		payload.DevelopmentID = lead.Property.DevelopmentID
	}

	return payload
}

func propertyOf(lead *domain.Lead) *propertyFields {
	if lead.Property == nil {
		return nil
	}
	return &propertyFields{
		PropertyID:    lead.Property.PropertyID,
		DevelopmentID: lead.Property.DevelopmentID,
		PartnerID:     lead.Property.PartnerID,
		PropertyType:  lead.Property.PropertyType,
		Price:         lead.Property.Price,
		Location:      lead.Property.Location,
		City:          lead.Property.City,
	}
}

// fullName joins first and last name with a single space, collapsing
// whitespace when either part is empty.
func fullName(first, last string) string {
	return strings.Join(strings.Fields(first+" "+last), " ")
}
