package domain

import "time"

// Lead statuses over the lead lifecycle
const (
	LeadStatusNew       = "new"
	LeadStatusProcessed = "processed"
	LeadStatusRejected  = "rejected"
)

// Lead represents a sales inquiry received from one of the source applications
// (morizon, gratka, homsters, ...). The UUID is the external-facing identifier
// and is immutable after creation; downstream CDPs use it as an idempotency key.
type Lead struct {
	ID          int64
	UUID        string
	Application string
	Status      string
	CreatedAt   time.Time
	Customer    Customer
	Property    *LeadProperty
}

// Customer carries the contact data attached to a lead. Email and phone are
// required; names are optional. Multiple leads may reference customers with
// the same email.
type Customer struct {
	ID        int64
	Email     string
	Phone     string
	FirstName string
	LastName  string
}

// LeadProperty describes the property the lead is about. Owned exclusively by
// one lead and removed together with it.
type LeadProperty struct {
	ID            int64
	PropertyID    string
	DevelopmentID string
	PartnerID     string
	PropertyType  string
	Price         string
	Location      string
	City          string
}
