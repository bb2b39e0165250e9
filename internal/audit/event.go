package audit

import "time"

// Event types appearing in the audit log.
const (
	EventTypeAPIRequest         = "api_request"
	EventTypeLoginAttempt       = "login_attempt"
	EventTypeLogout             = "logout"
	EventTypeLeadDeleted        = "lead_deleted"
	EventTypeCDPDeliverySuccess = "cdp_delivery_success"
	EventTypeCDPDeliveryFailure = "cdp_delivery_failure"
)

// Event is one append-only audit log entry. Events are never mutated or
// deleted once written.
type Event struct {
	ID         string
	Type       string
	EntityType string
	EntityID   string
	OccurredAt time.Time
	Details    string
	IPAddress  string
	UserAgent  string
}
