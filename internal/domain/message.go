package domain

// CDPLeadMessage is the queue envelope produced whenever a lead must be
// synchronized with the CDPs. System and RetryCount are set only on scheduled
// retry messages, which target a single CDP system; a first delivery message
// leaves them zero and fans out to every enabled system.
//
// The queue gives at-least-once semantics, so the same message may be
// delivered more than once. Handlers must tolerate replays; downstream CDPs
// deduplicate by lead UUID.
type CDPLeadMessage struct {
	LeadID     int64  `json:"lead_id"`
	LeadUUID   string `json:"lead_uuid"`
	System     string `json:"system,omitempty"`
	RetryCount int    `json:"retry_count,omitempty"`
}

// IsRetry reports whether the message is a scheduled single-system retry.
func (m CDPLeadMessage) IsRetry() bool {
	return m.System != ""
}
