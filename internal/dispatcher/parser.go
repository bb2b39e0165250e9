package dispatcher

import (
	"encoding/json"
	"fmt"

	"github.com/malyszg/lms-sub001/internal/domain"
)

// MessageParser defines the interface for parsing raw message bytes into a
// lead delivery message.
type MessageParser interface {
	Parse(body []byte) (domain.CDPLeadMessage, error)
}

// JSONMessageParser implements MessageParser for JSON-encoded CDPLeadMessage
// bodies.
type JSONMessageParser struct{}

// NewJSONMessageParser creates a new JSON message parser.
func NewJSONMessageParser() *JSONMessageParser {
	return &JSONMessageParser{}
}

// Parse decodes a message body and validates the fields a delivery needs.
func (p *JSONMessageParser) Parse(body []byte) (domain.CDPLeadMessage, error) {
	var msg domain.CDPLeadMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return domain.CDPLeadMessage{}, fmt.Errorf("failed to unmarshal message body: %w", err)
	}

	if msg.LeadUUID == "" {
		return domain.CDPLeadMessage{}, fmt.Errorf("message missing lead_uuid")
	}
	if msg.RetryCount < 0 {
		return domain.CDPLeadMessage{}, fmt.Errorf("message has negative retry_count: %d", msg.RetryCount)
	}

	return msg, nil
}
