package dispatcher

import (
	"context"

	"github.com/malyszg/lms-sub001/internal/domain"
)

// Envelope wraps a lead delivery message with acknowledgment callbacks.
type Envelope struct {
	Message domain.CDPLeadMessage
	ack     func(context.Context) error
	nack    func(context.Context) error
}

// NewEnvelope creates a new message envelope.
func NewEnvelope(msg domain.CDPLeadMessage, ack, nack func(context.Context) error) *Envelope {
	return &Envelope{
		Message: msg,
		ack:     ack,
		nack:    nack,
	}
}

// Ack acknowledges successful processing.
func (e *Envelope) Ack(ctx context.Context) error {
	if e.ack != nil {
		return e.ack(ctx)
	}
	return nil
}

// Nack negatively acknowledges processing.
func (e *Envelope) Nack(ctx context.Context) error {
	if e.nack != nil {
		return e.nack(ctx)
	}
	return nil
}
