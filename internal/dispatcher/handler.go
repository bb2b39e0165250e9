package dispatcher

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/malyszg/lms-sub001/internal/audit"
	"github.com/malyszg/lms-sub001/internal/cdp"
	"github.com/malyszg/lms-sub001/internal/domain"
	"github.com/malyszg/lms-sub001/internal/repository"
)

// Outcome is the terminal state of handling one delivery message. The handler
// guarantees message completion: there is no outcome that re-raises past the
// handler boundary, so a poison message can never loop. Transient delivery
// failures are retried through the coordinator's own scheduling instead.
type Outcome int

const (
	// OutcomeCompleted means the lead was loaded and delivery ran.
	OutcomeCompleted Outcome = iota

	// OutcomeHandledFailure means the message was consumed but delivery could
	// not run (for example the lead no longer exists). Logged, not retried.
	OutcomeHandledFailure
)

// LeadDeliverer runs delivery of one lead across the configured CDP systems.
type LeadDeliverer interface {
	DeliverLead(ctx context.Context, lead *domain.Lead, msg domain.CDPLeadMessage) []cdp.SystemOutcome
}

// Handler is the dispatch stage of the consumer pipeline: it loads the lead
// behind each message and hands it to the delivery coordinator.
type Handler struct {
	leads       repository.LeadRepository
	coordinator LeadDeliverer
	audit       audit.Logger
	log         *zap.Logger
}

// NewHandler creates a dispatch handler.
func NewHandler(leads repository.LeadRepository, coordinator LeadDeliverer, auditLog audit.Logger, log *zap.Logger) *Handler {
	return &Handler{
		leads:       leads,
		coordinator: coordinator,
		audit:       auditLog,
		log:         log,
	}
}

// Start consumes envelopes until the context is canceled or the input channel
// closes. Every envelope is acknowledged regardless of outcome.
func (h *Handler) Start(ctx context.Context, in <-chan *Envelope) {
	for {
		select {
		case <-ctx.Done():
			h.log.Info("Dispatch handler shutting down")
			return
		case envelope, ok := <-in:
			if !ok {
				h.log.Info("Dispatch handler input channel closed")
				return
			}

			h.Handle(ctx, envelope.Message)

			if err := envelope.Ack(ctx); err != nil {
				h.log.Error("Failed to ack lead message",
					zap.String("lead_uuid", envelope.Message.LeadUUID),
					zap.Error(err))
			}
		}
	}
}

// Handle processes one delivery message to completion. Safe to replay: the
// lead lookup is read-only and downstream CDPs deduplicate by lead UUID.
func (h *Handler) Handle(ctx context.Context, msg domain.CDPLeadMessage) Outcome {
	lead, err := h.leads.FindByUUID(ctx, msg.LeadUUID)
	if err != nil {
		if errors.Is(err, domain.ErrLeadNotFound) {
			h.log.Warn("Lead for delivery message not found, dropping message",
				zap.String("lead_uuid", msg.LeadUUID),
				zap.Int64("lead_id", msg.LeadID))
		} else {
			h.log.Error("Failed to load lead for delivery",
				zap.String("lead_uuid", msg.LeadUUID),
				zap.Error(err))
		}
		h.audit.LogCDPDispatchError(ctx, msg.LeadUUID, err.Error())
		return OutcomeHandledFailure
	}

	outcomes := h.coordinator.DeliverLead(ctx, lead, msg)

	delivered := 0
	for _, o := range outcomes {
		if o.Delivered {
			delivered++
		}
	}
	h.log.Info("Lead delivery message processed",
		zap.String("lead_uuid", msg.LeadUUID),
		zap.Int("systems_attempted", len(outcomes)),
		zap.Int("systems_delivered", delivered))

	return OutcomeCompleted
}
