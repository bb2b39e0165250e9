package cdp

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/malyszg/lms-sub001/internal/audit"
	"github.com/malyszg/lms-sub001/internal/domain"
)

// RetryScheduler re-enqueues a delivery message for a later attempt.
// Implemented by the SQS publisher via delayed messages.
type RetryScheduler interface {
	PublishRetry(ctx context.Context, msg domain.CDPLeadMessage, delay time.Duration) error
}

// SystemOutcome is the per-system result of one coordinator invocation.
type SystemOutcome struct {
	System         System
	Delivered      bool
	StatusCode     int
	ErrorDetail    string
	RetryScheduled bool
	Terminal       bool
}

// Coordinator delivers one lead to every enabled CDP system. Systems are
// independent: a failure on one never blocks the others, and there is no
// batch rollback. Failed attempts are rescheduled with exponential backoff
// until the system's retry ceiling, except for permanent (4xx) failures,
// which stop immediately.
type Coordinator struct {
	registry  *Registry
	caller    Caller
	scheduler RetryScheduler
	audit     audit.Logger
	log       *zap.Logger
}

// NewCoordinator creates a delivery coordinator.
func NewCoordinator(registry *Registry, caller Caller, scheduler RetryScheduler, auditLog audit.Logger, log *zap.Logger) *Coordinator {
	return &Coordinator{
		registry:  registry,
		caller:    caller,
		scheduler: scheduler,
		audit:     auditLog,
		log:       log,
	}
}

// DeliverLead runs delivery for the message. A first delivery fans out to all
// enabled systems; a retry message targets only the system it was scheduled
// for. Always returns the per-system outcomes, never an error.
func (c *Coordinator) DeliverLead(ctx context.Context, lead *domain.Lead, msg domain.CDPLeadMessage) []SystemOutcome {
	systems := c.targetSystems(msg)

	outcomes := make([]SystemOutcome, 0, len(systems))
	for _, sys := range systems {
		outcomes = append(outcomes, c.deliverToSystem(ctx, sys, lead, msg))
	}
	return outcomes
}

func (c *Coordinator) targetSystems(msg domain.CDPLeadMessage) []System {
	if !msg.IsRetry() {
		return c.registry.EnabledSystems()
	}

	sys, err := ParseSystem(msg.System)
	if err != nil {
		c.log.Error("Retry message targets unknown system",
			zap.String("system", msg.System),
			zap.String("lead_uuid", msg.LeadUUID))
		return nil
	}

	enabled, err := c.registry.IsEnabled(sys)
	if err != nil || !enabled {
		// system was switched off between the failure and the retry
		c.log.Warn("Retry message targets disabled system",
			zap.String("system", msg.System),
			zap.String("lead_uuid", msg.LeadUUID))
		return nil
	}

	return []System{sys}
}

func (c *Coordinator) deliverToSystem(ctx context.Context, sys System, lead *domain.Lead, msg domain.CDPLeadMessage) SystemOutcome {
	outcome := SystemOutcome{System: sys}

	cfg, err := c.registry.Config(sys)
	if err != nil {
		outcome.ErrorDetail = err.Error()
		outcome.Terminal = true
		return outcome
	}

	payload, err := PayloadFor(sys, lead)
	if err != nil {
		outcome.ErrorDetail = err.Error()
		outcome.Terminal = true
		return outcome
	}

	result, callErr := c.caller.Deliver(ctx, cfg, payload)

	if callErr == nil && result.OK() {
		outcome.Delivered = true
		outcome.StatusCode = result.StatusCode
		c.audit.LogCDPDeliverySuccess(ctx, string(sys), lead.UUID, result.StatusCode)
		c.log.Info("Lead delivered to CDP",
			zap.String("system", string(sys)),
			zap.String("lead_uuid", lead.UUID),
			zap.Int("status_code", result.StatusCode))
		return outcome
	}

	outcome.StatusCode = result.StatusCode
	outcome.ErrorDetail = failureDetail(result, callErr)

	class := ClassifyFailure(result.StatusCode, callErr)
	retriesLeft := msg.RetryCount < cfg.Retry.MaxRetries

	if class == FailureTransient && retriesLeft {
		if c.scheduleRetry(ctx, sys, cfg.Retry, lead, msg) {
			outcome.RetryScheduled = true
		} else {
			outcome.Terminal = true
		}
	} else {
		outcome.Terminal = true
	}

	c.audit.LogCDPDeliveryFailure(ctx, string(sys), lead.UUID, result.StatusCode, outcome.ErrorDetail, outcome.Terminal)
	c.log.Warn("Lead delivery to CDP failed",
		zap.String("system", string(sys)),
		zap.String("lead_uuid", lead.UUID),
		zap.Int("status_code", result.StatusCode),
		zap.Int("retry_count", msg.RetryCount),
		zap.Bool("retry_scheduled", outcome.RetryScheduled),
		zap.Bool("terminal", outcome.Terminal),
		zap.String("error", outcome.ErrorDetail))

	return outcome
}

// scheduleRetry computes the next attempt time and re-enqueues a delayed
// single-system message. Reports whether the retry was actually scheduled.
func (c *Coordinator) scheduleRetry(ctx context.Context, sys System, policy RetryPolicy, lead *domain.Lead, msg domain.CDPLeadMessage) bool {
	nextAt, err := NextRetryFromPolicy(msg.RetryCount, policy)
	if err != nil {
		c.log.Error("Failed to compute retry time",
			zap.String("system", string(sys)),
			zap.String("lead_uuid", lead.UUID),
			zap.Error(err))
		return false
	}

	retryMsg := domain.CDPLeadMessage{
		LeadID:     msg.LeadID,
		LeadUUID:   msg.LeadUUID,
		System:     string(sys),
		RetryCount: msg.RetryCount + 1,
	}

	if err := c.scheduler.PublishRetry(ctx, retryMsg, time.Until(nextAt)); err != nil {
		c.log.Error("Failed to schedule retry",
			zap.String("system", string(sys)),
			zap.String("lead_uuid", lead.UUID),
			zap.Error(err))
		return false
	}

	return true
}

func failureDetail(result CallResult, callErr error) string {
	if callErr != nil {
		return callErr.Error()
	}
	if result.Body != "" {
		return result.Body
	}
	return "unexpected response status"
}
