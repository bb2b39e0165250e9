package service

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/malyszg/lms-sub001/internal/audit"
	"github.com/malyszg/lms-sub001/internal/domain"
	"github.com/malyszg/lms-sub001/internal/dto"
	"github.com/malyszg/lms-sub001/internal/queue"
	"github.com/malyszg/lms-sub001/internal/repository"
)

// LeadService persists leads and enqueues CDP delivery messages.
type LeadService struct {
	leads     repository.LeadRepository
	publisher queue.QueuePublisher
	audit     audit.Logger
	log       *zap.Logger
}

// NewLeadService creates a new lead service.
func NewLeadService(leads repository.LeadRepository, publisher queue.QueuePublisher, auditLog audit.Logger, log *zap.Logger) *LeadService {
	return &LeadService{
		leads:     leads,
		publisher: publisher,
		audit:     auditLog,
		log:       log,
	}
}

// CreateLead validates and stores a new lead, then enqueues a CDP delivery
// message. The enqueue is best-effort relative to the insert: a queue outage
// must not lose the lead, so the failure is logged and the lead returned.
func (s *LeadService) CreateLead(ctx context.Context, req *dto.CreateLeadRequest) (*domain.Lead, error) {
	if req.Customer.Email == "" || req.Customer.Phone == "" {
		return nil, fmt.Errorf("%w: customer email and phone are required", domain.ErrInvalidInput)
	}
	if req.Application == "" {
		return nil, fmt.Errorf("%w: application is required", domain.ErrInvalidInput)
	}

	leadUUID := req.UUID
	if leadUUID == "" {
		leadUUID = ulid.Make().String()
	}

	lead := &domain.Lead{
		UUID:        leadUUID,
		Application: req.Application,
		Status:      domain.LeadStatusNew,
		Customer: domain.Customer{
			Email:     req.Customer.Email,
			Phone:     req.Customer.Phone,
			FirstName: req.Customer.FirstName,
			LastName:  req.Customer.LastName,
		},
	}
	if req.Property != nil {
		lead.Property = &domain.LeadProperty{
			PropertyID:    req.Property.PropertyID,
			DevelopmentID: req.Property.DevelopmentID,
			PartnerID:     req.Property.PartnerID,
			PropertyType:  req.Property.PropertyType,
			Price:         req.Property.Price,
			Location:      req.Property.Location,
			City:          req.Property.City,
		}
	}

	if err := s.leads.Insert(ctx, lead); err != nil {
		return nil, err
	}

	s.log.Info("Lead created",
		zap.String("lead_uuid", lead.UUID),
		zap.String("application", lead.Application))

	s.enqueueDelivery(ctx, lead)

	return lead, nil
}

// GetLead loads a lead by UUID.
func (s *LeadService) GetLead(ctx context.Context, uuid string) (*domain.Lead, error) {
	return s.leads.FindByUUID(ctx, uuid)
}

// UpdateLeadStatus moves a lead to a new status and re-enqueues delivery so
// the CDPs see the update.
func (s *LeadService) UpdateLeadStatus(ctx context.Context, uuid, status string) (*domain.Lead, error) {
	if err := s.leads.UpdateStatus(ctx, uuid, status); err != nil {
		return nil, err
	}

	lead, err := s.leads.FindByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}

	s.enqueueDelivery(ctx, lead)

	return lead, nil
}

// DeleteLead removes a lead and audits the deletion.
func (s *LeadService) DeleteLead(ctx context.Context, uuid string) error {
	lead, err := s.leads.FindByUUID(ctx, uuid)
	if err != nil {
		return err
	}

	if err := s.leads.Delete(ctx, uuid); err != nil {
		return err
	}

	s.audit.LogLeadDeleted(ctx, uuid, map[string]any{
		"application": lead.Application,
		"status":      lead.Status,
	})
	s.log.Info("Lead deleted", zap.String("lead_uuid", uuid))

	return nil
}

func (s *LeadService) enqueueDelivery(ctx context.Context, lead *domain.Lead) {
	msg := domain.CDPLeadMessage{
		LeadID:   lead.ID,
		LeadUUID: lead.UUID,
	}
	if err := s.publisher.PublishLeadMessage(ctx, msg); err != nil {
		s.log.Error("Failed to enqueue CDP delivery message",
			zap.String("lead_uuid", lead.UUID),
			zap.Error(err))
	}
}
