package service

import (
	"context"

	"github.com/malyszg/lms-sub001/internal/domain"
	"github.com/malyszg/lms-sub001/internal/dto"
)

// LeadServicer defines the interface for lead operations.
type LeadServicer interface {
	CreateLead(ctx context.Context, req *dto.CreateLeadRequest) (*domain.Lead, error)
	GetLead(ctx context.Context, uuid string) (*domain.Lead, error)
	UpdateLeadStatus(ctx context.Context, uuid, status string) (*domain.Lead, error)
	DeleteLead(ctx context.Context, uuid string) error
}
