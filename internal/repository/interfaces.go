package repository

import (
	"context"

	"github.com/malyszg/lms-sub001/internal/domain"
)

// LeadRepository defines the interface for lead storage operations.
type LeadRepository interface {
	// Insert stores a lead with its customer and optional property in one
	// transaction. Returns domain.ErrDuplicateUUID when the UUID is taken.
	Insert(ctx context.Context, lead *domain.Lead) error

	// FindByUUID loads a lead aggregate by its external UUID. Returns
	// domain.ErrLeadNotFound when no lead exists.
	FindByUUID(ctx context.Context, uuid string) (*domain.Lead, error)

	// UpdateStatus moves a lead to a new lifecycle status.
	UpdateStatus(ctx context.Context, uuid, status string) error

	// Delete removes a lead; the owned property goes with it.
	Delete(ctx context.Context, uuid string) error

	// InitSchema creates the tables if they don't exist.
	InitSchema(ctx context.Context) error

	// Ping checks if the database connection is alive.
	Ping(ctx context.Context) error

	// Close releases the underlying pool.
	Close()
}
