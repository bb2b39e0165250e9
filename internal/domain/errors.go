package domain

import "errors"

var (
	// ErrLeadNotFound is returned when no lead exists for the given UUID.
	ErrLeadNotFound = errors.New("lead not found")

	// ErrDuplicateUUID is returned when a lead with the same UUID already exists.
	ErrDuplicateUUID = errors.New("lead with this uuid already exists")

	// ErrInvalidInput is returned for structurally invalid lead data.
	ErrInvalidInput = errors.New("invalid input")
)
