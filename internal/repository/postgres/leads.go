package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/malyszg/lms-sub001/internal/domain"
)

const uniqueViolation = "23505"

// LeadRepository implements repository.LeadRepository over Postgres.
type LeadRepository struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// NewLeadRepository creates a Postgres lead repository.
func NewLeadRepository(pool *pgxpool.Pool, log *zap.Logger) *LeadRepository {
	return &LeadRepository{
		pool: pool,
		log:  log,
	}
}

// InitSchema creates the lead tables if they don't exist.
func (r *LeadRepository) InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS customers (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL,
		phone TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS leads (
		id BIGSERIAL PRIMARY KEY,
		uuid TEXT NOT NULL UNIQUE,
		application TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		customer_id BIGINT NOT NULL REFERENCES customers(id)
	);

	CREATE TABLE IF NOT EXISTS lead_properties (
		id BIGSERIAL PRIMARY KEY,
		lead_id BIGINT NOT NULL UNIQUE REFERENCES leads(id) ON DELETE CASCADE,
		property_id TEXT NOT NULL DEFAULT '',
		development_id TEXT NOT NULL DEFAULT '',
		partner_id TEXT NOT NULL DEFAULT '',
		property_type TEXT NOT NULL DEFAULT '',
		price NUMERIC(14,2),
		location TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT ''
	);
	`

	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create lead tables: %w", err)
	}

	r.log.Info("Postgres schema initialized")
	return nil
}

// Insert stores the lead aggregate in one transaction. The customer row is
// inserted first; a duplicate lead UUID maps to domain.ErrDuplicateUUID.
func (r *LeadRepository) Insert(ctx context.Context, lead *domain.Lead) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	err = tx.QueryRow(ctx,
		`INSERT INTO customers (email, phone, first_name, last_name)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		lead.Customer.Email, lead.Customer.Phone, lead.Customer.FirstName, lead.Customer.LastName,
	).Scan(&lead.Customer.ID)
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO leads (uuid, application, status, customer_id)
		 VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		lead.UUID, lead.Application, lead.Status, lead.Customer.ID,
	).Scan(&lead.ID, &lead.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateUUID
		}
		return fmt.Errorf("failed to insert lead: %w", err)
	}

	if lead.Property != nil {
		err = tx.QueryRow(ctx,
			`INSERT INTO lead_properties
			 (lead_id, property_id, development_id, partner_id, property_type, price, location, city)
			 VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::numeric, $7, $8) RETURNING id`,
			lead.ID, lead.Property.PropertyID, lead.Property.DevelopmentID, lead.Property.PartnerID,
			lead.Property.PropertyType, lead.Property.Price, lead.Property.Location, lead.Property.City,
		).Scan(&lead.Property.ID)
		if err != nil {
			return fmt.Errorf("failed to insert lead property: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit lead insert: %w", err)
	}

	return nil
}

// FindByUUID loads the full lead aggregate.
func (r *LeadRepository) FindByUUID(ctx context.Context, uuid string) (*domain.Lead, error) {
	var (
		lead     domain.Lead
		property domain.LeadProperty
		propID   *int64
		price    *string
	)

	row := r.pool.QueryRow(ctx,
		`SELECT l.id, l.uuid, l.application, l.status, l.created_at,
		        c.id, c.email, c.phone, c.first_name, c.last_name,
		        p.id, COALESCE(p.property_id, ''), COALESCE(p.development_id, ''),
		        COALESCE(p.partner_id, ''), COALESCE(p.property_type, ''),
		        p.price::text, COALESCE(p.location, ''), COALESCE(p.city, '')
		 FROM leads l
		 JOIN customers c ON c.id = l.customer_id
		 LEFT JOIN lead_properties p ON p.lead_id = l.id
		 WHERE l.uuid = $1`,
		uuid)

	err := row.Scan(
		&lead.ID, &lead.UUID, &lead.Application, &lead.Status, &lead.CreatedAt,
		&lead.Customer.ID, &lead.Customer.Email, &lead.Customer.Phone,
		&lead.Customer.FirstName, &lead.Customer.LastName,
		&propID, &property.PropertyID, &property.DevelopmentID,
		&property.PartnerID, &property.PropertyType,
		&price, &property.Location, &property.City,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to query lead: %w", err)
	}

	if propID != nil {
		property.ID = *propID
		if price != nil {
			property.Price = *price
		}
		lead.Property = &property
	}

	return &lead, nil
}

// UpdateStatus moves the lead to a new lifecycle status.
func (r *LeadRepository) UpdateStatus(ctx context.Context, uuid, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leads SET status = $2 WHERE uuid = $1`, uuid, status)
	if err != nil {
		return fmt.Errorf("failed to update lead status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}

// Delete removes the lead; the property row cascades.
func (r *LeadRepository) Delete(ctx context.Context, uuid string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE uuid = $1`, uuid)
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}

// Ping checks the database connection.
func (r *LeadRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close releases the pool.
func (r *LeadRepository) Close() {
	r.pool.Close()
}
