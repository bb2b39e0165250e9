package clickhouse

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/malyszg/lms-sub001/internal/audit"
)

// EventStore is the append-only ClickHouse sink for audit events. Events are
// written once and never updated or deleted here; retention is handled
// elsewhere.
type EventStore struct {
	client *Client
	log    *zap.Logger
}

// NewEventStore creates a ClickHouse-backed audit event store.
func NewEventStore(client *Client, log *zap.Logger) *EventStore {
	return &EventStore{
		client: client,
		log:    log,
	}
}

// InitSchema creates the events table if it does not exist.
func (s *EventStore) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS audit_events (
		id String,
		event_type LowCardinality(String),
		entity_type LowCardinality(String),
		entity_id String,
		occurred_at DateTime64(3),
		details String,
		ip_address String,
		user_agent String
	) ENGINE = MergeTree()
	ORDER BY (occurred_at, id)
	PARTITION BY toYYYYMM(occurred_at)
	SETTINGS index_granularity = 8192
	`

	if err := s.client.Conn().Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create audit_events table: %w", err)
	}

	s.log.Info("ClickHouse audit schema initialized")
	return nil
}

// Append writes one audit event.
func (s *EventStore) Append(ctx context.Context, event *audit.Event) error {
	batch, err := s.client.Conn().PrepareBatch(ctx, "INSERT INTO audit_events")
	if err != nil {
		return fmt.Errorf("failed to prepare audit insert: %w", err)
	}

	err = batch.Append(
		event.ID,
		event.Type,
		event.EntityType,
		event.EntityID,
		event.OccurredAt,
		event.Details,
		event.IPAddress,
		event.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit event: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send audit event: %w", err)
	}

	return nil
}

// Ping checks if the ClickHouse connection is alive.
func (s *EventStore) Ping(ctx context.Context) error {
	return s.client.Conn().Ping(ctx)
}
