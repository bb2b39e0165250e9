package audit

import (
	"context"
	"encoding/json"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Logger records audit events. Implementations are best-effort: none of the
// calls may fail the operation being logged, so nothing returns an error.
type Logger interface {
	LogAPIRequest(ctx context.Context, endpoint, method string, statusCode int, details map[string]any, ipAddress, userAgent, errorMessage string)
	LogLoginAttempt(ctx context.Context, username string, success bool, ipAddress, userAgent string)
	LogLogout(ctx context.Context, userID int64, username, ipAddress, userAgent string)
	LogLeadDeleted(ctx context.Context, leadUUID string, details map[string]any)
	LogCDPDeliverySuccess(ctx context.Context, system, leadUUID string, statusCode int)
	LogCDPDeliveryFailure(ctx context.Context, system, leadUUID string, statusCode int, errorDetail string, terminal bool)
	LogCDPDispatchError(ctx context.Context, leadUUID, errorDetail string)
}

// EventSink is the append-only store audit events end up in.
type EventSink interface {
	Append(ctx context.Context, event *Event) error
}

// EventLogger writes events to a sink. Sink failures are swallowed so that
// observability never breaks the primary flow; the dropped counter keeps the
// loss itself observable.
type EventLogger struct {
	sink    EventSink
	log     *zap.Logger
	dropped atomic.Uint64
}

// NewEventLogger creates a best-effort audit logger over the given sink.
func NewEventLogger(sink EventSink, log *zap.Logger) *EventLogger {
	return &EventLogger{
		sink: sink,
		log:  log,
	}
}

// Dropped returns how many events were lost to sink failures.
func (l *EventLogger) Dropped() uint64 {
	return l.dropped.Load()
}

func (l *EventLogger) LogAPIRequest(ctx context.Context, endpoint, method string, statusCode int, details map[string]any, ipAddress, userAgent, errorMessage string) {
	merged := map[string]any{
		"endpoint":    endpoint,
		"method":      method,
		"status_code": statusCode,
	}
	for k, v := range details {
		merged[k] = v
	}
	if errorMessage != "" {
		merged["error"] = errorMessage
	}

	l.append(ctx, &Event{
		Type:       EventTypeAPIRequest,
		EntityType: "api",
		EntityID:   endpoint,
		Details:    marshalDetails(merged),
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
	})
}

func (l *EventLogger) LogLoginAttempt(ctx context.Context, username string, success bool, ipAddress, userAgent string) {
	l.append(ctx, &Event{
		Type:       EventTypeLoginAttempt,
		EntityType: "user",
		EntityID:   username,
		Details: marshalDetails(map[string]any{
			"username": username,
			"success":  success,
		}),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	})
}

func (l *EventLogger) LogLogout(ctx context.Context, userID int64, username, ipAddress, userAgent string) {
	l.append(ctx, &Event{
		Type:       EventTypeLogout,
		EntityType: "user",
		EntityID:   strconv.FormatInt(userID, 10),
		Details: marshalDetails(map[string]any{
			"user_id":  userID,
			"username": username,
		}),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	})
}

func (l *EventLogger) LogLeadDeleted(ctx context.Context, leadUUID string, details map[string]any) {
	l.append(ctx, &Event{
		Type:       EventTypeLeadDeleted,
		EntityType: "lead",
		EntityID:   leadUUID,
		Details:    marshalDetails(details),
	})
}

func (l *EventLogger) LogCDPDeliverySuccess(ctx context.Context, system, leadUUID string, statusCode int) {
	l.append(ctx, &Event{
		Type:       EventTypeCDPDeliverySuccess,
		EntityType: "lead",
		EntityID:   leadUUID,
		Details: marshalDetails(map[string]any{
			"system":      system,
			"status_code": statusCode,
		}),
	})
}

func (l *EventLogger) LogCDPDeliveryFailure(ctx context.Context, system, leadUUID string, statusCode int, errorDetail string, terminal bool) {
	details := map[string]any{
		"system":   system,
		"error":    errorDetail,
		"terminal": terminal,
	}
	if statusCode != 0 {
		details["status_code"] = statusCode
	}

	l.append(ctx, &Event{
		Type:       EventTypeCDPDeliveryFailure,
		EntityType: "lead",
		EntityID:   leadUUID,
		Details:    marshalDetails(details),
	})
}

func (l *EventLogger) LogCDPDispatchError(ctx context.Context, leadUUID, errorDetail string) {
	l.append(ctx, &Event{
		Type:       EventTypeCDPDeliveryFailure,
		EntityType: "lead",
		EntityID:   leadUUID,
		Details: marshalDetails(map[string]any{
			"error":    errorDetail,
			"terminal": true,
		}),
	})
}

func (l *EventLogger) append(ctx context.Context, event *Event) {
	event.ID = ulid.Make().String()
	event.OccurredAt = time.Now().UTC()

	if err := l.sink.Append(ctx, event); err != nil {
		l.dropped.Add(1)
		l.log.Warn("Dropped audit event",
			zap.String("event_type", event.Type),
			zap.String("entity_id", event.EntityID),
			zap.Error(err))
	}
}

func marshalDetails(details map[string]any) string {
	if len(details) == 0 {
		return "{}"
	}
	data, err := json.Marshal(details)
	if err != nil {
		return "{}"
	}
	return string(data)
}
