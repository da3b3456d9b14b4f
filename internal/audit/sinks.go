package audit

import (
	"context"

	"go.uber.org/zap"
	"notify-gate.backend/internal/domain/entities"
	"notify-gate.backend/internal/domain/repositories"
	"notify-gate.backend/pkg/logger"
)

// LogHandler writes audit events to the structured log.
type LogHandler struct{}

func NewLogHandler() *LogHandler {
	return &LogHandler{}
}

func (h *LogHandler) Name() string {
	return "log"
}

func (h *LogHandler) Handle(ctx context.Context, event *entities.AuditEvent) error {
	fields := []zap.Field{
		zap.String("event_type", string(event.EventType)),
		zap.String("ip_address", event.IPAddress),
		zap.String("endpoint", event.Endpoint),
	}
	if event.Fingerprint != "" {
		fields = append(fields, zap.String("fingerprint", event.Fingerprint))
	}
	if event.ApiKeyID != nil {
		fields = append(fields, zap.String("api_key_id", event.ApiKeyID.String()))
	}
	if event.OrganizationID != nil {
		fields = append(fields, zap.String("organization_id", event.OrganizationID.String()))
	}
	for k, v := range event.Metadata {
		fields = append(fields, zap.String("meta_"+k, v))
	}

	switch event.EventType {
	case entities.AuditAuthSuspiciousActivity, entities.AuditAuthDegraded, entities.AuditAuthError:
		logger.Warn(ctx, event.Message, fields...)
	default:
		logger.Info(ctx, event.Message, fields...)
	}
	return nil
}

// DBHandler persists audit events through the append-only repository.
type DBHandler struct {
	repo repositories.AuditEventRepository
}

func NewDBHandler(repo repositories.AuditEventRepository) *DBHandler {
	return &DBHandler{repo: repo}
}

func (h *DBHandler) Name() string {
	return "db"
}

func (h *DBHandler) Handle(ctx context.Context, event *entities.AuditEvent) error {
	return h.repo.Create(ctx, event)
}

// DefaultRegistry wires every event type to the log sink and the durable
// event types to the database as well. Degraded notices are log-only: if
// Redis is down the last thing the request path needs is an extra insert.
func DefaultRegistry(repo repositories.AuditEventRepository) map[entities.AuditEventType][]Handler {
	logSink := NewLogHandler()
	dbSink := NewDBHandler(repo)

	durable := []Handler{logSink, dbSink}
	logOnly := []Handler{logSink}

	return map[entities.AuditEventType][]Handler{
		entities.AuditAuthSuccess:            durable,
		entities.AuditAuthInvalidFormat:      logOnly,
		entities.AuditAuthInvalidCredential:  durable,
		entities.AuditAuthExpired:            durable,
		entities.AuditAuthRateLimited:        durable,
		entities.AuditAuthSuspiciousActivity: durable,
		entities.AuditAuthDegraded:           logOnly,
		entities.AuditAuthError:              durable,
		entities.AuditKeyCreated:             durable,
		entities.AuditKeyDeactivated:         durable,
	}
}
