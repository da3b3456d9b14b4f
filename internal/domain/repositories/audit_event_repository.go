package repositories

import (
	"context"

	"github.com/google/uuid"
	"notify-gate.backend/internal/domain/entities"
)

// AuditEventRepository is append-only: events are created and queried,
// never updated or deleted.
type AuditEventRepository interface {
	Create(ctx context.Context, event *entities.AuditEvent) error
	FindByOrganizationID(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*entities.AuditEvent, int64, error)
	FindByFingerprint(ctx context.Context, fingerprint string, limit int) ([]*entities.AuditEvent, error)
}
