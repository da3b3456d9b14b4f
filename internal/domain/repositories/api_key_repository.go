package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"notify-gate.backend/internal/domain/entities"
)

type ApiKeyRepository interface {
	Create(ctx context.Context, apiKey *entities.ApiKey) error
	// FindByFingerprint resolves the non-secret index to a candidate
	// credential; the caller confirms with a slow verify.
	FindByFingerprint(ctx context.Context, fingerprint string) (*entities.ApiKey, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ApiKey, error)
	FindByOrganizationID(ctx context.Context, orgID uuid.UUID) ([]*entities.ApiKey, error)
	// Touch updates LastUsedAt. Best-effort: failures never fail the
	// validation decision.
	Touch(ctx context.Context, id uuid.UUID, usedAt time.Time) error
	// Deactivate is idempotent and irreversible through this interface.
	Deactivate(ctx context.Context, id uuid.UUID) error
	Update(ctx context.Context, apiKey *entities.ApiKey) error
}
