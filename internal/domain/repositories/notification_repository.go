package repositories

import (
	"context"

	"github.com/google/uuid"
	"notify-gate.backend/internal/domain/entities"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *entities.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Notification, error)
	FindByOrganizationID(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*entities.Notification, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.NotificationStatus) error
}
