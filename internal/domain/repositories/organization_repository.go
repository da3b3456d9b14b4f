package repositories

import (
	"context"

	"github.com/google/uuid"
	"notify-gate.backend/internal/domain/entities"
)

type OrganizationRepository interface {
	Create(ctx context.Context, org *entities.Organization) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*entities.Organization, error)
	List(ctx context.Context) ([]*entities.Organization, error)
	Update(ctx context.Context, org *entities.Organization) error
}
