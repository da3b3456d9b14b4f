package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"notify-gate.backend/internal/domain/entities"
	domainerrors "notify-gate.backend/internal/domain/errors"
	"notify-gate.backend/internal/domain/repositories"
)

type OrganizationUsecase struct {
	orgRepo repositories.OrganizationRepository
}

func NewOrganizationUsecase(orgRepo repositories.OrganizationRepository) *OrganizationUsecase {
	return &OrganizationUsecase{orgRepo: orgRepo}
}

func (u *OrganizationUsecase) Create(ctx context.Context, input *entities.CreateOrganizationInput) (*entities.Organization, error) {
	if _, err := u.orgRepo.GetBySlug(ctx, input.Slug); err == nil {
		return nil, domainerrors.Conflict("organization slug already exists")
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, domainerrors.InternalError(err)
	}

	now := time.Now()
	org := &entities.Organization{
		Name:      input.Name,
		Slug:      input.Slug,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.orgRepo.Create(ctx, org); err != nil {
		return nil, domainerrors.InternalError(err)
	}
	return org, nil
}

func (u *OrganizationUsecase) Get(ctx context.Context, id uuid.UUID) (*entities.Organization, error) {
	org, err := u.orgRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("organization not found")
		}
		return nil, domainerrors.InternalError(err)
	}
	return org, nil
}

func (u *OrganizationUsecase) List(ctx context.Context) ([]*entities.Organization, error) {
	orgs, err := u.orgRepo.List(ctx)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}
	return orgs, nil
}

// Deactivate suspends a tenant. Its credentials keep validating until
// individually revoked; suspension only blocks new credential minting.
func (u *OrganizationUsecase) Deactivate(ctx context.Context, id uuid.UUID) error {
	org, err := u.Get(ctx, id)
	if err != nil {
		return err
	}
	if !org.IsActive {
		return nil
	}
	org.IsActive = false
	org.UpdatedAt = time.Now()
	if err := u.orgRepo.Update(ctx, org); err != nil {
		return domainerrors.InternalError(err)
	}
	return nil
}
