package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"notify-gate.backend/internal/domain/entities"
	domainerrors "notify-gate.backend/internal/domain/errors"
	"notify-gate.backend/internal/infrastructure/models"
	"notify-gate.backend/pkg/utils"
)

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) Create(ctx context.Context, org *entities.Organization) error {
	if org.ID == uuid.Nil {
		org.ID = utils.GenerateUUIDv7()
	}
	m := r.toModel(org)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	org.CreatedAt = m.CreatedAt
	org.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Organization, error) {
	var m models.Organization
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *OrganizationRepository) GetBySlug(ctx context.Context, slug string) (*entities.Organization, error) {
	var m models.Organization
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *OrganizationRepository) List(ctx context.Context) ([]*entities.Organization, error) {
	var ms []models.Organization
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&ms).Error; err != nil {
		return nil, err
	}

	items := make([]*entities.Organization, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, nil
}

func (r *OrganizationRepository) Update(ctx context.Context, org *entities.Organization) error {
	result := r.db.WithContext(ctx).
		Model(&models.Organization{}).
		Where("id = ?", org.ID).
		Updates(map[string]interface{}{
			"name":       org.Name,
			"is_active":  org.IsActive,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *OrganizationRepository) toModel(e *entities.Organization) *models.Organization {
	return &models.Organization{
		ID:        e.ID,
		Name:      e.Name,
		Slug:      e.Slug,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func (r *OrganizationRepository) toEntity(m *models.Organization) *entities.Organization {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		deletedAt = &t
	}
	return &entities.Organization{
		ID:        m.ID,
		Name:      m.Name,
		Slug:      m.Slug,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		DeletedAt: deletedAt,
	}
}
