package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"notify-gate.backend/internal/domain/entities"
	domainerrors "notify-gate.backend/internal/domain/errors"
	"notify-gate.backend/internal/infrastructure/models"
	"notify-gate.backend/pkg/utils"
)

type ApiKeyRepository struct {
	db *gorm.DB
}

func NewApiKeyRepository(db *gorm.DB) *ApiKeyRepository {
	return &ApiKeyRepository{db: db}
}

func (r *ApiKeyRepository) Create(ctx context.Context, apiKey *entities.ApiKey) error {
	if apiKey.ID == uuid.Nil {
		apiKey.ID = utils.GenerateUUIDv7()
	}
	m, err := r.toModel(apiKey)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	apiKey.CreatedAt = m.CreatedAt
	apiKey.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *ApiKeyRepository) FindByFingerprint(ctx context.Context, fingerprint string) (*entities.ApiKey, error) {
	var m models.ApiKey
	if err := r.db.WithContext(ctx).Where("key_fingerprint = ?", fingerprint).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m)
}

func (r *ApiKeyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ApiKey, error) {
	var m models.ApiKey
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m)
}

func (r *ApiKeyRepository) FindByOrganizationID(ctx context.Context, orgID uuid.UUID) ([]*entities.ApiKey, error) {
	var ms []models.ApiKey
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	items := make([]*entities.ApiKey, 0, len(ms))
	for i := range ms {
		e, err := r.toEntity(&ms[i])
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, nil
}

func (r *ApiKeyRepository) Touch(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.ApiKey{}).
		Where("id = ?", id).
		Update("last_used_at", usedAt).Error
}

func (r *ApiKeyRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.ApiKey{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	// Deactivating an already-inactive key still matches a row, so zero
	// rows means the key does not exist.
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *ApiKeyRepository) Update(ctx context.Context, apiKey *entities.ApiKey) error {
	scopes, err := json.Marshal(apiKey.Scopes)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&models.ApiKey{}).
		Where("id = ?", apiKey.ID).
		Updates(map[string]interface{}{
			"name":              apiKey.Name,
			"scopes":            string(scopes),
			"rate_limit_hourly": apiKey.RateLimitHourly,
			"rate_limit_daily":  apiKey.RateLimitDaily,
			"is_active":         apiKey.IsActive,
			"expires_at":        apiKey.ExpiresAt,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *ApiKeyRepository) toModel(e *entities.ApiKey) (*models.ApiKey, error) {
	scopes := e.Scopes
	if scopes == nil {
		scopes = []string{}
	}
	raw, err := json.Marshal(scopes)
	if err != nil {
		return nil, err
	}

	return &models.ApiKey{
		ID:              e.ID,
		OrganizationID:  e.OrganizationID,
		Name:            e.Name,
		KeyFingerprint:  e.KeyFingerprint,
		SecretHash:      e.SecretHash,
		Scopes:          string(raw),
		RateLimitHourly: e.RateLimitHourly,
		RateLimitDaily:  e.RateLimitDaily,
		IsActive:        e.IsActive,
		LastUsedAt:      e.LastUsedAt,
		ExpiresAt:       e.ExpiresAt,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}, nil
}

func (r *ApiKeyRepository) toEntity(m *models.ApiKey) (*entities.ApiKey, error) {
	var scopes []string
	if m.Scopes != "" {
		if err := json.Unmarshal([]byte(m.Scopes), &scopes); err != nil {
			return nil, err
		}
	}

	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		deletedAt = &t
	}

	return &entities.ApiKey{
		ID:              m.ID,
		OrganizationID:  m.OrganizationID,
		Name:            m.Name,
		KeyFingerprint:  m.KeyFingerprint,
		SecretHash:      m.SecretHash,
		Scopes:          scopes,
		RateLimitHourly: m.RateLimitHourly,
		RateLimitDaily:  m.RateLimitDaily,
		IsActive:        m.IsActive,
		LastUsedAt:      m.LastUsedAt,
		ExpiresAt:       m.ExpiresAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		DeletedAt:       deletedAt,
	}, nil
}
