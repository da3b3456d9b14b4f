package repositories

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"notify-gate.backend/internal/domain/entities"
	"notify-gate.backend/internal/infrastructure/models"
	"notify-gate.backend/pkg/utils"
)

// AuditEventRepository persists security events. Append-only: no update or
// delete paths exist on purpose.
type AuditEventRepository struct {
	db *gorm.DB
}

func NewAuditEventRepository(db *gorm.DB) *AuditEventRepository {
	return &AuditEventRepository{db: db}
}

func (r *AuditEventRepository) Create(ctx context.Context, event *entities.AuditEvent) error {
	if event.ID == uuid.Nil {
		event.ID = utils.GenerateUUIDv7()
	}
	m, err := r.toModel(event)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	event.CreatedAt = m.CreatedAt
	return nil
}

func (r *AuditEventRepository) FindByOrganizationID(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*entities.AuditEvent, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.AuditEvent{}).
		Where("organization_id = ?", orgID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.AuditEvent
	query := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	items := make([]*entities.AuditEvent, 0, len(ms))
	for i := range ms {
		e, err := r.toEntity(&ms[i])
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, nil
}

func (r *AuditEventRepository) FindByFingerprint(ctx context.Context, fingerprint string, limit int) ([]*entities.AuditEvent, error) {
	var ms []models.AuditEvent
	query := r.db.WithContext(ctx).
		Where("fingerprint = ?", fingerprint).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}

	items := make([]*entities.AuditEvent, 0, len(ms))
	for i := range ms {
		e, err := r.toEntity(&ms[i])
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, nil
}

func (r *AuditEventRepository) toModel(e *entities.AuditEvent) (*models.AuditEvent, error) {
	metadata := "{}"
	if len(e.Metadata) > 0 {
		raw, err := json.Marshal(e.Metadata)
		if err != nil {
			return nil, err
		}
		metadata = string(raw)
	}

	return &models.AuditEvent{
		ID:             e.ID,
		EventType:      string(e.EventType),
		ApiKeyID:       e.ApiKeyID,
		Fingerprint:    e.Fingerprint,
		OrganizationID: e.OrganizationID,
		IPAddress:      e.IPAddress,
		UserAgent:      e.UserAgent,
		RequestID:      e.RequestID,
		Endpoint:       e.Endpoint,
		Metadata:       metadata,
		Message:        e.Message,
		CreatedAt:      e.CreatedAt,
	}, nil
}

func (r *AuditEventRepository) toEntity(m *models.AuditEvent) (*entities.AuditEvent, error) {
	var metadata map[string]string
	if m.Metadata != "" && m.Metadata != "{}" {
		if err := json.Unmarshal([]byte(m.Metadata), &metadata); err != nil {
			return nil, err
		}
	}

	return &entities.AuditEvent{
		ID:             m.ID,
		EventType:      entities.AuditEventType(m.EventType),
		ApiKeyID:       m.ApiKeyID,
		Fingerprint:    m.Fingerprint,
		OrganizationID: m.OrganizationID,
		IPAddress:      m.IPAddress,
		UserAgent:      m.UserAgent,
		RequestID:      m.RequestID,
		Endpoint:       m.Endpoint,
		Metadata:       metadata,
		Message:        m.Message,
		CreatedAt:      m.CreatedAt,
	}, nil
}
