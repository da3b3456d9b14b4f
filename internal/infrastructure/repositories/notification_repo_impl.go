package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"notify-gate.backend/internal/domain/entities"
	domainerrors "notify-gate.backend/internal/domain/errors"
	"notify-gate.backend/internal/infrastructure/models"
	"notify-gate.backend/pkg/utils"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entities.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = utils.GenerateUUIDv7()
	}
	m := r.toModel(n)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	n.CreatedAt = m.CreatedAt
	n.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Notification, error) {
	var m models.Notification
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *NotificationRepository) FindByOrganizationID(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*entities.Notification, int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&models.Notification{}).Where("organization_id = ?", orgID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Notification
	listQuery := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Offset(offset)
	if limit > 0 {
		listQuery = listQuery.Limit(limit)
	}
	if err := listQuery.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	items := make([]*entities.Notification, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, total, nil
}

func (r *NotificationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.NotificationStatus) error {
	updates := map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	}
	if status == entities.NotificationStatusSent {
		updates["sent_at"] = time.Now()
	}

	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) toModel(e *entities.Notification) *models.Notification {
	return &models.Notification{
		ID:             e.ID,
		OrganizationID: e.OrganizationID,
		ApiKeyID:       e.ApiKeyID,
		Channel:        string(e.Channel),
		Recipient:      e.Recipient,
		Subject:        e.Subject,
		Body:           e.Body,
		Status:         string(e.Status),
		ScheduledAt:    e.ScheduledAt.Ptr(),
		SentAt:         e.SentAt.Ptr(),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func (r *NotificationRepository) toEntity(m *models.Notification) *entities.Notification {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		deletedAt = &t
	}
	return &entities.Notification{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		ApiKeyID:       m.ApiKeyID,
		Channel:        entities.NotificationChannel(m.Channel),
		Recipient:      m.Recipient,
		Subject:        m.Subject,
		Body:           m.Body,
		Status:         entities.NotificationStatus(m.Status),
		ScheduledAt:    null.TimeFromPtr(m.ScheduledAt),
		SentAt:         null.TimeFromPtr(m.SentAt),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		DeletedAt:      deletedAt,
	}
}
