package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"notify-gate.backend/internal/domain/entities"
	domainerrors "notify-gate.backend/internal/domain/errors"
	"notify-gate.backend/internal/domain/repositories"
	"notify-gate.backend/pkg/utils"
)

type NotificationUsecase struct {
	notificationRepo repositories.NotificationRepository
	now              func() time.Time
}

func NewNotificationUsecase(notificationRepo repositories.NotificationRepository) *NotificationUsecase {
	return &NotificationUsecase{
		notificationRepo: notificationRepo,
		now:              time.Now,
	}
}

// Enqueue accepts a notification on behalf of the credential that passed
// validation. The message is stored pending; actual channel delivery is a
// separate worker's job.
func (u *NotificationUsecase) Enqueue(ctx context.Context, orgID, apiKeyID uuid.UUID, input *entities.CreateNotificationInput) (*entities.Notification, error) {
	if !entities.IsValidChannel(input.Channel) {
		return nil, domainerrors.BadRequest("unsupported channel")
	}
	if input.ScheduledAt != nil && !input.ScheduledAt.After(u.now()) {
		return nil, domainerrors.BadRequest("scheduledAt must be in the future")
	}

	now := u.now()
	n := &entities.Notification{
		OrganizationID: orgID,
		ApiKeyID:       apiKeyID,
		Channel:        input.Channel,
		Recipient:      input.Recipient,
		Subject:        input.Subject,
		Body:           input.Body,
		Status:         entities.NotificationStatusPending,
		ScheduledAt:    null.TimeFromPtr(input.ScheduledAt),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := u.notificationRepo.Create(ctx, n); err != nil {
		return nil, domainerrors.InternalError(err)
	}
	return n, nil
}

func (u *NotificationUsecase) List(ctx context.Context, orgID uuid.UUID, page, pageSize int) ([]*entities.Notification, *utils.Pagination, error) {
	limit, offset := utils.Normalize(page, pageSize)
	items, total, err := u.notificationRepo.FindByOrganizationID(ctx, orgID, limit, offset)
	if err != nil {
		return nil, nil, domainerrors.InternalError(err)
	}
	return items, utils.NewPagination(page, pageSize, total), nil
}

func (u *NotificationUsecase) Get(ctx context.Context, orgID, id uuid.UUID) (*entities.Notification, error) {
	n, err := u.notificationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("notification not found")
		}
		return nil, domainerrors.InternalError(err)
	}
	if n.OrganizationID != orgID {
		return nil, domainerrors.NotFound("notification not found")
	}
	return n, nil
}

// MarkSent transitions a pending notification to sent. Used by the
// delivery worker callback.
func (u *NotificationUsecase) MarkSent(ctx context.Context, id uuid.UUID) error {
	if err := u.notificationRepo.UpdateStatus(ctx, id, entities.NotificationStatusSent); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound("notification not found")
		}
		return domainerrors.InternalError(err)
	}
	return nil
}

func (u *NotificationUsecase) MarkFailed(ctx context.Context, id uuid.UUID) error {
	if err := u.notificationRepo.UpdateStatus(ctx, id, entities.NotificationStatusFailed); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound("notification not found")
		}
		return domainerrors.InternalError(err)
	}
	return nil
}
