package usecases

import (
	"context"

	"github.com/google/uuid"
	"notify-gate.backend/internal/domain/entities"
	domainerrors "notify-gate.backend/internal/domain/errors"
	"notify-gate.backend/internal/domain/repositories"
	"notify-gate.backend/pkg/utils"
)

// AuditQueryUsecase reads the append-only audit trail for the admin API.
type AuditQueryUsecase struct {
	auditRepo repositories.AuditEventRepository
}

func NewAuditQueryUsecase(auditRepo repositories.AuditEventRepository) *AuditQueryUsecase {
	return &AuditQueryUsecase{auditRepo: auditRepo}
}

func (u *AuditQueryUsecase) ListByOrganization(ctx context.Context, orgID uuid.UUID, page, pageSize int) ([]*entities.AuditEvent, *utils.Pagination, error) {
	limit, offset := utils.Normalize(page, pageSize)
	events, total, err := u.auditRepo.FindByOrganizationID(ctx, orgID, limit, offset)
	if err != nil {
		return nil, nil, domainerrors.InternalError(err)
	}
	return events, utils.NewPagination(page, pageSize, total), nil
}

func (u *AuditQueryUsecase) ListByFingerprint(ctx context.Context, fingerprint string, limit int) ([]*entities.AuditEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	events, err := u.auditRepo.FindByFingerprint(ctx, fingerprint, limit)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}
	return events, nil
}
