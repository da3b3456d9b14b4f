package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"notify-gate.backend/internal/domain/entities"
	domainerrors "notify-gate.backend/internal/domain/errors"
	"notify-gate.backend/internal/interfaces/http/response"
	"notify-gate.backend/pkg/utils"
)

type AuditQueryService interface {
	ListByOrganization(ctx context.Context, orgID uuid.UUID, page, pageSize int) ([]*entities.AuditEvent, *utils.Pagination, error)
	ListByFingerprint(ctx context.Context, fingerprint string, limit int) ([]*entities.AuditEvent, error)
}

// AuditHandler exposes the security audit trail to operators
type AuditHandler struct {
	audit AuditQueryService
}

func NewAuditHandler(audit AuditQueryService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

func (h *AuditHandler) ListOrganizationEvents(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("orgId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid organization ID"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))

	events, pagination, err := h.audit.ListByOrganization(c.Request.Context(), orgID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, http.StatusOK, events, pagination)
}

// ListFingerprintEvents traces activity for one credential fingerprint,
// including attempts that never resolved to a stored credential.
func (h *AuditHandler) ListFingerprintEvents(c *gin.Context) {
	fingerprint := c.Query("fingerprint")
	if fingerprint == "" {
		response.Error(c, domainerrors.BadRequest("fingerprint query parameter is required"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	events, err := h.audit.ListByFingerprint(c.Request.Context(), fingerprint, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, events)
}
