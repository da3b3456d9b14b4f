package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"notify-gate.backend/internal/domain/entities"
	domainerrors "notify-gate.backend/internal/domain/errors"
	"notify-gate.backend/internal/interfaces/http/middleware"
	"notify-gate.backend/internal/interfaces/http/response"
	"notify-gate.backend/pkg/utils"
)

type NotificationService interface {
	Enqueue(ctx context.Context, orgID, apiKeyID uuid.UUID, input *entities.CreateNotificationInput) (*entities.Notification, error)
	List(ctx context.Context, orgID uuid.UUID, page, pageSize int) ([]*entities.Notification, *utils.Pagination, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*entities.Notification, error)
}

// NotificationHandler serves the credential-authenticated delivery surface.
// Every route runs behind ApiKeyAuth, so the validated credential is always
// in the context.
type NotificationHandler struct {
	notifications NotificationService
}

func NewNotificationHandler(notifications NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) SendNotification(c *gin.Context) {
	cred, ok := middleware.GetCredential(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("missing credential"))
		return
	}

	var input entities.CreateNotificationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	n, err := h.notifications.Enqueue(c.Request.Context(), cred.OrganizationID, cred.ID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, n)
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	cred, ok := middleware.GetCredential(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("missing credential"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))

	items, pagination, err := h.notifications.List(c.Request.Context(), cred.OrganizationID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, http.StatusOK, items, pagination)
}

func (h *NotificationHandler) GetNotification(c *gin.Context) {
	cred, ok := middleware.GetCredential(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("missing credential"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid notification ID"))
		return
	}

	n, err := h.notifications.Get(c.Request.Context(), cred.OrganizationID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, n)
}
