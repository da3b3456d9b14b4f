package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"notify-gate.backend/internal/domain/entities"
	domainerrors "notify-gate.backend/internal/domain/errors"
	"notify-gate.backend/internal/interfaces/http/response"
)

type OrganizationService interface {
	Create(ctx context.Context, input *entities.CreateOrganizationInput) (*entities.Organization, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.Organization, error)
	List(ctx context.Context) ([]*entities.Organization, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type OrganizationHandler struct {
	orgs OrganizationService
}

func NewOrganizationHandler(orgs OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgs: orgs}
}

func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	var input entities.CreateOrganizationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	org, err := h.orgs.Create(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, org)
}

func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	id, err := uuid.Parse(c.Param("orgId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid organization ID"))
		return
	}

	org, err := h.orgs.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, org)
}

func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	orgs, err := h.orgs.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, orgs)
}

func (h *OrganizationHandler) DeactivateOrganization(c *gin.Context) {
	id, err := uuid.Parse(c.Param("orgId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid organization ID"))
		return
	}

	if err := h.orgs.Deactivate(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "organization deactivated"})
}
