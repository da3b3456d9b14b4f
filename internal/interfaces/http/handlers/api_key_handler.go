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

// ApiKeyService is the credential management surface used by the admin API.
type ApiKeyService interface {
	CreateApiKey(ctx context.Context, orgID uuid.UUID, input *entities.CreateApiKeyInput) (*entities.CreateApiKeyResponse, error)
	ListApiKeys(ctx context.Context, orgID uuid.UUID) ([]*entities.ApiKey, error)
	GetApiKey(ctx context.Context, orgID, id uuid.UUID) (*entities.ApiKey, error)
	RevokeApiKey(ctx context.Context, orgID, id uuid.UUID) error
}

type ApiKeyHandler struct {
	apiKeys ApiKeyService
}

func NewApiKeyHandler(apiKeys ApiKeyService) *ApiKeyHandler {
	return &ApiKeyHandler{apiKeys: apiKeys}
}

// CreateApiKey mints a credential for an organization. The response body is
// the only place the plaintext secret ever appears.
func (h *ApiKeyHandler) CreateApiKey(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("orgId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid organization ID"))
		return
	}

	var input entities.CreateApiKeyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	resp, err := h.apiKeys.CreateApiKey(c.Request.Context(), orgID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// ListApiKeys lists an organization's credentials. Secrets and hashes are
// never included.
func (h *ApiKeyHandler) ListApiKeys(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("orgId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid organization ID"))
		return
	}

	keys, err := h.apiKeys.ListApiKeys(c.Request.Context(), orgID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, keys)
}

// GetApiKey returns a single credential's metadata
func (h *ApiKeyHandler) GetApiKey(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("orgId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid organization ID"))
		return
	}
	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid API key ID"))
		return
	}

	key, err := h.apiKeys.GetApiKey(c.Request.Context(), orgID, keyID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, key)
}

// RevokeApiKey deactivates a credential permanently
func (h *ApiKeyHandler) RevokeApiKey(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("orgId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid organization ID"))
		return
	}
	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid API key ID"))
		return
	}

	if err := h.apiKeys.RevokeApiKey(c.Request.Context(), orgID, keyID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "API key revoked"})
}
