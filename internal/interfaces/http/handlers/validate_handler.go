package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"notify-gate.backend/internal/domain/entities"
	domainerrors "notify-gate.backend/internal/domain/errors"
	"notify-gate.backend/internal/interfaces/http/middleware"
	"notify-gate.backend/internal/interfaces/http/response"
)

// ValidateHandler exposes credential introspection to internal services
// that enforce decisions themselves instead of proxying through this API.
type ValidateHandler struct {
	validator middleware.ApiKeyValidator
}

func NewValidateHandler(validator middleware.ApiKeyValidator) *ValidateHandler {
	return &ValidateHandler{validator: validator}
}

type validateRequest struct {
	ApiKey        string `json:"apiKey" binding:"required"`
	RequiredScope string `json:"requiredScope"`
}

// Validate runs the full pipeline and returns the decision with HTTP 200
// regardless of outcome. The decision body, not the status code, is the
// contract.
func (h *ValidateHandler) Validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	reqCtx := entities.RequestContext{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: c.GetString(middleware.RequestIDKey),
		Endpoint:  c.FullPath(),
	}

	decision := h.validator.ValidateApiKey(c.Request.Context(), req.ApiKey, req.RequiredScope, reqCtx)
	response.Success(c, http.StatusOK, decision)
}
