package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"notify-gate.backend/internal/domain/entities"
	domainerrors "notify-gate.backend/internal/domain/errors"
)

func apiKeyRouter(svc ApiKeyService) *gin.Engine {
	h := NewApiKeyHandler(svc)
	router := gin.New()
	admin := router.Group("/admin/organizations/:orgId/api-keys")
	admin.POST("", h.CreateApiKey)
	admin.GET("", h.ListApiKeys)
	admin.GET("/:id", h.GetApiKey)
	admin.DELETE("/:id", h.RevokeApiKey)
	return router
}

func TestApiKeyHandler_Create(t *testing.T) {
	svc := new(MockApiKeyService)
	router := apiKeyRouter(svc)
	orgID := uuid.New()

	svc.On("CreateApiKey", mock.Anything, orgID, mock.AnythingOfType("*entities.CreateApiKeyInput")).
		Return(&entities.CreateApiKeyResponse{
			ID:             uuid.New(),
			OrganizationID: orgID,
			Name:           "production",
			Secret:         "the-secret-shown-once",
			Scopes:         []string{"notifications:send"},
			CreatedAt:      time.Now(),
		}, nil)

	rec := performRequest(t, router, http.MethodPost, "/admin/organizations/"+orgID.String()+"/api-keys", gin.H{
		"name":   "production",
		"scopes": []string{"notifications:send"},
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "the-secret-shown-once")
}

func TestApiKeyHandler_CreateValidation(t *testing.T) {
	svc := new(MockApiKeyService)
	router := apiKeyRouter(svc)
	orgID := uuid.New()

	// Missing required name.
	rec := performRequest(t, router, http.MethodPost, "/admin/organizations/"+orgID.String()+"/api-keys", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Bad organization ID in the path.
	rec = performRequest(t, router, http.MethodPost, "/admin/organizations/not-a-uuid/api-keys", gin.H{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertNotCalled(t, "CreateApiKey", mock.Anything, mock.Anything, mock.Anything)
}

func TestApiKeyHandler_List(t *testing.T) {
	svc := new(MockApiKeyService)
	router := apiKeyRouter(svc)
	orgID := uuid.New()

	svc.On("ListApiKeys", mock.Anything, orgID).Return([]*entities.ApiKey{
		{ID: uuid.New(), Name: "a", SecretHash: "salt:hash", KeyFingerprint: "fp"},
	}, nil)

	rec := performRequest(t, router, http.MethodGet, "/admin/organizations/"+orgID.String()+"/api-keys", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	// Derived secret material never leaks through the JSON projection.
	assert.NotContains(t, rec.Body.String(), "salt:hash")
	assert.NotContains(t, rec.Body.String(), `"fp"`)
}

func TestApiKeyHandler_Revoke(t *testing.T) {
	svc := new(MockApiKeyService)
	router := apiKeyRouter(svc)
	orgID, keyID := uuid.New(), uuid.New()

	svc.On("RevokeApiKey", mock.Anything, orgID, keyID).Return(nil)

	rec := performRequest(t, router, http.MethodDelete, "/admin/organizations/"+orgID.String()+"/api-keys/"+keyID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestApiKeyHandler_RevokeNotFound(t *testing.T) {
	svc := new(MockApiKeyService)
	router := apiKeyRouter(svc)
	orgID, keyID := uuid.New(), uuid.New()

	svc.On("RevokeApiKey", mock.Anything, orgID, keyID).
		Return(domainerrors.NotFound("api key not found"))

	rec := performRequest(t, router, http.MethodDelete, "/admin/organizations/"+orgID.String()+"/api-keys/"+keyID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_NOT_FOUND")
}
