package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"notify-gate.backend/internal/domain/entities"
)

func validateRouter(v *stubValidator) *gin.Engine {
	router := gin.New()
	h := NewValidateHandler(v)
	router.POST("/internal/validate", h.Validate)
	return router
}

func TestValidateHandler_AllowedDecision(t *testing.T) {
	v := &stubValidator{decision: &entities.ValidationDecision{
		Allowed: true,
		Credential: &entities.CredentialInfo{
			ID:             uuid.New(),
			OrganizationID: uuid.New(),
			Name:           "prod",
			Scopes:         []string{"notifications:send"},
		},
	}}
	router := validateRouter(v)

	rec := performRequest(t, router, http.MethodPost, "/internal/validate", gin.H{
		"apiKey":        "some-secret",
		"requiredScope": "notifications:send",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"allowed":true`)
	assert.Equal(t, "some-secret", v.gotKey)
	assert.Equal(t, "notifications:send", v.gotScope)
}

func TestValidateHandler_DenyStillReturns200(t *testing.T) {
	v := &stubValidator{decision: &entities.ValidationDecision{
		Allowed: false,
		Reason:  entities.ReasonInvalidCredential,
	}}
	router := validateRouter(v)

	rec := performRequest(t, router, http.MethodPost, "/internal/validate", gin.H{"apiKey": "bad"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"allowed":false`)
	assert.Contains(t, rec.Body.String(), "invalid_credential")
}

func TestValidateHandler_MissingApiKeyField(t *testing.T) {
	v := &stubValidator{decision: &entities.ValidationDecision{Allowed: true}}
	router := validateRouter(v)

	rec := performRequest(t, router, http.MethodPost, "/internal/validate", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, v.gotKey)
}
