package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"notify-gate.backend/internal/domain/entities"
	"notify-gate.backend/internal/interfaces/http/middleware"
	"notify-gate.backend/pkg/logger"
	"notify-gate.backend/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

func performRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// withCredential injects a validated credential the way ApiKeyAuth would.
func withCredential(cred *entities.CredentialInfo) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CredentialKey, cred)
		c.Next()
	}
}

type MockApiKeyService struct {
	mock.Mock
}

func (m *MockApiKeyService) CreateApiKey(ctx context.Context, orgID uuid.UUID, input *entities.CreateApiKeyInput) (*entities.CreateApiKeyResponse, error) {
	args := m.Called(ctx, orgID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CreateApiKeyResponse), args.Error(1)
}

func (m *MockApiKeyService) ListApiKeys(ctx context.Context, orgID uuid.UUID) ([]*entities.ApiKey, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ApiKey), args.Error(1)
}

func (m *MockApiKeyService) GetApiKey(ctx context.Context, orgID, id uuid.UUID) (*entities.ApiKey, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ApiKey), args.Error(1)
}

func (m *MockApiKeyService) RevokeApiKey(ctx context.Context, orgID, id uuid.UUID) error {
	args := m.Called(ctx, orgID, id)
	return args.Error(0)
}

type MockOrganizationService struct {
	mock.Mock
}

func (m *MockOrganizationService) Create(ctx context.Context, input *entities.CreateOrganizationInput) (*entities.Organization, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Organization), args.Error(1)
}

func (m *MockOrganizationService) Get(ctx context.Context, id uuid.UUID) (*entities.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Organization), args.Error(1)
}

func (m *MockOrganizationService) List(ctx context.Context) ([]*entities.Organization, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Organization), args.Error(1)
}

func (m *MockOrganizationService) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Enqueue(ctx context.Context, orgID, apiKeyID uuid.UUID, input *entities.CreateNotificationInput) (*entities.Notification, error) {
	args := m.Called(ctx, orgID, apiKeyID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Notification), args.Error(1)
}

func (m *MockNotificationService) List(ctx context.Context, orgID uuid.UUID, page, pageSize int) ([]*entities.Notification, *utils.Pagination, error) {
	args := m.Called(ctx, orgID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]*entities.Notification), args.Get(1).(*utils.Pagination), args.Error(2)
}

func (m *MockNotificationService) Get(ctx context.Context, orgID, id uuid.UUID) (*entities.Notification, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Notification), args.Error(1)
}

type MockAuditQueryService struct {
	mock.Mock
}

func (m *MockAuditQueryService) ListByOrganization(ctx context.Context, orgID uuid.UUID, page, pageSize int) ([]*entities.AuditEvent, *utils.Pagination, error) {
	args := m.Called(ctx, orgID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]*entities.AuditEvent), args.Get(1).(*utils.Pagination), args.Error(2)
}

func (m *MockAuditQueryService) ListByFingerprint(ctx context.Context, fingerprint string, limit int) ([]*entities.AuditEvent, error) {
	args := m.Called(ctx, fingerprint, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.AuditEvent), args.Error(1)
}

// stubValidator scripts the pipeline decision for handler tests.
type stubValidator struct {
	decision *entities.ValidationDecision
	gotKey   string
	gotScope string
}

func (s *stubValidator) ValidateApiKey(_ context.Context, secret, requiredScope string, _ entities.RequestContext) *entities.ValidationDecision {
	s.gotKey = secret
	s.gotScope = requiredScope
	return s.decision
}
