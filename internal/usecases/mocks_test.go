package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"notify-gate.backend/internal/domain/entities"
	"notify-gate.backend/pkg/logger"
	"notify-gate.backend/pkg/redis"
)

func init() {
	logger.Init("test")
}

type MockApiKeyRepository struct {
	mock.Mock
}

func (m *MockApiKeyRepository) Create(ctx context.Context, apiKey *entities.ApiKey) error {
	args := m.Called(ctx, apiKey)
	return args.Error(0)
}

func (m *MockApiKeyRepository) FindByFingerprint(ctx context.Context, fingerprint string) (*entities.ApiKey, error) {
	args := m.Called(ctx, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ApiKey), args.Error(1)
}

func (m *MockApiKeyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ApiKey, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ApiKey), args.Error(1)
}

func (m *MockApiKeyRepository) FindByOrganizationID(ctx context.Context, orgID uuid.UUID) ([]*entities.ApiKey, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ApiKey), args.Error(1)
}

func (m *MockApiKeyRepository) Touch(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	args := m.Called(ctx, id, usedAt)
	return args.Error(0)
}

func (m *MockApiKeyRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockApiKeyRepository) Update(ctx context.Context, apiKey *entities.ApiKey) error {
	args := m.Called(ctx, apiKey)
	return args.Error(0)
}

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) Create(ctx context.Context, org *entities.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) GetBySlug(ctx context.Context, slug string) (*entities.Organization, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) List(ctx context.Context) ([]*entities.Organization, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Update(ctx context.Context, org *entities.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *entities.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindByOrganizationID(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*entities.Notification, int64, error) {
	args := m.Called(ctx, orgID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.NotificationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockAuditEventRepository struct {
	mock.Mock
}

func (m *MockAuditEventRepository) Create(ctx context.Context, event *entities.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAuditEventRepository) FindByOrganizationID(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*entities.AuditEvent, int64, error) {
	args := m.Called(ctx, orgID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.AuditEvent), args.Get(1).(int64), args.Error(2)
}

func (m *MockAuditEventRepository) FindByFingerprint(ctx context.Context, fingerprint string, limit int) ([]*entities.AuditEvent, error) {
	args := m.Called(ctx, fingerprint, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.AuditEvent), args.Error(1)
}

// recordingSink captures emitted audit events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []*entities.AuditEvent
}

func (s *recordingSink) Emit(_ context.Context, event *entities.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) all() []*entities.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entities.AuditEvent(nil), s.events...)
}

func (s *recordingSink) ofType(t entities.AuditEventType) []*entities.AuditEvent {
	var out []*entities.AuditEvent
	for _, e := range s.all() {
		if e.EventType == t {
			out = append(out, e)
		}
	}
	return out
}

// stubCounter scripts counter outcomes per counter name.
type stubCounter struct {
	mu      sync.Mutex
	results map[string]*redis.RateLimitResult
	errs    map[string]error
	calls   map[string]int
}

func newStubCounter() *stubCounter {
	return &stubCounter{
		results: make(map[string]*redis.RateLimitResult),
		errs:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

func (c *stubCounter) allow(name string) {
	c.results[name] = &redis.RateLimitResult{Allowed: true, Current: 1, Limit: 100}
}

func (c *stubCounter) denyAfter(name string, limit int) {
	c.results[name] = &redis.RateLimitResult{Allowed: false, Current: int64(limit) + 1, Limit: limit}
}

func (c *stubCounter) fail(name string, err error) {
	c.errs[name] = err
}

func (c *stubCounter) IncrementAndCheck(_ context.Context, name, _ string, window time.Duration, limit int) (*redis.RateLimitResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[name]++
	if err, ok := c.errs[name]; ok {
		return &redis.RateLimitResult{Allowed: true, Limit: limit, Window: window, Degraded: true}, err
	}
	if r, ok := c.results[name]; ok {
		return r, nil
	}
	return &redis.RateLimitResult{Allowed: true, Current: 1, Limit: limit, Window: window}, nil
}

func (c *stubCounter) callCount(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[name]
}
