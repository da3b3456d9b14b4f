package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"notify-gate.backend/internal/audit"
	"notify-gate.backend/internal/config"
	"notify-gate.backend/internal/domain/entities"
	domainerrors "notify-gate.backend/internal/domain/errors"
	"notify-gate.backend/internal/domain/repositories"
	"notify-gate.backend/pkg/crypto"
	"notify-gate.backend/pkg/logger"
	"notify-gate.backend/pkg/metrics"
	"notify-gate.backend/pkg/redis"
)

// RateLimitCounter is the fixed-window counter the pipeline enforces
// quotas through.
type RateLimitCounter interface {
	IncrementAndCheck(ctx context.Context, name, bucket string, window time.Duration, limit int) (*redis.RateLimitResult, error)
}

const (
	counterAntiAbuse = "abuse"
	counterHourly    = "hourly"
	counterDaily     = "daily"
)

type ApiKeyUsecase struct {
	apiKeyRepo repositories.ApiKeyRepository
	orgRepo    repositories.OrganizationRepository
	counter    RateLimitCounter
	auditor    audit.Sink
	limits     config.RateLimitConfig

	// decoyHash is verified against on fingerprint misses so unknown and
	// known-but-wrong secrets cost the same slow derivation.
	decoyHash string
	now       func() time.Time
}

func NewApiKeyUsecase(
	apiKeyRepo repositories.ApiKeyRepository,
	orgRepo repositories.OrganizationRepository,
	counter RateLimitCounter,
	auditor audit.Sink,
	limits config.RateLimitConfig,
) *ApiKeyUsecase {
	decoy, err := crypto.DeriveHash("decoy-credential-for-timing-uniformity")
	if err != nil {
		// Without randomness every later secret generation fails too.
		panic(err)
	}
	return &ApiKeyUsecase{
		apiKeyRepo: apiKeyRepo,
		orgRepo:    orgRepo,
		counter:    counter,
		auditor:    auditor,
		limits:     limits,
		decoyHash:  decoy,
		now:        time.Now,
	}
}

// CreateApiKey mints a credential for the organization. The plaintext
// secret appears only in the returned response; storage holds the slow
// salted hash and the lookup fingerprint.
func (u *ApiKeyUsecase) CreateApiKey(ctx context.Context, orgID uuid.UUID, input *entities.CreateApiKeyInput) (*entities.CreateApiKeyResponse, error) {
	org, err := u.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("organization not found")
		}
		return nil, domainerrors.InternalError(err)
	}
	if !org.IsActive {
		return nil, domainerrors.Forbidden("organization is not active")
	}
	if input.ExpiresAt != nil && !input.ExpiresAt.After(u.now()) {
		return nil, domainerrors.BadRequest("expiresAt must be in the future")
	}

	secret, err := crypto.GenerateSecret()
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}
	hash, err := crypto.DeriveHash(secret)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}

	hourly := input.RateLimitHourly
	if hourly == 0 {
		hourly = u.limits.DefaultHourlyLimit
	}
	daily := input.RateLimitDaily
	if daily == 0 {
		daily = u.limits.DefaultDailyLimit
	}

	now := u.now()
	key := &entities.ApiKey{
		OrganizationID:  orgID,
		Name:            input.Name,
		KeyFingerprint:  crypto.Fingerprint(secret),
		SecretHash:      hash,
		Scopes:          input.Scopes,
		RateLimitHourly: hourly,
		RateLimitDaily:  daily,
		IsActive:        true,
		ExpiresAt:       input.ExpiresAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if key.Scopes == nil {
		key.Scopes = []string{}
	}

	if err := u.apiKeyRepo.Create(ctx, key); err != nil {
		return nil, domainerrors.InternalError(err)
	}

	u.auditor.Emit(ctx, &entities.AuditEvent{
		EventType:      entities.AuditKeyCreated,
		ApiKeyID:       &key.ID,
		Fingerprint:    key.KeyFingerprint,
		OrganizationID: &orgID,
		Metadata:       map[string]string{"name": key.Name},
		Message:        "API key created",
	})

	return &entities.CreateApiKeyResponse{
		ID:             key.ID,
		OrganizationID: orgID,
		Name:           key.Name,
		Secret:         secret,
		Scopes:         key.Scopes,
		CreatedAt:      key.CreatedAt,
	}, nil
}

func (u *ApiKeyUsecase) ListApiKeys(ctx context.Context, orgID uuid.UUID) ([]*entities.ApiKey, error) {
	keys, err := u.apiKeyRepo.FindByOrganizationID(ctx, orgID)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}
	return keys, nil
}

func (u *ApiKeyUsecase) GetApiKey(ctx context.Context, orgID, id uuid.UUID) (*entities.ApiKey, error) {
	key, err := u.apiKeyRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("api key not found")
		}
		return nil, domainerrors.InternalError(err)
	}
	if key.OrganizationID != orgID {
		// Cross-tenant probes see the same answer as a missing key.
		return nil, domainerrors.NotFound("api key not found")
	}
	return key, nil
}

// RevokeApiKey deactivates a credential. Revocation is irreversible; a new
// credential must be minted to restore access.
func (u *ApiKeyUsecase) RevokeApiKey(ctx context.Context, orgID, id uuid.UUID) error {
	key, err := u.GetApiKey(ctx, orgID, id)
	if err != nil {
		return err
	}
	if err := u.apiKeyRepo.Deactivate(ctx, id); err != nil {
		return domainerrors.InternalError(err)
	}

	u.auditor.Emit(ctx, &entities.AuditEvent{
		EventType:      entities.AuditKeyDeactivated,
		ApiKeyID:       &key.ID,
		Fingerprint:    key.KeyFingerprint,
		OrganizationID: &orgID,
		Metadata:       map[string]string{"name": key.Name},
		Message:        "API key deactivated",
	})
	return nil
}

// ValidateApiKey runs the full validation pipeline and always returns a
// decision. Errors in lower layers surface as deny decisions, never as a
// Go error, so every caller handles exactly one shape.
//
// requiredScope may be empty, in which case the scope stage is skipped.
func (u *ApiKeyUsecase) ValidateApiKey(ctx context.Context, secret, requiredScope string, reqCtx entities.RequestContext) *entities.ValidationDecision {
	start := u.now()
	defer func() {
		metrics.ValidationDuration.Observe(time.Since(start).Seconds())
	}()

	// Cheap syntactic check before any store round trip. No fingerprint is
	// derived from garbage input.
	if !crypto.IsValidSecretFormat(secret) {
		return u.deny(ctx, entities.ReasonInvalidFormat, &entities.AuditEvent{
			EventType: entities.AuditAuthInvalidFormat,
			Message:   "credential failed format check",
		}, reqCtx, nil)
	}

	fingerprint := crypto.Fingerprint(secret)

	// Anti-abuse throttle per fingerprint, applied before the credential
	// lookup so brute force burns no database or derivation work. Fails
	// open: an unreachable counter store must not take delivery down.
	abuse, err := u.counter.IncrementAndCheck(ctx, counterAntiAbuse, fingerprint, u.limits.AntiAbuseWindow, u.limits.AntiAbuseLimit)
	if err != nil {
		metrics.RateLimitDegraded.Inc()
		u.auditor.Emit(ctx, u.event(&entities.AuditEvent{
			EventType:   entities.AuditAuthDegraded,
			Fingerprint: fingerprint,
			Message:     "anti-abuse counter unavailable, failing open",
		}, reqCtx))
		logger.Warn(ctx, "Anti-abuse counter unavailable", zap.Error(err))
	} else if !abuse.Allowed {
		return u.deny(ctx, entities.ReasonRateLimitExceeded, &entities.AuditEvent{
			EventType:   entities.AuditAuthRateLimited,
			Fingerprint: fingerprint,
			Metadata:    map[string]string{"window": counterAntiAbuse},
			Message:     "fingerprint exceeded anti-abuse limit",
		}, reqCtx, rateLimitInfo(abuse))
	}

	key, err := u.apiKeyRepo.FindByFingerprint(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			// Burn the same derivation cost as a real verify so a miss is
			// not distinguishable by timing.
			crypto.Verify(secret, u.decoyHash)
			return u.deny(ctx, entities.ReasonInvalidCredential, &entities.AuditEvent{
				EventType:   entities.AuditAuthInvalidCredential,
				Fingerprint: fingerprint,
				Message:     "unknown credential",
			}, reqCtx, nil)
		}
		logger.Error(ctx, "Credential lookup failed", zap.Error(err))
		return u.deny(ctx, entities.ReasonInternalError, &entities.AuditEvent{
			EventType:   entities.AuditAuthError,
			Fingerprint: fingerprint,
			Message:     "credential lookup failed",
		}, reqCtx, nil)
	}

	if !crypto.Verify(secret, key.SecretHash) {
		return u.deny(ctx, entities.ReasonInvalidCredential, &entities.AuditEvent{
			EventType:   entities.AuditAuthInvalidCredential,
			ApiKeyID:    &key.ID,
			Fingerprint: fingerprint,
			Message:     "secret verification failed",
		}, reqCtx, nil)
	}

	if key.IsExpired(u.now()) {
		return u.deny(ctx, entities.ReasonExpired, &entities.AuditEvent{
			EventType:      entities.AuditAuthExpired,
			ApiKeyID:       &key.ID,
			Fingerprint:    fingerprint,
			OrganizationID: &key.OrganizationID,
			Message:        "credential expired",
		}, reqCtx, nil)
	}

	// A deactivated credential answers exactly like an unknown one so
	// revocation is not observable from outside.
	if !key.IsActive {
		return u.deny(ctx, entities.ReasonInvalidCredential, &entities.AuditEvent{
			EventType:      entities.AuditAuthInvalidCredential,
			ApiKeyID:       &key.ID,
			Fingerprint:    fingerprint,
			OrganizationID: &key.OrganizationID,
			Message:        "credential deactivated",
		}, reqCtx, nil)
	}

	if requiredScope != "" && !key.HasScope(requiredScope) {
		return u.deny(ctx, entities.ReasonInsufficientScope, &entities.AuditEvent{
			EventType:      entities.AuditAuthSuspiciousActivity,
			ApiKeyID:       &key.ID,
			Fingerprint:    fingerprint,
			OrganizationID: &key.OrganizationID,
			Metadata:       map[string]string{"required_scope": requiredScope},
			Message:        "valid credential used outside scope grant",
		}, reqCtx, nil)
	}

	// Usage accounting. Unlike the anti-abuse stage this enforces a paid
	// quota, so a broken counter store denies rather than granting
	// unmetered delivery.
	bucket := key.ID.String()
	hourly, err := u.counter.IncrementAndCheck(ctx, counterHourly, bucket, time.Hour, key.RateLimitHourly)
	if err != nil {
		return u.accountingFault(ctx, key, fingerprint, reqCtx, err)
	}
	if !hourly.Allowed {
		return u.quotaExceeded(ctx, key, fingerprint, reqCtx, counterHourly, hourly)
	}
	daily, err := u.counter.IncrementAndCheck(ctx, counterDaily, bucket, 24*time.Hour, key.RateLimitDaily)
	if err != nil {
		return u.accountingFault(ctx, key, fingerprint, reqCtx, err)
	}
	if !daily.Allowed {
		return u.quotaExceeded(ctx, key, fingerprint, reqCtx, counterDaily, daily)
	}

	if err := u.apiKeyRepo.Touch(ctx, key.ID, u.now()); err != nil {
		logger.Warn(ctx, "Failed to record credential usage", zap.Error(err))
	}

	u.auditor.Emit(ctx, u.event(&entities.AuditEvent{
		EventType:      entities.AuditAuthSuccess,
		ApiKeyID:       &key.ID,
		Fingerprint:    fingerprint,
		OrganizationID: &key.OrganizationID,
		Message:        "API key validated",
	}, reqCtx))
	metrics.RecordDecision("")

	return &entities.ValidationDecision{
		Allowed: true,
		Credential: &entities.CredentialInfo{
			ID:             key.ID,
			OrganizationID: key.OrganizationID,
			Name:           key.Name,
			Scopes:         key.Scopes,
		},
		RateLimit: rateLimitInfo(hourly),
	}
}

func (u *ApiKeyUsecase) quotaExceeded(ctx context.Context, key *entities.ApiKey, fingerprint string, reqCtx entities.RequestContext, window string, result *redis.RateLimitResult) *entities.ValidationDecision {
	return u.deny(ctx, entities.ReasonRateLimitExceeded, &entities.AuditEvent{
		EventType:      entities.AuditAuthRateLimited,
		ApiKeyID:       &key.ID,
		Fingerprint:    fingerprint,
		OrganizationID: &key.OrganizationID,
		Metadata:       map[string]string{"window": window},
		Message:        "credential exceeded usage quota",
	}, reqCtx, rateLimitInfo(result))
}

func (u *ApiKeyUsecase) accountingFault(ctx context.Context, key *entities.ApiKey, fingerprint string, reqCtx entities.RequestContext, err error) *entities.ValidationDecision {
	logger.Error(ctx, "Usage counter unavailable", zap.Error(err))
	return u.deny(ctx, entities.ReasonInternalError, &entities.AuditEvent{
		EventType:      entities.AuditAuthError,
		ApiKeyID:       &key.ID,
		Fingerprint:    fingerprint,
		OrganizationID: &key.OrganizationID,
		Message:        "usage counter unavailable",
	}, reqCtx, nil)
}

// deny emits the single audit event for a terminal deny outcome and builds
// the decision.
func (u *ApiKeyUsecase) deny(ctx context.Context, reason entities.ValidationReason, event *entities.AuditEvent, reqCtx entities.RequestContext, rl *entities.RateLimitInfo) *entities.ValidationDecision {
	u.auditor.Emit(ctx, u.event(event, reqCtx))
	metrics.RecordDecision(string(reason))
	return &entities.ValidationDecision{
		Allowed:   false,
		Reason:    reason,
		RateLimit: rl,
	}
}

func (u *ApiKeyUsecase) event(event *entities.AuditEvent, reqCtx entities.RequestContext) *entities.AuditEvent {
	event.IPAddress = reqCtx.IPAddress
	event.UserAgent = reqCtx.UserAgent
	event.RequestID = reqCtx.RequestID
	event.Endpoint = reqCtx.Endpoint
	return event
}

func rateLimitInfo(result *redis.RateLimitResult) *entities.RateLimitInfo {
	if result == nil {
		return nil
	}
	return &entities.RateLimitInfo{
		Limit:   result.Limit,
		Current: result.Current,
		Window:  result.Window,
		ResetAt: result.ResetAt,
	}
}
