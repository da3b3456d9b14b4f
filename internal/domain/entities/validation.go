package entities

import (
	"time"

	"github.com/google/uuid"
)

// ValidationReason is the terminal outcome class of a validation attempt.
type ValidationReason string

const (
	ReasonInvalidFormat     ValidationReason = "invalid_format"
	ReasonRateLimitExceeded ValidationReason = "rate_limit_exceeded"
	// ReasonInvalidCredential deliberately covers unknown fingerprints,
	// failed verification and deactivated credentials so probing cannot
	// distinguish them.
	ReasonInvalidCredential ValidationReason = "invalid_credential"
	ReasonExpired           ValidationReason = "expired"
	ReasonInsufficientScope ValidationReason = "insufficient_scope"
	ReasonInternalError     ValidationReason = "internal_error"
)

// RequestContext carries request metadata into validation and audit.
type RequestContext struct {
	IPAddress string
	UserAgent string
	RequestID string
	Endpoint  string
}

// RateLimitInfo describes the quota state attached to a decision.
type RateLimitInfo struct {
	Limit   int           `json:"limit"`
	Current int64         `json:"current"`
	Window  time.Duration `json:"windowMs"`
	ResetAt time.Time     `json:"resetTime"`
}

// CredentialInfo is the safe projection of a validated credential exposed
// to callers. It never includes the secret hash.
type CredentialInfo struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organizationId"`
	Name           string    `json:"name"`
	Scopes         []string  `json:"scopes"`
}

// ValidationDecision is the single result type of the validation pipeline.
// It is always returned, never an error, so callers get a decision even
// when a lower layer faulted.
type ValidationDecision struct {
	Allowed    bool             `json:"allowed"`
	Reason     ValidationReason `json:"reason,omitempty"`
	Credential *CredentialInfo  `json:"credential,omitempty"`
	RateLimit  *RateLimitInfo   `json:"rateLimitInfo,omitempty"`
}
