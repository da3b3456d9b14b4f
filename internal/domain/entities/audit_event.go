package entities

import (
	"time"

	"github.com/google/uuid"
)

// AuditEventType classifies security events emitted by the validation
// pipeline and management surfaces.
type AuditEventType string

const (
	AuditAuthSuccess           AuditEventType = "auth.success"
	AuditAuthInvalidFormat     AuditEventType = "auth.invalid_format"
	AuditAuthInvalidCredential AuditEventType = "auth.invalid_credential"
	AuditAuthExpired           AuditEventType = "auth.expired"
	AuditAuthRateLimited       AuditEventType = "auth.rate_limited"
	// AuditAuthSuspiciousActivity marks a valid credential used outside
	// its scope grant. Logged as a distinguished class, not a routine
	// auth failure.
	AuditAuthSuspiciousActivity AuditEventType = "auth.suspicious_activity"
	// AuditAuthDegraded marks a rate-limit check that failed open because
	// the counter store was unreachable.
	AuditAuthDegraded AuditEventType = "auth.degraded"
	AuditAuthError    AuditEventType = "auth.error"

	AuditKeyCreated     AuditEventType = "apikey.created"
	AuditKeyDeactivated AuditEventType = "apikey.deactivated"
)

// AuditEvent is an append-only security event record. Never mutated after
// creation.
type AuditEvent struct {
	ID             uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	EventType      AuditEventType    `json:"eventType" gorm:"type:varchar(50);not null;index"`
	ApiKeyID       *uuid.UUID        `json:"apiKeyId,omitempty" gorm:"type:uuid;index"`
	Fingerprint    string            `json:"fingerprint,omitempty" gorm:"type:varchar(64);index"`
	OrganizationID *uuid.UUID        `json:"organizationId,omitempty" gorm:"type:uuid;index"`
	IPAddress      string            `json:"ipAddress" gorm:"type:varchar(45)"`
	UserAgent      string            `json:"userAgent" gorm:"type:varchar(500)"`
	RequestID      string            `json:"requestId" gorm:"type:varchar(64)"`
	Endpoint       string            `json:"endpoint" gorm:"type:varchar(200)"`
	Metadata       map[string]string `json:"metadata,omitempty" gorm:"type:jsonb"`
	Message        string            `json:"message" gorm:"type:text"`
	CreatedAt      time.Time         `json:"createdAt"`
}
