package entities

import (
	"time"

	"github.com/google/uuid"
)

// ApiKey represents a delivery credential scoped to an organization.
//
// SecretHash is a salted slow derivation of the plaintext secret and is
// write-once. KeyFingerprint is a fast deterministic digest of the same
// secret used as the non-secret lookup index; a leaked fingerprint allows
// correlation but not forgery.
type ApiKey struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OrganizationID  uuid.UUID  `json:"organizationId" gorm:"type:uuid;not null"`
	Name            string     `json:"name" gorm:"type:varchar(100);not null"`
	KeyFingerprint  string     `json:"-" gorm:"type:varchar(64);uniqueIndex;not null"`
	SecretHash      string     `json:"-" gorm:"type:text;not null"`
	Scopes          []string   `json:"scopes" gorm:"type:jsonb;default:'[]'"`
	RateLimitHourly int        `json:"rateLimitHourly" gorm:"not null;default:0"`
	RateLimitDaily  int        `json:"rateLimitDaily" gorm:"not null;default:0"`
	IsActive        bool       `json:"isActive" gorm:"default:true"`
	LastUsedAt      *time.Time `json:"lastUsedAt,omitempty"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	DeletedAt       *time.Time `json:"-" gorm:"index"`
}

// HasScope reports whether the credential grants the capability token.
// An empty scope set grants nothing but the credential still validates.
func (k *ApiKey) HasScope(scope string) bool {
	for _, s := range k.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// IsExpired reports whether the credential has passed its expiry instant.
func (k *ApiKey) IsExpired(now time.Time) bool {
	return k.ExpiresAt != nil && now.After(*k.ExpiresAt)
}

type CreateApiKeyInput struct {
	Name            string     `json:"name" binding:"required"`
	Scopes          []string   `json:"scopes"`
	RateLimitHourly int        `json:"rateLimitHourly"`
	RateLimitDaily  int        `json:"rateLimitDaily"`
	ExpiresAt       *time.Time `json:"expiresAt"`
}

// CreateApiKeyResponse carries the plaintext secret. It is returned exactly
// once at creation time and never persisted or logged.
type CreateApiKeyResponse struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organizationId"`
	Name           string    `json:"name"`
	Secret         string    `json:"secret"`
	Scopes         []string  `json:"scopes"`
	CreatedAt      time.Time `json:"createdAt"`
}
