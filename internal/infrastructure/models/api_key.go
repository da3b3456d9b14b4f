package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApiKey struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganizationID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name            string    `gorm:"type:varchar(100);not null"`
	KeyFingerprint  string    `gorm:"type:varchar(64);uniqueIndex;not null"` // SHA256 of secret
	SecretHash      string    `gorm:"type:text;not null"`                    // hex(salt):hex(PBKDF2-SHA512)
	Scopes          string    `gorm:"type:text;not null"`                    // JSON array
	RateLimitHourly int       `gorm:"not null;default:0"`
	RateLimitDaily  int       `gorm:"not null;default:0"`
	IsActive        bool      `gorm:"default:true;not null"`
	LastUsedAt      *time.Time
	ExpiresAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
	Organization    Organization   `gorm:"foreignKey:OrganizationID"`
}
