package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditEvent rows are append-only; there is no UpdatedAt or soft delete.
type AuditEvent struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EventType      string     `gorm:"type:varchar(50);not null;index"`
	ApiKeyID       *uuid.UUID `gorm:"type:uuid;index"`
	Fingerprint    string     `gorm:"type:varchar(64);index"`
	OrganizationID *uuid.UUID `gorm:"type:uuid;index"`
	IPAddress      string     `gorm:"type:varchar(45)"`
	UserAgent      string     `gorm:"type:varchar(500)"`
	RequestID      string     `gorm:"type:varchar(64)"`
	Endpoint       string     `gorm:"type:varchar(200)"`
	Metadata       string     `gorm:"type:text"` // JSON object
	Message        string     `gorm:"type:text"`
	CreatedAt      time.Time
}
