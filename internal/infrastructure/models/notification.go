package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
	ApiKeyID       uuid.UUID `gorm:"type:uuid;not null"`
	Channel        string    `gorm:"type:varchar(20);not null"`
	Recipient      string    `gorm:"type:varchar(500);not null"`
	Subject        string    `gorm:"type:varchar(500)"`
	Body           string    `gorm:"type:text;not null"`
	Status         string    `gorm:"type:varchar(20);not null;index"`
	ScheduledAt    *time.Time
	SentAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}
