package entities

import (
	"time"

	"github.com/google/uuid"
)

// Organization is the tenant that owns API keys and notifications
type Organization struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name      string     `json:"name" gorm:"type:varchar(200);not null"`
	Slug      string     `json:"slug" gorm:"type:varchar(100);uniqueIndex;not null"`
	IsActive  bool       `json:"isActive" gorm:"default:true"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"-" gorm:"index"`
}

type CreateOrganizationInput struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}
