package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// NotificationChannel is the delivery medium
type NotificationChannel string

const (
	ChannelEmail   NotificationChannel = "email"
	ChannelSMS     NotificationChannel = "sms"
	ChannelWebhook NotificationChannel = "webhook"
)

// NotificationStatus tracks the delivery lifecycle
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// Notification is a queued message owned by an organization. Channel
// delivery itself happens outside this service; the gate only accepts,
// stores and lists.
type Notification struct {
	ID             uuid.UUID           `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OrganizationID uuid.UUID           `json:"organizationId" gorm:"type:uuid;not null;index"`
	ApiKeyID       uuid.UUID           `json:"apiKeyId" gorm:"type:uuid;not null"`
	Channel        NotificationChannel `json:"channel" gorm:"type:varchar(20);not null"`
	Recipient      string              `json:"recipient" gorm:"type:varchar(500);not null"`
	Subject        string              `json:"subject" gorm:"type:varchar(500)"`
	Body           string              `json:"body" gorm:"type:text;not null"`
	Status         NotificationStatus  `json:"status" gorm:"type:varchar(20);not null"`
	ScheduledAt    null.Time           `json:"scheduledAt,omitempty"`
	SentAt         null.Time           `json:"sentAt,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
	DeletedAt      *time.Time          `json:"-" gorm:"index"`
}

type CreateNotificationInput struct {
	Channel     NotificationChannel `json:"channel" binding:"required"`
	Recipient   string              `json:"recipient" binding:"required"`
	Subject     string              `json:"subject"`
	Body        string              `json:"body" binding:"required"`
	ScheduledAt *time.Time          `json:"scheduledAt"`
}

// IsValidChannel reports whether c is a supported delivery channel
func IsValidChannel(c NotificationChannel) bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelWebhook:
		return true
	}
	return false
}
