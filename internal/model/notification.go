package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an outgoing SMS or email.
// Channel: "sms" | "email"
// Status: "pending" | "sent" | "error"
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	VenteID   *uuid.UUID `gorm:"type:uuid;index"`
	Channel   string     `gorm:"type:varchar(10);not null"`
	Recipient string     `gorm:"not null"`
	Subject   string
	Body      string `gorm:"type:text;not null"`
	// Invoice asks the worker to render the order invoice and attach it.
	Invoice bool `gorm:"not null;default:false"`
	// Attachment is a file path under PDF_STORAGE_PATH, emails only.
	Attachment *string
	Status     string `gorm:"type:varchar(20);not null;default:'pending'"`
	// Retry fields, driven by the retry cron.
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"index"`
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const (
	ChannelSMS   = "sms"
	ChannelEmail = "email"

	NotificationPending = "pending"
	NotificationSent    = "sent"
	NotificationError   = "error"
)
