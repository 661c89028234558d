package models

import (
	"time"

	"github.com/fixnet/fixnet/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactMessage represents a message submitted through the public contact form
// Table: contact_messages
// Indices: uuid, is_read, created_at
// Message stored as TEXT
type ContactMessage struct {
	ID      uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	Name    string    `gorm:"size:100;not null" json:"name"`
	Email   string    `gorm:"size:255;not null" json:"email"`
	Subject string    `gorm:"size:200;not null" json:"subject"`
	Message string    `gorm:"type:text;not null" json:"message"`
	IsRead  *bool     `gorm:"default:false;index:idx_contact_messages_is_read" json:"is_read"`

	CreatedAt time.Time `gorm:"not null;default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_contact_messages_created_at" json:"created_at"`
}

func (ContactMessage) TableName() string { return "contact_messages" }

// BeforeCreate ensures UUID and timestamp are set
func (m *ContactMessage) BeforeCreate(tx *gorm.DB) error {
	if m.UUID == uuid.Nil {
		m.UUID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = utils.UTCNow()
	}
	return nil
}

// ContactMessageFilter represents filter criteria for contact message queries
type ContactMessageFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	IsRead        *bool      `json:"is_read,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
