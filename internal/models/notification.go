package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeInterest NotificationType = "interest"
	NotificationTypeContact  NotificationType = "contact"
	NotificationTypeMessage  NotificationType = "message"
	NotificationTypeEvent    NotificationType = "event"
	NotificationTypeListing  NotificationType = "listing"
	NotificationTypeSystem   NotificationType = "system"
)

// Notification is an append-only row mutated only to flip the read flag or
// to be deleted by its recipient. Data carries the opaque structured payload
// (post_id, post_type, post_title, interested_user_id, ...).
type Notification struct {
	ID        string           `gorm:"primaryKey;type:text" json:"id"`
	UserID    string           `gorm:"index;not null" json:"user_id"` // Recipient
	Type      NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Title     string           `json:"title"`
	Message   string           `gorm:"type:text" json:"message"`
	Data      JSONMap          `gorm:"type:text" json:"data,omitempty"`
	Read      bool             `gorm:"default:false" json:"read"`
	CreatedAt time.Time        `json:"created_at"`

	// Actor profile attached when data.interested_user_id is present.
	InterestedUserProfile *ProfileSnippet `gorm:"-" json:"interested_user_profile,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	return
}

func (Notification) TableName() string {
	return "notifications"
}
