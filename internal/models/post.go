package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostType distinguishes the two user-generated content kinds.
type PostType string

const (
	PostTypeListing PostType = "listing"
	PostTypeEvent   PostType = "event"
)

// Listing is a marketplace post.
type Listing struct {
	ID          string    `gorm:"primaryKey;type:text" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Category    string    `gorm:"index" json:"category"`
	Location    string    `json:"location"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url"`
	UserID      string    `gorm:"index;not null" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	UserProfile *ProfileSnippet `gorm:"-" json:"user_profile,omitempty"`
}

func (l *Listing) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	return
}

func (Listing) TableName() string {
	return "listings"
}

// Event is a neighborhood happening with a date and time.
type Event struct {
	ID          string    `gorm:"primaryKey;type:text" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Category    string    `gorm:"index" json:"category"`
	Location    string    `json:"location"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Time        string    `json:"time"` // HH:MM
	ImageURL    string    `json:"image_url"`
	UserID      string    `gorm:"index;not null" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	UserProfile *ProfileSnippet `gorm:"-" json:"user_profile,omitempty"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	return
}

func (Event) TableName() string {
	return "events"
}
