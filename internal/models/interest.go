package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Interest marks a viewer's "I'm interested" on a post. The composite unique
// index makes the toggle race-safe: a concurrent second insert fails with a
// duplicate-key error instead of creating a second row.
type Interest struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	UserID    string    `gorm:"uniqueIndex:idx_interests_user_post;not null" json:"user_id"`
	PostID    string    `gorm:"uniqueIndex:idx_interests_user_post;not null" json:"post_id"`
	PostType  PostType  `gorm:"uniqueIndex:idx_interests_user_post;not null" json:"post_type"`
	CreatedAt time.Time `json:"created_at"`

	UserProfile *ProfileSnippet `gorm:"-" json:"user_profile,omitempty"`
}

func (i *Interest) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now()
	}
	return
}

func (Interest) TableName() string {
	return "interests"
}
