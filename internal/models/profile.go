package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is the public identity row, 1:1 with an authenticated account.
// Created lazily on first authenticated access if missing.
type Profile struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Password string `json:"-"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	return
}

func (Profile) TableName() string {
	return "profiles"
}

// ProfileSnippet is the slice of a profile attached to enriched rows
// (messages, interests, notifications, activity).
type ProfileSnippet struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

func (p *Profile) Snippet() *ProfileSnippet {
	if p == nil {
		return nil
	}
	return &ProfileSnippet{
		ID:        p.ID,
		Username:  p.Username,
		FullName:  p.FullName,
		AvatarURL: p.AvatarURL,
	}
}

// DisplayName picks the name shown in notifications and conversation lists.
func (p *ProfileSnippet) DisplayName() string {
	if p == nil {
		return "Anonymous"
	}
	if p.FullName != "" {
		return p.FullName
	}
	if p.Username != "" {
		return p.Username
	}
	return "Anonymous"
}
