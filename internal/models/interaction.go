package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InteractionType string

const (
	InteractionTypeView        InteractionType = "view"
	InteractionTypeContact     InteractionType = "contact"
	InteractionTypeInterest    InteractionType = "interest"
	InteractionTypeProfileView InteractionType = "profile_view"
)

// InteractionEvent is the append-only log of viewer actions on posts and
// profiles. Rows are never updated. For profile views the post_id field
// carries the viewed profile id.
type InteractionEvent struct {
	ID              string          `gorm:"primaryKey;type:text" json:"id"`
	UserID          string          `gorm:"index;not null" json:"user_id"` // Actor
	PostID          string          `gorm:"index;not null" json:"post_id"`
	PostType        PostType        `json:"post_type"`
	InteractionType InteractionType `gorm:"index;not null" json:"interaction_type"`
	Metadata        JSONMap         `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
}

func (e *InteractionEvent) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	return
}

func (InteractionEvent) TableName() string {
	return "user_interactions"
}

// ViewActivity is an InteractionEvent enriched with post and actor details
// for the owner's activity feed.
type ViewActivity struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	PostID          string          `json:"post_id"`
	PostType        PostType        `json:"post_type"`
	PostTitle       string          `json:"post_title"`
	PostOwnerID     string          `json:"post_owner_id"`
	InteractionType InteractionType `json:"interaction_type"`
	CreatedAt       time.Time       `json:"created_at"`
	UserProfile     *ProfileSnippet `json:"user_profile,omitempty"`
}

// ActivityStats aggregates lifetime interaction counts for a user's posts.
// RecentViewers counts view events in the last 24 hours, not distinct
// viewers.
type ActivityStats struct {
	TotalViews     int64 `json:"total_views"`
	TotalContacts  int64 `json:"total_contacts"`
	TotalInterests int64 `json:"total_interests"`
	RecentViewers  int64 `json:"recent_viewers"`
}
