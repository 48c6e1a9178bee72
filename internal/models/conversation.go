package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation is the single persistent thread pairing two identities.
// Participants are stored in normalized order (participant_1_id <
// participant_2_id) and guarded by a unique pair index, so concurrent
// first-contact cannot create duplicate threads; a duplicate-key error
// means "already exists, re-read".
type Conversation struct {
	ID             string    `gorm:"primaryKey;type:text" json:"id"`
	Participant1ID string    `gorm:"uniqueIndex:idx_conversations_pair;not null" json:"participant_1_id"`
	Participant2ID string    `gorm:"uniqueIndex:idx_conversations_pair;not null" json:"participant_2_id"`
	LastMessageID  *string   `json:"last_message_id,omitempty"`
	LastMessageAt  time.Time `gorm:"index" json:"last_message_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Participant1Profile *ProfileSnippet `gorm:"-" json:"participant_1_profile,omitempty"`
	Participant2Profile *ProfileSnippet `gorm:"-" json:"participant_2_profile,omitempty"`
	LastMessage         *MessageSnippet `gorm:"-" json:"last_message,omitempty"`
	UnreadCount         int64           `gorm:"-" json:"unread_count"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	if c.LastMessageAt.IsZero() {
		c.LastMessageAt = c.CreatedAt
	}
	return
}

func (Conversation) TableName() string {
	return "conversations"
}

// OtherParticipant returns the participant that is not the given user.
func (c *Conversation) OtherParticipant(userID string) (string, *ProfileSnippet) {
	if c.Participant1ID == userID {
		return c.Participant2ID, c.Participant2Profile
	}
	return c.Participant1ID, c.Participant1Profile
}
