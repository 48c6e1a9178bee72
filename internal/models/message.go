package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a direct message inside a conversation. The read flag is
// recipient-scoped; deletion is a hard delete with no tombstone.
type Message struct {
	ID             string    `gorm:"primaryKey;type:text" json:"id"`
	ConversationID string    `gorm:"index;not null" json:"conversation_id"`
	SenderID       string    `gorm:"index;not null" json:"sender_id"`
	RecipientID    string    `gorm:"index;not null" json:"recipient_id"`
	Subject        string    `json:"subject"`
	Content        string    `json:"content"`
	PostID         *string   `json:"post_id,omitempty"`
	PostType       *PostType `json:"post_type,omitempty"`
	PostTitle      *string   `json:"post_title,omitempty"`
	Read           bool      `gorm:"default:false" json:"read"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	SenderProfile    *ProfileSnippet `gorm:"-" json:"sender_profile,omitempty"`
	RecipientProfile *ProfileSnippet `gorm:"-" json:"recipient_profile,omitempty"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	return
}

func (Message) TableName() string {
	return "messages"
}

// MessageSnippet is the last-message preview denormalized onto conversations.
type MessageSnippet struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	SenderID  string    `json:"sender_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *Message) Snippet() *MessageSnippet {
	if m == nil {
		return nil
	}
	return &MessageSnippet{
		ID:        m.ID,
		Content:   m.Content,
		SenderID:  m.SenderID,
		CreatedAt: m.CreatedAt,
	}
}
