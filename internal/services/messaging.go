package services

import (
	"errors"
	"time"

	"github.com/araf-Mahmud-2004/NearNest/internal/database"
	"github.com/araf-Mahmud-2004/NearNest/internal/models"
	"github.com/araf-Mahmud-2004/NearNest/internal/realtime"
	apperrors "github.com/araf-Mahmud-2004/NearNest/pkg/errors"
	"github.com/araf-Mahmud-2004/NearNest/pkg/logger"
	"gorm.io/gorm"
)

const (
	defaultMessagePageSize = 50
	searchResultCap        = 20
)

// MessageInput is a message as submitted by the sender. The optional post
// reference links the thread back to the listing or event it started from.
type MessageInput struct {
	RecipientID string           `json:"recipient_id" binding:"required"`
	Subject     string           `json:"subject"`
	Content     string           `json:"content" binding:"required"`
	PostID      *string          `json:"post_id,omitempty"`
	PostType    *models.PostType `json:"post_type,omitempty"`
	PostTitle   *string          `json:"post_title,omitempty"`
}

// normalizePair orders a participant pair so every unordered pair has
// exactly one stored representation.
func normalizePair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// GetOrCreateConversation resolves the single thread for an unordered pair.
// Lookup checks both orderings (legacy rows predate normalization); insert
// uses the normalized ordering under the unique pair index, and a
// duplicate-key error means another request created it first, so re-read.
func GetOrCreateConversation(userA, userB string) (*models.Conversation, error) {
	conv, err := findConversation(userA, userB)
	if err == nil {
		return conv, nil
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Kind != apperrors.KindNotFound {
		return nil, err
	}

	p1, p2 := normalizePair(userA, userB)
	created := &models.Conversation{
		Participant1ID: p1,
		Participant2ID: p2,
		LastMessageAt:  time.Now(),
	}
	if err := database.DB.Create(created).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return findConversation(userA, userB)
		}
		logger.Error().Err(err).Msg("Failed to create conversation")
		return nil, apperrors.Persistence("Failed to create conversation")
	}

	realtime.Publish(realtime.ConversationsChannel(userA),
		realtime.NewEvent(realtime.KindConversation, realtime.ChangeInsert, created))
	realtime.Publish(realtime.ConversationsChannel(userB),
		realtime.NewEvent(realtime.KindConversation, realtime.ChangeInsert, created))
	return created, nil
}

func findConversation(userA, userB string) (*models.Conversation, error) {
	var conv models.Conversation
	err := database.DB.
		Where("(participant_1_id = ? AND participant_2_id = ?) OR (participant_1_id = ? AND participant_2_id = ?)",
			userA, userB, userB, userA).
		First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Conversation not found")
		}
		logger.Error().Err(err).Msg("Failed to look up conversation")
		return nil, apperrors.Persistence("Failed to look up conversation")
	}
	return &conv, nil
}

// GetConversation fetches a thread by id with participant profiles attached.
func GetConversation(conversationID string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := database.DB.First(&conv, "id = ?", conversationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Conversation not found")
		}
		logger.Error().Err(err).Str("conversation_id", conversationID).Msg("Failed to fetch conversation")
		return nil, apperrors.Persistence("Failed to fetch conversation")
	}
	snippets := ProfileSnippets([]string{conv.Participant1ID, conv.Participant2ID})
	conv.Participant1Profile = snippets[conv.Participant1ID]
	conv.Participant2Profile = snippets[conv.Participant2ID]
	return &conv, nil
}

// SendMessage resolves the pair's conversation, inserts the message and
// advances the conversation's last-message pointer.
func SendMessage(senderID string, input MessageInput) (*models.Message, error) {
	if senderID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}

	conv, err := GetOrCreateConversation(senderID, input.RecipientID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		RecipientID:    input.RecipientID,
		Subject:        input.Subject,
		Content:        input.Content,
		PostID:         input.PostID,
		PostType:       input.PostType,
		PostTitle:      input.PostTitle,
	}
	if err := database.DB.Create(msg).Error; err != nil {
		logger.Error().Err(err).Str("conversation_id", conv.ID).Msg("Failed to insert message")
		return nil, apperrors.Persistence("Failed to send message")
	}

	err = database.DB.Model(&models.Conversation{}).
		Where("id = ?", conv.ID).
		Updates(map[string]interface{}{
			"last_message_id": msg.ID,
			"last_message_at": msg.CreatedAt,
		}).Error
	if err != nil {
		// Message is committed; a stale pointer only degrades the inbox
		// preview until the next send.
		logger.Warn().Err(err).Str("conversation_id", conv.ID).Msg("Failed to advance last-message pointer")
	}

	snippets := ProfileSnippets([]string{msg.SenderID, msg.RecipientID})
	msg.SenderProfile = snippets[msg.SenderID]
	msg.RecipientProfile = snippets[msg.RecipientID]

	realtime.Publish(realtime.MessagesChannel(msg.RecipientID),
		realtime.NewEvent(realtime.KindMessage, realtime.ChangeInsert, msg))
	realtime.Publish(realtime.ConversationsChannel(msg.SenderID),
		realtime.NewEvent(realtime.KindConversation, realtime.ChangeUpdate, conv))
	realtime.Publish(realtime.ConversationsChannel(msg.RecipientID),
		realtime.NewEvent(realtime.KindConversation, realtime.ChangeUpdate, conv))

	return msg, nil
}

// GetConversations lists a user's threads most-recent-first, enriched with
// both participants' profiles, the last-message preview and per-thread
// unread counts. Profiles and last messages load by id set; unread counts
// come from one grouped query.
func GetConversations(userID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := database.DB.
		Where("participant_1_id = ? OR participant_2_id = ?", userID, userID).
		Order("last_message_at desc").
		Find(&conversations).Error
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch conversations")
		return nil, apperrors.Persistence("Failed to fetch conversations")
	}
	if len(conversations) == 0 {
		return conversations, nil
	}

	participantIDs := make([]string, 0, len(conversations)*2)
	lastMessageIDs := make([]string, 0, len(conversations))
	for i := range conversations {
		participantIDs = append(participantIDs, conversations[i].Participant1ID, conversations[i].Participant2ID)
		if conversations[i].LastMessageID != nil {
			lastMessageIDs = append(lastMessageIDs, *conversations[i].LastMessageID)
		}
	}

	snippets := ProfileSnippets(participantIDs)

	lastMessages := make(map[string]*models.MessageSnippet)
	if len(lastMessageIDs) > 0 {
		var msgs []models.Message
		if err := database.DB.Where("id IN ?", lastMessageIDs).Find(&msgs).Error; err != nil {
			logger.Error().Err(err).Msg("Failed to batch-load last messages")
		} else {
			for i := range msgs {
				lastMessages[msgs[i].ID] = msgs[i].Snippet()
			}
		}
	}

	unreadCounts := make(map[string]int64)
	var rows []struct {
		ConversationID string
		Count          int64
	}
	err = database.DB.Model(&models.Message{}).
		Select("conversation_id, COUNT(*) as count").
		Where("recipient_id = ? AND read = ?", userID, false).
		Group("conversation_id").
		Scan(&rows).Error
	if err != nil {
		// Unread badges degrade to zero; the thread list still renders.
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to count unread messages")
	} else {
		for _, row := range rows {
			unreadCounts[row.ConversationID] = row.Count
		}
	}

	for i := range conversations {
		conv := &conversations[i]
		conv.Participant1Profile = snippets[conv.Participant1ID]
		conv.Participant2Profile = snippets[conv.Participant2ID]
		if conv.LastMessageID != nil {
			conv.LastMessage = lastMessages[*conv.LastMessageID]
		}
		conv.UnreadCount = unreadCounts[conv.ID]
	}
	return conversations, nil
}

// GetMessages returns a conversation's messages in chronological order. The
// store fetches newest-first so the limit keeps the latest page, then
// reverses for display.
func GetMessages(conversationID string, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = defaultMessagePageSize
	}
	var messages []models.Message
	err := database.DB.
		Where("conversation_id = ?", conversationID).
		Order("created_at desc").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		logger.Error().Err(err).Str("conversation_id", conversationID).Msg("Failed to fetch messages")
		return nil, apperrors.Persistence("Failed to fetch messages")
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	attachMessageProfiles(messages)
	return messages, nil
}

// MarkMessagesAsRead bulk-flips the read flag on the recipient's unread
// messages in the conversation. Calling it again affects zero rows.
func MarkMessagesAsRead(conversationID, recipientID string) error {
	err := database.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND recipient_id = ? AND read = ?", conversationID, recipientID, false).
		Update("read", true).Error
	if err != nil {
		logger.Error().Err(err).Str("conversation_id", conversationID).Msg("Failed to mark messages read")
		return apperrors.Persistence("Failed to mark messages as read")
	}
	return nil
}

// UnreadMessageCount counts all unread messages addressed to the user.
func UnreadMessageCount(userID string) int64 {
	var count int64
	err := database.DB.Model(&models.Message{}).
		Where("recipient_id = ? AND read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to count unread messages")
		return 0
	}
	return count
}

// DeleteMessage hard-deletes a message row without an ownership check; use
// DeleteOwnMessage at API boundaries.
func DeleteMessage(messageID string) error {
	if err := database.DB.Delete(&models.Message{}, "id = ?", messageID).Error; err != nil {
		logger.Error().Err(err).Str("message_id", messageID).Msg("Failed to delete message")
		return apperrors.Persistence("Failed to delete message")
	}
	return nil
}

// DeleteOwnMessage deletes a message only when the caller sent it. The WHERE
// clause carries the ownership check so there is no read-then-delete gap.
func DeleteOwnMessage(senderID, messageID string) error {
	result := database.DB.
		Where("id = ? AND sender_id = ?", messageID, senderID).
		Delete(&models.Message{})
	if result.Error != nil {
		logger.Error().Err(result.Error).Str("message_id", messageID).Msg("Failed to delete message")
		return apperrors.Persistence("Failed to delete message")
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Message not found")
	}
	return nil
}

// SearchMessages matches a case-insensitive substring over subject and
// content across messages the user sent or received, capped at 20 results.
func SearchMessages(userID, query string) ([]models.Message, error) {
	pattern := "%" + query + "%"
	var messages []models.Message
	err := database.DB.
		Where("(sender_id = ? OR recipient_id = ?)", userID, userID).
		Where("(LOWER(subject) LIKE LOWER(?) OR LOWER(content) LIKE LOWER(?))", pattern, pattern).
		Order("created_at desc").
		Limit(searchResultCap).
		Find(&messages).Error
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to search messages")
		return nil, apperrors.Persistence("Failed to search messages")
	}
	attachMessageProfiles(messages)
	return messages, nil
}

func attachMessageProfiles(messages []models.Message) {
	ids := make([]string, 0, len(messages)*2)
	for i := range messages {
		ids = append(ids, messages[i].SenderID, messages[i].RecipientID)
	}
	snippets := ProfileSnippets(ids)
	for i := range messages {
		messages[i].SenderProfile = snippets[messages[i].SenderID]
		messages[i].RecipientProfile = snippets[messages[i].RecipientID]
	}
}
