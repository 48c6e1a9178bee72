package services

import (
	"testing"
	"time"

	"github.com/araf-Mahmud-2004/NearNest/internal/database"
	"github.com/araf-Mahmud-2004/NearNest/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestGetOrCreateConversation_SamePairBothOrderings(t *testing.T) {
	SetupTestDB()
	seedProfile("alice", "alice")
	seedProfile("bob", "bob")

	first, err := GetOrCreateConversation("alice", "bob")
	assert.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	// Reversed ordering must resolve to the same thread.
	second, err := GetOrCreateConversation("bob", "alice")
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	database.DB.Model(&models.Conversation{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGetOrCreateConversation_NormalizesPair(t *testing.T) {
	SetupTestDB()
	seedProfile("zed", "zed")
	seedProfile("amy", "amy")

	conv, err := GetOrCreateConversation("zed", "amy")
	assert.NoError(t, err)
	assert.Equal(t, "amy", conv.Participant1ID)
	assert.Equal(t, "zed", conv.Participant2ID)
}

func TestSendMessage_RequiresSender(t *testing.T) {
	SetupTestDB()

	_, err := SendMessage("", MessageInput{RecipientID: "bob", Content: "hi"})
	assert.Error(t, err)
}

func TestSendMessage_AdvancesLastMessagePointer(t *testing.T) {
	SetupTestDB()
	seedProfile("alice", "alice")
	seedProfile("bob", "bob")

	msg, err := SendMessage("alice", MessageInput{RecipientID: "bob", Content: "first"})
	assert.NoError(t, err)

	conv, err := GetConversation(msg.ConversationID)
	assert.NoError(t, err)
	assert.NotNil(t, conv.LastMessageID)
	assert.Equal(t, msg.ID, *conv.LastMessageID)
	assert.WithinDuration(t, msg.CreatedAt, conv.LastMessageAt, time.Second)
}

func TestGetMessages_ChronologicalOrder(t *testing.T) {
	SetupTestDB()
	seedProfile("alice", "alice")
	seedProfile("bob", "bob")

	m1, _ := SendMessage("alice", MessageInput{RecipientID: "bob", Content: "one"})
	time.Sleep(5 * time.Millisecond)
	m2, _ := SendMessage("bob", MessageInput{RecipientID: "alice", Content: "two"})
	time.Sleep(5 * time.Millisecond)
	m3, _ := SendMessage("alice", MessageInput{RecipientID: "bob", Content: "three"})

	messages, err := GetMessages(m1.ConversationID, 50)
	assert.NoError(t, err)
	assert.Len(t, messages, 3)
	assert.Equal(t, m1.ID, messages[0].ID)
	assert.Equal(t, m2.ID, messages[1].ID)
	assert.Equal(t, m3.ID, messages[2].ID)
}

func TestGetMessages_LimitKeepsLatest(t *testing.T) {
	SetupTestDB()
	seedProfile("alice", "alice")
	seedProfile("bob", "bob")

	SendMessage("alice", MessageInput{RecipientID: "bob", Content: "old"})
	time.Sleep(5 * time.Millisecond)
	m2, _ := SendMessage("alice", MessageInput{RecipientID: "bob", Content: "newer"})
	time.Sleep(5 * time.Millisecond)
	m3, _ := SendMessage("alice", MessageInput{RecipientID: "bob", Content: "newest"})

	messages, err := GetMessages(m2.ConversationID, 2)
	assert.NoError(t, err)
	assert.Len(t, messages, 2)
	// The limit drops the oldest, and the page is still chronological.
	assert.Equal(t, m2.ID, messages[0].ID)
	assert.Equal(t, m3.ID, messages[1].ID)
}

func TestMarkMessagesAsRead_Idempotent(t *testing.T) {
	SetupTestDB()
	seedProfile("alice", "alice")
	seedProfile("bob", "bob")

	msg, _ := SendMessage("alice", MessageInput{RecipientID: "bob", Content: "hello"})

	assert.Equal(t, int64(1), UnreadMessageCount("bob"))

	assert.NoError(t, MarkMessagesAsRead(msg.ConversationID, "bob"))
	assert.Equal(t, int64(0), UnreadMessageCount("bob"))

	// Second call affects zero rows and still succeeds.
	assert.NoError(t, MarkMessagesAsRead(msg.ConversationID, "bob"))
	assert.Equal(t, int64(0), UnreadMessageCount("bob"))
}

func TestMarkMessagesAsRead_OnlyRecipientScoped(t *testing.T) {
	SetupTestDB()
	seedProfile("alice", "alice")
	seedProfile("bob", "bob")

	msg, _ := SendMessage("alice", MessageInput{RecipientID: "bob", Content: "hello"})

	// The sender marking the thread read must not touch the recipient's flag.
	assert.NoError(t, MarkMessagesAsRead(msg.ConversationID, "alice"))
	assert.Equal(t, int64(1), UnreadMessageCount("bob"))
}

func TestGetConversations_EnrichmentAndUnread(t *testing.T) {
	SetupTestDB()
	seedProfile("alice", "alice")
	seedProfile("bob", "bob")
	seedProfile("carol", "carol")

	SendMessage("bob", MessageInput{RecipientID: "alice", Content: "from bob"})
	time.Sleep(5 * time.Millisecond)
	lastFromCarol, _ := SendMessage("carol", MessageInput{RecipientID: "alice", Content: "from carol"})

	conversations, err := GetConversations("alice")
	assert.NoError(t, err)
	assert.Len(t, conversations, 2)

	// Most recent thread first.
	assert.Equal(t, lastFromCarol.ConversationID, conversations[0].ID)
	assert.NotNil(t, conversations[0].LastMessage)
	assert.Equal(t, "from carol", conversations[0].LastMessage.Content)
	assert.Equal(t, int64(1), conversations[0].UnreadCount)

	otherID, otherProfile := conversations[0].OtherParticipant("alice")
	assert.Equal(t, "carol", otherID)
	assert.NotNil(t, otherProfile)
	assert.Equal(t, "carol", otherProfile.Username)
}

func TestDeleteOwnMessage(t *testing.T) {
	SetupTestDB()
	seedProfile("alice", "alice")
	seedProfile("bob", "bob")

	msg, _ := SendMessage("alice", MessageInput{RecipientID: "bob", Content: "oops"})

	// The recipient cannot delete the sender's message.
	err := DeleteOwnMessage("bob", msg.ID)
	assert.Error(t, err)

	assert.NoError(t, DeleteOwnMessage("alice", msg.ID))

	var count int64
	database.DB.Model(&models.Message{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSearchMessages_ScopedToParticipant(t *testing.T) {
	SetupTestDB()
	seedProfile("alice", "alice")
	seedProfile("bob", "bob")
	seedProfile("carol", "carol")

	SendMessage("alice", MessageInput{RecipientID: "bob", Content: "the blue bicycle"})
	SendMessage("bob", MessageInput{RecipientID: "carol", Content: "another bicycle"})

	results, err := SearchMessages("alice", "bicycle")
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "the blue bicycle", results[0].Content)

	// Case-insensitive.
	results, err = SearchMessages("alice", "BICYCLE")
	assert.NoError(t, err)
	assert.Len(t, results, 1)
}
