package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/araf-Mahmud-2004/NearNest/internal/database"
	"github.com/araf-Mahmud-2004/NearNest/internal/models"
	"github.com/araf-Mahmud-2004/NearNest/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestSendMessageHandler(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	database.DB.Create(&models.Profile{ID: "alice", Username: "alice", Email: "alice@example.com"})
	database.DB.Create(&models.Profile{ID: "bob", Username: "bob", Email: "bob@example.com"})

	body, _ := json.Marshal(map[string]string{
		"recipient_id": "bob",
		"content":      "Is the bike still available?",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/messages", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", "alice")

	SendMessage(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var msg models.Message
	json.Unmarshal(w.Body.Bytes(), &msg)
	assert.Equal(t, "alice", msg.SenderID)
	assert.Equal(t, "bob", msg.RecipientID)
	assert.NotEmpty(t, msg.ConversationID)
}

func TestSendMessageHandler_RejectsSelf(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	body, _ := json.Marshal(map[string]string{
		"recipient_id": "alice",
		"content":      "talking to myself",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/messages", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", "alice")

	SendMessage(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMessagesHandler_ParticipantsOnly(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	database.DB.Create(&models.Profile{ID: "alice", Username: "alice", Email: "alice@example.com"})
	database.DB.Create(&models.Profile{ID: "bob", Username: "bob", Email: "bob@example.com"})
	database.DB.Create(&models.Profile{ID: "eve", Username: "eve", Email: "eve@example.com"})

	msg, err := services.SendMessage("alice", services.MessageInput{RecipientID: "bob", Content: "hi"})
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/api/conversations/"+msg.ConversationID+"/messages", nil)
	c.Params = gin.Params{{Key: "id", Value: msg.ConversationID}}
	c.Set("userId", "eve")

	GetMessages(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/api/conversations/"+msg.ConversationID+"/messages", nil)
	c.Params = gin.Params{{Key: "id", Value: msg.ConversationID}}
	c.Set("userId", "bob")

	GetMessages(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var messages []models.Message
	json.Unmarshal(w.Body.Bytes(), &messages)
	assert.Len(t, messages, 1)
	assert.Equal(t, "hi", messages[0].Content)
}

func TestUnreadCountsHandler(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	database.DB.Create(&models.Profile{ID: "alice", Username: "alice", Email: "alice@example.com"})
	database.DB.Create(&models.Profile{ID: "bob", Username: "bob", Email: "bob@example.com"})

	services.SendMessage("alice", services.MessageInput{RecipientID: "bob", Content: "one"})
	services.SendMessage("alice", services.MessageInput{RecipientID: "bob", Content: "two"})
	services.CreateNotification(&models.Notification{UserID: "bob", Type: models.NotificationTypeSystem, Title: "hi"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/api/messages/unread-counts", nil)
	c.Set("userId", "bob")

	UnreadCounts(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Messages      int64 `json:"messages"`
		Notifications int64 `json:"notifications"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, int64(2), response.Messages)
	assert.Equal(t, int64(1), response.Notifications)
}
