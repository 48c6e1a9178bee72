package handlers

import (
	"net/http"
	"strconv"

	"github.com/araf-Mahmud-2004/NearNest/internal/services"
	"github.com/gin-gonic/gin"
)

// SendMessage delivers a message; the conversation for the pair is created on
// first contact.
func SendMessage(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var input services.MessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.RecipientID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot send a message to yourself"})
		return
	}

	msg, err := services.SendMessage(userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// GetConversations lists the caller's threads, most recent first.
func GetConversations(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	conversations, err := services.GetConversations(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conversations)
}

// GetMessages returns a conversation's messages in chronological order. Only
// participants may read a thread.
func GetMessages(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	conversationID := c.Param("id")

	conv, err := services.GetConversation(conversationID)
	if err != nil {
		respondError(c, err)
		return
	}
	if conv.Participant1ID != userID && conv.Participant2ID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	messages, err := services.GetMessages(conversationID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// MarkConversationRead flips the caller's unread messages in the thread.
func MarkConversationRead(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	if err := services.MarkMessagesAsRead(c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Messages marked as read"})
}

// DeleteMessage removes one of the caller's own sent messages.
func DeleteMessage(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	if err := services.DeleteOwnMessage(userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}

// SearchMessages matches a substring over the caller's sent and received
// messages.
func SearchMessages(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q query parameter required"})
		return
	}

	messages, err := services.SearchMessages(userID, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// UnreadCounts returns the aggregate unread badges for the navbar.
func UnreadCounts(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	c.JSON(http.StatusOK, gin.H{
		"messages":      services.UnreadMessageCount(userID),
		"notifications": services.UnreadNotificationCount(userID),
	})
}
