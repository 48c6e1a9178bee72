package handlers

import (
	"net/http"

	"github.com/araf-Mahmud-2004/NearNest/internal/services"
	"github.com/gin-gonic/gin"
)

// GetNotifications lists the caller's notifications newest-first.
func GetNotifications(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	notifications, err := services.ListNotifications(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// GetUnreadNotificationCount returns the badge count.
func GetUnreadNotificationCount(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	c.JSON(http.StatusOK, gin.H{"count": services.UnreadNotificationCount(userID)})
}

// MarkNotificationRead flips one notification's read flag.
func MarkNotificationRead(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	if err := services.MarkNotificationRead(userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead flips every unread notification.
func MarkAllNotificationsRead(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	if err := services.MarkAllNotificationsRead(userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

// DeleteNotification removes one of the caller's notifications.
func DeleteNotification(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	if err := services.DeleteNotification(userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}
