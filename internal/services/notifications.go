package services

import (
	"github.com/araf-Mahmud-2004/NearNest/internal/database"
	"github.com/araf-Mahmud-2004/NearNest/internal/models"
	"github.com/araf-Mahmud-2004/NearNest/internal/realtime"
	apperrors "github.com/araf-Mahmud-2004/NearNest/pkg/errors"
	"github.com/araf-Mahmud-2004/NearNest/pkg/logger"
)

// CreateNotification persists a notification row and pushes it onto the
// recipient's change feed.
func CreateNotification(n *models.Notification) error {
	if err := database.DB.Create(n).Error; err != nil {
		logger.Error().Err(err).Str("user_id", n.UserID).Msg("Failed to create notification")
		return apperrors.Persistence("Failed to create notification")
	}
	realtime.Publish(realtime.NotificationsChannel(n.UserID),
		realtime.NewEvent(realtime.KindNotification, realtime.ChangeInsert, n))
	return nil
}

// ListNotifications returns a user's notifications newest-first. Rows whose
// payload names an interested_user_id get that actor's profile snippet
// attached, or nil if the profile no longer exists.
func ListNotifications(userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := database.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&notifications).Error
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch notifications")
		return nil, apperrors.Persistence("Failed to fetch notifications")
	}

	actorIDs := make([]string, 0, len(notifications))
	for i := range notifications {
		if id := notifications[i].Data.GetString("interested_user_id"); id != "" {
			actorIDs = append(actorIDs, id)
		}
	}
	snippets := ProfileSnippets(actorIDs)
	for i := range notifications {
		if id := notifications[i].Data.GetString("interested_user_id"); id != "" {
			notifications[i].InterestedUserProfile = snippets[id]
		}
	}
	return notifications, nil
}

// UnreadNotificationCount degrades to zero on store failure; the badge is
// advisory, not authoritative.
func UnreadNotificationCount(userID string) int64 {
	var count int64
	err := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to count unread notifications")
		return 0
	}
	return count
}

// MarkNotificationRead flips the read flag on one of the recipient's rows.
func MarkNotificationRead(userID, notificationID string) error {
	result := database.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		logger.Error().Err(result.Error).Str("notification_id", notificationID).Msg("Failed to mark notification read")
		return apperrors.Persistence("Failed to mark notification as read")
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Notification not found")
	}
	realtime.Publish(realtime.NotificationsChannel(userID),
		realtime.NewEvent(realtime.KindNotification, realtime.ChangeUpdate,
			map[string]interface{}{"id": notificationID, "read": true}))
	return nil
}

// MarkAllNotificationsRead is idempotent; a second call affects zero rows.
func MarkAllNotificationsRead(userID string) error {
	err := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to mark all notifications read")
		return apperrors.Persistence("Failed to mark notifications as read")
	}
	realtime.Publish(realtime.NotificationsChannel(userID),
		realtime.NewEvent(realtime.KindNotification, realtime.ChangeUpdate,
			map[string]interface{}{"user_id": userID, "read": true}))
	return nil
}

// DeleteNotification removes one of the recipient's rows.
func DeleteNotification(userID, notificationID string) error {
	result := database.DB.
		Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		logger.Error().Err(result.Error).Str("notification_id", notificationID).Msg("Failed to delete notification")
		return apperrors.Persistence("Failed to delete notification")
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Notification not found")
	}
	realtime.Publish(realtime.NotificationsChannel(userID),
		realtime.NewEvent(realtime.KindNotification, realtime.ChangeDelete,
			map[string]interface{}{"id": notificationID}))
	return nil
}
