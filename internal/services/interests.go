package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/araf-Mahmud-2004/NearNest/internal/database"
	"github.com/araf-Mahmud-2004/NearNest/internal/models"
	apperrors "github.com/araf-Mahmud-2004/NearNest/pkg/errors"
	"github.com/araf-Mahmud-2004/NearNest/pkg/logger"
	"gorm.io/gorm"
)

const interestCountCacheTTL = 30 * time.Second

// ToggleInterest flips the caller's interest marker on a post. The insert
// races against the unique (user_id, post_id, post_type) index instead of
// checking first: a duplicate key means the marker exists, so the toggle
// removes it. Adding interest on someone else's post notifies the owner.
func ToggleInterest(userID, postID string, postType models.PostType, postOwnerID, postTitle string) (bool, error) {
	if userID == "" {
		return false, apperrors.ErrNotAuthenticated
	}

	interest := &models.Interest{
		UserID:   userID,
		PostID:   postID,
		PostType: postType,
	}
	err := database.DB.Create(interest).Error
	if err == nil {
		invalidateInterestCount(postID, postType)
		if userID != postOwnerID {
			notifyInterest(userID, postID, postType, postOwnerID, postTitle)
		}
		return true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		logger.Error().Err(err).Str("post_id", postID).Msg("Failed to add interest")
		return false, apperrors.Persistence("Failed to update interest")
	}

	// Marker already present: this toggle removes it.
	delErr := database.DB.
		Where("user_id = ? AND post_id = ? AND post_type = ?", userID, postID, postType).
		Delete(&models.Interest{}).Error
	if delErr != nil {
		logger.Error().Err(delErr).Str("post_id", postID).Msg("Failed to remove interest")
		return false, apperrors.Persistence("Failed to update interest")
	}
	invalidateInterestCount(postID, postType)
	return false, nil
}

func notifyInterest(userID, postID string, postType models.PostType, postOwnerID, postTitle string) {
	displayName := DisplayNameFor(userID)
	notification := &models.Notification{
		UserID:  postOwnerID,
		Type:    models.NotificationTypeInterest,
		Title:   fmt.Sprintf("Someone is interested in your %s", postType),
		Message: fmt.Sprintf("%s is interested in %q", displayName, postTitle),
		Data: models.JSONMap{
			"post_id":              postID,
			"post_type":            string(postType),
			"post_title":           postTitle,
			"interested_user_id":   userID,
			"interested_user_name": displayName,
		},
	}
	// A write that flipped the marker should not fail because its
	// notification could not be stored.
	if err := CreateNotification(notification); err != nil {
		logger.Warn().Err(err).Str("post_id", postID).Msg("Interest saved but owner notification failed")
	}
}

// HasInterest reports whether the user currently holds a marker on the post.
func HasInterest(userID, postID string, postType models.PostType) (bool, error) {
	var count int64
	err := database.DB.Model(&models.Interest{}).
		Where("user_id = ? AND post_id = ? AND post_type = ?", userID, postID, postType).
		Count(&count).Error
	if err != nil {
		logger.Error().Err(err).Str("post_id", postID).Msg("Failed to check interest")
		return false, apperrors.Persistence("Failed to check interest")
	}
	return count > 0, nil
}

// GetPostInterests lists a post's interest markers newest-first with actor
// profile snippets attached.
func GetPostInterests(postID string, postType models.PostType) ([]models.Interest, error) {
	var interests []models.Interest
	err := database.DB.
		Where("post_id = ? AND post_type = ?", postID, postType).
		Order("created_at desc").
		Find(&interests).Error
	if err != nil {
		logger.Error().Err(err).Str("post_id", postID).Msg("Failed to fetch interests")
		return nil, apperrors.Persistence("Failed to fetch interests")
	}

	ids := make([]string, 0, len(interests))
	for i := range interests {
		ids = append(ids, interests[i].UserID)
	}
	snippets := ProfileSnippets(ids)
	for i := range interests {
		interests[i].UserProfile = snippets[interests[i].UserID]
	}
	return interests, nil
}

// InterestCount returns the number of markers on a post, serving from the
// Redis cache when warm. Failures degrade to zero.
func InterestCount(postID string, postType models.PostType) int64 {
	cacheKey := interestCountCacheKey(postID, postType)
	if database.Redis != nil {
		var cached int64
		if err := database.CacheGet(cacheKey, &cached); err == nil {
			return cached
		}
	}

	var count int64
	err := database.DB.Model(&models.Interest{}).
		Where("post_id = ? AND post_type = ?", postID, postType).
		Count(&count).Error
	if err != nil {
		logger.Error().Err(err).Str("post_id", postID).Msg("Failed to count interests")
		return 0
	}

	if database.Redis != nil {
		database.CacheSet(cacheKey, count, interestCountCacheTTL)
	}
	return count
}

func interestCountCacheKey(postID string, postType models.PostType) string {
	return fmt.Sprintf("interest_count:%s:%s", postType, postID)
}

func invalidateInterestCount(postID string, postType models.PostType) {
	if database.Redis != nil {
		database.CacheInvalidate(interestCountCacheKey(postID, postType))
	}
}
