package services

import (
	"fmt"
	"time"

	"github.com/araf-Mahmud-2004/NearNest/internal/database"
	"github.com/araf-Mahmud-2004/NearNest/internal/models"
	"github.com/araf-Mahmud-2004/NearNest/internal/realtime"
	apperrors "github.com/araf-Mahmud-2004/NearNest/pkg/errors"
	"github.com/araf-Mahmud-2004/NearNest/pkg/logger"
)

const defaultActivityPageSize = 20

// LogInteraction appends one row to the interaction log and pushes it onto
// the actor's and the shared post-interaction change feeds.
func LogInteraction(event *models.InteractionEvent) error {
	if err := database.DB.Create(event).Error; err != nil {
		logger.Error().Err(err).Str("post_id", event.PostID).Msg("Failed to log interaction")
		return apperrors.Persistence("Failed to log interaction")
	}
	ev := realtime.NewEvent(realtime.KindInteraction, realtime.ChangeInsert, event)
	realtime.Publish(realtime.InteractionsChannel(event.UserID), ev)
	realtime.Publish(realtime.PostInteractionsChannel, ev)
	return nil
}

// TrackView records a post view. Views of one's own posts are not recorded.
func TrackView(userID, postID string, postType models.PostType, postOwnerID string) error {
	if userID == "" || userID == postOwnerID {
		return nil
	}
	return LogInteraction(&models.InteractionEvent{
		UserID:          userID,
		PostID:          postID,
		PostType:        postType,
		InteractionType: models.InteractionTypeView,
		Metadata:        models.JSONMap{"timestamp": time.Now().Format(time.RFC3339)},
	})
}

// TrackContact records a contact attempt and notifies the post owner.
// Self-contact is not recorded.
func TrackContact(userID, postID string, postType models.PostType, postOwnerID, contactMethod, postTitle string) error {
	if userID == "" || userID == postOwnerID {
		return nil
	}
	err := LogInteraction(&models.InteractionEvent{
		UserID:          userID,
		PostID:          postID,
		PostType:        postType,
		InteractionType: models.InteractionTypeContact,
		Metadata: models.JSONMap{
			"contact_method": contactMethod,
			"timestamp":      time.Now().Format(time.RFC3339),
		},
	})
	if err != nil {
		return err
	}

	displayName := DisplayNameFor(userID)
	notification := &models.Notification{
		UserID:  postOwnerID,
		Type:    models.NotificationTypeContact,
		Title:   fmt.Sprintf("%s wants to contact you!", displayName),
		Message: fmt.Sprintf("%s is interested in contacting you about %q", displayName, orYourPost(postTitle)),
		Data: models.JSONMap{
			"post_id":            postID,
			"post_type":          string(postType),
			"post_title":         postTitle,
			"contact_method":     contactMethod,
			"interested_user_id": userID,
		},
	}
	if err := CreateNotification(notification); err != nil {
		logger.Warn().Err(err).Str("post_id", postID).Msg("Contact logged but owner notification failed")
	}
	return nil
}

// TrackInterest records an interest interaction and notifies the post owner.
// Self-interest is not recorded.
func TrackInterest(userID, postID string, postType models.PostType, postOwnerID, postTitle string) error {
	if userID == "" || userID == postOwnerID {
		return nil
	}
	err := LogInteraction(&models.InteractionEvent{
		UserID:          userID,
		PostID:          postID,
		PostType:        postType,
		InteractionType: models.InteractionTypeInterest,
		Metadata:        models.JSONMap{"timestamp": time.Now().Format(time.RFC3339)},
	})
	if err != nil {
		return err
	}

	displayName := DisplayNameFor(userID)
	notification := &models.Notification{
		UserID:  postOwnerID,
		Type:    models.NotificationTypeInterest,
		Title:   fmt.Sprintf("%s is interested in your %s!", displayName, postType),
		Message: fmt.Sprintf("%s showed interest in %q", displayName, orYourPost(postTitle)),
		Data: models.JSONMap{
			"post_id":            postID,
			"post_type":          string(postType),
			"post_title":         postTitle,
			"interested_user_id": userID,
		},
	}
	if err := CreateNotification(notification); err != nil {
		logger.Warn().Err(err).Str("post_id", postID).Msg("Interest logged but owner notification failed")
	}
	return nil
}

// TrackProfileView records a profile view. The post_id column carries the
// viewed profile id; post_type is a placeholder for these rows.
func TrackProfileView(userID, profileID string) error {
	if userID == "" || userID == profileID {
		return nil
	}
	return LogInteraction(&models.InteractionEvent{
		UserID:          userID,
		PostID:          profileID,
		PostType:        models.PostTypeListing,
		InteractionType: models.InteractionTypeProfileView,
		Metadata:        models.JSONMap{"timestamp": time.Now().Format(time.RFC3339)},
	})
}

func orYourPost(postTitle string) string {
	if postTitle == "" {
		return "your post"
	}
	return postTitle
}

// ownedPosts returns the id set, titles and owners of every post the user
// owns, across both kinds.
func ownedPosts(userID string) ([]string, map[string]string, map[string]string) {
	var listings []models.Listing
	if err := database.DB.Select("id, title, user_id").Where("user_id = ?", userID).Find(&listings).Error; err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to load owned listings")
	}
	var events []models.Event
	if err := database.DB.Select("id, title, user_id").Where("user_id = ?", userID).Find(&events).Error; err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to load owned events")
	}

	ids := make([]string, 0, len(listings)+len(events))
	titles := make(map[string]string, len(listings)+len(events))
	owners := make(map[string]string, len(listings)+len(events))
	for i := range listings {
		ids = append(ids, listings[i].ID)
		titles[listings[i].ID] = listings[i].Title
		owners[listings[i].ID] = listings[i].UserID
	}
	for i := range events {
		ids = append(ids, events[i].ID)
		titles[events[i].ID] = events[i].Title
		owners[events[i].ID] = events[i].UserID
	}
	return ids, titles, owners
}

// RecentActivity returns the latest interactions on the user's posts,
// enriched with post titles and actor profiles. The join across posts,
// interactions and profiles happens in memory over three queries.
func RecentActivity(userID string, limit int) ([]models.ViewActivity, error) {
	if limit <= 0 {
		limit = defaultActivityPageSize
	}

	postIDs, titles, owners := ownedPosts(userID)
	if len(postIDs) == 0 {
		return []models.ViewActivity{}, nil
	}

	var interactions []models.InteractionEvent
	err := database.DB.
		Where("post_id IN ?", postIDs).
		Order("created_at desc").
		Limit(limit).
		Find(&interactions).Error
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch recent activity")
		return nil, apperrors.Persistence("Failed to fetch recent activity")
	}

	actorIDs := make([]string, 0, len(interactions))
	for i := range interactions {
		actorIDs = append(actorIDs, interactions[i].UserID)
	}
	snippets := ProfileSnippets(actorIDs)

	activities := make([]models.ViewActivity, 0, len(interactions))
	for i := range interactions {
		ev := &interactions[i]
		title, ok := titles[ev.PostID]
		if !ok {
			title = "Unknown Post"
		}
		owner, ok := owners[ev.PostID]
		if !ok {
			owner = userID
		}
		activities = append(activities, models.ViewActivity{
			ID:              ev.ID,
			UserID:          ev.UserID,
			PostID:          ev.PostID,
			PostType:        ev.PostType,
			PostTitle:       title,
			PostOwnerID:     owner,
			InteractionType: ev.InteractionType,
			CreatedAt:       ev.CreatedAt,
			UserProfile:     snippets[ev.UserID],
		})
	}
	return activities, nil
}

// ActivityStats aggregates interaction counts over the user's posts. The
// recent-viewers figure counts view events in the last 24 hours, not
// distinct viewers.
func ActivityStats(userID string) (*models.ActivityStats, error) {
	postIDs, _, _ := ownedPosts(userID)
	stats := &models.ActivityStats{}
	if len(postIDs) == 0 {
		return stats, nil
	}

	stats.TotalViews = countInteractions(postIDs, models.InteractionTypeView, nil)
	stats.TotalContacts = countInteractions(postIDs, models.InteractionTypeContact, nil)
	stats.TotalInterests = countInteractions(postIDs, models.InteractionTypeInterest, nil)

	yesterday := time.Now().Add(-24 * time.Hour)
	stats.RecentViewers = countInteractions(postIDs, models.InteractionTypeView, &yesterday)

	return stats, nil
}

func countInteractions(postIDs []string, interactionType models.InteractionType, since *time.Time) int64 {
	query := database.DB.Model(&models.InteractionEvent{}).
		Where("post_id IN ? AND interaction_type = ?", postIDs, interactionType)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		// Stats degrade to zero rather than failing the dashboard.
		logger.Error().Err(err).Str("interaction_type", string(interactionType)).Msg("Failed to count interactions")
		return 0
	}
	return count
}
