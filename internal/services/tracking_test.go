package services

import (
	"testing"
	"time"

	"github.com/araf-Mahmud-2004/NearNest/internal/database"
	"github.com/araf-Mahmud-2004/NearNest/internal/models"
	"github.com/stretchr/testify/assert"
)

func interactionCount() int64 {
	var count int64
	database.DB.Model(&models.InteractionEvent{}).Count(&count)
	return count
}

func TestTrackView_SkipsAnonymousAndSelf(t *testing.T) {
	SetupTestDB()
	seedProfile("owner", "owner")
	seedProfile("viewer", "viewer")
	seedListing("l1", "owner", "Old Bike")

	// Anonymous
	assert.NoError(t, TrackView("", "l1", models.PostTypeListing, "owner"))
	assert.Equal(t, int64(0), interactionCount())

	// Owner viewing their own post
	assert.NoError(t, TrackView("owner", "l1", models.PostTypeListing, "owner"))
	assert.Equal(t, int64(0), interactionCount())

	// Someone else
	assert.NoError(t, TrackView("viewer", "l1", models.PostTypeListing, "owner"))
	assert.Equal(t, int64(1), interactionCount())
}

func TestTrackContact_LogsAndNotifies(t *testing.T) {
	SetupTestDB()
	seedProfile("owner", "owner")
	seedProfile("viewer", "viewer")
	seedListing("l1", "owner", "Old Bike")

	assert.NoError(t, TrackContact("viewer", "l1", models.PostTypeListing, "owner", "email", "Old Bike"))
	assert.Equal(t, int64(1), interactionCount())

	notifications, _ := ListNotifications("owner")
	assert.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeContact, notifications[0].Type)
	assert.Equal(t, "email", notifications[0].Data.GetString("contact_method"))
}

func TestTrackContact_SelfIsDropped(t *testing.T) {
	SetupTestDB()
	seedProfile("owner", "owner")
	seedListing("l1", "owner", "Old Bike")

	assert.NoError(t, TrackContact("owner", "l1", models.PostTypeListing, "owner", "email", "Old Bike"))
	assert.Equal(t, int64(0), interactionCount())

	notifications, _ := ListNotifications("owner")
	assert.Len(t, notifications, 0)
}

func TestTrackProfileView_SelfIsDropped(t *testing.T) {
	SetupTestDB()
	seedProfile("alice", "alice")
	seedProfile("bob", "bob")

	assert.NoError(t, TrackProfileView("alice", "alice"))
	assert.Equal(t, int64(0), interactionCount())

	assert.NoError(t, TrackProfileView("alice", "bob"))
	assert.Equal(t, int64(1), interactionCount())
}

func TestRecentActivity_EnrichesTitlesAndActors(t *testing.T) {
	SetupTestDB()
	seedProfile("owner", "owner")
	viewer := seedProfile("viewer", "viewer")
	viewer.FullName = "Vera Viewer"
	database.DB.Save(viewer)
	seedListing("l1", "owner", "Old Bike")

	TrackView("viewer", "l1", models.PostTypeListing, "owner")
	time.Sleep(5 * time.Millisecond)
	TrackContact("viewer", "l1", models.PostTypeListing, "owner", "message", "Old Bike")

	activity, err := RecentActivity("owner", 10)
	assert.NoError(t, err)
	assert.Len(t, activity, 2)

	// Newest first
	assert.Equal(t, models.InteractionTypeContact, activity[0].InteractionType)
	assert.Equal(t, "Old Bike", activity[0].PostTitle)
	assert.Equal(t, "owner", activity[0].PostOwnerID)
	assert.NotNil(t, activity[0].UserProfile)
	assert.Equal(t, "Vera Viewer", activity[0].UserProfile.FullName)
}

func TestRecentActivity_NoPostsMeansEmpty(t *testing.T) {
	SetupTestDB()
	seedProfile("lurker", "lurker")

	activity, err := RecentActivity("lurker", 10)
	assert.NoError(t, err)
	assert.Empty(t, activity)
}

func TestActivityStats_Aggregates(t *testing.T) {
	SetupTestDB()
	seedProfile("owner", "owner")
	seedProfile("a", "a")
	seedProfile("b", "b")
	seedListing("l1", "owner", "Old Bike")

	TrackView("a", "l1", models.PostTypeListing, "owner")
	TrackView("b", "l1", models.PostTypeListing, "owner")
	TrackContact("a", "l1", models.PostTypeListing, "owner", "email", "Old Bike")
	TrackInterest("b", "l1", models.PostTypeListing, "owner", "Old Bike")

	stats, err := ActivityStats("owner")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalViews)
	assert.Equal(t, int64(1), stats.TotalContacts)
	assert.Equal(t, int64(1), stats.TotalInterests)
	// Both views happened inside the 24h window.
	assert.Equal(t, int64(2), stats.RecentViewers)
}

func TestActivityStats_NoPosts(t *testing.T) {
	SetupTestDB()
	seedProfile("lurker", "lurker")

	stats, err := ActivityStats("lurker")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalViews)
	assert.Equal(t, int64(0), stats.RecentViewers)
}
