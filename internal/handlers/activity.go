package handlers

import (
	"net/http"
	"strconv"

	"github.com/araf-Mahmud-2004/NearNest/internal/models"
	"github.com/araf-Mahmud-2004/NearNest/internal/services"
	"github.com/gin-gonic/gin"
)

type trackInput struct {
	PostID        string          `json:"post_id" binding:"required"`
	PostType      models.PostType `json:"post_type" binding:"required"`
	ContactMethod string          `json:"contact_method"`
}

func (in *trackInput) valid(c *gin.Context) bool {
	if in.PostType != models.PostTypeListing && in.PostType != models.PostTypeEvent {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post type must be 'listing' or 'event'"})
		return false
	}
	return true
}

// TrackView records that the caller looked at a post. Anonymous and
// owner-on-own-post views are accepted and silently dropped.
func TrackView(c *gin.Context) {
	var input trackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !input.valid(c) {
		return
	}

	userID := ""
	if id, exists := c.Get("userId"); exists {
		userID = id.(string)
	}

	_, ownerID := services.PostTitleOwner(input.PostID, input.PostType)
	if err := services.TrackView(userID, input.PostID, input.PostType, ownerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "View tracked"})
}

// TrackContact records a contact attempt and notifies the post owner.
func TrackContact(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var input trackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !input.valid(c) {
		return
	}

	title, ownerID := services.PostTitleOwner(input.PostID, input.PostType)
	if err := services.TrackContact(userID, input.PostID, input.PostType, ownerID, input.ContactMethod, title); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact tracked"})
}

// TrackInterest records an interest interaction and notifies the post owner.
func TrackInterest(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var input trackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !input.valid(c) {
		return
	}

	title, ownerID := services.PostTitleOwner(input.PostID, input.PostType)
	if err := services.TrackInterest(userID, input.PostID, input.PostType, ownerID, title); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Interest tracked"})
}

// GetRecentActivity returns the latest interactions on the caller's posts.
func GetRecentActivity(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	activity, err := services.RecentActivity(userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, activity)
}

// GetActivityStats aggregates interaction counts for the caller's dashboard.
func GetActivityStats(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	stats, err := services.ActivityStats(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
