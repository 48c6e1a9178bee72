package handlers

import (
	"net/http"

	"github.com/araf-Mahmud-2004/NearNest/internal/models"
	"github.com/araf-Mahmud-2004/NearNest/internal/services"
	"github.com/gin-gonic/gin"
)

func postTypeParam(c *gin.Context) (models.PostType, bool) {
	postType := models.PostType(c.Param("postType"))
	if postType != models.PostTypeListing && postType != models.PostTypeEvent {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post type must be 'listing' or 'event'"})
		return "", false
	}
	return postType, true
}

// ToggleInterest flips the caller's interest marker on a post. The post's
// title and owner are resolved server-side so clients cannot forge
// notification copy.
func ToggleInterest(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	postID := c.Param("postId")
	postType, ok := postTypeParam(c)
	if !ok {
		return
	}

	title, ownerID := services.PostTitleOwner(postID, postType)
	interested, err := services.ToggleInterest(userID, postID, postType, ownerID, title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"interested": interested,
		"count":      services.InterestCount(postID, postType),
	})
}

// GetInterestStatus reports whether the caller holds a marker on the post.
func GetInterestStatus(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	postID := c.Param("postId")
	postType, ok := postTypeParam(c)
	if !ok {
		return
	}

	interested, err := services.HasInterest(userID, postID, postType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interested": interested})
}

// GetPostInterests lists who marked interest on a post.
func GetPostInterests(c *gin.Context) {
	postID := c.Param("postId")
	postType, ok := postTypeParam(c)
	if !ok {
		return
	}

	interests, err := services.GetPostInterests(postID, postType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"interests": interests,
		"count":     services.InterestCount(postID, postType),
	})
}

// GetInterestCount returns the marker count only; it is cheap and cacheable.
func GetInterestCount(c *gin.Context) {
	postID := c.Param("postId")
	postType, ok := postTypeParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": services.InterestCount(postID, postType)})
}
