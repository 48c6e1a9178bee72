package handlers

import (
	"net/http"

	"github.com/araf-Mahmud-2004/NearNest/internal/services"
	"github.com/araf-Mahmud-2004/NearNest/pkg/logger"
	"github.com/araf-Mahmud-2004/NearNest/pkg/utils"
	"github.com/gin-gonic/gin"
)

// GetProfile returns any user's public profile. A signed-in viewer looking at
// someone else's profile is recorded as a profile view.
func GetProfile(c *gin.Context) {
	profileID := c.Param("id")
	if !utils.IsValidUUID(profileID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile id"})
		return
	}

	profile, err := services.GetProfile(profileID)
	if err != nil {
		respondError(c, err)
		return
	}

	if viewerID, exists := c.Get("userId"); exists {
		// The response does not depend on the view being recorded.
		if err := services.TrackProfileView(viewerID.(string), profileID); err != nil {
			logger.Warn().Err(err).Str("profile_id", profileID).Msg("Failed to record profile view")
		}
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile patches the caller's own profile.
func UpdateProfile(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var patch services.ProfileUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := services.UpdateProfile(userID, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
