package handlers

import (
	"net/http"

	"github.com/araf-Mahmud-2004/NearNest/internal/services"
	"github.com/gin-gonic/gin"
)

// --- Listings ---

func CreateListing(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var input services.ListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := services.CreateListing(userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

func GetListing(c *gin.Context) {
	listing, err := services.GetListing(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func UpdateListing(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var input services.ListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := services.UpdateListing(userID, c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func DeleteListing(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	if err := services.DeleteListing(userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Listing deleted"})
}

// ListListings serves the public feed, or a search when ?q= is present.
func ListListings(c *gin.Context) {
	if q := c.Query("q"); q != "" {
		listings, err := services.SearchListings(q)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, listings)
		return
	}

	listings, err := services.ListListings()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

func MyListings(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	listings, err := services.ListUserListings(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

// --- Events ---

func CreateEvent(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var input services.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := services.CreateEvent(userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func GetEvent(c *gin.Context) {
	event, err := services.GetEvent(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func UpdateEvent(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var input services.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := services.UpdateEvent(userID, c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func DeleteEvent(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	if err := services.DeleteEvent(userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}

func ListEvents(c *gin.Context) {
	if q := c.Query("q"); q != "" {
		events, err := services.SearchEvents(q)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, events)
		return
	}

	events, err := services.ListEvents()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func MyEvents(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	events, err := services.ListUserEvents(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}
