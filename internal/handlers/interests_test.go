package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/araf-Mahmud-2004/NearNest/internal/database"
	"github.com/araf-Mahmud-2004/NearNest/internal/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB initializes an in-memory SQLite DB for testing.
func SetupTestDB() {
	db, _ := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	database.DB = db
	database.DB.Migrator().DropTable(
		&models.Profile{},
		&models.Listing{},
		&models.Event{},
		&models.Interest{},
		&models.Conversation{},
		&models.Message{},
		&models.Notification{},
		&models.InteractionEvent{},
	)
	database.DB.AutoMigrate(
		&models.Profile{},
		&models.Listing{},
		&models.Event{},
		&models.Interest{},
		&models.Conversation{},
		&models.Message{},
		&models.Notification{},
		&models.InteractionEvent{},
	)
}

func TestToggleInterestHandler(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	database.DB.Create(&models.Profile{ID: "owner", Username: "owner", Email: "owner@example.com"})
	database.DB.Create(&models.Profile{ID: "viewer", Username: "viewer", Email: "viewer@example.com"})
	database.DB.Create(&models.Listing{ID: "l1", Title: "Old Bike", UserID: "owner"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/interests/listing/l1/toggle", nil)
	c.Params = gin.Params{
		{Key: "postType", Value: "listing"},
		{Key: "postId", Value: "l1"},
	}
	c.Set("userId", "viewer")

	ToggleInterest(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Interested bool  `json:"interested"`
		Count      int64 `json:"count"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.True(t, response.Interested)
	assert.Equal(t, int64(1), response.Count)

	// The owner got notified with the real title, not client-supplied copy.
	var notification models.Notification
	err := database.DB.Where("user_id = ?", "owner").First(&notification).Error
	assert.NoError(t, err)
	assert.Equal(t, "Old Bike", notification.Data.GetString("post_title"))
}

func TestToggleInterestHandler_RejectsBadPostType(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/interests/bogus/l1/toggle", nil)
	c.Params = gin.Params{
		{Key: "postType", Value: "bogus"},
		{Key: "postId", Value: "l1"},
	}
	c.Set("userId", "viewer")

	ToggleInterest(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
