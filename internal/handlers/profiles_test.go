package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/araf-Mahmud-2004/NearNest/internal/database"
	"github.com/araf-Mahmud-2004/NearNest/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

const (
	testProfileOwner  = "11111111-1111-1111-1111-111111111111"
	testProfileViewer = "22222222-2222-2222-2222-222222222222"
)

func getProfileAs(viewerID, profileID string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/api/profiles/"+profileID, nil)
	c.Params = gin.Params{{Key: "id", Value: profileID}}
	if viewerID != "" {
		c.Set("userId", viewerID)
	}
	GetProfile(c)
	return w
}

func TestGetProfileHandler_RecordsView(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	database.DB.Create(&models.Profile{ID: testProfileOwner, Username: "owner", Email: "owner@example.com"})
	database.DB.Create(&models.Profile{ID: testProfileViewer, Username: "viewer", Email: "viewer@example.com"})

	w := getProfileAs(testProfileViewer, testProfileOwner)
	assert.Equal(t, http.StatusOK, w.Code)

	var interaction models.InteractionEvent
	err := database.DB.
		Where("user_id = ? AND post_id = ? AND interaction_type = ?",
			testProfileViewer, testProfileOwner, models.InteractionTypeProfileView).
		First(&interaction).Error
	assert.NoError(t, err)
}

func TestGetProfileHandler_TrackingFailureDoesNotFailRequest(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	database.DB.Create(&models.Profile{ID: testProfileOwner, Username: "owner", Email: "owner@example.com"})
	database.DB.Create(&models.Profile{ID: testProfileViewer, Username: "viewer", Email: "viewer@example.com"})

	// Break the interaction log; the profile must still be served.
	database.DB.Migrator().DropTable(&models.InteractionEvent{})

	w := getProfileAs(testProfileViewer, testProfileOwner)
	assert.Equal(t, http.StatusOK, w.Code)
}
