package services

import (
	"github.com/araf-Mahmud-2004/NearNest/internal/database"
	"github.com/araf-Mahmud-2004/NearNest/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB initializes an in-memory SQLite DB for testing. TranslateError
// must be on so unique-index violations surface as gorm.ErrDuplicatedKey the
// same way they do against Postgres.
func SetupTestDB() {
	db, _ := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	database.DB = db

	// Fresh tables per test
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

func seedProfile(id, username string) *models.Profile {
	p := &models.Profile{
		ID:       id,
		Username: username,
		Email:    username + "@example.com",
		FullName: "",
	}
	database.DB.Create(p)
	return p
}

func seedListing(id, ownerID, title string) *models.Listing {
	l := &models.Listing{
		ID:     id,
		Title:  title,
		UserID: ownerID,
	}
	database.DB.Create(l)
	return l
}
