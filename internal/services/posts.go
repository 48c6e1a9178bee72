package services

import (
	"errors"

	"github.com/araf-Mahmud-2004/NearNest/internal/database"
	"github.com/araf-Mahmud-2004/NearNest/internal/models"
	"github.com/araf-Mahmud-2004/NearNest/internal/realtime"
	apperrors "github.com/araf-Mahmud-2004/NearNest/pkg/errors"
	"github.com/araf-Mahmud-2004/NearNest/pkg/logger"
	"gorm.io/gorm"
)

// ListingInput carries the user-editable listing fields.
type ListingInput struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Location    string  `json:"location"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
}

// EventInput carries the user-editable event fields.
type EventInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	ImageURL    string `json:"image_url"`
}

func CreateListing(userID string, input ListingInput) (*models.Listing, error) {
	if userID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	listing := &models.Listing{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Location:    input.Location,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		UserID:      userID,
	}
	if err := database.DB.Create(listing).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to create listing")
		return nil, apperrors.Persistence("Failed to create listing")
	}
	realtime.Publish(realtime.ListingsChannel, realtime.NewEvent(realtime.KindListingUpdate, realtime.ChangeInsert, listing))
	return listing, nil
}

func GetListing(id string) (*models.Listing, error) {
	var listing models.Listing
	if err := database.DB.First(&listing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Listing not found")
		}
		logger.Error().Err(err).Str("listing_id", id).Msg("Failed to fetch listing")
		return nil, apperrors.Persistence("Failed to fetch listing")
	}
	return &listing, nil
}

// UpdateListing applies a patch to an owned listing. CreatedAt is never
// touched.
func UpdateListing(userID, id string, input ListingInput) (*models.Listing, error) {
	listing, err := GetListing(id)
	if err != nil {
		return nil, err
	}
	if listing.UserID != userID {
		return nil, apperrors.ErrForbidden
	}

	updates := map[string]interface{}{
		"title":       input.Title,
		"description": input.Description,
		"category":    input.Category,
		"location":    input.Location,
		"price":       input.Price,
		"image_url":   input.ImageURL,
	}
	if err := database.DB.Model(listing).Updates(updates).Error; err != nil {
		logger.Error().Err(err).Str("listing_id", id).Msg("Failed to update listing")
		return nil, apperrors.Persistence("Failed to update listing")
	}
	realtime.Publish(realtime.ListingsChannel, realtime.NewEvent(realtime.KindListingUpdate, realtime.ChangeUpdate, listing))
	return listing, nil
}

func DeleteListing(userID, id string) error {
	listing, err := GetListing(id)
	if err != nil {
		return err
	}
	if listing.UserID != userID {
		return apperrors.ErrForbidden
	}
	if err := database.DB.Delete(&models.Listing{}, "id = ?", id).Error; err != nil {
		logger.Error().Err(err).Str("listing_id", id).Msg("Failed to delete listing")
		return apperrors.Persistence("Failed to delete listing")
	}
	realtime.Publish(realtime.ListingsChannel, realtime.NewEvent(realtime.KindListingUpdate, realtime.ChangeDelete, listing))
	return nil
}

// ListListings returns all listings newest-first with owner profile snippets
// attached via one batched lookup.
func ListListings() ([]models.Listing, error) {
	var listings []models.Listing
	if err := database.DB.Order("created_at desc").Find(&listings).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to list listings")
		return nil, apperrors.Persistence("Failed to fetch listings")
	}
	attachListingProfiles(listings)
	return listings, nil
}

func ListUserListings(userID string) ([]models.Listing, error) {
	var listings []models.Listing
	if err := database.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&listings).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to list user listings")
		return nil, apperrors.Persistence("Failed to fetch listings")
	}
	attachListingProfiles(listings)
	return listings, nil
}

// SearchListings matches a case-insensitive substring over title,
// description and category.
func SearchListings(query string) ([]models.Listing, error) {
	pattern := "%" + query + "%"
	var listings []models.Listing
	err := database.DB.
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?) OR LOWER(category) LIKE LOWER(?)",
			pattern, pattern, pattern).
		Order("created_at desc").
		Find(&listings).Error
	if err != nil {
		logger.Error().Err(err).Msg("Failed to search listings")
		return nil, apperrors.Persistence("Failed to search listings")
	}
	attachListingProfiles(listings)
	return listings, nil
}

func attachListingProfiles(listings []models.Listing) {
	ids := make([]string, 0, len(listings))
	for i := range listings {
		ids = append(ids, listings[i].UserID)
	}
	snippets := ProfileSnippets(ids)
	for i := range listings {
		listings[i].UserProfile = snippets[listings[i].UserID]
	}
}

func CreateEvent(userID string, input EventInput) (*models.Event, error) {
	if userID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	event := &models.Event{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Location:    input.Location,
		Date:        input.Date,
		Time:        input.Time,
		ImageURL:    input.ImageURL,
		UserID:      userID,
	}
	if err := database.DB.Create(event).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to create event")
		return nil, apperrors.Persistence("Failed to create event")
	}
	realtime.Publish(realtime.EventsChannel, realtime.NewEvent(realtime.KindEventUpdate, realtime.ChangeInsert, event))
	return event, nil
}

func GetEvent(id string) (*models.Event, error) {
	var event models.Event
	if err := database.DB.First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Event not found")
		}
		logger.Error().Err(err).Str("event_id", id).Msg("Failed to fetch event")
		return nil, apperrors.Persistence("Failed to fetch event")
	}
	return &event, nil
}

func UpdateEvent(userID, id string, input EventInput) (*models.Event, error) {
	event, err := GetEvent(id)
	if err != nil {
		return nil, err
	}
	if event.UserID != userID {
		return nil, apperrors.ErrForbidden
	}

	updates := map[string]interface{}{
		"title":       input.Title,
		"description": input.Description,
		"category":    input.Category,
		"location":    input.Location,
		"date":        input.Date,
		"time":        input.Time,
		"image_url":   input.ImageURL,
	}
	if err := database.DB.Model(event).Updates(updates).Error; err != nil {
		logger.Error().Err(err).Str("event_id", id).Msg("Failed to update event")
		return nil, apperrors.Persistence("Failed to update event")
	}
	realtime.Publish(realtime.EventsChannel, realtime.NewEvent(realtime.KindEventUpdate, realtime.ChangeUpdate, event))
	return event, nil
}

func DeleteEvent(userID, id string) error {
	event, err := GetEvent(id)
	if err != nil {
		return err
	}
	if event.UserID != userID {
		return apperrors.ErrForbidden
	}
	if err := database.DB.Delete(&models.Event{}, "id = ?", id).Error; err != nil {
		logger.Error().Err(err).Str("event_id", id).Msg("Failed to delete event")
		return apperrors.Persistence("Failed to delete event")
	}
	realtime.Publish(realtime.EventsChannel, realtime.NewEvent(realtime.KindEventUpdate, realtime.ChangeDelete, event))
	return nil
}

func ListEvents() ([]models.Event, error) {
	var events []models.Event
	if err := database.DB.Order("created_at desc").Find(&events).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to list events")
		return nil, apperrors.Persistence("Failed to fetch events")
	}
	attachEventProfiles(events)
	return events, nil
}

func ListUserEvents(userID string) ([]models.Event, error) {
	var events []models.Event
	if err := database.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&events).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to list user events")
		return nil, apperrors.Persistence("Failed to fetch events")
	}
	attachEventProfiles(events)
	return events, nil
}

func SearchEvents(query string) ([]models.Event, error) {
	pattern := "%" + query + "%"
	var events []models.Event
	err := database.DB.
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?) OR LOWER(category) LIKE LOWER(?)",
			pattern, pattern, pattern).
		Order("created_at desc").
		Find(&events).Error
	if err != nil {
		logger.Error().Err(err).Msg("Failed to search events")
		return nil, apperrors.Persistence("Failed to search events")
	}
	attachEventProfiles(events)
	return events, nil
}

func attachEventProfiles(events []models.Event) {
	ids := make([]string, 0, len(events))
	for i := range events {
		ids = append(ids, events[i].UserID)
	}
	snippets := ProfileSnippets(ids)
	for i := range events {
		events[i].UserProfile = snippets[events[i].UserID]
	}
}

// PostTitleOwner resolves a post's title and owner for notification copy and
// activity enrichment, regardless of post kind.
func PostTitleOwner(postID string, postType models.PostType) (string, string) {
	switch postType {
	case models.PostTypeEvent:
		if event, err := GetEvent(postID); err == nil {
			return event.Title, event.UserID
		}
	default:
		if listing, err := GetListing(postID); err == nil {
			return listing.Title, listing.UserID
		}
	}
	return "Unknown Post", ""
}
