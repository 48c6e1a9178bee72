package services

import (
	"errors"
	"strings"

	"github.com/araf-Mahmud-2004/NearNest/internal/database"
	"github.com/araf-Mahmud-2004/NearNest/internal/models"
	"github.com/araf-Mahmud-2004/NearNest/internal/realtime"
	apperrors "github.com/araf-Mahmud-2004/NearNest/pkg/errors"
	"github.com/araf-Mahmud-2004/NearNest/pkg/logger"
	"gorm.io/gorm"
)

// ProfileUpdate is the patch a user may apply to their own profile row.
type ProfileUpdate struct {
	Username  *string `json:"username,omitempty"`
	FullName  *string `json:"full_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

// CreateProfile inserts a profile row. Username and email are normalized to
// lowercase; uniqueness violations come back as friendly errors.
func CreateProfile(profile *models.Profile) error {
	profile.Username = strings.ToLower(strings.TrimSpace(profile.Username))
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))

	if profile.Username == "" {
		return apperrors.BadRequest("Username is required")
	}
	if profile.Email == "" {
		return apperrors.BadRequest("Email is required")
	}

	if err := database.DB.Create(profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.BadRequest("Username or email is already taken")
		}
		logger.Error().Err(err).Msg("Failed to create profile")
		return apperrors.Persistence("Failed to create profile")
	}
	return nil
}

// GetProfile fetches a profile row by id.
func GetProfile(userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := database.DB.First(&profile, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Profile not found")
		}
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch profile")
		return nil, apperrors.Persistence("Failed to fetch profile")
	}
	return &profile, nil
}

// EnsureProfile guarantees a profile row exists for an authenticated
// identity, creating one from the account's email when missing
// (upsert-on-read).
func EnsureProfile(userID, email string) (*models.Profile, error) {
	profile, err := GetProfile(userID)
	if err == nil {
		return profile, nil
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Kind != apperrors.KindNotFound {
		return nil, err
	}

	username := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	created := &models.Profile{
		ID:       userID,
		Username: username,
		Email:    strings.ToLower(email),
	}
	if err := database.DB.Create(created).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with another request for the same identity, or the
			// derived username is taken; re-read covers the former.
			if existing, rerr := GetProfile(userID); rerr == nil {
				return existing, nil
			}
			return nil, apperrors.BadRequest("Username is already taken")
		}
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to ensure profile")
		return nil, apperrors.Persistence("Failed to create profile")
	}
	return created, nil
}

// UpdateProfile applies a patch to the caller's own profile row and emits a
// profile_update change event.
func UpdateProfile(userID string, patch ProfileUpdate) (*models.Profile, error) {
	updates := map[string]interface{}{}
	if patch.Username != nil {
		updates["username"] = strings.ToLower(strings.TrimSpace(*patch.Username))
	}
	if patch.FullName != nil {
		updates["full_name"] = *patch.FullName
	}
	if patch.AvatarURL != nil {
		updates["avatar_url"] = *patch.AvatarURL
	}
	if patch.Bio != nil {
		updates["bio"] = *patch.Bio
	}

	if len(updates) > 0 {
		err := database.DB.Model(&models.Profile{}).Where("id = ?", userID).Updates(updates).Error
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperrors.BadRequest("Username is already taken")
			}
			logger.Error().Err(err).Str("user_id", userID).Msg("Failed to update profile")
			return nil, apperrors.Persistence("Failed to update profile")
		}
	}

	profile, err := GetProfile(userID)
	if err != nil {
		return nil, err
	}
	realtime.Publish(realtime.ProfilesChannel, realtime.NewEvent(realtime.KindProfileUpdate, realtime.ChangeUpdate, profile))
	return profile, nil
}

// IsUsernameAvailable reports whether no profile holds the username.
func IsUsernameAvailable(username string) (bool, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	var count int64
	err := database.DB.Model(&models.Profile{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		logger.Error().Err(err).Msg("Failed to check username availability")
		return false, apperrors.Persistence("Failed to check username")
	}
	return count == 0, nil
}

// ProfileSnippets batch-loads profile snippets for an id set. Missing ids are
// simply absent from the map; callers render nil for deleted profiles. This
// replaces per-row profile lookups everywhere enrichment is needed.
func ProfileSnippets(ids []string) map[string]*models.ProfileSnippet {
	snippets := make(map[string]*models.ProfileSnippet)
	if len(ids) == 0 {
		return snippets
	}

	seen := make(map[string]struct{}, len(ids))
	unique := ids[:0:0]
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	var profiles []models.Profile
	if err := database.DB.Where("id IN ?", unique).Find(&profiles).Error; err != nil {
		// Enrichment degrades to bare rows rather than failing the caller.
		logger.Error().Err(err).Msg("Failed to batch-load profile snippets")
		return snippets
	}
	for i := range profiles {
		snippets[profiles[i].ID] = profiles[i].Snippet()
	}
	return snippets
}

// DisplayNameFor resolves the name used in notification copy.
func DisplayNameFor(userID string) string {
	snippets := ProfileSnippets([]string{userID})
	if s, ok := snippets[userID]; ok {
		return s.DisplayName()
	}
	return "Someone"
}
