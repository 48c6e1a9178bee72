package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	appconfig "github.com/araf-Mahmud-2004/NearNest/internal/config"
	"github.com/araf-Mahmud-2004/NearNest/internal/database"
	"github.com/araf-Mahmud-2004/NearNest/internal/models"
	"github.com/araf-Mahmud-2004/NearNest/internal/services"
	"github.com/araf-Mahmud-2004/NearNest/pkg/logger"
	"github.com/araf-Mahmud-2004/NearNest/pkg/utils"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,30}$`)

// --- Local Auth ---

type RegisterInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !usernameRe.MatchString(input.Username) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be 3-30 characters and contain only letters, numbers, underscores, or hyphens"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	profile := models.Profile{
		Username: input.Username,
		Email:    input.Email,
		FullName: input.FullName,
		Password: string(hashedPassword),
	}
	if err := services.CreateProfile(&profile); err != nil {
		respondError(c, err)
		return
	}

	token, err := utils.GenerateToken(profile.ID, profile.Email)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	logger.Info().Str("user_id", profile.ID).Msg("User registered")

	c.JSON(http.StatusCreated, gin.H{
		"token":   token,
		"profile": profile,
	})
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var profile models.Profile
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if result := database.DB.Where("email = ?", email).First(&profile); result.Error != nil {
		logger.Warn().Str("email", email).Msg("Login failed: user not found")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(input.Password)); err != nil {
		logger.Warn().Str("email", email).Msg("Login failed: invalid password")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateToken(profile.ID, profile.Email)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	logger.Info().Str("user_id", profile.ID).Msg("User logged in")

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"profile": profile,
	})
}

// CheckUsername reports whether a username is still free.
func CheckUsername(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username query parameter required"})
		return
	}
	available, err := services.IsUsernameAvailable(username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}

// --- Google OAuth ---

func googleOAuthConfig() *oauth2.Config {
	cfg := appconfig.AppConfig
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleCallbackURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

func GoogleLogin(c *gin.Context) {
	url := googleOAuthConfig().AuthCodeURL("state", oauth2.AccessTypeOffline)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

func GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing authorization code"})
		return
	}

	oauthCfg := googleOAuthConfig()
	oauthToken, err := oauthCfg.Exchange(context.Background(), code)
	if err != nil {
		logger.Error().Err(err).Msg("Google token exchange failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "OAuth exchange failed"})
		return
	}

	client := oauthCfg.Client(context.Background(), oauthToken)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch Google user info")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user info"})
		return
	}
	defer resp.Body.Close()

	var userInfo struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		logger.Error().Err(err).Msg("Failed to decode Google user info")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode user info"})
		return
	}

	// Look up by email; first OAuth sign-in provisions the profile.
	var profile models.Profile
	email := strings.ToLower(userInfo.Email)
	if err := database.DB.Where("email = ?", email).First(&profile).Error; err != nil {
		created := models.Profile{
			Username:  strings.ToLower(strings.SplitN(email, "@", 2)[0]),
			Email:     email,
			FullName:  userInfo.Name,
			AvatarURL: userInfo.Picture,
		}
		if err := services.CreateProfile(&created); err != nil {
			respondError(c, err)
			return
		}
		profile = created
		logger.Info().Str("user_id", profile.ID).Msg("Profile provisioned via Google OAuth")
	}

	token, err := utils.GenerateToken(profile.ID, profile.Email)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	// Hand the token back to the frontend
	c.Redirect(http.StatusTemporaryRedirect, appconfig.AppConfig.FrontendURL+"/auth/callback?token="+token)
}

// Me returns the caller's profile, creating it on first authenticated access.
func Me(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	email := c.MustGet("userEmail").(string)

	profile, err := services.EnsureProfile(userID, email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
