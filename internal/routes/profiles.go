package routes

import (
	"github.com/araf-Mahmud-2004/NearNest/internal/handlers"
	"github.com/araf-Mahmud-2004/NearNest/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterProfileRoutes(r gin.IRouter) {
	profiles := r.Group("/profiles")
	{
		// Viewing with a token records a profile view.
		profiles.GET("/:id", middleware.OptionalAuthMiddleware(), handlers.GetProfile)
		profiles.PUT("/me", middleware.AuthMiddleware(), handlers.UpdateProfile)
	}
}
