package routes

import (
	"github.com/araf-Mahmud-2004/NearNest/internal/handlers"
	"github.com/araf-Mahmud-2004/NearNest/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterAuthRoutes(r gin.IRouter) {
	auth := r.Group("/auth")
	auth.Use(middleware.AuthRateLimit())
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
		auth.GET("/check-username", handlers.CheckUsername)

		auth.GET("/google", handlers.GoogleLogin)
		auth.GET("/google/callback", handlers.GoogleCallback)

		auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
	}
}
