package routes

import (
	"github.com/araf-Mahmud-2004/NearNest/internal/handlers"
	"github.com/araf-Mahmud-2004/NearNest/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterActivityRoutes(r gin.IRouter) {
	activity := r.Group("/activity")
	{
		// Views may come from anonymous visitors.
		activity.POST("/view", middleware.OptionalAuthMiddleware(), handlers.TrackView)

		activity.POST("/contact", middleware.AuthMiddleware(), handlers.TrackContact)
		activity.POST("/interest", middleware.AuthMiddleware(), handlers.TrackInterest)
		activity.GET("/recent", middleware.AuthMiddleware(), handlers.GetRecentActivity)
		activity.GET("/stats", middleware.AuthMiddleware(), handlers.GetActivityStats)
	}
}
