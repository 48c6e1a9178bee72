package routes

import (
	"github.com/araf-Mahmud-2004/NearNest/internal/handlers"
	"github.com/araf-Mahmud-2004/NearNest/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterPostRoutes(r gin.IRouter) {
	listings := r.Group("/listings")
	{
		// Specific paths first, wildcard last
		listings.GET("/mine", middleware.AuthMiddleware(), handlers.MyListings)
		listings.GET("", handlers.ListListings)
		listings.GET("/:id", handlers.GetListing)

		listings.POST("", middleware.AuthMiddleware(), handlers.CreateListing)
		listings.PUT("/:id", middleware.AuthMiddleware(), handlers.UpdateListing)
		listings.DELETE("/:id", middleware.AuthMiddleware(), handlers.DeleteListing)
	}

	events := r.Group("/events")
	{
		events.GET("/mine", middleware.AuthMiddleware(), handlers.MyEvents)
		events.GET("", handlers.ListEvents)
		events.GET("/:id", handlers.GetEvent)

		events.POST("", middleware.AuthMiddleware(), handlers.CreateEvent)
		events.PUT("/:id", middleware.AuthMiddleware(), handlers.UpdateEvent)
		events.DELETE("/:id", middleware.AuthMiddleware(), handlers.DeleteEvent)
	}
}
