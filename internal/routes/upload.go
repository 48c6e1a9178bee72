package routes

import (
	"github.com/araf-Mahmud-2004/NearNest/internal/handlers"
	"github.com/araf-Mahmud-2004/NearNest/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterUploadRoutes(r gin.IRouter) {
	upload := r.Group("/upload")
	upload.Use(middleware.AuthMiddleware())
	{
		upload.POST("", handlers.UploadFile)
		upload.POST("/avatar", handlers.UploadAvatar)
		upload.POST("/listing-image", handlers.UploadListingImage)
		upload.POST("/event-image", handlers.UploadEventImage)
	}
}
