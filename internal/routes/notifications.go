package routes

import (
	"github.com/araf-Mahmud-2004/NearNest/internal/handlers"
	"github.com/araf-Mahmud-2004/NearNest/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterNotificationRoutes(r gin.IRouter) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", handlers.GetNotifications)
		notifications.GET("/unread-count", handlers.GetUnreadNotificationCount)
		notifications.POST("/read-all", handlers.MarkAllNotificationsRead)
		notifications.POST("/:id/read", handlers.MarkNotificationRead)
		notifications.DELETE("/:id", handlers.DeleteNotification)
	}
}
