package routes

import (
	"github.com/araf-Mahmud-2004/NearNest/internal/handlers"
	"github.com/araf-Mahmud-2004/NearNest/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterMessageRoutes(r gin.IRouter) {
	messages := r.Group("/messages")
	messages.Use(middleware.AuthMiddleware())
	{
		messages.POST("", middleware.MessageRateLimit(), handlers.SendMessage)
		messages.GET("/search", handlers.SearchMessages)
		messages.GET("/unread-counts", handlers.UnreadCounts)
		messages.DELETE("/:id", handlers.DeleteMessage)
	}

	conversations := r.Group("/conversations")
	conversations.Use(middleware.AuthMiddleware())
	{
		conversations.GET("", handlers.GetConversations)
		conversations.GET("/:id/messages", handlers.GetMessages)
		conversations.POST("/:id/read", handlers.MarkConversationRead)
	}
}
