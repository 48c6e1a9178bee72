package routes

import (
	"github.com/araf-Mahmud-2004/NearNest/internal/handlers"
	"github.com/araf-Mahmud-2004/NearNest/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterInterestRoutes(r gin.IRouter) {
	interests := r.Group("/interests/:postType/:postId")
	{
		interests.GET("/count", handlers.GetInterestCount)
		interests.GET("", handlers.GetPostInterests)

		interests.POST("/toggle", middleware.AuthMiddleware(), handlers.ToggleInterest)
		interests.GET("/status", middleware.AuthMiddleware(), handlers.GetInterestStatus)
	}
}
