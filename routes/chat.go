package routes

import (
	"mindful-backend/handlers/chat"
	"mindful-backend/middleware"

	"github.com/gin-gonic/gin"
)

func ChatRoutes(r *gin.RouterGroup, limiter *middleware.IPRateLimiter) {
	chatRoutes := r.Group("/chat")
	chatRoutes.Use(middleware.JWTAuth())
	{
		chatRoutes.GET("/messages", chat.GetMessages)
		chatRoutes.POST("/messages", middleware.RateLimit(limiter), chat.SendMessage)
	}
}
