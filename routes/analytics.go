package routes

import (
	"mindful-backend/handlers/analytics"
	"mindful-backend/middleware"

	"github.com/gin-gonic/gin"
)

func AnalyticsRoutes(r *gin.RouterGroup) {
	analyticsRoutes := r.Group("/analytics")
	analyticsRoutes.Use(middleware.JWTAuth())
	{
		analyticsRoutes.GET("/posts", analytics.GetPostAnalytics)
		analyticsRoutes.GET("/tags", analytics.GetTagAnalytics)
		analyticsRoutes.GET("/users", analytics.GetUserAnalytics)
	}
}
