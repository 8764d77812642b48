package routes

import (
	"mindful-backend/handlers/tags"
	"mindful-backend/middleware"

	"github.com/gin-gonic/gin"
)

func TagsRoutes(r *gin.RouterGroup) {
	r.GET("/tags", tags.GetAllTags)
	r.POST("/tags", middleware.AdminAuth(), tags.CreateTag)
}
