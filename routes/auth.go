package routes

import (
	"mindful-backend/handlers/auth"
	"mindful-backend/middleware"

	"github.com/gin-gonic/gin"
)

func AuthRoutes(r *gin.RouterGroup) {
	authRoutes := r.Group("/auth")
	authRoutes.POST("/register", auth.Register)
	authRoutes.POST("/login", auth.Login)

	userRoutes := authRoutes.Group("/user")
	userRoutes.Use(middleware.JWTAuth())
	{
		userRoutes.GET("", auth.GetCurrentUser)
		userRoutes.PUT("/picture", auth.UpdateProfilePicture)
	}
}
